// Package query holds the join query catalogue. Every query is expressed in
// three equivalent styles that must return the same result:
//
//   - preload: navigation properties loaded with GORM's Preload
//   - sql: a hand-written SQL statement passed to Raw
//   - builder: a GORM method chain of Model, Select, Joins and Order
//
// Results are ordered by the primary key of the root entity, then by the
// primary key of the joined entity.
package query

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mwantia/joinpractice/pkg/db/dberr"
	"github.com/mwantia/joinpractice/pkg/log"
	"gorm.io/gorm"
)

var (
	ErrUnknownQuery = errors.New("unknown query")
	ErrUnknownStyle = errors.New("unknown query style")
)

type Style string

const (
	StylePreload Style = "preload"
	StyleSQL     Style = "sql"
	StyleBuilder Style = "builder"
)

// Styles returns every supported style
func Styles() []Style {
	return []Style{StylePreload, StyleSQL, StyleBuilder}
}

func ParseStyle(value string) (Style, error) {
	style := Style(strings.ToLower(strings.TrimSpace(value)))
	for _, s := range Styles() {
		if s == style {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStyle, value)
}

type Relationship string

const (
	OneToOne   Relationship = "one-to-one"
	OneToMany  Relationship = "one-to-many"
	ManyToOne  Relationship = "many-to-one"
	ManyToMany Relationship = "many-to-many"
)

type Join string

const (
	LeftJoin  Join = "left"
	InnerJoin Join = "inner"
)

// Definition describes one catalogue entry
type Definition struct {
	Name         string       `json:"name"         yaml:"name"`
	Relationship Relationship `json:"relationship" yaml:"relationship"`
	Join         Join         `json:"join"         yaml:"join"`
	Description  string       `json:"description"  yaml:"description"`

	exec func(tx *gorm.DB, style Style) (any, *gorm.DB, error)
}

// variants maps every style to a function that runs the query on tx and
// stores the assembled result in out
type variants[T any] map[Style]func(tx *gorm.DB, out *[]T) *gorm.DB

func (v variants[T]) run(tx *gorm.DB, style Style) ([]T, *gorm.DB, error) {
	fn, ok := v[style]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownStyle, style)
	}

	out := []T{}
	result := fn(tx, &out)
	return out, result, nil
}

// exec is run with the result boxed for callers that do not know T
func (v variants[T]) exec(tx *gorm.DB, style Style) (any, *gorm.DB, error) {
	out, result, err := v.run(tx, style)
	return out, result, err
}

func define[T any](name string, rel Relationship, join Join, description string, v variants[T]) Definition {
	return Definition{
		Name:         name,
		Relationship: rel,
		Join:         join,
		Description:  description,
		exec:         v.exec,
	}
}

var definitions = []Definition{
	define("blogs-posts-left", OneToMany, LeftJoin, "Every blog with its posts, blogs without posts included", blogsPostsLeft),
	define("blogs-posts-inner", OneToMany, InnerJoin, "Only blogs that have at least one post", blogsPostsInner),
	define("blogs-header-left", OneToOne, LeftJoin, "Every blog with its header, blogs without header included", blogsHeaderLeft),
	define("blogs-header-inner", OneToOne, InnerJoin, "Only blogs that have a header", blogsHeaderInner),
	define("posts-blog-left", ManyToOne, LeftJoin, "Every post with its blog, posts without blog included", postsBlogLeft),
	define("posts-blog-inner", ManyToOne, InnerJoin, "Only posts that belong to a blog", postsBlogInner),
	define("posts-tags-left", ManyToMany, LeftJoin, "Every post with its tags resolved through post_tags", postsTagsLeft),
	define("posts-tags-inner", ManyToMany, InnerJoin, "Only posts that have at least one tag", postsTagsInner),
	define("posts-comments-left", OneToMany, LeftJoin, "Every post with its comments, posts without comments included", postsCommentsLeft),
}

// Definitions returns every catalogue entry in display order
func Definitions() []Definition {
	out := make([]Definition, len(definitions))
	copy(out, definitions)
	return out
}

func Lookup(name string) (Definition, error) {
	for _, def := range definitions {
		if def.Name == name {
			return def, nil
		}
	}
	return Definition{}, fmt.Errorf("%w: %q", ErrUnknownQuery, name)
}

// Catalogue runs the join queries against a database. It never writes.
type Catalogue struct {
	db  *gorm.DB
	log log.LoggerService
}

func New(db *gorm.DB, logger log.LoggerService) *Catalogue {
	return &Catalogue{
		db:  db,
		log: logger.Named("query"),
	}
}

// Run executes the named query in the given style. The result is a
// []models.Blog or []models.Post depending on the root entity.
func (c *Catalogue) Run(ctx context.Context, name string, style Style) (any, error) {
	def, err := Lookup(name)
	if err != nil {
		return nil, err
	}

	return c.run(ctx, def.Name, def.exec, style)
}

// SQL renders the statement the named query sends for its root entity without
// touching the database. Preloaded associations run as separate statements
// and are not part of the output.
func (c *Catalogue) SQL(name string, style Style) (string, error) {
	def, err := Lookup(name)
	if err != nil {
		return "", err
	}

	var execErr error
	statement := c.db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		_, result, err := def.exec(tx, style)
		if err != nil {
			execErr = err
			return tx
		}
		return result
	})
	if execErr != nil {
		return "", execErr
	}

	return strings.TrimSpace(statement), nil
}

func execute[T any](ctx context.Context, c *Catalogue, name string, v variants[T], style Style) ([]T, error) {
	out, err := c.run(ctx, name, v.exec, style)
	if err != nil {
		return nil, err
	}
	return out.([]T), nil
}

// run logs, executes and classifies the failure of a single query
func (c *Catalogue) run(ctx context.Context, name string, exec func(*gorm.DB, Style) (any, *gorm.DB, error), style Style) (any, error) {
	c.log.Debug("Running '%s' with style '%s'", name, style)

	out, result, err := exec(c.db.WithContext(ctx), style)
	if err != nil {
		return nil, err
	}
	if result.Error != nil {
		return nil, dberr.Classify("query", name, result.Error)
	}
	return out, nil
}

// orderBy returns a preload condition sorting the association by its key
func orderBy(column string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(column)
	}
}
