package store

import (
	"context"

	"github.com/mwantia/joinpractice/pkg/db/migrations"
	"gorm.io/gorm"
)

// Store defines the database lifecycle the seeding routine and the join
// query catalogue run on top of
type Store interface {
	// Lifecycle
	Connect(ctx context.Context) error
	Close() error
	Health(ctx context.Context) error
	DB() *gorm.DB

	// Schema
	Migrate(ctx context.Context) (int, error)
	Rollback(ctx context.Context) (*migrations.MigrationStatus, error)
	MigrationStatus(ctx context.Context) ([]migrations.MigrationStatus, error)

	// Inspection
	Counts(ctx context.Context) (*Counts, error)
}

// Counts holds the number of rows per table
type Counts struct {
	Blogs       int64 `json:"blogs"        yaml:"blogs"`
	BlogHeaders int64 `json:"blog_headers" yaml:"blog_headers"`
	Posts       int64 `json:"posts"        yaml:"posts"`
	Tags        int64 `json:"tags"         yaml:"tags"`
	PostTags    int64 `json:"post_tags"    yaml:"post_tags"`
	Comments    int64 `json:"comments"     yaml:"comments"`
}
