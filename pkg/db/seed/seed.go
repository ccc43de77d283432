package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mwantia/joinpractice/pkg/db/dberr"
	"github.com/mwantia/joinpractice/pkg/db/models"
	"github.com/mwantia/joinpractice/pkg/log"
	"gorm.io/gorm"
)

// Seeder clears and repopulates the schema inside a single transaction
type Seeder struct {
	db  *gorm.DB
	log log.LoggerService
	now func() time.Time
}

func NewSeeder(db *gorm.DB, logger log.LoggerService) *Seeder {
	return &Seeder{
		db:  db,
		log: logger.Named("seed"),
		now: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Seed replaces all rows with the default dataset
func (s *Seeder) Seed(ctx context.Context) error {
	return s.Run(ctx, Default())
}

// Run clears every table and inserts data. Any failure rolls back the whole
// run and leaves the previous rows untouched.
func (s *Seeder) Run(ctx context.Context, data Dataset) error {
	runID := uuid.NewString()
	s.log.Info("Starting seed run %s", runID)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.clear(tx); err != nil {
			return err
		}

		tags, err := s.createTags(tx, data.Tags)
		if err != nil {
			return err
		}

		for _, blog := range data.Blogs {
			if err := s.createBlog(tx, blog, tags); err != nil {
				return err
			}
		}

		for _, post := range data.Posts {
			if err := s.createPost(tx, nil, post, tags); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		s.log.Error("Seed run %s rolled back: %v", runID, err)
		return dberr.Transaction("seed", err)
	}

	s.log.Info("Seed run %s committed", runID)
	return nil
}

// clear deletes children before parents so foreign keys stay satisfied
func (s *Seeder) clear(tx *gorm.DB) error {
	all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})

	targets := []struct {
		entity string
		model  any
	}{
		{"comments", &models.Comment{}},
		{"post tags", &models.PostTag{}},
		{"posts", &models.Post{}},
		{"blogs", &models.Blog{}},
		{"blog headers", &models.BlogHeader{}},
		{"tags", &models.Tag{}},
	}

	for _, target := range targets {
		result := all.Delete(target.model)
		if result.Error != nil {
			return dberr.Classify("clear", target.entity, result.Error)
		}
		s.log.Debug("Cleared %d %s", result.RowsAffected, target.entity)
	}

	return nil
}

func (s *Seeder) createTags(tx *gorm.DB, names []string) (map[string]uint, error) {
	ids := make(map[string]uint, len(names))
	for _, name := range names {
		tag := &models.Tag{Name: name}
		if err := tx.Create(tag).Error; err != nil {
			return nil, dberr.Classify("create", "tag", err)
		}
		ids[name] = tag.ID
	}

	s.log.Debug("Created %d tags", len(ids))
	return ids, nil
}

func (s *Seeder) createBlog(tx *gorm.DB, data BlogData, tags map[string]uint) error {
	blog := &models.Blog{
		Name:      data.Name,
		CreatedAt: s.now(),
	}
	if err := tx.Create(blog).Error; err != nil {
		return dberr.Classify("create", "blog", err)
	}

	if data.Header != "" {
		header := &models.BlogHeader{
			Title:  data.Header,
			BlogID: &blog.ID,
		}
		if err := tx.Create(header).Error; err != nil {
			return dberr.Classify("create", "blog header", err)
		}
	}

	for _, post := range data.Posts {
		if err := s.createPost(tx, &blog.ID, post, tags); err != nil {
			return err
		}
	}

	s.log.Debug("Created blog '%s' with %d posts", blog.Name, len(data.Posts))
	return nil
}

func (s *Seeder) createPost(tx *gorm.DB, blogID *uint, data PostData, tags map[string]uint) error {
	now := s.now()

	post := &models.Post{
		Title:     data.Title,
		Content:   data.Content,
		CreatedAt: now,
		BlogID:    blogID,
	}
	if err := tx.Create(post).Error; err != nil {
		return dberr.Classify("create", "post", err)
	}

	for _, content := range data.Comments {
		comment := &models.Comment{
			Content:   content,
			CreatedAt: now,
			PostID:    &post.ID,
		}
		if err := tx.Create(comment).Error; err != nil {
			return dberr.Classify("create", "comment", err)
		}
	}

	for _, name := range data.Tags {
		tagID, ok := tags[name]
		if !ok {
			return dberr.Classify("link", "post tag", fmt.Errorf("%w: tag %q is not part of the dataset", dberr.ErrForeignKey, name))
		}

		link := &models.PostTag{
			PostID:    post.ID,
			TagID:     tagID,
			CreatedAt: now,
		}
		if err := tx.Create(link).Error; err != nil {
			return dberr.Classify("link", "post tag", err)
		}
	}

	return nil
}
