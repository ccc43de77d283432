// Package migrations applies the versioned schema changes and records them in
// the migration_histories table.
package migrations

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/mwantia/joinpractice/pkg/db/models"
	"gorm.io/gorm"
)

var ErrNothingToRollback = errors.New("no applied migrations")

// Migration is one schema step. Up and Down run inside a transaction.
type Migration struct {
	Version     int
	Description string
	Up          func(*gorm.DB) error
	Down        func(*gorm.DB) error
}

type migrationHistory struct {
	ID          uint   `gorm:"primaryKey"`
	Version     int    `gorm:"uniqueIndex;not null"`
	Description string `gorm:"type:text"`
	AppliedAt   int64  `gorm:"autoCreateTime"`
}

// MigrationStatus reports whether a migration has been applied
type MigrationStatus struct {
	Version     int        `json:"version"              yaml:"version"`
	Description string     `json:"description"          yaml:"description"`
	Applied     bool       `json:"applied"              yaml:"applied"`
	AppliedAt   *time.Time `json:"applied_at,omitempty" yaml:"applied_at,omitempty"`
}

type Migrator struct {
	db         *gorm.DB
	migrations []Migration
}

func NewMigrator(db *gorm.DB) *Migrator {
	return newMigrator(db, allMigrations())
}

func newMigrator(db *gorm.DB, migrations []Migration) *Migrator {
	sorted := make([]Migration, len(migrations))
	copy(sorted, migrations)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Version < sorted[j].Version
	})

	return &Migrator{
		db:         db,
		migrations: sorted,
	}
}

// Migrate runs all pending migrations in version order and returns how many
// were applied
func (m *Migrator) Migrate(ctx context.Context) (int, error) {
	if err := m.db.WithContext(ctx).AutoMigrate(&migrationHistory{}); err != nil {
		return 0, fmt.Errorf("failed to create migration history table: %w", err)
	}

	applied, err := m.applied(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, migration := range m.migrations {
		if _, ok := applied[migration.Version]; ok {
			continue
		}

		if err := m.apply(ctx, migration); err != nil {
			return count, fmt.Errorf("migration %d (%s) failed: %w", migration.Version, migration.Description, err)
		}
		count++
	}

	return count, nil
}

// Rollback reverts the most recently applied migration
func (m *Migrator) Rollback(ctx context.Context) (*MigrationStatus, error) {
	if !m.db.WithContext(ctx).Migrator().HasTable(&migrationHistory{}) {
		return nil, ErrNothingToRollback
	}

	var last migrationHistory
	result := m.db.WithContext(ctx).Order("version DESC").Limit(1).Find(&last)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to query migration history: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNothingToRollback
	}

	i := sort.Search(len(m.migrations), func(i int) bool {
		return m.migrations[i].Version >= last.Version
	})
	if i == len(m.migrations) || m.migrations[i].Version != last.Version {
		return nil, fmt.Errorf("migration %d is recorded but unknown", last.Version)
	}
	migration := m.migrations[i]

	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := migration.Down(tx); err != nil {
			return fmt.Errorf("rollback of %d failed: %w", migration.Version, err)
		}
		if err := tx.Delete(&last).Error; err != nil {
			return fmt.Errorf("failed to update migration history: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &MigrationStatus{
		Version:     migration.Version,
		Description: migration.Description,
	}, nil
}

// Status lists every known migration. A database that was never migrated
// reports all of them as pending.
func (m *Migrator) Status(ctx context.Context) ([]MigrationStatus, error) {
	applied := map[int]migrationHistory{}
	if m.db.WithContext(ctx).Migrator().HasTable(&migrationHistory{}) {
		var err error
		if applied, err = m.applied(ctx); err != nil {
			return nil, err
		}
	}

	statuses := make([]MigrationStatus, 0, len(m.migrations))
	for _, migration := range m.migrations {
		status := MigrationStatus{
			Version:     migration.Version,
			Description: migration.Description,
		}
		if history, ok := applied[migration.Version]; ok {
			at := time.Unix(history.AppliedAt, 0).UTC()
			status.Applied = true
			status.AppliedAt = &at
		}
		statuses = append(statuses, status)
	}

	return statuses, nil
}

func (m *Migrator) applied(ctx context.Context) (map[int]migrationHistory, error) {
	var rows []migrationHistory
	if err := m.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query migration history: %w", err)
	}

	applied := make(map[int]migrationHistory, len(rows))
	for _, row := range rows {
		applied[row.Version] = row
	}
	return applied, nil
}

func (m *Migrator) apply(ctx context.Context, migration Migration) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := migration.Up(tx); err != nil {
			return err
		}

		return tx.Create(&migrationHistory{
			Version:     migration.Version,
			Description: migration.Description,
		}).Error
	})
}

func allMigrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Description: "Create blogs, blog headers, posts, tags, post tags and comments",
			Up: func(db *gorm.DB) error {
				if err := models.SetupJoinTables(db); err != nil {
					return err
				}
				return db.AutoMigrate(models.All()...)
			},
			Down: func(db *gorm.DB) error {
				// One call per table: a combined DropTable reorders by
				// declared relations and PostTag declares none
				for _, model := range []any{
					&models.Comment{},
					&models.PostTag{},
					&models.Post{},
					&models.Tag{},
					&models.BlogHeader{},
					&models.Blog{},
				} {
					if err := db.Migrator().DropTable(model); err != nil {
						return err
					}
				}
				return nil
			},
		},
		{
			// The composite key only serves lookups by post
			Version:     2,
			Description: "Index post tags by tag",
			Up: func(db *gorm.DB) error {
				return db.Exec("CREATE INDEX IF NOT EXISTS idx_post_tags_tag_id ON post_tags (tag_id)").Error
			},
			Down: func(db *gorm.DB) error {
				return db.Exec("DROP INDEX IF EXISTS idx_post_tags_tag_id").Error
			},
		},
	}
}
