package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mwantia/joinpractice/pkg/db/migrations"
	"github.com/mwantia/joinpractice/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var ErrUnsupportedDatabase = errors.New("unsupported database type")

const (
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
)

// Config holds the backend selection and connection settings
type Config struct {
	Type         string
	Path         string // sqlite
	DSN          string // postgres
	MaxOpenConns int
	Logger       logger.Interface
}

// GormStore implements Store on top of any GORM dialector
type GormStore struct {
	db      *gorm.DB
	typ     string
	maxOpen int
}

// NewStore opens the configured backend and registers the PostTag join model
func NewStore(cfg Config) (*GormStore, error) {
	var dialector gorm.Dialector
	var err error

	switch cfg.Type {
	case TypeSQLite, "":
		cfg.Type = TypeSQLite
		dialector, err = sqliteDialector(cfg)
	case TypePostgres:
		dialector, err = postgresDialector(cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDatabase, cfg.Type)
	}
	if err != nil {
		return nil, err
	}

	// Default to silent logging
	if cfg.Logger == nil {
		cfg.Logger = logger.Default.LogMode(logger.Silent)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: cfg.Logger,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Type, err)
	}

	if err := models.SetupJoinTables(db); err != nil {
		return nil, fmt.Errorf("failed to setup join tables: %w", err)
	}

	return &GormStore{
		db:      db,
		typ:     cfg.Type,
		maxOpen: cfg.MaxOpenConns,
	}, nil
}

// DB returns the underlying GORM database instance
func (s *GormStore) DB() *gorm.DB {
	return s.db
}

// Type returns the configured backend name
func (s *GormStore) Type() string {
	return s.typ
}

// Connect initializes the database connection
func (s *GormStore) Connect(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	// Configure connection pool
	switch s.typ {
	case TypeSQLite:
		sqlDB.SetMaxOpenConns(1) // SQLite only supports 1 writer
		sqlDB.SetMaxIdleConns(1)
	default:
		if s.maxOpen > 0 {
			sqlDB.SetMaxOpenConns(s.maxOpen)
		}
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", s.typ, err)
	}

	return nil
}

// Close closes the database connection
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.Close()
}

// Health checks database connectivity
func (s *GormStore) Health(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Migrate applies pending migrations and returns how many ran
func (s *GormStore) Migrate(ctx context.Context) (int, error) {
	return migrations.NewMigrator(s.db).Migrate(ctx)
}

// Rollback reverts the most recent migration
func (s *GormStore) Rollback(ctx context.Context) (*migrations.MigrationStatus, error) {
	return migrations.NewMigrator(s.db).Rollback(ctx)
}

// MigrationStatus lists every known migration and whether it is applied
func (s *GormStore) MigrationStatus(ctx context.Context) ([]migrations.MigrationStatus, error) {
	return migrations.NewMigrator(s.db).Status(ctx)
}

// Counts returns the number of rows in every table of the schema
func (s *GormStore) Counts(ctx context.Context) (*Counts, error) {
	db := s.db.WithContext(ctx)
	counts := &Counts{}

	targets := []struct {
		model any
		dest  *int64
	}{
		{&models.Blog{}, &counts.Blogs},
		{&models.BlogHeader{}, &counts.BlogHeaders},
		{&models.Post{}, &counts.Posts},
		{&models.Tag{}, &counts.Tags},
		{&models.PostTag{}, &counts.PostTags},
		{&models.Comment{}, &counts.Comments},
	}

	for _, target := range targets {
		if err := db.Model(target.model).Count(target.dest).Error; err != nil {
			return nil, fmt.Errorf("failed to count rows: %w", err)
		}
	}

	return counts, nil
}
