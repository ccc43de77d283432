// Package dbtest provides migrated throwaway SQLite stores for tests.
package dbtest

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/mwantia/joinpractice/internal/config"
	"github.com/mwantia/joinpractice/pkg/db/store"
	"github.com/mwantia/joinpractice/pkg/log"
)

// NewStore returns a connected and migrated store backed by a file in t.TempDir()
func NewStore(t testing.TB) *store.GormStore {
	t.Helper()

	s, err := store.NewStore(store.Config{
		Type: store.TypeSQLite,
		Path: filepath.Join(t.TempDir(), "joinpractice.db"),
	})
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})

	ctx := context.Background()
	if err := s.Connect(ctx); err != nil {
		t.Fatalf("failed to connect store: %v", err)
	}
	if _, err := s.Migrate(ctx); err != nil {
		t.Fatalf("failed to migrate store: %v", err)
	}

	return s
}

// Logger returns a logger that discards everything
func Logger() log.LoggerService {
	return log.NewLoggerServiceWithWriter("test", config.LogConfig{Level: "error"}, io.Discard)
}
