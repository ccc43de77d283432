package store

import (
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// foreignKeysPragma turns on referential actions for every pooled connection
const foreignKeysPragma = "_pragma=foreign_keys(1)"

func sqliteDialector(cfg Config) (gorm.Dialector, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	return sqlite.Open(sqliteDSN(cfg.Path)), nil
}

func sqliteDSN(path string) string {
	if strings.Contains(path, foreignKeysPragma) {
		return path
	}
	if strings.Contains(path, "?") {
		return path + "&" + foreignKeysPragma
	}
	return path + "?" + foreignKeysPragma
}
