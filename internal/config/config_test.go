package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	defaults := GetDefault()
	assert.Equal(t, defaults.ShutdownTimeout, cfg.ShutdownTimeout)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, defaults.Database.SQLite.Path, cfg.Database.SQLite.Path)
	assert.Equal(t, defaults.Log.Rotation.MaxBackups, cfg.Log.Rotation.MaxBackups)
}

func TestLoadConfigOverrides(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("database.type", "postgres")
	viper.Set("database.postgres.dsn", "host=db user=app")
	viper.Set("log.level", "debug")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Type)
	assert.Equal(t, "host=db user=app", cfg.Database.Postgres.DSN)
	assert.Equal(t, "debug", cfg.Log.Level)
	// untouched keys keep their defaults
	assert.Equal(t, "./joinpractice.db", cfg.Database.SQLite.Path)
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unsupported database", "database.type", "oracle"},
		{"unknown sql log level", "database.log_level", "verbose"},
		{"bad slow threshold", "database.slow_threshold", "fast"},
		{"bad shutdown timeout", "shutdown_timeout", "later"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			t.Cleanup(viper.Reset)

			viper.Set(tt.key, tt.value)

			_, err := LoadConfig()
			assert.ErrorContains(t, err, "invalid configuration")
		})
	}
}

func TestDefaultsAreValid(t *testing.T) {
	cfg := GetDefault()
	assert.NoError(t, cfg.Validate())
}
