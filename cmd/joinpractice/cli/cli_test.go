package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/mwantia/joinpractice/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newProbe returns a command that captures the configuration it was run with
func newProbe(loaded **config.BaseConfig) *cobra.Command {
	return &cobra.Command{
		Use: "probe",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			*loaded = cfg
			return err
		},
	}
}

func run(t *testing.T, args ...string) (*config.BaseConfig, string, error) {
	t.Helper()

	viper.Reset()
	t.Cleanup(viper.Reset)

	var loaded *config.BaseConfig
	root := NewRootCommand(VersionInfo{Version: "0.1.0", Commit: "test"})
	root.AddCommand(NewVersionCommand())
	root.AddCommand(newProbe(&loaded))

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs(args)

	err := root.Execute()
	return loaded, out.String(), err
}

func TestVersionCommand(t *testing.T) {
	_, out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "joinpractice 0.1.0.test\n", out)
}

func TestConfigFileAndFlags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  type: sqlite
  log_level: warn
  sqlite:
    path: /tmp/from-file.db
`), 0644))

	t.Run("file", func(t *testing.T) {
		cfg, _, err := run(t, "--config", path, "probe")
		require.NoError(t, err)
		assert.Equal(t, "/tmp/from-file.db", cfg.Database.SQLite.Path)
		assert.Equal(t, "warn", cfg.Database.LogLevel)
	})

	t.Run("flag overrides file", func(t *testing.T) {
		cfg, _, err := run(t, "--config", path, "--db-path", "/tmp/from-flag.db", "--sql-log", "info", "probe")
		require.NoError(t, err)
		assert.Equal(t, "/tmp/from-flag.db", cfg.Database.SQLite.Path)
		assert.Equal(t, "info", cfg.Database.LogLevel)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		t.Setenv("JOINPRACTICE_DATABASE_SQLITE_PATH", "/tmp/from-env.db")

		cfg, _, err := run(t, "--config", path, "probe")
		require.NoError(t, err)
		assert.Equal(t, "/tmp/from-env.db", cfg.Database.SQLite.Path)
	})

	t.Run("invalid flag value", func(t *testing.T) {
		_, _, err := run(t, "--config", path, "--db-type", "oracle", "probe")
		assert.ErrorContains(t, err, "invalid configuration")
	})
}
