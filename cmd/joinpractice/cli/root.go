package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func NewRootCommand(info VersionInfo) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "joinpractice",
		Short: "Relational join sandbox",
		Long: `Seeds a small blog schema and runs left and inner join queries over it.

Every query is written three times: as GORM eager loading, as hand-written
SQL and as a GORM query chain. All three return the same result.`,
		SilenceErrors: true,
		SilenceUsage:  true,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(path)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&path, "config", "", "config file (default is ./config.yaml)")
	flags.Bool("no-color", false, "Disables colored command output")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("db-type", "sqlite", "database backend (sqlite, postgres)")
	flags.String("db-path", "./joinpractice.db", "sqlite database file")
	flags.String("sql-log", "silent", "sql trace level (silent, error, warn, info)")

	// Flags only win over the config file when they are set explicitly
	for key, name := range map[string]string{
		"log.level":            "log-level",
		"log.no_color":         "no-color",
		"database.type":        "db-type",
		"database.sqlite.path": "db-path",
		"database.log_level":   "sql-log",
	} {
		viper.BindPFlag(key, flags.Lookup(name))
	}

	current = info
	cmd.Version = info.String()

	return cmd
}
