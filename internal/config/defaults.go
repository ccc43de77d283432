package config

import "github.com/spf13/viper"

func GetDefault() BaseConfig {
	return BaseConfig{
		ShutdownTimeout: "10s",

		Log: LogConfig{
			Level:      "INFO",
			TimeFormat: "2006-01-02 15:04:05",
			File:       "",
			NoColor:    false,
			JSON:       false,
			NoTerminal: false,
			Rotation: LogRotationConfig{
				MaxSize:    128,
				MaxBackups: 5,
				MaxAge:     16,
				Compress:   false,
			},
		},

		Database: DatabaseConfig{
			Type:          "sqlite",
			LogLevel:      "silent",
			SlowThreshold: "200ms",
			SQLite: DatabaseSQLiteConfig{
				Path: "./joinpractice.db",
			},
			Postgres: DatabasePostgresConfig{
				DSN: "host=localhost user=postgres password=postgres dbname=joinpractice port=5432 sslmode=disable",
			},
		},
	}
}

func setDefaults() {
	defaults := GetDefault()

	viper.SetDefault("shutdown_timeout", defaults.ShutdownTimeout)

	viper.SetDefault("log.level", defaults.Log.Level)
	viper.SetDefault("log.time_format", defaults.Log.TimeFormat)
	viper.SetDefault("log.file", defaults.Log.File)
	viper.SetDefault("log.no_color", defaults.Log.NoColor)
	viper.SetDefault("log.json", defaults.Log.JSON)
	viper.SetDefault("log.no_terminal", defaults.Log.NoTerminal)
	viper.SetDefault("log.rotation.max_size", defaults.Log.Rotation.MaxSize)
	viper.SetDefault("log.rotation.max_backups", defaults.Log.Rotation.MaxBackups)
	viper.SetDefault("log.rotation.max_age", defaults.Log.Rotation.MaxAge)
	viper.SetDefault("log.rotation.compress", defaults.Log.Rotation.Compress)

	viper.SetDefault("database.type", defaults.Database.Type)
	viper.SetDefault("database.log_level", defaults.Database.LogLevel)
	viper.SetDefault("database.slow_threshold", defaults.Database.SlowThreshold)
	viper.SetDefault("database.sqlite.path", defaults.Database.SQLite.Path)
	viper.SetDefault("database.postgres.dsn", defaults.Database.Postgres.DSN)
}
