package config

// DatabaseConfig selects the SQL backend the join queries run against
type DatabaseConfig struct {
	Type string `mapstructure:"type" yaml:"type" validate:"oneof=sqlite postgres"`
	// LogLevel controls SQL tracing: silent, error, warn or info
	LogLevel      string `mapstructure:"log_level"      yaml:"log_level"      validate:"omitempty,oneof=silent error warn info"`
	SlowThreshold string `mapstructure:"slow_threshold" yaml:"slow_threshold" validate:"omitempty,duration"`

	SQLite   DatabaseSQLiteConfig   `mapstructure:"sqlite"   yaml:"sqlite"`
	Postgres DatabasePostgresConfig `mapstructure:"postgres" yaml:"postgres"`
}

// DatabaseSQLiteConfig holds SQLite-specific configuration
type DatabaseSQLiteConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// DatabasePostgresConfig holds Postgres-specific configuration
type DatabasePostgresConfig struct {
	DSN string `mapstructure:"dsn" yaml:"dsn"`
}
