package config

import "time"

const (
	DriverSQLite   = "sqlite"
	DriverFile     = "file"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	Home     string         `mapstructure:"home"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Store    StoreConfig    `mapstructure:"store"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Board    BoardConfig    `mapstructure:"board"`
}

// LoggingConfig contains logger preferences.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// StoreConfig selects where board snapshots live.
type StoreConfig struct {
	Driver       string `mapstructure:"driver"`
	Path         string `mapstructure:"path"`
	FilePath     string `mapstructure:"file_path"`
	KeepVersions int    `mapstructure:"keep_versions"`
}

// PostgresConfig describes the optional Postgres snapshot store.
type PostgresConfig struct {
	DSN          string        `mapstructure:"dsn"`
	MaxConns     int32         `mapstructure:"max_conns"`
	QueryTimeout time.Duration `mapstructure:"query_timeout"`
}

type AuthConfig struct {
	TokenSecret     string        `mapstructure:"token_secret"`
	TokenTTL        time.Duration `mapstructure:"token_ttl"`
	HashPasswords   bool          `mapstructure:"hash_passwords"`
	BcryptCost      int           `mapstructure:"bcrypt_cost"`
	DefaultPassword string        `mapstructure:"default_password"`
	SessionFile     string        `mapstructure:"session_file"`
	// SecretFile holds the generated signing key when TokenSecret is unset.
	SecretFile string `mapstructure:"secret_file"`
}

type BoardConfig struct {
	// StrictAssignees rejects assignees that are not members of the task's team.
	StrictAssignees bool `mapstructure:"strict_assignees"`
}
