// Package config loads clubdeck configuration from defaults, an optional
// config file, an optional .env file and CLUBDECK_* environment variables.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvPrefix  = "CLUBDECK"
	envFileVar = "CLUBDECK_ENV_FILE"
	defaultEnv = ".env"

	secretBytes = 32
)

// Load builds the configuration. configFile may be empty; when set it must
// exist. Environment variables win over the file, which wins over defaults.
func Load(configFile string) (*Config, error) {
	envFile := os.Getenv(envFileVar)
	if envFile == "" {
		envFile = defaultEnv
	}
	if envMap, err := godotenv.Read(envFile); err == nil {
		for k, v := range envMap {
			if _, exists := os.LookupEnv(k); !exists {
				_ = os.Setenv(k, v)
			}
		}
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	bindEnvs(v)

	if configFile == "" {
		configFile = os.Getenv(EnvPrefix + "_CONFIG")
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.resolvePaths()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.ensureSecret(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func defaultHome() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "clubdeck")
	}
	return ".clubdeck"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("home", defaultHome())

	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.format", "console")

	v.SetDefault("store.driver", DriverSQLite)
	v.SetDefault("store.path", "")
	v.SetDefault("store.file_path", "")
	v.SetDefault("store.keep_versions", 5)

	v.SetDefault("postgres.dsn", "")
	v.SetDefault("postgres.max_conns", 4)
	v.SetDefault("postgres.query_timeout", 3*time.Second)

	v.SetDefault("auth.token_secret", "")
	v.SetDefault("auth.token_ttl", 12*time.Hour)
	v.SetDefault("auth.hash_passwords", true)
	v.SetDefault("auth.bcrypt_cost", 10)
	v.SetDefault("auth.default_password", "123")
	v.SetDefault("auth.session_file", "")
	v.SetDefault("auth.secret_file", "")

	v.SetDefault("board.strict_assignees", false)
}

func bindEnvs(v *viper.Viper) {
	keys := []string{
		"home",
		"logging.level",
		"logging.format",
		"store.driver",
		"store.path",
		"store.file_path",
		"store.keep_versions",
		"postgres.dsn",
		"postgres.max_conns",
		"postgres.query_timeout",
		"auth.token_secret",
		"auth.token_ttl",
		"auth.hash_passwords",
		"auth.bcrypt_cost",
		"auth.default_password",
		"auth.session_file",
		"auth.secret_file",
		"board.strict_assignees",
	}
	for _, k := range keys {
		_ = v.BindEnv(k)
	}
}

// resolvePaths fills unset file locations from Home.
func (c *Config) resolvePaths() {
	if c.Store.Path == "" {
		c.Store.Path = filepath.Join(c.Home, "clubdeck.db")
	}
	if c.Store.FilePath == "" {
		c.Store.FilePath = filepath.Join(c.Home, "club_data.json")
	}
	if c.Auth.SessionFile == "" {
		c.Auth.SessionFile = filepath.Join(c.Home, "session.token")
	}
	if c.Auth.SecretFile == "" {
		c.Auth.SecretFile = filepath.Join(c.Home, "token.secret")
	}
}

// ensureSecret loads the token signing key from SecretFile, creating a
// random one on first run.
func (c *Config) ensureSecret() error {
	if c.Auth.TokenSecret != "" {
		return nil
	}
	data, err := os.ReadFile(c.Auth.SecretFile)
	switch {
	case err == nil:
		if secret := strings.TrimSpace(string(data)); secret != "" {
			c.Auth.TokenSecret = secret
			return nil
		}
	case !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("read token secret: %w", err)
	}

	key := make([]byte, secretBytes)
	if _, err := rand.Read(key); err != nil {
		return fmt.Errorf("generate token secret: %w", err)
	}
	secret := hex.EncodeToString(key)
	if err := os.MkdirAll(filepath.Dir(c.Auth.SecretFile), 0o700); err != nil {
		return fmt.Errorf("create secret directory: %w", err)
	}
	if err := os.WriteFile(c.Auth.SecretFile, []byte(secret+"\n"), 0o600); err != nil {
		return fmt.Errorf("write token secret: %w", err)
	}
	c.Auth.TokenSecret = secret
	return nil
}

// Validate ensures required fields are consistent.
func (c Config) Validate() error {
	switch c.Store.Driver {
	case DriverSQLite, DriverFile, DriverMemory:
	case DriverPostgres:
		if c.Postgres.DSN == "" {
			return errors.New("postgres.dsn is required when store.driver is postgres")
		}
	default:
		return fmt.Errorf("store.driver: unknown driver %q", c.Store.Driver)
	}
	if c.Store.KeepVersions < 1 {
		return errors.New("store.keep_versions must be at least 1")
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("auth.token_ttl must be positive")
	}
	if c.Auth.DefaultPassword == "" {
		return errors.New("auth.default_password is required")
	}
	switch strings.ToLower(c.Logging.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unknown format %q", c.Logging.Format)
	}
	return nil
}
