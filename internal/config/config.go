package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/nonibytes/recall/recall/storage"
	"github.com/nonibytes/recall/recall/storage/postgres"
	"github.com/nonibytes/recall/recall/storage/sqlite"
)

// EnvPrefix prefixes environment overrides, e.g. RECALL_SQLITE_PATH
const EnvPrefix = "RECALL"

type Config struct {
	Backend  string         `mapstructure:"backend"`
	SQLite   SQLiteConfig   `mapstructure:"sqlite"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Log      LogConfig      `mapstructure:"log"`
	Search   SearchConfig   `mapstructure:"search"`
}

type SQLiteConfig struct {
	Path   string `mapstructure:"path"`
	Driver string `mapstructure:"driver"` // sqlite (modernc) or sqlite3 (mattn)
}

type PostgresConfig struct {
	DSN    string `mapstructure:"dsn"`
	Schema string `mapstructure:"schema"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type SearchConfig struct {
	SortBy string `mapstructure:"sort_by"`
	Limit  int    `mapstructure:"limit"`
}

// SetDefaults registers every key so that environment overrides reach Unmarshal
func SetDefaults(v *viper.Viper) {
	v.SetDefault("backend", string(storage.BackendSQLite))
	v.SetDefault("sqlite.path", "recall.db")
	v.SetDefault("sqlite.driver", sqlite.DriverModernc)
	v.SetDefault("postgres.dsn", "")
	v.SetDefault("postgres.schema", "recall")
	v.SetDefault("log.level", "WARN")
	v.SetDefault("log.format", "text")
	v.SetDefault("search.sort_by", "deck")
	v.SetDefault("search.limit", 0)
}

// Load layers defaults, the config file, RECALL_* variables and any flags
// already bound to v. file may be empty to use the default location; a
// missing default file is not an error.
func Load(v *viper.Viper, file string) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	} else if dir, err := DefaultDir(); err == nil {
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DefaultDir is $XDG_CONFIG_HOME/recall, falling back to the user config dir
func DefaultDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "recall"), nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "recall"), nil
}

func (c *Config) Validate() error {
	switch storage.Backend(strings.ToLower(c.Backend)) {
	case storage.BackendSQLite:
		if c.SQLite.Path == "" {
			return fmt.Errorf("sqlite.path is required")
		}
		switch c.SQLite.Driver {
		case sqlite.DriverModernc, sqlite.DriverMattn:
		default:
			return fmt.Errorf("unknown sqlite.driver %q (want %s or %s)", c.SQLite.Driver, sqlite.DriverModernc, sqlite.DriverMattn)
		}
	case storage.BackendPostgres:
		if c.Postgres.DSN == "" {
			return fmt.Errorf("postgres.dsn is required for the postgres backend")
		}
		if !postgres.ValidSchema(c.Postgres.Schema) {
			return fmt.Errorf("invalid postgres.schema %q", c.Postgres.Schema)
		}
	default:
		return fmt.Errorf("unknown backend %q (want sqlite or postgres)", c.Backend)
	}
	if c.Search.Limit < 0 {
		return fmt.Errorf("search.limit must not be negative")
	}
	return nil
}

// Adapter builds the storage adapter for the configured backend
func (c *Config) Adapter() storage.Adapter {
	if storage.Backend(strings.ToLower(c.Backend)) == storage.BackendPostgres {
		return postgres.New(c.Postgres.DSN, c.Postgres.Schema)
	}
	return sqlite.NewWithDriver(c.SQLite.Path, c.SQLite.Driver)
}
