package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nonibytes/recall/recall/storage"
	"github.com/nonibytes/recall/recall/storage/postgres"
	"github.com/nonibytes/recall/recall/storage/sqlite"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Backend)
	assert.Equal(t, "recall.db", cfg.SQLite.Path)
	assert.Equal(t, sqlite.DriverModernc, cfg.SQLite.Driver)
	assert.Equal(t, "recall", cfg.Postgres.Schema)
	assert.Equal(t, "deck", cfg.Search.SortBy)
	assert.Equal(t, storage.BackendSQLite, cfg.Adapter().Backend())
}

func TestLoadFileThenEnv(t *testing.T) {
	isolate(t)

	file := filepath.Join(t.TempDir(), "recall.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
backend: sqlite
sqlite:
  path: cards.db
  driver: sqlite3
log:
  level: debug
search:
  limit: 50
`), 0o644))
	t.Setenv("RECALL_SQLITE_PATH", "/tmp/override.db")

	cfg, err := Load(viper.New(), file)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/override.db", cfg.SQLite.Path)
	assert.Equal(t, sqlite.DriverMattn, cfg.SQLite.Driver)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 50, cfg.Search.Limit)
}

func TestLoadDefaultLocation(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	require.NoError(t, os.MkdirAll(filepath.Join(xdg, "recall"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(xdg, "recall", "config.yaml"), []byte("search:\n  sort_by: created\n"), 0o644))

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, "created", cfg.Search.SortBy)
}

func TestLoadPostgres(t *testing.T) {
	isolate(t)
	t.Setenv("RECALL_BACKEND", "postgres")
	t.Setenv("RECALL_POSTGRES_DSN", "postgres://localhost/recall")
	t.Setenv("RECALL_POSTGRES_SCHEMA", "cards")

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	a := cfg.Adapter()
	assert.Equal(t, storage.BackendPostgres, a.Backend())
	assert.Equal(t, "postgres:cards", a.CollectionID())
	_, ok := a.(*postgres.Adapter)
	assert.True(t, ok)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
	}{
		{"unknown backend", Config{Backend: "redis"}},
		{"missing path", Config{Backend: "sqlite", SQLite: SQLiteConfig{Driver: "sqlite"}}},
		{"unknown driver", Config{Backend: "sqlite", SQLite: SQLiteConfig{Path: "a.db", Driver: "pg"}}},
		{"missing dsn", Config{Backend: "postgres", Postgres: PostgresConfig{Schema: "recall"}}},
		{"bad schema", Config{Backend: "postgres", Postgres: PostgresConfig{DSN: "x", Schema: "drop table"}}},
		{"negative limit", Config{Backend: "sqlite", SQLite: SQLiteConfig{Path: "a.db", Driver: "sqlite"}, Search: SearchConfig{Limit: -1}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.cfg.Validate())
		})
	}
}
