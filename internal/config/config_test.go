package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.DB.Driver)
	assert.Equal(t, "5000", cfg.App.HTTPPort)
	assert.Equal(t, "none", cfg.Cache.Backend)
	assert.Equal(t, "http://localhost:5000", cfg.Web.APIBaseURL)
	assert.False(t, cfg.UsesRedis())
	assert.NoError(t, cfg.Validate())
	assert.NoError(t, cfg.ValidateWeb())
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("DATABASE_URL", "file:users.db")
	t.Setenv("PORT", "9090")
	t.Setenv("CACHE_BACKEND", "redis")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, "file:users.db", cfg.DB.DSN())
	assert.Equal(t, "9090", cfg.App.HTTPPort)
	assert.True(t, cfg.UsesRedis())
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_EnvFile(t *testing.T) {
	dir := t.TempDir()
	content := "HTTP_PORT=7070\nSERVICE_NAME=users-from-file\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.env"), []byte(content), 0o600))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.App.HTTPPort)
	assert.Equal(t, "users-from-file", cfg.Logger.ServiceName)
}

func TestConfig_Validate(t *testing.T) {
	base := func(t *testing.T) *Config {
		cfg, err := LoadConfig(t.TempDir())
		require.NoError(t, err)
		return cfg
	}

	t.Run("unknown driver", func(t *testing.T) {
		cfg := base(t)
		cfg.DB.Driver = "mysql"
		assert.ErrorContains(t, cfg.Validate(), "unsupported DB_DRIVER")
	})

	t.Run("sqlite without url", func(t *testing.T) {
		cfg := base(t)
		cfg.DB.Driver = "sqlite"
		cfg.DB.URL = ""
		assert.ErrorContains(t, cfg.Validate(), "DATABASE_URL")
	})

	t.Run("unknown cache backend", func(t *testing.T) {
		cfg := base(t)
		cfg.Cache.Backend = "memcached"
		assert.ErrorContains(t, cfg.Validate(), "CACHE_BACKEND")
	})

	t.Run("rate limit without rate", func(t *testing.T) {
		cfg := base(t)
		cfg.RateLimit.Enabled = true
		cfg.RateLimit.RequestsPerSecond = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("relative api url", func(t *testing.T) {
		cfg := base(t)
		cfg.Web.APIBaseURL = "/api"
		assert.Error(t, cfg.ValidateWeb())
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", User: "u", Password: "p", Name: "users", Port: "5432", SSLMode: "disable"}
	assert.Equal(t, "host=db user=u password=p dbname=users port=5432 sslmode=disable", c.DSN())
}

func TestConfig_LoggerOptions(t *testing.T) {
	t.Setenv("LOG_OUTPUT_PATH", "/var/log/users.log")
	t.Setenv("LOG_MAX_BACKUPS", "9")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	opts := cfg.LoggerOptions("web")
	assert.Equal(t, "web", opts.Component)
	assert.Equal(t, "/var/log/users.log", opts.OutputPath)
	assert.Equal(t, 9, opts.Rotation.MaxBackups)
	assert.Equal(t, 100, opts.Rotation.MaxSizeMB)
	assert.Equal(t, "user-directory", opts.ServiceName)
}
