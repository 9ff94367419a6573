package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "unit")

	cfg, v, err := Load()
	require.NoError(t, err)
	require.NotNil(t, v)

	assert.Equal(t, "unit", cfg.App.Env)
	assert.Equal(t, "treeApp", cfg.App.Name)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "mysql", cfg.DB.Driver)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, time.Hour, cfg.Redis.CacheTTL)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Empty(t, cfg.FileUsed())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "unit")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", ":memory:")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("REDIS_CACHE_TTL", "90s")
	t.Setenv("LOGGER_LEVEL", "debug")

	cfg, _, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, ":memory:", cfg.DB.Path)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 90*time.Second, cfg.Redis.CacheTTL)
	assert.Equal(t, "debug", cfg.Logger.Level)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	t.Setenv("APP_ENV", "unit")
	t.Setenv("DB_DRIVER", "oracle")

	_, _, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validate config")
}

func TestLoad_ReadsEnvironmentFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "configs"), 0o755))
	yaml := []byte("server:\n  port: 7070\nlogger:\n  format: text\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "configs", "staging.yaml"), yaml, 0o600))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	t.Setenv("APP_ENV", "staging")

	cfg, _, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "text", cfg.Logger.Format)
	assert.Contains(t, cfg.FileUsed(), "staging.yaml")
}

func TestValidate_SentryRequiresDSN(t *testing.T) {
	t.Setenv("APP_ENV", "unit")
	cfg, _, err := Load()
	require.NoError(t, err)

	cfg.Sentry.Enabled = true
	assert.Error(t, Validate(cfg))

	cfg.Sentry.DSN = "https://key@sentry.example.com/1"
	assert.NoError(t, Validate(cfg))
}
