package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
server:
  host: 127.0.0.1
  port: 9090
database:
  url: postgres://localhost/bootcamp
  max_open_conns: 10
capacity:
  base_url: http://capacity:8081
  max_retries: 5
logging:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", cfg.Server.Addr())
	assert.Equal(t, "postgres://localhost/bootcamp", cfg.Database.URL)
	assert.Equal(t, 10, cfg.Database.MaxOpenConns)
	assert.Equal(t, "http://capacity:8081", cfg.Capacity.BaseURL)
	assert.Equal(t, 5, cfg.Capacity.MaxRetries)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  url: postgres://localhost/bootcamp
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8083", cfg.Server.Addr())
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5, cfg.Database.MaxIdleConns)
	assert.Equal(t, "http://localhost:8081", cfg.Capacity.BaseURL)
	assert.Equal(t, "http://localhost:8082", cfg.User.BaseURL)
	assert.Equal(t, "http://localhost:8084", cfg.Metrics.BaseURL)
	assert.Equal(t, 30, cfg.Capacity.TimeoutSeconds)
	assert.Equal(t, 10, cfg.Metrics.TimeoutSeconds)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Empty(t, cfg.Redis.Addr)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
database:
  url: postgres://localhost/bootcamp
`)

	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("DATABASE_URL", "postgres://db:5432/bootcamp")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("CAPACITY_BASE_URL", "http://capacity.internal")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "postgres://db:5432/bootcamp", cfg.Database.URL)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, "http://capacity.internal", cfg.Capacity.BaseURL)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadMissingFileWithEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://db:5432/bootcamp")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "postgres://db:5432/bootcamp", cfg.Database.URL)
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := writeConfig(t, "server: [not a mapping")

	_, err := Load(path)
	require.Error(t, err)
}
