package config_test

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niksmo/galeria/config"
	"github.com/niksmo/galeria/internal/core/domain"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFrom(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg, err := config.LoadFrom("")
		require.NoError(t, err)
		assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
		assert.Zero(t, cfg.API.RequestTimeout)
		assert.Equal(t, "file", cfg.Storage.Driver)
		assert.Equal(t, 300*time.Millisecond, cfg.Catalog.SearchDebounce)
		assert.Equal(t, "advanced", cfg.Layout.Variant)
		assert.False(t, cfg.BrokerEnabled())
	})

	t.Run("File", func(t *testing.T) {
		path := writeFile(t, `
log_level: debug
api:
  base_url: https://api.galeria.test/api
  request_timeout: 3s
storage:
  driver: redis
  redis:
    addr: 127.0.0.1:6380
    db: 2
layout:
  variant: simple
broker:
  seed_brokers: [b1:9092, b2:9092]
`)
		cfg, err := config.LoadFrom(path)
		require.NoError(t, err)
		assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
		assert.Equal(t, "https://api.galeria.test/api", cfg.API.BaseURL)
		assert.Equal(t, 3*time.Second, cfg.API.RequestTimeout)
		assert.Equal(t, "redis", cfg.Storage.Driver)
		assert.Equal(t, "127.0.0.1:6380", cfg.Storage.Redis.Addr)
		assert.Equal(t, 2, cfg.Storage.Redis.DB)
		assert.Equal(t, "simple", cfg.Layout.Variant)
		assert.Equal(t, []string{"b1:9092", "b2:9092"}, cfg.Broker.SeedBrokers)
		assert.True(t, cfg.BrokerEnabled())
	})

	t.Run("EnvOverrides", func(t *testing.T) {
		t.Setenv("GALERIA_API_BASE_URL", "https://env.galeria.test/api")
		t.Setenv("GALERIA_BROKER_SEED_BROKERS", "k1:9092,k2:9092")

		cfg, err := config.LoadFrom("")
		require.NoError(t, err)
		assert.Equal(t, "https://env.galeria.test/api", cfg.API.BaseURL)
		assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Broker.SeedBrokers)
	})

	t.Run("UnknownKey", func(t *testing.T) {
		path := writeFile(t, "sql_db: postgres://\n")
		_, err := config.LoadFrom(path)
		require.Error(t, err)
	})

	t.Run("InvalidValue", func(t *testing.T) {
		path := writeFile(t, "storage:\n  driver: sqlite\n")
		_, err := config.LoadFrom(path)

		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := config.LoadFrom(filepath.Join(t.TempDir(), "none.yaml"))
		require.Error(t, err)
	})
}

func TestFilePath(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	config.RegisterFlag(fs)
	require.NoError(t, fs.Parse([]string{"--config", "from-flag.yaml"}))

	assert.Equal(t, "from-flag.yaml", config.FilePath(fs))

	t.Setenv("GALERIA_CONFIG_FILE", "from-env.yaml")
	assert.Equal(t, "from-env.yaml", config.FilePath(fs))
}

func TestConfig_Print(t *testing.T) {
	t.Setenv("GALERIA_STORAGE_REDIS_PASSWORD", "s3cret")
	t.Setenv("GALERIA_BROKER_SEED_BROKERS", "k1:9092,k2:9092")

	cfg, err := config.LoadFrom("")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, cfg.Print(&buf))
	out := buf.String()
	assert.Contains(t, out, "[general]\n")
	assert.Contains(t, out, "  api.request_timeout = none\n")
	assert.Contains(t, out, "  driver = file\n")
	assert.Contains(t, out, "  seed_brokers = k1:9092,k2:9092\n")
	assert.NotContains(t, out, "s3cret")
}
