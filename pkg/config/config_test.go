package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestDefault(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	require.NoError(t, c.Validate())

	assert.Equal(t, "MSFT", c.Estimator.Asset)
	assert.Equal(t, "^GSPC", c.Estimator.Market)
	assert.Equal(t, "^IRX", c.Estimator.RiskFree)
	assert.Equal(t, "5y", c.Estimator.Period)
	assert.Equal(t, "monthly", c.Estimator.Interval)
	assert.Equal(t, "yahoo", c.Fetcher.Source)
	assert.Len(t, c.Fetcher.Yahoo.Hosts, 2)
	assert.Equal(t, 15*time.Second, c.Fetcher.Yahoo.Timeout)
	assert.Equal(t, []string{"localhost:9092"}, c.Kafka.Brokers)
}

func TestLoadOverridesDefaults(t *testing.T) {
	p := writeConfig(t, `
environment: test
estimator:
  asset: AAPL
  interval: weekly
fetcher:
  source: clickhouse
clickhouse:
  host: ch.internal
`)
	c, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "test", c.Environment)
	assert.Equal(t, "AAPL", c.Estimator.Asset)
	assert.Equal(t, "^GSPC", c.Estimator.Market)
	assert.Equal(t, "weekly", c.Estimator.Interval)
	assert.Equal(t, "clickhouse", c.Fetcher.Source)
	assert.Equal(t, "ch.internal", c.ClickHouse.Host)
	assert.Equal(t, 9000, c.ClickHouse.Port)
}

func TestLoadRejectsInvalid(t *testing.T) {
	p := writeConfig(t, "fetcher:\n  source: bloomberg\n")
	_, err := Load(p)
	assert.Error(t, err)
}

func TestLoadWithEnv(t *testing.T) {
	p := writeConfig(t, "environment: test\n")
	t.Setenv("FINBETA_SOURCE", "clickhouse")
	t.Setenv("KAFKA_BROKERS", "a:9092,b:9092")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("LOG_LEVEL", "DEBUG")

	c, err := LoadWithEnv(p, false)
	require.NoError(t, err)
	assert.Equal(t, "clickhouse", c.Fetcher.Source)
	assert.Equal(t, []string{"a:9092", "b:9092"}, c.Kafka.Brokers)
	assert.True(t, c.Cache.Redis.Enabled)
	assert.Equal(t, "redis:6379", c.Cache.Redis.Addr)
	assert.Equal(t, "debug", c.Log.Level)
}

func TestLoadWithEnvMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yaml")

	_, err := LoadWithEnv(missing, false)
	assert.Error(t, err)

	c, err := LoadWithEnv(missing, true)
	require.NoError(t, err)
	assert.Equal(t, "development", c.Environment)
}
