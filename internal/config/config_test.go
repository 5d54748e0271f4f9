package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const minimal = `
[hotel_service]
url = "http://hotels:8080"

[payment_service]
url = "http://payments:8080"

[notification_service]
url = "http://notifications:8080"
`

func TestLoad_AppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimal))

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, CacheBackendMemory, cfg.Cache.Backend)
	assert.Equal(t, 4*time.Minute, cfg.Cache.AvailabilityTTL())
	assert.Equal(t, 90*time.Second, cfg.Cache.PricingTTL())
	assert.Equal(t, 200*time.Millisecond, cfg.Retry.InitialInterval())
	assert.Equal(t, time.Minute, cfg.Retry.SubmitTimeout())
	assert.Equal(t, 5*time.Minute, cfg.Cache.StatsInterval())
	assert.Equal(t, "http://hotels:8080", cfg.HotelService.URL)
	assert.Equal(t, 5, cfg.HotelService.Timeout)
	assert.True(t, cfg.Queue.Enabled)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimal+`
[server]
http_port = 9090

[cache]
backend = "redis"
pricing_ttl_seconds = 30

[database]
host = "db"
dbname = "travel"
user = "app"
password = "secret"

[queue]
enabled = false
`))

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, CacheBackendRedis, cfg.Cache.Backend)
	assert.Equal(t, 30*time.Second, cfg.Cache.PricingTTL())
	assert.Equal(t, 4*time.Minute, cfg.Cache.AvailabilityTTL())
	assert.False(t, cfg.Queue.Enabled)
	assert.Equal(t, "host=db port=5432 user=app password=secret dbname=travel sslmode=disable", cfg.Database.DSN())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "unknown cache backend", content: minimal + "[cache]\nbackend = \"memcached\"\n"},
		{name: "zero pricing ttl", content: minimal + "[cache]\npricing_ttl_seconds = 0\n"},
		{name: "no payment url", content: "[hotel_service]\nurl = \"x\"\n[notification_service]\nurl = \"y\"\n"},
		{name: "bad retry intervals", content: minimal + "[retry]\ninitial_interval_ms = 500\nmax_interval_ms = 100\n"},
		{name: "bad port", content: minimal + "[server]\nhttp_port = 70000\n"},
		{name: "memory cache without janitor", content: minimal + "[cache]\njanitor_interval_seconds = 0\n"},
		{name: "zero submit timeout", content: minimal + "[retry]\nsubmit_timeout_seconds = 0\n"},
		{name: "zero stats interval", content: minimal + "[cache]\nstats_interval_seconds = 0\n"},
		{name: "redis cache without addr", content: minimal + "[cache]\nbackend = \"redis\"\n[redis]\naddr = \"\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))

			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoad_BrokenFile(t *testing.T) {
	_, err := Load(writeConfig(t, "[server\nhttp_port = "))
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
