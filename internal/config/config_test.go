package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"DATABASE_URL": "postgres://localhost:5432/kanopi",
		"REDIS_URL":    "redis://localhost:6379/0",
	})
	require.NoError(t, err)

	require.Equal(t, "development", cfg.AppEnv)
	require.Equal(t, ":8080", cfg.HTTPAddr())
	require.Equal(t, 5*time.Minute, cfg.SnapshotCacheTTL)
	require.Equal(t, 720*time.Hour, cfg.QuoteValidity)
	require.Equal(t, int64(60), cfg.PreviewRateLimit)
	require.Equal(t, "@every 10m", cfg.ExpireSweepCron)
	require.Equal(t, 30*time.Second, cfg.LockTTL)
	require.Equal(t, "db/migrations", cfg.MigrationsPath)
	require.Equal(t, 20, cfg.DefaultLimit)
	require.Equal(t, 100, cfg.MaxLimit)
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"DATABASE_URL":               "postgres://localhost:5432/kanopi",
		"REDIS_URL":                  "redis://localhost:6379/0",
		"PORT":                       "9090",
		"QUOTE_VALIDITY":             "48h",
		"PREVIEW_RATE_LIMIT_PER_MIN": "5",
		"CORS_ALLOWED_ORIGINS":       "https://a.example, https://b.example",
	})
	require.NoError(t, err)

	require.Equal(t, ":9090", cfg.HTTPAddr())
	require.Equal(t, 48*time.Hour, cfg.QuoteValidity)
	require.Equal(t, int64(5), cfg.PreviewRateLimit)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestLoadRequiresDatabaseAndRedis(t *testing.T) {
	_, err := LoadForTests(map[string]string{
		"DATABASE_URL": "",
		"REDIS_URL":    "redis://localhost:6379/0",
	})
	require.Error(t, err)

	_, err = LoadForTests(map[string]string{
		"DATABASE_URL": "postgres://localhost:5432/kanopi",
		"REDIS_URL":    "",
	})
	require.Error(t, err)
}
