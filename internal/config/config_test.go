package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"waterglobe/internal/errors"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "API_PREFIX", "GIN_MODE", "WORLD_FILE", "FLAG_CDN_URL", "WATERMAP_DIR", "LOCALE", "SERIES_YEAR", "BATCH_CONCURRENCY", "LOG_LEVEL", "READ_TIMEOUT", "WRITE_TIMEOUT", "SESSION_TTL", "MAX_SESSIONS"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "/api", cfg.Server.APIPrefix)
	assert.Equal(t, "release", cfg.Server.GinMode)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "world.json", cfg.Data.WorldFile)
	assert.Equal(t, "https://flagcdn.com/w40", cfg.Assets.FlagCDNURL)
	assert.Equal(t, "watermaps", cfg.Assets.WaterMapDir)
	assert.Equal(t, "tr-TR", cfg.Assets.Locale)
	assert.Equal(t, 0, cfg.Series.Year)
	assert.Equal(t, 4, cfg.Series.BatchConcurrency)
	assert.Equal(t, 30*time.Minute, cfg.Sessions.TTL)
	assert.Equal(t, 10000, cfg.Sessions.Max)
	assert.Equal(t, "INFO", cfg.Log.Level)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("FLAG_CDN_URL", "https://flags.example.com/w80/")
	t.Setenv("SERIES_YEAR", "2024")
	t.Setenv("GIN_MODE", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr())
	assert.Equal(t, "https://flags.example.com/w80", cfg.Assets.FlagCDNURL)
	assert.Equal(t, 2024, cfg.Series.Year)
	assert.Equal(t, "debug", cfg.Server.GinMode)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"PORT", "http"},
		{"API_PREFIX", "api"},
		{"API_PREFIX", "/"},
		{"GIN_MODE", "verbose"},
		{"FLAG_CDN_URL", "::not a url"},
		{"SERIES_YEAR", "-1"},
		{"BATCH_CONCURRENCY", "0"},
		{"SESSION_TTL", "-5m"},
		{"MAX_SESSIONS", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}
}
