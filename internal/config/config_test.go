package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(envOf(map[string]string{"DB_DSN": "postgres://localhost/planner"}))
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, devJWTSecret, cfg.JWTSecret)
	assert.Equal(t, 30*24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, time.Minute, cfg.RefreshInterval)
	assert.Equal(t, 5, cfg.DBConnectRetries)
	assert.Equal(t, 5*time.Second, cfg.DBRetryDelay)
	assert.Equal(t, "UTC", cfg.Timezone.String())
	assert.False(t, cfg.BotEnabled())
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := FromEnv(envOf(map[string]string{
		"DB_DSN":             "postgres://db/planner",
		"ENV":                "production",
		"JWT_SECRET":         "s3cret",
		"TELEGRAM_TOKEN":     "123:abc",
		"REFRESH_INTERVAL":   "30s",
		"DB_CONNECT_RETRIES": "3",
		"TIMEZONE":           "UTC",
		"LOG_LEVEL":          "warn",
	}))
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.BotEnabled())
	assert.Equal(t, 30*time.Second, cfg.RefreshInterval)
	assert.Equal(t, 3, cfg.DBConnectRetries)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestFromEnv_Errors(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
	}{
		{name: "missing dsn", vars: map[string]string{}},
		{name: "production without secret", vars: map[string]string{"DB_DSN": "x", "ENV": "production"}},
		{name: "bad interval", vars: map[string]string{"DB_DSN": "x", "REFRESH_INTERVAL": "soon"}},
		{name: "negative interval", vars: map[string]string{"DB_DSN": "x", "REFRESH_INTERVAL": "-1s"}},
		{name: "bad retries", vars: map[string]string{"DB_DSN": "x", "DB_CONNECT_RETRIES": "0"}},
		{name: "bad timezone", vars: map[string]string{"DB_DSN": "x", "TIMEZONE": "Mars/Olympus"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromEnv(envOf(tt.vars))
			assert.Error(t, err)
		})
	}
}
