package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "GIN_MODE", "PREFERENCE_BACKEND", "DATABASE_PATH",
		"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
		"ADMIN_USERNAME", "ADMIN_PASSWORD",
		"APP_NAME", "APP_VERSION", "CATALOG_PATH", "TRACKING_ENABLED", "RETENTION_MONTHS",
	} {
		t.Setenv(key, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, BackendCookie, cfg.Preferences.Backend)
	assert.Equal(t, "portfolio.db", cfg.Database.Path)
	assert.Equal(t, "admin", cfg.Admin.Username)
	assert.Equal(t, "admin123", cfg.Admin.Password)
	assert.True(t, cfg.Admin.DefaultCredentials)
	assert.True(t, cfg.App.TrackingEnabled)
	assert.Equal(t, 12, cfg.App.RetentionMonths)
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("PREFERENCE_BACKEND", "Redis")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("ADMIN_USERNAME", "owner")
	t.Setenv("ADMIN_PASSWORD", "s3cret")
	t.Setenv("TRACKING_ENABLED", "false")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, BackendRedis, cfg.Preferences.Backend)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.False(t, cfg.Admin.DefaultCredentials)
	assert.False(t, cfg.App.TrackingEnabled)
}

func TestFromEnvInvalidNumbersFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("TRACKING_ENABLED", "maybe")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Redis.DB)
	assert.True(t, cfg.App.TrackingEnabled)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"unknown gin mode", map[string]string{"GIN_MODE": "verbose"}, "unsupported GIN_MODE"},
		{"unknown backend", map[string]string{"PREFERENCE_BACKEND": "etcd"}, "unsupported PREFERENCE_BACKEND"},
		{"redis without addr", map[string]string{"PREFERENCE_BACKEND": "redis"}, "REDIS_ADDR is required"},
		{"retention too small", map[string]string{"RETENTION_MONTHS": "0"}, "RETENTION_MONTHS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := FromEnv()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
