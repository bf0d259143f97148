package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("JWT_EXPIRY", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("REDIS_URL", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, time.Hour, cfg.JWT.Expiry)
	assert.Equal(t, 15, cfg.RateLimit.LoginMax)
	assert.Equal(t, 15*time.Minute, cfg.RateLimit.LoginWindow)
	assert.Empty(t, cfg.Redis.URL)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("JWT_EXPIRY", "30m")
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("APP_ENV", "production")
	t.Setenv("CORS_ALLOW_ORIGINS", "http://a.test, http://b.test ,")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 30*time.Minute, cfg.JWT.Expiry)
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, "http://a.test,http://b.test", cfg.CORS.AllowOrigins)
}

func TestGetDuration(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected time.Duration
	}{
		{"empty uses default", "", time.Minute},
		{"valid", "90s", 90 * time.Second},
		{"garbage uses default", "soon", time.Minute},
		{"negative uses default", "-5m", time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_DURATION", tt.value)
			assert.Equal(t, tt.expected, getDuration("TEST_DURATION", time.Minute))
		})
	}
}
