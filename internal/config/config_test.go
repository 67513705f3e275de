package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PORT", "")
	t.Setenv("GYM_TIMEZONE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "UTC", cfg.Timezone.String())
	assert.Equal(t, 10.0, cfg.RateLimitRPS)
	assert.Equal(t, 20, cfg.RateLimitBurst)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PORT", "9090")
	t.Setenv("GYM_TIMEZONE", "Europe/Berlin")
	t.Setenv("RATE_LIMIT_BURST", "5")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "Europe/Berlin", cfg.Timezone.String())
	assert.Equal(t, 5, cfg.RateLimitBurst)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing jwt secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("bad timezone", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "x")
		t.Setenv("GYM_TIMEZONE", "Mars/Olympus")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("bad rps", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "x")
		t.Setenv("RATE_LIMIT_RPS", "fast")
		_, err := Load()
		assert.Error(t, err)
	})
}
