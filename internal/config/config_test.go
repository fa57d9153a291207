package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/condoadmin")
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "https://mindicador.cl/api", cfg.UFIndicatorURL)
	assert.Equal(t, 24*time.Hour, cfg.AccessTokenTTL)
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "secret")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/condoadmin")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestGetDurationSupportsBareSeconds(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_TTL", "3600")
	assert.Equal(t, time.Hour, getDuration("ACCESS_TOKEN_TTL", time.Minute))

	t.Setenv("ACCESS_TOKEN_TTL", "90m")
	assert.Equal(t, 90*time.Minute, getDuration("ACCESS_TOKEN_TTL", time.Minute))

	t.Setenv("ACCESS_TOKEN_TTL", "bogus")
	assert.Equal(t, time.Minute, getDuration("ACCESS_TOKEN_TTL", time.Minute))
}
