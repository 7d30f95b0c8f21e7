package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvFallbacks(t *testing.T) {
	assert.Equal(t, "fallback", getEnv("STOCK_POS_TEST_UNSET_KEY", "fallback"))
	assert.Equal(t, 42, getEnvInt("STOCK_POS_TEST_UNSET_KEY", 42))
	assert.True(t, getEnvBool("STOCK_POS_TEST_UNSET_KEY", true))

	t.Setenv("STOCK_POS_TEST_BOOL", "garbage")
	assert.False(t, getEnvBool("STOCK_POS_TEST_BOOL", false))
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("DB_DRIVER", "MySQL")
	t.Setenv("DB_MAX_OPEN_CONNS", "7")
	t.Setenv("JWT_TTL_HOURS", "not-a-number")
	t.Setenv("APP_ENV", "production")

	cfg := LoadEnv()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 7, cfg.Database.MaxOpenConns)
	assert.Equal(t, 24, cfg.JWT.TTLHours, "invalid ints fall back to the default")
	assert.False(t, cfg.IsDevelopment())
}
