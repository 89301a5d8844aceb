package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("RATE_LIMIT", "")
	t.Setenv("RATE_WINDOW", "")
	t.Setenv("CORS_ORIGINS", "")
	t.Setenv("APP_ENV", "")

	c := Load()
	assert.Equal(t, "8080", c.Port)
	assert.Equal(t, 100, c.RateLimit)
	assert.Equal(t, 15*time.Minute, c.RateWindow)
	assert.Empty(t, c.CORSOrigins)
	assert.False(t, c.IsProduction())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("APP_ENV", "production")
	t.Setenv("RATE_LIMIT", "5")
	t.Setenv("RATE_WINDOW", "1m")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com,")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_NAME", "quiz")

	c := Load()
	assert.Equal(t, "9000", c.Port)
	assert.True(t, c.IsProduction())
	assert.Equal(t, 5, c.RateLimit)
	assert.Equal(t, time.Minute, c.RateWindow)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, c.CORSOrigins)
	assert.Contains(t, c.DSN(), "host=db")
	assert.Contains(t, c.DSN(), "dbname=quiz")
}
