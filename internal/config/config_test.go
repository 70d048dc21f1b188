package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"DB_DRIVER", "DATABASE_URL", "PORT", "ALLOWED_EXTENSIONS", "MAX_UPLOAD_MB", "SESSION_EXPIRY", "IMAGE_STORE"} {
		t.Setenv(key, "")
	}
	cfg := Load()

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "catalog.db", cfg.DSN())
	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, []string{"png", "jpg"}, cfg.AllowedExtensions)
	assert.Equal(t, 5*1024*1024, cfg.MaxUploadBytes)
	assert.Equal(t, 24*time.Hour, cfg.SessionExpiry)
	assert.Equal(t, "local", cfg.ImageStore)
	assert.False(t, cfg.IsProduction())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("APP_ENV", "production")
	t.Setenv("ALLOWED_EXTENSIONS", " .PNG, jpg ,,gif")
	t.Setenv("MAX_UPLOAD_MB", "not-a-number")
	t.Setenv("SESSION_EXPIRY", "90m")
	t.Setenv("SESSION_COOKIE_SECURE", "true")

	cfg := Load()
	assert.Equal(t, []string{"png", "jpg", "gif"}, cfg.AllowedExtensions)
	assert.Equal(t, 5*1024*1024, cfg.MaxUploadBytes)
	assert.Equal(t, 90*time.Minute, cfg.SessionExpiry)
	assert.True(t, cfg.SessionCookieSecure)
	assert.True(t, cfg.IsProduction())
	assert.Contains(t, cfg.DSN(), "host=db")
	assert.Contains(t, cfg.DSN(), "password=secret")
	assert.Contains(t, cfg.DSN(), "dbname=catalog")
}

func TestDatabaseURLWins(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@h/db")
	assert.Equal(t, "postgres://u:p@h/db", Load().DSN())
}

func TestParseDurationFallback(t *testing.T) {
	assert.Equal(t, time.Hour, parseDuration("bogus", time.Hour))
	assert.Equal(t, 3*time.Second, parseDuration("3s", time.Hour))
}
