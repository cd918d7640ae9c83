package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("STORAGE_BACKEND", "memory")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StorageMemory, cfg.StorageBackend)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, int64(16), cfg.S3PartSizeMB)
	assert.Equal(t, "https://replit.com/oidc", cfg.IssuerURL)
}

func TestLoad_RejectsUnknownBackend(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "mongo")

	_, err := Load()
	assert.ErrorContains(t, err, "STORAGE_BACKEND")
}

func TestLoad_RejectsBadDuration(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "memory")
	t.Setenv("RATE_LIMIT_COMMENT", "soon")

	_, err := Load()
	assert.ErrorContains(t, err, "RATE_LIMIT_COMMENT")
}

func TestLoad_ProductionNeedsSecrets(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "memory")
	t.Setenv("APP_ENV", "production")
	t.Setenv("SESSION_SECRET", "change-me")
	t.Setenv("JWT_SECRET", "change-me")

	_, err := Load()
	assert.Error(t, err)
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{DBHost: "db", DBUser: "u", DBPass: "p", DBName: "n", DBPort: "5433"}
	assert.Equal(t, "host=db user=u password=p dbname=n port=5433 sslmode=disable", cfg.PostgresDSN())

	cfg.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", cfg.PostgresDSN())
}
