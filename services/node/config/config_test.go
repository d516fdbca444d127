package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "local")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "social-node", cfg.ServiceName)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, BackendMemory, cfg.StorageBackend)
	assert.Equal(t, 5*time.Second, cfg.LockTTL)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.CORSOrigins)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("LOCK_TTL", "250")
	t.Setenv("CORS_ORIGINS", " https://a.example , ,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.HTTPPort)
	assert.Equal(t, BackendPostgres, cfg.StorageBackend)
	assert.Equal(t, 250*time.Millisecond, cfg.LockTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestLoadIgnoresMalformedInt(t *testing.T) {
	t.Setenv("LOCK_TTL", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.LockTTL)
}

func TestLoadRejects(t *testing.T) {
	t.Run("unknown backend", func(t *testing.T) {
		t.Setenv("STORAGE_BACKEND", "sqlite")
		_, err := Load()
		assert.Error(t, err)
	})
	t.Run("prod without db", func(t *testing.T) {
		t.Setenv("APP_ENV", "prod")
		t.Setenv("DB_URL", "")
		_, err := Load()
		assert.Error(t, err)
	})
	t.Run("prod in memory", func(t *testing.T) {
		t.Setenv("APP_ENV", "prod")
		t.Setenv("STORAGE_BACKEND", "memory")
		_, err := Load()
		assert.Error(t, err)
	})
	t.Run("zero ttl", func(t *testing.T) {
		t.Setenv("LOCK_TTL", "0")
		_, err := Load()
		assert.Error(t, err)
	})
}
