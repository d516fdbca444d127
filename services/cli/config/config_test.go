package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.yaml")
	t.Setenv("SOCIALCTL_BASE_URL", "https://node.example")
	t.Setenv("SOCIALCTL_SESSION", path)
	t.Setenv("SOCIALCTL_TIMEOUT", "3")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://node.example", cfg.BaseURL)
	assert.Equal(t, path, cfg.SessionPath)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
}

func TestLoadDefaultSessionPath(t *testing.T) {
	t.Setenv("SOCIALCTL_SESSION", "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(cfg.SessionPath, filepath.Join("socialctl", "session.yaml")), cfg.SessionPath)
}

func TestLoadRejectsZeroTimeout(t *testing.T) {
	t.Setenv("SOCIALCTL_TIMEOUT", "0")
	_, err := Load()
	assert.Error(t, err)
}
