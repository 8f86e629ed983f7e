package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "openai", cfg.Model.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.Model.Name)
	assert.Equal(t, 100, cfg.Cache.MaxSize)
	assert.Equal(t, 300*time.Second, cfg.Cache.TTL())
	assert.Equal(t, 3, cfg.Retry.Attempts)
	assert.Equal(t, 2*time.Second, cfg.Retry.MinWait())
	assert.Equal(t, 10*time.Second, cfg.Retry.MaxWait())
	assert.Equal(t, "Asia/Kolkata", cfg.Calendar.Timezone)
	assert.Equal(t, ":8000", cfg.Server.ListenAddr)
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calmesh.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
model:
  provider: anthropic
  name: claude-3-5-sonnet-20241022
cache:
  maxSize: 50
  ttlSeconds: 60
calendar:
  timezone: Europe/Berlin
`), 0o600))
	t.Setenv("CALMESH_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "anthropic", cfg.Model.Provider)
	assert.Equal(t, 50, cfg.Cache.MaxSize)
	assert.Equal(t, 60*time.Second, cfg.Cache.TTL())
	assert.Equal(t, "Europe/Berlin", cfg.Calendar.Timezone)
	assert.Equal(t, 3, cfg.Retry.Attempts, "unset sections keep their defaults")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calmesh.yaml")
	require.NoError(t, os.WriteFile(path, []byte("calendar:\n  timezone: Europe/Berlin\n"), 0o600))
	t.Setenv("CALMESH_CONFIG", path)
	t.Setenv("CALMESH_TIMEZONE", "America/New_York")
	t.Setenv("CALMESH_CACHE_MAX_SIZE", "25")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "America/New_York", cfg.Calendar.Timezone)
	assert.Equal(t, 25, cfg.Cache.MaxSize)
}

func TestLoad_MissingFileErrors(t *testing.T) {
	t.Setenv("CALMESH_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_APIKeyFollowsProvider(t *testing.T) {
	t.Setenv("CALMESH_CONFIG", "")
	t.Setenv("CALMESH_MODEL_PROVIDER", "anthropic")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sk-ant-test", cfg.Model.APIKey)
}
