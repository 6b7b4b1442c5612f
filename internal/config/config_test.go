package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(New(), "", "")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.ServerURL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.LogDev)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Empty(t, cfg.MetricsAddr)
	assert.NotEmpty(t, cfg.DeviceFile)
	assert.Equal(t, 500*time.Millisecond, cfg.Reconnect.BaseDelay)
	assert.Equal(t, 10*time.Second, cfg.Reconnect.MaxDelay)
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "draft.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server_url: https://draft.example.com
log_level: debug
reconnect:
  base_delay: 250ms
  max_delay: 4s
`), 0o600))

	t.Setenv("DRAFT_LOG_LEVEL", "warn")
	t.Setenv("DRAFT_RECONNECT_MAX_DELAY", "8s")

	cfg, err := Load(New(), path, "")
	require.NoError(t, err)
	assert.Equal(t, "https://draft.example.com", cfg.ServerURL)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 250*time.Millisecond, cfg.Reconnect.BaseDelay)
	assert.Equal(t, 8*time.Second, cfg.Reconnect.MaxDelay)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("DRAFT_METRICS_ADDR=127.0.0.1:9100\n"), 0o600))
	t.Setenv("DRAFT_METRICS_ADDR", "")
	os.Unsetenv("DRAFT_METRICS_ADDR")

	cfg, err := Load(New(), "", envFile)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9100", cfg.MetricsAddr)

	_, err = Load(New(), "", filepath.Join(dir, "missing.env"))
	assert.NoError(t, err, "a missing .env file is not an error")
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("DRAFT_RECONNECT_BASE_DELAY", "5s")
	t.Setenv("DRAFT_RECONNECT_MAX_DELAY", "1s")

	_, err := Load(New(), "", "")
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = Load(New(), filepath.Join(t.TempDir(), "nope.yaml"), "")
	assert.Error(t, err)
}
