package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, Config{
		SocketURL:    "ws://localhost:8000/ws",
		ListenAddr:   ":8000",
		MaxUsers:     2,
		FetchTimeout: 30 * time.Second,
		AssetWorkers: 4,
		WindowWidth:  1280,
		WindowHeight: 720,
	}, cfg)
}

func TestLoadEnvironmentOverridesDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("OXY_MAX_USERS=5\nOXY_PROFILE=true\nOXY_FETCH_TIMEOUT=5s\n"), 0o644))
	t.Setenv("OXY_MAX_USERS", "3")
	t.Setenv("OXY_VALKEY_ADDR", "localhost:6379")
	// godotenv sets variables in the process; restore them after the test.
	t.Setenv("OXY_PROFILE", "")
	t.Setenv("OXY_FETCH_TIMEOUT", "")
	require.NoError(t, os.Unsetenv("OXY_PROFILE"))
	require.NoError(t, os.Unsetenv("OXY_FETCH_TIMEOUT"))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.MaxUsers)
	assert.True(t, cfg.Profile)
	assert.Equal(t, 5*time.Second, cfg.FetchTimeout)
	assert.Equal(t, "localhost:6379", cfg.ValkeyAddr)
}

func TestLoadRejectsBadValues(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.env")

	t.Setenv("OXY_MAX_USERS", "zero")
	_, err := Load(missing)
	assert.Error(t, err)

	t.Setenv("OXY_MAX_USERS", "0")
	_, err = Load(missing)
	assert.ErrorContains(t, err, "OXY_MAX_USERS")
}
