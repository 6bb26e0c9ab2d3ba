package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.False(t, cfg.DevMode)
	assert.Empty(t, cfg.DBPath)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("RF_PORT", "9090")
	t.Setenv("RF_DEV_MODE", "true")
	t.Setenv("RF_DB_PATH", "/tmp/rentals.db")
	t.Setenv("RF_CORS_ORIGINS", "https://a.example, https://b.example,")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.DevMode)
	assert.Equal(t, "/tmp/rentals.db", cfg.DBPath)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("RF_PORT=7070\nRF_DB_PATH=/data/rf.db\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Port)
	assert.Equal(t, "/data/rf.db", cfg.DBPath)
}

func TestLoadEnvBeatsFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("RF_PORT", "6060")
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("RF_PORT=7070\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 6060, cfg.Port)
}

func TestLoadBadPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("RF_PORT", "eighty")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

// clearEnv unsets RF_* variables for the test, restoring them afterwards.
// godotenv.Load sets process env directly, so each key is registered with
// t.Setenv first to get it restored.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"RF_PORT", "RF_DEV_MODE", "RF_DB_PATH", "RF_CORS_ORIGINS"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}
