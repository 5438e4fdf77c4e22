package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr)
	assert.Equal(t, "data/rentals.db", cfg.Database.Path)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, "rentals", cfg.Storage.KeyPrefix)
	assert.Equal(t, 2, cfg.Cleanup.MaxConcurrent)
	assert.Equal(t, 30, cfg.Cleanup.TimeoutSeconds)
	assert.Error(t, cfg.Validate())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("RENTALS_AUTH_JWTSECRET", "s3cret")
	t.Setenv("RENTALS_SERVER_ADDR", "127.0.0.1:9000")
	t.Setenv("RENTALS_STORAGE_BUCKET", "media")
	t.Setenv("RENTALS_CLEANUP_MAXCONCURRENT", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, "media", cfg.Storage.Bucket)
	assert.Equal(t, 5, cfg.Cleanup.MaxConcurrent)
	assert.NoError(t, cfg.Validate())
}

func TestLoadDotEnvDoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	env := "RENTALS_AUTH_JWTSECRET=from-file\nRENTALS_LOG_LEVEL=debug\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600))
	t.Chdir(dir)

	t.Setenv("RENTALS_AUTH_JWTSECRET", "from-env")
	// godotenv sets variables process-wide; restore after the test
	t.Setenv("RENTALS_LOG_LEVEL", "")
	require.NoError(t, os.Unsetenv("RENTALS_LOG_LEVEL"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	yaml := "database:\n  path: /tmp/other.db\nlog:\n  format: json\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))
	t.Chdir(dir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/other.db", cfg.Database.Path)
	assert.Equal(t, "json", cfg.Log.Format)
}
