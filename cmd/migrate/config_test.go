package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vinylvault/internal/config"
)

func envMap(kv map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := kv[k]
		return v, ok
	}
}

func TestLoadSettingsDefaults(t *testing.T) {
	s, err := loadSettings(envMap(nil), filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, defaultMigrationsDir, s.Dir)
	assert.Equal(t, config.DefaultDatabaseURL, s.DatabaseURL)
	assert.Equal(t, "info", s.LogLevel)
}

func TestLoadSettingsPrecedence(t *testing.T) {
	dir := t.TempDir()
	local := filepath.Join(dir, ".env.local")
	shared := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(local, []byte("DATABASE_URL=from_local\n"), 0o600))
	require.NoError(t, os.WriteFile(shared, []byte("DATABASE_URL=from_shared\nMIGRATIONS_DIR=shared/migrations\nLOG_FORMAT=json\n"), 0o600))

	s, err := loadSettings(envMap(map[string]string{"LOG_FORMAT": "text"}), local, shared)
	require.NoError(t, err)

	assert.Equal(t, "from_local", s.DatabaseURL, "earlier file wins")
	assert.Equal(t, "shared/migrations", s.Dir)
	assert.Equal(t, "text", s.LogFormat, "process env wins over files")
}

func TestLoadSettingsRejectsBrokenFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(p, []byte("DATABASE_URL=\"unterminated\n"), 0o600))

	_, err := loadSettings(envMap(nil), p)
	assert.Error(t, err)
}
