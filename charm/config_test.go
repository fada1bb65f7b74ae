// ABOUTME: Tests for charm backend configuration loading and saving
// ABOUTME: Uses temporary config paths only
package charm

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfigFrom(filepath.Join(t.TempDir(), "none.json"))
	require.NoError(t, err)
	assert.Equal(t, DefaultCharmHost, cfg.Host)
	assert.True(t, cfg.AutoSync)
}

func TestConfigSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", ConfigFileName)

	cfg, err := LoadConfigFrom(path)
	require.NoError(t, err)
	cfg.Host = "charm.example.com"
	cfg.StaleThreshold = 5 * time.Minute
	require.NoError(t, cfg.SetAutoSync(false))

	reloaded, err := LoadConfigFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "charm.example.com", reloaded.Host)
	assert.False(t, reloaded.AutoSync)
	assert.Equal(t, 5*time.Minute, reloaded.StaleThreshold)
}

func TestLoadConfigInvalidJSONUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	cfg, err := LoadConfigFrom(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultCharmHost, cfg.Host)
}
