// ABOUTME: Configuration for the hosted Charm KV backend
// ABOUTME: Loads and saves server host, auto-sync and staleness settings as JSON

package charm

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/charm/kv"
)

const (
	// DefaultCharmHost is the self-hosted 2389 research server.
	DefaultCharmHost = "charm.2389.dev"

	// AppName names the Charm KV database and the local data directory.
	AppName = "dealdesk"

	// ConfigFileName is where we store local config.
	ConfigFileName = "charm-config.json"
)

// Config holds charm connection settings.
type Config struct {
	// Host is the charm server hostname.
	Host string `json:"host,omitempty"`

	// AutoSync pushes to the server after every write.
	AutoSync bool `json:"auto_sync"`

	// StaleThreshold is how old local data may get before a read triggers a
	// sync. Zero disables read-time syncs.
	StaleThreshold time.Duration `json:"stale_threshold,omitempty"`

	path string
}

// DefaultConfig returns a config pointing at the default host with auto-sync on.
func DefaultConfig() *Config {
	return &Config{
		Host:           DefaultCharmHost,
		AutoSync:       true,
		StaleThreshold: kv.DefaultStaleThreshold,
	}
}

// DefaultConfigPath is the config file under the XDG data directory.
func DefaultConfigPath() string {
	return filepath.Join(xdg.DataHome, AppName, ConfigFileName)
}

// LoadConfig reads the config at the default path.
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(DefaultConfigPath())
}

// LoadConfigFrom reads config from path. A missing or unparseable file
// yields defaults; missing fields are filled from defaults.
func LoadConfigFrom(path string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.path = path

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	var stored Config
	if err := json.Unmarshal(data, &stored); err != nil {
		return cfg, nil //nolint:nilerr // an unreadable config falls back to defaults
	}

	cfg.AutoSync = stored.AutoSync
	if stored.Host != "" {
		cfg.Host = stored.Host
	}
	if stored.StaleThreshold != 0 {
		cfg.StaleThreshold = stored.StaleThreshold
	}
	return cfg, nil
}

// Save persists the config to the path it was loaded from.
func (c *Config) Save() error {
	path := c.path
	if path == "" {
		path = DefaultConfigPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// SetAutoSync enables or disables auto-sync and saves.
func (c *Config) SetAutoSync(enabled bool) error {
	c.AutoSync = enabled
	return c.Save()
}
