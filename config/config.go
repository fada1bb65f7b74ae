// ABOUTME: Application configuration from environment variables and .env files
// ABOUTME: Resolves backend choice, database and session paths, latency and log level

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

const appName = "dealdesk"

// Backends.
const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
	BackendCharm  = "charm"
)

type Config struct {
	Backend     string
	DBPath      string
	SessionPath string
	MockLatency time.Duration
	LogLevel    log.Level
}

// Load reads a .env file from the working directory if present, then the
// environment. Explicit environment variables win over .env values.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds the configuration from the process environment.
func FromEnv() (Config, error) {
	cfg := Config{
		Backend:     getEnv("DEALDESK_BACKEND", BackendSQLite),
		DBPath:      getEnv("DEALDESK_DB_PATH", DefaultDBPath()),
		SessionPath: getEnv("DEALDESK_SESSION_PATH", DefaultSessionPath()),
	}

	if err := ValidateBackend(cfg.Backend); err != nil {
		return Config{}, err
	}

	latency, err := time.ParseDuration(getEnv("DEALDESK_MOCK_LATENCY", "0s"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid DEALDESK_MOCK_LATENCY: %w", err)
	}
	if latency < 0 {
		return Config{}, fmt.Errorf("invalid DEALDESK_MOCK_LATENCY: must not be negative")
	}
	cfg.MockLatency = latency

	level, err := parseLevel(getEnv("DEALDESK_LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, err
	}
	cfg.LogLevel = level

	return cfg, nil
}

// parseLevel accepts debug, info, warn, error or fatal in any case.
// log.ParseLevel falls back to info for unknown names, so those are rejected here.
func parseLevel(name string) (log.Level, error) {
	want := strings.ToLower(strings.TrimSpace(name))
	level := log.ParseLevel(want)
	if level.String() != want {
		return 0, fmt.Errorf("invalid DEALDESK_LOG_LEVEL %q (want debug, info, warn, error or fatal)", name)
	}
	return level, nil
}

// ValidateBackend rejects unknown backend names.
func ValidateBackend(backend string) error {
	switch backend {
	case BackendSQLite, BackendMemory, BackendCharm:
		return nil
	default:
		return fmt.Errorf("unknown backend %q (want %s, %s or %s)", backend, BackendSQLite, BackendMemory, BackendCharm)
	}
}

// Logger returns a stderr logger at the configured level.
func (c Config) Logger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           c.LogLevel,
		ReportTimestamp: true,
		Prefix:          appName,
	})
}

func DefaultDBPath() string {
	return filepath.Join(xdg.DataHome, appName, appName+".db")
}

func DefaultSessionPath() string {
	return filepath.Join(xdg.StateHome, appName, "session.json")
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
