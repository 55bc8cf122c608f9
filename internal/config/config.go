package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds process-level configuration taken from the environment.
// User-facing settings (API key, provider, dark mode) live in Settings,
// persisted as a JSON document under DataDir.
type Config struct {
	ListenAddr   string
	DataDir      string
	GeneratedDir string
}

func Load() *Config {
	return &Config{
		ListenAddr:   getEnv("PS_LISTEN_ADDR", "127.0.0.1:8475"),
		DataDir:      getEnv("PS_DATA_DIR", "data"),
		GeneratedDir: getEnv("PS_GENERATED_DIR", "generated_images"),
	}
}

// SettingsPath is the location of the persisted settings document.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.DataDir, "settings.json")
}

// DBPath is the location of the sqlite history database.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "history.db")
}

// SaveDir returns the dated subdirectory used for edit saves, e.g.
// data/2026-08-28. The saver creates it on first write.
func (c *Config) SaveDir(now time.Time) string {
	return filepath.Join(c.DataDir, now.Format("2006-01-02"))
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
