package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Settings is the user-facing configuration document, persisted as JSON.
// The API key is stored in plaintext on local disk; the document lives in
// the user's data directory and is never sent anywhere except as a bearer
// token to the configured provider.
type Settings struct {
	APIKey      string `json:"api_key"`
	APIProvider string `json:"api_provider"`
	DarkMode    bool   `json:"dark_mode"`
}

// DefaultSettings are written on first load when no document exists yet.
func DefaultSettings() Settings {
	return Settings{
		APIKey:      "",
		APIProvider: "openai",
		DarkMode:    true,
	}
}

// Store manages the settings document with whole-document read-modify-write
// semantics: every change re-persists the full document.
type Store struct {
	path string

	mu      sync.RWMutex
	current Settings
}

// OpenStore loads the settings document at path, creating it with defaults
// if missing. A malformed document falls back to in-memory defaults without
// failing; the broken file is left in place and overwritten on next save.
func OpenStore(path string) (*Store, error) {
	s := &Store{path: path, current: DefaultSettings()}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if err := s.persist(s.current); err != nil {
			return nil, fmt.Errorf("writing default settings: %w", err)
		}
		slog.Info("created default settings", "path", path)
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading settings %s: %w", path, err)
	}

	var loaded Settings
	if err := json.Unmarshal(data, &loaded); err != nil {
		slog.Warn("settings file is malformed, using defaults", "path", path, "error", err)
		return s, nil
	}

	s.current = loaded
	return s, nil
}

// Current returns a copy of the current settings.
func (s *Store) Current() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Update replaces the current settings and re-persists the whole document.
func (s *Store) Update(next Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persist(next); err != nil {
		return err
	}
	s.current = next
	slog.Info("settings saved", "path", s.path, "provider", next.APIProvider)
	return nil
}

func (s *Store) persist(set Settings) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("creating settings directory: %w", err)
	}

	data, err := json.MarshalIndent(set, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Write to a temp file in the same directory for atomic rename.
	tmp, err := os.CreateTemp(filepath.Dir(s.path), "settings-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if tmpPath != "" {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("renaming settings file: %w", err)
	}
	tmpPath = ""
	return nil
}
