// Package settings persists user preferences to TOML in the config directory.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/cristianoliveira/propintel/internal/config"
	"github.com/cristianoliveira/propintel/internal/notify"
)

const settingsFilename = "preferences" + config.FileExtTOML

// Settings holds user preferences persisted to disk.
//
// TOML layout:
//
//	[notifications]
//	new_inspections = true
//	inspection_updates = false
//	high_priority_issues = true
//
// Omitted toggles read as enabled.
type Settings struct {
	Notifications notify.Preferences `toml:"notifications"`
}

// DefaultSettings returns settings with every toggle unset.
func DefaultSettings() *Settings {
	return &Settings{}
}

// Path returns the preferences file: preferences_path when configured, otherwise
// {config_dir}/preferences.toml.
func Path() string {
	if override := config.Get("preferences_path", ""); override != "" {
		return override
	}
	return filepath.Join(config.Get("config_dir", ""), settingsFilename)
}

// Load reads settings. A missing file yields DefaultSettings.
func Load() (*Settings, error) {
	path := Path()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultSettings(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	s := DefaultSettings()
	if err := toml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse settings file %s: %w", path, err)
	}
	return s, nil
}

// Save writes settings, creating the directory when needed.
func Save(s *Settings) error {
	if s == nil {
		return fmt.Errorf("settings cannot be nil")
	}
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), config.FileModeDir); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := os.WriteFile(path, data, config.FileModeFile); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	return nil
}

// Reset removes the settings file so every toggle returns to its default.
func Reset() error {
	if err := os.Remove(Path()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove settings file: %w", err)
	}
	return nil
}

// Toggle flips one notification category and saves the result.
func Toggle(c notify.Category) (bool, error) {
	s, err := Load()
	if err != nil {
		return false, err
	}
	enabled, err := s.Notifications.Toggle(c)
	if err != nil {
		return false, err
	}
	return enabled, Save(s)
}

// SetCategory stores an explicit value for one notification category.
func SetCategory(c notify.Category, enabled bool) error {
	s, err := Load()
	if err != nil {
		return err
	}
	if err := s.Notifications.Set(c, enabled); err != nil {
		return err
	}
	return Save(s)
}
