package app

import (
	"fmt"

	"github.com/cristianoliveira/propintel/internal/colors"
	"github.com/cristianoliveira/propintel/internal/notify"
	"github.com/cristianoliveira/propintel/internal/settings"
)

// SettingsClient defines dependencies required by settings commands.
type SettingsClient interface {
	LoadSettings() (*settings.Settings, error)
	ToggleCategory(c notify.Category) (bool, error)
	SetCategory(c notify.Category, enabled bool) error
	ResetSettings() error
}

// SettingsUseCase coordinates settings command behavior.
type SettingsUseCase struct {
	client SettingsClient
}

// NewSettingsUseCase creates a settings use-case.
func NewSettingsUseCase(client SettingsClient) *SettingsUseCase {
	if client == nil {
		panic("NewSettingsUseCase: client dependency cannot be nil")
	}
	return &SettingsUseCase{client: client}
}

// Preferences returns the stored notification toggles.
func (u *SettingsUseCase) Preferences() (notify.Preferences, error) {
	s, err := u.client.LoadSettings()
	if err != nil {
		return notify.Preferences{}, fmt.Errorf("failed to load settings: %w", err)
	}
	return s.Notifications, nil
}

// Toggle flips a category given by name or tag.
func (u *SettingsUseCase) Toggle(name string) error {
	c, err := notify.ParseCategory(name)
	if err != nil {
		return err
	}
	enabled, err := u.client.ToggleCategory(c)
	if err != nil {
		return fmt.Errorf("failed to toggle %s: %w", c, err)
	}
	colors.Success(fmt.Sprintf("%s %s", c.Label(), onOff(enabled)))
	return nil
}

// Set stores an explicit value for a category given by name or tag.
func (u *SettingsUseCase) Set(name string, enabled bool) error {
	c, err := notify.ParseCategory(name)
	if err != nil {
		return err
	}
	if err := u.client.SetCategory(c, enabled); err != nil {
		return fmt.Errorf("failed to set %s: %w", c, err)
	}
	colors.Success(fmt.Sprintf("%s %s", c.Label(), onOff(enabled)))
	return nil
}

// ResetInput contains reset options and the confirmation adapter.
type ResetInput struct {
	Force     bool
	ConfirmFn func() bool
}

// Reset restores every toggle to enabled.
func (u *SettingsUseCase) Reset(input ResetInput) error {
	if !input.Force && input.ConfirmFn != nil && !input.ConfirmFn() {
		colors.Info("Operation cancelled")
		return nil
	}
	if err := u.client.ResetSettings(); err != nil {
		return fmt.Errorf("failed to reset settings: %w", err)
	}
	colors.Success("Settings reset to defaults")
	return nil
}

func onOff(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}
