package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/cristianoliveira/propintel/cmd"
	"github.com/cristianoliveira/propintel/internal/app"
	"github.com/cristianoliveira/propintel/internal/colors"
	"github.com/cristianoliveira/propintel/internal/config"
	"github.com/cristianoliveira/propintel/internal/format"
	"github.com/cristianoliveira/propintel/internal/geocode"
	"github.com/cristianoliveira/propintel/internal/hooks"
	"github.com/cristianoliveira/propintel/internal/notify"
	"github.com/cristianoliveira/propintel/internal/notify/desktop"
	"github.com/cristianoliveira/propintel/internal/notify/prompt"
	"github.com/cristianoliveira/propintel/internal/notify/tmuxalert"
	"github.com/cristianoliveira/propintel/internal/settings"
	"github.com/cristianoliveira/propintel/internal/staticmap"
	"github.com/cristianoliveira/propintel/internal/storage"
	"github.com/cristianoliveira/propintel/internal/tmux"
)

// container builds the runtime dependencies on first use, after the root command has
// loaded the configuration.
type container struct {
	storeOnce sync.Once
	store     *storage.SQLiteStore
	storeErr  error

	gatewayOnce sync.Once
	gateway     *notify.Gateway
	authority   *prompt.Authority
	closers     []func() error
}

var deps = &container{}

func (c *container) Store() (*storage.SQLiteStore, error) {
	c.storeOnce.Do(func() {
		c.store, c.storeErr = storage.OpenDefault()
		if c.storeErr != nil {
			colors.StructuredWarn("startup", "open_store", "failed", c.storeErr, "", nil)
		}
	})
	return c.store, c.storeErr
}

// Close releases the store and any platform connection.
func (c *container) Close() error {
	var firstErr error
	for _, fn := range c.closers {
		if err := fn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if c.store != nil {
		if err := c.store.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (c *container) Formatter() format.Formatter {
	return cmd.Formatter()
}

func (c *container) MapBuilder() staticmap.Builder {
	return staticmap.Builder{
		BaseURL: config.Get("staticmap_base_url", staticmap.DefaultBaseURL),
		Zoom:    config.GetInt("staticmap_zoom", staticmap.DefaultZoom),
		Size:    config.Get("staticmap_size", staticmap.DefaultSize),
		Marker:  config.Get("staticmap_marker", staticmap.DefaultMarker),
	}
}

func (c *container) resolver() geocode.Resolver {
	return geocode.NewClient(
		geocode.WithBaseURL(config.Get("geocode_base_url", geocode.DefaultBaseURL)),
		geocode.WithLanguage(config.Get("geocode_language", geocode.DefaultLanguage)),
		geocode.WithUserAgent(config.Get("geocode_user_agent", "propintel")),
		geocode.WithTimeout(time.Duration(config.GetInt("geocode_timeout_seconds", 10))*time.Second),
		geocode.WithRate(config.GetFloat("geocode_rate_per_sec", 1)),
	)
}

func (c *container) locateUseCase() *app.LocateUseCase {
	var history app.SearchRecorder
	if config.GetBool("history_enabled", true) {
		if store, err := c.Store(); err == nil {
			history = store
		}
	}
	return app.NewLocateUseCase(c.resolver(), c.MapBuilder(), history)
}

func (c *container) Country() string {
	return config.Get("geocode_country", "gb")
}

func (c *container) Locate(ctx context.Context, input app.LocateInput) format.LocationView {
	return c.locateUseCase().Execute(ctx, input)
}

func (c *container) Inspect(ctx context.Context, input app.InspectInput) (app.InspectResult, error) {
	u := app.NewInspectUseCase(c.locateUseCase(), c.Gateway(), loadPreferences)
	return u.Execute(ctx, input)
}

func (c *container) notifyUseCase() *app.NotifyUseCase {
	return app.NewNotifyUseCase(c.Gateway(), loadPreferences)
}

func (c *container) Status(ctx context.Context) format.PreferencesView {
	return c.notifyUseCase().Status(ctx)
}

func (c *container) RequestPermission(ctx context.Context) notify.PermissionState {
	return c.notifyUseCase().RequestPermission(ctx)
}

func (c *container) Send(ctx context.Context, input app.SendInput) (notify.Handle, error) {
	return c.notifyUseCase().Send(ctx, input)
}

func (c *container) Test(ctx context.Context) int {
	return c.notifyUseCase().Test(ctx)
}

// DecidePermission stores state for the active backend without prompting.
func (c *container) DecidePermission(ctx context.Context, state notify.PermissionState) error {
	c.Gateway()
	if c.authority == nil {
		return fmt.Errorf("backend %q does not keep permission decisions", c.gateway.Platform().Name())
	}
	return c.authority.Decide(ctx, state)
}

// ResetPermission forgets the decision for the active backend.
func (c *container) ResetPermission(ctx context.Context) error {
	store, err := c.Store()
	if err != nil {
		return err
	}
	return store.ResetPermissionDecision(ctx, c.Gateway().Platform().Name())
}

func (c *container) History() (*app.HistoryUseCase, error) {
	store, err := c.Store()
	if err != nil {
		return nil, err
	}
	return app.NewHistoryUseCase(store), nil
}

// Gateway builds the notification gateway for the configured backend.
func (c *container) Gateway() *notify.Gateway {
	c.gatewayOnce.Do(func() {
		timeout := time.Duration(config.GetInt("notify_timeout_ms", 5000)) * time.Millisecond
		platform, focuser := c.platform(config.Get("notify_backend", "auto"), timeout)

		opts := []notify.Option{}
		if focuser != nil {
			opts = append(opts, notify.WithFocuser(focuser))
		}
		var recorder notify.Recorder
		var authority notify.PermissionAuthority = notify.StaticAuthority(notify.PermissionDefault)
		store, err := c.Store()
		if err == nil {
			recorder = store
			opts = append(opts, notify.WithAlertLookup(store))
		}
		switch {
		case platform.Name() == "log":
			// Headless runs have nobody to ask.
			authority = notify.StaticAuthority(notify.PermissionGranted)
		case err == nil:
			c.authority = prompt.New(store, platform.Name())
			authority = c.authority
		}
		if runner := hooks.FromConfig(); runner != nil {
			recorder = hooks.NewRecorder(recorder, runner)
		}
		if recorder != nil {
			opts = append(opts, notify.WithRecorder(recorder))
		}
		c.gateway = notify.NewGateway(platform, authority, opts...)
	})
	return c.gateway
}

func (c *container) platform(backend string, timeout time.Duration) (notify.Platform, notify.Focuser) {
	switch strings.ToLower(backend) {
	case "desktop":
		return c.desktopPlatform(timeout), c.tmuxFocuser()
	case "tmux":
		return tmuxalert.New(tmux.NewDefaultClient(), timeout), c.tmuxFocuser()
	case "log":
		return notify.LogPlatform{}, nil
	case "none":
		return notify.NoopPlatform{}, nil
	}

	if p := c.desktopPlatform(timeout); p.Supported() {
		return p, c.tmuxFocuser()
	}
	if p := tmuxalert.New(tmux.NewDefaultClient(), timeout); p.Supported() {
		return p, c.tmuxFocuser()
	}
	colors.Debug("no alert backend available, falling back to log")
	return notify.LogPlatform{}, nil
}

func (c *container) desktopPlatform(timeout time.Duration) *desktop.Platform {
	p := desktop.New(desktop.WithAppName("propintel"), desktop.WithTimeout(timeout))
	c.closers = append(c.closers, p.Close)
	return p
}

// tmuxFocuser returns a focuser for the pane running the command, or nil outside tmux.
func (c *container) tmuxFocuser() notify.Focuser {
	if os.Getenv("TMUX") == "" {
		return nil
	}
	f, err := tmuxalert.NewFocuser(tmux.NewDefaultClient())
	if err != nil {
		colors.Debug("click focus disabled: " + err.Error())
		return nil
	}
	return f
}

func loadPreferences() (notify.Preferences, error) {
	s, err := settings.Load()
	if err != nil {
		return notify.Preferences{}, err
	}
	return s.Notifications, nil
}

// settingsAdapter exposes the settings package as an app.SettingsClient.
type settingsAdapter struct{}

func (settingsAdapter) LoadSettings() (*settings.Settings, error) {
	return settings.Load()
}

func (settingsAdapter) ResetSettings() error {
	return settings.Reset()
}

func (settingsAdapter) ToggleCategory(c notify.Category) (bool, error) {
	return settings.Toggle(c)
}

func (settingsAdapter) SetCategory(c notify.Category, enabled bool) error {
	return settings.SetCategory(c, enabled)
}
