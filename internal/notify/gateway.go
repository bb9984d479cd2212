package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cristianoliveira/propintel/internal/colors"
)

// Option configures a Gateway.
type Option func(*Gateway)

// WithFocuser sets what a click on an alert brings to the foreground.
func WithFocuser(f Focuser) Option {
	return func(g *Gateway) { g.focuser = f }
}

// WithRecorder records every dispatched alert.
func WithRecorder(r Recorder) Option {
	return func(g *Gateway) { g.recorder = r }
}

// WithAlertLookup lets the gateway supersede alerts shown by earlier runs.
func WithAlertLookup(l AlertLookup) Option {
	return func(g *Gateway) { g.lookup = l }
}

// WithClock overrides the time source used for records.
func WithClock(now func() time.Time) Option {
	return func(g *Gateway) { g.now = now }
}

// Gateway owns the permission state of one session and dispatches alerts through a
// Platform. Support is probed once and cached for the lifetime of the Gateway.
type Gateway struct {
	platform  Platform
	authority PermissionAuthority
	focuser   Focuser
	recorder  Recorder
	lookup    AlertLookup
	now       func() time.Time

	supportOnce sync.Once
	supported   bool

	mu    sync.Mutex
	state PermissionState
	live  map[string]Handle
}

// NewGateway creates a Gateway. Platform and authority must not be nil.
func NewGateway(platform Platform, authority PermissionAuthority, opts ...Option) *Gateway {
	if platform == nil {
		panic("NewGateway: platform cannot be nil")
	}
	if authority == nil {
		panic("NewGateway: authority cannot be nil")
	}
	g := &Gateway{
		platform:  platform,
		authority: authority,
		now:       time.Now,
		live:      make(map[string]Handle),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Platform returns the backend the gateway dispatches to.
func (g *Gateway) Platform() Platform {
	return g.platform
}

// CheckSupport reports whether the host exposes the alert capability.
func (g *Gateway) CheckSupport() bool {
	g.supportOnce.Do(func() {
		g.supported = g.platform.Supported()
		colors.StructuredDebug("notify", "check_support", "completed", nil, g.platform.Name(),
			map[string]any{"supported": g.supported})
	})
	return g.supported
}

// State returns the current permission state without prompting.
func (g *Gateway) State(ctx context.Context) PermissionState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.loadStateLocked(ctx)
}

func (g *Gateway) loadStateLocked(ctx context.Context) PermissionState {
	if g.state != "" {
		return g.state
	}
	if !g.CheckSupport() {
		g.state = PermissionUnsupported
		return g.state
	}
	state, err := g.authority.State(ctx)
	if err != nil {
		colors.StructuredWarn("notify", "load_permission", "failed", err, "", nil)
		return PermissionDefault
	}
	// Only terminal decisions are cached; default must be re-read so a prompt can move it.
	if state.Terminal() {
		g.state = state
	}
	return state
}

// RequestPermission returns the permission state, prompting the user only when no
// decision has been made. Granted and denied are returned as-is without a prompt.
func (g *Gateway) RequestPermission(ctx context.Context) PermissionState {
	g.mu.Lock()
	defer g.mu.Unlock()

	state := g.loadStateLocked(ctx)
	if state != PermissionDefault {
		return state
	}

	decision, err := g.authority.Prompt(ctx)
	if err != nil {
		colors.StructuredWarn("notify", "request_permission", "failed", err, "", nil)
		return PermissionDefault
	}
	if decision.Terminal() {
		g.state = decision
	}
	colors.StructuredInfo("notify", "request_permission", "completed", nil, "",
		map[string]any{"state": string(decision)})
	return decision
}

// Dispatch shows ev when permission is granted and its category is enabled in prefs.
// It returns whether an alert was shown. Refusals are never errors.
func (g *Gateway) Dispatch(ctx context.Context, ev AlertEvent, prefs Preferences) bool {
	_, err := g.dispatch(ctx, ev, prefs)
	if err != nil {
		colors.StructuredDebug("notify", "dispatch", "skipped", err, string(ev.Category), nil)
		return false
	}
	return true
}

// DispatchHandle is like Dispatch but returns the shown alert and the reason when
// nothing was shown.
func (g *Gateway) DispatchHandle(ctx context.Context, ev AlertEvent, prefs Preferences) (Handle, error) {
	return g.dispatch(ctx, ev, prefs)
}

var errCategoryDisabled = errors.New("category disabled")

func (g *Gateway) dispatch(ctx context.Context, ev AlertEvent, prefs Preferences) (Handle, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch g.loadStateLocked(ctx) {
	case PermissionGranted:
	case PermissionUnsupported:
		return nil, ErrCapabilityUnsupported
	default:
		return nil, ErrPermissionRefused
	}
	if !prefs.Enabled(ev.Category) {
		return nil, errCategoryDisabled
	}

	tag := ev.Category.Tag()
	prev := g.live[tag]
	if prev == nil {
		prev = g.restore(ctx, tag)
	}
	alert := Alert{
		Title:               ev.Title,
		Body:                ev.Body,
		Tag:                 tag,
		RequiresInteraction: ev.RequiresInteraction(),
		Supersedes:          prev,
	}
	h, err := g.platform.Show(ctx, alert)
	if err != nil {
		colors.StructuredError("notify", "dispatch", "failed", err, tag, nil)
		return nil, err
	}
	g.live[tag] = h
	g.bindClick(h)

	colors.StructuredInfo("notify", "dispatch", "completed", nil, h.ID(), map[string]any{
		"tag":                  tag,
		"requires_interaction": alert.RequiresInteraction,
		"superseded":           prev != nil,
	})
	if g.recorder != nil {
		rec := AlertRecord{
			Platform:            g.platform.Name(),
			Category:            ev.Category,
			Tag:                 tag,
			Title:               alert.Title,
			Body:                alert.Body,
			RequiresInteraction: alert.RequiresInteraction,
			HandleID:            h.ID(),
			CreatedAt:           g.now(),
		}
		if prev != nil {
			rec.SupersededID = prev.ID()
		}
		if err := g.recorder.RecordAlert(ctx, rec); err != nil {
			colors.StructuredWarn("notify", "record_alert", "failed", err, h.ID(), nil)
		}
	}
	return h, nil
}

// restore returns the alert a previous run left for tag, or nil.
func (g *Gateway) restore(ctx context.Context, tag string) Handle {
	if g.lookup == nil {
		return nil
	}
	id, ok, err := g.lookup.LatestAlert(ctx, g.platform.Name(), tag)
	if err != nil {
		colors.StructuredWarn("notify", "restore_alert", "failed", err, tag, nil)
		return nil
	}
	if !ok || id == "" {
		return nil
	}
	return &restoredHandle{id: id, tag: tag}
}

// restoredHandle identifies an alert shown by another process. It can only be
// superseded.
type restoredHandle struct {
	id  string
	tag string
}

func (h *restoredHandle) ID() string  { return h.id }
func (h *restoredHandle) Tag() string { return h.tag }

// OnClick is a no-op: clicks on the alert reach the process that showed it.
func (h *restoredHandle) OnClick(func()) {}

// Close is a no-op: the owning process dismisses the alert.
func (h *restoredHandle) Close() error { return nil }

// bindClick makes every click focus the application and dismiss the alert. The alert
// is closed at most once however many clicks arrive.
func (g *Gateway) bindClick(h Handle) {
	var closeOnce sync.Once
	h.OnClick(func() {
		if g.focuser != nil {
			if err := g.focuser.Focus(); err != nil {
				colors.StructuredWarn("notify", "focus", "failed", err, h.ID(), nil)
			}
		}
		closeOnce.Do(func() {
			g.forget(h)
			if err := h.Close(); err != nil {
				colors.StructuredWarn("notify", "dismiss", "failed", err, h.ID(), nil)
			}
		})
	})
}

func (g *Gateway) forget(h Handle) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if cur, ok := g.live[h.Tag()]; ok && cur.ID() == h.ID() {
		delete(g.live, h.Tag())
	}
}

// Live returns the alert currently shown for tag, if any.
func (g *Gateway) Live(tag string) (Handle, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	h, ok := g.live[tag]
	return h, ok
}
