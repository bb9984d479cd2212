// Package notifytest provides in-memory notify platforms for tests.
package notifytest

import (
	"context"
	"fmt"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/cristianoliveira/propintel/internal/notify"
)

// Platform is an in-memory notify.Platform. Alerts sharing a tag replace each other,
// matching how desktop and tmux backends behave.
type Platform struct {
	Unsupported bool
	ShowErr     error

	mu      sync.Mutex
	seq     int
	shown   []notify.Alert
	visible map[string]*Handle
}

// NewPlatform returns an empty supported platform.
func NewPlatform() *Platform {
	return &Platform{visible: make(map[string]*Handle)}
}

// Name implements notify.Platform.
func (p *Platform) Name() string { return "fake" }

// Supported implements notify.Platform.
func (p *Platform) Supported() bool { return !p.Unsupported }

// Show implements notify.Platform.
func (p *Platform) Show(_ context.Context, a notify.Alert) (notify.Handle, error) {
	if p.ShowErr != nil {
		return nil, p.ShowErr
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seq++
	h := &Handle{id: fmt.Sprintf("alert-%d", p.seq), alert: a, platform: p}
	p.shown = append(p.shown, a)
	p.visible[a.Tag] = h
	return h, nil
}

// Shown returns every alert passed to Show, in order.
func (p *Platform) Shown() []notify.Alert {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]notify.Alert(nil), p.shown...)
}

// Visible returns the alerts currently on screen.
func (p *Platform) Visible() []*Handle {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*Handle, 0, len(p.visible))
	for _, h := range p.visible {
		out = append(out, h)
	}
	return out
}

// VisibleFor returns the on-screen alert for tag.
func (p *Platform) VisibleFor(tag string) (*Handle, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	h, ok := p.visible[tag]
	return h, ok
}

// Handle is a fake alert handle.
type Handle struct {
	id       string
	alert    notify.Alert
	platform *Platform

	mu      sync.Mutex
	onClick []func()
	closes  int
}

func (h *Handle) ID() string  { return h.id }
func (h *Handle) Tag() string { return h.alert.Tag }

// Alert returns the alert this handle shows.
func (h *Handle) Alert() notify.Alert { return h.alert }

func (h *Handle) OnClick(fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onClick = append(h.onClick, fn)
}

func (h *Handle) Close() error {
	h.mu.Lock()
	h.closes++
	h.mu.Unlock()

	h.platform.mu.Lock()
	defer h.platform.mu.Unlock()
	if cur, ok := h.platform.visible[h.alert.Tag]; ok && cur == h {
		delete(h.platform.visible, h.alert.Tag)
	}
	return nil
}

// Click simulates the user activating the alert.
func (h *Handle) Click() {
	h.mu.Lock()
	fns := append([]func(){}, h.onClick...)
	h.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// Closes returns how many times Close was called.
func (h *Handle) Closes() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closes
}

// Authority is a testify mock of notify.PermissionAuthority.
type Authority struct {
	mock.Mock
}

// State implements notify.PermissionAuthority.
func (a *Authority) State(ctx context.Context) (notify.PermissionState, error) {
	args := a.Called(ctx)
	return args.Get(0).(notify.PermissionState), args.Error(1)
}

// Prompt implements notify.PermissionAuthority.
func (a *Authority) Prompt(ctx context.Context) (notify.PermissionState, error) {
	args := a.Called(ctx)
	return args.Get(0).(notify.PermissionState), args.Error(1)
}

// Focuser counts focus requests.
type Focuser struct {
	mu    sync.Mutex
	calls int
}

// Focus implements notify.Focuser.
func (f *Focuser) Focus() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return nil
}

// Calls returns the number of Focus calls.
func (f *Focuser) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

var (
	_ notify.Platform            = (*Platform)(nil)
	_ notify.PermissionAuthority = (*Authority)(nil)
	_ notify.Focuser             = (*Focuser)(nil)
)
