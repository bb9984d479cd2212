// Package desktop shows alerts through the freedesktop notification service on the
// session D-Bus.
package desktop

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/cristianoliveira/propintel/internal/colors"
	"github.com/cristianoliveira/propintel/internal/notify"
)

const (
	busName    = "org.freedesktop.Notifications"
	objectPath = dbus.ObjectPath("/org/freedesktop/Notifications")

	methodNotify = busName + ".Notify"
	methodClose  = busName + ".CloseNotification"

	signalActionInvoked = busName + ".ActionInvoked"
	signalClosed        = busName + ".NotificationClosed"

	defaultAction   = "default"
	urgencyNormal   = byte(1)
	urgencyCritical = byte(2)
)

// caller is the part of dbus.BusObject the platform uses.
type caller interface {
	CallWithContext(ctx context.Context, method string, flags dbus.Flags, args ...any) *dbus.Call
}

// Option configures a Platform.
type Option func(*Platform)

// WithAppName sets the application name shown by the notification server.
func WithAppName(name string) Option {
	return func(p *Platform) { p.appName = name }
}

// WithTimeout sets how long auto-dismissing alerts stay visible.
func WithTimeout(d time.Duration) Option {
	return func(p *Platform) { p.timeout = d }
}

// Platform implements notify.Platform over org.freedesktop.Notifications.
type Platform struct {
	appName string
	timeout time.Duration

	connectOnce sync.Once
	conn        *dbus.Conn
	obj         caller
	connErr     error

	mu      sync.Mutex
	handles map[uint32]*handle
}

// New returns a Platform. The bus is connected lazily on first use.
func New(opts ...Option) *Platform {
	p := &Platform{
		appName: "propintel",
		timeout: 5 * time.Second,
		handles: make(map[uint32]*handle),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func newWithCaller(obj caller, opts ...Option) *Platform {
	p := New(opts...)
	p.connectOnce.Do(func() {})
	p.obj = obj
	return p
}

func (p *Platform) connect() error {
	p.connectOnce.Do(func() {
		conn, err := dbus.ConnectSessionBus()
		if err != nil {
			p.connErr = fmt.Errorf("connect session bus: %w", err)
			return
		}
		var owned bool
		if err := conn.BusObject().Call("org.freedesktop.DBus.NameHasOwner", 0, busName).Store(&owned); err != nil || !owned {
			conn.Close()
			p.connErr = fmt.Errorf("%s has no owner: %w", busName, notify.ErrCapabilityUnsupported)
			return
		}
		if err := conn.AddMatchSignal(
			dbus.WithMatchObjectPath(objectPath),
			dbus.WithMatchInterface(busName),
		); err != nil {
			conn.Close()
			p.connErr = fmt.Errorf("subscribe to notification signals: %w", err)
			return
		}
		signals := make(chan *dbus.Signal, 16)
		conn.Signal(signals)
		go func() {
			for sig := range signals {
				p.handleSignal(sig)
			}
		}()
		p.conn = conn
		p.obj = conn.Object(busName, objectPath)
	})
	return p.connErr
}

// Name implements notify.Platform.
func (p *Platform) Name() string { return "desktop" }

// Supported implements notify.Platform.
func (p *Platform) Supported() bool {
	err := p.connect()
	if err != nil {
		colors.StructuredDebug("desktop", "connect", "failed", err, "", nil)
	}
	return err == nil
}

// Show implements notify.Platform. A superseded alert is replaced in place through
// the replaces_id argument.
func (p *Platform) Show(ctx context.Context, a notify.Alert) (notify.Handle, error) {
	if err := p.connect(); err != nil {
		return nil, err
	}

	var replaces uint32
	if a.Supersedes != nil {
		if id, err := strconv.ParseUint(a.Supersedes.ID(), 10, 32); err == nil {
			replaces = uint32(id)
		}
	}
	urgency := urgencyNormal
	expire := int32(p.timeout.Milliseconds())
	if a.RequiresInteraction {
		urgency = urgencyCritical
		expire = 0
	}
	hints := map[string]dbus.Variant{
		"urgency":  dbus.MakeVariant(urgency),
		"category": dbus.MakeVariant("x-propintel." + a.Tag),
	}

	var id uint32
	call := p.obj.CallWithContext(ctx, methodNotify, 0,
		p.appName, replaces, "", a.Title, a.Body,
		[]string{defaultAction, "Open"}, hints, expire)
	if err := call.Store(&id); err != nil {
		return nil, fmt.Errorf("notify: %w", err)
	}

	h := &handle{id: id, tag: a.Tag, platform: p}
	p.mu.Lock()
	p.handles[id] = h
	p.mu.Unlock()
	return h, nil
}

func (p *Platform) handleSignal(sig *dbus.Signal) {
	if sig == nil || len(sig.Body) < 2 {
		return
	}
	id, ok := sig.Body[0].(uint32)
	if !ok {
		return
	}
	switch sig.Name {
	case signalActionInvoked:
		action, _ := sig.Body[1].(string)
		if action != defaultAction {
			return
		}
		p.mu.Lock()
		h := p.handles[id]
		p.mu.Unlock()
		if h != nil {
			h.click()
		}
	case signalClosed:
		p.mu.Lock()
		delete(p.handles, id)
		p.mu.Unlock()
	}
}

// Close releases the bus connection.
func (p *Platform) Close() error {
	if p.conn == nil {
		return nil
	}
	return p.conn.Close()
}

type handle struct {
	id       uint32
	tag      string
	platform *Platform

	mu      sync.Mutex
	onClick []func()
}

func (h *handle) ID() string  { return strconv.FormatUint(uint64(h.id), 10) }
func (h *handle) Tag() string { return h.tag }

func (h *handle) OnClick(fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onClick = append(h.onClick, fn)
}

func (h *handle) click() {
	h.mu.Lock()
	fns := append([]func(){}, h.onClick...)
	h.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

func (h *handle) Close() error {
	h.platform.mu.Lock()
	delete(h.platform.handles, h.id)
	h.platform.mu.Unlock()
	call := h.platform.obj.CallWithContext(context.Background(), methodClose, 0, h.id)
	if call.Err != nil {
		return fmt.Errorf("close notification %d: %w", h.id, call.Err)
	}
	return nil
}

var _ notify.Platform = (*Platform)(nil)
