package desktop

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cristianoliveira/propintel/internal/notify"
)

type busCall struct {
	method string
	args   []any
}

type fakeBus struct {
	calls  []busCall
	nextID uint32
	err    error
}

func (f *fakeBus) CallWithContext(_ context.Context, method string, _ dbus.Flags, args ...any) *dbus.Call {
	f.calls = append(f.calls, busCall{method: method, args: args})
	if f.err != nil {
		return &dbus.Call{Err: f.err}
	}
	if method == methodClose {
		return &dbus.Call{}
	}
	f.nextID++
	return &dbus.Call{Body: []any{f.nextID}}
}

func TestShowAutoDismissingAlert(t *testing.T) {
	bus := &fakeBus{}
	p := newWithCaller(bus, WithTimeout(3*time.Second))

	h, err := p.Show(context.Background(), notify.Alert{Title: "New Inspection Scheduled", Body: "at 1 High St", Tag: "inspection"})
	require.NoError(t, err)
	assert.Equal(t, "1", h.ID())
	assert.Equal(t, "inspection", h.Tag())

	require.Len(t, bus.calls, 1)
	args := bus.calls[0].args
	assert.Equal(t, methodNotify, bus.calls[0].method)
	assert.Equal(t, "propintel", args[0])
	assert.Equal(t, uint32(0), args[1])
	assert.Equal(t, "New Inspection Scheduled", args[3])
	assert.Equal(t, "at 1 High St", args[4])
	assert.Equal(t, []string{"default", "Open"}, args[5])
	hints := args[6].(map[string]dbus.Variant)
	assert.Equal(t, urgencyNormal, hints["urgency"].Value())
	assert.Equal(t, int32(3000), args[7])
}

func TestShowRequiresInteractionNeverExpires(t *testing.T) {
	bus := &fakeBus{}
	p := newWithCaller(bus)

	_, err := p.Show(context.Background(), notify.Alert{Title: "High Priority Issue Found", Tag: "high-priority", RequiresInteraction: true})
	require.NoError(t, err)

	args := bus.calls[0].args
	hints := args[6].(map[string]dbus.Variant)
	assert.Equal(t, urgencyCritical, hints["urgency"].Value())
	assert.Equal(t, int32(0), args[7])
}

func TestShowSupersedesWithReplacesID(t *testing.T) {
	bus := &fakeBus{nextID: 41}
	p := newWithCaller(bus)
	ctx := context.Background()

	first, err := p.Show(ctx, notify.Alert{Title: "a", Tag: "high-priority"})
	require.NoError(t, err)
	_, err = p.Show(ctx, notify.Alert{Title: "b", Tag: "high-priority", Supersedes: first})
	require.NoError(t, err)

	assert.Equal(t, uint32(42), bus.calls[1].args[1])
}

func TestShowError(t *testing.T) {
	p := newWithCaller(&fakeBus{err: errors.New("no reply")})
	_, err := p.Show(context.Background(), notify.Alert{Title: "a", Tag: "inspection"})
	assert.ErrorContains(t, err, "no reply")
}

func TestActionInvokedFiresClick(t *testing.T) {
	bus := &fakeBus{}
	p := newWithCaller(bus)
	h, err := p.Show(context.Background(), notify.Alert{Title: "a", Tag: "inspection"})
	require.NoError(t, err)

	clicks := 0
	h.OnClick(func() { clicks++ })

	p.handleSignal(&dbus.Signal{Name: signalActionInvoked, Body: []any{uint32(1), "other"}})
	assert.Equal(t, 0, clicks)
	p.handleSignal(&dbus.Signal{Name: signalActionInvoked, Body: []any{uint32(1), "default"}})
	assert.Equal(t, 1, clicks)
	p.handleSignal(&dbus.Signal{Name: signalActionInvoked, Body: []any{uint32(99), "default"}})
	assert.Equal(t, 1, clicks)

	p.handleSignal(&dbus.Signal{Name: signalClosed, Body: []any{uint32(1), uint32(2)}})
	p.handleSignal(&dbus.Signal{Name: signalActionInvoked, Body: []any{uint32(1), "default"}})
	assert.Equal(t, 1, clicks)
}

func TestHandleCloseCallsServer(t *testing.T) {
	bus := &fakeBus{}
	p := newWithCaller(bus)
	h, err := p.Show(context.Background(), notify.Alert{Title: "a", Tag: "inspection"})
	require.NoError(t, err)

	require.NoError(t, h.Close())
	require.Len(t, bus.calls, 2)
	assert.Equal(t, methodClose, bus.calls[1].method)
	assert.Equal(t, []any{uint32(1)}, bus.calls[1].args)
	assert.Empty(t, p.handles)
}

func TestHandleSignalIgnoresMalformed(t *testing.T) {
	p := newWithCaller(&fakeBus{})
	assert.NotPanics(t, func() {
		p.handleSignal(nil)
		p.handleSignal(&dbus.Signal{Name: signalActionInvoked})
		p.handleSignal(&dbus.Signal{Name: signalActionInvoked, Body: []any{"x", "default"}})
	})
}
