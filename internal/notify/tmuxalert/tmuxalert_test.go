package tmuxalert

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/cristianoliveira/propintel/internal/notify"
	"github.com/cristianoliveira/propintel/internal/tmux"
)

func TestNewPanicsOnNilClient(t *testing.T) {
	assert.Panics(t, func() { New(nil, time.Second) })
}

func TestSupported(t *testing.T) {
	client := new(tmux.MockClient)
	p := New(client, time.Second)

	p.getenv = func(string) string { return "" }
	assert.False(t, p.Supported())
	client.AssertNotCalled(t, "HasSession")

	p.getenv = func(string) string { return "/tmp/tmux-1000/default,1,0" }
	client.On("HasSession").Return(true, nil).Once()
	assert.True(t, p.Supported())

	client.On("HasSession").Return(false, tmux.ErrTmuxNotRunning).Once()
	assert.False(t, p.Supported())
}

func TestShowAutoDismiss(t *testing.T) {
	client := new(tmux.MockClient)
	client.On("SetUserOption", "@propintel-inspection", "New Inspection Scheduled: at 1 High St").Return(nil)
	client.On("DisplayMessage", "New Inspection Scheduled: at 1 High St", 4*time.Second).Return(nil)
	p := New(client, 4*time.Second)

	h, err := p.Show(context.Background(), notify.Alert{Title: "New Inspection Scheduled", Body: "at 1 High St", Tag: "inspection"})
	require.NoError(t, err)
	assert.Equal(t, "inspection", h.Tag())
	assert.NotEmpty(t, h.ID())
	client.AssertExpectations(t)
}

func TestShowRequiresInteraction(t *testing.T) {
	client := new(tmux.MockClient)
	client.On("SetUserOption", "@propintel-high-priority", mock.Anything).Return(nil)
	client.On("DisplayMessage", mock.Anything, time.Duration(0)).Return(nil)
	p := New(client, 4*time.Second)

	_, err := p.Show(context.Background(), notify.Alert{Title: "High Priority Issue Found", Tag: "high-priority", RequiresInteraction: true})
	require.NoError(t, err)
	client.AssertExpectations(t)
}

func TestShowError(t *testing.T) {
	client := new(tmux.MockClient)
	client.On("SetUserOption", mock.Anything, mock.Anything).Return(errors.New("no server"))
	p := New(client, time.Second)

	_, err := p.Show(context.Background(), notify.Alert{Title: "x", Tag: "inspection"})
	assert.Error(t, err)
	client.AssertNotCalled(t, "DisplayMessage", mock.Anything, mock.Anything)
}

func TestCloseOnlyClearsNewestAlert(t *testing.T) {
	client := new(tmux.MockClient)
	client.On("SetUserOption", "@propintel-inspection-update", mock.Anything).Return(nil)
	client.On("DisplayMessage", mock.Anything, mock.Anything).Return(nil)
	p := New(client, time.Second)
	ctx := context.Background()

	old, err := p.Show(ctx, notify.Alert{Title: "a", Tag: "inspection-update"})
	require.NoError(t, err)
	newer, err := p.Show(ctx, notify.Alert{Title: "b", Tag: "inspection-update", Supersedes: old})
	require.NoError(t, err)

	require.NoError(t, old.Close())
	client.AssertNotCalled(t, "SetUserOption", "@propintel-inspection-update", "")

	require.NoError(t, newer.Close())
	client.AssertCalled(t, "SetUserOption", "@propintel-inspection-update", "")
}

func TestFocuserJumpsToOrigin(t *testing.T) {
	client := new(tmux.MockClient)
	client.On("GetCurrentContext").Return(tmux.Context{SessionID: "$1", WindowID: "@2", PaneID: "%3"}, nil)
	client.On("JumpToPane", "$1", "@2", "%3").Return(true, nil)

	f, err := NewFocuser(client)
	require.NoError(t, err)
	require.NoError(t, f.Focus())
	client.AssertExpectations(t)
}

func TestNewFocuserError(t *testing.T) {
	client := new(tmux.MockClient)
	client.On("GetCurrentContext").Return(tmux.Context{}, errors.New("not in tmux"))

	_, err := NewFocuser(client)
	assert.ErrorContains(t, err, "capture origin pane")
}
