// Package tmuxalert shows alerts on the tmux status line.
package tmuxalert

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cristianoliveira/propintel/internal/notify"
	"github.com/cristianoliveira/propintel/internal/tmux"
)

// OptionPrefix prefixes the per-tag user option holding the latest alert, so a status
// line can reference #{@propintel-high-priority}.
const OptionPrefix = "@propintel-"

// Platform implements notify.Platform on top of a tmux client. tmux messages cannot be
// clicked; they are dismissed by a key press or by expiry.
type Platform struct {
	client  tmux.Client
	timeout time.Duration
	getenv  func(string) string

	mu      sync.Mutex
	current map[string]string
}

// New creates a Platform. Alerts that do not require interaction stay for timeout.
func New(client tmux.Client, timeout time.Duration) *Platform {
	if client == nil {
		panic("tmuxalert.New: client cannot be nil")
	}
	return &Platform{
		client:  client,
		timeout: timeout,
		getenv:  os.Getenv,
		current: make(map[string]string),
	}
}

// Name implements notify.Platform.
func (p *Platform) Name() string { return "tmux" }

// Supported implements notify.Platform.
func (p *Platform) Supported() bool {
	if p.getenv("TMUX") == "" {
		return false
	}
	ok, err := p.client.HasSession()
	return err == nil && ok
}

// Show implements notify.Platform.
func (p *Platform) Show(_ context.Context, a notify.Alert) (notify.Handle, error) {
	text := a.Title
	if a.Body != "" {
		text = a.Title + ": " + a.Body
	}
	d := p.timeout
	if a.RequiresInteraction {
		d = 0
	}
	// The option is overwritten in place, which is what makes a same-tag alert replace
	// the previous one.
	if err := p.client.SetUserOption(OptionPrefix+a.Tag, text); err != nil {
		return nil, err
	}
	if err := p.client.DisplayMessage(text, d); err != nil {
		return nil, err
	}

	h := &handle{id: uuid.NewString(), tag: a.Tag, platform: p}
	p.mu.Lock()
	p.current[a.Tag] = h.id
	p.mu.Unlock()
	return h, nil
}

type handle struct {
	id       string
	tag      string
	platform *Platform
}

func (h *handle) ID() string  { return h.id }
func (h *handle) Tag() string { return h.tag }

// OnClick is a no-op: a tmux status line cannot be clicked.
func (h *handle) OnClick(func()) {}

// Close clears the status option unless a newer alert already replaced it.
func (h *handle) Close() error {
	p := h.platform
	p.mu.Lock()
	owned := p.current[h.tag] == h.id
	if owned {
		delete(p.current, h.tag)
	}
	p.mu.Unlock()
	if !owned {
		return nil
	}
	return p.client.SetUserOption(OptionPrefix+h.tag, "")
}

// Focuser returns to the pane that was active when it was created.
type Focuser struct {
	client tmux.Client
	origin tmux.Context
}

// NewFocuser captures the current pane of client.
func NewFocuser(client tmux.Client) (*Focuser, error) {
	ctx, err := client.GetCurrentContext()
	if err != nil {
		return nil, fmt.Errorf("capture origin pane: %w", err)
	}
	return &Focuser{client: client, origin: ctx}, nil
}

// Focus implements notify.Focuser.
func (f *Focuser) Focus() error {
	_, err := f.client.JumpToPane(f.origin.SessionID, f.origin.WindowID, f.origin.PaneID)
	return err
}

var (
	_ notify.Platform = (*Platform)(nil)
	_ notify.Focuser  = (*Focuser)(nil)
)
