package notify

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/cristianoliveira/propintel/internal/logging"
)

// LogPlatform writes alerts to the structured log. It is used when no interactive
// host is available; its alerts can never be clicked.
type LogPlatform struct{}

// Name implements Platform.
func (LogPlatform) Name() string { return "log" }

// Supported implements Platform.
func (LogPlatform) Supported() bool { return true }

// Show implements Platform.
func (LogPlatform) Show(_ context.Context, a Alert) (Handle, error) {
	h := &logHandle{id: uuid.NewString(), tag: a.Tag}
	args := []any{
		"id", h.id,
		"tag", a.Tag,
		"title", a.Title,
		"body", a.Body,
		"requires_interaction", a.RequiresInteraction,
	}
	if a.Supersedes != nil {
		args = append(args, "supersedes", a.Supersedes.ID())
	}
	logging.GetGlobal().Info("alert", args...)
	return h, nil
}

type logHandle struct {
	id  string
	tag string

	mu     sync.Mutex
	closed bool
}

func (h *logHandle) ID() string  { return h.id }
func (h *logHandle) Tag() string { return h.tag }

// OnClick is a no-op: a log line is never clicked.
func (h *logHandle) OnClick(func()) {}

func (h *logHandle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.closed {
		h.closed = true
		logging.GetGlobal().Debug("alert dismissed", "id", h.id, "tag", h.tag)
	}
	return nil
}

// NoopPlatform reports no alert capability.
type NoopPlatform struct{}

// Name implements Platform.
func (NoopPlatform) Name() string { return "none" }

// Supported implements Platform.
func (NoopPlatform) Supported() bool { return false }

// Show implements Platform.
func (NoopPlatform) Show(context.Context, Alert) (Handle, error) {
	return nil, ErrCapabilityUnsupported
}

// StaticAuthority is a PermissionAuthority with a fixed decision and no prompt.
type StaticAuthority PermissionState

// State implements PermissionAuthority.
func (s StaticAuthority) State(context.Context) (PermissionState, error) {
	return PermissionState(s), nil
}

// Prompt implements PermissionAuthority.
func (s StaticAuthority) Prompt(context.Context) (PermissionState, error) {
	return PermissionState(s), nil
}
