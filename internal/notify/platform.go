package notify

import (
	"context"
	"time"
)

// Platform is a host alert capability.
type Platform interface {
	// Name identifies the backend in logs and status output.
	Name() string
	// Supported reports whether the host exposes the capability.
	Supported() bool
	// Show displays a and returns its handle. When a.Supersedes is set the platform
	// must replace that alert rather than stack a new one.
	Show(ctx context.Context, a Alert) (Handle, error)
}

// Handle is a visible alert.
type Handle interface {
	ID() string
	Tag() string
	// OnClick registers fn to run when the user activates the alert.
	OnClick(fn func())
	// Close dismisses the alert.
	Close() error
}

// PermissionAuthority owns the permission decision for a platform.
type PermissionAuthority interface {
	// State returns the remembered decision without prompting.
	State(ctx context.Context) (PermissionState, error)
	// Prompt asks the user once and returns the decision.
	Prompt(ctx context.Context) (PermissionState, error)
}

// Focuser brings the application back to the foreground.
type Focuser interface {
	Focus() error
}

// FocusFunc adapts a function to Focuser.
type FocusFunc func() error

// Focus calls f.
func (f FocusFunc) Focus() error { return f() }

// AlertRecord describes a dispatched alert for the recorder.
type AlertRecord struct {
	Platform            string
	Category            Category
	Tag                 string
	Title               string
	Body                string
	RequiresInteraction bool
	HandleID            string
	SupersededID        string
	CreatedAt           time.Time
}

// Recorder keeps a log of dispatched alerts.
type Recorder interface {
	RecordAlert(ctx context.Context, rec AlertRecord) error
}

// AlertLookup finds the alert last shown for a tag on a platform, including alerts
// shown by earlier runs. ok is false when there is none.
type AlertLookup interface {
	LatestAlert(ctx context.Context, platform, tag string) (handleID string, ok bool, err error)
}
