// Package notify gates categorised inspection alerts behind a permission state and
// per-category preferences, and hands them to a host alert platform.
package notify

import "fmt"

// PermissionState is the alert permission of the current session.
type PermissionState string

const (
	PermissionUnsupported PermissionState = "unsupported"
	PermissionDefault     PermissionState = "default"
	PermissionGranted     PermissionState = "granted"
	PermissionDenied      PermissionState = "denied"
)

// Terminal reports whether no further transition is possible in this session.
func (s PermissionState) Terminal() bool {
	return s != PermissionDefault
}

// ParsePermissionState converts a stored value back into a PermissionState.
func ParsePermissionState(s string) (PermissionState, error) {
	switch PermissionState(s) {
	case PermissionUnsupported, PermissionDefault, PermissionGranted, PermissionDenied:
		return PermissionState(s), nil
	}
	return "", fmt.Errorf("unknown permission state %q", s)
}

// Category is one of the closed set of alert categories.
type Category string

const (
	NewInspections     Category = "newInspections"
	InspectionUpdates  Category = "inspectionUpdates"
	HighPriorityIssues Category = "highPriorityIssues"
)

// Categories lists every category in display order.
func Categories() []Category {
	return []Category{NewInspections, InspectionUpdates, HighPriorityIssues}
}

// ParseCategory accepts the category name or its tag.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories() {
		if s == string(c) || s == c.Tag() {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// Tag is the platform tag shared by every alert of the category. A new alert with the
// same tag replaces the previous one.
func (c Category) Tag() string {
	switch c {
	case NewInspections:
		return "inspection"
	case InspectionUpdates:
		return "inspection-update"
	case HighPriorityIssues:
		return "high-priority"
	}
	return string(c)
}

// Label is the human readable category name.
func (c Category) Label() string {
	switch c {
	case NewInspections:
		return "New inspections"
	case InspectionUpdates:
		return "Inspection updates"
	case HighPriorityIssues:
		return "High priority issues"
	}
	return string(c)
}

// AlertEvent is a categorised alert waiting to be dispatched.
type AlertEvent struct {
	Category Category
	Title    string
	Body     string
}

// RequiresInteraction reports whether the alert stays until dismissed. Only high
// priority issues do; every other category auto-dismisses.
func (e AlertEvent) RequiresInteraction() bool {
	return e.Category == HighPriorityIssues
}

// Alert is what a Platform is asked to show.
type Alert struct {
	Title               string
	Body                string
	Tag                 string
	RequiresInteraction bool
	// Supersedes is the live alert with the same tag, if any.
	Supersedes Handle
}

// Preferences holds the per-category toggles. A nil toggle counts as enabled.
type Preferences struct {
	NewInspections     *bool `toml:"new_inspections,omitempty"`
	InspectionUpdates  *bool `toml:"inspection_updates,omitempty"`
	HighPriorityIssues *bool `toml:"high_priority_issues,omitempty"`
}

func (p *Preferences) field(c Category) **bool {
	switch c {
	case NewInspections:
		return &p.NewInspections
	case InspectionUpdates:
		return &p.InspectionUpdates
	case HighPriorityIssues:
		return &p.HighPriorityIssues
	}
	return nil
}

// Enabled reports whether alerts of category c may be shown.
func (p Preferences) Enabled(c Category) bool {
	f := p.field(c)
	if f == nil || *f == nil {
		return true
	}
	return **f
}

// Set stores an explicit toggle for c.
func (p *Preferences) Set(c Category, enabled bool) error {
	f := p.field(c)
	if f == nil {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, c)
	}
	*f = &enabled
	return nil
}

// Toggle flips c and returns the new value.
func (p *Preferences) Toggle(c Category) (bool, error) {
	next := !p.Enabled(c)
	if err := p.Set(c, next); err != nil {
		return false, err
	}
	return next, nil
}
