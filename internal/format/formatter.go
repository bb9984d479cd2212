// Package format renders command results for the terminal or as JSON.
package format

import (
	"io"

	"github.com/cristianoliveira/propintel/internal/geocode"
	"github.com/cristianoliveira/propintel/internal/inspection"
	"github.com/cristianoliveira/propintel/internal/notify"
	"github.com/cristianoliveira/propintel/internal/storage"
)

// NoLocationMessage is shown for both not-found and failed lookups.
const NoLocationMessage = "Unable to load location data"

// LocationView is the result of a lookup.
type LocationView struct {
	Query    string
	Outcome  geocode.Outcome
	Location *geocode.Location
	MapURL   string
	// Cause is the diagnostic error, shown only in verbose mode.
	Cause string
}

// InspectionView is an inspection request with its findings.
type InspectionView struct {
	Request   inspection.Request
	RoleLabel string
	Issues    []inspection.Issue
	Summary   inspection.Summary
	Location  *LocationView
}

// PreferencesView is the notification configuration of the current host.
type PreferencesView struct {
	Backend     string
	Supported   bool
	Permission  notify.PermissionState
	Preferences notify.Preferences
}

// Formatter writes command results to a writer.
type Formatter interface {
	FormatLocation(w io.Writer, v LocationView) error
	FormatInspection(w io.Writer, v InspectionView) error
	FormatPreferences(w io.Writer, v PreferencesView) error
	FormatSearches(w io.Writer, rows []storage.SearchRecord) error
	FormatAlerts(w io.Writer, rows []storage.AlertRow) error
}

// FormatterType selects a Formatter.
type FormatterType string

const (
	// FormatterTypeText renders styled cards and tables.
	FormatterTypeText FormatterType = "text"
	// FormatterTypeJSON renders indented JSON.
	FormatterTypeJSON FormatterType = "json"
)

// NewFormatter returns the formatter for t. Unknown types fall back to text.
func NewFormatter(t FormatterType, verbose bool) Formatter {
	switch t {
	case FormatterTypeJSON:
		return &JSONFormatter{verbose: verbose}
	default:
		return NewTextFormatter(verbose)
	}
}
