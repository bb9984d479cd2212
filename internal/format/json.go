package format

import (
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/cristianoliveira/propintel/internal/geocode"
	"github.com/cristianoliveira/propintel/internal/inspection"
	"github.com/cristianoliveira/propintel/internal/notify"
	"github.com/cristianoliveira/propintel/internal/storage"
)

// JSONFormatter renders results as indented JSON.
type JSONFormatter struct {
	verbose bool
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type locationJSON struct {
	Query    string            `json:"query"`
	Outcome  geocode.Outcome   `json:"outcome"`
	Location *geocode.Location `json:"location,omitempty"`
	MapURL   string            `json:"map_url,omitempty"`
	Error    string            `json:"error,omitempty"`
}

func (f *JSONFormatter) location(v LocationView) locationJSON {
	out := locationJSON{Query: v.Query, Outcome: v.Outcome, Location: v.Location, MapURL: v.MapURL}
	if f.verbose {
		out.Error = v.Cause
	}
	return out
}

// FormatLocation implements Formatter.
func (f *JSONFormatter) FormatLocation(w io.Writer, v LocationView) error {
	return writeJSON(w, f.location(v))
}

type issueJSON struct {
	ID            int                 `json:"id"`
	Category      string              `json:"category"`
	Issue         string              `json:"issue"`
	Severity      inspection.Severity `json:"severity"`
	SeverityLabel string              `json:"severity_label"`
	Cost          float64             `json:"cost"`
	Risk          float64             `json:"risk"`
}

// FormatInspection implements Formatter.
func (f *JSONFormatter) FormatInspection(w io.Writer, v InspectionView) error {
	issues := make([]issueJSON, 0, len(v.Issues))
	for _, is := range v.Issues {
		issues = append(issues, issueJSON{
			ID:            is.ID,
			Category:      is.Category,
			Issue:         is.Issue,
			Severity:      is.Severity,
			SeverityLabel: is.Severity.Label(),
			Cost:          is.Cost,
			Risk:          is.Risk,
		})
	}
	out := struct {
		Address     string        `json:"address"`
		JobType     string        `json:"job_type"`
		Role        string        `json:"role"`
		Issues      []issueJSON   `json:"issues"`
		IssueCount  int           `json:"issue_count"`
		TotalCost   float64       `json:"total_cost"`
		AverageRisk string        `json:"average_risk"`
		Location    *locationJSON `json:"location,omitempty"`
	}{
		Address:     v.Request.Address,
		JobType:     v.Request.JobType,
		Role:        v.RoleLabel,
		Issues:      issues,
		IssueCount:  v.Summary.Count,
		TotalCost:   v.Summary.TotalCost,
		AverageRisk: strconv.FormatFloat(v.Summary.AverageRisk, 'f', 1, 64),
	}
	if v.Location != nil {
		loc := f.location(*v.Location)
		out.Location = &loc
	}
	return writeJSON(w, out)
}

// FormatPreferences implements Formatter.
func (f *JSONFormatter) FormatPreferences(w io.Writer, v PreferencesView) error {
	categories := make(map[string]bool, 3)
	for _, c := range notify.Categories() {
		categories[string(c)] = v.Preferences.Enabled(c)
	}
	return writeJSON(w, struct {
		Backend    string                 `json:"backend,omitempty"`
		Supported  bool                   `json:"supported"`
		Permission notify.PermissionState `json:"permission,omitempty"`
		Categories map[string]bool        `json:"categories"`
	}{v.Backend, v.Supported, v.Permission, categories})
}

type searchJSON struct {
	ID          string    `json:"id"`
	Query       string    `json:"query"`
	Country     string    `json:"country,omitempty"`
	Outcome     string    `json:"outcome"`
	Latitude    *float64  `json:"latitude,omitempty"`
	Longitude   *float64  `json:"longitude,omitempty"`
	DisplayName string    `json:"display_name,omitempty"`
	Error       string    `json:"error,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// FormatSearches implements Formatter.
func (f *JSONFormatter) FormatSearches(w io.Writer, rows []storage.SearchRecord) error {
	out := make([]searchJSON, 0, len(rows))
	for _, r := range rows {
		s := searchJSON{
			ID:          r.ID,
			Query:       r.Query,
			Country:     r.Country,
			Outcome:     r.Outcome,
			DisplayName: r.DisplayName,
			CreatedAt:   r.CreatedAt,
		}
		if r.Latitude.Valid && r.Longitude.Valid {
			lat, lon := r.Latitude.Float64, r.Longitude.Float64
			s.Latitude, s.Longitude = &lat, &lon
		}
		if f.verbose {
			s.Error = r.Error
		}
		out = append(out, s)
	}
	return writeJSON(w, out)
}

type alertJSON struct {
	ID                  string     `json:"id"`
	Platform            string     `json:"platform"`
	Category            string     `json:"category"`
	Tag                 string     `json:"tag"`
	Title               string     `json:"title"`
	Body                string     `json:"body"`
	RequiresInteraction bool       `json:"requires_interaction"`
	CreatedAt           time.Time  `json:"created_at"`
	SupersededAt        *time.Time `json:"superseded_at,omitempty"`
}

// FormatAlerts implements Formatter.
func (f *JSONFormatter) FormatAlerts(w io.Writer, rows []storage.AlertRow) error {
	out := make([]alertJSON, 0, len(rows))
	for _, r := range rows {
		a := alertJSON{
			ID:                  r.ID,
			Platform:            r.Platform,
			Category:            r.Category,
			Tag:                 r.Tag,
			Title:               r.Title,
			Body:                r.Body,
			RequiresInteraction: r.RequiresInteraction,
			CreatedAt:           r.CreatedAt,
		}
		if r.SupersededAt.Valid {
			t := r.SupersededAt.Time
			a.SupersededAt = &t
		}
		out = append(out, a)
	}
	return writeJSON(w, out)
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
