package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/cristianoliveira/propintel/internal/inspection"
	"github.com/cristianoliveira/propintel/internal/notify"
	"github.com/cristianoliveira/propintel/internal/storage"
)

const timeLayout = "2006-01-02 15:04"

// TextFormatter renders results with lipgloss styles.
type TextFormatter struct {
	verbose bool

	title   lipgloss.Style
	label   lipgloss.Style
	muted   lipgloss.Style
	card    lipgloss.Style
	high    lipgloss.Style
	medium  lipgloss.Style
	low     lipgloss.Style
	enabled lipgloss.Style
}

// NewTextFormatter creates a TextFormatter.
func NewTextFormatter(verbose bool) *TextFormatter {
	return &TextFormatter{
		verbose: verbose,
		title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4")),
		label:   lipgloss.NewStyle().Bold(true),
		muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("4")).
			Padding(0, 1),
		high:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
		medium:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		low:     lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		enabled: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	}
}

func (f *TextFormatter) field(name, value string) string {
	if value == "" {
		value = f.muted.Render("-")
	}
	return f.label.Render(fmt.Sprintf("%-9s", name)) + " " + value
}

// FormatLocation implements Formatter.
func (f *TextFormatter) FormatLocation(w io.Writer, v LocationView) error {
	if v.Location == nil {
		lines := []string{f.title.Render("Property Location"), NoLocationMessage}
		if f.verbose && v.Cause != "" {
			lines = append(lines, f.muted.Render(fmt.Sprintf("%s: %s", v.Outcome, v.Cause)))
		}
		_, err := fmt.Fprintln(w, f.card.Render(strings.Join(lines, "\n")))
		return err
	}

	loc := v.Location
	lines := []string{
		f.title.Render("Property Location"),
		loc.DisplayName,
		"",
		f.field("Road", loc.Components.Road),
		f.field("Area", loc.Components.Suburb),
		f.field("City", loc.Components.City),
		f.field("Postcode", loc.Components.Postcode),
		f.field("Coords", fmt.Sprintf("%s, %s", formatCoord(loc.Latitude), formatCoord(loc.Longitude))),
	}
	if v.MapURL != "" {
		lines = append(lines, f.field("Map", v.MapURL))
	}
	_, err := fmt.Fprintln(w, f.card.Render(strings.Join(lines, "\n")))
	return err
}

func (f *TextFormatter) severity(s inspection.Severity) string {
	label := fmt.Sprintf("%-8s", s.Label())
	switch s {
	case inspection.SeverityHigh:
		return f.high.Render(label)
	case inspection.SeverityModerate:
		return f.medium.Render(label)
	default:
		return f.low.Render(label)
	}
}

// FormatInspection implements Formatter.
func (f *TextFormatter) FormatInspection(w io.Writer, v InspectionView) error {
	var b strings.Builder
	fmt.Fprintln(&b, f.title.Render("Property Inspection"))
	fmt.Fprintln(&b, f.field("Address", v.Request.Address))
	fmt.Fprintln(&b, f.field("Role", v.RoleLabel))
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, f.title.Render("Findings"))
	if len(v.Issues) == 0 {
		fmt.Fprintln(&b, f.muted.Render("No issues recorded"))
	}
	for _, is := range v.Issues {
		fmt.Fprintf(&b, "%s %-11s %-42s %9s  %s\n",
			f.severity(is.Severity),
			is.Category,
			is.Issue,
			"£"+humanize.Commaf(is.Cost),
			f.muted.Render(fmt.Sprintf("Risk: %s/10", humanize.Ftoa(is.Risk))),
		)
	}
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, f.field("Issues", fmt.Sprintf("%d (%d critical)", v.Summary.Count, v.Summary.HighCount)))
	fmt.Fprintln(&b, f.field("Total", "£"+humanize.Commaf(v.Summary.TotalCost)))
	fmt.Fprintln(&b, f.field("Avg risk", fmt.Sprintf("%.1f/10", v.Summary.AverageRisk)))

	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}
	if v.Location != nil {
		return f.FormatLocation(w, *v.Location)
	}
	return nil
}

// FormatPreferences implements Formatter.
func (f *TextFormatter) FormatPreferences(w io.Writer, v PreferencesView) error {
	var b strings.Builder
	fmt.Fprintln(&b, f.title.Render("Notifications"))
	// Settings views carry toggles only.
	if v.Backend != "" {
		support := "unsupported"
		if v.Supported {
			support = "supported"
		}
		fmt.Fprintln(&b, f.field("Backend", fmt.Sprintf("%s (%s)", v.Backend, support)))
		fmt.Fprintln(&b, f.field("Permission", string(v.Permission)))
	}
	for _, c := range notify.Categories() {
		state := f.muted.Render("off")
		if v.Preferences.Enabled(c) {
			state = f.enabled.Render("on")
		}
		fmt.Fprintf(&b, "  %-22s %-18s %s\n", c.Label(), f.muted.Render(string(c)), state)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// FormatSearches implements Formatter.
func (f *TextFormatter) FormatSearches(w io.Writer, rows []storage.SearchRecord) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, f.muted.Render("No lookups recorded"))
		return err
	}
	var b strings.Builder
	fmt.Fprintln(&b, f.title.Render(fmt.Sprintf("%-16s  %-9s  %s", "WHEN", "OUTCOME", "QUERY")))
	for _, r := range rows {
		detail := r.DisplayName
		if r.Outcome != "found" {
			detail = f.muted.Render(NoLocationMessage)
		}
		fmt.Fprintf(&b, "%-16s  %-9s  %s\n", r.CreatedAt.Local().Format(timeLayout), r.Outcome, r.Query)
		fmt.Fprintf(&b, "%-16s  %-9s  %s\n", "", "", detail)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// FormatAlerts implements Formatter.
func (f *TextFormatter) FormatAlerts(w io.Writer, rows []storage.AlertRow) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, f.muted.Render("No alerts sent"))
		return err
	}
	var b strings.Builder
	fmt.Fprintln(&b, f.title.Render(fmt.Sprintf("%-16s  %-17s  %-8s  %s", "WHEN", "TAG", "BACKEND", "TITLE")))
	for _, r := range rows {
		title := r.Title
		if r.SupersededAt.Valid {
			title += f.muted.Render(" (superseded " + humanize.Time(r.SupersededAt.Time) + ")")
		}
		fmt.Fprintf(&b, "%-16s  %-17s  %-8s  %s\n", r.CreatedAt.Local().Format(timeLayout), r.Tag, r.Platform, title)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
