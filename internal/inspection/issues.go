package inspection

import (
	_ "embed"
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed sample_issues.yaml
var sampleIssues []byte

// Severity grades an issue.
type Severity string

const (
	SeverityHigh     Severity = "high"
	SeverityModerate Severity = "moderate"
	SeverityLow      Severity = "low"
)

// Label is the display name of the severity. Anything unrecognised reads as Low.
func (s Severity) Label() string {
	switch s {
	case SeverityHigh:
		return "Critical"
	case SeverityModerate:
		return "Moderate"
	default:
		return "Low"
	}
}

// Issue is one finding of an inspection.
type Issue struct {
	ID       int      `yaml:"id"`
	Category string   `yaml:"category"`
	Issue    string   `yaml:"issue"`
	Severity Severity `yaml:"severity"`
	Cost     float64  `yaml:"cost"`
	Risk     float64  `yaml:"risk"`
}

type issuesFile struct {
	Issues []Issue `yaml:"issues"`
}

// SampleIssues returns the built-in findings.
func SampleIssues() []Issue {
	issues, err := ParseIssues(sampleIssues)
	if err != nil {
		panic(fmt.Sprintf("embedded sample issues: %v", err))
	}
	return issues
}

// LoadIssues reads findings from a YAML file. An empty path returns SampleIssues.
func LoadIssues(path string) ([]Issue, error) {
	if path == "" {
		return SampleIssues(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading issues file: %w", err)
	}
	issues, err := ParseIssues(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return issues, nil
}

// ParseIssues decodes and validates a YAML issues document.
func ParseIssues(data []byte) ([]Issue, error) {
	var f issuesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing issues: %w", err)
	}
	for i := range f.Issues {
		is := &f.Issues[i]
		is.Severity = Severity(strings.ToLower(strings.TrimSpace(string(is.Severity))))
		switch {
		case strings.TrimSpace(is.Issue) == "":
			return nil, fmt.Errorf("%w: entry %d has no description", ErrInvalidIssue, i+1)
		case is.Cost < 0:
			return nil, fmt.Errorf("%w: entry %d has a negative cost", ErrInvalidIssue, i+1)
		case is.Risk < 0 || is.Risk > 10:
			return nil, fmt.Errorf("%w: entry %d risk must be within 0-10", ErrInvalidIssue, i+1)
		}
		switch is.Severity {
		case SeverityHigh, SeverityModerate, SeverityLow:
		default:
			return nil, fmt.Errorf("%w: entry %d has severity %q", ErrInvalidIssue, i+1, is.Severity)
		}
		if is.ID == 0 {
			is.ID = i + 1
		}
	}
	return f.Issues, nil
}

// Summary aggregates a set of issues. AverageRisk is rounded to one decimal and is
// zero when there are no issues.
type Summary struct {
	Count       int
	TotalCost   float64
	AverageRisk float64
	HighCount   int
}

// Summarize reduces issues to totals.
func Summarize(issues []Issue) Summary {
	s := Summary{Count: len(issues)}
	var risk float64
	for _, is := range issues {
		s.TotalCost += is.Cost
		risk += is.Risk
		if is.Severity == SeverityHigh {
			s.HighCount++
		}
	}
	if len(issues) > 0 {
		s.AverageRisk = math.Round(risk/float64(len(issues))*10) / 10
	}
	return s
}

// HighPriority returns the issues that warrant a persistent alert.
func HighPriority(issues []Issue) []Issue {
	var out []Issue
	for _, is := range issues {
		if is.Severity == SeverityHigh {
			out = append(out, is)
		}
	}
	return out
}
