package app

import (
	"context"
	"fmt"

	"github.com/cristianoliveira/propintel/internal/colors"
	"github.com/cristianoliveira/propintel/internal/format"
	"github.com/cristianoliveira/propintel/internal/inspection"
	"github.com/cristianoliveira/propintel/internal/notify"
)

// Dispatcher sends categorised alerts.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev notify.AlertEvent, prefs notify.Preferences) bool
}

// InspectInput represents inspect command inputs after flag parsing.
type InspectInput struct {
	Address    string
	JobType    string
	Country    string
	IssuesPath string
	SkipLookup bool
	SkipAlerts bool
}

// InspectResult is what the inspect command renders.
type InspectResult struct {
	View       format.InspectionView
	AlertsSent int
}

// InspectUseCase validates an inspection request, summarises its findings, looks the
// property up and raises the matching alerts.
type InspectUseCase struct {
	locate      *LocateUseCase
	dispatcher  Dispatcher
	preferences func() (notify.Preferences, error)
}

// NewInspectUseCase creates an inspect use-case.
func NewInspectUseCase(locate *LocateUseCase, dispatcher Dispatcher, preferences func() (notify.Preferences, error)) *InspectUseCase {
	if locate == nil {
		panic("NewInspectUseCase: locate dependency cannot be nil")
	}
	if dispatcher == nil {
		panic("NewInspectUseCase: dispatcher dependency cannot be nil")
	}
	if preferences == nil {
		panic("NewInspectUseCase: preferences dependency cannot be nil")
	}
	return &InspectUseCase{locate: locate, dispatcher: dispatcher, preferences: preferences}
}

// Execute runs the inspection. Only invalid input and unreadable issue files are
// errors; lookup and alert failures degrade silently.
func (u *InspectUseCase) Execute(ctx context.Context, input InspectInput) (InspectResult, error) {
	req, err := inspection.NewRequest(input.Address, input.JobType)
	if err != nil {
		return InspectResult{}, err
	}
	issues, err := inspection.LoadIssues(input.IssuesPath)
	if err != nil {
		return InspectResult{}, fmt.Errorf("inspect: %w", err)
	}

	result := InspectResult{View: format.InspectionView{
		Request:   req,
		RoleLabel: inspection.RoleLabel(req.JobType),
		Issues:    issues,
		Summary:   inspection.Summarize(issues),
	}}

	if !input.SkipLookup {
		loc := u.locate.Execute(ctx, LocateInput{Query: req.Address, Country: input.Country})
		result.View.Location = &loc
	}
	if input.SkipAlerts {
		return result, nil
	}

	prefs, err := u.preferences()
	if err != nil {
		colors.Warning("failed to load preferences, using defaults: " + err.Error())
		prefs = notify.Preferences{}
	}
	if u.dispatcher.Dispatch(ctx, notify.NewInspectionEvent(req.Address), prefs) {
		result.AlertsSent++
	}
	// Each critical finding replaces the previous high priority alert.
	for _, is := range inspection.HighPriority(issues) {
		if u.dispatcher.Dispatch(ctx, notify.HighPriorityIssueEvent(is.Issue, is.Cost), prefs) {
			result.AlertsSent++
		}
	}
	return result, nil
}
