package notify

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
)

// NewInspectionEvent builds the alert for a freshly scheduled inspection.
func NewInspectionEvent(address string) AlertEvent {
	return AlertEvent{
		Category: NewInspections,
		Title:    "New Inspection Scheduled",
		Body:     "Property inspection scheduled at " + address,
	}
}

// InspectionUpdateEvent builds the alert for a status change on an inspection.
func InspectionUpdateEvent(address, message string) AlertEvent {
	return AlertEvent{
		Category: InspectionUpdates,
		Title:    "Inspection Update",
		Body:     fmt.Sprintf("%s: %s", address, message),
	}
}

// HighPriorityIssueEvent builds the persistent alert for a critical finding.
func HighPriorityIssueEvent(issue string, cost float64) AlertEvent {
	return AlertEvent{
		Category: HighPriorityIssues,
		Title:    "High Priority Issue Found",
		Body:     fmt.Sprintf("%s - Est. Cost: $%s", issue, humanize.Commaf(cost)),
	}
}

// NotifyNewInspection dispatches NewInspectionEvent.
func (g *Gateway) NotifyNewInspection(ctx context.Context, prefs Preferences, address string) bool {
	return g.Dispatch(ctx, NewInspectionEvent(address), prefs)
}

// NotifyInspectionUpdate dispatches InspectionUpdateEvent.
func (g *Gateway) NotifyInspectionUpdate(ctx context.Context, prefs Preferences, address, message string) bool {
	return g.Dispatch(ctx, InspectionUpdateEvent(address, message), prefs)
}

// NotifyHighPriorityIssue dispatches HighPriorityIssueEvent.
func (g *Gateway) NotifyHighPriorityIssue(ctx context.Context, prefs Preferences, issue string, cost float64) bool {
	return g.Dispatch(ctx, HighPriorityIssueEvent(issue, cost), prefs)
}
