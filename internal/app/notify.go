package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/cristianoliveira/propintel/internal/colors"
	"github.com/cristianoliveira/propintel/internal/format"
	"github.com/cristianoliveira/propintel/internal/notify"
)

// NotifyClient is the gateway surface used by the notify commands.
type NotifyClient interface {
	Dispatcher
	CheckSupport() bool
	State(ctx context.Context) notify.PermissionState
	RequestPermission(ctx context.Context) notify.PermissionState
	DispatchHandle(ctx context.Context, ev notify.AlertEvent, prefs notify.Preferences) (notify.Handle, error)
	Platform() notify.Platform
}

// NotifyUseCase coordinates permission and alert commands.
type NotifyUseCase struct {
	client      NotifyClient
	preferences func() (notify.Preferences, error)
}

// NewNotifyUseCase creates a notify use-case.
func NewNotifyUseCase(client NotifyClient, preferences func() (notify.Preferences, error)) *NotifyUseCase {
	if client == nil {
		panic("NewNotifyUseCase: client dependency cannot be nil")
	}
	if preferences == nil {
		panic("NewNotifyUseCase: preferences dependency cannot be nil")
	}
	return &NotifyUseCase{client: client, preferences: preferences}
}

func (u *NotifyUseCase) loadPreferences() notify.Preferences {
	prefs, err := u.preferences()
	if err != nil {
		colors.Warning("failed to load preferences, using defaults: " + err.Error())
		return notify.Preferences{}
	}
	return prefs
}

// Status reports backend support, permission and category toggles without prompting.
func (u *NotifyUseCase) Status(ctx context.Context) format.PreferencesView {
	return format.PreferencesView{
		Backend:     u.client.Platform().Name(),
		Supported:   u.client.CheckSupport(),
		Permission:  u.client.State(ctx),
		Preferences: u.loadPreferences(),
	}
}

// RequestPermission asks for permission when undecided and reports the result.
func (u *NotifyUseCase) RequestPermission(ctx context.Context) notify.PermissionState {
	state := u.client.RequestPermission(ctx)
	switch state {
	case notify.PermissionGranted:
		colors.Success("Alerts are allowed")
	case notify.PermissionDenied:
		colors.Warning("Alerts are blocked; reset with 'propintel notify permission --reset'")
	case notify.PermissionUnsupported:
		colors.Warning(fmt.Sprintf("Backend %q cannot show alerts on this host", u.client.Platform().Name()))
	default:
		colors.Info("No decision made")
	}
	return state
}

// SendInput represents notify send inputs after flag parsing.
type SendInput struct {
	Category notify.Category
	Address  string
	Message  string
	Issue    string
	Cost     float64
}

// Event builds the alert for the input's category.
func (in SendInput) Event() (notify.AlertEvent, error) {
	switch in.Category {
	case notify.NewInspections:
		if strings.TrimSpace(in.Address) == "" {
			return notify.AlertEvent{}, fmt.Errorf("send: --address is required")
		}
		return notify.NewInspectionEvent(in.Address), nil
	case notify.InspectionUpdates:
		if strings.TrimSpace(in.Address) == "" || strings.TrimSpace(in.Message) == "" {
			return notify.AlertEvent{}, fmt.Errorf("send: --address and --message are required")
		}
		return notify.InspectionUpdateEvent(in.Address, in.Message), nil
	case notify.HighPriorityIssues:
		if strings.TrimSpace(in.Issue) == "" {
			return notify.AlertEvent{}, fmt.Errorf("send: --issue is required")
		}
		return notify.HighPriorityIssueEvent(in.Issue, in.Cost), nil
	}
	return notify.AlertEvent{}, fmt.Errorf("send: %w: %q", notify.ErrUnknownCategory, in.Category)
}

// Send dispatches one alert. It returns the handle, or nil when nothing was shown;
// refusals are reported but are not errors.
func (u *NotifyUseCase) Send(ctx context.Context, input SendInput) (notify.Handle, error) {
	ev, err := input.Event()
	if err != nil {
		return nil, err
	}
	h, err := u.client.DispatchHandle(ctx, ev, u.loadPreferences())
	if err != nil {
		colors.Info(fmt.Sprintf("Alert not shown: %v", err))
		return nil, nil
	}
	colors.Success(fmt.Sprintf("Alert shown (%s)", h.Tag()))
	return h, nil
}

// Test sends one alert per enabled category.
func (u *NotifyUseCase) Test(ctx context.Context) int {
	prefs := u.loadPreferences()
	events := []notify.AlertEvent{
		notify.NewInspectionEvent("221B Baker Street, London"),
		notify.InspectionUpdateEvent("221B Baker Street, London", "Inspector on site"),
		notify.HighPriorityIssueEvent("Minor crack in foundation wall", 1250),
	}
	sent := 0
	for _, ev := range events {
		if u.client.Dispatch(ctx, ev, prefs) {
			sent++
		}
	}
	colors.Info(fmt.Sprintf("%d of %d test alerts shown", sent, len(events)))
	return sent
}
