package app

import (
	"context"
	"errors"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/cristianoliveira/propintel/internal/colors"
	"github.com/cristianoliveira/propintel/internal/geocode"
	"github.com/cristianoliveira/propintel/internal/inspection"
	"github.com/cristianoliveira/propintel/internal/notify"
	"github.com/cristianoliveira/propintel/internal/notify/notifytest"
	"github.com/cristianoliveira/propintel/internal/settings"
	"github.com/cristianoliveira/propintel/internal/staticmap"
	"github.com/cristianoliveira/propintel/internal/storage"
)

func TestMain(m *testing.M) {
	colors.SetOutput(io.Discard, io.Discard)
	os.Exit(m.Run())
}

var london = &geocode.Location{Latitude: 51.5074, Longitude: -0.1278, DisplayName: "London"}

func noPrefs() (notify.Preferences, error) { return notify.Preferences{}, nil }

func TestConstructorsPanicOnNil(t *testing.T) {
	resolver := new(mockResolver)
	locate := NewLocateUseCase(resolver, fixedMap{}, nil)
	gateway := notify.NewGateway(notifytest.NewPlatform(), notify.StaticAuthority(notify.PermissionGranted))

	assert.Panics(t, func() { NewLocateUseCase(nil, fixedMap{}, nil) })
	assert.Panics(t, func() { NewLocateUseCase(resolver, nil, nil) })
	assert.Panics(t, func() { NewInspectUseCase(nil, gateway, noPrefs) })
	assert.Panics(t, func() { NewInspectUseCase(locate, nil, noPrefs) })
	assert.Panics(t, func() { NewInspectUseCase(locate, gateway, nil) })
	assert.Panics(t, func() { NewNotifyUseCase(nil, noPrefs) })
	assert.Panics(t, func() { NewHistoryUseCase(nil) })
	assert.Panics(t, func() { NewSettingsUseCase(nil) })
}

func TestLocateFound(t *testing.T) {
	resolver := new(mockResolver)
	resolver.On("Resolve", mock.Anything, "London", "gb").Return(london, nil)
	history := new(mockHistory)
	history.On("RecordSearch", mock.Anything, mock.MatchedBy(func(rec storage.SearchRecord) bool {
		return rec.Outcome == "found" && rec.Latitude.Valid && rec.Latitude.Float64 == 51.5074 && rec.DisplayName == "London"
	})).Return(nil)

	u := NewLocateUseCase(resolver, staticmap.Default(), history)
	view := u.Execute(context.Background(), LocateInput{Query: " London ", Country: "gb"})

	assert.Equal(t, geocode.OutcomeFound, view.Outcome)
	assert.Equal(t, london, view.Location)
	assert.Contains(t, view.MapURL, "51.5074,-0.1278")
	history.AssertExpectations(t)
}

func TestLocateNotFoundAndErrorShareView(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		outcome geocode.Outcome
	}{
		{"not found", geocode.ErrNotFound, geocode.OutcomeNotFound},
		{"failure", &geocode.ResolutionError{Query: "x", Status: 500, Err: errors.New("unexpected status")}, geocode.OutcomeError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := new(mockResolver)
			resolver.On("Resolve", mock.Anything, "x", "gb").Return(nil, tt.err)
			history := new(mockHistory)
			history.On("RecordSearch", mock.Anything, mock.MatchedBy(func(rec storage.SearchRecord) bool {
				return rec.Outcome == string(tt.outcome) && !rec.Latitude.Valid
			})).Return(nil)

			view := NewLocateUseCase(resolver, fixedMap{}, history).Execute(context.Background(), LocateInput{Query: "x", Country: "gb"})
			assert.Nil(t, view.Location)
			assert.Empty(t, view.MapURL)
			assert.Equal(t, tt.outcome, view.Outcome)
			assert.NotEmpty(t, view.Cause)
			history.AssertExpectations(t)
		})
	}
}

func TestLocateBlankQueryNotRecorded(t *testing.T) {
	resolver := new(mockResolver)
	resolver.On("Resolve", mock.Anything, "", "").Return(nil, geocode.ErrNotFound)
	history := new(mockHistory)

	view := NewLocateUseCase(resolver, fixedMap{}, history).Execute(context.Background(), LocateInput{Query: "  "})
	assert.Equal(t, geocode.OutcomeNotFound, view.Outcome)
	history.AssertNotCalled(t, "RecordSearch", mock.Anything, mock.Anything)
}

func TestLocateHistoryFailureIsNotFatal(t *testing.T) {
	resolver := new(mockResolver)
	resolver.On("Resolve", mock.Anything, "London", "").Return(london, nil)
	history := new(mockHistory)
	history.On("RecordSearch", mock.Anything, mock.Anything).Return(errors.New("locked"))

	view := NewLocateUseCase(resolver, fixedMap{}, history).Execute(context.Background(), LocateInput{Query: "London"})
	assert.Equal(t, geocode.OutcomeFound, view.Outcome)
}

func newInspect(t *testing.T, prefs func() (notify.Preferences, error)) (*InspectUseCase, *notifytest.Platform, *mockResolver) {
	t.Helper()
	resolver := new(mockResolver)
	platform := notifytest.NewPlatform()
	gateway := notify.NewGateway(platform, notify.StaticAuthority(notify.PermissionGranted))
	return NewInspectUseCase(NewLocateUseCase(resolver, fixedMap{}, nil), gateway, prefs), platform, resolver
}

func TestInspectSendsAlertsAndSupersedesHighPriority(t *testing.T) {
	u, platform, resolver := newInspect(t, noPrefs)
	resolver.On("Resolve", mock.Anything, "1 High St", "gb").Return(london, nil)

	res, err := u.Execute(context.Background(), InspectInput{Address: " 1 High St ", JobType: "roofing-contractor", Country: "gb"})
	require.NoError(t, err)

	assert.Equal(t, "Roofing Contractor", res.View.RoleLabel)
	assert.Equal(t, 5, res.View.Summary.Count)
	require.NotNil(t, res.View.Location)
	assert.Equal(t, geocode.OutcomeFound, res.View.Location.Outcome)

	assert.Equal(t, 3, res.AlertsSent)
	shown := platform.Shown()
	require.Len(t, shown, 3)
	assert.Equal(t, "Property inspection scheduled at 1 High St", shown[0].Body)
	assert.True(t, shown[1].RequiresInteraction)
	assert.NotNil(t, shown[2].Supersedes)

	high, ok := platform.VisibleFor("high-priority")
	require.True(t, ok)
	assert.Equal(t, "Outdated circuit breaker panel - Est. Cost: $2,100", high.Alert().Body)
}

func TestInspectRespectsDisabledCategories(t *testing.T) {
	u, platform, _ := newInspect(t, func() (notify.Preferences, error) {
		var p notify.Preferences
		_ = p.Set(notify.HighPriorityIssues, false)
		return p, nil
	})

	res, err := u.Execute(context.Background(), InspectInput{Address: "1 High St", JobType: "plumber", SkipLookup: true})
	require.NoError(t, err)
	assert.Equal(t, 1, res.AlertsSent)
	assert.Len(t, platform.Shown(), 1)
	assert.Nil(t, res.View.Location)
}

func TestInspectSkipAlerts(t *testing.T) {
	u, platform, _ := newInspect(t, noPrefs)
	_, err := u.Execute(context.Background(), InspectInput{Address: "1 High St", JobType: "plumber", SkipLookup: true, SkipAlerts: true})
	require.NoError(t, err)
	assert.Empty(t, platform.Shown())
}

func TestInspectPreferencesErrorFallsBackToDefaults(t *testing.T) {
	u, platform, _ := newInspect(t, func() (notify.Preferences, error) {
		return notify.Preferences{}, errors.New("bad toml")
	})
	res, err := u.Execute(context.Background(), InspectInput{Address: "1 High St", JobType: "plumber", SkipLookup: true})
	require.NoError(t, err)
	assert.Equal(t, 3, res.AlertsSent)
	assert.Len(t, platform.Shown(), 3)
}

func TestInspectValidation(t *testing.T) {
	u, _, _ := newInspect(t, noPrefs)
	_, err := u.Execute(context.Background(), InspectInput{Address: " ", JobType: "plumber"})
	assert.ErrorIs(t, err, inspection.ErrAddressRequired)
	_, err = u.Execute(context.Background(), InspectInput{Address: "1 High St"})
	assert.ErrorIs(t, err, inspection.ErrJobTypeRequired)
	_, err = u.Execute(context.Background(), InspectInput{Address: "1 High St", JobType: "plumber", IssuesPath: "/nonexistent/issues.yaml"})
	assert.ErrorContains(t, err, "inspect:")
}

func TestNotifyStatusDoesNotPrompt(t *testing.T) {
	authority := new(notifytest.Authority)
	authority.On("State", mock.Anything).Return(notify.PermissionDefault, nil)
	gateway := notify.NewGateway(notifytest.NewPlatform(), authority)

	view := NewNotifyUseCase(gateway, noPrefs).Status(context.Background())
	assert.Equal(t, "fake", view.Backend)
	assert.True(t, view.Supported)
	assert.Equal(t, notify.PermissionDefault, view.Permission)
	authority.AssertNotCalled(t, "Prompt", mock.Anything)
}

func TestNotifyRequestPermission(t *testing.T) {
	authority := new(notifytest.Authority)
	authority.On("State", mock.Anything).Return(notify.PermissionDefault, nil)
	authority.On("Prompt", mock.Anything).Return(notify.PermissionGranted, nil).Once()
	u := NewNotifyUseCase(notify.NewGateway(notifytest.NewPlatform(), authority), noPrefs)

	assert.Equal(t, notify.PermissionGranted, u.RequestPermission(context.Background()))
	assert.Equal(t, notify.PermissionGranted, u.RequestPermission(context.Background()))
	authority.AssertNumberOfCalls(t, "Prompt", 1)
}

func TestSendInputEvent(t *testing.T) {
	tests := []struct {
		name    string
		in      SendInput
		wantErr bool
	}{
		{"new inspection", SendInput{Category: notify.NewInspections, Address: "1 High St"}, false},
		{"new inspection needs address", SendInput{Category: notify.NewInspections}, true},
		{"update", SendInput{Category: notify.InspectionUpdates, Address: "1 High St", Message: "done"}, false},
		{"update needs message", SendInput{Category: notify.InspectionUpdates, Address: "1 High St"}, true},
		{"high priority", SendInput{Category: notify.HighPriorityIssues, Issue: "Roof", Cost: 10}, false},
		{"high priority needs issue", SendInput{Category: notify.HighPriorityIssues}, true},
		{"unknown", SendInput{Category: "x"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := tt.in.Event()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.in.Category, ev.Category)
		})
	}
}

func TestNotifySend(t *testing.T) {
	platform := notifytest.NewPlatform()
	u := NewNotifyUseCase(notify.NewGateway(platform, notify.StaticAuthority(notify.PermissionGranted)), noPrefs)

	h, err := u.Send(context.Background(), SendInput{Category: notify.HighPriorityIssues, Issue: "Roof", Cost: 3800})
	require.NoError(t, err)
	require.NotNil(t, h)
	assert.Equal(t, "high-priority", h.Tag())
	assert.Equal(t, "Roof - Est. Cost: $3,800", platform.Shown()[0].Body)
}

func TestNotifySendRefused(t *testing.T) {
	platform := notifytest.NewPlatform()
	u := NewNotifyUseCase(notify.NewGateway(platform, notify.StaticAuthority(notify.PermissionDenied)), noPrefs)

	h, err := u.Send(context.Background(), SendInput{Category: notify.NewInspections, Address: "1 High St"})
	require.NoError(t, err)
	assert.Nil(t, h)
	assert.Empty(t, platform.Shown())
}

func TestNotifyTest(t *testing.T) {
	platform := notifytest.NewPlatform()
	u := NewNotifyUseCase(notify.NewGateway(platform, notify.StaticAuthority(notify.PermissionGranted)), func() (notify.Preferences, error) {
		var p notify.Preferences
		_ = p.Set(notify.InspectionUpdates, false)
		return p, nil
	})
	assert.Equal(t, 2, u.Test(context.Background()))
}

func TestHistoryUseCase(t *testing.T) {
	history := new(mockHistory)
	history.On("ListSearches", mock.Anything, 5).Return([]storage.SearchRecord{{Query: "London"}}, nil)
	history.On("ListAlerts", mock.Anything, 5).Return(nil, errors.New("locked"))
	history.On("ClearSearches", mock.Anything).Return(int64(1), nil)
	u := NewHistoryUseCase(history)
	ctx := context.Background()

	rows, err := u.Searches(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	_, err = u.Alerts(ctx, 5)
	assert.ErrorContains(t, err, "history: locked")

	require.NoError(t, u.Clear(ctx, ClearInput{ConfirmFn: func() bool { return false }}))
	history.AssertNotCalled(t, "ClearSearches", mock.Anything)
	require.NoError(t, u.Clear(ctx, ClearInput{Force: true}))
	history.AssertNumberOfCalls(t, "ClearSearches", 1)
}

func TestSettingsUseCase(t *testing.T) {
	client := new(mockSettings)
	s := settings.DefaultSettings()
	require.NoError(t, s.Notifications.Set(notify.NewInspections, false))
	client.On("LoadSettings").Return(s, nil)
	client.On("ToggleCategory", notify.HighPriorityIssues).Return(false, nil)
	client.On("SetCategory", notify.InspectionUpdates, true).Return(nil)
	client.On("ResetSettings").Return(nil)
	u := NewSettingsUseCase(client)

	prefs, err := u.Preferences()
	require.NoError(t, err)
	assert.False(t, prefs.Enabled(notify.NewInspections))

	require.NoError(t, u.Toggle("high-priority"))
	require.NoError(t, u.Set("inspectionUpdates", true))
	assert.ErrorIs(t, u.Toggle("marketing"), notify.ErrUnknownCategory)

	require.NoError(t, u.Reset(ResetInput{ConfirmFn: func() bool { return false }}))
	client.AssertNotCalled(t, "ResetSettings")
	require.NoError(t, u.Reset(ResetInput{Force: true}))
	client.AssertExpectations(t)
}
