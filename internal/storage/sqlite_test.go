package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cristianoliveira/propintel/internal/notify"
	"github.com/cristianoliveira/propintel/internal/notify/notifytest"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "state", DBFileName))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenAppliesMigrations(t *testing.T) {
	s := newTestStore(t)
	v, err := s.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, len(migrations), v)
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), DBFileName)
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	v, err := s.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, len(migrations), v)
}

func TestOpenEmptyPath(t *testing.T) {
	_, err := Open("  ")
	assert.ErrorIs(t, err, ErrEmptyPath)
}

func TestOpenDefaultUsesStateDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PROPINTEL_STATE_DIR", dir)
	t.Setenv("PROPINTEL_CONFIG_PATH", filepath.Join(dir, "missing.toml"))
	loadConfig(t)

	s, err := OpenDefault()
	require.NoError(t, err)
	defer s.Close()
	assert.FileExists(t, filepath.Join(dir, DBFileName))
}

func TestPermissionDecisions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, ok, err := s.PermissionDecision(ctx, "desktop")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SavePermissionDecision(ctx, "desktop", "denied"))
	state, ok, err := s.PermissionDecision(ctx, "desktop")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "denied", state)

	require.NoError(t, s.SavePermissionDecision(ctx, "desktop", "granted"))
	state, _, err = s.PermissionDecision(ctx, "desktop")
	require.NoError(t, err)
	assert.Equal(t, "granted", state)

	_, ok, err = s.PermissionDecision(ctx, "tmux")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.ErrorIs(t, s.SavePermissionDecision(ctx, "desktop", "default"), ErrInvalidDecision)

	require.NoError(t, s.ResetPermissionDecision(ctx, "desktop"))
	_, ok, err = s.PermissionDecision(ctx, "desktop")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRecordAlertSupersedesSameTag(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	record := func(tag, title, supersedes string, at time.Time) {
		require.NoError(t, s.RecordAlert(ctx, notify.AlertRecord{
			Platform:     "desktop",
			Category:     notify.HighPriorityIssues,
			Tag:          tag,
			Title:        title,
			HandleID:     title,
			SupersededID: supersedes,
			CreatedAt:    at,
		}))
	}
	record("high-priority", "first", "", base)
	record("inspection", "other", "", base.Add(time.Minute))
	record("high-priority", "second", "first", base.Add(2*time.Minute))

	rows, err := s.ListAlerts(ctx, 0)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	byTitle := map[string]AlertRow{}
	for _, r := range rows {
		byTitle[r.Title] = r
	}
	assert.Equal(t, "second", rows[0].Title)
	assert.False(t, byTitle["second"].SupersededAt.Valid)
	assert.False(t, byTitle["other"].SupersededAt.Valid)
	require.True(t, byTitle["first"].SupersededAt.Valid)
	assert.True(t, byTitle["first"].SupersededAt.Time.Equal(base.Add(2*time.Minute)))
}

func TestRecordAlertWithoutSupersededIDKeepsEarlierRows(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	for _, id := range []string{"1", "2"} {
		require.NoError(t, s.RecordAlert(ctx, notify.AlertRecord{Platform: "desktop", Tag: "inspection", HandleID: id}))
	}

	rows, err := s.ListAlerts(ctx, 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.False(t, r.SupersededAt.Valid, r.HandleID)
	}
}

func TestLatestAlert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	_, ok, err := s.LatestAlert(ctx, "desktop", "high-priority")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.RecordAlert(ctx, notify.AlertRecord{Platform: "desktop", Tag: "high-priority", HandleID: "7", CreatedAt: base}))
	require.NoError(t, s.RecordAlert(ctx, notify.AlertRecord{Platform: "tmux", Tag: "high-priority", HandleID: "tmux-1", CreatedAt: base.Add(time.Minute)}))

	id, ok, err := s.LatestAlert(ctx, "desktop", "high-priority")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "7", id)

	require.NoError(t, s.RecordAlert(ctx, notify.AlertRecord{Platform: "desktop", Tag: "high-priority", HandleID: "8", SupersededID: "7", CreatedAt: base.Add(2 * time.Minute)}))
	id, _, err = s.LatestAlert(ctx, "desktop", "high-priority")
	require.NoError(t, err)
	assert.Equal(t, "8", id)
}

func TestGatewaysSharingStoreSupersedeAcrossRuns(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	platform := notifytest.NewPlatform()
	newGateway := func() *notify.Gateway {
		return notify.NewGateway(platform, notify.StaticAuthority(notify.PermissionGranted),
			notify.WithRecorder(s), notify.WithAlertLookup(s))
	}

	first, err := newGateway().DispatchHandle(ctx, notify.HighPriorityIssueEvent("Roof damage", 1250), notify.Preferences{})
	require.NoError(t, err)
	second, err := newGateway().DispatchHandle(ctx, notify.HighPriorityIssueEvent("Wiring fault", 2100), notify.Preferences{})
	require.NoError(t, err)

	shown := platform.Shown()
	require.Len(t, shown, 2)
	assert.Nil(t, shown[0].Supersedes)
	require.NotNil(t, shown[1].Supersedes)
	assert.Equal(t, first.ID(), shown[1].Supersedes.ID())

	rows, err := s.ListAlerts(ctx, 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, second.ID(), rows[0].HandleID)
	assert.False(t, rows[0].SupersededAt.Valid)
	assert.True(t, rows[1].SupersededAt.Valid)
}

func TestListAlertsLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		require.NoError(t, s.RecordAlert(ctx, notify.AlertRecord{Platform: "log", Tag: "inspection", Title: "t"}))
	}
	rows, err := s.ListAlerts(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestSearchHistory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, s.RecordSearch(ctx, SearchRecord{
		Query:       "10 Downing Street",
		Country:     "gb",
		Outcome:     "found",
		Latitude:    sql.NullFloat64{Float64: 51.5034, Valid: true},
		Longitude:   sql.NullFloat64{Float64: -0.1276, Valid: true},
		DisplayName: "10 Downing Street, London",
		CreatedAt:   base,
	}))
	require.NoError(t, s.RecordSearch(ctx, SearchRecord{
		Query:     "nowhere",
		Country:   "gb",
		Outcome:   "not-found",
		CreatedAt: base.Add(time.Minute),
	}))

	rows, err := s.ListSearches(ctx, 10)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "nowhere", rows[0].Query)
	assert.False(t, rows[0].Latitude.Valid)
	assert.Equal(t, "found", rows[1].Outcome)
	assert.InDelta(t, 51.5034, rows[1].Latitude.Float64, 1e-9)
	assert.NotEmpty(t, rows[1].ID)

	assert.ErrorIs(t, s.RecordSearch(ctx, SearchRecord{Query: "x", Outcome: "maybe"}), ErrInvalidOutcome)

	n, err := s.ClearSearches(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	rows, err = s.ListSearches(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
