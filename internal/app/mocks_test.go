package app

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/cristianoliveira/propintel/internal/geocode"
	"github.com/cristianoliveira/propintel/internal/notify"
	"github.com/cristianoliveira/propintel/internal/settings"
	"github.com/cristianoliveira/propintel/internal/storage"
)

type mockResolver struct {
	mock.Mock
}

func (m *mockResolver) Resolve(ctx context.Context, query, country string) (*geocode.Location, error) {
	args := m.Called(ctx, query, country)
	loc, _ := args.Get(0).(*geocode.Location)
	return loc, args.Error(1)
}

type mockHistory struct {
	mock.Mock
}

func (m *mockHistory) RecordSearch(ctx context.Context, rec storage.SearchRecord) error {
	return m.Called(ctx, rec).Error(0)
}

func (m *mockHistory) ListSearches(ctx context.Context, limit int) ([]storage.SearchRecord, error) {
	args := m.Called(ctx, limit)
	rows, _ := args.Get(0).([]storage.SearchRecord)
	return rows, args.Error(1)
}

func (m *mockHistory) ClearSearches(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockHistory) ListAlerts(ctx context.Context, limit int) ([]storage.AlertRow, error) {
	args := m.Called(ctx, limit)
	rows, _ := args.Get(0).([]storage.AlertRow)
	return rows, args.Error(1)
}

type mockSettings struct {
	mock.Mock
}

func (m *mockSettings) LoadSettings() (*settings.Settings, error) {
	args := m.Called()
	s, _ := args.Get(0).(*settings.Settings)
	return s, args.Error(1)
}

func (m *mockSettings) ToggleCategory(c notify.Category) (bool, error) {
	args := m.Called(c)
	return args.Bool(0), args.Error(1)
}

func (m *mockSettings) SetCategory(c notify.Category, enabled bool) error {
	return m.Called(c, enabled).Error(0)
}

func (m *mockSettings) ResetSettings() error {
	return m.Called().Error(0)
}

type fixedMap struct{}

func (fixedMap) Reference(lat, lon float64) string { return "map" }
