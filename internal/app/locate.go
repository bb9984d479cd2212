// Package app holds the use-cases behind the propintel commands.
package app

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/cristianoliveira/propintel/internal/colors"
	"github.com/cristianoliveira/propintel/internal/format"
	"github.com/cristianoliveira/propintel/internal/geocode"
	"github.com/cristianoliveira/propintel/internal/storage"
)

// SearchRecorder stores lookup history.
type SearchRecorder interface {
	RecordSearch(ctx context.Context, rec storage.SearchRecord) error
}

// MapBuilder derives a static map reference from coordinates.
type MapBuilder interface {
	Reference(lat, lon float64) string
}

// LocateInput represents locate command inputs after flag parsing.
type LocateInput struct {
	Query   string
	Country string
}

// LocateUseCase resolves an address and derives its map reference.
type LocateUseCase struct {
	resolver geocode.Resolver
	maps     MapBuilder
	history  SearchRecorder
}

// NewLocateUseCase creates a locate use-case. history may be nil to skip recording.
func NewLocateUseCase(resolver geocode.Resolver, maps MapBuilder, history SearchRecorder) *LocateUseCase {
	if resolver == nil {
		panic("NewLocateUseCase: resolver dependency cannot be nil")
	}
	if maps == nil {
		panic("NewLocateUseCase: maps dependency cannot be nil")
	}
	return &LocateUseCase{resolver: resolver, maps: maps, history: history}
}

// Execute resolves the query. Lookup failures never surface as errors: not-found and
// failed lookups come back as a view without a location, the cause kept for
// diagnostics.
func (u *LocateUseCase) Execute(ctx context.Context, input LocateInput) format.LocationView {
	query := strings.TrimSpace(input.Query)
	view := format.LocationView{Query: query}

	loc, err := u.resolver.Resolve(ctx, query, input.Country)
	view.Outcome = geocode.Classify(err)
	switch {
	case err == nil:
		view.Location = loc
		view.MapURL = u.maps.Reference(loc.Latitude, loc.Longitude)
	case errors.Is(err, geocode.ErrNotFound):
		view.Cause = err.Error()
	default:
		view.Cause = err.Error()
		colors.Debug("location lookup failed: " + err.Error())
	}

	if u.history != nil && query != "" {
		rec := storage.SearchRecord{
			Query:   query,
			Country: input.Country,
			Outcome: string(view.Outcome),
		}
		if view.Outcome == geocode.OutcomeError {
			rec.Error = view.Cause
		}
		if loc != nil {
			rec.Latitude = sql.NullFloat64{Float64: loc.Latitude, Valid: true}
			rec.Longitude = sql.NullFloat64{Float64: loc.Longitude, Valid: true}
			rec.DisplayName = loc.DisplayName
		}
		if err := u.history.RecordSearch(ctx, rec); err != nil {
			colors.Warning("failed to record lookup: " + err.Error())
		}
	}
	return view
}
