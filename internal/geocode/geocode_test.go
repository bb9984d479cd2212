package geocode

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const londonResponse = `[{
	"place_id": 1,
	"lat": "51.5074",
	"lon": "-0.1278",
	"display_name": "Trafalgar Square, St James's, London, WC2N 5DN, United Kingdom",
	"address": {
		"road": "Trafalgar Square",
		"suburb": "St James's",
		"city": "London",
		"postcode": "WC2N 5DN"
	}
}]`

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) (*Client, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	base := []Option{WithBaseURL(srv.URL + "/"), WithRate(0), WithHTTPClient(srv.Client())}
	return NewClient(append(base, opts...)...), &calls
}

func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func TestResolveFirstMatch(t *testing.T) {
	var got *http.Request
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r
		respond(http.StatusOK, londonResponse)(w, r)
	}, WithUserAgent("propintel-test"))

	loc, err := client.Resolve(context.Background(), "  Trafalgar Square ", "GB")
	require.NoError(t, err)
	assert.Equal(t, 51.5074, loc.Latitude)
	assert.Equal(t, -0.1278, loc.Longitude)
	assert.Equal(t, "Trafalgar Square, St James's, London, WC2N 5DN, United Kingdom", loc.DisplayName)
	assert.Equal(t, Components{Road: "Trafalgar Square", Suburb: "St James's", City: "London", Postcode: "WC2N 5DN"}, loc.Components)

	require.NotNil(t, got)
	assert.Equal(t, "/search", got.URL.Path)
	q := got.URL.Query()
	assert.Equal(t, "json", q.Get("format"))
	assert.Equal(t, "Trafalgar Square", q.Get("q"))
	assert.Equal(t, "gb", q.Get("countrycodes"))
	assert.Equal(t, "1", q.Get("addressdetails"))
	assert.Equal(t, "1", q.Get("limit"))
	assert.Equal(t, "en-GB,en", got.Header.Get("Accept-Language"))
	assert.Equal(t, "propintel-test", got.Header.Get("User-Agent"))
}

func TestResolveOmitsEmptyCountry(t *testing.T) {
	var has bool
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, has = r.URL.Query()["countrycodes"]
		respond(http.StatusOK, londonResponse)(w, r)
	})

	_, err := client.Resolve(context.Background(), "London", "")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestResolveCityFallsBackToTown(t *testing.T) {
	client, _ := newTestClient(t, respond(http.StatusOK,
		`[{"lat":"52.2","lon":"0.12","display_name":"x","address":{"town":"Ely","neighbourhood":"Centre"}}]`))

	loc, err := client.Resolve(context.Background(), "Ely", "gb")
	require.NoError(t, err)
	assert.Equal(t, "Ely", loc.Components.City)
	assert.Equal(t, "Centre", loc.Components.Suburb)
	assert.Empty(t, loc.Components.Road)
}

func TestResolveBlankQueryIsNotFoundWithoutRequest(t *testing.T) {
	client, calls := newTestClient(t, respond(http.StatusOK, londonResponse))

	for _, q := range []string{"", "   "} {
		loc, err := client.Resolve(context.Background(), q, "gb")
		assert.Nil(t, loc)
		assert.ErrorIs(t, err, ErrNotFound)
		var rerr *ResolutionError
		assert.False(t, errors.As(err, &rerr))
	}
	assert.Zero(t, atomic.LoadInt32(calls))
}

func TestResolveEmptyListIsNotFound(t *testing.T) {
	client, _ := newTestClient(t, respond(http.StatusOK, `[]`))

	loc, err := client.Resolve(context.Background(), "Atlantis", "gb")
	assert.Nil(t, loc)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, OutcomeNotFound, Classify(err))
}

func TestResolveFailuresAreResolutionErrors(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantStatus int
	}{
		{"server error", respond(http.StatusInternalServerError, `oops`), http.StatusInternalServerError},
		{"rate limited", respond(http.StatusTooManyRequests, `[]`), http.StatusTooManyRequests},
		{"malformed json", respond(http.StatusOK, `{"not":"a list"`), http.StatusOK},
		{"bad latitude", respond(http.StatusOK, `[{"lat":"north","lon":"0"}]`), http.StatusOK},
		{"nan longitude", respond(http.StatusOK, `[{"lat":"1","lon":"NaN"}]`), http.StatusOK},
		{"out of range", respond(http.StatusOK, `[{"lat":"95","lon":"0"}]`), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, tt.handler)

			loc, err := client.Resolve(context.Background(), "somewhere", "gb")
			assert.Nil(t, loc)
			var rerr *ResolutionError
			require.ErrorAs(t, err, &rerr)
			assert.Equal(t, tt.wantStatus, rerr.Status)
			assert.Equal(t, "somewhere", rerr.Query)
			assert.NotErrorIs(t, err, ErrNotFound)
			assert.Equal(t, OutcomeError, Classify(err))
		})
	}
}

func TestResolveTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	client := NewClient(WithBaseURL(base), WithRate(0))
	_, err := client.Resolve(context.Background(), "London", "gb")
	var rerr *ResolutionError
	require.ErrorAs(t, err, &rerr)
	assert.Zero(t, rerr.Status)
}

func TestResolveTimeout(t *testing.T) {
	block := make(chan struct{})
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}, WithTimeout(50*time.Millisecond))
	defer close(block)

	_, err := client.Resolve(context.Background(), "London", "gb")
	var rerr *ResolutionError
	require.ErrorAs(t, err, &rerr)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestResolveRateLimited(t *testing.T) {
	client, calls := newTestClient(t, respond(http.StatusOK, londonResponse), WithRate(20))
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := client.Resolve(ctx, "London", "gb")
		require.NoError(t, err)
	}
	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
	assert.Equal(t, int32(3), atomic.LoadInt32(calls))
}

func TestClassify(t *testing.T) {
	assert.Equal(t, OutcomeFound, Classify(nil))
	assert.Equal(t, OutcomeNotFound, Classify(ErrNotFound))
	assert.Equal(t, OutcomeError, Classify(&ResolutionError{Query: "x", Err: errors.New("boom")}))
}

func TestResolutionErrorMessage(t *testing.T) {
	err := &ResolutionError{Query: "x", Status: 503, Err: errors.New("unexpected status")}
	assert.Equal(t, `resolve "x": status 503: unexpected status`, err.Error())
	err = &ResolutionError{Query: "x", Err: errors.New("dial tcp")}
	assert.Equal(t, `resolve "x": dial tcp`, err.Error())
}
