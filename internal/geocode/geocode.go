// Package geocode resolves free-text addresses through a Nominatim compatible search
// service.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/cristianoliveira/propintel/internal/colors"
)

const (
	// DefaultBaseURL is the public OpenStreetMap Nominatim instance.
	DefaultBaseURL = "https://nominatim.openstreetmap.org"
	// DefaultLanguage is sent as Accept-Language.
	DefaultLanguage = "en-GB,en"
	// DefaultTimeout bounds a single lookup.
	DefaultTimeout = 10 * time.Second

	maxBodyBytes = 1 << 20
)

// Components is the structured address breakdown of a Location. Missing parts are empty.
type Components struct {
	Road     string `json:"road,omitempty"`
	Suburb   string `json:"suburb,omitempty"`
	City     string `json:"city,omitempty"`
	Postcode string `json:"postcode,omitempty"`
}

// Location is the best match for a query.
type Location struct {
	Latitude    float64    `json:"latitude"`
	Longitude   float64    `json:"longitude"`
	DisplayName string     `json:"display_name"`
	Components  Components `json:"components"`
}

// Resolver resolves a query to a Location.
type Resolver interface {
	Resolve(ctx context.Context, query, country string) (*Location, error)
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another Nominatim instance.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithLanguage sets the Accept-Language header.
func WithLanguage(lang string) Option {
	return func(c *Client) { c.language = lang }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithTimeout bounds each lookup. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithRate limits outgoing lookups to perSec requests per second. Zero or less
// disables the limiter.
func WithRate(perSec float64) Option {
	return func(c *Client) {
		if perSec <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSec), 1)
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// Client is a single-shot Nominatim search client: one request per Resolve, no retry
// and no cache.
type Client struct {
	baseURL    string
	language   string
	userAgent  string
	timeout    time.Duration
	limiter    *rate.Limiter
	httpClient *http.Client
}

// NewClient creates a Client with the public defaults and a one request per second
// limit.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		language:   DefaultLanguage,
		userAgent:  "propintel",
		timeout:    DefaultTimeout,
		limiter:    rate.NewLimiter(rate.Limit(1), 1),
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type place struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
	Address     struct {
		Road          string `json:"road"`
		Suburb        string `json:"suburb"`
		Neighbourhood string `json:"neighbourhood"`
		City          string `json:"city"`
		Town          string `json:"town"`
		Village       string `json:"village"`
		Postcode      string `json:"postcode"`
	} `json:"address"`
}

// Resolve looks query up, optionally restricted to an ISO 3166-1 country code.
// A blank query or an empty result returns ErrNotFound; every failure to obtain an
// answer returns a *ResolutionError.
func (c *Client) Resolve(ctx context.Context, query, country string) (*Location, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrNotFound
	}
	start := time.Now()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, c.fail(query, 0, fmt.Errorf("waiting for rate limiter: %w", err))
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.searchURL(query, country), nil)
	if err != nil {
		return nil, c.fail(query, 0, fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if c.language != "" {
		req.Header.Set("Accept-Language", c.language)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.fail(query, 0, fmt.Errorf("executing request: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, c.fail(query, resp.StatusCode, fmt.Errorf("reading response body: %w", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.fail(query, resp.StatusCode, fmt.Errorf("unexpected status %s", http.StatusText(resp.StatusCode)))
	}

	var places []place
	if err := json.Unmarshal(body, &places); err != nil {
		return nil, c.fail(query, resp.StatusCode, fmt.Errorf("decoding response: %w", err))
	}
	if len(places) == 0 {
		colors.StructuredDebug("geocode", "resolve", "not_found", nil, query,
			map[string]any{"duration_seconds": time.Since(start).Seconds()})
		return nil, ErrNotFound
	}

	loc, err := toLocation(places[0])
	if err != nil {
		return nil, c.fail(query, resp.StatusCode, err)
	}
	colors.StructuredDebug("geocode", "resolve", "found", nil, query, map[string]any{
		"duration_seconds": time.Since(start).Seconds(),
		"latitude":         loc.Latitude,
		"longitude":        loc.Longitude,
	})
	return loc, nil
}

func (c *Client) searchURL(query, country string) string {
	v := url.Values{}
	v.Set("format", "json")
	v.Set("q", query)
	if country = strings.TrimSpace(country); country != "" {
		v.Set("countrycodes", strings.ToLower(country))
	}
	v.Set("addressdetails", "1")
	v.Set("limit", "1")
	return c.baseURL + "/search?" + v.Encode()
}

func (c *Client) fail(query string, status int, err error) error {
	rerr := &ResolutionError{Query: query, Status: status, Err: err}
	colors.StructuredError("geocode", "resolve", "failed", rerr, query, nil)
	return rerr
}

func toLocation(p place) (*Location, error) {
	lat, err := parseCoordinate(p.Lat, 90)
	if err != nil {
		return nil, fmt.Errorf("latitude: %w", err)
	}
	lon, err := parseCoordinate(p.Lon, 180)
	if err != nil {
		return nil, fmt.Errorf("longitude: %w", err)
	}
	return &Location{
		Latitude:    lat,
		Longitude:   lon,
		DisplayName: p.DisplayName,
		Components: Components{
			Road:     p.Address.Road,
			Suburb:   firstNonEmpty(p.Address.Suburb, p.Address.Neighbourhood),
			City:     firstNonEmpty(p.Address.City, p.Address.Town, p.Address.Village),
			Postcode: p.Address.Postcode,
		},
	}, nil
}

var errBadCoordinate = errors.New("invalid coordinate")

func parseCoordinate(s string, limit float64) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w %q", errBadCoordinate, s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > limit {
		return 0, fmt.Errorf("%w %q", errBadCoordinate, s)
	}
	return v, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

var _ Resolver = (*Client)(nil)
