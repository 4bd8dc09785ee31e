package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/courtside/platform/internal/guard"
)

// Coordinates is a resolved latitude/longitude pair.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Geocoder resolves a street address to coordinates. A nil result with a nil
// error means no provider could resolve the address.
type Geocoder interface {
	Geocode(ctx context.Context, address, city, state, zip string) (*Coordinates, error)
}

const (
	nominatimBaseURL = "https://nominatim.openstreetmap.org"

	providerPrimary  = "nominatim"
	providerFallback = "fallback"
)

// HTTPGeocoder geocodes through OpenStreetMap Nominatim with an optional
// secondary provider. A sliding-window rate limiter gates outbound calls per
// provider and a circuit breaker shifts traffic to the fallback while the
// primary is failing.
type HTTPGeocoder struct {
	primaryURL  string
	fallbackURL string
	fallbackKey string
	userAgent   string
	client      *http.Client
	limiter     *guard.RateLimiter
	breaker     *guard.CircuitBreaker
	logger      *slog.Logger
}

// NewHTTPGeocoder creates a geocoder. fallbackURL may be empty to disable the
// secondary provider. ratePerMin limits outbound calls per provider.
func NewHTTPGeocoder(fallbackURL, fallbackKey, userAgent string, ratePerMin int, logger *slog.Logger) *HTTPGeocoder {
	if ratePerMin <= 0 {
		ratePerMin = 60
	}
	return &HTTPGeocoder{
		primaryURL:  nominatimBaseURL,
		fallbackURL: strings.TrimRight(fallbackURL, "/"),
		fallbackKey: fallbackKey,
		userAgent:   userAgent,
		client:      &http.Client{Timeout: 5 * time.Second},
		limiter:     guard.NewRateLimiter(ratePerMin, time.Minute),
		breaker:     guard.NewCircuitBreaker(5, 30*time.Second),
		logger:      logger,
	}
}

// SetPrimaryURL overrides the primary provider base URL (tests).
func (g *HTTPGeocoder) SetPrimaryURL(u string) {
	g.primaryURL = strings.TrimRight(u, "/")
}

// Geocode resolves the address, trying the primary provider first and the
// fallback when the primary fails or is tripped open. Returns (nil, nil) when
// neither provider yields a result.
func (g *HTTPGeocoder) Geocode(ctx context.Context, address, city, state, zip string) (*Coordinates, error) {
	query := strings.Join([]string{address, city, state, zip}, ", ")

	if g.breaker.Check(ctx, providerPrimary).Allowed {
		if result := g.limiter.Check(ctx, providerPrimary); !result.Allowed {
			g.logger.Warn("geocoder primary rate limited", "reason", result.Reason)
		} else {
			coords, err := g.fetch(ctx, g.primaryRequestURL(query))
			if err != nil {
				g.breaker.RecordFailure(providerPrimary)
				g.logger.Warn("geocoder primary failed", "error", err)
			} else {
				g.breaker.RecordSuccess(providerPrimary)
				return coords, nil
			}
		}
	}

	if g.fallbackURL == "" {
		return nil, nil
	}

	if result := g.limiter.Check(ctx, providerFallback); !result.Allowed {
		return nil, fmt.Errorf("geocoding unavailable: %s", result.Reason)
	}

	coords, err := g.fetch(ctx, g.fallbackRequestURL(query))
	if err != nil {
		return nil, fmt.Errorf("fallback geocoder: %w", err)
	}
	return coords, nil
}

func (g *HTTPGeocoder) primaryRequestURL(query string) string {
	v := url.Values{}
	v.Set("q", query)
	v.Set("format", "json")
	v.Set("limit", "1")
	return g.primaryURL + "/search?" + v.Encode()
}

func (g *HTTPGeocoder) fallbackRequestURL(query string) string {
	v := url.Values{}
	v.Set("q", query)
	if g.fallbackKey != "" {
		v.Set("api_key", g.fallbackKey)
	}
	return g.fallbackURL + "/search?" + v.Encode()
}

// fetch calls a Nominatim-shaped endpoint and parses the first result.
// An empty result set is not an error: it returns (nil, nil).
func (g *HTTPGeocoder) fetch(ctx context.Context, requestURL string) (*Coordinates, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("api returned %d", resp.StatusCode)
	}

	var results []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if len(results) == 0 {
		return nil, nil
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("parse latitude %q: %w", results[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("parse longitude %q: %w", results[0].Lon, err)
	}

	return &Coordinates{Latitude: lat, Longitude: lon}, nil
}
