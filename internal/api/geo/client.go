package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/tripweaver/tripweaver/internal/types"
)

const defaultBaseURL = "https://api.opentripmap.com/0.1/en/places"

// DefaultKinds is the category filter used when the caller has no
// preference.
const DefaultKinds = "interesting_places"

// ErrNotFound is returned when the place service has no match for a name.
var ErrNotFound = fmt.Errorf("geo: place not found")

// PreferenceKinds maps user-facing preference labels to the provider's kind
// tags used for destination suggestions.
var PreferenceKinds = map[string][]string{
	"Culture":   {"cultural", "museums", "architecture"},
	"Nature":    {"natural", "waterfalls", "lakes"},
	"Food":      {"foods", "restaurants", "cafes"},
	"History":   {"historic", "monuments", "archaeology"},
	"Art":       {"art_galleries", "museums", "theatres", "art"},
	"Adventure": {"sport", "climbing", "winter_sports"},
	"Beach":     {"beaches", "resorts"},
	"Urban":     {"installation", "architecture", "bridges"},
	"Modern":    {"skyscrapers", "architecture"},
}

// Client is the travel engine's view of the OpenTripMap places API. Lookups
// within one session are memoized; an empty attraction list is a valid
// response, not an error.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	cache      *cache.Cache
	logger     *slog.Logger
}

// NewClient builds a client with a bounded request timeout. A hung provider
// call must fail the individual lookup, never suspend a generation
// indefinitely.
func NewClient(apiKey string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		cache:      cache.New(24*time.Hour, 1*time.Hour),
		logger:     logger,
	}
}

// WithBaseURL points the client at a different endpoint, used by tests.
func (c *Client) WithBaseURL(base string) *Client {
	c.baseURL = base
	return c
}

// cacheKey rounds the center to 3 decimals (~110m) so nearby repeat queries
// within a session hit the memo table.
func cacheKey(prefix string, center types.Coordinate, radiusMeters int, kinds string, limit int) string {
	return fmt.Sprintf("%s|%.3f,%.3f|%d|%s|%d", prefix, center.Lat, center.Lon, radiusMeters, kinds, limit)
}

// NearbyAttractions queries candidate points of interest around a center.
// Candidates with out-of-range coordinates are dropped rather than
// propagated.
func (c *Client) NearbyAttractions(ctx context.Context, center types.Coordinate, radiusMeters int, kinds string, limit int) ([]types.Candidate, error) {
	ctx, span := otel.Tracer("GeoClient").Start(ctx, "NearbyAttractions")
	defer span.End()
	span.SetAttributes(
		attribute.Float64("geo.lat", center.Lat),
		attribute.Float64("geo.lon", center.Lon),
		attribute.Int("geo.radius_m", radiusMeters),
		attribute.String("geo.kinds", kinds),
	)

	if kinds == "" {
		kinds = DefaultKinds
	}

	key := cacheKey("radius", center, radiusMeters, kinds, limit)
	if cached, found := c.cache.Get(key); found {
		span.AddEvent("cache hit")
		return cached.([]types.Candidate), nil
	}

	query := url.Values{}
	query.Set("radius", fmt.Sprintf("%d", radiusMeters))
	query.Set("lon", fmt.Sprintf("%f", center.Lon))
	query.Set("lat", fmt.Sprintf("%f", center.Lat))
	query.Set("kinds", kinds)
	query.Set("format", "json")
	query.Set("limit", fmt.Sprintf("%d", limit))
	query.Set("apikey", c.apiKey)

	var raw []types.Candidate
	if err := c.getJSON(ctx, c.baseURL+"/radius?"+query.Encode(), &raw); err != nil {
		span.SetStatus(codes.Error, "radius query failed")
		span.RecordError(err)
		return nil, err
	}

	candidates := make([]types.Candidate, 0, len(raw))
	for _, cand := range raw {
		if !cand.Coordinates.Valid() {
			c.logger.WarnContext(ctx, "dropping candidate with invalid coordinates",
				slog.String("xid", cand.XID), slog.Float64("lat", cand.Coordinates.Lat), slog.Float64("lon", cand.Coordinates.Lon))
			continue
		}
		candidates = append(candidates, cand)
	}

	c.cache.Set(key, candidates, cache.DefaultExpiration)
	span.SetAttributes(attribute.Int("geo.candidates", len(candidates)))
	return candidates, nil
}

// Geoname resolves a free-form place name to its best-match coordinate.
// Returns ErrNotFound when the provider has no match.
func (c *Client) Geoname(ctx context.Context, placeName string) (*types.Geoname, error) {
	ctx, span := otel.Tracer("GeoClient").Start(ctx, "Geoname")
	defer span.End()
	span.SetAttributes(attribute.String("geo.place", placeName))

	key := "geoname|" + placeName
	if cached, found := c.cache.Get(key); found {
		span.AddEvent("cache hit")
		return cached.(*types.Geoname), nil
	}

	query := url.Values{}
	query.Set("name", placeName)
	query.Set("apikey", c.apiKey)

	var name types.Geoname
	err := c.getJSON(ctx, c.baseURL+"/geoname?"+query.Encode(), &name)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if !(types.Coordinate{Lat: name.Lat, Lon: name.Lon}).Valid() {
		return nil, fmt.Errorf("geo: geoname %q has invalid coordinates", placeName)
	}

	c.cache.Set(key, &name, cache.DefaultExpiration)
	return &name, nil
}

// PlaceDetails fetches the detail record behind a candidate's XID. The rate
// field feeds the visit-duration estimate.
func (c *Client) PlaceDetails(ctx context.Context, xid string) (*types.PlaceDetails, error) {
	ctx, span := otel.Tracer("GeoClient").Start(ctx, "PlaceDetails")
	defer span.End()
	span.SetAttributes(attribute.String("geo.xid", xid))

	key := "xid|" + xid
	if cached, found := c.cache.Get(key); found {
		return cached.(*types.PlaceDetails), nil
	}

	query := url.Values{}
	query.Set("apikey", c.apiKey)

	var details types.PlaceDetails
	if err := c.getJSON(ctx, c.baseURL+"/xid/"+url.PathEscape(xid)+"?"+query.Encode(), &details); err != nil {
		span.RecordError(err)
		return nil, err
	}

	c.cache.Set(key, &details, cache.DefaultExpiration)
	return &details, nil
}

// CountAttractions returns how many attractions of the given kinds sit
// within the radius, used to rank suggested destinations.
func (c *Client) CountAttractions(ctx context.Context, center types.Coordinate, radiusMeters int, kinds string, limit int) (int, error) {
	candidates, err := c.NearbyAttractions(ctx, center, radiusMeters, kinds, limit)
	if err != nil {
		return 0, err
	}
	return len(candidates), nil
}

// KindsFromPreferences collapses preference labels into the provider's
// comma-separated kind filter, deduplicated, in label order.
func KindsFromPreferences(preferences []string) string {
	seen := map[string]bool{}
	var kinds []string
	for _, p := range preferences {
		for _, k := range PreferenceKinds[p] {
			if !seen[k] {
				seen[k] = true
				kinds = append(kinds, k)
			}
		}
	}
	return strings.Join(kinds, ",")
}

func (c *Client) getJSON(ctx context.Context, fullURL string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("geo: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("geo: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("geo: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("geo: decode response: %w", err)
	}
	return nil
}
