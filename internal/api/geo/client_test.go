package geo

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripweaver/tripweaver/internal/types"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewClient("test-key", 2*time.Second, testLogger()).WithBaseURL(server.URL)
	return client, server
}

func TestNearbyAttractions(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/radius", r.URL.Path)
		assert.Equal(t, "8000", r.URL.Query().Get("radius"))
		assert.Equal(t, "interesting_places", r.URL.Query().Get("kinds"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))

		fmt.Fprint(w, `[
			{"xid":"W1","name":"Louvre","kinds":"museums","point":{"lat":48.8606,"lon":2.3376},"dist":1200},
			{"xid":"W2","name":"Broken","kinds":"museums","point":{"lat":123.0,"lon":2.0}}
		]`)
	})

	candidates, err := client.NearbyAttractions(context.Background(),
		types.Coordinate{Lat: 48.8566, Lon: 2.3522}, 8000, "interesting_places", 30)
	require.NoError(t, err)

	// The out-of-range candidate is dropped, not propagated.
	require.Len(t, candidates, 1)
	assert.Equal(t, "Louvre", candidates[0].Name)
	assert.Equal(t, 1200.0, candidates[0].Dist)
}

func TestNearbyAttractionsEmptyListIsValid(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	})

	candidates, err := client.NearbyAttractions(context.Background(),
		types.Coordinate{Lat: 48.8566, Lon: 2.3522}, 8000, "", 30)
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestNearbyAttractionsCachesRepeatQueries(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, `[{"xid":"W1","name":"Louvre","kinds":"museums","point":{"lat":48.8606,"lon":2.3376}}]`)
	})

	center := types.Coordinate{Lat: 48.8566, Lon: 2.3522}
	_, err := client.NearbyAttractions(context.Background(), center, 8000, "interesting_places", 30)
	require.NoError(t, err)
	_, err = client.NearbyAttractions(context.Background(), center, 8000, "interesting_places", 30)
	require.NoError(t, err)

	assert.Equal(t, int32(1), calls.Load())

	// A different radius is a different composite key.
	_, err = client.NearbyAttractions(context.Background(), center, 5000, "interesting_places", 30)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestNearbyAttractionsServerError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.NearbyAttractions(context.Background(),
		types.Coordinate{Lat: 48.8566, Lon: 2.3522}, 8000, "", 30)
	assert.Error(t, err)
}

func TestGeoname(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/geoname", r.URL.Path)
		assert.Equal(t, "Paris", r.URL.Query().Get("name"))
		fmt.Fprint(w, `{"name":"Paris","country":"FR","lat":48.8566,"lon":2.3522}`)
	})

	name, err := client.Geoname(context.Background(), "Paris")
	require.NoError(t, err)
	assert.Equal(t, "Paris", name.Name)
	assert.InDelta(t, 48.8566, name.Lat, 1e-9)
}

func TestGeonameNotFound(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	_, err := client.Geoname(context.Background(), "Atlantis")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPlaceDetails(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/xid/W123", r.URL.Path)
		fmt.Fprint(w, `{"xid":"W123","name":"Louvre","kinds":"museums","rate":"3h","point":{"lat":48.8606,"lon":2.3376}}`)
	})

	details, err := client.PlaceDetails(context.Background(), "W123")
	require.NoError(t, err)
	assert.Equal(t, "3h", details.Rate)
}

func TestKindsFromPreferences(t *testing.T) {
	assert.Equal(t, "", KindsFromPreferences(nil))
	assert.Equal(t, "cultural,museums,architecture", KindsFromPreferences([]string{"Culture"}))
	// Shared kinds are deduplicated, order follows the label order.
	assert.Equal(t, "cultural,museums,architecture,art_galleries,theatres,art",
		KindsFromPreferences([]string{"Culture", "Art"}))
	assert.Equal(t, "", KindsFromPreferences([]string{"NoSuchPreference"}))
}

func TestSuggestDestinationsRanksByAttractionCount(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/geoname":
			if r.URL.Query().Get("name") == "Paris, France" {
				fmt.Fprint(w, `{"name":"Paris","country":"FR","lat":48.8566,"lon":2.3522}`)
				return
			}
			fmt.Fprint(w, `{"name":"Quietown","country":"XX","lat":10.0,"lon":10.0}`)
		case "/radius":
			if r.URL.Query().Get("lat") == "48.856600" {
				fmt.Fprint(w, `[
					{"xid":"W1","name":"Louvre","kinds":"museums","point":{"lat":48.86,"lon":2.33}},
					{"xid":"W2","name":"Orsay","kinds":"museums","point":{"lat":48.85,"lon":2.32}}
				]`)
				return
			}
			fmt.Fprint(w, `[]`)
		default:
			http.NotFound(w, r)
		}
	})

	suggestions, err := client.SuggestDestinations(context.Background(),
		[]string{"Culture"},
		[]CandidateCity{
			{Name: "Quietown", Country: "XX"},
			{Name: "Paris", Country: "France"},
		}, 8000, 6)
	require.NoError(t, err)
	require.Len(t, suggestions, 2)

	assert.Equal(t, "Paris", suggestions[0].Name)
	assert.Equal(t, 2, suggestions[0].AttractionCount)
	assert.Equal(t, "Quietown", suggestions[1].Name)
}
