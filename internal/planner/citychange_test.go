package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripweaver/tripweaver/internal/types"
)

func dayWith(day int, destination string, coords *types.Coordinate) types.Day {
	return types.Day{
		Day: day,
		Activities: []types.Activity{{
			ID:          "a",
			Name:        "Stop",
			Destination: destination,
			Coordinates: coords,
		}},
	}
}

func TestCityFromDestination(t *testing.T) {
	assert.Equal(t, "Paris", CityFromDestination("Paris, France"))
	assert.Equal(t, "Tokyo", CityFromDestination("Tokyo"))
	assert.Equal(t, "Unknown", CityFromDestination(""))
}

func TestSameCity(t *testing.T) {
	assert.True(t, SameCity("Paris, France", "paris, FR"))
	assert.False(t, SameCity("Paris, France", "Lyon, France"))
	assert.False(t, SameCity("", "Paris, France"))
	// Both label-less sides resolve to "Unknown", so they match.
	assert.True(t, SameCity("", ""))
}

func TestDetectCityChangesLabelLessDaysNotFlagged(t *testing.T) {
	// Two unlabeled days far apart share the "Unknown" city, so the hop
	// distance alone must not flag a change.
	days := []types.Day{
		dayWith(1, "", &paris),
		dayWith(2, "", &tokyo),
	}
	assert.Empty(t, DetectCityChanges(days))
}

func TestDetectCityChangesFlagsLongHop(t *testing.T) {
	days := []types.Day{
		dayWith(1, "Paris, France", &paris),
		dayWith(2, "Tokyo, Japan", &tokyo),
	}

	changes := DetectCityChanges(days)
	require.Len(t, changes, 1)

	change := changes[0]
	assert.Equal(t, 2, change.Day)
	assert.Equal(t, "Paris", change.FromCity)
	assert.Equal(t, "Tokyo", change.ToCity)
	assert.Equal(t, "flight", change.TravelInfo.Method)
	assert.InDelta(t, 9714, change.TravelInfo.DistanceKm, 20)
}

func TestCityChangeThresholdIsStrict(t *testing.T) {
	assert.False(t, exceedsCityChangeThreshold(50.0))
	assert.True(t, exceedsCityChangeThreshold(50.1))
	assert.False(t, exceedsCityChangeThreshold(49.9))
}

func TestDetectCityChangesShortHopNotFlagged(t *testing.T) {
	center := types.Coordinate{Lat: 48.0, Lon: 2.0}
	nearby := types.Coordinate{Lat: 48.4, Lon: 2.0} // ~44km

	days := []types.Day{
		dayWith(1, "Alpha, X", &center),
		dayWith(2, "Beta, X", &nearby),
	}
	// Differently named but under the threshold: intra-city movement.
	assert.Empty(t, DetectCityChanges(days))
}

func TestDetectCityChangesIgnoresSameCityLabels(t *testing.T) {
	elsewhere := types.Coordinate{Lat: 51.5, Lon: -0.1}
	days := []types.Day{
		dayWith(1, "Paris, France", &paris),
		dayWith(2, "Paris, France", &elsewhere),
	}
	// Same label wins regardless of the jump.
	assert.Empty(t, DetectCityChanges(days))
}

func TestDetectCityChangesNeedsCoordinatesOnBothSides(t *testing.T) {
	days := []types.Day{
		dayWith(1, "Paris, France", &paris),
		dayWith(2, "Tokyo, Japan", nil),
	}
	assert.Empty(t, DetectCityChanges(days))
}

func TestDetectCityChangesSkipsEmptyDays(t *testing.T) {
	days := []types.Day{
		dayWith(1, "Paris, France", &paris),
		{Day: 2},
		dayWith(3, "Tokyo, Japan", &tokyo),
	}
	// Day 2 has no activities so neither boundary qualifies.
	assert.Empty(t, DetectCityChanges(days))
}

func TestDetectCityChangesSortsByDayNumber(t *testing.T) {
	days := []types.Day{
		dayWith(2, "Tokyo, Japan", &tokyo),
		dayWith(1, "Paris, France", &paris),
	}
	changes := DetectCityChanges(days)
	require.Len(t, changes, 1)
	assert.Equal(t, 2, changes[0].Day)
}

func TestDetectCityChangesOnePerBoundary(t *testing.T) {
	rome := types.Coordinate{Lat: 41.9028, Lon: 12.4964}
	days := []types.Day{
		dayWith(1, "Paris, France", &paris),
		dayWith(2, "Rome, Italy", &rome),
		dayWith(3, "Tokyo, Japan", &tokyo),
	}
	changes := DetectCityChanges(days)
	require.Len(t, changes, 2)
	assert.Equal(t, 2, changes[0].Day)
	assert.Equal(t, 3, changes[1].Day)
}
