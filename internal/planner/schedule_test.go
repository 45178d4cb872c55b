package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripweaver/tripweaver/internal/types"
)

func TestAddMinutes(t *testing.T) {
	tests := []struct {
		clock    string
		minutes  int
		expected string
	}{
		{"9:00 AM", 90, "10:30 AM"},
		{"11:30 AM", 60, "12:30 PM"},
		{"12:00 PM", 60, "1:00 PM"},
		{"11:45 PM", 30, "12:15 AM"},
		{"12:00 AM", 30, "12:30 AM"},
		{"9:00 AM", 0, "9:00 AM"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, AddMinutes(tt.clock, tt.minutes), "%s + %d", tt.clock, tt.minutes)
	}
}

func TestClockMinutes(t *testing.T) {
	assert.Equal(t, 540, ClockMinutes("9:00 AM"))
	assert.Equal(t, 0, ClockMinutes("12:00 AM"))
	assert.Equal(t, 720, ClockMinutes("12:00 PM"))
	assert.Equal(t, 810, ClockMinutes("1:30 PM"))
}

func parisCandidates() []types.Candidate {
	return []types.Candidate{
		{XID: "W1", Name: "Louvre Museum", Kinds: "museums", Coordinates: types.Coordinate{Lat: 48.8606, Lon: 2.3376}},
		{XID: "W2", Name: "Notre-Dame", Kinds: "churches,religion", Coordinates: types.Coordinate{Lat: 48.8530, Lon: 2.3499}},
		{XID: "W3", Name: "Eiffel Tower", Kinds: "towers,architecture", Coordinates: types.Coordinate{Lat: 48.8584, Lon: 2.2945}},
	}
}

func TestScheduleDayFirstActivityHasNoTravel(t *testing.T) {
	activities := ScheduleDay(parisCandidates(), "Paris, France", "9:00 AM")
	require.Len(t, activities, 3)

	assert.Equal(t, "9:00 AM", activities[0].Time)
	assert.Nil(t, activities[0].TravelTime)

	for _, a := range activities[1:] {
		require.NotNil(t, a.TravelTime)
		assert.True(t, a.TravelTime.FromPrevious)
		assert.Positive(t, a.TravelTime.DurationMinutes)
	}
}

func TestScheduleDayTimesMonotonic(t *testing.T) {
	activities := ScheduleDay(parisCandidates(), "Paris, France", "9:00 AM")
	require.NotEmpty(t, activities)

	previous := -1
	for _, a := range activities {
		current := ClockMinutes(a.Time)
		assert.GreaterOrEqual(t, current, previous, "activity %s", a.Name)
		previous = current
	}
}

func TestScheduleDayAccountsForDurationAndTravel(t *testing.T) {
	activities := ScheduleDay(parisCandidates(), "Paris, France", "9:00 AM")
	require.Len(t, activities, 3)

	// Second start = first start + first visit + hop between the two.
	expected := ClockMinutes(activities[0].Time) +
		ParseDuration(activities[0].Duration) +
		activities[1].TravelTime.DurationMinutes
	assert.Equal(t, expected, ClockMinutes(activities[1].Time))
}

func TestScheduleDayDefaultStart(t *testing.T) {
	activities := ScheduleDay(parisCandidates(), "Paris, France", "")
	require.NotEmpty(t, activities)
	assert.Equal(t, DefaultDayStart, activities[0].Time)
}

func TestScheduleDayPopulatesActivityFields(t *testing.T) {
	activities := ScheduleDay(parisCandidates()[:1], "Paris, France", "9:00 AM")
	require.Len(t, activities, 1)

	a := activities[0]
	assert.Equal(t, "activity_1", a.ID)
	assert.Equal(t, "Louvre Museum", a.Name)
	assert.Equal(t, "Museum", a.Category)
	assert.Equal(t, "2.5 hours", a.Duration)
	assert.Equal(t, "Paris, France", a.Destination)
	assert.Equal(t, "W1", a.XID)
	require.NotNil(t, a.Coordinates)
	assert.InDelta(t, 48.8606, a.Coordinates.Lat, 1e-9)
}

func TestScheduleDayEmptyInput(t *testing.T) {
	assert.Nil(t, ScheduleDay(nil, "Paris, France", "9:00 AM"))
}
