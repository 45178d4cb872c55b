package planner

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripweaver/tripweaver/internal/types"
)

type fixedRand struct{ f float64 }

func (r fixedRand) Float64() float64 { return r.f }
func (r fixedRand) Intn(n int) int   { return int(r.f * float64(n)) }

func makeSelection(label string, count int) DestinationSelection {
	sel := DestinationSelection{Label: label}
	for i := 0; i < count; i++ {
		sel.Candidates = append(sel.Candidates, types.Candidate{
			XID:   fmt.Sprintf("W%s%d", label, i),
			Name:  fmt.Sprintf("%s Spot %d", label, i),
			Kinds: "museums",
			Coordinates: types.Coordinate{
				Lat: 48.85 + float64(i)*0.01,
				Lon: 2.35 + float64(i)*0.01,
			},
		})
	}
	return sel
}

func TestSuggestTripDaysSingleDestination(t *testing.T) {
	dest := []types.Destination{{Name: "Paris", Coordinates: paris}}
	for _, f := range []float64{0, 0.5, 0.99} {
		days := SuggestTripDays(dest, fixedRand{f})
		assert.GreaterOrEqual(t, days, 2)
		assert.LessOrEqual(t, days, 4)
	}
}

func TestSuggestTripDaysMultiCity(t *testing.T) {
	near := []types.Destination{
		{Name: "Paris", Coordinates: paris},
		{Name: "Lille", Coordinates: types.Coordinate{Lat: 50.2, Lon: 2.3522}},
	}
	// ~150km by car is under the 240 minute mark: no extra half day,
	// 2 cities x 2 days = 4 days.
	assert.Equal(t, 4, SuggestTripDays(near, fixedRand{0}))

	far := []types.Destination{
		{Name: "Paris", Coordinates: paris},
		{Name: "Tokyo", Coordinates: tokyo},
	}
	// Long-haul leg adds half a day, rounded up: 5.
	assert.Equal(t, 5, SuggestTripDays(far, fixedRand{0}))
}

func TestSuggestTripDaysClamped(t *testing.T) {
	var many []types.Destination
	for i := 0; i < 6; i++ {
		many = append(many, types.Destination{
			Name:        fmt.Sprintf("City%d", i),
			Coordinates: types.Coordinate{Lat: float64(10 + i*10), Lon: float64(i * 20)},
		})
	}
	assert.Equal(t, 8, SuggestTripDays(many, fixedRand{0}))
}

func TestAllocateDaysSumInvariant(t *testing.T) {
	cases := []struct {
		name       string
		selections []DestinationSelection
		totalDays  int
	}{
		{"single", []DestinationSelection{makeSelection("Paris", 10)}, 3},
		{"two even", []DestinationSelection{makeSelection("Paris", 8), makeSelection("Rome", 8)}, 4},
		{"lopsided", []DestinationSelection{makeSelection("Paris", 2), makeSelection("Rome", 12)}, 6},
		{"more cities than days", []DestinationSelection{
			makeSelection("Paris", 4), makeSelection("Rome", 4), makeSelection("Lisbon", 4),
		}, 3},
		{"tiny", []DestinationSelection{makeSelection("Paris", 1), makeSelection("Rome", 1)}, 8},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			allocation := AllocateDays(tc.selections, tc.totalDays)
			require.Len(t, allocation, len(tc.selections))

			sum := 0
			for _, d := range allocation {
				sum += d
			}
			assert.Equal(t, tc.totalDays, sum)
		})
	}
}

func TestAllocateDaysCapsNonFinalDestinations(t *testing.T) {
	selections := []DestinationSelection{
		makeSelection("Paris", 4), // suggests 1 day
		makeSelection("Rome", 16),
	}
	allocation := AllocateDays(selections, 6)
	assert.Equal(t, 1, allocation[0])
	assert.Equal(t, 5, allocation[1])
}

func TestBuildDaysTenActivitiesOverThreeDays(t *testing.T) {
	selections := []DestinationSelection{makeSelection("Paris, France", 10)}
	days := BuildDays(selections, 3)

	require.Len(t, days, 3)
	total := 0
	for i, day := range days {
		assert.Equal(t, i+1, day.Day)
		assert.LessOrEqual(t, len(day.Activities), 4)
		total += len(day.Activities)
	}
	assert.Equal(t, 10, total)
}

func TestBuildDaysRestartsClockEachDay(t *testing.T) {
	selections := []DestinationSelection{makeSelection("Paris, France", 8)}
	days := BuildDays(selections, 2)

	require.Len(t, days, 2)
	for _, day := range days {
		require.NotEmpty(t, day.Activities)
		assert.Equal(t, DefaultDayStart, day.Activities[0].Time)
	}
}

func TestBuildDaysDenseNumbering(t *testing.T) {
	selections := []DestinationSelection{
		makeSelection("Paris, France", 2),
		makeSelection("Rome, Italy", 2),
	}
	days := BuildDays(selections, 4)

	for i, day := range days {
		assert.Equal(t, i+1, day.Day)
		for j, a := range day.Activities {
			assert.Equal(t, fmt.Sprintf("day%d_%d", day.Day, j+1), a.ID)
		}
	}
}

func TestBuildDaysKeepsSelectionOrderWithinChunks(t *testing.T) {
	selections := []DestinationSelection{makeSelection("Paris, France", 6)}
	days := BuildDays(selections, 2)

	require.Len(t, days, 2)
	assert.Equal(t, "Paris, France Spot 0", days[0].Activities[0].Name)
	assert.Equal(t, "Paris, France Spot 3", days[1].Activities[0].Name)
}
