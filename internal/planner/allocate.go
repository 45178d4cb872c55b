package planner

import (
	"fmt"
	"math"

	"github.com/tripweaver/tripweaver/internal/types"
)

const (
	maxActivitiesPerDay = 4
	minTripDays         = 3
	maxTripDays         = 8
)

// DestinationSelection is one destination's scored-and-ordered pick of
// candidates, ready for day allocation.
type DestinationSelection struct {
	Label      string
	Candidates []types.Candidate
}

// SuggestTripDays derives the trip's total day count when the user did not
// name one. A single city gets 2-4 days; multi-city trips get two days per city
// plus half a day for every leg whose transfer would run past four hours,
// clamped to the 3-8 day window.
func SuggestTripDays(destinations []types.Destination, rnd Rand) int {
	if len(destinations) == 1 {
		return 2 + rnd.Intn(3)
	}

	travelDays := 0.0
	for i := 1; i < len(destinations); i++ {
		leg := IntercityTravel(HaversineKm(
			destinations[i-1].Coordinates,
			destinations[i].Coordinates,
		))
		if leg.DurationMinutes > 240 {
			travelDays += 0.5
		}
	}

	total := int(math.Ceil(float64(len(destinations)*2) + travelDays))
	if total < minTripDays {
		total = minTripDays
	}
	if total > maxTripDays {
		total = maxTripDays
	}
	return total
}

// AllocateDays splits the trip's days across destinations in input
// order. Every destination except the last receives at most its suggested
// share (one day per four activities, floor one); the last absorbs whatever
// remains, so the allocations always sum to totalDays exactly.
func AllocateDays(selections []DestinationSelection, totalDays int) []int {
	allocation := make([]int, len(selections))
	remaining := totalDays

	for i, sel := range selections {
		if i == len(selections)-1 {
			allocation[i] = remaining
			break
		}
		suggested := int(math.Ceil(float64(len(sel.Candidates)) / maxActivitiesPerDay))
		if suggested < 1 {
			suggested = 1
		}
		fair := int(math.Ceil(float64(remaining) / float64(len(selections)-i)))
		days := suggested
		if fair < days {
			days = fair
		}
		allocation[i] = days
		remaining -= days
	}
	return allocation
}

// BuildDays turns per-destination selections into scheduled itinerary days.
// Within a destination's block the candidates are sliced into contiguous
// chunks in selection order, one chunk per allocated day, and each chunk is
// scheduled independently with the clock reset to 9:00 AM. Day numbers stay
// dense: a day whose chunk came up empty is not emitted.
func BuildDays(selections []DestinationSelection, totalDays int) []types.Day {
	allocation := AllocateDays(selections, totalDays)

	var days []types.Day
	dayNumber := 1

	for i, sel := range selections {
		cityDays := allocation[i]
		if cityDays <= 0 || len(sel.Candidates) == 0 {
			continue
		}
		perDay := int(math.Ceil(float64(len(sel.Candidates)) / float64(cityDays)))

		for d := 0; d < cityDays; d++ {
			start := d * perDay
			if start >= len(sel.Candidates) {
				break
			}
			end := start + perDay
			if end > len(sel.Candidates) {
				end = len(sel.Candidates)
			}

			scheduled := ScheduleDay(sel.Candidates[start:end], sel.Label, DefaultDayStart)
			for j := range scheduled {
				scheduled[j].ID = fmt.Sprintf("day%d_%d", dayNumber, j+1)
			}
			days = append(days, types.Day{Day: dayNumber, Activities: scheduled})
			dayNumber++
		}
	}

	return days
}
