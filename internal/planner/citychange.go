package planner

import (
	"math"
	"sort"
	"strings"

	"github.com/tripweaver/tripweaver/internal/types"
)

// CityFromDestination extracts the city part of a "Paris, France" style
// label: everything before the first comma.
func CityFromDestination(destination string) string {
	if destination == "" {
		return "Unknown"
	}
	city, _, _ := strings.Cut(destination, ",")
	return strings.TrimSpace(city)
}

// SameCity reports whether two destination labels name the same city,
// ignoring case and the country suffix. Label-less activities all map to
// "Unknown" and therefore count as the same city.
func SameCity(a, b string) bool {
	return strings.EqualFold(CityFromDestination(a), CityFromDestination(b))
}

// exceedsCityChangeThreshold is strict: a hop of exactly 50km is still
// intra-city movement.
func exceedsCityChangeThreshold(distanceKm float64) bool {
	return distanceKm > CityChangeThresholdKm
}

// DetectCityChanges scans chronologically adjacent days and flags each
// boundary where the trip moves to a different city. The comparison is
// between the last activity of the earlier day and the first of the later
// one; a change needs differing city labels, coordinates on both sides, and
// a hop strictly beyond 50km. At most one change per boundary, attributed
// to the later day.
func DetectCityChanges(days []types.Day) []types.CityChange {
	ordered := append([]types.Day(nil), days...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Day < ordered[j].Day })

	var changes []types.CityChange
	for i := 0; i+1 < len(ordered); i++ {
		current, next := ordered[i], ordered[i+1]
		if len(current.Activities) == 0 || len(next.Activities) == 0 {
			continue
		}

		last := current.Activities[len(current.Activities)-1]
		first := next.Activities[0]

		if SameCity(last.Destination, first.Destination) {
			continue
		}
		if last.Coordinates == nil || first.Coordinates == nil {
			continue
		}

		distance := HaversineKm(*last.Coordinates, *first.Coordinates)
		if !exceedsCityChangeThreshold(distance) {
			continue
		}

		estimate := IntercityTravel(distance)
		estimate.DistanceKm = math.Round(distance)
		changes = append(changes, types.CityChange{
			Day:        next.Day,
			FromCity:   CityFromDestination(last.Destination),
			ToCity:     CityFromDestination(first.Destination),
			TravelInfo: estimate,
		})
	}
	return changes
}
