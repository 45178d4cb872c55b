package planner

import (
	"math"

	"github.com/tripweaver/tripweaver/internal/types"
)

const earthRadiusKm = 6371

// CityChangeThresholdKm is the boundary distance above which two differently
// named stops count as a genuine city change. Strictly greater than: a
// 50.0km hop is still intra-city movement.
const CityChangeThresholdKm = 50

// HaversineKm returns the great-circle distance between two points in
// kilometers.
func HaversineKm(a, b types.Coordinate) float64 {
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(a.Lat*math.Pi/180)*math.Cos(b.Lat*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusKm * c
}

// IntraCityTravel estimates the hop between two activities inside a city.
// Bands by distance: under 500m walk at 80m/min, under 2km walk at 15min/km,
// under 10km take local transport, beyond that a car; each band enforces a
// minimum so two doors on the same street still cost a few minutes.
func IntraCityTravel(from, to types.Coordinate) types.TravelInfo {
	distanceKm := HaversineKm(from, to)

	var minutes float64
	var method string
	switch {
	case distanceKm < 0.5:
		minutes = math.Max(5, math.Round(distanceKm*1000/80))
		method = "walking"
	case distanceKm < 2:
		minutes = math.Max(10, math.Round(distanceKm*15))
		method = "walking"
	case distanceKm < 10:
		minutes = math.Max(15, math.Round(distanceKm*5))
		method = "taxi/metro"
	default:
		minutes = math.Max(20, math.Round(distanceKm*3))
		method = "taxi/car"
	}

	return types.TravelInfo{
		DurationMinutes: int(minutes),
		Method:          method,
		FromPrevious:    true,
	}
}

type intercityMethod struct {
	speedKmh     float64
	baseCostUSD  float64
	overheadMins float64
}

var intercityMethods = map[string]intercityMethod{
	"flight": {speedKmh: 500, baseCostUSD: 150, overheadMins: 180},
	"train":  {speedKmh: 80, baseCostUSD: 50, overheadMins: 60},
	"car":    {speedKmh: 60, baseCostUSD: 100, overheadMins: 30},
	"bus":    {speedKmh: 50, baseCostUSD: 30, overheadMins: 45},
}

// IntercityTravel estimates duration, method and cost for a transfer between
// cities. Method selection is purely distance driven: flights above 500km,
// trains above 200km, cars otherwise. Overhead covers airport or station
// procedures; cost scales per 100km.
func IntercityTravel(distanceKm float64) types.TravelEstimate {
	var name string
	switch {
	case distanceKm > 500:
		name = "flight"
	case distanceKm > 200:
		name = "train"
	default:
		name = "car"
	}

	m := intercityMethods[name]
	minutes := distanceKm/m.speedKmh*60 + m.overheadMins

	return types.TravelEstimate{
		DurationMinutes: int(math.Round(minutes)),
		Method:          name,
		CostEstimate:    math.Round(m.baseCostUSD * (distanceKm / 100)),
		DistanceKm:      distanceKm,
	}
}

// OptimizeRoute reorders candidates into a nearest-neighbor walk starting
// from the first one, which keeps consecutive stops of a day geographically
// close instead of zig-zagging across the city.
func OptimizeRoute(candidates []types.Candidate) []types.Candidate {
	if len(candidates) <= 2 {
		return candidates
	}

	ordered := []types.Candidate{candidates[0]}
	remaining := append([]types.Candidate(nil), candidates[1:]...)
	for len(remaining) > 0 {
		current := ordered[len(ordered)-1]
		nearest := 0
		shortest := math.Inf(1)
		for i, c := range remaining {
			d := HaversineKm(current.Coordinates, c.Coordinates)
			if d < shortest {
				shortest = d
				nearest = i
			}
		}
		ordered = append(ordered, remaining[nearest])
		remaining = append(remaining[:nearest], remaining[nearest+1:]...)
	}
	return ordered
}

// JitterCoordinates generates count points spread around center within
// radiusKm, used to give assistant-produced activities a plausible position
// near their destination. The golden angle keeps successive points from
// clustering.
func JitterCoordinates(center types.Coordinate, count int, radiusKm float64, rnd Rand) []types.Coordinate {
	coords := make([]types.Coordinate, 0, count)
	for i := 0; i < count; i++ {
		angle := float64(i) * 137.5 * math.Pi / 180
		distance := rnd.Float64() * radiusKm

		latOffset := distance / 111.32 * math.Cos(angle)
		lonOffset := distance / (111.32 * math.Cos(center.Lat*math.Pi/180)) * math.Sin(angle)

		coords = append(coords, types.Coordinate{
			Lat: center.Lat + latOffset,
			Lon: center.Lon + lonOffset,
		})
	}
	return coords
}
