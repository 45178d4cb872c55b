package types

// Coordinate is a WGS84 point. Valid latitudes are [-90,90], longitudes
// [-180,180]; compare positions with the haversine distance, not equality.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether the coordinate is inside the WGS84 range.
func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// Destination is a city the user picked for the trip. Attractions may be
// preloaded by the caller; when empty the assembler fetches them itself.
type Destination struct {
	Name        string      `json:"name"`
	Country     string      `json:"country"`
	Coordinates Coordinate  `json:"coordinates"`
	Attractions []Candidate `json:"attractions,omitempty"`
}

// Candidate is a raw point of interest returned by the geographic data
// source, not yet scored or scheduled. Kinds carries the provider's
// comma-separated category tags untouched.
type Candidate struct {
	XID         string     `json:"xid"`
	Name        string     `json:"name"`
	Kinds       string     `json:"kinds"`
	Coordinates Coordinate `json:"point"`
	// Dist is meters from the query center; zero when the provider omits it.
	Dist float64 `json:"dist,omitempty"`
	Rate string  `json:"rate,omitempty"`
}

// TravelInfo records the computed hop from the previous activity of the day.
type TravelInfo struct {
	DurationMinutes int    `json:"duration_minutes"`
	Method          string `json:"method"`
	FromPrevious    bool   `json:"from_previous"`
}

// Activity is a scheduled, scored, time-stamped unit of a day's itinerary.
// Coordinates may be nil when the source supplied none; consumers must treat
// that as legal.
type Activity struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Category    string      `json:"category"`
	Duration    string      `json:"duration"`
	Time        string      `json:"time"`
	Destination string      `json:"destination"`
	Coordinates *Coordinate `json:"coordinates,omitempty"`
	XID         string      `json:"xid,omitempty"`
	TravelTime  *TravelInfo `json:"travel_time,omitempty"`
}

// Day is one itinerary day; activities are ordered by start time.
type Day struct {
	Day        int        `json:"day"`
	Activities []Activity `json:"activities"`
}

// GenerationSource labels which pipeline produced an itinerary so a fallback
// is never silent.
type GenerationSource string

const (
	SourceEngine    GenerationSource = "engine"
	SourceAssistant GenerationSource = "assistant"
)

// Itinerary is the result of one generation request. Days are dense and
// start at 1. Regeneration replaces the whole value.
type Itinerary struct {
	TripName        string           `json:"trip_name"`
	Days            []Day            `json:"days"`
	TotalActivities int              `json:"total_activities"`
	Source          GenerationSource `json:"source"`
}

// TravelEstimate is the cost/time model output for one leg.
type TravelEstimate struct {
	DurationMinutes int     `json:"duration_minutes"`
	Method          string  `json:"method"`
	CostEstimate    float64 `json:"cost_estimate,omitempty"`
	DistanceKm      float64 `json:"distance_km"`
}

// CityChange flags a day boundary where the dominant city changes. Derived
// on demand from the itinerary, never stored.
type CityChange struct {
	Day        int            `json:"day"`
	FromCity   string         `json:"from_city"`
	ToCity     string         `json:"to_city"`
	TravelInfo TravelEstimate `json:"travel_info"`
}

// Geoname is the geographic source's best match for a free-form place name.
type Geoname struct {
	Name       string  `json:"name"`
	Country    string  `json:"country"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	Timezone   string  `json:"timezone,omitempty"`
	Population int     `json:"population,omitempty"`
}

// PlaceDetails is the per-place record behind a candidate's XID. Rate feeds
// the visit-duration estimate.
type PlaceDetails struct {
	XID   string     `json:"xid"`
	Name  string     `json:"name"`
	Kinds string     `json:"kinds"`
	Rate  string     `json:"rate"`
	Point Coordinate `json:"point"`
}

// SuggestedDestination ranks a candidate city by how many attractions match
// the user's preferences.
type SuggestedDestination struct {
	Name            string      `json:"name"`
	Country         string      `json:"country"`
	Coordinates     *Coordinate `json:"coordinates,omitempty"`
	AttractionCount int         `json:"attraction_count"`
	Category        string      `json:"category"`
}

// GenerateItineraryRequest is the request body shared by the generate,
// regenerate and assistant endpoints.
type GenerateItineraryRequest struct {
	Destinations []Destination `json:"destinations"`
	Preferences  []string      `json:"preferences,omitempty"`
}

// CityChangesRequest carries a finished itinerary's days for intercity
// transfer detection.
type CityChangesRequest struct {
	Days []Day `json:"days"`
}
