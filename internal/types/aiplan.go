package types

// ActivitySummary is the flattened activity shape handed to the assistant.
type ActivitySummary struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Destination string `json:"destination"`
}

// PlanSummary is the assistant's input: everything it needs to redistribute
// the engine's selection across days, nothing more.
type PlanSummary struct {
	TotalActivities int               `json:"totalActivities"`
	Days            int               `json:"days"`
	Activities      []ActivitySummary `json:"activities"`
}

// AIActivity mirrors one activity entry of the assistant's JSON response.
// The structure is untrusted; every field is validated on ingestion.
type AIActivity struct {
	Order            int     `json:"order"`
	Activity         string  `json:"activity"`
	Destination      string  `json:"destination"`
	Category         string  `json:"category"`
	Cost             float64 `json:"cost,omitempty"`
	ArrivalTime      string  `json:"arrival_time"`
	DurationMinutes  int     `json:"duration_minutes"`
	TravelTimeToNext int     `json:"travel_time_to_next_minutes"`
	TravelMethod     string  `json:"travel_method"`
}

// AIIntercityTravel is the assistant's optional transfer block for a day.
type AIIntercityTravel struct {
	Required                 bool    `json:"required"`
	FromCity                 *string `json:"from_city"`
	ToCity                   *string `json:"to_city"`
	EstimatedDurationMinutes int     `json:"estimated_duration_minutes"`
	Method                   *string `json:"method"`
	DepartureTime            *string `json:"departure_time"`
}

// AIDayPlan is one day of the assistant's proposed schedule.
type AIDayPlan struct {
	Day                int                `json:"day"`
	PrimaryDestination string             `json:"primary_destination"`
	IntercityTravel    *AIIntercityTravel `json:"intercity_travel,omitempty"`
	Activities         []AIActivity       `json:"activities"`
}

// AIDistributionSummary is the assistant's self-reported allocation.
type AIDistributionSummary struct {
	DestinationsCovered      []string       `json:"destinations_covered"`
	DaysPerDestination       map[string]int `json:"days_per_destination"`
	TotalIntercityTransfers  int            `json:"total_intercity_transfers"`
	EstimatedTotalTravelTime float64        `json:"estimated_total_travel_time_hours"`
}

// AIPlanResponse is the full schema expected from the assistant. A response
// without the itinerary array is rejected as malformed.
type AIPlanResponse struct {
	Itinerary           []AIDayPlan            `json:"itinerary"`
	DistributionSummary *AIDistributionSummary `json:"distribution_summary,omitempty"`
}
