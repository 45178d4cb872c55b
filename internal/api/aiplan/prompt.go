package aiplan

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/tripweaver/tripweaver/internal/types"
)

// buildPrompt renders the multi-city optimization prompt from the flattened
// summary. The schema block must stay in sync with types.AIPlanResponse.
func buildPrompt(summary types.PlanSummary) string {
	byDestination := map[string]bool{}
	for _, a := range summary.Activities {
		byDestination[a.Destination] = true
	}
	destinations := make([]string, 0, len(byDestination))
	for d := range byDestination {
		destinations = append(destinations, d)
	}

	daysPerDestination := 1
	if len(destinations) > 0 {
		daysPerDestination = int(math.Ceil(float64(summary.Days) / float64(len(destinations))))
	}

	input, _ := json.MarshalIndent(summary, "", "  ")

	return fmt.Sprintf(`You are an expert AI travel planner that creates optimized multi-city itineraries with intelligent travel time calculations.

DESTINATION ANALYSIS:
- Available destinations: %s
- Total trip days: %d
- Recommended days per destination: %d
- Total activities: %d

TRAVEL TIME CALCULATION RULES:
- Within same city: 5-30 minutes between activities
- Between different cities: Calculate based on distance
  * 0-50km: 1-2 hours by car/train
  * 50-200km: 2-4 hours by train/car
  * 200-500km: 3-6 hours by train or 1-2 hours by flight + airport time
  * 500km+: 2-4 hours by flight including airport procedures

DISTRIBUTION REQUIREMENTS:
1. Allocate approximately %d days per destination
2. Group consecutive days by destination to minimize intercity travel
3. Plan intercity travel for early morning or evening to maximize activity time
4. Include mandatory 1:00 PM food breaks daily
5. Balance activity types across all destinations

INPUT DATA:
%s

REQUIRED JSON OUTPUT:
{
  "itinerary": [
    {
      "day": 1,
      "primary_destination": "City name from destinations",
      "intercity_travel": {
        "required": false,
        "from_city": null,
        "to_city": null,
        "estimated_duration_minutes": 0,
        "method": null,
        "departure_time": null
      },
      "activities": [
        {
          "order": 1,
          "activity": "EXACT name from input list",
          "destination": "destination from input",
          "category": "category from input",
          "cost": 25,
          "arrival_time": "9:00 AM",
          "duration_minutes": 120,
          "travel_time_to_next_minutes": 15,
          "travel_method": "walking/taxi/metro"
        }
      ]
    }
  ],
  "distribution_summary": {
    "destinations_covered": ["City1", "City2"],
    "days_per_destination": {"City1": 2, "City2": 3},
    "total_intercity_transfers": 1,
    "estimated_total_travel_time_hours": 4.5
  }
}

CRITICAL OPTIMIZATION RULES:
1. EVEN DISTRIBUTION: Ensure %d +/- 1 days per destination
2. MINIMIZE TRANSFERS: Group consecutive days by destination
3. SMART TIMING: Schedule intercity travel for 6-8 AM or after 6 PM
4. ACTIVITY BALANCE: Mix categories (culture, food, nature, etc.) across destinations
5. REALISTIC TIMING: Account for actual travel distances between cities
6. USE EXACT NAMES: Only use activity names from the provided input list
7. MANDATORY LUNCH: Always include food activity at 1:00 PM

Return ONLY valid JSON with no explanations or markdown formatting.`,
		strings.Join(destinations, ", "),
		summary.Days,
		daysPerDestination,
		summary.TotalActivities,
		daysPerDestination,
		string(input),
		daysPerDestination,
	)
}
