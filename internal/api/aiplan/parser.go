package aiplan

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tripweaver/tripweaver/internal/planner"
	"github.com/tripweaver/tripweaver/internal/types"
)

// ErrMalformedResponse marks an assistant reply that could not be turned
// into an itinerary. It is always recoverable: callers fall back to the
// engine pipeline in full, never surface it to the end user as a hard
// failure.
var ErrMalformedResponse = errors.New("aiplan: malformed assistant response")

// stripFences removes markdown code-fence wrapping the model tends to add
// despite being told not to.
func stripFences(raw string) string {
	cleaned := strings.ReplaceAll(raw, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	return strings.TrimSpace(cleaned)
}

// extractJSONObject returns the first balanced {...} substring, the rescue
// path for replies that wrap the JSON in prose. String literals are walked
// so braces inside them don't unbalance the scan.
func extractJSONObject(raw string) (string, bool) {
	start := strings.IndexByte(raw, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		ch := raw[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return raw[start : i+1], true
			}
		}
	}
	return "", false
}

// ParseResponse turns the raw assistant text into a validated plan. The
// structure is untrusted: fences are stripped, a direct parse is attempted,
// then a balanced-brace extraction, and the result must carry a non-empty
// itinerary array with named activities. Any miss is ErrMalformedResponse.
func ParseResponse(raw string) (*types.AIPlanResponse, error) {
	cleaned := stripFences(raw)

	var plan types.AIPlanResponse
	if err := json.Unmarshal([]byte(cleaned), &plan); err != nil {
		extracted, ok := extractJSONObject(cleaned)
		if !ok {
			return nil, fmt.Errorf("%w: no JSON object in reply", ErrMalformedResponse)
		}
		if err := json.Unmarshal([]byte(extracted), &plan); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
	}

	if err := validatePlan(&plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

func validatePlan(plan *types.AIPlanResponse) error {
	if len(plan.Itinerary) == 0 {
		return fmt.Errorf("%w: missing itinerary array", ErrMalformedResponse)
	}
	for _, day := range plan.Itinerary {
		if day.Day <= 0 {
			return fmt.Errorf("%w: day plan without positive day number", ErrMalformedResponse)
		}
		for _, a := range day.Activities {
			if strings.TrimSpace(a.Activity) == "" {
				return fmt.Errorf("%w: activity without a name on day %d", ErrMalformedResponse, day.Day)
			}
			if a.ArrivalTime == "" {
				return fmt.Errorf("%w: activity %q without arrival time", ErrMalformedResponse, a.Activity)
			}
		}
	}
	return nil
}

// TranslatePlan converts the assistant's day plans into the engine's
// Day/Activity shape. Activities get synthetic coordinates jittered within
// ~1km of their destination's known center so downstream travel math and
// map display keep working; destinations the engine does not know stay
// coordinate-free, which is legal.
func TranslatePlan(plan *types.AIPlanResponse, destinations []types.Destination, rnd planner.Rand) []types.Day {
	centers := make(map[string]types.Coordinate, len(destinations))
	for _, d := range destinations {
		centers[strings.ToLower(d.Name)] = d.Coordinates
	}

	days := make([]types.Day, 0, len(plan.Itinerary))
	for _, dayPlan := range plan.Itinerary {
		day := types.Day{Day: dayPlan.Day}

		var jittered []types.Coordinate
		center, known := centers[strings.ToLower(planner.CityFromDestination(dayPlan.PrimaryDestination))]
		if known {
			jittered = planner.JitterCoordinates(center, len(dayPlan.Activities), 1.0, rnd)
		}

		for i, a := range dayPlan.Activities {
			activity := types.Activity{
				ID:          fmt.Sprintf("day%d_%d", dayPlan.Day, i+1),
				Name:        a.Activity,
				Category:    a.Category,
				Destination: a.Destination,
				Time:        a.ArrivalTime,
				Duration:    planner.FormatMinutes(a.DurationMinutes),
			}
			if activity.Category == "" {
				activity.Category = planner.DefaultCategory
			}
			if activity.Destination == "" {
				activity.Destination = dayPlan.PrimaryDestination
			}
			if known {
				activity.Coordinates = &jittered[i]
			}
			if i > 0 && dayPlan.Activities[i-1].TravelTimeToNext > 0 {
				activity.TravelTime = &types.TravelInfo{
					DurationMinutes: dayPlan.Activities[i-1].TravelTimeToNext,
					Method:          dayPlan.Activities[i-1].TravelMethod,
					FromPrevious:    true,
				}
			}
			day.Activities = append(day.Activities, activity)
		}
		days = append(days, day)
	}
	return days
}
