package planner

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tripweaver/tripweaver/internal/types"
)

// DefaultDayStart is when a scheduled day begins.
const DefaultDayStart = "9:00 AM"

// parseClock converts "9:00 AM" style labels to minutes since midnight.
// Malformed labels fall back to the default day start.
func parseClock(label string) int {
	parts := strings.Fields(label)
	if len(parts) != 2 {
		return 9 * 60
	}
	hm := strings.SplitN(parts[0], ":", 2)
	if len(hm) != 2 {
		return 9 * 60
	}
	hour, err1 := strconv.Atoi(hm[0])
	minute, err2 := strconv.Atoi(hm[1])
	if err1 != nil || err2 != nil {
		return 9 * 60
	}

	period := strings.ToUpper(parts[1])
	if period == "PM" && hour != 12 {
		hour += 12
	}
	if period == "AM" && hour == 12 {
		hour = 0
	}
	return hour*60 + minute
}

// formatClock renders minutes since midnight as a 12-hour label, rolling
// over midnight when the day runs long.
func formatClock(minutes int) string {
	minutes = ((minutes % 1440) + 1440) % 1440
	hour := minutes / 60
	minute := minutes % 60

	period := "AM"
	if hour >= 12 {
		period = "PM"
	}
	if hour == 0 {
		hour = 12
	} else if hour > 12 {
		hour -= 12
	}
	return fmt.Sprintf("%d:%02d %s", hour, minute, period)
}

// AddMinutes advances a 12-hour clock label, handling the noon and midnight
// rollovers.
func AddMinutes(clock string, minutes int) string {
	return formatClock(parseClock(clock) + minutes)
}

// ClockMinutes exposes a label's minutes-since-midnight value, mainly so
// callers can assert time monotonicity.
func ClockMinutes(clock string) int {
	return parseClock(clock)
}

// ScheduleDay walks the selected candidates once and assigns each a start
// time: the first takes startTime, each later one starts after the previous
// visit plus the computed hop between the two. The hop is recorded on the
// activity so the result carries its own travel breakdown.
func ScheduleDay(selected []types.Candidate, destinationLabel, startTime string) []types.Activity {
	if len(selected) == 0 {
		return nil
	}
	if startTime == "" {
		startTime = DefaultDayStart
	}

	activities := make([]types.Activity, 0, len(selected))
	current := startTime

	for i, c := range selected {
		var travel *types.TravelInfo
		if i > 0 {
			prev := activities[i-1]
			if prev.Coordinates != nil {
				hop := IntraCityTravel(*prev.Coordinates, c.Coordinates)
				travel = &hop
				current = AddMinutes(current, hop.DurationMinutes)
			}
		}

		point := c.Coordinates
		activity := types.Activity{
			ID:          fmt.Sprintf("activity_%d", i+1),
			Name:        c.Name,
			Category:    Categorize(c.Kinds),
			Duration:    EstimateDuration(c.Kinds, c.Rate),
			Time:        current,
			Destination: destinationLabel,
			Coordinates: &point,
			XID:         c.XID,
			TravelTime:  travel,
		}
		activities = append(activities, activity)

		current = AddMinutes(current, ParseDuration(activity.Duration))
	}

	return activities
}
