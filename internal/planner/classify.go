package planner

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// categoryRule maps provider kind substrings to a display category. Rule
// order is significant: the first match wins, so "museums,architecture"
// classifies as Museum.
type categoryRule struct {
	substrings []string
	category   string
}

var categoryRules = []categoryRule{
	{[]string{"museums"}, "Museum"},
	{[]string{"historic", "archaeology"}, "Historic Site"},
	{[]string{"architecture", "monuments"}, "Landmark"},
	{[]string{"natural", "geological"}, "Nature"},
	{[]string{"religion", "churches"}, "Religious Site"},
	{[]string{"sport", "entertainment"}, "Entertainment"},
	{[]string{"shops", "markets"}, "Shopping"},
	{[]string{"food", "restaurants"}, "Food & Dining"},
	{[]string{"cultural", "arts"}, "Culture"},
	{[]string{"towers", "bell_towers"}, "Tower"},
	{[]string{"bridges"}, "Bridge"},
	{[]string{"squares"}, "Square"},
}

// DefaultCategory is used when no rule matches the kind string.
const DefaultCategory = "Attraction"

// Categorize maps a raw comma-separated kinds string to a display category.
func Categorize(kinds string) string {
	lower := strings.ToLower(kinds)
	for _, rule := range categoryRules {
		for _, sub := range rule.substrings {
			if strings.Contains(lower, sub) {
				return rule.category
			}
		}
	}
	return DefaultCategory
}

// baseVisitHours returns the unadjusted visit duration for a kinds string.
// The else-if chain mirrors the category rule order where both exist.
func baseVisitHours(kinds string) float64 {
	lower := strings.ToLower(kinds)
	switch {
	case strings.Contains(lower, "museums"):
		return 2.5
	case strings.Contains(lower, "historic"), strings.Contains(lower, "archaeology"):
		return 2
	case strings.Contains(lower, "architecture"), strings.Contains(lower, "monuments"):
		return 1
	case strings.Contains(lower, "natural"), strings.Contains(lower, "geological"):
		return 3
	case strings.Contains(lower, "religion"), strings.Contains(lower, "churches"):
		return 1
	case strings.Contains(lower, "entertainment"):
		return 2.5
	case strings.Contains(lower, "shops"), strings.Contains(lower, "markets"):
		return 1.5
	case strings.Contains(lower, "towers"), strings.Contains(lower, "bell_towers"):
		return 0.5
	case strings.Contains(lower, "squares"):
		return 0.5
	default:
		return 1
	}
}

// EstimateDuration returns a display label for the expected visit length of
// an attraction. Higher-rated places get more time: rate >= 3 (or the
// provider's "h" heritage marker) scales by 1.5, rate >= 2 by 1.2. The
// result is rounded to the nearest half hour AFTER scaling, so a 0.5h base
// scaled by 1.5 lands on "1 hour", not "30 min".
func EstimateDuration(kinds, rate string) string {
	hours := baseVisitHours(kinds)

	if rate != "" {
		rateNum, _ := strconv.Atoi(rate)
		switch {
		case rateNum >= 3 || strings.Contains(rate, "h"):
			hours *= 1.5
		case rateNum >= 2:
			hours *= 1.2
		}
	}

	hours = math.Round(hours*2) / 2

	switch {
	case hours < 1:
		return "30 min"
	case hours == 1:
		return "1 hour"
	default:
		return fmt.Sprintf("%g hours", hours)
	}
}

// ParseDuration converts a duration label like "2.5 hours", "1 hour" or
// "30 min" back to minutes. Unrecognized labels parse to zero.
func ParseDuration(label string) int {
	total := 0.0
	fields := strings.Fields(strings.ToLower(label))
	for i := 0; i+1 < len(fields); i += 2 {
		value, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			continue
		}
		unit := fields[i+1]
		switch {
		case strings.HasPrefix(unit, "hour"):
			total += value * 60
		case strings.HasPrefix(unit, "min"):
			total += value
		}
	}
	return int(math.Round(total))
}

// FormatMinutes renders a minute count like "45min", "2h" or "1h 30min".
func FormatMinutes(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dmin", minutes)
	}
	hours := minutes / 60
	rest := minutes % 60
	if rest == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh %dmin", hours, rest)
}
