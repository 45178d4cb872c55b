package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		name     string
		kinds    string
		expected string
	}{
		{"museum wins over architecture", "museums,architecture", "Museum"},
		{"historic", "historic,interesting_places", "Historic Site"},
		{"archaeology maps to historic", "archaeology", "Historic Site"},
		{"architecture", "architecture,other", "Landmark"},
		{"monuments", "monuments", "Landmark"},
		{"nature", "natural,springs", "Nature"},
		{"religion", "religion,churches", "Religious Site"},
		{"entertainment", "sport,stadiums", "Entertainment"},
		{"shopping", "shops,malls", "Shopping"},
		{"food", "foods,restaurants", "Food & Dining"},
		{"culture", "cultural,theatres", "Culture"},
		{"tower", "towers,view_points", "Tower"},
		{"bridge", "bridges", "Bridge"},
		{"square", "squares", "Square"},
		{"fallback", "view_points,urban_environment", "Attraction"},
		{"empty", "", "Attraction"},
		{"case insensitive", "MUSEUMS", "Museum"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Categorize(tt.kinds))
		})
	}
}

func TestCategorizeDeterministic(t *testing.T) {
	// Same input must classify identically across calls.
	for _, kinds := range []string{"museums,architecture", "historic", "", "towers"} {
		first := Categorize(kinds)
		second := Categorize(kinds)
		assert.Equal(t, first, second, "kinds %q", kinds)
	}
}

func TestEstimateDuration(t *testing.T) {
	tests := []struct {
		name     string
		kinds    string
		rate     string
		expected string
	}{
		{"museum base", "museums", "", "2.5 hours"},
		{"historic base", "historic", "", "2 hours"},
		{"landmark base", "architecture", "", "1 hour"},
		{"nature base", "natural", "", "3 hours"},
		{"tower base", "towers", "", "30 min"},
		{"square base", "squares", "", "30 min"},
		{"shops base", "shops", "", "1.5 hours"},
		{"default base", "view_points", "", "1 hour"},
		// 0.5h * 1.5 = 0.75h, rounded to the nearest half hour after
		// scaling: 1 hour, not 30 min.
		{"tower rated three", "towers", "3", "1 hour"},
		{"museum rated three", "museums", "3", "4 hours"},
		{"museum rated two", "museums", "2", "3 hours"},
		{"heritage marker scales like top rating", "towers", "1h", "1 hour"},
		{"rating one keeps base", "museums", "1", "2.5 hours"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, EstimateDuration(tt.kinds, tt.rate))
		})
	}
}

func TestEstimateDurationDeterministic(t *testing.T) {
	first := EstimateDuration("museums,architecture", "2")
	second := EstimateDuration("museums,architecture", "2")
	assert.Equal(t, first, second)
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		label    string
		expected int
	}{
		{"2.5 hours", 150},
		{"1 hour", 60},
		{"30 min", 30},
		{"2 hours", 120},
		{"", 0},
		{"garbage", 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ParseDuration(tt.label), "label %q", tt.label)
	}
}

func TestFormatMinutes(t *testing.T) {
	assert.Equal(t, "45min", FormatMinutes(45))
	assert.Equal(t, "2h", FormatMinutes(120))
	assert.Equal(t, "1h 30min", FormatMinutes(90))
}
