package geo

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/tripweaver/tripweaver/internal/types"
)

// CandidateCity is a city the suggester may recommend; coordinates are
// resolved on demand when absent.
type CandidateCity struct {
	Name        string            `json:"name"`
	Country     string            `json:"country"`
	Coordinates *types.Coordinate `json:"coordinates,omitempty"`
}

// SuggestDestinations ranks candidate cities by how many attractions
// matching the user's preferences sit within radiusMeters of each. Cities
// whose lookups fail score zero instead of failing the suggestion run.
func (c *Client) SuggestDestinations(ctx context.Context, preferences []string, candidates []CandidateCity, radiusMeters, maxResults int) ([]types.SuggestedDestination, error) {
	kinds := KindsFromPreferences(preferences)
	if kinds == "" {
		results := make([]types.SuggestedDestination, 0, len(candidates))
		for _, cand := range candidates {
			results = append(results, types.SuggestedDestination{
				Name:        cand.Name,
				Country:     cand.Country,
				Coordinates: cand.Coordinates,
				Category:    "General",
			})
		}
		return results, nil
	}

	category := "Mixed"
	if len(preferences) > 0 {
		category = preferences[0]
	}

	results := make([]types.SuggestedDestination, 0, len(candidates))
	for _, cand := range candidates {
		coords := cand.Coordinates
		if coords == nil {
			name, err := c.Geoname(ctx, fmt.Sprintf("%s, %s", cand.Name, cand.Country))
			if err != nil {
				c.logger.WarnContext(ctx, "could not resolve candidate city",
					slog.String("city", cand.Name), slog.Any("error", err))
			} else {
				coords = &types.Coordinate{Lat: name.Lat, Lon: name.Lon}
			}
		}

		count := 0
		if coords != nil {
			n, err := c.CountAttractions(ctx, *coords, radiusMeters, kinds, 80)
			if err != nil {
				c.logger.WarnContext(ctx, "attraction count failed",
					slog.String("city", cand.Name), slog.Any("error", err))
			} else {
				count = n
			}
		}

		results = append(results, types.SuggestedDestination{
			Name:            cand.Name,
			Country:         cand.Country,
			Coordinates:     coords,
			AttractionCount: count,
			Category:        category,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].AttractionCount > results[j].AttractionCount
	})
	if maxResults > 0 && len(results) > maxResults {
		results = results[:maxResults]
	}
	return results, nil
}
