package planner

import (
	"sort"
	"strings"

	"github.com/tripweaver/tripweaver/internal/types"
)

var genericNameWords = []string{"attraction", "place", "point", "location", "site", "area", "zone"}

// kindWeights rewards attraction types travellers actually seek out. A rule
// with several tags fires at most once: cathedral records usually carry both
// "churches" and "cathedrals" and must not collect the weight twice.
var kindWeights = []struct {
	kinds  []string
	weight int
}{
	{[]string{"museums"}, 12},
	{[]string{"historic"}, 10},
	{[]string{"architecture"}, 8},
	{[]string{"monuments"}, 8},
	{[]string{"churches", "cathedrals"}, 7},
	{[]string{"palaces"}, 9},
	{[]string{"castles"}, 9},
	{[]string{"parks"}, 6},
	{[]string{"squares"}, 5},
	{[]string{"bridges"}, 4},
	{[]string{"towers"}, 6},
	{[]string{"galleries"}, 7},
}

// kindPenalties pushes down categories that are technically "places" but
// not worth a visit.
var kindPenalties = []struct {
	kind    string
	penalty int
}{
	{"administrative", -30},
	{"industrial", -25},
	{"military", -15},
	{"transport", -20},
}

// ScoreCandidate ranks one candidate for selection. Candidates without a
// usable name are rejected outright (-100); the rest combine a proximity
// band, a diversity bonus against the categories already selected for this
// destination, and per-kind interest weights. Only scores above zero are
// eligible.
func ScoreCandidate(c types.Candidate, selectedCategories map[string]bool) int {
	if len(c.Name) < 3 {
		return -100
	}

	score := 0

	lowerName := strings.ToLower(c.Name)
	for _, generic := range genericNameWords {
		if strings.Contains(lowerName, generic) {
			score -= 50
			break
		}
	}

	// Dist is not a pointer: an exact 0m reading is indistinguishable
	// from an omitted field, so 0 skips the bands instead of taking the
	// too-close penalty.
	if c.Dist > 0 {
		distanceKm := c.Dist / 1000
		switch {
		case distanceKm < 0.5:
			// Too close to the query center, likely noise or a duplicate.
			score -= 20
		case distanceKm < 2:
			score += 15
		case distanceKm < 5:
			score += 10
		case distanceKm < 8:
			score += 5
		default:
			score -= 10
		}
	}

	if !selectedCategories[Categorize(c.Kinds)] {
		score += 8
	} else {
		score -= 3
	}

	kinds := strings.ToLower(c.Kinds)
	for _, kw := range kindWeights {
		for _, kind := range kw.kinds {
			if strings.Contains(kinds, kind) {
				score += kw.weight
				break
			}
		}
	}
	for _, kp := range kindPenalties {
		if strings.Contains(kinds, kp.kind) {
			score += kp.penalty
		}
	}

	return score
}

// ScoredCandidate pairs a candidate with its selection score.
type ScoredCandidate struct {
	Candidate types.Candidate
	Score     int
}

// RankCandidates scores every candidate against the given selection state,
// drops the ineligible ones and sorts the rest by descending score. The
// sort is stable so ties keep the provider's original order.
func RankCandidates(candidates []types.Candidate, selectedCategories map[string]bool) []ScoredCandidate {
	ranked := make([]ScoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		if !c.Coordinates.Valid() {
			continue
		}
		if score := ScoreCandidate(c, selectedCategories); score > 0 {
			ranked = append(ranked, ScoredCandidate{Candidate: c, Score: score})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}
