package aiplan

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/tripweaver/tripweaver/internal/planner"
	"github.com/tripweaver/tripweaver/internal/types"
)

type stubGenerator struct {
	reply  string
	err    error
	prompt string
}

func (s *stubGenerator) GenerateContent(_ context.Context, prompt string, _ *genai.GenerateContentConfig) (string, error) {
	s.prompt = prompt
	return s.reply, s.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testSummary() types.PlanSummary {
	return types.PlanSummary{
		TotalActivities: 3,
		Days:            2,
		Activities: []types.ActivitySummary{
			{Name: "Louvre Museum", Category: "Museum", Destination: "Paris, France"},
			{Name: "Pont Neuf", Category: "Bridge", Destination: "Paris, France"},
			{Name: "Colosseum", Category: "Historic Site", Destination: "Rome, Italy"},
		},
	}
}

func TestPlanDays(t *testing.T) {
	gen := &stubGenerator{reply: validReply}
	svc := NewServiceImpl(gen, planner.NewRand(1), testLogger())

	days, err := svc.PlanDays(context.Background(), testSummary(), []types.Destination{
		{Name: "Paris", Country: "France", Coordinates: types.Coordinate{Lat: 48.8566, Lon: 2.3522}},
	})
	require.NoError(t, err)
	assert.Len(t, days, 2)

	// The prompt carries the input data and the hard output contract.
	assert.Contains(t, gen.prompt, "Louvre Museum")
	assert.Contains(t, gen.prompt, "Return ONLY valid JSON")
	assert.True(t, strings.Contains(gen.prompt, "Paris, France"))
}

func TestPlanDaysGeneratorFailure(t *testing.T) {
	gen := &stubGenerator{err: errors.New("upstream unavailable")}
	svc := NewServiceImpl(gen, planner.NewRand(1), testLogger())

	_, err := svc.PlanDays(context.Background(), testSummary(), nil)
	assert.Error(t, err)
}

func TestPlanDaysMalformedReplyIsRecoverable(t *testing.T) {
	gen := &stubGenerator{reply: "Sorry, I can't help with that."}
	svc := NewServiceImpl(gen, planner.NewRand(1), testLogger())

	_, err := svc.PlanDays(context.Background(), testSummary(), nil)
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestPlanDaysEmptySummary(t *testing.T) {
	gen := &stubGenerator{reply: validReply}
	svc := NewServiceImpl(gen, planner.NewRand(1), testLogger())

	_, err := svc.PlanDays(context.Background(), types.PlanSummary{}, nil)
	assert.ErrorIs(t, err, ErrMalformedResponse)
	assert.Empty(t, gen.prompt, "no assistant call for an empty summary")
}
