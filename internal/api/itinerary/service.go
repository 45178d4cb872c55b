package itinerary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/tripweaver/tripweaver/app/observability/metrics"
	"github.com/tripweaver/tripweaver/internal/api/geo"
	"github.com/tripweaver/tripweaver/internal/planner"
	"github.com/tripweaver/tripweaver/internal/types"
)

const (
	fetchRadiusMeters = 8000
	fetchLimit        = 30
)

var (
	// ErrNoDestinations is fatal to the call: there is nothing to plan.
	ErrNoDestinations = errors.New("itinerary: no destinations provided")
	// ErrNoEligibleCandidates marks a single destination whose candidates
	// all scored out. It never leaves the assembler: the destination is
	// dropped and generation continues with the rest.
	ErrNoEligibleCandidates = errors.New("itinerary: no eligible candidates for destination")
	// ErrGenerationFailed means every destination came up empty, which is
	// distinct from being handed no input at all.
	ErrGenerationFailed = errors.New("itinerary: no quality activities could be generated for any destination")
)

// GeoClient is the slice of the geographic source the assembler needs.
type GeoClient interface {
	NearbyAttractions(ctx context.Context, center types.Coordinate, radiusMeters int, kinds string, limit int) ([]types.Candidate, error)
}

// AIPlanner is the optional assistant boundary; a nil planner disables the
// assistant path entirely.
type AIPlanner interface {
	PlanDays(ctx context.Context, summary types.PlanSummary, destinations []types.Destination) ([]types.Day, error)
}

var _ Service = (*ServiceImpl)(nil)

// Service drives the full generation pipeline and owns the current
// itinerary slot.
type Service interface {
	Generate(ctx context.Context, destinations []types.Destination, preferences []string) (*types.Itinerary, error)
	Regenerate(ctx context.Context, destinations []types.Destination, preferences []string) (*types.Itinerary, error)
	GenerateWithAssistant(ctx context.Context, destinations []types.Destination, preferences []string) (*types.Itinerary, error)
	Current() *types.Itinerary
	CityChanges(days []types.Day) []types.CityChange
}

type ServiceImpl struct {
	geo         GeoClient
	aiPlanner   AIPlanner
	rnd         planner.Rand
	logger      *slog.Logger
	fetchRadius int

	// Concurrent regenerations follow "last write wins": each call takes a
	// token at start and only the newest completed call may commit its
	// result; a stale in-flight generation finishing late is discarded.
	requestCounter atomic.Uint64
	commitMu       sync.Mutex
	committedToken uint64
	current        atomic.Pointer[types.Itinerary]
}

func NewServiceImpl(geo GeoClient, aiPlanner AIPlanner, rnd planner.Rand, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		geo:         geo,
		aiPlanner:   aiPlanner,
		rnd:         rnd,
		logger:      logger,
		fetchRadius: fetchRadiusMeters,
	}
}

// WithFetchRadius overrides the default candidate search radius.
func (s *ServiceImpl) WithFetchRadius(radiusMeters int) *ServiceImpl {
	if radiusMeters > 0 {
		s.fetchRadius = radiusMeters
	}
	return s
}

// Generate runs the engine pipeline: fetch candidates per destination,
// score and select, allocate days, schedule. Destinations that fail or
// yield nothing are skipped; only when all of them do is the run a failure.
func (s *ServiceImpl) Generate(ctx context.Context, destinations []types.Destination, preferences []string) (*types.Itinerary, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "Generate")
	defer span.End()

	token := s.requestCounter.Add(1)
	start := time.Now()

	itinerary, err := s.generate(ctx, destinations, preferences)
	if err != nil {
		span.SetStatus(codes.Error, "generation failed")
		span.RecordError(err)
		return nil, err
	}

	metrics.Get().GenerationsTotal.Add(ctx, 1)
	metrics.Get().GenerationDurationSeconds.Record(ctx, time.Since(start).Seconds())
	span.SetAttributes(
		attribute.Int("itinerary.days", len(itinerary.Days)),
		attribute.Int("itinerary.activities", itinerary.TotalActivities),
	)

	s.commit(token, itinerary)
	return itinerary, nil
}

// Regenerate re-runs the identical pipeline. The allocator's base-day draw
// is randomized, so a repeat call legitimately produces a different trip.
func (s *ServiceImpl) Regenerate(ctx context.Context, destinations []types.Destination, preferences []string) (*types.Itinerary, error) {
	return s.Generate(ctx, destinations, preferences)
}

// GenerateWithAssistant tries the assistant path first and falls back to
// the engine pipeline wholesale when the assistant is unavailable or its
// reply is unusable. The result's Source records which path actually ran.
func (s *ServiceImpl) GenerateWithAssistant(ctx context.Context, destinations []types.Destination, preferences []string) (*types.Itinerary, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "GenerateWithAssistant")
	defer span.End()

	token := s.requestCounter.Add(1)

	if len(destinations) == 0 {
		return nil, ErrNoDestinations
	}

	selections, dayCount, err := s.selectCandidates(ctx, destinations, preferences)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if s.aiPlanner != nil {
		summary := summarize(selections, dayCount)
		days, planErr := s.aiPlanner.PlanDays(ctx, summary, destinations)
		if planErr == nil {
			itinerary := &types.Itinerary{
				TripName:        tripName(destinations),
				Days:            days,
				TotalActivities: countActivities(days),
				Source:          types.SourceAssistant,
			}
			s.commit(token, itinerary)
			span.SetAttributes(attribute.String("itinerary.source", string(types.SourceAssistant)))
			return itinerary, nil
		}
		s.logger.WarnContext(ctx, "assistant plan unavailable, using engine pipeline",
			slog.Any("error", planErr))
		metrics.Get().AssistantFallbacksTotal.Add(ctx, 1)
		span.AddEvent("assistant fallback")
	}

	days := planner.BuildDays(selections, dayCount)
	itinerary := &types.Itinerary{
		TripName:        tripName(destinations),
		Days:            days,
		TotalActivities: countActivities(days),
		Source:          types.SourceEngine,
	}
	s.commit(token, itinerary)
	span.SetAttributes(attribute.String("itinerary.source", string(types.SourceEngine)))
	return itinerary, nil
}

// Current returns the most recently committed itinerary, nil before the
// first successful generation.
func (s *ServiceImpl) Current() *types.Itinerary {
	return s.current.Load()
}

// CityChanges derives intercity transfers from a finished itinerary.
func (s *ServiceImpl) CityChanges(days []types.Day) []types.CityChange {
	return planner.DetectCityChanges(days)
}

func (s *ServiceImpl) generate(ctx context.Context, destinations []types.Destination, preferences []string) (*types.Itinerary, error) {
	if len(destinations) == 0 {
		return nil, ErrNoDestinations
	}

	selections, dayCount, err := s.selectCandidates(ctx, destinations, preferences)
	if err != nil {
		return nil, err
	}

	days := planner.BuildDays(selections, dayCount)
	return &types.Itinerary{
		TripName:        tripName(destinations),
		Days:            days,
		TotalActivities: countActivities(days),
		Source:          types.SourceEngine,
	}, nil
}

// selectCandidates runs the per-destination fetch/score/select stages. The
// fetches fan out concurrently; each destination's three stages stay
// strictly ordered within its own goroutine, and everything joins before
// allocation.
func (s *ServiceImpl) selectCandidates(ctx context.Context, destinations []types.Destination, preferences []string) ([]planner.DestinationSelection, int, error) {
	dayCount := planner.SuggestTripDays(destinations, s.rnd)
	daysPerDestination := int(math.Ceil(float64(dayCount) / float64(len(destinations))))

	kinds := kindsFor(preferences)

	results := make([]planner.DestinationSelection, len(destinations))
	g, gctx := errgroup.WithContext(ctx)
	for i, dest := range destinations {
		g.Go(func() error {
			results[i] = s.selectForDestination(gctx, dest, kinds, daysPerDestination)
			return nil
		})
	}
	// Goroutines never return errors: a failed destination is recovered as
	// an empty selection.
	_ = g.Wait()

	selections := make([]planner.DestinationSelection, 0, len(results))
	for i, sel := range results {
		if len(sel.Candidates) == 0 {
			s.logger.WarnContext(ctx, "destination contributed no activities",
				slog.String("destination", destinations[i].Name))
			continue
		}
		selections = append(selections, sel)
	}
	if len(selections) == 0 {
		return nil, 0, ErrGenerationFailed
	}
	return selections, dayCount, nil
}

func (s *ServiceImpl) selectForDestination(ctx context.Context, dest types.Destination, kinds string, daysAvailable int) planner.DestinationSelection {
	label := destinationLabel(dest)
	selection := planner.DestinationSelection{Label: label}

	if !dest.Coordinates.Valid() {
		s.logger.WarnContext(ctx, "dropping destination with invalid coordinates",
			slog.String("destination", dest.Name))
		return selection
	}

	attractions := dest.Attractions
	if len(attractions) == 0 {
		fetched, err := s.geo.NearbyAttractions(ctx, dest.Coordinates, s.fetchRadius, kinds, fetchLimit)
		if err != nil {
			s.logger.ErrorContext(ctx, "candidate fetch failed, skipping destination",
				slog.String("destination", dest.Name), slog.Any("error", err))
			metrics.Get().GeoFetchErrorsTotal.Add(ctx, 1)
			return selection
		}
		attractions = fetched
	}

	ranked := planner.RankCandidates(attractions, map[string]bool{})
	if len(ranked) == 0 {
		s.logger.WarnContext(ctx, "skipping destination",
			slog.String("destination", dest.Name), slog.Any("error", ErrNoEligibleCandidates))
		return selection
	}

	limit := 4 * daysAvailable
	if limit > len(ranked) {
		limit = len(ranked)
	}

	selected := make([]types.Candidate, 0, limit)
	for _, r := range ranked[:limit] {
		selected = append(selected, r.Candidate)
	}

	selection.Candidates = planner.OptimizeRoute(selected)
	return selection
}

func kindsFor(preferences []string) string {
	// Preference-driven kinds narrow the fetch; the default keeps the
	// provider's broad interesting_places umbrella.
	if kinds := geo.KindsFromPreferences(preferences); kinds != "" {
		return kinds
	}
	return "interesting_places"
}

func destinationLabel(dest types.Destination) string {
	if dest.Country == "" {
		return dest.Name
	}
	return fmt.Sprintf("%s, %s", dest.Name, dest.Country)
}

func tripName(destinations []types.Destination) string {
	if len(destinations) == 1 {
		return fmt.Sprintf("Your %s Discovery", destinations[0].Name)
	}
	return fmt.Sprintf("Your %d-City Journey", len(destinations))
}

func summarize(selections []planner.DestinationSelection, dayCount int) types.PlanSummary {
	summary := types.PlanSummary{Days: dayCount}
	for _, sel := range selections {
		for _, c := range sel.Candidates {
			summary.Activities = append(summary.Activities, types.ActivitySummary{
				Name:        c.Name,
				Category:    planner.Categorize(c.Kinds),
				Destination: sel.Label,
			})
		}
	}
	summary.TotalActivities = len(summary.Activities)
	return summary
}

func countActivities(days []types.Day) int {
	total := 0
	for _, day := range days {
		total += len(day.Activities)
	}
	return total
}

func (s *ServiceImpl) commit(token uint64, itinerary *types.Itinerary) {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()
	if token <= s.committedToken {
		// A newer request already committed; this result is stale.
		return
	}
	s.committedToken = token
	s.current.Store(itinerary)
}
