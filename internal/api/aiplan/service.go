package aiplan

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"google.golang.org/genai"

	"github.com/tripweaver/tripweaver/internal/planner"
	"github.com/tripweaver/tripweaver/internal/types"
)

// Generator is the text-generation boundary. Satisfied by the Gemini
// client; tests substitute a canned implementation.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error)
}

var _ Service = (*ServiceImpl)(nil)

// Service asks the assistant for an alternative day distribution of an
// already-selected activity set.
type Service interface {
	PlanDays(ctx context.Context, summary types.PlanSummary, destinations []types.Destination) ([]types.Day, error)
}

type ServiceImpl struct {
	generator Generator
	rnd       planner.Rand
	logger    *slog.Logger
}

func NewServiceImpl(generator Generator, rnd planner.Rand, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		generator: generator,
		rnd:       rnd,
		logger:    logger,
	}
}

// PlanDays sends the flattened summary to the assistant and translates its
// reply into engine-shaped days. Every failure path returns an error the
// assembler treats as recoverable: the engine pipeline is a complete
// substitute, never a partial merge.
func (s *ServiceImpl) PlanDays(ctx context.Context, summary types.PlanSummary, destinations []types.Destination) ([]types.Day, error) {
	ctx, span := otel.Tracer("AIPlanService").Start(ctx, "PlanDays")
	defer span.End()
	span.SetAttributes(
		attribute.Int("plan.activities", summary.TotalActivities),
		attribute.Int("plan.days", summary.Days),
	)

	if len(summary.Activities) == 0 {
		return nil, fmt.Errorf("%w: no activities to plan", ErrMalformedResponse)
	}

	prompt := buildPrompt(summary)
	temperature := float32(0.4)
	raw, err := s.generator.GenerateContent(ctx, prompt, &genai.GenerateContentConfig{
		Temperature: &temperature,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "assistant call failed", slog.Any("error", err))
		span.SetStatus(codes.Error, "assistant call failed")
		span.RecordError(err)
		return nil, fmt.Errorf("aiplan: assistant call failed: %w", err)
	}

	plan, err := ParseResponse(raw)
	if err != nil {
		s.logger.WarnContext(ctx, "assistant reply unusable, caller will fall back",
			slog.Any("error", err))
		span.RecordError(err)
		return nil, err
	}

	days := TranslatePlan(plan, destinations, s.rnd)
	span.SetAttributes(attribute.Int("plan.translated_days", len(days)))
	span.SetStatus(codes.Ok, "plan translated")
	return days, nil
}
