package share

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/tripweaver/tripweaver/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// Service hands out share tokens for generated itineraries and resolves
// them back.
type Service interface {
	Share(ctx context.Context, itinerary *types.Itinerary) (uuid.UUID, error)
	Lookup(ctx context.Context, token uuid.UUID) (*types.Itinerary, error)
	Revoke(ctx context.Context, token uuid.UUID) error
}

type ServiceImpl struct {
	repo   Repository
	logger *slog.Logger
}

func NewServiceImpl(repo Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		repo:   repo,
		logger: logger,
	}
}

func (s *ServiceImpl) Share(ctx context.Context, itinerary *types.Itinerary) (uuid.UUID, error) {
	ctx, span := otel.Tracer("ShareService").Start(ctx, "Share")
	defer span.End()

	token := uuid.New()
	if err := s.repo.Save(ctx, token, itinerary); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Save failed")
		return uuid.Nil, err
	}

	s.logger.InfoContext(ctx, "Itinerary shared",
		slog.String("token", token.String()),
		slog.String("trip_name", itinerary.TripName))
	span.SetStatus(codes.Ok, "Itinerary shared")
	return token, nil
}

func (s *ServiceImpl) Lookup(ctx context.Context, token uuid.UUID) (*types.Itinerary, error) {
	ctx, span := otel.Tracer("ShareService").Start(ctx, "Lookup")
	defer span.End()

	itinerary, err := s.repo.Get(ctx, token)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Lookup failed")
		return nil, err
	}
	span.SetStatus(codes.Ok, "Itinerary resolved")
	return itinerary, nil
}

func (s *ServiceImpl) Revoke(ctx context.Context, token uuid.UUID) error {
	ctx, span := otel.Tracer("ShareService").Start(ctx, "Revoke")
	defer span.End()

	if err := s.repo.Delete(ctx, token); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Revoke failed")
		return err
	}
	span.SetStatus(codes.Ok, "Itinerary revoked")
	return nil
}
