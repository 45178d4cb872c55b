package share

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/tripweaver/tripweaver/app/observability/metrics"
	"github.com/tripweaver/tripweaver/internal/types"
)

// ErrNotFound is returned when no shared itinerary exists for a token.
var ErrNotFound = errors.New("share: itinerary not found")

// DB is the slice of pgxpool.Pool the repository needs; pgxmock satisfies
// it in tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ Repository = (*RepositoryImpl)(nil)

type Repository interface {
	Save(ctx context.Context, token uuid.UUID, itinerary *types.Itinerary) error
	Get(ctx context.Context, token uuid.UUID) (*types.Itinerary, error)
	Delete(ctx context.Context, token uuid.UUID) error
}

type RepositoryImpl struct {
	db     DB
	logger *slog.Logger
}

func NewRepository(db DB, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		db:     db,
		logger: logger,
	}
}

// observeQuery records the duration of one database call and counts its
// failure, labelled by operation.
func observeQuery(ctx context.Context, operation string, start time.Time, err error) {
	attrs := metric.WithAttributes(attribute.String("db.operation", operation))
	metrics.Get().DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)
	if err != nil {
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1, attrs)
	}
}

// Save stores the serialized itinerary under the given token. The payload
// is JSONB so the stored trip round-trips without loss.
func (r *RepositoryImpl) Save(ctx context.Context, token uuid.UUID, itinerary *types.Itinerary) error {
	ctx, span := otel.Tracer("ShareRepository").Start(ctx, "Save", trace.WithAttributes(
		attribute.String("share.token", token.String()),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "Save"))

	payload, err := json.Marshal(itinerary)
	if err != nil {
		l.ErrorContext(ctx, "Failed to marshal itinerary", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Marshal failed")
		return fmt.Errorf("failed to marshal itinerary: %w", err)
	}

	query := `
		INSERT INTO shared_itineraries (token, trip_name, payload)
		VALUES ($1, $2, $3)
		ON CONFLICT (token) DO UPDATE SET trip_name = $2, payload = $3
	`

	start := time.Now()
	_, err = r.db.Exec(ctx, query, token, itinerary.TripName, payload)
	observeQuery(ctx, "share_save", start, err)
	if err != nil {
		l.ErrorContext(ctx, "Failed to save shared itinerary", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Database insert failed")
		return fmt.Errorf("failed to save shared itinerary: %w", err)
	}

	span.SetStatus(codes.Ok, "Itinerary saved")
	return nil
}

// Get loads a shared itinerary by token.
func (r *RepositoryImpl) Get(ctx context.Context, token uuid.UUID) (*types.Itinerary, error) {
	ctx, span := otel.Tracer("ShareRepository").Start(ctx, "Get", trace.WithAttributes(
		attribute.String("share.token", token.String()),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "Get"))

	query := `SELECT payload FROM shared_itineraries WHERE token = $1`

	var payload []byte
	start := time.Now()
	err := r.db.QueryRow(ctx, query, token).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		// A missed lookup is a normal outcome, not a query error.
		observeQuery(ctx, "share_get", start, nil)
		span.SetStatus(codes.Error, "Not found")
		return nil, ErrNotFound
	}
	observeQuery(ctx, "share_get", start, err)
	if err != nil {
		l.ErrorContext(ctx, "Failed to query shared itinerary", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Database query failed")
		return nil, fmt.Errorf("failed to query shared itinerary: %w", err)
	}

	var itinerary types.Itinerary
	if err := json.Unmarshal(payload, &itinerary); err != nil {
		l.ErrorContext(ctx, "Failed to unmarshal stored itinerary", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Unmarshal failed")
		return nil, fmt.Errorf("failed to unmarshal stored itinerary: %w", err)
	}

	span.SetStatus(codes.Ok, "Itinerary retrieved")
	return &itinerary, nil
}

// Delete removes a shared itinerary; deleting an unknown token reports
// ErrNotFound.
func (r *RepositoryImpl) Delete(ctx context.Context, token uuid.UUID) error {
	ctx, span := otel.Tracer("ShareRepository").Start(ctx, "Delete", trace.WithAttributes(
		attribute.String("share.token", token.String()),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "Delete"))

	query := `DELETE FROM shared_itineraries WHERE token = $1`

	start := time.Now()
	tag, err := r.db.Exec(ctx, query, token)
	observeQuery(ctx, "share_delete", start, err)
	if err != nil {
		l.ErrorContext(ctx, "Failed to delete shared itinerary", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Database delete failed")
		return fmt.Errorf("failed to delete shared itinerary: %w", err)
	}
	if tag.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "Not found")
		return ErrNotFound
	}

	span.SetStatus(codes.Ok, "Itinerary deleted")
	return nil
}
