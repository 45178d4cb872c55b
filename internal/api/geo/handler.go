package geo

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/tripweaver/tripweaver/internal/api"
)

const (
	defaultSuggestRadiusMeters = 10000
	defaultSuggestMaxResults   = 5
)

// SuggestDestinationsRequest asks for cities ranked by preference fit.
type SuggestDestinationsRequest struct {
	Preferences  []string        `json:"preferences"`
	Candidates   []CandidateCity `json:"candidates"`
	RadiusMeters int             `json:"radius_meters,omitempty"`
	MaxResults   int             `json:"max_results,omitempty"`
}

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	SuggestDestinations(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	client *Client
	logger *slog.Logger
}

// NewHandlerImpl creates a new geo HandlerImpl instance.
func NewHandlerImpl(client *Client, logger *slog.Logger) *HandlerImpl {
	if logger == nil {
		panic("PANIC: Attempting to create geo HandlerImpl with nil logger!")
	}
	return &HandlerImpl{
		client: client,
		logger: logger,
	}
}

func (h *HandlerImpl) SuggestDestinations(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("GeoHandlerImpl").Start(r.Context(), "SuggestDestinations", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/destinations/suggest"),
	))
	defer span.End()

	l := h.logger.With(slog.String("HandlerImpl", "SuggestDestinations"))

	var req SuggestDestinationsRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to decode request")
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if len(req.Candidates) == 0 {
		span.SetStatus(codes.Error, "No candidate cities")
		api.ErrorResponse(w, r, http.StatusBadRequest, "At least one candidate city is required")
		return
	}

	radius := req.RadiusMeters
	if radius <= 0 {
		radius = defaultSuggestRadiusMeters
	}
	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = defaultSuggestMaxResults
	}

	suggestions, err := h.client.SuggestDestinations(ctx, req.Preferences, req.Candidates, radius, maxResults)
	if err != nil {
		l.ErrorContext(ctx, "Failed to suggest destinations", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to suggest destinations")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to suggest destinations")
		return
	}
	span.SetStatus(codes.Ok, "Destinations suggested")
	api.WriteJSONResponse(w, r, http.StatusOK, suggestions)
}
