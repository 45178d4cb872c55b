package itinerary

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/tripweaver/tripweaver/internal/api"
	"github.com/tripweaver/tripweaver/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	Generate(w http.ResponseWriter, r *http.Request)
	Regenerate(w http.ResponseWriter, r *http.Request)
	GenerateWithAssistant(w http.ResponseWriter, r *http.Request)
	Current(w http.ResponseWriter, r *http.Request)
	CityChanges(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	itineraryService Service
	logger           *slog.Logger
}

// NewHandlerImpl creates a new itinerary HandlerImpl instance.
func NewHandlerImpl(itineraryService Service, logger *slog.Logger) *HandlerImpl {
	if logger == nil {
		panic("PANIC: Attempting to create itinerary HandlerImpl with nil logger!")
	}
	return &HandlerImpl{
		itineraryService: itineraryService,
		logger:           logger,
	}
}

func (h *HandlerImpl) Generate(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandlerImpl").Start(r.Context(), "Generate", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/itinerary/generate"),
	))
	defer span.End()

	l := h.logger.With(slog.String("HandlerImpl", "Generate"))
	l.DebugContext(ctx, "Generating itinerary")

	var req types.GenerateItineraryRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to decode request")
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	itinerary, err := h.itineraryService.Generate(ctx, req.Destinations, req.Preferences)
	if err != nil {
		h.writeGenerationError(ctx, w, r, span, err)
		return
	}
	span.SetStatus(codes.Ok, "Itinerary generated")
	api.WriteJSONResponse(w, r, http.StatusOK, itinerary)
}

func (h *HandlerImpl) Regenerate(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandlerImpl").Start(r.Context(), "Regenerate", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/itinerary/regenerate"),
	))
	defer span.End()

	l := h.logger.With(slog.String("HandlerImpl", "Regenerate"))
	l.DebugContext(ctx, "Regenerating itinerary")

	var req types.GenerateItineraryRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to decode request")
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	itinerary, err := h.itineraryService.Regenerate(ctx, req.Destinations, req.Preferences)
	if err != nil {
		h.writeGenerationError(ctx, w, r, span, err)
		return
	}
	span.SetStatus(codes.Ok, "Itinerary regenerated")
	api.WriteJSONResponse(w, r, http.StatusOK, itinerary)
}

func (h *HandlerImpl) GenerateWithAssistant(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandlerImpl").Start(r.Context(), "GenerateWithAssistant", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/itinerary/assistant"),
	))
	defer span.End()

	l := h.logger.With(slog.String("HandlerImpl", "GenerateWithAssistant"))
	l.DebugContext(ctx, "Generating itinerary with assistant")

	var req types.GenerateItineraryRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to decode request")
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	itinerary, err := h.itineraryService.GenerateWithAssistant(ctx, req.Destinations, req.Preferences)
	if err != nil {
		h.writeGenerationError(ctx, w, r, span, err)
		return
	}
	span.SetStatus(codes.Ok, "Itinerary generated")
	api.WriteJSONResponse(w, r, http.StatusOK, itinerary)
}

func (h *HandlerImpl) Current(w http.ResponseWriter, r *http.Request) {
	_, span := otel.Tracer("ItineraryHandlerImpl").Start(r.Context(), "Current", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/itinerary/current"),
	))
	defer span.End()

	itinerary := h.itineraryService.Current()
	if itinerary == nil {
		span.SetStatus(codes.Error, "No itinerary generated yet")
		api.ErrorResponse(w, r, http.StatusNotFound, "No itinerary generated yet")
		return
	}
	span.SetStatus(codes.Ok, "Itinerary retrieved")
	api.WriteJSONResponse(w, r, http.StatusOK, itinerary)
}

func (h *HandlerImpl) CityChanges(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandlerImpl").Start(r.Context(), "CityChanges", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/itinerary/city-changes"),
	))
	defer span.End()

	l := h.logger.With(slog.String("HandlerImpl", "CityChanges"))

	var req types.CityChangesRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to decode request")
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	changes := h.itineraryService.CityChanges(req.Days)
	span.SetStatus(codes.Ok, "City changes detected")
	api.WriteJSONResponse(w, r, http.StatusOK, changes)
}

func (h *HandlerImpl) writeGenerationError(ctx context.Context, w http.ResponseWriter, r *http.Request, span trace.Span, err error) {
	l := h.logger.With(slog.String("HandlerImpl", "writeGenerationError"))
	l.ErrorContext(ctx, "Itinerary generation failed", slog.Any("error", err))
	span.RecordError(err)
	switch {
	case errors.Is(err, ErrNoDestinations):
		span.SetStatus(codes.Error, "No destinations provided")
		api.ErrorResponse(w, r, http.StatusBadRequest, "At least one destination is required")
	case errors.Is(err, ErrGenerationFailed):
		span.SetStatus(codes.Error, "No quality activities found")
		api.ErrorResponse(w, r, http.StatusUnprocessableEntity, "No quality activities could be found for the selected destinations")
	default:
		span.SetStatus(codes.Error, "Generation failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to generate itinerary")
	}
}
