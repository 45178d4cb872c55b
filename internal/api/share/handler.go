package share

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/tripweaver/tripweaver/internal/api"
	"github.com/tripweaver/tripweaver/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	Share(w http.ResponseWriter, r *http.Request)
	Lookup(w http.ResponseWriter, r *http.Request)
	Revoke(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	shareService Service
	logger       *slog.Logger
}

// NewHandlerImpl creates a new share HandlerImpl instance.
func NewHandlerImpl(shareService Service, logger *slog.Logger) *HandlerImpl {
	if logger == nil {
		panic("PANIC: Attempting to create share HandlerImpl with nil logger!")
	}
	return &HandlerImpl{
		shareService: shareService,
		logger:       logger,
	}
}

func (h *HandlerImpl) Share(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ShareHandlerImpl").Start(r.Context(), "Share", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/itineraries/share"),
	))
	defer span.End()

	l := h.logger.With(slog.String("HandlerImpl", "Share"))

	var itinerary types.Itinerary
	if err := api.DecodeJSONBody(w, r, &itinerary); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to decode request")
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if len(itinerary.Days) == 0 {
		span.SetStatus(codes.Error, "Empty itinerary")
		api.ErrorResponse(w, r, http.StatusBadRequest, "Cannot share an empty itinerary")
		return
	}

	token, err := h.shareService.Share(ctx, &itinerary)
	if err != nil {
		l.ErrorContext(ctx, "Failed to share itinerary", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to share itinerary")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to share itinerary")
		return
	}
	span.SetStatus(codes.Ok, "Itinerary shared")
	api.WriteJSONResponse(w, r, http.StatusCreated, map[string]string{"token": token.String()})
}

func (h *HandlerImpl) Lookup(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ShareHandlerImpl").Start(r.Context(), "Lookup", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/itineraries/share/{token}"),
	))
	defer span.End()

	l := h.logger.With(slog.String("HandlerImpl", "Lookup"))

	token, err := uuid.Parse(chi.URLParam(r, "token"))
	if err != nil {
		l.WarnContext(ctx, "Invalid share token", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid share token")
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid share token")
		return
	}

	itinerary, err := h.shareService.Lookup(ctx, token)
	if errors.Is(err, ErrNotFound) {
		span.SetStatus(codes.Error, "Shared itinerary not found")
		api.ErrorResponse(w, r, http.StatusNotFound, "Shared itinerary not found")
		return
	}
	if err != nil {
		l.ErrorContext(ctx, "Failed to resolve share token", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to resolve share token")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to resolve share token")
		return
	}
	span.SetStatus(codes.Ok, "Itinerary resolved")
	api.WriteJSONResponse(w, r, http.StatusOK, itinerary)
}

func (h *HandlerImpl) Revoke(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ShareHandlerImpl").Start(r.Context(), "Revoke", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/itineraries/share/{token}"),
	))
	defer span.End()

	l := h.logger.With(slog.String("HandlerImpl", "Revoke"))

	token, err := uuid.Parse(chi.URLParam(r, "token"))
	if err != nil {
		l.WarnContext(ctx, "Invalid share token", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid share token")
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid share token")
		return
	}

	err = h.shareService.Revoke(ctx, token)
	if errors.Is(err, ErrNotFound) {
		span.SetStatus(codes.Error, "Shared itinerary not found")
		api.ErrorResponse(w, r, http.StatusNotFound, "Shared itinerary not found")
		return
	}
	if err != nil {
		l.ErrorContext(ctx, "Failed to revoke share token", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to revoke share token")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to revoke share token")
		return
	}
	span.SetStatus(codes.Ok, "Itinerary revoked")
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}
