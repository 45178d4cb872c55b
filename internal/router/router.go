package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/tripweaver/tripweaver/internal/api/geo"
	"github.com/tripweaver/tripweaver/internal/api/itinerary"
	"github.com/tripweaver/tripweaver/internal/api/share"
)

// Config contains dependencies needed for the router setup
type Config struct {
	ItineraryHandler *itinerary.HandlerImpl
	ShareHandler     *share.HandlerImpl
	GeoHandler       *geo.HandlerImpl
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (like logger, requestID, recoverer) are expected
// to be applied *before* mounting this router in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/itineraries", func(r chi.Router) {
			r.Post("/generate", cfg.ItineraryHandler.Generate)
			r.Post("/regenerate", cfg.ItineraryHandler.Regenerate)
			r.Post("/assist", cfg.ItineraryHandler.GenerateWithAssistant)
			r.Get("/current", cfg.ItineraryHandler.Current)
			r.Post("/city-changes", cfg.ItineraryHandler.CityChanges)

			if cfg.ShareHandler != nil {
				r.Post("/share", cfg.ShareHandler.Share)
				r.Get("/share/{token}", cfg.ShareHandler.Lookup)
				r.Delete("/share/{token}", cfg.ShareHandler.Revoke)
			}
		})

		r.Post("/destinations/suggest", cfg.GeoHandler.SuggestDestinations)
	})

	return r
}
