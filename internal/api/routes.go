package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SetupRoutes configures the router: standard middleware, CORS for the
// mobile/web clients, health check, and the triage API.
func SetupRoutes(h *Handlers, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("X-Server-Identity", "lead-triage-v1.0")
			next.ServeHTTP(w, req)
		})
	})

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", h.HealthCheck)

	r.Route("/api/triage", func(r chi.Router) {
		r.Get("/queue", h.GetTriageQueue)

		r.Route("/filters", func(r chi.Router) {
			r.Get("/", h.GetFilters)
			r.Put("/", h.UpdateFilters)
			r.Delete("/", h.ResetFilters)
			r.Get("/describe", h.DescribeFilters)
		})

		r.Route("/presets", func(r chi.Router) {
			r.Get("/", h.ListPresets)
			r.Post("/", h.CreatePreset)
			r.Post("/{presetId}/load", h.LoadPreset)
			r.Delete("/{presetId}", h.DeletePreset)
		})
	})

	return r
}
