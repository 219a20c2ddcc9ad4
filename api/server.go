/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for tooling

ROUTE GROUPS:
  /api/schedules/*   Schedule evaluation
  /api/exercises/*   Exercise validation
  /api/calendars/*   Market calendar management
  /api/conventions   Supported conventions

SECURITY NOTE:
  No authentication middleware. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/schedules", func(r chi.Router) {
			r.Post("/preview", h.PreviewSchedule)
		})

		r.Route("/exercises", func(r chi.Router) {
			r.Post("/validate", h.ValidateExercise)
		})

		r.Route("/calendars", func(r chi.Router) {
			r.Get("/", h.ListCalendars)
			r.Post("/", h.CreateCalendar)
			r.Get("/{name}/holidays", h.ListHolidays)
			r.Post("/{name}/holidays", h.CreateHoliday)
		})

		r.Route("/holidays", func(r chi.Router) {
			r.Delete("/{id}", h.DeleteHoliday)
		})

		r.Get("/conventions", h.ListConventions)
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Exercise Engine</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Option Exercise Engine API</h1>
<ul>
<li>POST /api/schedules/preview - Evaluate an exercise + rebate definition</li>
<li>POST /api/exercises/validate - Validate an exercise definition</li>
<li><a href="/api/calendars">/api/calendars</a> - List market calendars</li>
<li><a href="/api/conventions">/api/conventions</a> - Supported conventions</li>
</ul>
</body>
</html>`))
	})

	return r
}
