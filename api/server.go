/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the portal frontends

ROUTE GROUPS:
  /api/reminders/*   Reminder listing, transitions, generation
  /api/scenarios/*   Demo scenario loaders
  /api/reset         Database reset (dev only)
  /api/health        Liveness probe
*/
package api

import (
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
		r.Route("/reminders", func(r chi.Router) {
			r.Get("/", h.ListReminders)
			r.Post("/generate", h.GenerateReminders)
			r.Get("/{id}", h.GetReminder)
			r.Get("/{id}/actions", h.ListActions)
			r.Post("/{id}/done", h.MarkDone)
			r.Post("/{id}/dismiss", h.Dismiss)
			r.Post("/{id}/snooze", h.Snooze)
		})

		r.Post("/scenarios/{name}", h.LoadScenario)
		r.Post("/reset", h.Reset)
		r.Get("/health", h.Health)
	})

	return r
}
