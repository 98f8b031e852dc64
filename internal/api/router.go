// Package api exposes a preview manager over HTTP for the dev console.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Handler returns the HTTP router with all routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(s.requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	r.Get("/health", s.health)
	r.Handle("/metrics", s.manager.Metrics().Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/state", s.getState)

		r.Route("/batches", func(r chi.Router) {
			r.Post("/", s.proposeBatch)
			r.Route("/{batchID}", func(r chi.Router) {
				r.Post("/apply", s.applyBatch)
				r.Post("/dismiss", s.dismissBatch)
				r.Post("/undo", s.undoBatch)
				r.Post("/redo", s.redoBatch)
				r.Post("/select", s.selectBatch)
				r.Post("/auto-resolve", s.autoResolve)
				r.Post("/apply-failed", s.applyFailed)
				r.Get("/grace", s.graceStatus)
				r.Get("/selection", s.getSelection)
				r.Post("/actions/{actionID}/toggle", s.toggleAction)
			})
		})

		r.Post("/conflicts/{conflictID}/resolve", s.resolveConflict)
	})

	return r
}
