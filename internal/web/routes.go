package web

import (
	"github.com/go-chi/chi/v5"
	"github.com/kozaktomas/face-attendance/internal/engine"
	"github.com/kozaktomas/face-attendance/internal/store"
	"github.com/kozaktomas/face-attendance/internal/web/handlers"
	"github.com/kozaktomas/face-attendance/internal/web/middleware"
)

func (s *Server) setupRoutes(eng *engine.Engine, st store.Store) {
	sessionHandler := handlers.NewSessionHandler(eng)
	observationsHandler := handlers.NewObservationsHandler(eng, st)
	eventsHandler := handlers.NewEventsHandler(eng)
	studentsHandler := handlers.NewStudentsHandler(st)

	// Health check (no auth required)
	s.router.Get("/api/v1/health", handlers.HealthCheck)

	// API routes
	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.CORS())
		r.Use(middleware.RequireToken(s.config.Web.APIToken))

		// Session lifecycle + monitoring
		r.Post("/session/start", sessionHandler.Start)
		r.Post("/session/end", sessionHandler.End)
		r.Get("/session", sessionHandler.Info)
		r.Get("/people/{id}", sessionHandler.PersonState)

		// Recognition feed
		r.Post("/observations", observationsHandler.Ingest)

		// Event stream
		r.Get("/events", eventsHandler.Stream)

		// Roster
		r.Get("/students", studentsHandler.List)
		r.Post("/students", studentsHandler.Create)
		r.Get("/students/{id}", studentsHandler.Get)
		r.Delete("/students/{id}", studentsHandler.Delete)
	})
}
