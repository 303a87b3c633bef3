// internal/server/server.go

// Package server exposes the generation pipeline and plan persistence over
// HTTP.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"workout-service/internal/common/config"
	"workout-service/internal/common/database"
	"workout-service/internal/common/logger"
	"workout-service/internal/generator"
	"workout-service/internal/planstore"
	"workout-service/internal/storage"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	orchestrator *generator.Orchestrator
	db           *storage.DB
	planStore    *planstore.Store
	redis        *database.RedisClient
	cfg          *config.Config
	log          logger.Logger
	router       chi.Router
}

// New creates a Server with all routes configured.
func New(orchestrator *generator.Orchestrator, db *storage.DB, planStore *planstore.Store, redis *database.RedisClient, cfg *config.Config, log logger.Logger) *Server {
	s := &Server{
		orchestrator: orchestrator,
		db:           db,
		planStore:    planStore,
		redis:        redis,
		cfg:          cfg,
		log:          log,
		router:       chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api/v1", func(r chi.Router) {
		// Generation endpoints sit behind the per-client request window.
		r.Group(func(r chi.Router) {
			r.Use(RateLimit(s.redis, s.cfg.RateLimit, s.log))
			r.Post("/workouts/generate", s.handleGenerate)
			r.Post("/workouts/regenerate", s.handleRegenerate)
		})

		r.Get("/plans", s.handleListPlans)
		r.Get("/plans/{id}", s.handleGetPlan)
		r.Delete("/plans/{id}", s.handleDeletePlan)

		r.Put("/plans/{id}/favorite", s.handleAddFavorite)
		r.Delete("/plans/{id}/favorite", s.handleRemoveFavorite)
		r.Get("/favorites", s.handleListFavorites)

		r.Post("/history", s.handleRecordHistory)
		r.Get("/history", s.handleListHistory)

		r.Get("/current-plan", s.handleLoadCurrentPlan)
		r.Post("/current-plan", s.handleSaveCurrentPlan)
		r.Delete("/current-plan", s.handleClearCurrentPlan)

		r.Get("/errors", s.handleRecentErrors)
	})
}
