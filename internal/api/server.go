// Package api exposes practice sessions over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MikeSquared-Agency/neuropilot/internal/coach"
	"github.com/MikeSquared-Agency/neuropilot/internal/scenario"
)

type Server struct {
	router  *chi.Mux
	http    *http.Server
	coach   *coach.Service
	model   string
	started time.Time
	logger  *slog.Logger
}

// NewServer wires the routes. Session routes require apiToken as a bearer
// token when it is non-empty.
func NewServer(port int, apiToken, model string, svc *coach.Service, logger *slog.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router:  router,
		coach:   svc,
		model:   model,
		started: time.Now(),
		logger:  logger,
	}
	s.http = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	router.Get("/health", s.health)
	router.Route("/api/v1", func(r chi.Router) {
		r.Use(BearerAuthMiddleware(apiToken))
		r.Get("/status", s.status)
		r.Get("/scenarios", s.listScenarios)
		r.Get("/avatars", s.listAvatars)
		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.startSession)
			r.Route("/{id}", func(r chi.Router) {
				r.Post("/turns", s.handleTurn)
				r.Post("/tip", s.tip)
				r.Get("/scores", s.scores)
				r.Delete("/", s.endSession)
			})
		})
	})

	return s
}

func (s *Server) Start() error {
	s.logger.Info("API server starting", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"agent":           "neuropilot",
		"model":           s.model,
		"active_sessions": s.coach.ActiveSessions(),
		"uptime_seconds":  int(time.Since(s.started).Seconds()),
	})
}

func (s *Server) listScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]scenario.Scenario{"scenarios": s.coach.Catalog().Scenarios})
}

func (s *Server) listAvatars(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]scenario.Avatar{"avatars": s.coach.Catalog().Avatars})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
