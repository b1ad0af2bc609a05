// Package api is the HTTP surface: analyze submissions, review actions and
// batch queries.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/northbeam-labs/scribe/internal/analysis"
	"github.com/northbeam-labs/scribe/internal/review"
)

// Analyzer runs the combined extraction + commitment pass.
type Analyzer interface {
	Analyze(text string) analysis.Analysis
	Respond(an analysis.Analysis) string
}

// Reviewer is the commit lifecycle service.
type Reviewer interface {
	Stage(ctx context.Context, userID uuid.UUID, text string, an analysis.Analysis) (*review.Batch, []review.Commit, error)
	SetStatus(ctx context.Context, commitID uuid.UUID, to review.Status, notes, message string) (*review.Commit, error)
	ProcessApproved(ctx context.Context, userID uuid.UUID, commitIDs []uuid.UUID) []review.ProcessResult
}

// BatchReader serves the read side of the review queue.
type BatchReader interface {
	GetBatch(ctx context.Context, id uuid.UUID) (*review.Batch, error)
	ListBatchCommits(ctx context.Context, batchID uuid.UUID) ([]review.Commit, error)
	ListUserBatches(ctx context.Context, userID uuid.UUID, limit int) ([]review.Batch, error)
}

type Server struct {
	router   *chi.Mux
	port     int
	analyzer Analyzer
	reviewer Reviewer
	batches  BatchReader
	logger   *slog.Logger
}

func NewServer(port int, apiToken string, analyzer Analyzer, reviewer Reviewer, batches BatchReader, logger *slog.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router:   router,
		port:     port,
		analyzer: analyzer,
		reviewer: reviewer,
		batches:  batches,
		logger:   logger,
	}

	router.Get("/health", s.health)

	router.Route("/api/v1", func(r chi.Router) {
		if apiToken != "" {
			r.Use(requireToken(apiToken))
		}
		r.Get("/scribe/status", s.status)
		r.Post("/analyze", s.analyze)
		r.Get("/batches/{batchID}", s.getBatch)
		r.Get("/users/{userID}/batches", s.listBatches)
		r.Post("/commits/{commitID}/status", s.setCommitStatus)
		r.Post("/commits/process", s.processCommits)
	})

	return s
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("API server starting", "addr", addr)
	return http.ListenAndServe(addr, s.router)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "scribe",
		"status":  "ready",
	})
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// requireToken is a bearer-token gate for the API routes. No token
// configured means the gate is not installed at all.
func requireToken(token string) func(http.Handler) http.Handler {
	expect := "Bearer " + token
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != expect {
				writeError(w, http.StatusUnauthorized, "invalid or missing token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
