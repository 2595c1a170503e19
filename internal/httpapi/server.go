// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httpapi exposes the admin HTTP surface for benchmark results
// and manual run triggers. The surrounding product normally fronts this
// API with its own gateway; the bearer-token check here is a stand-in.
package httpapi

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/carmarket/seobench/internal/bench"
	"github.com/carmarket/seobench/internal/store"
	"github.com/carmarket/seobench/pkg/types"
)

// Store is the read/update contract the API needs.
type Store interface {
	LatestSnapshot(ctx context.Context, domain string) (*types.Snapshot, error)
	AllLatestSnapshots(ctx context.Context) ([]types.Snapshot, error)
	LatestScores(ctx context.Context, domain string, n int) ([]types.BenchmarkScore, error)
	ListActiveCompetitors(ctx context.Context) ([]types.Competitor, error)
	ListRecommendations(ctx context.Context, f store.RecommendationFilter) ([]types.Recommendation, error)
	UpdateRecommendationStatus(ctx context.Context, id string, status types.RecommendationStatus) error
}

// Trigger is the scheduler contract the API needs.
type Trigger interface {
	RunNow(ctx context.Context, domains []string) (types.RunStatus, error)
	Status(ctx context.Context) (bench.SchedulerStatus, error)
}

// Server routes admin requests onto the store and scheduler.
type Server struct {
	store      Store
	trigger    Trigger
	selfDomain string
	authToken  string
}

// NewServer builds the admin API server.
func NewServer(st Store, trigger Trigger, cfg types.ServerConfig, selfDomain string) *Server {
	return &Server{
		store:      st,
		trigger:    trigger,
		selfDomain: selfDomain,
		authToken:  cfg.AuthToken,
	}
}

// Router assembles the chi route tree under /api/bench.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Route("/api/bench", func(r chi.Router) {
		r.Use(s.auth)
		r.Get("/overview", s.handleOverview)
		r.Get("/competitors", s.handleCompetitors)
		r.Get("/recommendations", s.handleRecommendations)
		r.Post("/recommendations/{id}/status", s.handleRecommendationStatus)
		r.Get("/gaps", s.handleGaps)
		r.Get("/status", s.handleStatus)
		r.Post("/run", s.handleRun)
	})
	return r
}

// auth enforces the bearer token. An empty configured token disables the
// check entirely.
func (s *Server) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.authToken == "" {
			next.ServeHTTP(w, r)
			return
		}
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(s.authToken)) != 1 {
			respondError(w, http.StatusUnauthorized, "missing or invalid bearer token")
			return
		}
		next.ServeHTTP(w, r)
	})
}
