// Package api exposes the operational HTTP surface: health, metrics,
// and run status.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"partnerscout/internal/progress"
	"partnerscout/internal/scout"
)

// SummaryReporter yields the accounting of the most recent batch.
type SummaryReporter interface {
	LastSummary() progress.Summary
}

// Server serves the operational endpoints.
type Server struct {
	store    scout.SubjectStore
	reporter SummaryReporter
	logger   *zap.Logger
	http     *http.Server
}

// New builds a Server listening on addr.
func New(addr string, store scout.SubjectStore, reporter SummaryReporter, logger *zap.Logger) *Server {
	s := &Server{
		store:    store,
		reporter: reporter,
		logger:   logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", s.handleHealth)
	r.Get("/status", s.handleStatus)
	r.Handle("/metrics", promhttp.Handler())

	s.http = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the route tree, for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("ops server listening", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

type statusResponse struct {
	Pending   int              `json:"pending"`
	LastBatch progress.Summary `json:"last_batch"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	pending, err := s.store.CountPending(r.Context())
	if err != nil {
		s.logger.Error("count pending failed", zap.Error(err))
		http.Error(w, "store unavailable", http.StatusInternalServerError)
		return
	}

	resp := statusResponse{Pending: pending}
	if s.reporter != nil {
		resp.LastBatch = s.reporter.LastSummary()
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
