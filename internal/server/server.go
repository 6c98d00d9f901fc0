// Package server exposes the column and catalog checks as a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"github.com/alexiusacademia/gocol/internal/batch"
	"github.com/alexiusacademia/gocol/internal/store"
)

// Options configure a Server. Zero values fall back to sensible defaults.
type Options struct {
	Store       *store.Store // nil disables run history
	Logger      *slog.Logger
	Policy      batch.Policy
	Workers     int
	YieldStress float64 // default fy when a request omits it
	RateLimit   float64 // requests per second per client
	Burst       int
	MaxUpload   int64 // bytes
}

// Server serves the API.
type Server struct {
	opts   Options
	log    *slog.Logger
	router *mux.Router
}

// New builds a server and its routes.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5
	}
	if opts.Burst <= 0 {
		opts.Burst = 10
	}
	if opts.MaxUpload <= 0 {
		opts.MaxUpload = 10 << 20
	}

	s := &Server{opts: opts, log: opts.Logger, router: mux.NewRouter()}

	limiter := NewIPRateLimiter(rate.Limit(opts.RateLimit), opts.Burst)
	api := s.router.PathPrefix("/api").Subrouter()
	api.Use(s.logRequests, limiter.LimitMiddleware)

	api.HandleFunc("/health", s.health).Methods(http.MethodGet)
	api.HandleFunc("/load/factored", s.factoredLoad).Methods(http.MethodPost)
	api.HandleFunc("/column/check", s.checkColumn).Methods(http.MethodPost)
	api.HandleFunc("/catalog/evaluate", s.evaluateCatalog).Methods(http.MethodPost)
	api.HandleFunc("/runs", s.listRuns).Methods(http.MethodGet)
	api.HandleFunc("/runs/{id:[0-9]+}", s.getRun).Methods(http.MethodGet)

	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.log.Info("server stopped")
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}
