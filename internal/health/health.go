// Package health provides the HTTP health and metrics endpoints.
//
// Docker and Kubernetes use /healthz for liveness and /readyz for
// readiness. /readyz additionally runs the registered dependency checks
// (response cache, provider credentials). /metrics serves Prometheus
// metrics.
package health

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nadzzz/devicely/internal/metrics"
)

const checkTimeout = 2 * time.Second

// Check reports whether a dependency is usable.
type Check func(ctx context.Context) error

// Server is a lightweight HTTP server that exposes /healthz, /readyz and /metrics.
type Server struct {
	port   int
	ready  atomic.Bool
	server *http.Server

	mu     sync.RWMutex
	checks map[string]Check
}

// New creates a new health check server.
func New(port int) *Server {
	return &Server{port: port, checks: make(map[string]Check)}
}

// SetReady marks the daemon as ready to accept traffic.
func (s *Server) SetReady(ready bool) {
	s.ready.Store(ready)
}

// AddCheck registers a readiness check under name.
func (s *Server) AddCheck(name string, c Check) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checks[name] = c
}

// ListenAndServe starts the health check HTTP server.
// It blocks until the context is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	slog.Info("health server listening", "port", s.port)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	if err := s.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("health server: %w", err)
	}
	return nil
}

// Handler returns the health routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		if !s.ready.Load() {
			writeStatus(w, http.StatusServiceUnavailable, map[string]any{"status": "not_ready"})
			return
		}
		writeStatus(w, http.StatusOK, map[string]any{"status": "ok"})
	})

	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if !s.ready.Load() {
			writeStatus(w, http.StatusServiceUnavailable, map[string]any{"status": "not_ready"})
			return
		}
		failed := s.runChecks(r.Context())
		if len(failed) > 0 {
			writeStatus(w, http.StatusServiceUnavailable, map[string]any{"status": "degraded", "checks": failed})
			return
		}
		writeStatus(w, http.StatusOK, map[string]any{"status": "ok"})
	})

	mux.Handle("GET /metrics", metrics.Handler())

	return mux
}

// runChecks returns the error text of each failing check, keyed by name.
func (s *Server) runChecks(ctx context.Context) map[string]string {
	s.mu.RLock()
	checks := make(map[string]Check, len(s.checks))
	for k, v := range s.checks {
		checks[k] = v
	}
	s.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	failed := make(map[string]string)
	for name, check := range checks {
		if err := check(ctx); err != nil {
			slog.Warn("readiness check failed", "check", name, "error", err)
			failed[name] = err.Error()
		}
	}
	return failed
}

func writeStatus(w http.ResponseWriter, status int, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
