// Package server exposes the Prometheus metrics and a health probe over
// HTTP while a simulation runs.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/agbru/threadrace/internal/logging"
	"github.com/agbru/threadrace/internal/metrics"
)

const shutdownTimeout = 5 * time.Second

// Server serves /metrics and /healthz.
type Server struct {
	addr     string
	metrics  *metrics.Metrics
	logger   logging.Logger
	security SecurityConfig
	started  time.Time
	http     *http.Server
}

// New builds a server for addr. It does not listen until Start.
func New(addr string, m *metrics.Metrics, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.Nop{}
	}
	s := &Server{
		addr:     addr,
		metrics:  m,
		logger:   logger,
		security: DefaultSecurityConfig(),
		started:  time.Now(),
	}
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", SecurityMiddleware(s.security, s.metricsMiddleware(s.handleMetrics)))
	mux.HandleFunc("/healthz", SecurityMiddleware(s.security, s.metricsMiddleware(s.handleHealth)))
	return mux
}

// Start listens on the configured address and serves until ctx is done.
// The returned channel receives the serve error, if any, and is closed once
// the server has shut down.
func (s *Server) Start(ctx context.Context) (net.Addr, <-chan error, error) {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return nil, nil, err
	}
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.http.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("metrics server shutdown", err)
		}
	}()
	s.logger.Info("metrics server listening", logging.String("addr", ln.Addr().String()))
	return ln.Addr(), errc, nil
}

func (s *Server) metricsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.metrics.IncrementActiveRequests()
		defer s.metrics.DecrementActiveRequests()
		s.metrics.CountRequest(r.URL.Path)
		next(w, r)
	}
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.logger.Debug("rejected metrics request", logging.String("method", r.Method))
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.metrics.WritePrometheus(w, r)
}

type healthResponse struct {
	Status string  `json:"status"`
	Uptime float64 `json:"uptime_seconds"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(healthResponse{
		Status: "ok",
		Uptime: time.Since(s.started).Seconds(),
	})
}
