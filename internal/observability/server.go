package observability

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthChecker reports whether the analysis pipeline is serviceable.
type HealthChecker interface {
	Check(ctx context.Context) HealthStatus
}

type HealthStatus struct {
	Status   string `json:"status"`
	LastScan string `json:"last_scan,omitempty"`
	Detail   string `json:"detail,omitempty"`
}

type Server struct {
	addr    string
	checker HealthChecker
	server  *http.Server
}

func NewServer(addr string, checker HealthChecker) *Server {
	return &Server{
		addr:    addr,
		checker: checker,
	}
}

func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()

	// Prometheus metrics
	mux.Handle("/metrics", promhttp.Handler())

	// Health check
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		status := HealthStatus{Status: "up"}
		if s.checker != nil {
			status = s.checker.Check(r.Context())
		}
		w.Header().Set("Content-Type", "application/json")
		if status.Status != "up" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(status)
	})

	s.server = &http.Server{
		Addr:    s.addr,
		Handler: mux,
	}

	slog.Info("observability server starting", "addr", s.addr)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("observability server failed", "error", err)
		}
	}()

	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
