package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/croptrack/internal/logfields"
	"git.home.luguber.info/inful/croptrack/internal/metrics"
)

// StatusServer exposes summaries, health and Prometheus metrics over HTTP.
type StatusServer struct {
	server *http.Server
}

// NewStatusServer builds the status server. registry may be nil when
// metrics are disabled; the /metrics endpoint is then omitted.
func NewStatusServer(addr string, guard *Guard, registry *prom.Registry) *StatusServer {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("GET /api/v1/summaries", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(guard.Report()); err != nil {
			slog.Error("encode summaries response", logfields.Error(err))
		}
	})

	if registry != nil {
		mux.Handle("GET /metrics", metrics.HTTPHandler(registry))
	}

	return &StatusServer{
		server: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Start serves until Stop is called. It returns on listen failure.
func (s *StatusServer) Start() error {
	slog.Info("Starting status server", slog.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop shuts the server down gracefully.
func (s *StatusServer) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
