package watcher

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/m44rten1/stock-quote-cli/internal/resilience/circuitbreaker"
)

// BreakerInspector exposes the current circuit breaker states for the
// health endpoint. *quote.Service satisfies it.
type BreakerInspector interface {
	BreakerStates() map[string]circuitbreaker.State
}

// HealthServer serves the daemon's operational HTTP endpoints:
//   - /health: liveness probe (always 200 OK)
//   - /health/ready: readiness probe (200 if ready, 503 if not)
//   - /health/breakers: current circuit breaker state per provider
//   - /metrics: Prometheus metrics
//
// The server supports graceful shutdown via context cancellation.
type HealthServer struct {
	addr      string
	logger    *slog.Logger
	inspector BreakerInspector
	isReady   atomic.Bool
	server    *http.Server
}

type healthResponse struct {
	Status string `json:"status"`
}

type breakersResponse struct {
	Breakers map[string]string `json:"breakers"`
}

// NewHealthServer creates a health server listening on addr. The inspector
// may be nil, in which case /health/breakers reports 503.
func NewHealthServer(addr string, inspector BreakerInspector, logger *slog.Logger) *HealthServer {
	return &HealthServer{
		addr:      addr,
		logger:    logger,
		inspector: inspector,
	}
}

// Start runs the HTTP server until the context is cancelled. It returns
// http.ErrServerClosed on graceful shutdown.
func (h *HealthServer) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", h.handleLiveness)
	mux.HandleFunc("/health/ready", h.handleReadiness)
	mux.HandleFunc("/health/breakers", h.handleBreakers)
	mux.Handle("/metrics", promhttp.Handler())

	h.server = &http.Server{
		Addr:         h.addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		h.logger.Info("health server starting", slog.String("addr", h.addr))
		if err := h.server.ListenAndServe(); err != nil {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		h.logger.Info("health server shutting down")
		if err := h.server.Shutdown(shutdownCtx); err != nil {
			h.logger.Error("health server shutdown failed", slog.Any("error", err))
			return err
		}
		return http.ErrServerClosed

	case err := <-errChan:
		if err != http.ErrServerClosed {
			h.logger.Error("health server failed", slog.Any("error", err))
		}
		return err
	}
}

// SetReady sets the readiness state reported by /health/ready.
func (h *HealthServer) SetReady(ready bool) {
	h.isReady.Store(ready)
	h.logger.Info("health server readiness changed", slog.Bool("ready", ready))
}

func (h *HealthServer) handleLiveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"}, h.logger)
}

func (h *HealthServer) handleReadiness(w http.ResponseWriter, r *http.Request) {
	if h.isReady.Load() {
		writeJSON(w, http.StatusOK, healthResponse{Status: "ok"}, h.logger)
		return
	}
	writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "not ready"}, h.logger)
}

// handleBreakers reports the current circuit breaker state of every
// provider. An open breaker is operationally interesting but not a
// readiness failure: the fallback chain may still serve quotes.
func (h *HealthServer) handleBreakers(w http.ResponseWriter, r *http.Request) {
	if h.inspector == nil {
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "quote service not initialized"}, h.logger)
		return
	}

	states := h.inspector.BreakerStates()
	resp := breakersResponse{Breakers: make(map[string]string, len(states))}
	for name, state := range states {
		resp.Breakers[name] = state.String()
	}
	writeJSON(w, http.StatusOK, resp, h.logger)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode health response", slog.Any("error", err))
	}
}
