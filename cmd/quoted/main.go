// Package main runs the quote daemon: a cron-scheduled watchlist refresher
// with health and Prometheus metrics endpoints.
// Usage: quoted [--config path]
package main

import (
	"context"
	"crypto/tls"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m44rten1/stock-quote-cli/internal/config"
	"github.com/m44rten1/stock-quote-cli/internal/infra/provider"
	"github.com/m44rten1/stock-quote-cli/internal/infra/watcher"
	"github.com/m44rten1/stock-quote-cli/internal/observability/logging"
	"github.com/m44rten1/stock-quote-cli/internal/observability/metrics"
	"github.com/m44rten1/stock-quote-cli/internal/usecase/quote"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to YAML configuration file")
	flag.Parse()

	logger := logging.NewLogger()
	slog.SetDefault(logger)

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	if len(cfg.Watchlist) == 0 {
		logger.Error("no watchlist configured, nothing to do")
		os.Exit(1)
	}
	logger.Info("configuration loaded",
		slog.String("schedule", cfg.Schedule),
		slog.Int("watchlist", len(cfg.Watchlist)),
		slog.Int("providers", len(cfg.Providers)),
		slog.Int("health_port", cfg.HealthPort))

	service, err := buildService(cfg, logger)
	if err != nil {
		logger.Error("failed to build quote service", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	healthAddr := fmt.Sprintf(":%d", cfg.HealthPort)
	healthServer := watcher.NewHealthServer(healthAddr, service, logger)
	go func() {
		if err := healthServer.Start(ctx); err != nil && err != http.ErrServerClosed {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()

	w := watcher.New(service, watcher.Config{
		Schedule:   cfg.Schedule,
		Watchlist:  cfg.Watchlist,
		RunTimeout: runTimeout(cfg),
	}, watcher.NewMetrics(), logger)

	if err := w.Start(); err != nil {
		logger.Error("failed to start watcher", slog.Any("error", err))
		os.Exit(1)
	}
	healthServer.SetReady(true)

	// Refresh immediately so metrics and breaker state are populated
	// before the first scheduled run.
	go w.RunOnce()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	logger.Info("shutdown signal received", slog.String("signal", sig.String()))

	healthServer.SetReady(false)
	w.Stop()
	cancel()
	logger.Info("daemon stopped")
}

// buildService wires the configured provider chain into a quote service
// with Prometheus-backed breaker metrics.
func buildService(cfg *config.AppConfig, logger *slog.Logger) (*quote.Service, error) {
	providers, err := provider.NewFactory(newHTTPClient(cfg)).Build(cfg.Providers)
	if err != nil {
		return nil, fmt.Errorf("build providers: %w", err)
	}

	serviceConfig := quote.DefaultConfig()
	serviceConfig.MaxFailures = cfg.Breaker.MaxFailures
	serviceConfig.ResetTimeout = time.Duration(cfg.Breaker.ResetTimeout)
	serviceConfig.CallTimeout = time.Duration(cfg.CallTimeout)
	serviceConfig.MaxParallel = cfg.MaxParallel
	serviceConfig.BreakerMetrics = metrics.NewBreakerMetrics()

	return quote.NewService(providers, serviceConfig, logger), nil
}

// newHTTPClient creates the shared HTTP client for all providers with
// connection pooling and TLS 1.2+ enforced.
func newHTTPClient(cfg *config.AppConfig) *http.Client {
	return &http.Client{
		Timeout: 2 * time.Duration(cfg.CallTimeout),
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
	}
}

// runTimeout bounds a watchlist refresh: every symbol may walk the full
// provider chain, each call bounded by the call timeout.
func runTimeout(cfg *config.AppConfig) time.Duration {
	perSymbol := time.Duration(cfg.CallTimeout) * time.Duration(len(cfg.Providers))
	total := perSymbol * time.Duration((len(cfg.Watchlist)+cfg.MaxParallel-1)/cfg.MaxParallel)
	if total < time.Minute {
		return time.Minute
	}
	return total
}
