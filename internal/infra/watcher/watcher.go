// Package watcher implements the quote daemon's periodic watchlist
// refresh: a cron-scheduled job that fetches every watched symbol through
// the fallback chain and records the outcome in Prometheus metrics. It
// also hosts the daemon's health and metrics HTTP endpoints.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/m44rten1/stock-quote-cli/internal/usecase/quote"
)

// QuoteFetcher is the slice of the quote service the watcher needs.
type QuoteFetcher interface {
	GetQuotes(ctx context.Context, symbols []string) *quote.BatchResult
}

// Config holds the watcher configuration.
type Config struct {
	// Schedule is the cron expression for refresh runs.
	Schedule string

	// Watchlist is the set of symbols to refresh each run.
	Watchlist []string

	// RunTimeout bounds a single refresh run. Default: 1 minute.
	RunTimeout time.Duration
}

// Watcher periodically refreshes a watchlist of symbols.
type Watcher struct {
	fetcher QuoteFetcher
	config  Config
	metrics *Metrics
	logger  *slog.Logger
	cron    *cron.Cron
}

// New creates a watcher. The metrics may be nil when the caller does not
// export Prometheus metrics.
func New(fetcher QuoteFetcher, config Config, metrics *Metrics, logger *slog.Logger) *Watcher {
	if config.RunTimeout <= 0 {
		config.RunTimeout = time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		fetcher: fetcher,
		config:  config,
		metrics: metrics,
		logger:  logger,
	}
}

// Start schedules the refresh job and starts the cron loop. It returns an
// error if the schedule expression is invalid.
func (w *Watcher) Start() error {
	if len(w.config.Watchlist) == 0 {
		return fmt.Errorf("watchlist is empty")
	}

	c := cron.New()
	if _, err := c.AddFunc(w.config.Schedule, w.RunOnce); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", w.config.Schedule, err)
	}
	c.Start()
	w.cron = c

	w.logger.Info("watcher started",
		slog.String("schedule", w.config.Schedule),
		slog.Int("symbols", len(w.config.Watchlist)))
	return nil
}

// Stop stops the cron scheduler and waits for a running job to finish.
func (w *Watcher) Stop() {
	if w.cron == nil {
		return
	}
	<-w.cron.Stop().Done()
	w.logger.Info("watcher stopped")
}

// RunOnce executes a single watchlist refresh. Each run carries a unique
// ID so that its log lines can be correlated.
func (w *Watcher) RunOnce() {
	runID := uuid.New().String()
	logger := w.logger.With(slog.String("run_id", runID))

	start := time.Now()
	logger.Info("watchlist refresh started",
		slog.Int("symbols", len(w.config.Watchlist)))

	ctx, cancel := context.WithTimeout(context.Background(), w.config.RunTimeout)
	defer cancel()

	result := w.fetcher.GetQuotes(ctx, w.config.Watchlist)
	duration := time.Since(start)

	for _, q := range result.Quotes {
		logger.Debug("quote refreshed",
			slog.String("symbol", q.Symbol),
			slog.Float64("price", q.Price),
			slog.String("provider", q.Provider))
	}
	for symbol, err := range result.Errors {
		logger.Warn("symbol refresh failed",
			slog.String("symbol", symbol),
			slog.Any("error", err))
	}

	status := runStatus(len(result.Quotes), len(result.Errors))
	if w.metrics != nil {
		w.metrics.RecordRun(status, duration)
		w.metrics.RecordSymbols(len(result.Quotes))
		if status == "success" {
			w.metrics.RecordLastSuccess()
		}
	}

	logger.Info("watchlist refresh completed",
		slog.String("status", status),
		slog.Int("refreshed", len(result.Quotes)),
		slog.Int("failed", len(result.Errors)),
		slog.Duration("duration", duration))
}

// runStatus classifies a refresh run by its per-symbol outcomes.
func runStatus(succeeded, failed int) string {
	switch {
	case failed == 0:
		return "success"
	case succeeded == 0:
		return "failure"
	default:
		return "partial"
	}
}
