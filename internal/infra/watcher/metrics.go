package watcher

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides Prometheus metrics for the watchlist refresh loop.
//
// Metrics:
//   - watcher_refresh_runs_total: Total refresh runs by status (success/partial/failure)
//   - watcher_refresh_duration_seconds: Duration histogram of refresh runs
//   - watcher_symbols_refreshed_total: Total symbols successfully refreshed
//   - watcher_last_success_timestamp: Unix timestamp of last fully successful run
type Metrics struct {
	// RefreshRunsTotal counts refresh runs. A run is "partial" when some
	// symbols succeeded and some failed.
	RefreshRunsTotal *prometheus.CounterVec

	// RefreshDurationSeconds measures how long a full watchlist refresh takes.
	RefreshDurationSeconds prometheus.Histogram

	// SymbolsRefreshedTotal counts symbols that produced a quote.
	SymbolsRefreshedTotal prometheus.Counter

	// LastSuccessTimestamp records when the watchlist last refreshed without
	// any symbol failing.
	LastSuccessTimestamp prometheus.Gauge
}

// NewMetrics creates and registers the watcher metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	return &Metrics{
		RefreshRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "watcher_refresh_runs_total",
			Help: "Total number of watchlist refresh runs by status (success/partial/failure)",
		}, []string{"status"}),

		RefreshDurationSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "watcher_refresh_duration_seconds",
			Help:    "Duration of watchlist refresh runs in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60},
		}),

		SymbolsRefreshedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "watcher_symbols_refreshed_total",
			Help: "Total number of symbols successfully refreshed",
		}),

		LastSuccessTimestamp: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "watcher_last_success_timestamp",
			Help: "Unix timestamp of the last fully successful watchlist refresh",
		}),
	}
}

// RecordRun records the outcome of one refresh run.
func (m *Metrics) RecordRun(status string, duration time.Duration) {
	m.RefreshRunsTotal.WithLabelValues(status).Inc()
	m.RefreshDurationSeconds.Observe(duration.Seconds())
}

// RecordSymbols adds the number of symbols that produced a quote.
func (m *Metrics) RecordSymbols(count int) {
	m.SymbolsRefreshedTotal.Add(float64(count))
}

// RecordLastSuccess marks the current time as the last clean refresh.
func (m *Metrics) RecordLastSuccess() {
	m.LastSuccessTimestamp.SetToCurrentTime()
}
