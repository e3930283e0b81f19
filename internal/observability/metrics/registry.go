// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Provider metrics track quote retrieval per provider
var (
	// ProviderRequestsTotal counts quote requests by provider and outcome
	ProviderRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quote_provider_requests_total",
			Help: "Total number of quote requests per provider",
		},
		[]string{"provider", "outcome"},
	)

	// ProviderRequestDuration measures quote request duration in seconds
	ProviderRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "quote_provider_request_duration_seconds",
			Help:    "Quote request duration per provider in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)

	// FallbackDepth measures how many providers were attempted before a
	// request resolved (successfully or not)
	FallbackDepth = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "quote_fallback_depth",
			Help:    "Number of providers attempted per quote request",
			Buckets: []float64{1, 2, 3, 4, 5},
		},
	)
)

// Circuit breaker metrics track the resilience layer
var (
	// CircuitBreakerState reports the current state per breaker
	// (0=closed, 1=half-open, 2=open)
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "quote_circuit_breaker_state",
			Help: "Current circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"breaker"},
	)

	// CircuitBreakerRejectionsTotal counts calls rejected at the breaker gate
	CircuitBreakerRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quote_circuit_breaker_rejections_total",
			Help: "Total number of calls rejected by an open circuit breaker",
		},
		[]string{"breaker"},
	)
)
