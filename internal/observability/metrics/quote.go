package metrics

import "time"

// RecordProviderRequest records the outcome of a single provider call.
// Outcome is "success" or "failure"; breaker gate rejections are counted
// separately through BreakerMetrics.RecordRejection.
func RecordProviderRequest(provider, outcome string) {
	ProviderRequestsTotal.WithLabelValues(provider, outcome).Inc()
}

// RecordProviderDuration records the time taken by a single provider call.
func RecordProviderDuration(provider string, duration time.Duration) {
	ProviderRequestDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// RecordFallbackDepth records how many providers were attempted before a
// quote request resolved.
func RecordFallbackDepth(attempted int) {
	FallbackDepth.Observe(float64(attempted))
}

// BreakerMetrics adapts the Prometheus registry to the circuit breaker's
// Metrics interface.
type BreakerMetrics struct{}

// NewBreakerMetrics creates a Prometheus-backed breaker metrics recorder.
func NewBreakerMetrics() *BreakerMetrics {
	return &BreakerMetrics{}
}

// RecordState records the current state of the named breaker as a gauge.
func (m *BreakerMetrics) RecordState(breaker, state string) {
	CircuitBreakerState.WithLabelValues(breaker).Set(stateValue(state))
}

// RecordRejection counts a call rejected at the breaker gate.
func (m *BreakerMetrics) RecordRejection(breaker string) {
	CircuitBreakerRejectionsTotal.WithLabelValues(breaker).Inc()
}

// stateValue maps a breaker state name onto a stable gauge value.
func stateValue(state string) float64 {
	switch state {
	case "closed":
		return 0
	case "half-open":
		return 1
	case "open":
		return 2
	default:
		return -1
	}
}
