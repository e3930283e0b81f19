package circuitbreaker

// Metrics receives circuit breaker state change notifications.
// Implementations must be safe for concurrent use.
type Metrics interface {
	// RecordState records the current state of the named breaker.
	RecordState(breaker, state string)

	// RecordRejection records a call rejected at the gate of the named breaker.
	RecordRejection(breaker string)
}

// NoOpMetrics is a Metrics implementation that discards all observations.
// It is the default when no metrics backend is configured.
type NoOpMetrics struct{}

// NewNoOpMetrics creates a new no-op metrics recorder.
func NewNoOpMetrics() *NoOpMetrics {
	return &NoOpMetrics{}
}

// RecordState does nothing.
func (m *NoOpMetrics) RecordState(breaker, state string) {}

// RecordRejection does nothing.
func (m *NoOpMetrics) RecordRejection(breaker string) {}
