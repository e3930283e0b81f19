package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordProviderRequest(t *testing.T) {
	before := testutil.ToFloat64(ProviderRequestsTotal.WithLabelValues("test-prov", "success"))

	RecordProviderRequest("test-prov", "success")
	RecordProviderRequest("test-prov", "success")

	after := testutil.ToFloat64(ProviderRequestsTotal.WithLabelValues("test-prov", "success"))
	if after-before != 2 {
		t.Errorf("counter delta = %v, want 2", after-before)
	}
}

func TestRecordProviderDuration(t *testing.T) {
	// Histograms cannot be read back via ToFloat64; just verify the
	// recorder does not panic on a valid observation.
	RecordProviderDuration("test-prov", 150*time.Millisecond)
	RecordFallbackDepth(2)
}

func TestBreakerMetrics_RecordState(t *testing.T) {
	m := NewBreakerMetrics()

	tests := []struct {
		state string
		want  float64
	}{
		{"closed", 0},
		{"half-open", 1},
		{"open", 2},
		{"bogus", -1},
	}

	for _, tt := range tests {
		t.Run(tt.state, func(t *testing.T) {
			m.RecordState("test-breaker", tt.state)
			got := testutil.ToFloat64(CircuitBreakerState.WithLabelValues("test-breaker"))
			if got != tt.want {
				t.Errorf("gauge = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBreakerMetrics_RecordRejection(t *testing.T) {
	m := NewBreakerMetrics()
	before := testutil.ToFloat64(CircuitBreakerRejectionsTotal.WithLabelValues("test-breaker"))

	m.RecordRejection("test-breaker")

	after := testutil.ToFloat64(CircuitBreakerRejectionsTotal.WithLabelValues("test-breaker"))
	if after-before != 1 {
		t.Errorf("counter delta = %v, want 1", after-before)
	}
}
