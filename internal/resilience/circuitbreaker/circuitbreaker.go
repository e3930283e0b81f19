package circuitbreaker

import (
	"log/slog"
	"sync"
	"time"

	"github.com/m44rten1/stock-quote-cli/internal/domain/entity"
)

// Config holds configuration for a circuit breaker.
type Config struct {
	// Name identifies the breaker in logs, metrics, and errors.
	// Typically the provider name.
	Name string

	// MaxFailures is the number of consecutive trippable failures required
	// to open the circuit.
	// Default: 3
	MaxFailures int

	// ResetTimeout is the duration to wait in the open state before
	// permitting a half-open probe.
	// Default: 10 seconds
	ResetTimeout time.Duration

	// IsTrippable classifies an operation error as provider trouble (true)
	// or a definitive domain answer (false). Non-trippable failures leave
	// the breaker state untouched.
	// Default: every error is trippable
	IsTrippable func(error) bool

	// Clock provides time abstraction for testing.
	// Default: SystemClock
	Clock Clock

	// Metrics receives state change and rejection observations.
	// Default: NoOpMetrics
	Metrics Metrics
}

// CircuitBreaker gates calls to a single provider through the pure state
// machine in state.go. It owns one state cell for the process lifetime;
// a single mutex serializes every read-modify-write on it, so concurrent
// callers always observe some sequential interleaving of transitions.
type CircuitBreaker struct {
	config Config

	mu    sync.Mutex
	state State
}

// New creates a circuit breaker in the Closed state.
//
// If config.MaxFailures is 0, it defaults to 3.
// If config.ResetTimeout is 0, it defaults to 10 seconds.
// If config.IsTrippable is nil, every error counts as trippable.
// If config.Clock is nil, it defaults to SystemClock.
// If config.Metrics is nil, it defaults to NoOpMetrics.
func New(config Config) *CircuitBreaker {
	if config.MaxFailures <= 0 {
		config.MaxFailures = 3
	}
	if config.ResetTimeout <= 0 {
		config.ResetTimeout = 10 * time.Second
	}
	if config.IsTrippable == nil {
		config.IsTrippable = func(error) bool { return true }
	}
	if config.Clock == nil {
		config.Clock = &SystemClock{}
	}
	if config.Metrics == nil {
		config.Metrics = NewNoOpMetrics()
	}

	cb := &CircuitBreaker{
		config: config,
		state:  Closed{},
	}

	config.Metrics.RecordState(config.Name, cb.state.String())
	return cb
}

// Execute runs the given operation with circuit breaker protection.
//
// The call is first gated against the current state: an open circuit whose
// reset timeout has not elapsed rejects with *entity.CircuitOpenError and
// the operation is never invoked. Otherwise the operation runs; success
// resets the breaker to Closed, a trippable failure advances the failure
// count or re-opens the circuit, and a non-trippable failure leaves the
// state untouched. The operation's own error is always propagated
// unchanged.
func (cb *CircuitBreaker) Execute(operation func() (interface{}, error)) (interface{}, error) {
	now := cb.config.Clock.Now()

	cb.mu.Lock()
	before := cb.state
	decision, next := Gate(cb.state, now, cb.config.ResetTimeout)
	cb.state = next
	cb.mu.Unlock()

	if before != next {
		cb.reportChange(before, next)
	}

	if decision == Reject {
		cb.config.Metrics.RecordRejection(cb.config.Name)
		slog.Debug("circuit breaker rejected call",
			slog.String("breaker", cb.config.Name),
			slog.String("state", before.String()))
		return nil, &entity.CircuitOpenError{Message: cb.config.Name}
	}

	result, err := operation()
	if err == nil {
		cb.apply(func(State, time.Time) State { return NextOnSuccess() })
		return result, nil
	}

	if cb.config.IsTrippable(err) {
		cb.apply(func(s State, now time.Time) State {
			return NextOnFailure(s, now, cb.config.MaxFailures)
		})
	}
	return result, err
}

// State returns a snapshot of the current circuit state.
// Reading it has no side effects.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Name returns the breaker name.
func (cb *CircuitBreaker) Name() string {
	return cb.config.Name
}

// apply performs one atomic read-transform of the state cell and reports
// any resulting state change.
func (cb *CircuitBreaker) apply(next func(State, time.Time) State) {
	now := cb.config.Clock.Now()

	cb.mu.Lock()
	before := cb.state
	cb.state = next(before, now)
	after := cb.state
	cb.mu.Unlock()

	if before != after {
		cb.reportChange(before, after)
	}
}

// reportChange logs and records a state transition.
func (cb *CircuitBreaker) reportChange(before, after State) {
	cb.config.Metrics.RecordState(cb.config.Name, after.String())

	slog.Warn("circuit breaker state changed",
		slog.String("breaker", cb.config.Name),
		slog.String("previous_state", before.String()),
		slog.String("new_state", after.String()),
		slog.Duration("reset_timeout", cb.config.ResetTimeout))
}
