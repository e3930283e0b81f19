// Package circuitbreaker implements the circuit breaker pattern for
// external quote provider calls. The transition logic is a set of pure
// functions over a sealed State type; CircuitBreaker wraps one mutable
// state cell around them and serializes access.
package circuitbreaker

import "time"

// State is the sealed set of circuit states. Exactly three variants exist:
// Closed, Open, and HalfOpen. The unexported marker method keeps the set
// closed so transition switches stay exhaustive.
type State interface {
	// String returns the state name for logging and metrics.
	String() string

	isState()
}

// Closed is the normal operating state. Failures counts consecutive
// trippable failures observed while closed; it resets to zero on success.
type Closed struct {
	Failures int
}

// Open rejects all calls until the reset timeout has elapsed since OpenedAt.
type Open struct {
	OpenedAt time.Time
}

// HalfOpen is the transitional state in which probe calls are permitted to
// test whether the provider has recovered.
type HalfOpen struct{}

func (Closed) String() string   { return "closed" }
func (Open) String() string     { return "open" }
func (HalfOpen) String() string { return "half-open" }

func (Closed) isState()   {}
func (Open) isState()     {}
func (HalfOpen) isState() {}

// Decision is the outcome of gating a call against the current state.
type Decision int

const (
	// Allow lets the call proceed to the underlying operation.
	Allow Decision = iota

	// Reject fails the call immediately without invoking the operation.
	Reject
)

// String returns a string representation of the decision.
func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case Reject:
		return "reject"
	default:
		return "unknown"
	}
}

// Gate decides whether a call may proceed given the current state and time.
// Closed and HalfOpen always allow. Open allows once the reset timeout has
// elapsed, transitioning to HalfOpen; before that it rejects unchanged.
func Gate(s State, now time.Time, resetTimeout time.Duration) (Decision, State) {
	switch st := s.(type) {
	case Closed:
		return Allow, st
	case HalfOpen:
		return Allow, st
	case Open:
		if now.Sub(st.OpenedAt) >= resetTimeout {
			return Allow, HalfOpen{}
		}
		return Reject, st
	default:
		// Unreachable: State is sealed.
		return Allow, s
	}
}

// NextOnSuccess returns the state after a successful call: Closed with a
// zero failure count, regardless of the prior state.
func NextOnSuccess() State {
	return Closed{}
}

// NextOnFailure returns the state after a trippable failure. A failed
// half-open probe re-opens the circuit immediately. In the closed state the
// failure count rises until it reaches maxFailures, at which point the
// circuit opens. An already-open circuit is left unchanged.
func NextOnFailure(s State, now time.Time, maxFailures int) State {
	switch st := s.(type) {
	case HalfOpen:
		return Open{OpenedAt: now}
	case Closed:
		if st.Failures+1 >= maxFailures {
			return Open{OpenedAt: now}
		}
		return Closed{Failures: st.Failures + 1}
	case Open:
		return st
	default:
		// Unreachable: State is sealed.
		return s
	}
}
