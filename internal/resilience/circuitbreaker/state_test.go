package circuitbreaker

import (
	"testing"
	"time"
)

var base = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestGate_ClosedAlwaysAllows(t *testing.T) {
	tests := []struct {
		name  string
		state State
	}{
		{"closed zero failures", Closed{}},
		{"closed some failures", Closed{Failures: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision, next := Gate(tt.state, base, 10*time.Second)
			if decision != Allow {
				t.Errorf("Gate() decision = %v, want Allow", decision)
			}
			if next != tt.state {
				t.Errorf("Gate() next = %v, want unchanged %v", next, tt.state)
			}
		})
	}
}

func TestGate_HalfOpenAllows(t *testing.T) {
	decision, next := Gate(HalfOpen{}, base, 10*time.Second)
	if decision != Allow {
		t.Errorf("Gate() decision = %v, want Allow", decision)
	}
	if next != (HalfOpen{}) {
		t.Errorf("Gate() next = %v, want HalfOpen", next)
	}
}

func TestGate_OpenRespectsResetTimeout(t *testing.T) {
	openedAt := time.UnixMilli(1000)
	resetTimeout := 10 * time.Second

	tests := []struct {
		name         string
		now          time.Time
		wantDecision Decision
		wantState    State
	}{
		{"before timeout", time.UnixMilli(10500), Reject, Open{OpenedAt: openedAt}},
		{"just before timeout", time.UnixMilli(10999), Reject, Open{OpenedAt: openedAt}},
		{"exactly at timeout", time.UnixMilli(11000), Allow, HalfOpen{}},
		{"after timeout", time.UnixMilli(20000), Allow, HalfOpen{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision, next := Gate(Open{OpenedAt: openedAt}, tt.now, resetTimeout)
			if decision != tt.wantDecision {
				t.Errorf("Gate() decision = %v, want %v", decision, tt.wantDecision)
			}
			if next != tt.wantState {
				t.Errorf("Gate() next = %v, want %v", next, tt.wantState)
			}
		})
	}
}

func TestNextOnSuccess_AlwaysResets(t *testing.T) {
	if got := NextOnSuccess(); got != (Closed{}) {
		t.Errorf("NextOnSuccess() = %v, want Closed{0}", got)
	}
}

func TestNextOnFailure(t *testing.T) {
	tests := []struct {
		name        string
		state       State
		maxFailures int
		want        State
	}{
		{"closed below threshold", Closed{Failures: 1}, 3, Closed{Failures: 2}},
		{"closed reaches threshold", Closed{Failures: 2}, 3, Open{OpenedAt: base}},
		{"threshold of one trips immediately", Closed{}, 1, Open{OpenedAt: base}},
		{"half-open probe failure re-opens", HalfOpen{}, 3, Open{OpenedAt: base}},
		{"half-open probe failure re-opens regardless of max", HalfOpen{}, 100, Open{OpenedAt: base}},
		{"open stays open", Open{OpenedAt: base.Add(-time.Minute)}, 3, Open{OpenedAt: base.Add(-time.Minute)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextOnFailure(tt.state, base, tt.maxFailures); got != tt.want {
				t.Errorf("NextOnFailure(%v, now, %d) = %v, want %v", tt.state, tt.maxFailures, got, tt.want)
			}
		})
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{Closed{}, "closed"},
		{Closed{Failures: 2}, "closed"},
		{Open{OpenedAt: base}, "open"},
		{HalfOpen{}, "half-open"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("%T.String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestDecision_String(t *testing.T) {
	if Allow.String() != "allow" {
		t.Errorf("Allow.String() = %q", Allow.String())
	}
	if Reject.String() != "reject" {
		t.Errorf("Reject.String() = %q", Reject.String())
	}
	if Decision(99).String() != "unknown" {
		t.Errorf("Decision(99).String() = %q", Decision(99).String())
	}
}
