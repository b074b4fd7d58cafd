// Package breaker implements the per-identifier circuit breaker of §4.3:
// a process-lifetime, unpersisted gate that suppresses probing for an
// endpoint after repeated failures. The Map is owned exclusively by the
// selector orchestrator during a selection run and is mutated without
// locking (§5) — callers must not share a Map across concurrent runs.
package breaker

import (
	"time"

	"github.com/veilrelay/autoselect/internal/check"
)

// State is one of the three circuit-breaker states of §3/§4.3.
type State uint8

const (
	Closed State = iota
	Open
	HalfOpen
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case HalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

// Transition validates s -> to against the state diagram of §4.3 and
// returns the resulting state. An invalid transition is a programmer
// error and trips the debug-only assertion in internal/check.
func (s State) Transition(to State) State {
	ok := false
	switch s {
	case Closed:
		ok = to == Closed || to == Open
	case Open:
		ok = to == Open || to == HalfOpen
	case HalfOpen:
		ok = to == Closed || to == Open
	}
	check.Assertf(ok, "breaker transition: %s -> %s", s, to)
	if !ok {
		return s
	}
	return to
}

// Breaker is the per-identifier state of §3: current State, the
// timestamp of the last observed failure, and the count of consecutive
// failures since the last success. The zero value is the correct
// initial state (Closed, zero failures) per §3.
type Breaker struct {
	State               State
	LastFailureTime     time.Time
	ConsecutiveFailures int
}

// Map is the process-wide breaker table keyed by identifier (§3, §9).
// Not safe for concurrent use — the orchestrator is its sole owner.
type Map map[string]*Breaker

// NewMap returns an empty breaker table.
func NewMap() Map {
	return make(Map)
}

// Get returns the breaker for id, creating a CLOSED/zero-failure entry on
// first observation (§3 "Initial state on first observation is CLOSED").
func (m Map) Get(id string) *Breaker {
	b, ok := m[id]
	if !ok {
		b = &Breaker{State: Closed}
		m[id] = b
	}
	return b
}

// Admit reports whether a probe should run for id right now, and advances
// the breaker's OPEN -> HALF_OPEN transition as a side effect when the
// OPEN window (openWindow) has elapsed (§4.3).
//
// CLOSED: always admits.
// OPEN: skipped until openWindow has elapsed since LastFailureTime, at
// which point the next call transitions to HALF_OPEN (stamp unchanged)
// and is itself still skipped.
// HALF_OPEN: skipped until halfOpenGap has elapsed since the stamp, then
// exactly one probe is admitted.
func (m Map) Admit(id string, now time.Time, openWindow, halfOpenGap time.Duration) bool {
	b := m.Get(id)
	switch b.State {
	case Closed:
		return true
	case Open:
		if now.Sub(b.LastFailureTime) >= openWindow {
			b.State = b.State.Transition(HalfOpen)
		}
		return false
	case HalfOpen:
		return now.Sub(b.LastFailureTime) >= halfOpenGap
	default:
		return false
	}
}

// OnResult records the outcome of an admitted probe for id, advancing the
// breaker per §4.3: three consecutive failures in CLOSED trips OPEN; any
// success resets the failure counter; a HALF_OPEN probe's outcome decides
// CLOSED (success) or OPEN (failure, stamp refreshed).
func (m Map) OnResult(id string, success bool, now time.Time, failureThreshold int) {
	b := m.Get(id)

	if success {
		switch b.State {
		case HalfOpen:
			b.State = b.State.Transition(Closed)
		case Closed:
			// stays Closed
		case Open:
			// a result should never be recorded while OPEN (Admit gates it),
			// but treat it like a successful half-open probe defensively.
			b.State = b.State.Transition(HalfOpen).Transition(Closed)
		}
		b.ConsecutiveFailures = 0
		return
	}

	switch b.State {
	case Closed:
		b.ConsecutiveFailures++
		if b.ConsecutiveFailures >= failureThreshold {
			b.State = b.State.Transition(Open)
			b.LastFailureTime = now
		}
	case HalfOpen:
		b.State = b.State.Transition(Open)
		b.LastFailureTime = now
	case Open:
		b.LastFailureTime = now
	}
}

// IsOpen reports whether id's breaker is currently OPEN, used by the
// cached-selection path to exclude candidates without running Admit's
// side-effecting OPEN -> HALF_OPEN clock check (§4.3 "also affects the
// cached (non-probing) path").
func (m Map) IsOpen(id string) bool {
	b, ok := m[id]
	return ok && b.State == Open
}
