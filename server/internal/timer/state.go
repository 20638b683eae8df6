// Package timer implements the latency probe stopwatches. Each
// (statement, condition) pair has its own State; a Registry enforces that
// only one of them accumulates time at once.
package timer

import (
	"math"
	"time"

	"fhfa-go/server/internal/models"
)

// Phase is the lifecycle position of a single stopwatch.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseRunning Phase = "running"
	PhasePaused  Phase = "paused"
)

// Key identifies one stopwatch.
type Key struct {
	StatementID string           `json:"statementId"`
	Condition   models.Condition `json:"condition"`
}

// State is an immutable stopwatch value. Transitions return a new State.
type State struct {
	Key         Key           `json:"key"`
	Accumulated time.Duration `json:"accumulated"`
	Phase       Phase         `json:"phase"`
}

func newState(k Key) State {
	return State{Key: k, Phase: PhaseIdle}
}

// Running reports whether the stopwatch is accumulating.
func (s State) Running() bool {
	return s.Phase == PhaseRunning
}

// Start resumes accumulation from the current value.
func (s State) Start() State {
	s.Phase = PhaseRunning
	return s
}

// Pause stops accumulation and keeps the accumulated value.
func (s State) Pause() State {
	if s.Phase == PhaseRunning {
		s.Phase = PhasePaused
	}
	return s
}

// Tick adds d when running and is a no-op otherwise.
func (s State) Tick(d time.Duration) State {
	if s.Phase == PhaseRunning && d > 0 {
		s.Accumulated += d
	}
	return s
}

// Reset zeroes the stopwatch and returns it to idle.
func (s State) Reset() State {
	return newState(s.Key)
}

// Seconds is the accumulated value rounded to a tenth of a second.
func (s State) Seconds() float64 {
	return math.Round(s.Accumulated.Seconds()*10) / 10
}
