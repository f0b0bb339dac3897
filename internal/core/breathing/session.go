// Package breathing drives a guided breathing exercise: a four phase cycle
// paced by one timer and an independent one second countdown.
package breathing

import (
	"time"

	"safecalc/internal/core/model"
)

// countdownStep is the period and decrement of the countdown timer.
const countdownStep = time.Second

// Phase is one stage of a breathing cycle.
type Phase string

const (
	PhaseIn   Phase = "in"
	PhaseHold Phase = "hold"
	PhaseOut  Phase = "out"
	PhaseRest Phase = "rest"
)

// Next returns the phase that follows in the in-hold-out-rest cycle.
func (phase Phase) Next() Phase {
	switch phase {
	case PhaseIn:
		return PhaseHold
	case PhaseHold:
		return PhaseOut
	case PhaseOut:
		return PhaseRest
	default:
		return PhaseIn
	}
}

// Duration returns how long the phase lasts under the given pattern.
func (phase Phase) Duration(pattern model.BreathingPattern) time.Duration {
	switch phase {
	case PhaseIn:
		return pattern.In
	case PhaseHold:
		return pattern.Hold
	case PhaseOut:
		return pattern.Out
	default:
		return pattern.Rest
	}
}

// Instruction returns the prompt shown to the user during the phase.
func (phase Phase) Instruction() string {
	switch phase {
	case PhaseIn:
		return "Breathe in..."
	case PhaseHold:
		return "Hold..."
	case PhaseOut:
		return "Breathe out..."
	default:
		return "Rest..."
	}
}

// Session is a snapshot of a breathing exercise.
type Session struct {
	ID          string
	Phase       Phase
	CycleIndex  int
	TotalCycles int
	Remaining   time.Duration
	Completed   bool
	Active      bool
}

// TotalCycles returns how many whole cycles fit into the total duration.
// A zero cycle length yields zero cycles.
func TotalCycles(total time.Duration, pattern model.BreathingPattern) int {
	cycleLength := pattern.CycleLength()
	if cycleLength <= 0 || total <= 0 {
		return 0
	}
	return int(total / cycleLength)
}

// NewSession returns the initial, inactive session for a configuration.
func NewSession(config model.BreathingConfig) Session {
	remaining := config.TotalDuration
	if remaining < 0 {
		remaining = 0
	}
	return Session{
		Phase:       PhaseRest,
		TotalCycles: TotalCycles(config.TotalDuration, config.Pattern),
		Remaining:   remaining,
	}
}

// AdvancePhase moves the session to the next phase. Wrapping from rest to
// in counts a cycle and completes the session once every cycle is done.
// A completed session is returned unchanged.
func AdvancePhase(session Session) Session {
	if session.Completed {
		return session
	}
	wrapped := session.Phase == PhaseRest
	session.Phase = session.Phase.Next()
	if !wrapped {
		return session
	}

	if session.CycleIndex < session.TotalCycles {
		session.CycleIndex++
	}
	if session.CycleIndex >= session.TotalCycles {
		session.Completed = true
		session.Active = false
	}
	return session
}

// Tick removes one countdown step and completes the session at zero.
// A completed session is returned unchanged.
func Tick(session Session) Session {
	if session.Completed {
		return session
	}
	session.Remaining -= countdownStep
	if session.Remaining <= 0 {
		session.Remaining = 0
		session.Completed = true
		session.Active = false
	}
	return session
}
