package trigger

import (
	"time"

	"safecalc/internal/core/model"
)

// State represents the arming state of the Detector.
type State string

const (
	StateIdle  State = "idle"
	StateFired State = "fired"
)

// Signal is emitted once per arming cycle when the covert trigger matches.
type Signal struct {
	ID      string
	Pattern model.TriggerPattern
	At      time.Time
}
