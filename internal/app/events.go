package app

import "time"

// Mode is the surface the application currently shows.
type Mode string

const (
	ModeDisguised Mode = "disguised"
	ModeEmergency Mode = "emergency"
	ModeUnlocked  Mode = "unlocked"
)

// Reason records what caused a mode change.
type Reason string

const (
	ReasonTrigger  Reason = "trigger"
	ReasonManual   Reason = "manual"
	ReasonResolved Reason = "resolved"
	ReasonToggle   Reason = "toggle"
	ReasonAutoLock Reason = "auto_lock"
)

// ModeEvent is published on every mode change.
type ModeEvent struct {
	Mode     Mode
	Previous Mode
	Reason   Reason
	At       time.Time
}
