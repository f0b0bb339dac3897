package breathing

import "time"

// EventType defines the type of Controller event.
type EventType string

const (
	EventStarted   EventType = "started"
	EventPhase     EventType = "phase"
	EventProgress  EventType = "progress"
	EventPaused    EventType = "paused"
	EventReset     EventType = "reset"
	EventCompleted EventType = "completed"
)

// Event represents a Controller update for observers.
type Event struct {
	Type    EventType
	Session Session
	At      time.Time
}

// CompletionReason records which timer finished the session.
type CompletionReason string

const (
	ReasonCycles    CompletionReason = "cycles"
	ReasonCountdown CompletionReason = "countdown"
)

// Completion is delivered exactly once per session.
type Completion struct {
	SessionID string
	Reason    CompletionReason
	Session   Session
	At        time.Time
}

// Cue identifies a sound cue played at phase boundaries.
type Cue string

const (
	CueIn       Cue = "in"
	CueHold     Cue = "hold"
	CueOut      Cue = "out"
	CueRest     Cue = "rest"
	CueComplete Cue = "complete"
)

// Notifier plays sound cues. Errors are logged and otherwise ignored.
type Notifier interface {
	Notify(cue Cue) error
}

func cueForPhase(phase Phase) Cue {
	switch phase {
	case PhaseIn:
		return CueIn
	case PhaseHold:
		return CueHold
	case PhaseOut:
		return CueOut
	default:
		return CueRest
	}
}
