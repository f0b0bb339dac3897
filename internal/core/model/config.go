package model

import "time"

// TriggerPattern selects which covert gesture activates emergency mode.
type TriggerPattern string

const (
	PatternTripleTap TriggerPattern = "triple_tap"
	PatternCode      TriggerPattern = "code"
	PatternGesture   TriggerPattern = "gesture"
)

// Valid reports whether the pattern is one of the known values.
func (pattern TriggerPattern) Valid() bool {
	switch pattern {
	case PatternTripleTap, PatternCode, PatternGesture:
		return true
	default:
		return false
	}
}

// TriggerConfig contains settings for the covert trigger detector.
type TriggerConfig struct {
	Pattern      TriggerPattern
	Code         string
	TapWindow    time.Duration
	ResetWindow  time.Duration
	RequiredTaps int
}

// DefaultTriggerConfig returns the stock triple-tap configuration.
func DefaultTriggerConfig() TriggerConfig {
	return TriggerConfig{
		Pattern:      PatternTripleTap,
		TapWindow:    800 * time.Millisecond,
		ResetWindow:  1500 * time.Millisecond,
		RequiredTaps: 3,
	}
}

// BreathingPattern is the duration of each phase of one breathing cycle.
type BreathingPattern struct {
	In   time.Duration
	Hold time.Duration
	Out  time.Duration
	Rest time.Duration
}

// CycleLength returns the duration of one full in-hold-out-rest cycle.
func (pattern BreathingPattern) CycleLength() time.Duration {
	return pattern.In + pattern.Hold + pattern.Out + pattern.Rest
}

// CalmingPattern is the 4-4-6-2 pattern offered by default.
func CalmingPattern() BreathingPattern {
	return BreathingPattern{
		In:   4 * time.Second,
		Hold: 4 * time.Second,
		Out:  6 * time.Second,
		Rest: 2 * time.Second,
	}
}

// BreathingConfig contains runtime settings for a breathing session.
type BreathingConfig struct {
	TotalDuration time.Duration
	Pattern       BreathingPattern
	SoundEnabled  bool
}
