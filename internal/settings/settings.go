// Package settings holds the user preferences and converts them into the
// configuration handed to the core at session start.
package settings

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"safecalc/internal/core/model"
)

// ErrInvalidSettings indicates a preference value outside its allowed range.
var ErrInvalidSettings = errors.New("invalid settings")

// DisguiseMode names the innocuous surface shown while disguised.
type DisguiseMode string

const (
	DisguiseCalculator DisguiseMode = "calculator"
	DisguiseNotes      DisguiseMode = "notes"
)

// Contact is a trusted person listed in the emergency alert preview.
type Contact struct {
	Name  string
	Phone string
}

// Settings defines editable user preferences. Contacts are read from the
// settings file only.
type Settings struct {
	DisguiseMode   DisguiseMode
	TriggerPattern model.TriggerPattern
	TriggerCode    string
	SoundEnabled   bool
	DarkMode       bool
	AutoLock       bool
	AutoLockAfter  time.Duration

	BreathingDuration time.Duration
	BreathingPattern  model.BreathingPattern

	Contacts []Contact
}

// DefaultSettings returns default settings for SafeCalc.
func DefaultSettings() Settings {
	return Settings{
		DisguiseMode:      DisguiseCalculator,
		TriggerPattern:    model.PatternTripleTap,
		TriggerCode:       "911",
		SoundEnabled:      false,
		DarkMode:          false,
		AutoLock:          true,
		AutoLockAfter:     time.Minute,
		BreathingDuration: 2 * time.Minute,
		BreathingPattern:  model.CalmingPattern(),
	}
}

// Validate reports the first out-of-range preference.
func (settings Settings) Validate() error {
	if !settings.TriggerPattern.Valid() {
		return fmt.Errorf("%w: unknown trigger pattern %q", ErrInvalidSettings, settings.TriggerPattern)
	}
	if settings.TriggerPattern == model.PatternCode && strings.TrimSpace(settings.TriggerCode) == "" {
		return fmt.Errorf("%w: trigger code is empty", ErrInvalidSettings)
	}
	if settings.AutoLock && settings.AutoLockAfter <= 0 {
		return fmt.Errorf("%w: auto-lock delay must be positive", ErrInvalidSettings)
	}
	if settings.BreathingDuration <= 0 {
		return fmt.Errorf("%w: breathing duration must be positive", ErrInvalidSettings)
	}
	if settings.BreathingPattern.CycleLength() <= 0 {
		return fmt.Errorf("%w: breathing pattern has no length", ErrInvalidSettings)
	}
	return nil
}

// TriggerConfig converts settings to a TriggerConfig.
func (settings Settings) TriggerConfig() model.TriggerConfig {
	config := model.DefaultTriggerConfig()
	config.Pattern = settings.TriggerPattern
	config.Code = settings.TriggerCode
	return config
}

// BreathingConfig converts settings to a BreathingConfig.
func (settings Settings) BreathingConfig() model.BreathingConfig {
	return model.BreathingConfig{
		TotalDuration: settings.BreathingDuration,
		Pattern:       settings.BreathingPattern,
		SoundEnabled:  settings.SoundEnabled,
	}
}
