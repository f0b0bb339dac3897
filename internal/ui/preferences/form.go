package preferences

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"safecalc/internal/core/model"
	"safecalc/internal/settings"
)

// formValues is the text state of the preferences form.
type formValues struct {
	DisguiseMode   string
	TriggerPattern string
	TriggerCode    string
	SoundEnabled   bool
	DarkMode       bool
	AutoLock       bool
	AutoLockAfter  string
	Minutes        string
	In             string
	Hold           string
	Out            string
	Rest           string
}

func valuesFromSettings(prefs settings.Settings) formValues {
	return formValues{
		DisguiseMode:   string(prefs.DisguiseMode),
		TriggerPattern: string(prefs.TriggerPattern),
		TriggerCode:    prefs.TriggerCode,
		SoundEnabled:   prefs.SoundEnabled,
		DarkMode:       prefs.DarkMode,
		AutoLock:       prefs.AutoLock,
		AutoLockAfter:  seconds(prefs.AutoLockAfter),
		Minutes:        fmt.Sprintf("%d", int(prefs.BreathingDuration.Minutes())),
		In:             seconds(prefs.BreathingPattern.In),
		Hold:           seconds(prefs.BreathingPattern.Hold),
		Out:            seconds(prefs.BreathingPattern.Out),
		Rest:           seconds(prefs.BreathingPattern.Rest),
	}
}

// apply overlays parsable form values on base; anything unparsable keeps
// the base value. The result is validated.
func (values formValues) apply(base settings.Settings) (settings.Settings, error) {
	prefs := base

	switch mode := settings.DisguiseMode(values.DisguiseMode); mode {
	case settings.DisguiseCalculator, settings.DisguiseNotes:
		prefs.DisguiseMode = mode
	}
	if pattern := model.TriggerPattern(values.TriggerPattern); pattern.Valid() {
		prefs.TriggerPattern = pattern
	}
	prefs.TriggerCode = strings.TrimSpace(values.TriggerCode)
	prefs.SoundEnabled = values.SoundEnabled
	prefs.DarkMode = values.DarkMode
	prefs.AutoLock = values.AutoLock

	if value, ok := parsePositiveInt(values.AutoLockAfter); ok {
		prefs.AutoLockAfter = time.Duration(value) * time.Second
	}
	if value, ok := parsePositiveInt(values.Minutes); ok {
		prefs.BreathingDuration = time.Duration(value) * time.Minute
	}
	if value, ok := parsePositiveInt(values.In); ok {
		prefs.BreathingPattern.In = time.Duration(value) * time.Second
	}
	if value, ok := parseNonNegativeInt(values.Hold); ok {
		prefs.BreathingPattern.Hold = time.Duration(value) * time.Second
	}
	if value, ok := parsePositiveInt(values.Out); ok {
		prefs.BreathingPattern.Out = time.Duration(value) * time.Second
	}
	if value, ok := parseNonNegativeInt(values.Rest); ok {
		prefs.BreathingPattern.Rest = time.Duration(value) * time.Second
	}

	if err := prefs.Validate(); err != nil {
		return base, err
	}
	return prefs, nil
}

func seconds(value time.Duration) string {
	return fmt.Sprintf("%d", int(value.Seconds()))
}

func parsePositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}

func parseNonNegativeInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed < 0 {
		return 0, false
	}
	return parsed, true
}
