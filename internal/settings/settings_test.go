package settings

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"safecalc/internal/core/model"
)

func TestDefaultSettings(t *testing.T) {
	settings := DefaultSettings()

	assert.Equal(t, DisguiseCalculator, settings.DisguiseMode)
	assert.Equal(t, model.PatternTripleTap, settings.TriggerPattern)
	assert.Equal(t, "911", settings.TriggerCode)
	assert.False(t, settings.SoundEnabled)
	assert.True(t, settings.AutoLock)
	assert.Equal(t, time.Minute, settings.AutoLockAfter)
	assert.Equal(t, 2*time.Minute, settings.BreathingDuration)
	assert.Equal(t, 16*time.Second, settings.BreathingPattern.CycleLength())
	require.NoError(t, settings.Validate())
}

func TestSettings_TriggerConfig(t *testing.T) {
	settings := DefaultSettings()
	settings.TriggerPattern = model.PatternCode
	settings.TriggerCode = "4242"

	config := settings.TriggerConfig()
	assert.Equal(t, model.PatternCode, config.Pattern)
	assert.Equal(t, "4242", config.Code)
	assert.Equal(t, 800*time.Millisecond, config.TapWindow)
	assert.Equal(t, 1500*time.Millisecond, config.ResetWindow)
	assert.Equal(t, 3, config.RequiredTaps)
}

func TestSettings_BreathingConfig(t *testing.T) {
	settings := DefaultSettings()
	settings.SoundEnabled = true

	config := settings.BreathingConfig()
	assert.Equal(t, 2*time.Minute, config.TotalDuration)
	assert.Equal(t, model.CalmingPattern(), config.Pattern)
	assert.True(t, config.SoundEnabled)
}

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"unknown pattern", func(s *Settings) { s.TriggerPattern = "wave" }},
		{"blank code", func(s *Settings) { s.TriggerPattern = model.PatternCode; s.TriggerCode = "  " }},
		{"auto-lock without delay", func(s *Settings) { s.AutoLockAfter = 0 }},
		{"zero breathing duration", func(s *Settings) { s.BreathingDuration = 0 }},
		{"empty pattern", func(s *Settings) { s.BreathingPattern = model.BreathingPattern{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := DefaultSettings()
			tt.mutate(&settings)
			err := settings.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidSettings))
		})
	}
}
