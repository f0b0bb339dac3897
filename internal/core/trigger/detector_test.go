package trigger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"safecalc/internal/core/clock"
	"safecalc/internal/core/model"
)

var epoch = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

type harness struct {
	clock    *clock.Manual
	detector *Detector
	signals  []Signal
}

func newHarness(t *testing.T, config model.TriggerConfig) *harness {
	t.Helper()
	h := &harness{clock: clock.NewManual(epoch)}
	h.detector = New(config, h.clock, nil)
	h.detector.SetOnActivate(func(signal Signal) {
		h.signals = append(h.signals, signal)
	})
	t.Cleanup(h.detector.Close)
	return h
}

// tapAt advances the manual clock to offset and enters a digit there.
func (h *harness) tapAt(offset time.Duration) {
	target := epoch.Add(offset)
	if delta := target.Sub(h.clock.Now()); delta > 0 {
		h.clock.Advance(delta)
	}
	h.detector.OnDigitEntered("5", target)
}

func codeConfig(code string) model.TriggerConfig {
	config := model.DefaultTriggerConfig()
	config.Pattern = model.PatternCode
	config.Code = code
	return config
}

func TestTripleTap_FiresOnThirdQuickTap(t *testing.T) {
	h := newHarness(t, model.DefaultTriggerConfig())

	h.tapAt(0)
	h.tapAt(700 * time.Millisecond)
	assert.Empty(t, h.signals)
	h.tapAt(1400 * time.Millisecond)

	require.Len(t, h.signals, 1)
	assert.Equal(t, model.PatternTripleTap, h.signals[0].Pattern)
	assert.Equal(t, epoch.Add(1400*time.Millisecond), h.signals[0].At)
	assert.NotEmpty(t, h.signals[0].ID)
	assert.Equal(t, StateFired, h.detector.State())
	assert.Equal(t, 0, h.detector.Taps())
}

func TestTripleTap_SlowFirstGapResetsCount(t *testing.T) {
	h := newHarness(t, model.DefaultTriggerConfig())

	h.tapAt(0)
	h.tapAt(900 * time.Millisecond)
	assert.Equal(t, 1, h.detector.Taps())
	h.tapAt(1600 * time.Millisecond)

	assert.Empty(t, h.signals)
	assert.Equal(t, 2, h.detector.Taps())
	assert.Equal(t, StateIdle, h.detector.State())
}

func TestTripleTap_BoundaryGapIsOutsideWindow(t *testing.T) {
	h := newHarness(t, model.DefaultTriggerConfig())

	h.tapAt(0)
	h.tapAt(800 * time.Millisecond)
	assert.Equal(t, 1, h.detector.Taps())

	h.tapAt(1599 * time.Millisecond)
	assert.Equal(t, 2, h.detector.Taps())
}

func TestTripleTap_IdleTimerResetsWithoutInput(t *testing.T) {
	h := newHarness(t, model.DefaultTriggerConfig())

	h.tapAt(0)
	h.tapAt(100 * time.Millisecond)
	require.Equal(t, 2, h.detector.Taps())

	h.clock.Advance(1499 * time.Millisecond)
	assert.Equal(t, 2, h.detector.Taps())
	h.clock.Advance(time.Millisecond)
	assert.Equal(t, 0, h.detector.Taps())

	h.tapAt(2000 * time.Millisecond)
	assert.Equal(t, 1, h.detector.Taps())
	assert.Empty(t, h.signals)
}

func TestTripleTap_IdleTimerRearmsOnEveryTap(t *testing.T) {
	config := model.DefaultTriggerConfig()
	config.RequiredTaps = 10
	h := newHarness(t, config)

	for i := 0; i < 5; i++ {
		h.tapAt(time.Duration(i) * 700 * time.Millisecond)
	}
	assert.Equal(t, 5, h.detector.Taps())
}

func TestTripleTap_IgnoredForOtherPatterns(t *testing.T) {
	h := newHarness(t, codeConfig("911"))

	h.tapAt(0)
	h.tapAt(100 * time.Millisecond)
	h.tapAt(200 * time.Millisecond)
	h.tapAt(300 * time.Millisecond)

	assert.Empty(t, h.signals)
	assert.Equal(t, 4, h.detector.Taps())
}

func TestTripleTap_FiredStateIgnoresTapsUntilRearm(t *testing.T) {
	h := newHarness(t, model.DefaultTriggerConfig())
	for i := 0; i < 6; i++ {
		h.tapAt(time.Duration(i) * 100 * time.Millisecond)
	}
	require.Len(t, h.signals, 1)
	assert.Equal(t, 0, h.detector.Taps())

	h.detector.Rearm()
	assert.Equal(t, StateIdle, h.detector.State())
	h.tapAt(time.Second)
	h.tapAt(1100 * time.Millisecond)
	h.tapAt(1200 * time.Millisecond)
	assert.Len(t, h.signals, 2)
}

func TestCode_ExactMatchOnly(t *testing.T) {
	h := newHarness(t, codeConfig("911"))

	h.detector.OnDisplayChanged("9")
	h.detector.OnDisplayChanged("91")
	assert.Empty(t, h.signals)

	h.detector.OnDisplayChanged("911")
	require.Len(t, h.signals, 1)
	assert.Equal(t, model.PatternCode, h.signals[0].Pattern)
	assert.Equal(t, epoch, h.signals[0].At)
}

func TestCode_NearMissesDoNotFire(t *testing.T) {
	h := newHarness(t, codeConfig("911"))

	for _, text := range []string{"9111", "91", "0911", "911 ", "0"} {
		h.detector.OnDisplayChanged(text)
	}
	assert.Empty(t, h.signals)
	assert.Equal(t, StateIdle, h.detector.State())
}

func TestCode_DoesNotRefireWithinArmingCycle(t *testing.T) {
	h := newHarness(t, codeConfig("911"))

	h.detector.OnDisplayChanged("911")
	h.detector.OnDisplayChanged("911")
	h.detector.OnDisplayChanged("911")
	assert.Len(t, h.signals, 1)

	h.detector.Rearm()
	h.detector.OnDisplayChanged("911")
	assert.Len(t, h.signals, 2)
}

func TestCode_EmptyOrBlankCodeNeverMatches(t *testing.T) {
	for _, code := range []string{"", " ", "\t "} {
		h := newHarness(t, codeConfig(code))
		h.detector.OnDisplayChanged(code)
		h.detector.OnDisplayChanged("")
		h.detector.OnDisplayChanged("0")
		assert.Empty(t, h.signals, "code %q", code)
	}
}

func TestGesture_NeverFiresFromDisguiseInput(t *testing.T) {
	config := model.DefaultTriggerConfig()
	config.Pattern = model.PatternGesture
	config.Code = "911"
	h := newHarness(t, config)

	h.tapAt(0)
	h.tapAt(100 * time.Millisecond)
	h.tapAt(200 * time.Millisecond)
	h.detector.OnDisplayChanged("911")

	assert.Empty(t, h.signals)
}

func TestUpdateConfig_HeldWhileFired(t *testing.T) {
	h := newHarness(t, codeConfig("911"))
	h.detector.OnDisplayChanged("911")
	require.Equal(t, StateFired, h.detector.State())

	h.detector.UpdateConfig(codeConfig("4242"))
	assert.Equal(t, "911", h.detector.Config().Code)

	h.detector.Rearm()
	assert.Equal(t, "4242", h.detector.Config().Code)
	h.detector.OnDisplayChanged("911")
	assert.Len(t, h.signals, 1)
	h.detector.OnDisplayChanged("4242")
	assert.Len(t, h.signals, 2)
}

func TestUpdateConfig_AppliesImmediatelyWhenIdle(t *testing.T) {
	h := newHarness(t, model.DefaultTriggerConfig())
	h.tapAt(0)
	h.tapAt(100 * time.Millisecond)

	h.detector.UpdateConfig(codeConfig("123"))
	assert.Equal(t, 0, h.detector.Taps())
	assert.Equal(t, model.PatternCode, h.detector.Config().Pattern)
}

func TestNew_NormalizesMalformedConfig(t *testing.T) {
	h := newHarness(t, model.TriggerConfig{Pattern: "shake"})

	config := h.detector.Config()
	assert.Equal(t, model.PatternTripleTap, config.Pattern)
	assert.Equal(t, 800*time.Millisecond, config.TapWindow)
	assert.Equal(t, 1500*time.Millisecond, config.ResetWindow)
	assert.Equal(t, 3, config.RequiredTaps)
}

func TestHandler_MayRearmFromCallback(t *testing.T) {
	h := newHarness(t, codeConfig("911"))
	h.detector.SetOnActivate(func(signal Signal) {
		h.signals = append(h.signals, signal)
		h.detector.Rearm()
	})

	h.detector.OnDisplayChanged("911")
	assert.Len(t, h.signals, 1)
	assert.Equal(t, StateIdle, h.detector.State())
}
