package breathing

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"safecalc/internal/core/clock"
	"safecalc/internal/core/model"
)

var epoch = time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

// recordingNotifier implements Notifier for testing
type recordingNotifier struct {
	cues []Cue
	err  error
}

func (n *recordingNotifier) Notify(cue Cue) error {
	n.cues = append(n.cues, cue)
	return n.err
}

type fixture struct {
	clock       *clock.Manual
	notifier    *recordingNotifier
	controller  *Controller
	completions []Completion
}

func newFixture(t *testing.T, config model.BreathingConfig) *fixture {
	t.Helper()
	f := &fixture{
		clock:    clock.NewManual(epoch),
		notifier: &recordingNotifier{},
	}
	f.controller = New(config, Options{Clock: f.clock, Notifier: f.notifier})
	f.controller.SetOnComplete(func(completion Completion) {
		f.completions = append(f.completions, completion)
	})
	t.Cleanup(f.controller.Close)
	return f
}

func config(total time.Duration, p model.BreathingPattern) model.BreathingConfig {
	return model.BreathingConfig{TotalDuration: total, Pattern: p}
}

func TestController_StartEntersInPhase(t *testing.T) {
	f := newFixture(t, config(2*time.Minute, model.CalmingPattern()))

	f.controller.Start()
	session := f.controller.Snapshot()

	assert.Equal(t, PhaseIn, session.Phase)
	assert.True(t, session.Active)
	assert.NotEmpty(t, session.ID)
	assert.Equal(t, 7, session.TotalCycles)
	assert.Equal(t, 2, f.clock.Pending())
}

func TestController_PhaseTimerFollowsPhaseDurations(t *testing.T) {
	f := newFixture(t, config(2*time.Minute, pattern(4, 7, 8, 2)))
	f.controller.Start()

	f.clock.Advance(3999 * time.Millisecond)
	assert.Equal(t, PhaseIn, f.controller.Snapshot().Phase)
	f.clock.Advance(time.Millisecond)
	assert.Equal(t, PhaseHold, f.controller.Snapshot().Phase)
	f.clock.Advance(7 * time.Second)
	assert.Equal(t, PhaseOut, f.controller.Snapshot().Phase)
	f.clock.Advance(8 * time.Second)
	assert.Equal(t, PhaseRest, f.controller.Snapshot().Phase)
	assert.Equal(t, 0, f.controller.Snapshot().CycleIndex)
	f.clock.Advance(2 * time.Second)

	session := f.controller.Snapshot()
	assert.Equal(t, PhaseIn, session.Phase)
	assert.Equal(t, 1, session.CycleIndex)
	assert.Equal(t, 99*time.Second, session.Remaining)
}

func TestController_CompletesByCycles(t *testing.T) {
	f := newFixture(t, config(2*time.Minute, pattern(4, 7, 8, 2)))
	f.controller.Start()

	f.clock.Advance(105 * time.Second)

	require.Len(t, f.completions, 1)
	completion := f.completions[0]
	assert.Equal(t, ReasonCycles, completion.Reason)
	assert.Equal(t, 5, completion.Session.CycleIndex)
	assert.Contains(t, []time.Duration{15 * time.Second, 16 * time.Second}, completion.Session.Remaining)
	assert.Equal(t, epoch.Add(105*time.Second), completion.At)

	session := f.controller.Snapshot()
	assert.True(t, session.Completed)
	assert.False(t, session.Active)
	assert.Equal(t, 0, f.clock.Pending())

	f.clock.Advance(time.Minute)
	assert.Len(t, f.completions, 1)
	assert.Equal(t, session, f.controller.Snapshot())
}

func TestController_CompletesByCountdown(t *testing.T) {
	f := newFixture(t, config(10*time.Second, model.CalmingPattern()))
	f.controller.Start()

	f.clock.Advance(9 * time.Second)
	assert.Empty(t, f.completions)
	f.clock.Advance(time.Second)

	require.Len(t, f.completions, 1)
	assert.Equal(t, ReasonCountdown, f.completions[0].Reason)
	assert.Equal(t, time.Duration(0), f.controller.Snapshot().Remaining)
	assert.Equal(t, PhaseOut, f.controller.Snapshot().Phase)
}

func TestController_SimultaneousCompletionFiresOnce(t *testing.T) {
	totals := []time.Duration{4 * time.Second, 8 * time.Second, 12 * time.Second}
	for _, total := range totals {
		f := newFixture(t, config(total, pattern(1, 1, 1, 1)))
		f.controller.Start()

		f.clock.Advance(total + 10*time.Second)

		require.Len(t, f.completions, 1, "total %s", total)
		session := f.controller.Snapshot()
		assert.True(t, session.Completed)
		assert.LessOrEqual(t, session.CycleIndex, session.TotalCycles)
		assert.False(t, session.Active)
		assert.Contains(t, []CompletionReason{ReasonCycles, ReasonCountdown}, f.completions[0].Reason)
	}
}

func TestController_PauseKeepsPositionAndResumeRestartsAtIn(t *testing.T) {
	f := newFixture(t, config(2*time.Minute, model.CalmingPattern()))
	f.controller.Start()
	f.clock.Advance(18 * time.Second)
	require.Equal(t, PhaseIn, f.controller.Snapshot().Phase)
	require.Equal(t, 1, f.controller.Snapshot().CycleIndex)

	f.clock.Advance(4 * time.Second)
	require.Equal(t, PhaseHold, f.controller.Snapshot().Phase)

	f.controller.Pause()
	paused := f.controller.Snapshot()
	assert.False(t, paused.Active)
	assert.Equal(t, PhaseHold, paused.Phase)
	assert.Equal(t, 1, paused.CycleIndex)
	assert.Equal(t, 98*time.Second, paused.Remaining)
	assert.Equal(t, 0, f.clock.Pending())

	f.clock.Advance(time.Minute)
	assert.Equal(t, paused, f.controller.Snapshot())

	f.controller.Start()
	resumed := f.controller.Snapshot()
	assert.True(t, resumed.Active)
	assert.Equal(t, PhaseIn, resumed.Phase)
	assert.Equal(t, 1, resumed.CycleIndex)
	assert.Equal(t, 98*time.Second, resumed.Remaining)
	assert.Equal(t, paused.ID, resumed.ID)

	f.clock.Advance(4 * time.Second)
	assert.Equal(t, PhaseHold, f.controller.Snapshot().Phase)
	assert.Equal(t, 94*time.Second, f.controller.Snapshot().Remaining)
}

func TestController_PauseThenStartLeavesNoStaleTimers(t *testing.T) {
	f := newFixture(t, config(time.Minute, model.CalmingPattern()))
	f.controller.Start()
	f.clock.Advance(2500 * time.Millisecond)

	for i := 0; i < 3; i++ {
		f.controller.Pause()
		f.controller.Start()
	}
	assert.Equal(t, 2, f.clock.Pending())

	f.clock.Advance(time.Second)
	assert.Equal(t, 57*time.Second, f.controller.Snapshot().Remaining)
	f.clock.Advance(3 * time.Second)
	assert.Equal(t, 54*time.Second, f.controller.Snapshot().Remaining)
	assert.Equal(t, PhaseHold, f.controller.Snapshot().Phase)
}

func TestController_ResetRestoresInitialState(t *testing.T) {
	cfg := config(2*time.Minute, model.CalmingPattern())
	offsets := []time.Duration{0, 3 * time.Second, 9 * time.Second, 17 * time.Second, 45 * time.Second, 3 * time.Minute}

	for _, offset := range offsets {
		f := newFixture(t, cfg)
		f.controller.Start()
		f.clock.Advance(offset)

		f.controller.Reset()

		assert.Equal(t, NewSession(cfg), f.controller.Snapshot(), "offset %s", offset)
		assert.Equal(t, 0, f.clock.Pending())
	}
}

func TestController_StartAfterCompletionIsFresh(t *testing.T) {
	f := newFixture(t, config(10*time.Second, model.CalmingPattern()))
	f.controller.Start()
	f.clock.Advance(10 * time.Second)
	require.Len(t, f.completions, 1)
	firstID := f.completions[0].SessionID

	f.controller.Start()
	session := f.controller.Snapshot()
	assert.False(t, session.Completed)
	assert.True(t, session.Active)
	assert.Equal(t, 10*time.Second, session.Remaining)
	assert.NotEqual(t, firstID, session.ID)

	f.clock.Advance(10 * time.Second)
	require.Len(t, f.completions, 2)
	assert.Equal(t, session.ID, f.completions[1].SessionID)
}

func TestController_StartWhileActiveIsNoop(t *testing.T) {
	f := newFixture(t, config(time.Minute, model.CalmingPattern()))
	f.controller.Start()
	f.clock.Advance(5 * time.Second)
	before := f.controller.Snapshot()

	f.controller.Start()
	assert.Equal(t, before, f.controller.Snapshot())
	assert.Equal(t, 2, f.clock.Pending())
}

func TestController_ZeroDurationPhasesAdvanceImmediately(t *testing.T) {
	f := newFixture(t, config(5*time.Second, pattern(0, 0, 0, 0)))
	f.controller.Start()

	f.clock.Advance(0)

	require.Len(t, f.completions, 1)
	assert.Equal(t, ReasonCycles, f.completions[0].Reason)
	assert.Equal(t, 0, f.clock.Pending())
}

func TestController_ZeroHoldSkipsStraightToOut(t *testing.T) {
	f := newFixture(t, config(time.Minute, pattern(2, 0, 3, 1)))
	f.controller.Start()

	f.clock.Advance(2 * time.Second)
	assert.Equal(t, PhaseOut, f.controller.Snapshot().Phase)
	f.clock.Advance(3 * time.Second)
	assert.Equal(t, PhaseRest, f.controller.Snapshot().Phase)
}

func TestController_SoundCues(t *testing.T) {
	cfg := config(8*time.Second, pattern(1, 1, 1, 1))
	cfg.SoundEnabled = true
	f := newFixture(t, cfg)
	f.controller.Start()

	f.clock.Advance(4 * time.Second)
	assert.Equal(t, []Cue{CueIn, CueHold, CueOut, CueRest, CueIn}, f.notifier.cues)

	f.clock.Advance(4 * time.Second)
	assert.Equal(t, CueComplete, f.notifier.cues[len(f.notifier.cues)-1])
}

func TestController_SoundDisabledPlaysNothing(t *testing.T) {
	f := newFixture(t, config(8*time.Second, pattern(1, 1, 1, 1)))
	f.controller.Start()
	f.clock.Advance(10 * time.Second)

	assert.Empty(t, f.notifier.cues)
	assert.Len(t, f.completions, 1)
}

func TestController_SoundFailureIsSwallowed(t *testing.T) {
	cfg := config(8*time.Second, pattern(1, 1, 1, 1))
	cfg.SoundEnabled = true
	f := newFixture(t, cfg)
	f.notifier.err = errors.New("playback denied")

	f.controller.Start()
	f.clock.Advance(10 * time.Second)

	assert.NotEmpty(t, f.notifier.cues)
	require.Len(t, f.completions, 1)
	assert.True(t, f.controller.Snapshot().Completed)
}

func TestController_InvariantsHoldEachSecond(t *testing.T) {
	patterns := []model.BreathingPattern{
		model.CalmingPattern(),
		pattern(4, 7, 8, 2),
		pattern(1, 2, 3, 0),
		pattern(3, 0, 3, 0),
	}

	for _, p := range patterns {
		f := newFixture(t, config(90*time.Second, p))
		f.controller.Start()
		previous := f.controller.Snapshot()

		for second := 0; second < 120; second++ {
			f.clock.Advance(time.Second)
			current := f.controller.Snapshot()
			assert.GreaterOrEqual(t, current.CycleIndex, previous.CycleIndex)
			assert.LessOrEqual(t, current.CycleIndex, current.TotalCycles)
			assert.LessOrEqual(t, current.Remaining, previous.Remaining)
			assert.GreaterOrEqual(t, current.Remaining, time.Duration(0))
			if previous.Completed {
				assert.Equal(t, previous, current)
			}
			previous = current
		}
		assert.Len(t, f.completions, 1, "pattern %+v", p)
	}
}

func TestController_CompletionHandlerMayReset(t *testing.T) {
	cfg := config(4*time.Second, pattern(1, 1, 1, 1))
	f := newFixture(t, cfg)
	f.controller.SetOnComplete(func(completion Completion) {
		f.completions = append(f.completions, completion)
		f.controller.Reset()
	})

	f.controller.Start()
	f.clock.Advance(10 * time.Second)

	assert.Len(t, f.completions, 1)
	assert.Equal(t, NewSession(cfg), f.controller.Snapshot())
}

func TestController_SubscribeReceivesEvents(t *testing.T) {
	f := newFixture(t, config(time.Minute, pattern(1, 1, 1, 1)))
	events := f.controller.Subscribe(16)

	f.controller.Start()
	f.clock.Advance(time.Second)
	f.controller.Pause()

	var types []EventType
	for len(events) > 0 {
		types = append(types, (<-events).Type)
	}
	assert.Equal(t, EventStarted, types[0])
	assert.Contains(t, types, EventPhase)
	assert.Contains(t, types, EventProgress)
	assert.Equal(t, EventPaused, types[len(types)-1])
}

func TestController_UpdateConfigResetsIdleSession(t *testing.T) {
	f := newFixture(t, config(time.Minute, model.CalmingPattern()))

	f.controller.UpdateConfig(config(2*time.Minute, pattern(4, 7, 8, 2)))
	session := f.controller.Snapshot()
	assert.Equal(t, 5, session.TotalCycles)
	assert.Equal(t, 2*time.Minute, session.Remaining)
}

func TestController_UpdateConfigWhileActiveKeepsAccounting(t *testing.T) {
	f := newFixture(t, config(time.Minute, model.CalmingPattern()))
	f.controller.Start()
	f.clock.Advance(5 * time.Second)

	f.controller.UpdateConfig(config(2*time.Minute, pattern(4, 7, 8, 2)))
	session := f.controller.Snapshot()
	assert.True(t, session.Active)
	assert.Equal(t, 3, session.TotalCycles)
	assert.Equal(t, 55*time.Second, session.Remaining)

	f.controller.Reset()
	assert.Equal(t, 5, f.controller.Snapshot().TotalCycles)
}

func TestController_CloseClosesSubscribers(t *testing.T) {
	f := newFixture(t, config(time.Minute, model.CalmingPattern()))
	events := f.controller.Subscribe(1)
	f.controller.Start()

	f.controller.Close()
	f.controller.Close()

	for range events {
	}
	assert.Equal(t, 0, f.clock.Pending())
	assert.False(t, f.controller.Snapshot().Active)

	f.controller.Start()
	assert.False(t, f.controller.Snapshot().Active)
}

func TestController_NegativeConfigIsClamped(t *testing.T) {
	f := newFixture(t, model.BreathingConfig{
		TotalDuration: -time.Second,
		Pattern:       model.BreathingPattern{In: -time.Second, Hold: time.Second},
	})

	cfg := f.controller.Config()
	assert.Equal(t, time.Duration(0), cfg.TotalDuration)
	assert.Equal(t, time.Duration(0), cfg.Pattern.In)
	assert.Equal(t, time.Duration(0), f.controller.Snapshot().Remaining)
}
