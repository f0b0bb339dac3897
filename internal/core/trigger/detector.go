// Package trigger recognises the covert activation gesture typed into the
// calculator disguise.
package trigger

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"safecalc/internal/core/clock"
	"safecalc/internal/core/model"
)

// Detector watches disguise input and emits at most one Signal per arming
// cycle. Once fired it ignores input until Rearm is called.
type Detector struct {
	mu         sync.Mutex
	config     model.TriggerConfig
	pending    *model.TriggerConfig
	clock      clock.Clock
	logger     *zap.Logger
	onActivate func(Signal)

	state      State
	lastTap    time.Time
	taps       int
	idleTimer  clock.Handle
	generation uint64
}

// New creates an armed Detector.
func New(config model.TriggerConfig, clk clock.Clock, logger *zap.Logger) *Detector {
	if clk == nil {
		clk = clock.Real()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Detector{
		config: normalizeConfig(config),
		clock:  clk,
		logger: logger,
		state:  StateIdle,
	}
}

// SetOnActivate registers the handler receiving activation signals.
// The handler runs outside the detector lock and may call back into it.
func (detector *Detector) SetOnActivate(handler func(Signal)) {
	detector.mu.Lock()
	defer detector.mu.Unlock()
	detector.onActivate = handler
}

// OnDigitEntered records a digit keypress at the given instant.
func (detector *Detector) OnDigitEntered(value string, at time.Time) {
	detector.mu.Lock()
	if detector.state == StateFired {
		detector.mu.Unlock()
		return
	}

	if !detector.lastTap.IsZero() && at.Sub(detector.lastTap) < detector.config.TapWindow {
		detector.taps++
	} else {
		detector.taps = 1
	}
	detector.lastTap = at
	detector.armIdleTimerLocked()

	if detector.config.Pattern != model.PatternTripleTap || detector.taps < detector.config.RequiredTaps {
		detector.mu.Unlock()
		return
	}

	signal, handler := detector.fireLocked(at)
	detector.mu.Unlock()

	detector.logger.Debug("tap sequence matched", zap.String("digit", value))
	detector.deliver(signal, handler)
}

// OnDisplayChanged compares the full display text against the trigger code.
func (detector *Detector) OnDisplayChanged(text string) {
	detector.mu.Lock()
	if detector.state == StateFired || detector.config.Pattern != model.PatternCode {
		detector.mu.Unlock()
		return
	}
	code := detector.config.Code
	if strings.TrimSpace(code) == "" || text != code {
		detector.mu.Unlock()
		return
	}

	signal, handler := detector.fireLocked(detector.clock.Now())
	detector.mu.Unlock()

	detector.deliver(signal, handler)
}

// Rearm starts a new arming cycle, applying any configuration received
// while fired.
func (detector *Detector) Rearm() {
	detector.mu.Lock()
	defer detector.mu.Unlock()
	if detector.pending != nil {
		detector.config = *detector.pending
		detector.pending = nil
	}
	detector.state = StateIdle
	detector.resetTapsLocked()
}

// UpdateConfig replaces the trigger configuration. While fired the new
// configuration is held until the next Rearm.
func (detector *Detector) UpdateConfig(config model.TriggerConfig) {
	config = normalizeConfig(config)

	detector.mu.Lock()
	defer detector.mu.Unlock()
	if detector.state == StateFired {
		detector.pending = &config
		return
	}
	detector.config = config
	detector.resetTapsLocked()
}

// Config returns the active configuration.
func (detector *Detector) Config() model.TriggerConfig {
	detector.mu.Lock()
	defer detector.mu.Unlock()
	return detector.config
}

// State returns the arming state.
func (detector *Detector) State() State {
	detector.mu.Lock()
	defer detector.mu.Unlock()
	return detector.state
}

// Taps returns the current consecutive tap count.
func (detector *Detector) Taps() int {
	detector.mu.Lock()
	defer detector.mu.Unlock()
	return detector.taps
}

// Close cancels the idle timer.
func (detector *Detector) Close() {
	detector.mu.Lock()
	defer detector.mu.Unlock()
	detector.cancelIdleTimerLocked()
}

func (detector *Detector) fireLocked(at time.Time) (Signal, func(Signal)) {
	detector.state = StateFired
	detector.resetTapsLocked()

	signal := Signal{
		ID:      uuid.NewString(),
		Pattern: detector.config.Pattern,
		At:      at,
	}
	detector.logger.Info("trigger fired",
		zap.String("signal_id", signal.ID),
		zap.String("pattern", string(signal.Pattern)))
	return signal, detector.onActivate
}

func (detector *Detector) deliver(signal Signal, handler func(Signal)) {
	if handler != nil {
		handler(signal)
	}
}

func (detector *Detector) armIdleTimerLocked() {
	detector.cancelIdleTimerLocked()
	generation := detector.generation
	detector.idleTimer = detector.clock.AfterFunc(detector.config.ResetWindow, func() {
		detector.expireTaps(generation)
	})
}

func (detector *Detector) expireTaps(generation uint64) {
	detector.mu.Lock()
	defer detector.mu.Unlock()
	if generation != detector.generation || detector.state == StateFired {
		return
	}
	detector.logger.Debug("tap window expired", zap.Int("taps", detector.taps))
	detector.taps = 0
	detector.lastTap = time.Time{}
	detector.idleTimer = nil
}

func (detector *Detector) resetTapsLocked() {
	detector.taps = 0
	detector.lastTap = time.Time{}
	detector.cancelIdleTimerLocked()
}

func (detector *Detector) cancelIdleTimerLocked() {
	detector.generation++
	if detector.idleTimer != nil {
		detector.idleTimer.Cancel()
		detector.idleTimer = nil
	}
}

func normalizeConfig(config model.TriggerConfig) model.TriggerConfig {
	defaults := model.DefaultTriggerConfig()
	if !config.Pattern.Valid() {
		config.Pattern = defaults.Pattern
	}
	if config.TapWindow <= 0 {
		config.TapWindow = defaults.TapWindow
	}
	if config.ResetWindow <= 0 {
		config.ResetWindow = defaults.ResetWindow
	}
	if config.RequiredTaps <= 0 {
		config.RequiredTaps = defaults.RequiredTaps
	}
	return config
}
