// Package app owns the application mode and wires the trigger detector,
// the breathing controller and auto-lock together.
package app

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"safecalc/internal/core/breathing"
	"safecalc/internal/core/clock"
	"safecalc/internal/core/trigger"
	"safecalc/internal/platform"
	"safecalc/internal/settings"
)

const defaultIdlePollInterval = 5 * time.Second

// IdleProbe reports how long the user has been inactive.
type IdleProbe interface {
	IdleDuration() (time.Duration, error)
}

// Options configures a Guardian.
type Options struct {
	Clock            clock.Clock
	Logger           *zap.Logger
	Notifier         breathing.Notifier
	IdleProbe        IdleProbe
	IdlePollInterval time.Duration
}

// Guardian decides which surface is visible: the disguise, the emergency
// screen or the unlocked app.
type Guardian struct {
	mu          sync.Mutex
	options     Options
	settings    settings.Settings
	mode        Mode
	detector    *trigger.Detector
	breathing   *breathing.Controller
	subscribers []chan ModeEvent
	idlePoll    clock.Handle
	lastSignal  *trigger.Signal
	closed      bool
}

// New creates a Guardian in disguised mode.
func New(prefs settings.Settings, options Options) *Guardian {
	if options.Clock == nil {
		options.Clock = clock.Real()
	}
	if options.Logger == nil {
		options.Logger = zap.NewNop()
	}
	if options.IdlePollInterval <= 0 {
		options.IdlePollInterval = defaultIdlePollInterval
	}

	guardian := &Guardian{
		options:  options,
		settings: prefs,
		mode:     ModeDisguised,
		detector: trigger.New(prefs.TriggerConfig(), options.Clock, options.Logger.Named("trigger")),
		breathing: breathing.New(prefs.BreathingConfig(), breathing.Options{
			Clock:    options.Clock,
			Notifier: options.Notifier,
			Logger:   options.Logger.Named("breathing"),
		}),
	}
	guardian.detector.SetOnActivate(guardian.onSignal)

	if options.IdleProbe != nil {
		guardian.idlePoll = options.Clock.Every(options.IdlePollInterval, guardian.pollIdle)
	}
	return guardian
}

// Detector returns the trigger detector fed by the disguise.
func (guardian *Guardian) Detector() *trigger.Detector {
	return guardian.detector
}

// Breathing returns the breathing session controller.
func (guardian *Guardian) Breathing() *breathing.Controller {
	return guardian.breathing
}

// Mode returns the current mode.
func (guardian *Guardian) Mode() Mode {
	guardian.mu.Lock()
	defer guardian.mu.Unlock()
	return guardian.mode
}

// LastSignal returns the signal that caused the current emergency, if any.
func (guardian *Guardian) LastSignal() (trigger.Signal, bool) {
	guardian.mu.Lock()
	defer guardian.mu.Unlock()
	if guardian.lastSignal == nil {
		return trigger.Signal{}, false
	}
	return *guardian.lastSignal, true
}

// Settings returns the settings currently applied.
func (guardian *Guardian) Settings() settings.Settings {
	guardian.mu.Lock()
	defer guardian.mu.Unlock()
	return guardian.settings
}

// Subscribe registers a new observer channel for mode changes.
func (guardian *Guardian) Subscribe(buffer int) <-chan ModeEvent {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan ModeEvent, buffer)
	guardian.mu.Lock()
	defer guardian.mu.Unlock()
	if guardian.closed {
		close(ch)
		return ch
	}
	guardian.subscribers = append(guardian.subscribers, ch)
	return ch
}

// TriggerEmergency switches to the emergency screen. It is a no-op while
// already in emergency.
func (guardian *Guardian) TriggerEmergency(reason Reason) {
	guardian.mu.Lock()
	defer guardian.mu.Unlock()
	guardian.setModeLocked(ModeEmergency, reason)
}

// ResolveEmergency leaves the emergency screen for the disguise and rearms
// the detector. It does nothing outside emergency mode.
func (guardian *Guardian) ResolveEmergency() {
	guardian.mu.Lock()
	if guardian.mode != ModeEmergency {
		guardian.mu.Unlock()
		return
	}
	guardian.mu.Unlock()
	guardian.ReturnToDisguise(ReasonResolved)
}

// ToggleDisguise switches between the disguise and the unlocked app.
// Emergency mode is left only through ResolveEmergency.
func (guardian *Guardian) ToggleDisguise() {
	guardian.mu.Lock()
	switch guardian.mode {
	case ModeDisguised:
		guardian.setModeLocked(ModeUnlocked, ReasonToggle)
		guardian.mu.Unlock()
	case ModeUnlocked:
		guardian.mu.Unlock()
		guardian.ReturnToDisguise(ReasonToggle)
	default:
		guardian.mu.Unlock()
	}
}

// ReturnToDisguise shows the disguise, stops any breathing session and
// rearms the detector for the next activation.
func (guardian *Guardian) ReturnToDisguise(reason Reason) {
	guardian.breathing.Reset()
	guardian.detector.Rearm()

	guardian.mu.Lock()
	defer guardian.mu.Unlock()
	guardian.lastSignal = nil
	guardian.setModeLocked(ModeDisguised, reason)
}

// StartBreathing begins or resumes the guided breathing session.
func (guardian *Guardian) StartBreathing() {
	guardian.breathing.Start()
}

// ApplySettings hands new settings to the detector and the breathing
// controller. A fired detector keeps its old configuration until rearmed.
func (guardian *Guardian) ApplySettings(prefs settings.Settings) {
	guardian.mu.Lock()
	if guardian.closed {
		guardian.mu.Unlock()
		return
	}
	guardian.settings = prefs
	guardian.mu.Unlock()

	guardian.detector.UpdateConfig(prefs.TriggerConfig())
	guardian.breathing.UpdateConfig(prefs.BreathingConfig())
	guardian.options.Logger.Info("settings applied",
		zap.String("trigger_pattern", string(prefs.TriggerPattern)),
		zap.Bool("auto_lock", prefs.AutoLock))
}

// Close stops auto-lock, the detector and the breathing controller, and
// closes every observer channel.
func (guardian *Guardian) Close() {
	guardian.mu.Lock()
	if guardian.closed {
		guardian.mu.Unlock()
		return
	}
	guardian.closed = true
	if guardian.idlePoll != nil {
		guardian.idlePoll.Cancel()
		guardian.idlePoll = nil
	}
	subscribers := guardian.subscribers
	guardian.subscribers = nil
	guardian.mu.Unlock()

	guardian.detector.Close()
	guardian.breathing.Close()
	for _, ch := range subscribers {
		close(ch)
	}
}

func (guardian *Guardian) onSignal(signal trigger.Signal) {
	guardian.mu.Lock()
	defer guardian.mu.Unlock()
	if guardian.mode == ModeEmergency {
		return
	}
	guardian.lastSignal = &signal
	guardian.setModeLocked(ModeEmergency, ReasonTrigger)
}

func (guardian *Guardian) pollIdle() {
	guardian.mu.Lock()
	eligible := !guardian.closed && guardian.mode == ModeUnlocked && guardian.settings.AutoLock
	threshold := guardian.settings.AutoLockAfter
	guardian.mu.Unlock()
	if !eligible || threshold <= 0 {
		return
	}

	idle, err := guardian.options.IdleProbe.IdleDuration()
	if err != nil {
		if errors.Is(err, platform.ErrIdleUnsupported) {
			guardian.disableAutoLock()
			return
		}
		guardian.options.Logger.Debug("idle probe failed", zap.Error(err))
		return
	}
	if idle < threshold {
		return
	}

	guardian.options.Logger.Info("auto-lock after inactivity", zap.Duration("idle", idle))
	guardian.ReturnToDisguise(ReasonAutoLock)
}

func (guardian *Guardian) disableAutoLock() {
	guardian.mu.Lock()
	defer guardian.mu.Unlock()
	if guardian.idlePoll == nil {
		return
	}
	guardian.idlePoll.Cancel()
	guardian.idlePoll = nil
	guardian.options.Logger.Warn("auto-lock disabled: idle detection unsupported")
}

func (guardian *Guardian) setModeLocked(mode Mode, reason Reason) {
	if guardian.closed || guardian.mode == mode {
		return
	}
	event := ModeEvent{
		Mode:     mode,
		Previous: guardian.mode,
		Reason:   reason,
		At:       guardian.options.Clock.Now(),
	}
	guardian.mode = mode
	guardian.options.Logger.Info("mode changed",
		zap.String("from", string(event.Previous)),
		zap.String("to", string(mode)),
		zap.String("reason", string(reason)))

	for _, ch := range guardian.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}
