package breathing

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"safecalc/internal/core/clock"
	"safecalc/internal/core/model"
)

// Options contains runtime collaborators for the Controller.
type Options struct {
	Clock    clock.Clock
	Notifier Notifier
	Logger   *zap.Logger
}

// Controller runs one breathing session at a time.
//
// Two timers drive a running session: a one-shot phase timer rescheduled
// with the duration of each new phase, and a one second countdown. Both
// run their transitions under the controller lock and the first one to
// complete the session wins; the other observes Completed and stays quiet.
// Each (re)start bumps a generation so callbacks from cancelled timers are
// dropped.
type Controller struct {
	mu         sync.Mutex
	config     model.BreathingConfig
	options    Options
	session    Session
	phaseTimer clock.Handle
	countdown  clock.Handle
	generation uint64
	events     []chan Event
	onComplete func(Completion)
	closed     bool
}

// New creates a Controller in the reset state.
func New(config model.BreathingConfig, options Options) *Controller {
	if options.Clock == nil {
		options.Clock = clock.Real()
	}
	if options.Logger == nil {
		options.Logger = zap.NewNop()
	}
	config = normalizeConfig(config)
	return &Controller{
		config:  config,
		options: options,
		session: NewSession(config),
	}
}

// Subscribe registers a new observer channel. Slow observers miss events.
func (controller *Controller) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	controller.mu.Lock()
	defer controller.mu.Unlock()
	if controller.closed {
		close(ch)
		return ch
	}
	controller.events = append(controller.events, ch)
	return ch
}

// SetOnComplete registers the one-shot completion handler.
func (controller *Controller) SetOnComplete(handler func(Completion)) {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	controller.onComplete = handler
}

// Snapshot returns the current session.
func (controller *Controller) Snapshot() Session {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return controller.session
}

// Config returns the active configuration.
func (controller *Controller) Config() model.BreathingConfig {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return controller.config
}

// Start begins or resumes the session at the in phase. A completed session
// starts over from the initial state.
func (controller *Controller) Start() {
	controller.mu.Lock()
	if controller.closed || controller.session.Active {
		controller.mu.Unlock()
		return
	}
	if controller.session.Completed {
		controller.session = NewSession(controller.config)
	}
	if controller.session.ID == "" {
		controller.session.ID = uuid.NewString()
	}

	controller.cancelTimersLocked()
	controller.session.Phase = PhaseIn
	controller.session.Active = true
	generation := controller.generation
	controller.schedulePhaseLocked(generation)
	controller.countdown = controller.options.Clock.Every(countdownStep, func() {
		controller.onCountdown(generation)
	})

	session := controller.session
	sound := controller.config.SoundEnabled
	controller.emitLocked(EventStarted)
	controller.mu.Unlock()

	controller.options.Logger.Info("breathing session started",
		zap.String("session_id", session.ID),
		zap.Int("cycle", session.CycleIndex),
		zap.Int("total_cycles", session.TotalCycles),
		zap.Duration("remaining", session.Remaining))
	controller.playCue(sound, CueIn)
}

// Pause stops both timers and keeps the cycle index and remaining time.
func (controller *Controller) Pause() {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	controller.cancelTimersLocked()
	if !controller.session.Active {
		return
	}
	controller.session.Active = false
	controller.emitLocked(EventPaused)
	controller.options.Logger.Debug("breathing session paused",
		zap.String("session_id", controller.session.ID),
		zap.Duration("remaining", controller.session.Remaining))
}

// Reset stops both timers and restores the initial session.
func (controller *Controller) Reset() {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	controller.cancelTimersLocked()
	controller.session = NewSession(controller.config)
	controller.emitLocked(EventReset)
}

// UpdateConfig replaces the configuration. An idle session is reset to the
// new configuration; a running one keeps its cycle accounting until the
// next reset or fresh start.
func (controller *Controller) UpdateConfig(config model.BreathingConfig) {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	controller.config = normalizeConfig(config)
	if controller.session.Active {
		return
	}
	controller.cancelTimersLocked()
	controller.session = NewSession(controller.config)
	controller.emitLocked(EventReset)
}

// Close stops the timers and closes every observer channel.
func (controller *Controller) Close() {
	controller.mu.Lock()
	if controller.closed {
		controller.mu.Unlock()
		return
	}
	controller.closed = true
	controller.cancelTimersLocked()
	controller.session.Active = false
	events := controller.events
	controller.events = nil
	controller.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

func (controller *Controller) onPhaseTimer(generation uint64) {
	controller.mu.Lock()
	if generation != controller.generation || !controller.session.Active {
		controller.mu.Unlock()
		return
	}

	controller.session = AdvancePhase(controller.session)
	if controller.session.Completed {
		completion, handler := controller.finishLocked(ReasonCycles)
		sound := controller.config.SoundEnabled
		controller.mu.Unlock()
		controller.complete(sound, completion, handler)
		return
	}

	controller.schedulePhaseLocked(generation)
	phase := controller.session.Phase
	sound := controller.config.SoundEnabled
	controller.emitLocked(EventPhase)
	controller.mu.Unlock()

	controller.playCue(sound, cueForPhase(phase))
}

func (controller *Controller) onCountdown(generation uint64) {
	controller.mu.Lock()
	if generation != controller.generation || !controller.session.Active {
		controller.mu.Unlock()
		return
	}

	controller.session = Tick(controller.session)
	if controller.session.Completed {
		completion, handler := controller.finishLocked(ReasonCountdown)
		sound := controller.config.SoundEnabled
		controller.mu.Unlock()
		controller.complete(sound, completion, handler)
		return
	}

	controller.emitLocked(EventProgress)
	controller.mu.Unlock()
}

// finishLocked runs once per session: both timer paths reach it only
// through the Completed transition of the pure session functions, which
// are no-ops on an already completed session.
func (controller *Controller) finishLocked(reason CompletionReason) (Completion, func(Completion)) {
	controller.cancelTimersLocked()
	controller.emitLocked(EventCompleted)
	return Completion{
		SessionID: controller.session.ID,
		Reason:    reason,
		Session:   controller.session,
		At:        controller.options.Clock.Now(),
	}, controller.onComplete
}

func (controller *Controller) complete(sound bool, completion Completion, handler func(Completion)) {
	controller.options.Logger.Info("breathing session completed",
		zap.String("session_id", completion.SessionID),
		zap.String("reason", string(completion.Reason)),
		zap.Int("cycles", completion.Session.CycleIndex))
	controller.playCue(sound, CueComplete)
	if handler != nil {
		handler(completion)
	}
}

func (controller *Controller) schedulePhaseLocked(generation uint64) {
	delay := controller.session.Phase.Duration(controller.config.Pattern)
	controller.phaseTimer = controller.options.Clock.AfterFunc(delay, func() {
		controller.onPhaseTimer(generation)
	})
}

func (controller *Controller) cancelTimersLocked() {
	controller.generation++
	if controller.phaseTimer != nil {
		controller.phaseTimer.Cancel()
		controller.phaseTimer = nil
	}
	if controller.countdown != nil {
		controller.countdown.Cancel()
		controller.countdown = nil
	}
}

func (controller *Controller) playCue(enabled bool, cue Cue) {
	if !enabled || controller.options.Notifier == nil {
		return
	}
	if err := controller.options.Notifier.Notify(cue); err != nil {
		controller.options.Logger.Debug("sound cue failed", zap.String("cue", string(cue)), zap.Error(err))
	}
}

func (controller *Controller) emitLocked(eventType EventType) {
	event := Event{
		Type:    eventType,
		Session: controller.session,
		At:      controller.options.Clock.Now(),
	}
	for _, ch := range controller.events {
		select {
		case ch <- event:
		default:
		}
	}
}

func normalizeConfig(config model.BreathingConfig) model.BreathingConfig {
	config.TotalDuration = nonNegative(config.TotalDuration)
	config.Pattern.In = nonNegative(config.Pattern.In)
	config.Pattern.Hold = nonNegative(config.Pattern.Hold)
	config.Pattern.Out = nonNegative(config.Pattern.Out)
	config.Pattern.Rest = nonNegative(config.Pattern.Rest)
	return config
}

func nonNegative(value time.Duration) time.Duration {
	if value < 0 {
		return 0
	}
	return value
}
