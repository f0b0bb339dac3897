// Package animation drives the breathing circle between its rest and full
// sizes in step with the breathing phases.
package animation

import (
	"context"
	"sync"
	"time"

	"safecalc/internal/core/breathing"
)

// Engine interpolates the circle scale on its own goroutine and reports
// every frame through the update callback.
type Engine struct {
	mu     sync.Mutex
	config Config
	scale  float32
	update func(float32)
	cancel context.CancelFunc
}

// New creates an engine resting at the minimum scale.
func New(config Config, update func(float32)) *Engine {
	config = normalizeConfig(config)
	return &Engine{
		config: config,
		scale:  config.MinScale,
		update: update,
	}
}

// Scale returns the most recent frame's scale.
func (engine *Engine) Scale() float32 {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.scale
}

// AnimatePhase starts moving the circle towards the phase's target scale
// over duration, replacing any running animation.
func (engine *Engine) AnimatePhase(ctx context.Context, phase breathing.Phase, duration time.Duration) {
	engine.mu.Lock()
	from := engine.scale
	to := TargetScale(phase, from, engine.config)
	engine.mu.Unlock()

	engine.start(ctx, func(runCtx context.Context) {
		engine.run(runCtx, from, to, duration)
	})
}

// Rest snaps the circle back to the minimum scale.
func (engine *Engine) Rest() {
	engine.Stop()
	engine.setScale(engine.config.MinScale)
}

// Stop terminates any active animation.
func (engine *Engine) Stop() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.cancel != nil {
		engine.cancel()
		engine.cancel = nil
	}
}

func (engine *Engine) start(parent context.Context, run func(context.Context)) {
	engine.mu.Lock()
	if engine.cancel != nil {
		engine.cancel()
	}
	runCtx, cancel := context.WithCancel(parent)
	engine.cancel = cancel
	engine.mu.Unlock()

	go run(runCtx)
}

func (engine *Engine) run(ctx context.Context, from, to float32, duration time.Duration) {
	if duration <= 0 || from == to {
		engine.setScale(to)
		return
	}

	start := time.Now()
	for {
		elapsed := time.Since(start)
		if elapsed >= duration {
			if ctx.Err() == nil {
				engine.setScale(to)
			}
			return
		}
		engine.setScale(Interpolate(from, to, float32(elapsed)/float32(duration)))
		if !sleepWithContext(ctx, engine.config.FrameInterval) {
			return
		}
	}
}

func (engine *Engine) setScale(scale float32) {
	engine.mu.Lock()
	engine.scale = scale
	update := engine.update
	engine.mu.Unlock()
	if update != nil {
		update(scale)
	}
}

func sleepWithContext(ctx context.Context, duration time.Duration) bool {
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
