// Package clock provides cancellable one-shot and periodic scheduling
// shared by the trigger detector and the breathing controller.
package clock

import (
	"sync"
	"sync/atomic"
	"time"
)

// minPeriod bounds periodic schedules so a zero period cannot spin.
const minPeriod = time.Millisecond

// Handle is a scheduled callback that can be cancelled.
// Cancel is idempotent and safe to call after the callback fired.
type Handle interface {
	Cancel()
	Active() bool
}

// Clock schedules callbacks and reports the current time.
type Clock interface {
	Now() time.Time
	AfterFunc(delay time.Duration, fn func()) Handle
	Every(period time.Duration, fn func()) Handle
}

// Real returns a Clock backed by the runtime timers.
func Real() Clock {
	return realClock{}
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) AfterFunc(delay time.Duration, fn func()) Handle {
	if delay < 0 {
		delay = 0
	}
	handle := &timerHandle{}
	handle.timer = time.AfterFunc(delay, func() {
		if handle.done.CompareAndSwap(false, true) {
			fn()
		}
	})
	return handle
}

func (realClock) Every(period time.Duration, fn func()) Handle {
	if period < minPeriod {
		period = minPeriod
	}
	handle := &tickerHandle{stopCh: make(chan struct{})}
	go handle.run(period, fn)
	return handle
}

type timerHandle struct {
	timer *time.Timer
	done  atomic.Bool
}

func (handle *timerHandle) Cancel() {
	if handle.done.CompareAndSwap(false, true) {
		handle.timer.Stop()
	}
}

func (handle *timerHandle) Active() bool {
	return !handle.done.Load()
}

type tickerHandle struct {
	stopCh  chan struct{}
	once    sync.Once
	stopped atomic.Bool
}

func (handle *tickerHandle) run(period time.Duration, fn func()) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-handle.stopCh:
			return
		case <-ticker.C:
			if handle.stopped.Load() {
				return
			}
			fn()
		}
	}
}

func (handle *tickerHandle) Cancel() {
	handle.once.Do(func() {
		handle.stopped.Store(true)
		close(handle.stopCh)
	})
}

func (handle *tickerHandle) Active() bool {
	return !handle.stopped.Load()
}
