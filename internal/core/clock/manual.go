package clock

import (
	"sync"
	"time"
)

// Manual is a Clock that only moves when Advance is called.
// Callbacks run on the goroutine calling Advance, one at a time, ordered by
// due time and then by scheduling order.
type Manual struct {
	mu     sync.Mutex
	now    time.Time
	seq    uint64
	timers []*manualTimer
}

type manualTimer struct {
	clock  *Manual
	due    time.Time
	period time.Duration
	seq    uint64
	fn     func()
	done   bool
}

// NewManual creates a manual clock starting at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the manual clock time.
func (clock *Manual) Now() time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.now
}

// AfterFunc schedules fn once after delay.
func (clock *Manual) AfterFunc(delay time.Duration, fn func()) Handle {
	if delay < 0 {
		delay = 0
	}
	return clock.schedule(delay, 0, fn)
}

// Every schedules fn repeatedly with the given period.
func (clock *Manual) Every(period time.Duration, fn func()) Handle {
	if period < minPeriod {
		period = minPeriod
	}
	return clock.schedule(period, period, fn)
}

// Advance moves the clock forward, firing every callback that becomes due.
// Callbacks scheduled by a firing callback are fired too if they fall due
// within the advanced window.
func (clock *Manual) Advance(delta time.Duration) {
	clock.mu.Lock()
	target := clock.now.Add(delta)
	clock.mu.Unlock()

	for {
		clock.mu.Lock()
		next := clock.nextDueLocked(target)
		if next == nil {
			clock.now = target
			clock.mu.Unlock()
			return
		}
		clock.now = next.due
		if next.period > 0 {
			next.due = next.due.Add(next.period)
			clock.seq++
			next.seq = clock.seq
		} else {
			next.done = true
			clock.removeLocked(next)
		}
		fn := next.fn
		clock.mu.Unlock()

		fn()
	}
}

// Pending returns the number of scheduled callbacks that can still fire.
func (clock *Manual) Pending() int {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return len(clock.timers)
}

func (clock *Manual) schedule(delay, period time.Duration, fn func()) *manualTimer {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	clock.seq++
	timer := &manualTimer{
		clock:  clock,
		due:    clock.now.Add(delay),
		period: period,
		seq:    clock.seq,
		fn:     fn,
	}
	clock.timers = append(clock.timers, timer)
	return timer
}

func (clock *Manual) nextDueLocked(target time.Time) *manualTimer {
	var next *manualTimer
	for _, timer := range clock.timers {
		if timer.due.After(target) {
			continue
		}
		if next == nil || timer.due.Before(next.due) || (timer.due.Equal(next.due) && timer.seq < next.seq) {
			next = timer
		}
	}
	return next
}

func (clock *Manual) removeLocked(target *manualTimer) {
	for index, timer := range clock.timers {
		if timer == target {
			clock.timers = append(clock.timers[:index], clock.timers[index+1:]...)
			return
		}
	}
}

func (timer *manualTimer) Cancel() {
	timer.clock.mu.Lock()
	defer timer.clock.mu.Unlock()
	if timer.done {
		return
	}
	timer.done = true
	timer.clock.removeLocked(timer)
}

func (timer *manualTimer) Active() bool {
	timer.clock.mu.Lock()
	defer timer.clock.mu.Unlock()
	return !timer.done
}
