package scheduler

import (
	"sync"
	"time"
)

// Task is a handle to scheduled work.
type Task interface {
	// Cancel prevents future runs. It reports whether the task was still
	// pending; cancelling a fired one-shot task or a cancelled task returns false.
	Cancel() bool
}

// Scheduler registers delayed and periodic callbacks against a clock.
type Scheduler interface {
	Now() time.Time
	// Schedule runs fn once after delay.
	Schedule(delay time.Duration, fn func()) Task
	// SchedulePeriodically runs fn after initial and then every period until
	// the task is cancelled. Runs of one task never overlap.
	SchedulePeriodically(initial, period time.Duration, fn func()) Task
}

var defaultScheduler Scheduler = New()

// Default returns the shared wall-clock scheduler.
func Default() Scheduler { return defaultScheduler }

// realTime is the wall-clock Scheduler.
type realTime struct{}

// New creates a wall-clock scheduler.
func New() Scheduler { return realTime{} }

func (realTime) Now() time.Time { return time.Now() }

func (realTime) Schedule(delay time.Duration, fn func()) Task {
	return &timerTask{timer: time.AfterFunc(delay, fn)}
}

func (realTime) SchedulePeriodically(initial, period time.Duration, fn func()) Task {
	t := &periodicTask{stop: make(chan struct{})}
	go t.loop(initial, period, fn)
	return t
}

type timerTask struct {
	timer *time.Timer
}

func (t *timerTask) Cancel() bool { return t.timer.Stop() }

type periodicTask struct {
	stop chan struct{}
	once sync.Once
}

func (t *periodicTask) Cancel() bool {
	cancelled := false
	t.once.Do(func() {
		close(t.stop)
		cancelled = true
	})
	return cancelled
}

func (t *periodicTask) loop(initial, period time.Duration, fn func()) {
	first := time.NewTimer(initial)
	defer first.Stop()

	select {
	case <-t.stop:
		return
	case <-first.C:
	}
	if t.stopped() {
		return
	}
	fn()

	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-t.stop:
			return
		case <-ticker.C:
			if t.stopped() {
				return
			}
			fn()
		}
	}
}

// stopped reports a cancel that raced with a timer firing.
func (t *periodicTask) stopped() bool {
	select {
	case <-t.stop:
		return true
	default:
		return false
	}
}
