package flux

import (
	"context"
	"sync"
	"time"

	"github.com/kbukum/fluxkit/errors"
	"github.com/kbukum/fluxkit/scheduler"
)

// Interval emits 0, 1, 2, ... one per period on the default scheduler.
func Interval(period time.Duration) *Flux[int64] {
	return IntervalOn(period, scheduler.Default())
}

// IntervalOn emits 0, 1, 2, ... one per period on s, starting one period
// after subscription. It never completes; the periodic task is cancelled
// when the subscription ends.
func IntervalOn(period time.Duration, s scheduler.Scheduler) *Flux[int64] {
	return newFlux("Interval", func(ctx context.Context, sink Sink[int64]) {
		if period <= 0 {
			sink.Error(errors.InvalidInput("period", "must be positive"))
			return
		}

		var (
			mu   sync.Mutex
			task scheduler.Task
			n    int64
		)
		cancelTask := func() {
			mu.Lock()
			defer mu.Unlock()
			task.Cancel()
		}

		mu.Lock()
		task = s.SchedulePeriodically(period, period, func() {
			if ctx.Err() != nil {
				cancelTask()
				return
			}
			sink.Next(n)
			n++
		})
		mu.Unlock()

		context.AfterFunc(ctx, cancelTask)
	})
}

// DelayElements delays every value by period on the default scheduler.
func (f *Flux[T]) DelayElements(period time.Duration) *Flux[T] {
	return f.DelayElementsOn(period, scheduler.Default())
}

// DelayElementsOn re-emits every value of f on s, the first one period
// after it arrives and each following one period after the previous
// emission. Order and values are preserved. Completion waits for pending
// values; an error is propagated at once and drops them.
func (f *Flux[T]) DelayElementsOn(period time.Duration, s scheduler.Scheduler) *Flux[T] {
	return newFlux("DelayElements", func(ctx context.Context, down Sink[T]) {
		d := &delayer[T]{ctx: ctx, period: period, sched: s, down: down}
		context.AfterFunc(ctx, d.stop)
		f.SubscribeWith(ctx, relay[T]{next: d.push, err: d.fail, complete: d.finish})
	})
}

// delayer queues upstream values and releases them one per period. At most
// one emission task is scheduled at a time.
type delayer[T any] struct {
	ctx    context.Context
	period time.Duration
	sched  scheduler.Scheduler
	down   Sink[T]

	mu           sync.Mutex
	queue        []T
	task         scheduler.Task
	upstreamDone bool
}

func (d *delayer[T]) push(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.queue = append(d.queue, v)
	if d.task == nil {
		d.task = d.sched.Schedule(d.period, d.emit)
	}
}

// emit holds d.mu while delivering so completion cannot overtake a value.
func (d *delayer[T]) emit() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ctx.Err() != nil || len(d.queue) == 0 {
		d.task = nil
		return
	}

	v := d.queue[0]
	var zero T
	d.queue[0] = zero
	d.queue = d.queue[1:]

	if len(d.queue) > 0 {
		d.task = d.sched.Schedule(d.period, d.emit)
	} else {
		d.task = nil
	}

	d.down.Next(v)
	if d.task == nil && d.upstreamDone {
		d.down.Complete()
	}
}

func (d *delayer[T]) finish() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.upstreamDone = true
	if d.task == nil {
		d.down.Complete()
	}
}

func (d *delayer[T]) fail(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
	d.down.Error(err)
}

func (d *delayer[T]) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
}

func (d *delayer[T]) cancelLocked() {
	if d.task != nil {
		d.task.Cancel()
		d.task = nil
	}
	d.queue = nil
}
