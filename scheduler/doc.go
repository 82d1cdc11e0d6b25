// Package scheduler abstracts the clock that timed sequences run on.
//
// A Scheduler registers delayed and periodic callbacks. New returns the
// wall-clock implementation backed by time.Timer and time.Ticker.
// NewVirtual returns a manually advanced clock for deterministic tests:
//
//	vs := scheduler.NewVirtual(time.Time{})
//	sub := flux.IntervalOn(time.Second, vs).Take(3).Subscribe(ctx, h)
//	vs.AdvanceBy(3 * time.Second) // h.OnNext sees 0, 1, 2
//
// Tasks on the virtual scheduler run on the goroutine calling AdvanceBy or
// AdvanceTo, in due-time order, including tasks scheduled while advancing.
package scheduler
