package flux

import (
	"context"
	"sync"

	"github.com/kbukum/fluxkit/logger"
	"github.com/kbukum/fluxkit/resilience"
	"github.com/kbukum/fluxkit/scheduler"
)

// Retry resubscribes to f on error, at most n times, then propagates the
// last error. Values delivered before a failure are not withdrawn, and every
// error is retried.
func (f *Flux[T]) Retry(n int) *Flux[T] {
	return newFlux("Retry", func(ctx context.Context, down Sink[T]) {
		remaining := n
		var r *resubscriber[T]
		r = newResubscriber(ctx, f, down, func(err error) {
			if remaining <= 0 || ctx.Err() != nil {
				down.Error(err)
				return
			}
			remaining--
			r.again()
		})
		r.again()
	})
}

// RetryBackoff resubscribes to f on error following cfg on the default
// scheduler. See RetryBackoffOn.
func (f *Flux[T]) RetryBackoff(cfg resilience.RetryConfig) *Flux[T] {
	return f.RetryBackoffOn(cfg, scheduler.Default())
}

// RetryBackoffOn resubscribes to f on error while cfg allows it: at most
// MaxAttempts subscriptions in total, only for errors accepted by RetryIf,
// each delayed by the configured exponential backoff on s. OnRetry is
// called before each delay.
func (f *Flux[T]) RetryBackoffOn(cfg resilience.RetryConfig, s scheduler.Scheduler) *Flux[T] {
	cfg = cfg.WithDefaults()
	return newFlux("RetryBackoff", func(ctx context.Context, down Sink[T]) {
		log := logger.Category("flux.retry").WithContext(ctx)
		attempt := 1
		var r *resubscriber[T]
		r = newResubscriber(ctx, f, down, func(err error) {
			if ctx.Err() != nil || !cfg.ShouldRetry(attempt, err) {
				down.Error(err)
				return
			}
			backoff := cfg.Backoff(attempt)
			if cfg.OnRetry != nil {
				cfg.OnRetry(attempt, err, backoff)
			}
			log.Debug("retrying", logger.Fields(
				logger.FieldAttempt, attempt,
				logger.FieldBackoff, backoff.Milliseconds(),
				logger.FieldError, err.Error(),
			))
			attempt++

			task := s.Schedule(backoff, r.again)
			context.AfterFunc(ctx, func() { task.Cancel() })
		})
		r.again()
	})
}

// resubscriber subscribes to a source again each time again is called.
// A call made while a subscription is still being set up is looped rather
// than recursed.
type resubscriber[T any] struct {
	ctx   context.Context
	src   *Flux[T]
	sink  relay[T]
	mu    sync.Mutex
	busy  bool
	queue bool
}

func newResubscriber[T any](ctx context.Context, src *Flux[T], down Sink[T], onError func(error)) *resubscriber[T] {
	return &resubscriber[T]{
		ctx:  ctx,
		src:  src,
		sink: relay[T]{next: down.Next, err: onError, complete: down.Complete},
	}
}

func (r *resubscriber[T]) again() {
	r.mu.Lock()
	if r.busy {
		r.queue = true
		r.mu.Unlock()
		return
	}
	r.busy = true
	for {
		r.queue = false
		r.mu.Unlock()

		if r.ctx.Err() == nil {
			r.src.SubscribeWith(r.ctx, r.sink)
		}

		r.mu.Lock()
		if !r.queue || r.ctx.Err() != nil {
			r.busy = false
			r.mu.Unlock()
			return
		}
	}
}
