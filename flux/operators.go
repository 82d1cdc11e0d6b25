package flux

import (
	"context"

	"github.com/kbukum/fluxkit/logger"
)

// Map emits fn(v) for every upstream value.
func Map[T, R any](f *Flux[T], fn func(T) R) *Flux[R] {
	return newFlux("Map", func(ctx context.Context, down Sink[R]) {
		f.SubscribeWith(ctx, forward(down, func(v T) {
			down.Next(fn(v))
		}))
	})
}

// TryMap emits fn(v) for every upstream value. The first error returned by
// fn terminates the sequence with that error.
func TryMap[T, R any](f *Flux[T], fn func(T) (R, error)) *Flux[R] {
	return newFlux("TryMap", func(ctx context.Context, down Sink[R]) {
		f.SubscribeWith(ctx, forward(down, func(v T) {
			r, err := fn(v)
			if err != nil {
				down.Error(err)
				return
			}
			down.Next(r)
		}))
	})
}

// Filter emits only the values matching pred.
func (f *Flux[T]) Filter(pred func(T) bool) *Flux[T] {
	return newFlux("Filter", func(ctx context.Context, down Sink[T]) {
		f.SubscribeWith(ctx, forward(down, func(v T) {
			if pred(v) {
				down.Next(v)
			}
		}))
	})
}

// Take emits the first n values, then completes and cancels upstream.
func (f *Flux[T]) Take(n int) *Flux[T] {
	return newFlux("Take", func(ctx context.Context, down Sink[T]) {
		if n <= 0 {
			down.Complete()
			return
		}
		seen := 0
		f.SubscribeWith(ctx, forward(down, func(v T) {
			seen++
			down.Next(v)
			if seen == n {
				down.Complete()
			}
		}))
	})
}

// Skip drops the first n values.
func (f *Flux[T]) Skip(n int) *Flux[T] {
	return newFlux("Skip", func(ctx context.Context, down Sink[T]) {
		skipped := 0
		f.SubscribeWith(ctx, forward(down, func(v T) {
			if skipped < n {
				skipped++
				return
			}
			down.Next(v)
		}))
	})
}

// --- Side effects ---

// DoOnNext calls fn for every value before passing it on. An error from fn
// terminates the sequence with that error instead.
func (f *Flux[T]) DoOnNext(fn func(T) error) *Flux[T] {
	return newFlux("DoOnNext", func(ctx context.Context, down Sink[T]) {
		f.SubscribeWith(ctx, forward(down, func(v T) {
			if err := fn(v); err != nil {
				down.Error(err)
				return
			}
			down.Next(v)
		}))
	})
}

// DoOnError calls fn with the upstream error before propagating it.
func (f *Flux[T]) DoOnError(fn func(error)) *Flux[T] {
	return f.DoOnEach(func(s Signal[T]) {
		if s.Kind == KindError {
			fn(s.Err)
		}
	})
}

// DoOnComplete calls fn before propagating completion.
func (f *Flux[T]) DoOnComplete(fn func()) *Flux[T] {
	return f.DoOnEach(func(s Signal[T]) {
		if s.Kind == KindComplete {
			fn()
		}
	})
}

// DoOnTerminate calls fn before propagating error or completion.
func (f *Flux[T]) DoOnTerminate(fn func()) *Flux[T] {
	return f.DoOnEach(func(s Signal[T]) {
		if s.IsTerminal() {
			fn()
		}
	})
}

// DoOnEach calls fn with every signal before propagating it.
func (f *Flux[T]) DoOnEach(fn func(Signal[T])) *Flux[T] {
	return newFlux(f.name, func(ctx context.Context, down Sink[T]) {
		f.SubscribeWith(ctx, relay[T]{
			next: func(v T) {
				fn(NextSignal(v))
				down.Next(v)
			},
			err: func(err error) {
				fn(ErrorSignal[T](err))
				down.Error(err)
			},
			complete: func() {
				fn(CompleteSignal[T]())
				down.Complete()
			},
		})
	})
}

// Log writes every signal, plus subscription and cancellation, at debug
// level to the named logger category. An empty category defaults to
// "flux.<operator>".
func (f *Flux[T]) Log(category string) *Flux[T] {
	if category == "" {
		category = "flux." + f.name
	}
	return newFlux(f.name, func(ctx context.Context, down Sink[T]) {
		log := logger.Category(category).WithContext(ctx)
		log.Debug("onSubscribe")

		stop := context.AfterFunc(ctx, func() {
			log.Debug("cancel")
		})
		f.SubscribeWith(ctx, relay[T]{
			next: func(v T) {
				log.Debug(NextSignal(v).String(), logger.Fields(logger.FieldSignal, KindNext.String()))
				down.Next(v)
			},
			err: func(err error) {
				stop()
				log.Debug(ErrorSignal[T](err).String(), logger.Fields(logger.FieldSignal, KindError.String()))
				down.Error(err)
			},
			complete: func() {
				stop()
				log.Debug("onComplete()", logger.Fields(logger.FieldSignal, KindComplete.String()))
				down.Complete()
			},
		})
	})
}
