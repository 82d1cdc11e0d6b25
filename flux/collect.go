package flux

import (
	"context"

	"github.com/kbukum/fluxkit/errors"
)

// CollectList emits the ordered list of all upstream values once upstream
// completes. An empty upstream yields one empty, non-nil list.
func CollectList[T any](f *Flux[T]) *Mono[[]T] {
	return monoOf(newFlux("CollectList", func(ctx context.Context, down Sink[[]T]) {
		items := []T{}
		f.SubscribeWith(ctx, relay[T]{
			next: func(v T) { items = append(items, v) },
			err:  down.Error,
			complete: func() {
				down.Next(items)
				down.Complete()
			},
		})
	}))
}

// Reduce folds every upstream value into an accumulator and emits the
// result on completion. An empty upstream yields initial.
func Reduce[T, R any](f *Flux[T], initial R, fn func(R, T) R) *Mono[R] {
	return monoOf(newFlux("Reduce", func(ctx context.Context, down Sink[R]) {
		acc := initial
		f.SubscribeWith(ctx, relay[T]{
			next: func(v T) { acc = fn(acc, v) },
			err:  down.Error,
			complete: func() {
				down.Next(acc)
				down.Complete()
			},
		})
	}))
}

// Count emits the number of upstream values.
func Count[T any](f *Flux[T]) *Mono[int64] {
	m := Reduce(f, int64(0), func(n int64, _ T) int64 { return n + 1 })
	m.flux.name = "Count"
	return m
}

// Next emits the first upstream value and cancels the rest. An empty
// upstream completes the Mono empty.
func Next[T any](f *Flux[T]) *Mono[T] {
	return monoOf(newFlux("Next", func(ctx context.Context, down Sink[T]) {
		f.SubscribeWith(ctx, forward(down, func(v T) {
			down.Next(v)
			down.Complete()
		}))
	}))
}

// Buffer groups upstream values into slices of size. The last, possibly
// shorter, batch is emitted on completion.
func Buffer[T any](f *Flux[T], size int) *Flux[[]T] {
	return newFlux("Buffer", func(ctx context.Context, down Sink[[]T]) {
		if size <= 0 {
			down.Error(errors.InvalidInput("size", "must be positive"))
			return
		}
		batch := make([]T, 0, size)
		f.SubscribeWith(ctx, relay[T]{
			next: func(v T) {
				batch = append(batch, v)
				if len(batch) == size {
					down.Next(batch)
					batch = make([]T, 0, size)
				}
			},
			err: down.Error,
			complete: func() {
				if len(batch) > 0 {
					down.Next(batch)
				}
				down.Complete()
			},
		})
	})
}
