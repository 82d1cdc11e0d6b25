package flux

import (
	"context"
	"sync/atomic"
)

// FlatMap subscribes to fn(v) for every upstream value and merges the
// resulting sequences. An inner error terminates the whole sequence; it
// completes once upstream and every inner sequence have completed.
//
// Inner sequences that emit synchronously run to completion before the next
// upstream value is handled, so input order is preserved. Timed inner
// sequences interleave.
func FlatMap[T, R any](f *Flux[T], fn func(T) *Flux[R]) *Flux[R] {
	return newFlux("FlatMap", func(ctx context.Context, down Sink[R]) {
		m := newMerger(down)
		f.SubscribeWith(ctx, relay[T]{
			next: func(v T) {
				m.subscribe(ctx, fn(v))
			},
			err:      down.Error,
			complete: m.done,
		})
	})
}

// Merge subscribes to every source at once and merges their values.
func Merge[T any](sources ...*Flux[T]) *Flux[T] {
	return newFlux("Merge", func(ctx context.Context, down Sink[T]) {
		m := newMerger(down)
		for _, src := range sources {
			if ctx.Err() != nil {
				return
			}
			m.subscribe(ctx, src)
		}
		m.done()
	})
}

// Concat subscribes to the sources one after another.
func Concat[T any](sources ...*Flux[T]) *Flux[T] {
	return newFlux("Concat", func(ctx context.Context, down Sink[T]) {
		var subscribeAt func(i int)
		subscribeAt = func(i int) {
			if i == len(sources) {
				down.Complete()
				return
			}
			sources[i].SubscribeWith(ctx, relay[T]{
				next:     down.Next,
				err:      down.Error,
				complete: func() { subscribeAt(i + 1) },
			})
		}
		subscribeAt(0)
	})
}

// merger completes down once the outer source and every inner source it
// started have completed. The outer source holds one count.
type merger[T any] struct {
	down   Sink[T]
	active atomic.Int64
}

func newMerger[T any](down Sink[T]) *merger[T] {
	m := &merger[T]{down: down}
	m.active.Store(1)
	return m
}

func (m *merger[T]) subscribe(ctx context.Context, src *Flux[T]) {
	if src == nil {
		return
	}
	m.active.Add(1)
	src.SubscribeWith(ctx, relay[T]{
		next:     m.down.Next,
		err:      m.down.Error,
		complete: m.done,
	})
}

func (m *merger[T]) done() {
	if m.active.Add(-1) == 0 {
		m.down.Complete()
	}
}
