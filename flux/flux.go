package flux

import (
	"context"
	"iter"

	"github.com/kbukum/fluxkit/errors"
)

// Sink receives the signals of one subscription.
type Sink[T any] interface {
	Next(v T)
	Error(err error)
	Complete()
}

// Producer emits the elements of one subscription into sink. It may emit
// synchronously or register background work, and must stop once ctx is done.
type Producer[T any] func(ctx context.Context, sink Sink[T])

// Flux is a lazy sequence of T. It is immutable and may be subscribed any
// number of times.
type Flux[T any] struct {
	name    string
	produce Producer[T]
}

func newFlux[T any](name string, produce Producer[T]) *Flux[T] {
	return &Flux[T]{name: name, produce: produce}
}

// Name returns the name of the operator that built f.
func (f *Flux[T]) Name() string { return f.name }

// SubscribeWith runs the producer of f against sink. The sink handed to the
// producer is serialized and terminal-guarded, and a terminal signal cancels
// the context the producer runs under. It returns once the producer returns.
func (f *Flux[T]) SubscribeWith(ctx context.Context, sink Sink[T]) {
	sctx, cancel := context.WithCancel(ctx)
	if sctx.Err() != nil {
		cancel()
		return
	}
	f.produce(sctx, newStrictSink(sctx, cancel, sink))
}

// relay is a Sink made of callbacks; operators use it to wrap downstream.
type relay[T any] struct {
	next     func(T)
	err      func(error)
	complete func()
}

func (r relay[T]) Next(v T)        { r.next(v) }
func (r relay[T]) Error(err error) { r.err(err) }
func (r relay[T]) Complete()       { r.complete() }

// forward builds a relay that passes terminal signals to down unchanged.
func forward[T, R any](down Sink[R], next func(T)) relay[T] {
	return relay[T]{next: next, err: down.Error, complete: down.Complete}
}

// --- Constructors ---

// Create builds a Flux from a producer function.
func Create[T any](produce Producer[T]) *Flux[T] {
	return newFlux("Create", produce)
}

// Just emits the given values in order, then completes.
func Just[T any](values ...T) *Flux[T] {
	f := FromSlice(values)
	f.name = "Just"
	return f
}

// FromSlice emits the items in order, then completes.
func FromSlice[T any](items []T) *Flux[T] {
	return newFlux("FromSlice", func(ctx context.Context, sink Sink[T]) {
		for _, v := range items {
			if ctx.Err() != nil {
				return
			}
			sink.Next(v)
		}
		sink.Complete()
	})
}

// Range emits count consecutive integers starting at start.
func Range(start, count int) *Flux[int] {
	return newFlux("Range", func(ctx context.Context, sink Sink[int]) {
		if count < 0 {
			sink.Error(errors.InvalidInput("count", "must not be negative"))
			return
		}
		for i := range count {
			if ctx.Err() != nil {
				return
			}
			sink.Next(start + i)
		}
		sink.Complete()
	})
}

// Empty completes without emitting.
func Empty[T any]() *Flux[T] {
	return newFlux("Empty", func(_ context.Context, sink Sink[T]) {
		sink.Complete()
	})
}

// Error fails immediately with err.
func Error[T any](err error) *Flux[T] {
	return newFlux("Error", func(_ context.Context, sink Sink[T]) {
		sink.Error(err)
	})
}

// Never emits nothing and never terminates.
func Never[T any]() *Flux[T] {
	return newFlux("Never", func(context.Context, Sink[T]) {})
}

// Defer calls factory on every subscription and subscribes to its result.
func Defer[T any](factory func() *Flux[T]) *Flux[T] {
	return newFlux("Defer", func(ctx context.Context, sink Sink[T]) {
		factory().SubscribeWith(ctx, sink)
	})
}

// FromSeq emits the values of a range-over-func sequence. The sequence is
// iterated anew for every subscription.
func FromSeq[T any](seq iter.Seq[T]) *Flux[T] {
	return newFlux("FromSeq", func(ctx context.Context, sink Sink[T]) {
		for v := range seq {
			if ctx.Err() != nil {
				return
			}
			sink.Next(v)
		}
		sink.Complete()
	})
}
