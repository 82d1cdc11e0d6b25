package flux

import (
	"context"
)

// Mono is a sequence of at most one value.
type Mono[T any] struct {
	flux *Flux[T]
}

func monoOf[T any](f *Flux[T]) *Mono[T] {
	return &Mono[T]{flux: f}
}

// JustMono emits v, then completes.
func JustMono[T any](v T) *Mono[T] {
	f := Just(v)
	f.name = "MonoJust"
	return monoOf(f)
}

// EmptyMono completes without a value.
func EmptyMono[T any]() *Mono[T] { return monoOf(Empty[T]()) }

// ErrorMono fails with err.
func ErrorMono[T any](err error) *Mono[T] { return monoOf(Error[T](err)) }

// FromCallable calls fn on every subscription and emits its result, or
// fails with its error.
func FromCallable[T any](fn func() (T, error)) *Mono[T] {
	return monoOf(newFlux("MonoCallable", func(_ context.Context, sink Sink[T]) {
		v, err := fn()
		if err != nil {
			sink.Error(err)
			return
		}
		sink.Next(v)
		sink.Complete()
	}))
}

// Flux returns m as a Flux.
func (m *Mono[T]) Flux() *Flux[T] { return m.flux }

// Name returns the name of the operator that built m.
func (m *Mono[T]) Name() string { return m.flux.name }

// Subscribe activates m. See Flux.Subscribe.
func (m *Mono[T]) Subscribe(ctx context.Context, h Handlers[T]) *Subscription {
	return m.flux.Subscribe(ctx, h)
}

// Block subscribes and waits for the value. ok is false if m completed
// empty.
func (m *Mono[T]) Block(ctx context.Context) (v T, ok bool, err error) {
	return m.flux.BlockLast(ctx)
}

// MapMono emits fn of the value of m.
func MapMono[T, R any](m *Mono[T], fn func(T) R) *Mono[R] {
	return monoOf(Map(m.flux, fn))
}

// FlatMapMono subscribes to fn of the value of m.
func FlatMapMono[T, R any](m *Mono[T], fn func(T) *Mono[R]) *Mono[R] {
	return monoOf(FlatMap(m.flux, func(v T) *Flux[R] {
		if inner := fn(v); inner != nil {
			return inner.flux
		}
		return nil
	}))
}

// FlatMapMany expands the value of m into a sequence.
func FlatMapMany[T, R any](m *Mono[T], fn func(T) *Flux[R]) *Flux[R] {
	return FlatMap(m.flux, fn)
}

// ZipMono combines the values of a and b. It completes empty if either
// does.
func ZipMono[A, B, R any](a *Mono[A], b *Mono[B], combine func(A, B) R) *Mono[R] {
	return monoOf(ZipWith(a.flux, b.flux, combine))
}
