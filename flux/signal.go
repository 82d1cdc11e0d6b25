package flux

import (
	"context"
	"fmt"
)

// Kind tags a Signal.
type Kind int

const (
	KindNext Kind = iota
	KindError
	KindComplete
)

func (k Kind) String() string {
	switch k {
	case KindNext:
		return "onNext"
	case KindError:
		return "onError"
	case KindComplete:
		return "onComplete"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Signal is one event of a sequence: a value, an error or completion.
type Signal[T any] struct {
	Kind  Kind
	Value T
	Err   error
}

// NextSignal wraps a value.
func NextSignal[T any](v T) Signal[T] { return Signal[T]{Kind: KindNext, Value: v} }

// ErrorSignal wraps a failure.
func ErrorSignal[T any](err error) Signal[T] { return Signal[T]{Kind: KindError, Err: err} }

// CompleteSignal marks completion.
func CompleteSignal[T any]() Signal[T] { return Signal[T]{Kind: KindComplete} }

// IsTerminal reports whether s ends a sequence.
func (s Signal[T]) IsTerminal() bool { return s.Kind != KindNext }

func (s Signal[T]) String() string {
	switch s.Kind {
	case KindNext:
		return fmt.Sprintf("onNext(%v)", s.Value)
	case KindError:
		return fmt.Sprintf("onError(%v)", s.Err)
	default:
		return s.Kind.String() + "()"
	}
}

// Dispatch delivers s to sink.
func (s Signal[T]) Dispatch(sink Sink[T]) {
	switch s.Kind {
	case KindNext:
		sink.Next(s.Value)
	case KindError:
		sink.Error(s.Err)
	case KindComplete:
		sink.Complete()
	}
}

// Materialize turns every signal of f into a value. The error or completion
// of f is emitted as a final Signal, after which the result completes.
func Materialize[T any](f *Flux[T]) *Flux[Signal[T]] {
	return newFlux("Materialize", func(ctx context.Context, down Sink[Signal[T]]) {
		f.SubscribeWith(ctx, relay[T]{
			next: func(v T) { down.Next(NextSignal(v)) },
			err: func(err error) {
				down.Next(ErrorSignal[T](err))
				down.Complete()
			},
			complete: func() {
				down.Next(CompleteSignal[T]())
				down.Complete()
			},
		})
	})
}

// Dematerialize replays a stream of signals as a sequence.
func Dematerialize[T any](f *Flux[Signal[T]]) *Flux[T] {
	return newFlux("Dematerialize", func(ctx context.Context, down Sink[T]) {
		f.SubscribeWith(ctx, forward(down, func(s Signal[T]) {
			s.Dispatch(down)
		}))
	})
}
