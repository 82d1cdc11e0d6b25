package flux

import (
	"context"
	"sync"
)

// strictSink serializes signals to down and enforces the terminal rules:
// nothing is delivered after Error or Complete, or once ctx is done.
type strictSink[T any] struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu   sync.Mutex
	done bool
	down Sink[T]
}

func newStrictSink[T any](ctx context.Context, cancel context.CancelFunc, down Sink[T]) *strictSink[T] {
	return &strictSink[T]{ctx: ctx, cancel: cancel, down: down}
}

func (s *strictSink[T]) Next(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done || s.ctx.Err() != nil {
		return
	}
	s.down.Next(v)
}

func (s *strictSink[T]) Error(err error) {
	s.terminate(func() { s.down.Error(err) })
}

func (s *strictSink[T]) Complete() {
	s.terminate(s.down.Complete)
}

func (s *strictSink[T]) terminate(deliver func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done || s.ctx.Err() != nil {
		return
	}
	s.done = true
	deliver()
	s.cancel()
}
