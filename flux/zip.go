package flux

import (
	"context"
	"fmt"
	"sync"
)

// ZipPrefetch is the number of unpaired values a zip side queues before
// its producer blocks.
const ZipPrefetch = 32

// Tuple2 is a pair produced by Zip.
type Tuple2[A, B any] struct {
	T1 A
	T2 B
}

func (t Tuple2[A, B]) String() string { return fmt.Sprintf("[%v,%v]", t.T1, t.T2) }

// Zip pairs the nth values of a and b.
func Zip[A, B any](a *Flux[A], b *Flux[B]) *Flux[Tuple2[A, B]] {
	return ZipWith(a, b, func(x A, y B) Tuple2[A, B] { return Tuple2[A, B]{T1: x, T2: y} })
}

// ZipWith emits combine(a[n], b[n]) for every n and completes as soon as
// either side is exhausted, so it emits as many values as the shorter side.
//
// Each side is subscribed on its own goroutine. A side that gets ahead
// queues up to ZipPrefetch unpaired values without blocking the goroutine
// that delivered them, so two timed sources on one scheduler can be zipped.
// Past that bound the delivering goroutine blocks until a value is paired.
// Subscribe returns once both sides have either returned from their
// producer or parked waiting for a partner.
func ZipWith[A, B, R any](a *Flux[A], b *Flux[B], combine func(A, B) R) *Flux[R] {
	return newFlux("Zip", func(ctx context.Context, down Sink[R]) {
		z := &zipper[A, B, R]{down: down, combine: combine}
		z.cond = sync.NewCond(&z.mu)
		z.left.ready = make(chan struct{})
		z.right.ready = make(chan struct{})
		context.AfterFunc(ctx, z.close)

		go func() {
			a.SubscribeWith(ctx, relay[A]{next: z.onLeft, err: z.fail, complete: z.leftDone})
			z.left.markReady()
		}()
		go func() {
			b.SubscribeWith(ctx, relay[B]{next: z.onRight, err: z.fail, complete: z.rightDone})
			z.right.markReady()
		}()

		<-z.left.ready
		<-z.right.ready
	})
}

type zipSide[T any] struct {
	queue []T
	done  bool
	ready chan struct{}
	once  sync.Once
}

func (s *zipSide[T]) markReady() {
	s.once.Do(func() { close(s.ready) })
}

func (s *zipSide[T]) pending() bool { return len(s.queue) > 0 }

func (s *zipSide[T]) saturated() bool { return len(s.queue) >= ZipPrefetch }

func (s *zipSide[T]) push(v T) { s.queue = append(s.queue, v) }

func (s *zipSide[T]) pop() T {
	v := s.queue[0]
	var zero T
	s.queue[0] = zero
	s.queue = s.queue[1:]
	if len(s.queue) == 0 {
		s.queue = nil
	}
	return v
}

// exhausted reports whether the side can never supply another value.
func (s *zipSide[T]) exhausted() bool { return s.done && !s.pending() }

type zipper[A, B, R any] struct {
	mu      sync.Mutex
	cond    *sync.Cond
	closed  bool
	left    zipSide[A]
	right   zipSide[B]
	down    Sink[R]
	combine func(A, B) R
}

func (z *zipper[A, B, R]) onLeft(v A) {
	z.mu.Lock()
	defer z.mu.Unlock()
	for z.left.saturated() && !z.closed {
		z.left.markReady()
		z.cond.Wait()
	}
	if z.closed {
		return
	}
	if z.right.pending() {
		z.emit(v, z.right.pop())
		return
	}
	z.left.push(v)
}

func (z *zipper[A, B, R]) onRight(v B) {
	z.mu.Lock()
	defer z.mu.Unlock()
	for z.right.saturated() && !z.closed {
		z.right.markReady()
		z.cond.Wait()
	}
	if z.closed {
		return
	}
	if z.left.pending() {
		z.emit(z.left.pop(), v)
		return
	}
	z.right.push(v)
}

// emit runs with z.mu held.
func (z *zipper[A, B, R]) emit(a A, b B) {
	z.down.Next(z.combine(a, b))
	z.cond.Broadcast()
	if z.left.exhausted() || z.right.exhausted() {
		z.finish()
		z.down.Complete()
	}
}

func (z *zipper[A, B, R]) leftDone() {
	z.mu.Lock()
	defer z.mu.Unlock()
	z.left.done = true
	if !z.closed && z.left.exhausted() {
		z.finish()
		z.down.Complete()
	}
}

func (z *zipper[A, B, R]) rightDone() {
	z.mu.Lock()
	defer z.mu.Unlock()
	z.right.done = true
	if !z.closed && z.right.exhausted() {
		z.finish()
		z.down.Complete()
	}
}

func (z *zipper[A, B, R]) fail(err error) {
	z.mu.Lock()
	defer z.mu.Unlock()
	if z.closed {
		return
	}
	z.finish()
	z.down.Error(err)
}

func (z *zipper[A, B, R]) close() {
	z.mu.Lock()
	defer z.mu.Unlock()
	z.finish()
}

// finish runs with z.mu held and releases every parked side.
func (z *zipper[A, B, R]) finish() {
	z.closed = true
	z.left.markReady()
	z.right.markReady()
	z.cond.Broadcast()
}
