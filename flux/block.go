package flux

import (
	"context"
	"iter"
)

// BlockLast subscribes and waits for termination. It returns the last value
// (ok is false if there was none) and the terminal error. Cancelling ctx
// disposes the subscription and returns ctx.Err().
func (f *Flux[T]) BlockLast(ctx context.Context) (T, bool, error) {
	var (
		last T
		ok   bool
	)
	sub := f.Subscribe(ctx, Handlers[T]{
		OnNext:  func(v T) { last, ok = v, true },
		OnError: func(error) {},
	})
	if err := sub.Wait(ctx); err != nil {
		sub.Dispose()
		var zero T
		return zero, false, err
	}
	return last, ok, nil
}

// Collect subscribes to f and returns all values once it completes.
func Collect[T any](ctx context.Context, f *Flux[T]) ([]T, error) {
	v, _, err := CollectList(f).Block(ctx)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// All returns a range-over-func view of f. Each iteration subscribes anew;
// values are handed over one at a time, so the producer waits for the loop
// body. A failure is yielded once as (zero, err). Breaking out of the loop
// cancels the subscription.
//
//	for v, err := range src.All(ctx) {
//	    if err != nil {
//	        return err
//	    }
//	    use(v)
//	}
func (f *Flux[T]) All(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		ch := make(chan result[T])
		go f.SubscribeWith(ctx, &chanSink[T]{ctx: ctx, ch: ch})

		var zero T
		for {
			select {
			case r := <-ch:
				if r.done {
					if r.err != nil {
						yield(zero, r.err)
					}
					return
				}
				if !yield(r.val, nil) {
					return
				}
			case <-ctx.Done():
				yield(zero, ctx.Err())
				return
			}
		}
	}
}

// result carries one signal across a channel.
type result[T any] struct {
	val  T
	err  error
	done bool
}

// chanSink hands signals to a consumer goroutine.
type chanSink[T any] struct {
	ctx context.Context
	ch  chan<- result[T]
}

func (s *chanSink[T]) send(r result[T]) {
	select {
	case s.ch <- r:
	case <-s.ctx.Done():
	}
}

func (s *chanSink[T]) Next(v T)        { s.send(result[T]{val: v}) }
func (s *chanSink[T]) Error(err error) { s.send(result[T]{err: err, done: true}) }
func (s *chanSink[T]) Complete()       { s.send(result[T]{done: true}) }
