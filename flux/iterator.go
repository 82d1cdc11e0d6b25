package flux

import (
	"context"
)

// Iterator provides pull-based sequential access to a stream of values.
type Iterator[T any] interface {
	// Next returns the next value. Returns (zero, false, nil) when exhausted.
	Next(ctx context.Context) (T, bool, error)
	// Close releases any resources held by the iterator.
	Close() error
}

// FromIterator pulls values from the iterator returned by open, which is
// called once per subscription, and closes it on termination. Iterator
// errors, including a Close error after exhaustion, fail the sequence.
func FromIterator[T any](open func() Iterator[T]) *Flux[T] {
	return newFlux("FromIterator", func(ctx context.Context, sink Sink[T]) {
		it := open()
		for {
			v, ok, err := it.Next(ctx)
			if err != nil {
				_ = it.Close()
				sink.Error(err)
				return
			}
			if !ok {
				if err := it.Close(); err != nil {
					sink.Error(err)
					return
				}
				sink.Complete()
				return
			}
			if ctx.Err() != nil {
				_ = it.Close()
				return
			}
			sink.Next(v)
		}
	})
}

// sliceIter iterates over a slice.
type sliceIter[T any] struct {
	items []T
	pos   int
}

func (it *sliceIter[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, false, err
	}
	if it.pos >= len(it.items) {
		return zero, false, nil
	}
	v := it.items[it.pos]
	it.pos++
	return v, true, nil
}

func (it *sliceIter[T]) Close() error { return nil }

// SliceIterator returns an Iterator over items.
func SliceIterator[T any](items []T) Iterator[T] {
	return &sliceIter[T]{items: items}
}
