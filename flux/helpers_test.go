package flux

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/kbukum/fluxkit/scheduler"
)

// recorder captures the signals of one subscription.
type recorder[T any] struct {
	mu        sync.Mutex
	values    []T
	err       error
	errors    int
	completes int
}

func (r *recorder[T]) handlers() Handlers[T] {
	return Handlers[T]{
		OnNext: func(v T) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.values = append(r.values, v)
		},
		OnError: func(err error) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.err = err
			r.errors++
		},
		OnComplete: func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.completes++
		},
	}
}

func (r *recorder[T]) snapshot() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]T(nil), r.values...)
}

func (r *recorder[T]) terminals() (errors, completes int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.errors, r.completes
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func collect[T any](t *testing.T, f *Flux[T]) []T {
	t.Helper()
	got, err := Collect(testContext(t), f)
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	return got
}

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// advance moves vs forward by d and fails the test if the clock's tasks
// never return control.
func advance(t *testing.T, vs *scheduler.Virtual, d time.Duration) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		defer close(done)
		vs.AdvanceBy(d)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("AdvanceBy(%v) blocked", d)
	}
}
