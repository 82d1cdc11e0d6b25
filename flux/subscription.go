package flux

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/kbukum/fluxkit/logger"
)

// State is the lifecycle state of a Subscription.
type State int32

const (
	StateIdle State = iota
	StateActive
	StateCompleted
	StateFailed
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateActive:
		return "active"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	case StateCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// IsTerminal reports whether s is absorbing.
func (s State) IsTerminal() bool { return s >= StateCompleted }

// Handlers receive the signals of a subscription. All are optional; an error
// without OnError is logged.
type Handlers[T any] struct {
	OnNext     func(T)
	OnError    func(error)
	OnComplete func()
}

// Subscription is one activation of a sequence.
type Subscription struct {
	id     uuid.UUID
	name   string
	cancel context.CancelFunc
	done   chan struct{}

	mu      sync.Mutex
	state   State
	claimed bool
	err     error
}

func newSubscription(name string, cancel context.CancelFunc) *Subscription {
	return &Subscription{
		id:     uuid.New(),
		name:   name,
		cancel: cancel,
		done:   make(chan struct{}),
		state:  StateIdle,
	}
}

// ID returns the unique subscription ID.
func (s *Subscription) ID() uuid.UUID { return s.id }

// Name returns the name of the subscribed sequence.
func (s *Subscription) Name() string { return s.name }

// State returns the current lifecycle state.
func (s *Subscription) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the terminal error: the failure cause when Failed,
// context.Canceled when Cancelled, nil otherwise.
func (s *Subscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Done is closed once the subscription reaches a terminal state, after the
// terminal handler has returned.
func (s *Subscription) Done() <-chan struct{} { return s.done }

// Wait blocks until the subscription terminates or ctx is done and returns
// the terminal error.
func (s *Subscription) Wait(ctx context.Context) error {
	select {
	case <-s.done:
		return s.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dispose cancels the subscription. No handler fires; timers and upstream
// producers stop. Disposing a terminated subscription is a no-op.
func (s *Subscription) Dispose() {
	if s.claim() {
		s.finish(StateCancelled, context.Canceled)
	}
	s.cancel()
}

func (s *Subscription) activate() {
	s.mu.Lock()
	s.state = StateActive
	s.mu.Unlock()
}

// claim reserves the right to terminate. Only the first caller wins.
func (s *Subscription) claim() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.claimed {
		return false
	}
	s.claimed = true
	return true
}

func (s *Subscription) finish(state State, err error) {
	s.mu.Lock()
	s.state = state
	s.err = err
	s.mu.Unlock()
	close(s.done)
	s.cancel()
}

// Subscribe activates f and delivers its signals to h. It returns once the
// producer has started; in-memory sources have already been fully delivered
// by then. Cancelling ctx moves the subscription to Cancelled.
func (f *Flux[T]) Subscribe(ctx context.Context, h Handlers[T]) *Subscription {
	sctx, cancel := context.WithCancel(ctx)
	sub := newSubscription(f.name, cancel)
	sub.activate()

	context.AfterFunc(sctx, func() {
		if sub.claim() {
			sub.finish(StateCancelled, context.Canceled)
		}
	})

	f.SubscribeWith(sctx, &dispatcher[T]{ctx: sctx, sub: sub, h: h})
	return sub
}

// dispatcher routes signals to Handlers and drives the state machine.
type dispatcher[T any] struct {
	ctx context.Context
	sub *Subscription
	h   Handlers[T]
}

func (d *dispatcher[T]) Next(v T) {
	if d.h.OnNext != nil {
		d.h.OnNext(v)
	}
}

func (d *dispatcher[T]) Error(err error) {
	if !d.sub.claim() {
		return
	}
	if d.h.OnError != nil {
		d.h.OnError(err)
	} else {
		logger.Category("flux").WithContext(d.ctx).Error("unhandled error", logger.Fields(
			logger.FieldSubscriptionID, d.sub.id.String(),
			logger.FieldError, err.Error(),
		))
	}
	d.sub.finish(StateFailed, err)
}

func (d *dispatcher[T]) Complete() {
	if !d.sub.claim() {
		return
	}
	if d.h.OnComplete != nil {
		d.h.OnComplete()
	}
	d.sub.finish(StateCompleted, nil)
}
