package tutorial

import (
	"context"
	"slices"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/fluxkit/flux"
	"github.com/kbukum/fluxkit/logger"
	"github.com/kbukum/fluxkit/observability"
	"github.com/kbukum/fluxkit/scheduler"
)

// Runner subscribes to examples and logs every line they emit.
type Runner struct {
	env     Env
	log     *logger.Logger
	metrics *observability.Metrics
	tracer  trace.Tracer
	traced  bool
}

// Option configures a Runner.
type Option func(*Runner)

// WithScheduler sets the scheduler timed examples run on.
func WithScheduler(s scheduler.Scheduler) Option {
	return func(r *Runner) { r.env.Scheduler = s }
}

// WithLogger sets the logger lines are written to.
func WithLogger(l *logger.Logger) Option {
	return func(r *Runner) { r.log = l }
}

// WithTelemetry wraps every example in a span and records it on m.
// A nil tracer uses the global provider.
func WithTelemetry(m *observability.Metrics, tracer trace.Tracer) Option {
	return func(r *Runner) {
		r.metrics = m
		r.tracer = tracer
		r.traced = true
	}
}

// NewRunner creates a Runner for cfg. Unset config fields take defaults.
func NewRunner(cfg Config, opts ...Option) *Runner {
	cfg.ApplyDefaults()
	r := &Runner{env: Env{Config: cfg, Scheduler: scheduler.Default()}}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = logger.Category("tutorial")
	}
	return r
}

// Execution is one running example.
type Execution struct {
	Example Example

	sub   *flux.Subscription
	start time.Time

	mu    sync.Mutex
	lines []string
}

func (e *Execution) record(line string) {
	e.mu.Lock()
	e.lines = append(e.lines, line)
	e.mu.Unlock()
}

// Lines returns the lines emitted so far.
func (e *Execution) Lines() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.lines)
}

// Subscription returns the example's subscription.
func (e *Execution) Subscription() *flux.Subscription { return e.sub }

// Err returns the example's terminal error, if any.
func (e *Execution) Err() error { return e.sub.Err() }

// Wait blocks until the example terminates or ctx is done.
func (e *Execution) Wait(ctx context.Context) error { return e.sub.Wait(ctx) }

// Start builds ex and subscribes to it without waiting. In-memory examples
// have finished by the time Start returns.
func (r *Runner) Start(ctx context.Context, ex Example) *Execution {
	ctx = logger.ContextWith(ctx, logger.FieldExample, ex.Name)
	log := r.log.WithContext(ctx)

	f := ex.Build(r.env)
	if r.traced {
		f = observability.Instrument(f, ex.Name, r.metrics, r.tracer)
	}

	exec := &Execution{Example: ex, start: r.env.Scheduler.Now()}
	exec.sub = f.Subscribe(ctx, flux.Handlers[string]{
		OnNext: func(line string) {
			exec.record(line)
			log.Info(line)
		},
		OnError: func(err error) {
			log.Error(err.Error())
		},
		OnComplete: func() {
			log.Info("sequence completed successfully")
		},
	})
	log.Debug("subscribed", logger.Fields(logger.FieldSubscriptionID, exec.sub.ID().String()))
	return exec
}

// Run starts the example called name and waits for it to terminate.
// The example's own failure is reported by Execution.Err; the returned
// error covers unknown names and ctx ending first.
func (r *Runner) Run(ctx context.Context, name string) (*Execution, error) {
	ex, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	exec := r.Start(ctx, ex)
	waitErr := exec.Wait(ctx)

	fields := logger.DurationFields("run", r.env.Scheduler.Now().Sub(exec.start))
	fields[logger.FieldExample] = name
	fields[logger.FieldSubscriptionID] = exec.sub.ID().String()
	fields[logger.FieldState] = exec.sub.State().String()
	r.log.Debug("example finished", fields)

	if waitErr != nil && ctx.Err() != nil {
		exec.sub.Dispose()
		return exec, ctx.Err()
	}
	return exec, nil
}

// RunAll runs the named examples one after another, stopping early when
// ctx ends.
func (r *Runner) RunAll(ctx context.Context, names []string) ([]*Execution, error) {
	execs := make([]*Execution, 0, len(names))
	for _, name := range names {
		exec, err := r.Run(ctx, name)
		if exec != nil {
			execs = append(execs, exec)
		}
		if err != nil {
			return execs, err
		}
	}
	return execs, nil
}
