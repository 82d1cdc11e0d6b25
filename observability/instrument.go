package observability

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/fluxkit/flux"
	"github.com/kbukum/fluxkit/logger"
)

// Instrument wraps f so that every subscription runs inside a span and is
// recorded on m. The span ends with the subscription's outcome: completed,
// failed or cancelled. A nil m skips metrics and a nil tracer uses the
// global provider.
func Instrument[T any](f *flux.Flux[T], name string, m *Metrics, tracer trace.Tracer) *flux.Flux[T] {
	if tracer == nil {
		tracer = Tracer(defaultTracerName)
	}
	return flux.Create(func(ctx context.Context, sink flux.Sink[T]) {
		ctx, span := tracer.Start(ctx, SpanSubscription, trace.WithAttributes(
			attribute.String(AttrSequence, name),
		))
		ctx = logger.ContextWith(ctx, logger.FieldTraceID, span.SpanContext().TraceID().String())
		m.RecordSubscribe(ctx, name)

		s := &spanSink[T]{
			ctx:   ctx,
			name:  name,
			start: time.Now(),
			span:  span,
			m:     m,
			down:  sink,
		}
		s.stop = context.AfterFunc(ctx, func() { s.end(StatusCancelled, nil) })
		f.SubscribeWith(ctx, s)
	})
}

// spanSink records signals of one subscription on its span and metrics.
type spanSink[T any] struct {
	ctx   context.Context
	name  string
	start time.Time
	span  trace.Span
	m     *Metrics
	down  flux.Sink[T]
	stop  func() bool

	nexts atomic.Int64
	once  sync.Once
}

func (s *spanSink[T]) Next(v T) {
	s.nexts.Add(1)
	s.m.RecordSignal(s.ctx, s.name, flux.KindNext.String())
	s.down.Next(v)
}

func (s *spanSink[T]) Error(err error) {
	s.stop()
	s.m.RecordSignal(s.ctx, s.name, flux.KindError.String())
	s.end(StatusFailed, err)
	s.down.Error(err)
}

func (s *spanSink[T]) Complete() {
	s.stop()
	s.m.RecordSignal(s.ctx, s.name, flux.KindComplete.String())
	s.end(StatusCompleted, nil)
	s.down.Complete()
}

func (s *spanSink[T]) end(status string, err error) {
	s.once.Do(func() {
		if err != nil {
			s.span.RecordError(err)
			s.span.SetStatus(codes.Error, err.Error())
			s.span.SetAttributes(attribute.String(AttrErrorMessage, err.Error()))
		}
		s.span.SetAttributes(
			attribute.String(AttrStatus, status),
			attribute.Int64(AttrNextCount, s.nexts.Load()),
		)
		s.span.End()
		// the subscription context may already be cancelled
		s.m.RecordEnd(context.WithoutCancel(s.ctx), s.name, status, time.Since(s.start))
	})
}
