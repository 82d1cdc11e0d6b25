package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/fluxkit/flux"
)

func TestDefaultTracerConfig(t *testing.T) {
	cfg := DefaultTracerConfig("test-service")

	if cfg.ServiceName != "test-service" {
		t.Errorf("expected ServiceName 'test-service', got %s", cfg.ServiceName)
	}
	if cfg.Endpoint != "localhost:4318" {
		t.Errorf("expected Endpoint 'localhost:4318', got %s", cfg.Endpoint)
	}
	if cfg.SampleRate != 1.0 {
		t.Errorf("expected SampleRate 1.0, got %f", cfg.SampleRate)
	}
	if !cfg.Insecure {
		t.Error("expected Insecure to be true")
	}
}

func TestDefaultMeterConfig(t *testing.T) {
	cfg := DefaultMeterConfig("test-service")

	if cfg.ServiceName != "test-service" {
		t.Errorf("expected ServiceName 'test-service', got %s", cfg.ServiceName)
	}
	if cfg.Interval != 15*time.Second {
		t.Errorf("expected Interval 15s, got %v", cfg.Interval)
	}
}

func TestNewMetricsNoop(t *testing.T) {
	metrics, err := NewMetrics(noop.NewMeterProvider().Meter("test"))
	if err != nil {
		t.Fatalf("unexpected error creating metrics: %v", err)
	}

	ctx := context.Background()
	metrics.RecordSubscribe(ctx, "seq")
	metrics.RecordSignal(ctx, "seq", "onNext")
	metrics.RecordEnd(ctx, "seq", StatusCompleted, 100*time.Millisecond)
}

func TestNilMetricsRecordNothing(t *testing.T) {
	var m *Metrics
	ctx := context.Background()
	m.RecordSubscribe(ctx, "seq")
	m.RecordSignal(ctx, "seq", "onNext")
	m.RecordEnd(ctx, "seq", StatusFailed, time.Second)
}

func TestSampler(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{1.0, "AlwaysOnSampler"},
		{2.0, "AlwaysOnSampler"},
		{0, "AlwaysOffSampler"},
		{-1, "AlwaysOffSampler"},
	}
	for _, tc := range tests {
		if got := sampler(tc.rate).Description(); got != tc.want {
			t.Errorf("sampler(%v) = %q, want %q", tc.rate, got, tc.want)
		}
	}
}

func TestNewResource(t *testing.T) {
	res, err := newResource("fluxkit", "1.2.3", "test")
	if err != nil {
		t.Fatalf("newResource() error = %v", err)
	}
	v, ok := res.Set().Value(attribute.Key(AttrServiceName))
	if !ok || v.AsString() != "fluxkit" {
		t.Errorf("service.name = %v", v.AsString())
	}
}

func TestSetupDisabled(t *testing.T) {
	shutdown, err := Setup(context.Background(), Config{}, "fluxkit", "dev")
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown() error = %v", err)
	}
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Endpoint != "localhost:4318" || cfg.SampleRate != 1.0 || cfg.Interval != 15*time.Second {
		t.Errorf("defaults = %+v", cfg)
	}
}

func newTestTelemetry(t *testing.T) (*tracetest.SpanRecorder, *sdktrace.TracerProvider, *sdkmetric.ManualReader, *Metrics) {
	t.Helper()
	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	metrics, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics() error = %v", err)
	}
	return spans, tp, reader, metrics
}

func spanStatus(t *testing.T, span sdktrace.ReadOnlySpan) string {
	t.Helper()
	for _, kv := range span.Attributes() {
		if kv.Key == AttrStatus {
			return kv.Value.AsString()
		}
	}
	t.Fatal("span has no status attribute")
	return ""
}

func sumFor(t *testing.T, reader *sdkmetric.ManualReader, name string, match attribute.KeyValue) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("%s is %T", name, m.Data)
			}
			for _, dp := range sum.DataPoints {
				if v, ok := dp.Attributes.Value(match.Key); ok && v == match.Value {
					total += dp.Value
				}
			}
		}
	}
	return total
}

func TestInstrumentCompleted(t *testing.T) {
	spans, tp, reader, metrics := newTestTelemetry(t)

	src := Instrument(flux.Just(1, 2, 3), "numbers", metrics, tp.Tracer("test"))
	got, err := flux.Collect(context.Background(), src)
	if err != nil || len(got) != 3 {
		t.Fatalf("Collect() = %v, %v", got, err)
	}

	ended := spans.Ended()
	if len(ended) != 1 {
		t.Fatalf("expected 1 span, got %d", len(ended))
	}
	if ended[0].Name() != SpanSubscription {
		t.Errorf("span name = %q", ended[0].Name())
	}
	if status := spanStatus(t, ended[0]); status != StatusCompleted {
		t.Errorf("status = %q", status)
	}

	if n := sumFor(t, reader, MetricSignalsTotal, attribute.String(AttrSignal, "onNext")); n != 3 {
		t.Errorf("onNext count = %d", n)
	}
	if n := sumFor(t, reader, MetricSubscriptionsActive, attribute.String(AttrSequence, "numbers")); n != 0 {
		t.Errorf("active subscriptions = %d", n)
	}
	if n := sumFor(t, reader, MetricSubscriptionsTotal, attribute.String(AttrStatus, StatusCompleted)); n != 1 {
		t.Errorf("completed subscriptions = %d", n)
	}
}

func TestInstrumentFailed(t *testing.T) {
	spans, tp, reader, metrics := newTestTelemetry(t)
	boom := errors.New("boom")

	src := Instrument(flux.Error[int](boom), "broken", metrics, tp.Tracer("test"))
	if _, err := flux.Collect(context.Background(), src); !errors.Is(err, boom) {
		t.Fatalf("Collect() err = %v", err)
	}

	ended := spans.Ended()
	if len(ended) != 1 {
		t.Fatalf("expected 1 span, got %d", len(ended))
	}
	if ended[0].Status().Code != codes.Error {
		t.Errorf("span status = %v", ended[0].Status())
	}
	if status := spanStatus(t, ended[0]); status != StatusFailed {
		t.Errorf("status = %q", status)
	}
	if n := sumFor(t, reader, MetricSignalsTotal, attribute.String(AttrSignal, "onError")); n != 1 {
		t.Errorf("onError count = %d", n)
	}
}

func TestInstrumentCancelled(t *testing.T) {
	spans, tp, _, metrics := newTestTelemetry(t)

	sub := Instrument(flux.Never[int](), "forever", metrics, tp.Tracer("test")).
		Subscribe(context.Background(), flux.Handlers[int]{})
	sub.Dispose()

	deadline := time.Now().Add(2 * time.Second)
	for len(spans.Ended()) == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	ended := spans.Ended()
	if len(ended) != 1 {
		t.Fatalf("expected 1 span, got %d", len(ended))
	}
	if status := spanStatus(t, ended[0]); status != StatusCancelled {
		t.Errorf("status = %q", status)
	}
}
