package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/fluxkit/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string
	// ServiceVersion is the version of the service.
	ServiceVersion string
	// Environment is the deployment environment (dev, staging, prod).
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "1.0.0",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider.
// Returns a MeterProvider that should be shut down on application exit.
func InitMeter(ctx context.Context, config *MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metric names.
const (
	MetricSubscriptionsActive = "flux.subscriptions.active"
	MetricSubscriptionsTotal  = "flux.subscriptions.total"
	MetricSubscriptionTime    = "flux.subscription.duration"
	MetricSignalsTotal        = "flux.signals.total"
)

// Metrics holds the instruments recorded for instrumented sequences.
// A nil *Metrics records nothing.
type Metrics struct {
	active   metric.Int64UpDownCounter
	total    metric.Int64Counter
	duration metric.Float64Histogram
	signals  metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	active, err := meter.Int64UpDownCounter(MetricSubscriptionsActive,
		metric.WithDescription("Number of currently active subscriptions"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s gauge: %w", MetricSubscriptionsActive, err)
	}

	total, err := meter.Int64Counter(MetricSubscriptionsTotal,
		metric.WithDescription("Total number of finished subscriptions by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricSubscriptionsTotal, err)
	}

	duration, err := meter.Float64Histogram(MetricSubscriptionTime,
		metric.WithDescription("Lifetime of subscriptions in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricSubscriptionTime, err)
	}

	signals, err := meter.Int64Counter(MetricSignalsTotal,
		metric.WithDescription("Total signals delivered by kind"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricSignalsTotal, err)
	}

	return &Metrics{
		active:   active,
		total:    total,
		duration: duration,
		signals:  signals,
	}, nil
}

// RecordSubscribe increments the active subscription count.
func (m *Metrics) RecordSubscribe(ctx context.Context, sequence string) {
	if m == nil {
		return
	}
	m.active.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrSequence, sequence)))
}

// RecordSignal counts one delivered signal.
func (m *Metrics) RecordSignal(ctx context.Context, sequence, signal string) {
	if m == nil {
		return
	}
	m.signals.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrSequence, sequence),
		attribute.String(AttrSignal, signal),
	))
}

// RecordEnd decrements active subscriptions and records the outcome.
func (m *Metrics) RecordEnd(ctx context.Context, sequence, status string, duration time.Duration) {
	if m == nil {
		return
	}
	seq := attribute.String(AttrSequence, sequence)
	m.active.Add(ctx, -1, metric.WithAttributes(seq))
	m.total.Add(ctx, 1, metric.WithAttributes(seq, attribute.String(AttrStatus, status)))
	m.duration.Record(ctx, duration.Seconds(), metric.WithAttributes(seq))
}
