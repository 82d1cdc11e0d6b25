// Package observability provides OpenTelemetry tracing and metrics for
// reactive sequences.
//
// Setup installs OTLP/HTTP tracer and meter providers when telemetry is
// enabled:
//
//	shutdown, err := observability.Setup(ctx, cfg.Telemetry, "fluxkit", version.Get().Version)
//	defer shutdown(ctx)
//
// Instrument wraps a sequence so that each subscription becomes a span and
// its signals are counted:
//
//	metrics, err := observability.NewMetrics(observability.Meter("fluxkit"))
//	src = observability.Instrument(src, "interval", metrics, nil)
package observability
