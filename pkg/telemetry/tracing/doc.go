// Package tracing provides OpenTelemetry tracing for export runs.
//
// Each run produces one root span with child spans for the source query and
// each sink write. Skipped households are attached to the run span as events.
// Spans are exported over OTLP gRPC; when tracing is disabled a noop tracer
// is used and no collector connection is attempted.
//
// # Usage
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
//	if err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	ctx, span := tracer.Start(ctx, tracing.SpanExportRun)
//	defer span.End()
//
// # Sampling
//
// sample_ratio selects the fraction of runs traced. 1.0 traces every run,
// 0.0 none, and values between sample by trace ID.
package tracing
