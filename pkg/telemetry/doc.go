// Package telemetry groups the observability packages used by pmexport.
//
//   - logging: structured slog logging with PII redaction
//   - metrics: Prometheus metrics, served by the scheduler or written to a textfile
//   - tracing: OpenTelemetry spans for export runs
//   - health: liveness and readiness probes for the scheduler
package telemetry
