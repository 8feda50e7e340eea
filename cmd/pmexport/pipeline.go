package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"perimeleon/pmexport/pkg/config"
	"perimeleon/pmexport/pkg/export"
	"perimeleon/pmexport/pkg/model/decode"
	"perimeleon/pmexport/pkg/security/secrets"
	"perimeleon/pmexport/pkg/sink"
	"perimeleon/pmexport/pkg/source"
	"perimeleon/pmexport/pkg/telemetry/metrics"
	"perimeleon/pmexport/pkg/telemetry/tracing"
)

// telemetry holds the process-wide metrics collector and tracer. Both
// outlive individual runs in schedule mode.
type telemetry struct {
	collector *metrics.Collector
	tracer    *tracing.Tracer
}

func newTelemetry(cfg *config.TelemetryConfig) (*telemetry, error) {
	tracer, err := tracing.New(&cfg.Tracing)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	t := &telemetry{tracer: tracer}
	if cfg.Metrics.Enabled {
		t.collector = metrics.NewCollector(&cfg.Metrics, nil)
	}
	return t, nil
}

func (t *telemetry) Shutdown(ctx context.Context) {
	if err := t.tracer.Shutdown(ctx); err != nil {
		slog.Warn("failed to flush traces", "error", err)
	}
}

// runExport connects the configured source and sink and runs one export.
// A nil progress disables progress output.
func runExport(ctx context.Context, cfg *config.Config, tel *telemetry, progress export.Progress) (*export.Report, error) {
	if cfg.Export.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Export.Timeout)
		defer cancel()
	}

	decoder, err := newDecoder(cfg.Export.Namespace)
	if err != nil {
		return nil, err
	}

	cfg, err = resolveSecrets(ctx, cfg)
	if err != nil {
		return nil, err
	}

	src, err := source.New(ctx, &cfg.Source)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := src.Close(context.WithoutCancel(ctx)); err != nil {
			slog.Warn("failed to close source", "error", err)
		}
	}()

	snk, err := sink.New(ctx, &cfg.Output)
	if err != nil {
		return nil, err
	}

	options := []export.Option{
		export.WithDecoder(decoder),
		export.WithMetrics(tel.collector),
		export.WithTracer(tel.tracer),
	}
	if progress != nil {
		options = append(options, export.WithProgress(progress))
	}
	exp, err := export.New(src, snk, export.OptionsFromConfig(&cfg.Output, &cfg.Export), options...)
	if err != nil {
		return nil, err
	}

	report, err := exp.Run(ctx)
	if werr := tel.collector.WriteTextfile(); werr != nil {
		slog.Warn("metrics not written", "error", werr)
	}
	return report, err
}

// resolveSecrets returns a copy of cfg with ${secret:name} references
// replaced by their values.
func resolveSecrets(ctx context.Context, cfg *config.Config) (*config.Config, error) {
	mgr, err := secrets.FromConfig(&cfg.Secrets)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize secrets: %w", err)
	}
	return mgr.ResolveConfig(ctx, cfg)
}

func newDecoder(namespace string) (*decode.Decoder, error) {
	if namespace == "" {
		return decode.New(), nil
	}
	ns, err := uuid.Parse(namespace)
	if err != nil {
		return nil, fmt.Errorf("invalid id namespace %q: %w", namespace, err)
	}
	return decode.New(decode.WithNamespace(ns)), nil
}
