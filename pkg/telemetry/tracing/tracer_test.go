package tracing

import (
	"context"
	"errors"
	"testing"

	"perimeleon/pmexport/pkg/config"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newRecordingTracer(t *testing.T) (*Tracer, *tracetest.InMemoryExporter) {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tracer, err := newWithExporter(&config.TracingConfig{
		Enabled:     true,
		ServiceName: "pmexport-test",
		SampleRatio: 1.0,
	}, sdktrace.WithSyncer(exporter))
	if err != nil {
		t.Fatalf("newWithExporter() error = %v", err)
	}
	t.Cleanup(func() { _ = tracer.Shutdown(context.Background()) })
	return tracer, exporter
}

func TestNew(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Error("New(nil) expected error")
	}

	tracer, err := New(&config.TracingConfig{Enabled: false, ServiceName: "pmexport"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if tracer.Enabled() {
		t.Error("disabled config produced an enabled tracer")
	}
	ctx, span := tracer.Start(context.Background(), SpanExportRun)
	span.End()
	if TraceID(ctx) != "" {
		t.Error("noop tracer produced a trace id")
	}
	if err := tracer.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestNew_InvalidRatio(t *testing.T) {
	_, err := newWithExporter(&config.TracingConfig{Enabled: true, SampleRatio: 2}, sdktrace.WithSyncer(tracetest.NewInMemoryExporter()))
	if err == nil {
		t.Fatal("expected sampler error")
	}
}

func TestTracer_NilSafe(t *testing.T) {
	var tracer *Tracer
	ctx := context.Background()
	got, span := tracer.Start(ctx, SpanExportRun)
	span.End()
	if got != ctx {
		t.Error("nil tracer changed the context")
	}
	if tracer.Enabled() {
		t.Error("nil tracer reports enabled")
	}
	if err := tracer.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestTracer_ChildSpans(t *testing.T) {
	tracer, exporter := newRecordingTracer(t)

	ctx, run := tracer.Start(context.Background(), SpanExportRun)
	if TraceID(ctx) == "" {
		t.Fatal("TraceID() empty inside a sampled span")
	}
	_, query := tracer.Start(ctx, SpanSourceQuery)
	SetSourceAttributes(query, "mongo", "full")
	query.End()
	SetCountAttributes(run, 2, 5, 1)
	run.End()

	spans := exporter.GetSpans()
	if len(spans) != 2 {
		t.Fatalf("got %d spans, want 2", len(spans))
	}
	child, root := spans[0], spans[1]
	if child.Name != SpanSourceQuery || root.Name != SpanExportRun {
		t.Fatalf("span names = %q, %q", child.Name, root.Name)
	}
	if child.Parent.SpanID() != root.SpanContext.SpanID() {
		t.Error("query span is not a child of the run span")
	}

	want := map[attribute.Key]attribute.Value{
		AttrHouseholds: attribute.IntValue(2),
		AttrMembers:    attribute.IntValue(5),
		AttrSkipped:    attribute.IntValue(1),
	}
	for _, kv := range root.Attributes {
		if v, ok := want[kv.Key]; ok && v != kv.Value {
			t.Errorf("%s = %v, want %v", kv.Key, kv.Value.Emit(), v.Emit())
		}
	}
}

func TestSetError(t *testing.T) {
	tracer, exporter := newRecordingTracer(t)

	_, span := tracer.Start(context.Background(), SpanSinkWrite)
	SetError(span, nil)
	SetError(span, errors.New("disk full"))
	span.End()

	got := exporter.GetSpans()[0]
	if got.Status.Code != codes.Error {
		t.Errorf("status = %v, want Error", got.Status.Code)
	}
	if len(got.Events) != 1 {
		t.Errorf("got %d events, want 1 recorded exception", len(got.Events))
	}
}

func TestSetStatus(t *testing.T) {
	tracer, exporter := newRecordingTracer(t)

	_, span := tracer.Start(context.Background(), SpanSinkWrite)
	SetStatus(span, nil)
	span.End()

	if got := exporter.GetSpans()[0].Status.Code; got != codes.Ok {
		t.Errorf("status = %v, want Ok", got)
	}
}

func TestAddSkipEvent(t *testing.T) {
	tracer, exporter := newRecordingTracer(t)

	_, span := tracer.Start(context.Background(), SpanExportRun)
	AddSkipEvent(span, "64b7f0c2a1b2c3d4e5f60718", errors.New("head.sex: invalid enum"))
	span.End()

	events := exporter.GetSpans()[0].Events
	if len(events) != 1 || events[0].Name != "record.skipped" {
		t.Fatalf("events = %+v", events)
	}
}
