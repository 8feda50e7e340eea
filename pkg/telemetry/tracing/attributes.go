package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Span names.
const (
	SpanExportRun    = "pmexport.export.run"
	SpanSourceQuery  = "pmexport.source.query"
	SpanSinkWrite    = "pmexport.sink.write"
	SpanDecodeRecord = "pmexport.decode.household"
)

// Attribute keys use the "pmexport.*" namespace except where an
// OpenTelemetry semantic convention exists.
const (
	AttrRunID       = "pmexport.run_id"
	AttrSource      = "pmexport.source.driver"
	AttrProjection  = "pmexport.source.projection"
	AttrSink        = "pmexport.sink"
	AttrFile        = "pmexport.file"
	AttrBytes       = "pmexport.bytes"
	AttrHouseholds  = "pmexport.households"
	AttrMembers     = "pmexport.members"
	AttrSkipped     = "pmexport.skipped"
	AttrRecordID    = "pmexport.record_id"
	AttrMembersMode = "pmexport.members_mode"

	AttrDBSystem     = "db.system"
	AttrDBCollection = "db.collection.name"
)

// SetSourceAttributes sets the driver and projection of a query span.
func SetSourceAttributes(span trace.Span, driver, projection string) {
	span.SetAttributes(
		attribute.String(AttrSource, driver),
		attribute.String(AttrDBSystem, driver),
		attribute.String(AttrProjection, projection),
	)
}

// SetSinkAttributes sets the target of a write span.
func SetSinkAttributes(span trace.Span, sink, file string, bytes int) {
	span.SetAttributes(
		attribute.String(AttrSink, sink),
		attribute.String(AttrFile, file),
		attribute.Int(AttrBytes, bytes),
	)
}

// SetCountAttributes records the result counts of a run.
func SetCountAttributes(span trace.Span, households, members, skipped int) {
	span.SetAttributes(
		attribute.Int(AttrHouseholds, households),
		attribute.Int(AttrMembers, members),
		attribute.Int(AttrSkipped, skipped),
	)
}

// AddSkipEvent records a household dropped for a decode error.
func AddSkipEvent(span trace.Span, recordID string, err error) {
	span.AddEvent("record.skipped", trace.WithAttributes(
		attribute.String(AttrRecordID, recordID),
		attribute.String("error.message", err.Error()),
	))
}
