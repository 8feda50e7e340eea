package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"perimeleon/pmexport/pkg/model"
	"perimeleon/pmexport/pkg/model/decode"
	"perimeleon/pmexport/pkg/model/encode"
	"perimeleon/pmexport/pkg/sink"
	"perimeleon/pmexport/pkg/source"
	"perimeleon/pmexport/pkg/telemetry/logging"
	"perimeleon/pmexport/pkg/telemetry/metrics"
	"perimeleon/pmexport/pkg/telemetry/tracing"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Exporter runs the source → decode → encode → sink pipeline.
type Exporter struct {
	source   source.Source
	sink     sink.Sink
	decoder  *decode.Decoder
	encoder  *encode.Encoder
	writer   *JSONWriter
	logger   *slog.Logger
	metrics  *metrics.Collector
	tracer   *tracing.Tracer
	progress Progress
	options  Options
}

// Progress receives the number of households exported so far.
type Progress interface {
	Update(current int64)
}

// Option configures optional Exporter collaborators.
type Option func(*Exporter)

// WithDecoder replaces the default decoder, e.g. to change the id namespace.
func WithDecoder(d *decode.Decoder) Option {
	return func(e *Exporter) { e.decoder = d }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Exporter) { e.logger = l }
}

// WithMetrics sets the metrics collector. Nil disables metrics.
func WithMetrics(c *metrics.Collector) Option {
	return func(e *Exporter) { e.metrics = c }
}

// WithTracer sets the tracer. Nil disables tracing.
func WithTracer(t *tracing.Tracer) Option {
	return func(e *Exporter) { e.tracer = t }
}

// WithProgress reports the running household count to p.
func WithProgress(p Progress) Option {
	return func(e *Exporter) { e.progress = p }
}

// New creates an Exporter reading from src and writing to snk.
func New(src source.Source, snk sink.Sink, opts Options, options ...Option) (*Exporter, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	e := &Exporter{
		source:  src,
		sink:    snk,
		decoder: decode.New(),
		encoder: encode.New(),
		writer:  NewJSONWriter(opts.Pretty),
		logger:  slog.Default(),
		options: opts,
	}
	for _, o := range options {
		o(e)
	}
	e.logger = e.logger.With("component", "export")
	return e, nil
}

// run holds the state of one Run call.
type run struct {
	report     *Report
	households []map[string]any
	members    []map[string]any
	skippedIDs map[string]bool
	span       trace.Span
}

// Run exports every household. Output files are marshalled in memory and
// written only after every record has been processed, so a fatal error
// leaves the previous export in place.
func (e *Exporter) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	runID := uuid.NewString()
	ctx = logging.WithRunID(ctx, runID)
	ctx = logging.WithSource(ctx, e.source.Name())

	ctx, span := e.tracer.Start(ctx, tracing.SpanExportRun)
	defer span.End()
	span.SetAttributes(
		attribute.String(tracing.AttrRunID, runID),
		attribute.String(tracing.AttrMembersMode, string(e.options.MembersMode)),
	)

	r := &run{
		report: &Report{
			RunID:     runID,
			StartedAt: start,
			Source:    e.source.Name(),
			ByStatus:  make(map[model.MemberStatus]int),
			Skipped:   []SkippedRecord{},
			Files:     []FileReport{},
		},
		skippedIDs: make(map[string]bool),
		span:       span,
	}

	e.logger.InfoContext(ctx, "export started", "members_mode", e.options.MembersMode)

	err := e.run(ctx, r)
	r.report.Duration = time.Since(start)

	status := metrics.StatusSuccess
	if err != nil {
		status = metrics.StatusError
		tracing.SetError(span, err)
		e.logger.ErrorContext(ctx, "export failed", "error", err, "duration", r.report.Duration)
	} else {
		tracing.SetStatus(span, nil)
		tracing.SetCountAttributes(span, r.report.Households, r.report.Members, len(r.report.Skipped))
		e.logger.InfoContext(ctx, "export finished",
			"households", r.report.Households,
			"members", r.report.Members,
			"skipped", len(r.report.Skipped),
			"duration", r.report.Duration,
		)
	}
	e.metrics.RecordRun(status, r.report.Duration, r.report.Households, r.report.Members)

	if err != nil {
		return nil, err
	}
	return r.report, nil
}

func (e *Exporter) run(ctx context.Context, r *run) error {
	if err := e.readHouseholds(ctx, r); err != nil {
		return err
	}
	if e.options.MembersMode == MembersProjection {
		if err := e.readMembers(ctx, r); err != nil {
			return err
		}
	}

	householdsJSON, err := e.writer.Marshal(r.households)
	if err != nil {
		return &WriteError{File: e.options.HouseholdsFile, Entries: len(r.households), Cause: err}
	}
	membersJSON, err := e.writer.Marshal(r.members)
	if err != nil {
		return &WriteError{File: e.options.MembersFile, Entries: len(r.members), Cause: err}
	}

	if err := e.write(ctx, r, e.options.HouseholdsFile, householdsJSON, len(r.households)); err != nil {
		return err
	}
	return e.write(ctx, r, e.options.MembersFile, membersJSON, len(r.members))
}

// query drains one source cursor, calling fn for every record.
func (e *Exporter) query(ctx context.Context, p source.Projection, fn func(ctx context.Context, index int, raw model.RawRecord) error) (err error) {
	start := time.Now()
	ctx, span := e.tracer.Start(ctx, tracing.SpanSourceQuery)
	tracing.SetSourceAttributes(span, e.source.Name(), string(p))
	defer func() {
		e.metrics.RecordQuery(e.source.Name(), string(p), time.Since(start), err)
		tracing.SetError(span, err)
		span.End()
	}()

	cur, err := e.source.Query(ctx, p)
	if err != nil {
		return err
	}
	defer cur.Close(context.WithoutCancel(ctx))

	index := 0
	for cur.Next(ctx) {
		if err := fn(ctx, index, cur.Record()); err != nil {
			return err
		}
		index++
	}
	if err := cur.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", e.source.Name(), err)
	}
	return nil
}

func (e *Exporter) readHouseholds(ctx context.Context, r *run) error {
	return e.query(ctx, source.ProjectionFull, func(ctx context.Context, index int, raw model.RawRecord) error {
		nativeID, _ := decode.NativeID(raw)

		h, err := e.decoder.Household(raw)
		if err != nil {
			return e.decodeFailed(ctx, r, index, nativeID, err)
		}

		encoded, err := e.encoder.Household(h)
		if err != nil {
			return err
		}
		r.households = append(r.households, encoded)
		r.report.Households++
		e.metrics.RecordExported()
		if e.progress != nil {
			e.progress.Update(int64(r.report.Households))
		}
		e.logger.DebugContext(logging.WithHouseholdID(ctx, h.ID), "household exported", "record_index", index)

		if e.options.MembersMode == MembersFlatten {
			return e.appendMembers(r, h.Members())
		}
		return nil
	})
}

// readMembers builds the members file from the projection query. Records
// that failed to decode in the household pass are left out here too.
func (e *Exporter) readMembers(ctx context.Context, r *run) error {
	return e.query(ctx, source.ProjectionMembers, func(ctx context.Context, index int, raw model.RawRecord) error {
		nativeID, _ := decode.NativeID(raw)
		if nativeID != "" && r.skippedIDs[nativeID] {
			return nil
		}

		members, err := e.decoder.Members(raw)
		if err != nil {
			return e.decodeFailed(ctx, r, index, nativeID, err)
		}
		return e.appendMembers(r, members)
	})
}

func (e *Exporter) appendMembers(r *run, members []*model.Member) error {
	for _, m := range members {
		encoded, err := e.encoder.Member(m)
		if err != nil {
			return err
		}
		r.members = append(r.members, encoded)
		r.report.Members++
		r.report.ByStatus[m.Status]++
	}
	return nil
}

// decodeFailed applies the decode error policy. In skip mode the record is
// logged and counted and nil is returned.
func (e *Exporter) decodeFailed(ctx context.Context, r *run, index int, nativeID string, err error) error {
	recErr := &RecordError{Index: index, NativeID: nativeID, Cause: err}
	if e.options.OnDecodeError == OnErrorAbort {
		return recErr
	}

	var decErr *model.DecodeError
	attrs := []any{"record_index", index, "error", err}
	if errors.As(err, &decErr) {
		attrs = append(attrs, "entity", decErr.Entity, "field", decErr.Field)
	}
	e.logger.WarnContext(logging.WithRecordID(ctx, nativeID), "record skipped", attrs...)

	e.metrics.RecordSkipped(decodeCause(err))
	tracing.AddSkipEvent(r.span, nativeID, err)
	if nativeID != "" {
		r.skippedIDs[nativeID] = true
	}
	r.report.Skipped = append(r.report.Skipped, SkippedRecord{
		Index:    index,
		NativeID: nativeID,
		Error:    err.Error(),
	})
	return nil
}

func (e *Exporter) write(ctx context.Context, r *run, name string, data []byte, entries int) (err error) {
	ctx, span := e.tracer.Start(ctx, tracing.SpanSinkWrite)
	tracing.SetSinkAttributes(span, e.sink.Name(), name, len(data))
	defer func() {
		e.metrics.RecordWrite(e.sink.Name(), name, len(data), err)
		tracing.SetError(span, err)
		span.End()
	}()

	if err := e.sink.Write(ctx, name, data); err != nil {
		return &WriteError{File: name, Entries: entries, Cause: err}
	}
	r.report.Files = append(r.report.Files, FileReport{
		Name:     name,
		Location: e.sink.Location(name),
		Entries:  entries,
		Bytes:    len(data),
	})
	e.logger.InfoContext(ctx, "file written", "file", e.sink.Location(name), "entries", entries, "bytes", len(data))
	return nil
}
