// Package export runs a household export: it reads household records from a
// source, decodes and re-encodes them into the clean representation, and
// writes households.json and members.json to a sink.
//
// # Members
//
// The members file is built either by flattening decoded households (head,
// spouse, others, in household order) or by a second source query with the
// members projection. Both produce the same entries.
//
// # Decode errors
//
// A record that fails to decode is skipped by default. It is logged, counted
// in metrics and listed in the Report, and none of its members are exported.
// With OnErrorAbort the run fails with a *RecordError and no file is written.
//
// # Usage
//
//	exp, err := export.New(src, snk, export.DefaultOptions(),
//	    export.WithLogger(logger),
//	    export.WithMetrics(collector),
//	)
//	report, err := exp.Run(ctx)
//	report.WriteText(os.Stdout)
package export
