// Package logging provides structured logging with PII redaction.
//
// # Overview
//
// The logging package wraps Go's standard log/slog package to provide:
//   - Structured logging in JSON or text format
//   - Redaction of member contact data and credentials
//   - Export context fields (run_id, source, record_id, household_id)
//     attached to every record logged with a context
//
// # Usage
//
//	logger, err := logging.New(logging.FromConfig(cfg.Telemetry.Logging))
//	if err != nil {
//	    return err
//	}
//	logger.SetDefault()
//
//	ctx = logging.WithRunID(ctx, runID)
//	slog.InfoContext(ctx, "export started")  // includes run_id
//
// Packages log through slog.Default().With("component", ...), so SetDefault
// is what gives them redaction and context fields.
//
// # PII Redaction
//
// When RedactPII is enabled:
//
//   - Emails: ann@example.com → a***@example.com
//   - Phone numbers: 207-555-0134 → ***-***-****
//   - URL credentials: mongodb://pm:secret@db → mongodb://pm:***@db
//   - Values under keys such as "password" or "secret_access_key" are masked
package logging
