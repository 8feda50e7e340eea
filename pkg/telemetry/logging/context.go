package logging

import (
	"context"
	"log/slog"
)

// Context keys for common log fields.
type contextKey string

const (
	// RunIDKey is the context key for export run IDs.
	RunIDKey contextKey = "run_id"

	// RecordIDKey is the context key for the native id of the record being processed.
	RecordIDKey contextKey = "record_id"

	// HouseholdIDKey is the context key for the external household id.
	HouseholdIDKey contextKey = "household_id"

	// SourceKey is the context key for the source driver name.
	SourceKey contextKey = "source"
)

// contextKeys lists the keys copied into every record, in output order.
var contextKeys = []contextKey{RunIDKey, SourceKey, RecordIDKey, HouseholdIDKey}

// WithRunID adds an export run ID to the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunIDKey, runID)
}

// GetRunID retrieves the export run ID from the context.
func GetRunID(ctx context.Context) string {
	return getString(ctx, RunIDKey)
}

// WithRecordID adds a store record id to the context.
func WithRecordID(ctx context.Context, recordID string) context.Context {
	return context.WithValue(ctx, RecordIDKey, recordID)
}

// GetRecordID retrieves the store record id from the context.
func GetRecordID(ctx context.Context) string {
	return getString(ctx, RecordIDKey)
}

// WithHouseholdID adds an external household id to the context.
func WithHouseholdID(ctx context.Context, householdID string) context.Context {
	return context.WithValue(ctx, HouseholdIDKey, householdID)
}

// GetHouseholdID retrieves the external household id from the context.
func GetHouseholdID(ctx context.Context) string {
	return getString(ctx, HouseholdIDKey)
}

// WithSource adds a source driver name to the context.
func WithSource(ctx context.Context, source string) context.Context {
	return context.WithValue(ctx, SourceKey, source)
}

// GetSource retrieves the source driver name from the context.
func GetSource(ctx context.Context) string {
	return getString(ctx, SourceKey)
}

func getString(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}

// contextAttrs extracts the export fields present in ctx.
func contextAttrs(ctx context.Context) []slog.Attr {
	var attrs []slog.Attr
	for _, key := range contextKeys {
		if v := getString(ctx, key); v != "" {
			attrs = append(attrs, slog.String(string(key), v))
		}
	}
	return attrs
}
