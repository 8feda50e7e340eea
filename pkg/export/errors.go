package export

import (
	"errors"
	"fmt"

	"perimeleon/pmexport/pkg/model"
)

// RecordError wraps the decode failure of one source record.
type RecordError struct {
	Index    int    // Position of the record in the cursor
	NativeID string // Store id, empty if the record had none
	Cause    error  // Usually a *model.DecodeError
}

// Error implements the error interface.
func (e *RecordError) Error() string {
	if e.NativeID != "" {
		return fmt.Sprintf("record %d [_id=%s]: %v", e.Index, e.NativeID, e.Cause)
	}
	return fmt.Sprintf("record %d: %v", e.Index, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *RecordError) Unwrap() error {
	return e.Cause
}

// WriteError reports an output file that could not be stored.
type WriteError struct {
	File    string // Output file name
	Entries int    // Number of array entries in the file
	Cause   error  // Underlying error
}

// Error implements the error interface.
func (e *WriteError) Error() string {
	return fmt.Sprintf("write error [file=%s, entries=%d]: %v", e.File, e.Entries, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *WriteError) Unwrap() error {
	return e.Cause
}

// decodeCause classifies a decode failure for metrics labels.
func decodeCause(err error) string {
	switch {
	case errors.Is(err, model.ErrMissingField):
		return "missing_field"
	case errors.Is(err, model.ErrInvalidEnum):
		return "invalid_enum"
	case errors.Is(err, model.ErrTypeMismatch):
		return "type_mismatch"
	default:
		return "other"
	}
}
