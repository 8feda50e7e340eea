package model

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingField is the cause of a DecodeError for an absent required field.
	ErrMissingField = errors.New("required field missing")

	// ErrInvalidEnum is the cause of a DecodeError for a value outside an enum domain.
	ErrInvalidEnum = errors.New("invalid enum value")

	// ErrTypeMismatch is the cause of a DecodeError for a value of the wrong type.
	ErrTypeMismatch = errors.New("type mismatch")
)

// DecodeError reports a raw record that violates an entity model constraint.
type DecodeError struct {
	Entity EntityType // Entity being decoded
	Field  string     // Clean field name (dotted path for nested fields)
	Value  any        // Offending raw value, nil for missing fields
	Cause  error      // One of the sentinel errors, possibly wrapped
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("decode error [entity=%s, field=%s, value=%v]: %v", e.Entity, e.Field, e.Value, e.Cause)
	}
	return fmt.Sprintf("decode error [entity=%s, field=%s]: %v", e.Entity, e.Field, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// NewDecodeError creates a new DecodeError.
func NewDecodeError(entity EntityType, field string, value any, cause error) *DecodeError {
	return &DecodeError{
		Entity: entity,
		Field:  field,
		Value:  value,
		Cause:  cause,
	}
}

// EncodeError reports a value the encoder does not know how to represent.
type EncodeError struct {
	Path   string // Location in the tree being encoded ("$" is the root)
	Type   string // Go type of the offending value
	Reason string // Optional detail
}

// Error implements the error interface.
func (e *EncodeError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("encode error [path=%s, type=%s]: %s", e.Path, e.Type, e.Reason)
	}
	return fmt.Sprintf("encode error [path=%s, type=%s]: unsupported value", e.Path, e.Type)
}

// NewEncodeError creates a new EncodeError for value v at path.
func NewEncodeError(path string, v any, reason string) *EncodeError {
	return &EncodeError{
		Path:   path,
		Type:   fmt.Sprintf("%T", v),
		Reason: reason,
	}
}

// ConnectionError reports a record source that could not be reached.
type ConnectionError struct {
	Driver string // Source driver ("mongo", "sqlite", ...)
	Target string // Host, path or DSN with credentials removed
	Cause  error  // Underlying error
}

// Error implements the error interface.
func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection error [driver=%s, target=%s]: %v", e.Driver, e.Target, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *ConnectionError) Unwrap() error {
	return e.Cause
}

// NewConnectionError creates a new ConnectionError.
func NewConnectionError(driver, target string, cause error) *ConnectionError {
	return &ConnectionError{
		Driver: driver,
		Target: target,
		Cause:  cause,
	}
}
