// Package model defines the PeriMeleon entity model: households, members and
// the addresses, transactions and services they own.
//
// # Representations
//
// Every entity exists in three shapes:
//
//  1. Raw records - nested key/value documents as returned by the document
//     store. Keys may carry the storage layer's private-attribute mangling
//     (for example "_Household__head") and the store's native identifier lives
//     under "_id".
//  2. Typed values - the Go structs declared in this package.
//  3. Clean trees - map[string]any values whose keys are the public field names
//     (for example "head", "marital_status") and whose enum values are plain
//     scalars. Clean trees are what the exporter serializes.
//
// # Schema
//
// The translation between raw and clean names is not derived from naming
// conventions at runtime. Each entity type declares an ordered field table
// (see Schema) holding, per field, the clean name, the mangled storage key,
// the field kind and whether the field is required. Both the decoder and the
// encoder consult these tables.
//
// # Errors
//
// Decoding failures are reported as *DecodeError, encoding failures as
// *EncodeError and store connectivity failures as *ConnectionError. The
// sentinel errors ErrMissingField, ErrInvalidEnum and ErrTypeMismatch can be
// matched with errors.Is.
package model
