// Package source reads raw household documents from the configured store.
//
// A Source yields model.RawRecord values through a Cursor, one document at
// a time, in either the full or the members projection. Implementations:
//
//   - mongo: MongoDB collection (the production store)
//   - sqlite: a table of JSON text documents, via mattn/go-sqlite3 or modernc.org/sqlite
//   - postgres: a table of JSONB documents, via the pgx database/sql driver
//   - file: a JSON or JSON-lines dump such as mongoexport output
//   - memory: in-process records for tests
//
// Every implementation normalizes driver types (ObjectID, DateTime, extended
// JSON wrappers) into plain Go maps, slices and scalars so the decoder sees
// one representation. A store that cannot be reached is reported as
// *model.ConnectionError.
package source
