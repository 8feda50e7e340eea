package source

import (
	"context"
	"fmt"

	"perimeleon/pmexport/pkg/config"
	"perimeleon/pmexport/pkg/model"
)

// Projection selects which part of each household document a query returns.
type Projection string

const (
	// ProjectionFull returns whole household documents.
	ProjectionFull Projection = "full"

	// ProjectionMembers returns the native id and the head, spouse and
	// others fields only.
	ProjectionMembers Projection = "members"
)

// Keys returns the document keys kept by the projection, or nil for
// ProjectionFull. Both mangled and clean spellings are kept.
func (p Projection) Keys() []string {
	if p != ProjectionMembers {
		return nil
	}
	keys := []string{model.NativeIDKey}
	for _, name := range []string{"head", "spouse", "others"} {
		keys = append(keys, model.MangledKey(model.EntityHousehold, name), name)
	}
	return keys
}

// Source is a store of raw household documents.
type Source interface {
	// Name returns the driver name used in logs and metrics.
	Name() string

	// Query opens a cursor over every household document.
	Query(ctx context.Context, p Projection) (Cursor, error)

	// Ping verifies the store is reachable.
	Ping(ctx context.Context) error

	// Close releases connections held by the source.
	Close(ctx context.Context) error
}

// Cursor iterates query results one document at a time.
//
//	cur, err := src.Query(ctx, source.ProjectionFull)
//	if err != nil { ... }
//	defer cur.Close(ctx)
//	for cur.Next(ctx) {
//	    raw := cur.Record()
//	}
//	if err := cur.Err(); err != nil { ... }
type Cursor interface {
	Next(ctx context.Context) bool
	Record() model.RawRecord
	Err() error
	Close(ctx context.Context) error
}

// New creates and connects the source selected by cfg.Driver. Unreachable
// stores are reported as *model.ConnectionError.
func New(ctx context.Context, cfg *config.SourceConfig) (Source, error) {
	switch cfg.Driver {
	case "mongo":
		return NewMongoSource(ctx, &cfg.Mongo, cfg.Timeout)
	case "sqlite":
		return NewSQLiteSource(ctx, &cfg.SQLite)
	case "postgres":
		return NewPostgresSource(ctx, &cfg.Postgres, cfg.Timeout)
	case "file":
		return NewFileSource(&cfg.File)
	default:
		return nil, fmt.Errorf("unsupported source driver: %s", cfg.Driver)
	}
}

// Project returns a copy of raw restricted to the projection keys. Sources
// that cannot project natively apply it after reading.
func Project(raw model.RawRecord, p Projection) model.RawRecord {
	keys := p.Keys()
	if keys == nil {
		return raw
	}
	out := make(model.RawRecord, len(keys))
	for _, k := range keys {
		if v, ok := raw[k]; ok {
			out[k] = v
		}
	}
	return out
}

// withNativeID sets the native id from a table column when the document
// itself does not carry one.
func withNativeID(raw model.RawRecord, id string) model.RawRecord {
	if _, ok := raw[model.NativeIDKey]; !ok && id != "" {
		raw[model.NativeIDKey] = id
	}
	return raw
}
