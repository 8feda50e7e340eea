package sink

import (
	"context"
	"fmt"

	"perimeleon/pmexport/pkg/config"
)

// Sink stores finished export files. Write receives the complete content of
// one file; implementations must never leave a partially written file
// visible under name.
type Sink interface {
	// Name returns the sink name used in logs and metrics.
	Name() string

	// Write stores data under name, replacing any previous content.
	Write(ctx context.Context, name string, data []byte) error

	// Location describes where name is stored, for reports.
	Location(name string) string
}

// New creates the sink selected by cfg.Sink.
func New(ctx context.Context, cfg *config.OutputConfig) (Sink, error) {
	switch cfg.Sink {
	case "fs":
		return NewFSSink(cfg.Directory)
	case "s3":
		return NewS3Sink(ctx, &cfg.S3)
	default:
		return nil, fmt.Errorf("unsupported sink: %s", cfg.Sink)
	}
}
