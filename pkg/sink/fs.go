package sink

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// FSSink writes files into a local directory. Each file is written to a
// temporary file in the same directory and renamed into place.
type FSSink struct {
	dir    string
	logger *slog.Logger
}

// NewFSSink creates the directory if needed.
func NewFSSink(dir string) (*FSSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	return &FSSink{
		dir:    dir,
		logger: slog.Default().With("component", "sink.fs"),
	}, nil
}

// Name implements Sink.
func (s *FSSink) Name() string { return "fs" }

// Location implements Sink.
func (s *FSSink) Location(name string) string {
	return filepath.Join(s.dir, name)
}

// Write implements Sink.
func (s *FSSink) Write(ctx context.Context, name string, data []byte) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, "."+name+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", name, err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync %s: %w", name, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", name, err)
	}
	if err = os.Rename(tmp.Name(), s.Location(name)); err != nil {
		return fmt.Errorf("rename %s: %w", name, err)
	}

	s.logger.Debug("file written", "path", s.Location(name), "bytes", len(data))
	return nil
}
