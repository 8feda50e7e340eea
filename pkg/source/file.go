package source

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"perimeleon/pmexport/pkg/config"
	"perimeleon/pmexport/pkg/model"
)

// File dump formats.
const (
	FormatJSON  = "json"
	FormatJSONL = "jsonl"
	FormatAuto  = "auto"
)

// FileSource reads a dump of the households collection: either one JSON
// array or one document per line, as written by mongoexport. Extended JSON
// wrappers such as {"$oid": ...} are unwrapped.
type FileSource struct {
	path   string
	format string
}

// NewFileSource checks the dump file exists and resolves the format.
func NewFileSource(cfg *config.FileConfig) (*FileSource, error) {
	if _, err := os.Stat(cfg.Path); err != nil {
		return nil, model.NewConnectionError("file", cfg.Path, err)
	}
	format := cfg.Format
	if format == "" || format == FormatAuto {
		detected, err := detectFormat(cfg.Path)
		if err != nil {
			return nil, model.NewConnectionError("file", cfg.Path, err)
		}
		format = detected
	}
	return &FileSource{path: cfg.Path, format: format}, nil
}

// detectFormat uses the extension when it is conclusive and otherwise looks
// at the first non-space byte.
func detectFormat(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl", ".ndjson":
		return FormatJSONL, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	r := bufio.NewReader(f)
	for {
		b, err := r.ReadByte()
		if errors.Is(err, io.EOF) {
			return FormatJSON, nil
		}
		if err != nil {
			return "", err
		}
		if bytes.IndexByte([]byte(" \t\r\n"), b) >= 0 {
			continue
		}
		if b == '[' {
			return FormatJSON, nil
		}
		return FormatJSONL, nil
	}
}

// Name implements Source.
func (s *FileSource) Name() string { return "file" }

// Format returns the resolved dump format.
func (s *FileSource) Format() string { return s.format }

// Query implements Source. Each query re-reads the file.
func (s *FileSource) Query(_ context.Context, p Projection) (Cursor, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open dump: %w", err)
	}

	dec := json.NewDecoder(bufio.NewReader(f))
	if s.format == FormatJSON {
		tok, err := dec.Token()
		if err != nil {
			f.Close()
			if errors.Is(err, io.EOF) {
				return &sliceCursor{pos: -1}, nil
			}
			return nil, fmt.Errorf("read dump %s: %w", s.path, err)
		}
		if delim, ok := tok.(json.Delim); !ok || delim != '[' {
			f.Close()
			return nil, fmt.Errorf("read dump %s: expected a JSON array", s.path)
		}
	}
	return &fileCursor{file: f, dec: dec, array: s.format == FormatJSON, projection: p}, nil
}

// Ping implements Source.
func (s *FileSource) Ping(context.Context) error {
	if _, err := os.Stat(s.path); err != nil {
		return model.NewConnectionError("file", s.path, err)
	}
	return nil
}

// Close implements Source.
func (s *FileSource) Close(context.Context) error { return nil }

// fileCursor streams documents from a JSON decoder. In array mode the
// opening bracket has already been consumed.
type fileCursor struct {
	file       *os.File
	dec        *json.Decoder
	array      bool
	projection Projection
	record     model.RawRecord
	index      int
	err        error
}

func (c *fileCursor) Next(ctx context.Context) bool {
	if c.err != nil {
		return false
	}
	if err := ctx.Err(); err != nil {
		c.err = err
		return false
	}
	if c.array && !c.dec.More() {
		return false
	}

	var m map[string]any
	if err := c.dec.Decode(&m); err != nil {
		if !c.array && errors.Is(err, io.EOF) {
			return false
		}
		c.err = fmt.Errorf("document %d: %w", c.index, err)
		return false
	}
	c.index++
	c.record = Project(normalizeRecord(m), c.projection)
	return true
}

func (c *fileCursor) Record() model.RawRecord { return c.record }

func (c *fileCursor) Err() error { return c.err }

func (c *fileCursor) Close(context.Context) error { return c.file.Close() }
