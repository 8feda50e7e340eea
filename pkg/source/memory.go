package source

import (
	"context"
	"sync"

	"perimeleon/pmexport/pkg/model"
)

// MemorySource serves documents from memory.
// This implementation is intended for testing only.
type MemorySource struct {
	mu      sync.RWMutex
	records []model.RawRecord
	pingErr error
}

// NewMemorySource creates a source holding records in order.
func NewMemorySource(records ...model.RawRecord) *MemorySource {
	return &MemorySource{records: records}
}

// Add appends a document.
func (s *MemorySource) Add(record model.RawRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
}

// SetPingError makes Ping fail with err, or succeed when err is nil.
func (s *MemorySource) SetPingError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pingErr = err
}

// Name implements Source.
func (s *MemorySource) Name() string { return "memory" }

// Query implements Source. The cursor iterates a snapshot of the records.
func (s *MemorySource) Query(_ context.Context, p Projection) (Cursor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make([]model.RawRecord, len(s.records))
	for i, r := range s.records {
		snapshot[i] = Project(r, p)
	}
	return &sliceCursor{records: snapshot, pos: -1}, nil
}

// Ping implements Source.
func (s *MemorySource) Ping(context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pingErr
}

// Close implements Source.
func (s *MemorySource) Close(context.Context) error { return nil }

// sliceCursor iterates documents already held in memory.
type sliceCursor struct {
	records []model.RawRecord
	pos     int
	err     error
}

func (c *sliceCursor) Next(ctx context.Context) bool {
	if c.err != nil {
		return false
	}
	if err := ctx.Err(); err != nil {
		c.err = err
		return false
	}
	c.pos++
	return c.pos < len(c.records)
}

func (c *sliceCursor) Record() model.RawRecord {
	if c.pos < 0 || c.pos >= len(c.records) {
		return nil
	}
	return c.records[c.pos]
}

func (c *sliceCursor) Err() error { return c.err }

func (c *sliceCursor) Close(context.Context) error {
	c.records = nil
	return nil
}
