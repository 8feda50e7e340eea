package sink

import (
	"context"
	"sync"
)

// MemorySink keeps written files in memory.
// This implementation is intended for testing only.
type MemorySink struct {
	mu    sync.RWMutex
	files map[string][]byte
	order []string
	fail  map[string]error
}

// NewMemorySink creates an empty memory sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{
		files: make(map[string][]byte),
		fail:  make(map[string]error),
	}
}

// FailOn makes writes of name return err.
func (s *MemorySink) FailOn(name string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail[name] = err
}

// Name implements Sink.
func (s *MemorySink) Name() string { return "memory" }

// Location implements Sink.
func (s *MemorySink) Location(name string) string { return "memory://" + name }

// Write implements Sink.
func (s *MemorySink) Write(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fail[name]; err != nil {
		return err
	}
	if _, ok := s.files[name]; !ok {
		s.order = append(s.order, name)
	}
	s.files[name] = append([]byte(nil), data...)
	return nil
}

// Get returns the content written under name.
func (s *MemorySink) Get(name string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.files[name]
	return data, ok
}

// Names returns written file names in first-write order.
func (s *MemorySink) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.order...)
}
