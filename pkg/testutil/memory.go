package testutil

import (
	"context"
	"sync"

	"github.com/ajitpratap0/datagen/pkg/models"
)

// MemoryWriter is a sink.Writer that keeps everything in memory.
// Set FailAt to make the Nth Write (zero-based) fail with Err.
type MemoryWriter struct {
	mu      sync.Mutex
	Header  []string
	Records []models.Employee
	Closed  bool
	Aborted bool

	FailAt int
	Err    error
}

// NewMemoryWriter creates a writer that never fails.
func NewMemoryWriter() *MemoryWriter {
	return &MemoryWriter{FailAt: -1}
}

// WriteHeader stores the header.
func (m *MemoryWriter) WriteHeader(_ context.Context, columns []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Header = append([]string(nil), columns...)
	return nil
}

// Write stores rec, or fails when FailAt is reached.
func (m *MemoryWriter) Write(_ context.Context, rec models.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailAt >= 0 && len(m.Records) == m.FailAt {
		return m.Err
	}
	m.Records = append(m.Records, rec)
	return nil
}

// Close marks the writer committed.
func (m *MemoryWriter) Close(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return nil
}

// Abort marks the writer discarded.
func (m *MemoryWriter) Abort(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Aborted = true
	return nil
}

// FixedSampler returns values from a fixed cycle, reduced modulo n.
type FixedSampler struct {
	Values []int
	next   int
}

// IntN returns the next value in the cycle modulo n.
func (s *FixedSampler) IntN(n int) int {
	if len(s.Values) == 0 {
		return 0
	}
	v := s.Values[s.next%len(s.Values)]
	s.next++
	return v % n
}
