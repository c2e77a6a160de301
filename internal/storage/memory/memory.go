// internal/storage/memory/memory.go
package memory

import (
	"sync"

	"github.com/Rheadawn/stars/pkg/record"
)

// Backend keeps segment records in memory. Used by tests and for runs
// where no persistence was configured but a summary is wanted.
type Backend struct {
	mu      sync.Mutex
	records []record.Segment
}

// New creates an empty in-memory backend.
func New() *Backend {
	return &Backend{}
}

// Init is a no-op for the in-memory backend.
func (b *Backend) Init() error {
	return nil
}

// Close is a no-op for the in-memory backend.
func (b *Backend) Close() error {
	return nil
}

// RecordSegment appends one record, assigning it the next id.
func (b *Backend) RecordSegment(r *record.Segment) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	r.ID = uint(len(b.records) + 1)
	b.records = append(b.records, *r)
	return nil
}

// Records returns a copy of everything recorded so far.
func (b *Backend) Records() []record.Segment {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]record.Segment, len(b.records))
	copy(out, b.records)
	return out
}
