// internal/storage/storage.go
package storage

import (
	"fmt"

	"github.com/Rheadawn/stars/internal/config"
	"github.com/Rheadawn/stars/internal/model/core"
	"github.com/Rheadawn/stars/internal/storage/memory"
	"github.com/Rheadawn/stars/internal/storage/sqlite"
	"github.com/Rheadawn/stars/pkg/record"
)

// Backend is the interface all segment-metadata sinks must satisfy.
// Sinks run strictly after the core pipeline; the stream itself never
// persists anything.
type Backend interface {
	Init() error
	Close() error
	RecordSegment(r *record.Segment) error
}

// NewBackend creates a metadata sink from configuration. Type "none"
// yields no backend.
func NewBackend(cfg config.StorageConfig) (Backend, error) {
	switch cfg.Type {
	case "none", "":
		return nil, nil
	case "memory":
		return memory.New(), nil
	case "sqlite":
		return sqlite.New(cfg.Path), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

// NewSegmentRecord builds the metadata row for one emitted segment.
func NewSegmentRecord(seg *core.Segment, pathLengthMeters float64) record.Segment {
	return record.Segment{
		SimulationRunID:  seg.SimulationRunID,
		SegmentSource:    seg.SegmentSource,
		SegmentationType: seg.SegmentationType,
		TickCount:        seg.TickCount(),
		FirstTickSeconds: seg.FirstTick().CurrentTick,
		LastTickSeconds:  seg.LastTick().CurrentTick,
		PathLengthMeters: pathLengthMeters,
	}
}
