// Package record holds the storage-ready metadata rows shared by the
// segment-metadata sinks.
package record

// Segment is the provenance row recorded per emitted segment.
type Segment struct {
	ID               uint   `gorm:"primarykey" json:"id"`
	SimulationRunID  string `json:"simulationRunId"`
	SegmentSource    string `json:"segmentSource"`
	SegmentationType string `json:"segmentationType"`
	TickCount        int    `json:"tickCount"`

	FirstTickSeconds float64 `json:"firstTickSeconds"`
	LastTickSeconds  float64 `json:"lastTickSeconds"`
	PathLengthMeters float64 `json:"pathLengthMeters"`
}
