package pipeline

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/Rheadawn/stars/internal/pipeline"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// Status is one snapshot of the pipeline throughput counters.
type Status struct {
	ReadSimulationRuns   int64
	SimulationRunsBuffer int
	SlicedSimulationRuns int64
	SegmentsBuffer       int
	IsFinished           bool
}

// Metrics tracks the pipeline throughput counters and mirrors them to
// the global OTel meter (no-op unless a provider is installed).
type Metrics struct {
	readSimulationRuns   atomic.Int64
	slicedSimulationRuns atomic.Int64
	segmentsEmitted      atomic.Int64
	finished             atomic.Bool

	rawBufferLen     func() int
	segmentBufferLen func() int

	otelRead     metric.Int64Counter
	otelSliced   metric.Int64Counter
	otelSegments metric.Int64Counter

	attrs attribute.Set
}

// newMetrics creates the counter set for one pipeline instance. The
// buffer length probes feed the observable gauges.
func newMetrics(instanceID string, rawBufferLen, segmentBufferLen func() int) (*Metrics, error) {
	m := &Metrics{
		rawBufferLen:     rawBufferLen,
		segmentBufferLen: segmentBufferLen,
		attrs:            attribute.NewSet(attribute.String("pipeline.instance", instanceID)),
	}

	mt := meter()
	var err error

	m.otelRead, err = mt.Int64Counter(
		"pipeline.runs.read",
		metric.WithDescription("Simulation runs decoded from disk"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating read counter: %w", err)
	}
	m.otelSliced, err = mt.Int64Counter(
		"pipeline.runs.sliced",
		metric.WithDescription("Simulation runs fully segmented"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating sliced counter: %w", err)
	}
	m.otelSegments, err = mt.Int64Counter(
		"pipeline.segments.emitted",
		metric.WithDescription("Segments pushed to the consumer stream"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating segment counter: %w", err)
	}

	rawGauge, err := mt.Int64ObservableGauge(
		"pipeline.buffer.runs",
		metric.WithDescription("Raw runs waiting for the slicer"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating raw buffer gauge: %w", err)
	}
	segGauge, err := mt.Int64ObservableGauge(
		"pipeline.buffer.segments",
		metric.WithDescription("Segments waiting for the consumer"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating segment buffer gauge: %w", err)
	}
	_, err = mt.RegisterCallback(
		func(ctx context.Context, o metric.Observer) error {
			o.ObserveInt64(rawGauge, int64(m.rawBufferLen()), metric.WithAttributeSet(m.attrs))
			o.ObserveInt64(segGauge, int64(m.segmentBufferLen()), metric.WithAttributeSet(m.attrs))
			return nil
		},
		rawGauge, segGauge,
	)
	if err != nil {
		return nil, fmt.Errorf("registering buffer gauges: %w", err)
	}

	return m, nil
}

// RunRead records one decoded run.
func (m *Metrics) RunRead() {
	m.readSimulationRuns.Add(1)
	m.otelRead.Add(context.Background(), 1, metric.WithAttributeSet(m.attrs))
}

// RunSliced records one fully segmented run.
func (m *Metrics) RunSliced() {
	m.slicedSimulationRuns.Add(1)
	m.otelSliced.Add(context.Background(), 1, metric.WithAttributeSet(m.attrs))
}

// SegmentEmitted records one segment pushed to the stream.
func (m *Metrics) SegmentEmitted() {
	m.segmentsEmitted.Add(1)
	m.otelSegments.Add(context.Background(), 1, metric.WithAttributeSet(m.attrs))
}

// Finish marks the pipeline as done.
func (m *Metrics) Finish() {
	m.finished.Store(true)
}

// Snapshot returns the current counter values.
func (m *Metrics) Snapshot() Status {
	return Status{
		ReadSimulationRuns:   m.readSimulationRuns.Load(),
		SimulationRunsBuffer: m.rawBufferLen(),
		SlicedSimulationRuns: m.slicedSimulationRuns.Load(),
		SegmentsBuffer:       m.segmentBufferLen(),
		IsFinished:           m.finished.Load(),
	}
}
