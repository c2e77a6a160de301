package segmenter

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Rheadawn/stars/internal/model/core"
	"github.com/Rheadawn/stars/internal/roadnet"
)

// Bucket bounds for the event-triggered strategies. A change of the
// first-exceeding-bound index between ticks is the cut signal.
var (
	speedBucketBoundsKmPerH = []float64{15, 35, 60, 90, 130}
	accelBucketBoundsMPerS2 = []float64{-0.5, 0.5}
)

// pedestrianProximityMeters is the radius of the pedestrian-nearby test.
const pedestrianProximityMeters = 30.0

// Lane-change segments reach backPad ticks before and forwardPad ticks
// after the change.
const (
	laneChangeBackPad    = 10
	laneChangeForwardPad = 100
)

// byBlock emits one segment per maximal contiguous range of constant
// ego block id.
func (s *Segmenter) byBlock(run core.SimulationRun, opts Options) []*core.Segment {
	var segments []*core.Segment
	for _, r := range s.blockRanges(run.Ticks) {
		if seg := s.emit(run, opts, r.start, r.end, false); seg != nil {
			segments = append(segments, seg)
		}
	}
	return segments
}

// wholeRun emits the entire run as a single segment.
func (s *Segmenter) wholeRun(run core.SimulationRun, opts Options) []*core.Segment {
	if seg := s.emit(run, opts, 0, len(run.Ticks), false); seg != nil {
		return []*core.Segment{seg}
	}
	return nil
}

// evenSize splits each block into Value equal sub-segments, the last
// absorbing the remainder. Blocks containing a junction are emitted
// whole when AddJunctions is set.
func (s *Segmenter) evenSize(run core.SimulationRun, opts Options) []*core.Segment {
	k := intParam(opts.Value, 1)
	var segments []*core.Segment
	for _, r := range s.blockRanges(run.Ticks) {
		if opts.AddJunctions && s.rangeContainsJunction(run.Ticks, r) {
			if seg := s.emit(run, opts, r.start, r.end, true); seg != nil {
				segments = append(segments, seg)
			}
			continue
		}
		partSize := (r.end - r.start) / k
		if partSize == 0 {
			if seg := s.emit(run, opts, r.start, r.end, false); seg != nil {
				segments = append(segments, seg)
			}
			continue
		}
		for c := 0; c < k; c++ {
			start := r.start + c*partSize
			end := start + partSize
			if c == k-1 {
				end = r.end
			}
			if seg := s.emit(run, opts, start, end, false); seg != nil {
				segments = append(segments, seg)
			}
		}
	}
	return segments
}

// byLength cuts a block whenever the accumulated |ΔpositionOnLane| of
// the ego reaches Value metres. The trailing slice is emitted.
func (s *Segmenter) byLength(run core.SimulationRun, opts Options) []*core.Segment {
	lengthMeters := opts.Value
	ticks := run.Ticks

	var segments []*core.Segment
	for _, r := range s.blockRanges(ticks) {
		if opts.AddJunctions && s.rangeContainsJunction(ticks, r) {
			if seg := s.emit(run, opts, r.start, r.end, true); seg != nil {
				segments = append(segments, seg)
			}
			continue
		}
		start := r.start
		acc := 0.0
		for i := r.start + 1; i < r.end; i++ {
			// The step into a slice's first tick lies outside that slice.
			if i == start {
				continue
			}
			d := ticks[i].Ego.PositionOnLane - ticks[i-1].Ego.PositionOnLane
			if d < 0 {
				d = -d
			}
			acc += d
			if acc >= lengthMeters {
				if seg := s.emit(run, opts, start, i+1, false); seg != nil {
					segments = append(segments, seg)
				}
				start = i + 1
				acc = 0
			}
		}
		if start < r.end {
			if seg := s.emit(run, opts, start, r.end, false); seg != nil {
				segments = append(segments, seg)
			}
		}
	}
	return segments
}

// byTicks cuts a block every Value ticks, the last chunk absorbing the
// remainder.
func (s *Segmenter) byTicks(run core.SimulationRun, opts Options) []*core.Segment {
	t := intParam(opts.Value, 1)
	var segments []*core.Segment
	for _, r := range s.blockRanges(run.Ticks) {
		if opts.AddJunctions && s.rangeContainsJunction(run.Ticks, r) {
			if seg := s.emit(run, opts, r.start, r.end, true); seg != nil {
				segments = append(segments, seg)
			}
			continue
		}
		chunks := (r.end - r.start) / t
		if chunks == 0 {
			if seg := s.emit(run, opts, r.start, r.end, false); seg != nil {
				segments = append(segments, seg)
			}
			continue
		}
		for c := 0; c < chunks; c++ {
			start := r.start + c*t
			end := start + t
			if c == chunks-1 {
				end = r.end
			}
			if seg := s.emit(run, opts, start, end, false); seg != nil {
				segments = append(segments, seg)
			}
		}
	}
	return segments
}

// bySpeedLimits cuts a block when the posted speed limit of the ego's
// lane changes.
func (s *Segmenter) bySpeedLimits(run core.SimulationRun, opts Options) []*core.Segment {
	ticks := run.Ticks
	var segments []*core.Segment
	for _, r := range s.blockRanges(ticks) {
		if opts.AddJunctions && s.rangeContainsJunction(ticks, r) {
			if seg := s.emit(run, opts, r.start, r.end, true); seg != nil {
				segments = append(segments, seg)
			}
			continue
		}
		start := r.start
		for i := r.start + 1; i < r.end; i++ {
			if s.egoSpeedLimit(ticks[i]) != s.egoSpeedLimit(ticks[i-1]) {
				if seg := s.emit(run, opts, start, i, false); seg != nil {
					segments = append(segments, seg)
				}
				start = i
			}
		}
		if seg := s.emit(run, opts, start, r.end, false); seg != nil {
			segments = append(segments, seg)
		}
	}
	return segments
}

func (s *Segmenter) egoSpeedLimit(t *core.TickData) float64 {
	limit := s.net.Lane(t.Ego.Lane).SpeedLimit
	if limit == nil {
		return 0
	}
	return limit.SpeedLimitKmPerH
}

// byDynamicSpeed cuts the run when the ego speed crosses a bucket
// boundary.
func (s *Segmenter) byDynamicSpeed(run core.SimulationRun, opts Options) ([]*core.Segment, error) {
	signal := make([]int, len(run.Ticks))
	for i, t := range run.Ticks {
		idx, err := bucketIndex(speedBucketBoundsKmPerH, t.Ego.EffVelocityKmPerH())
		if err != nil {
			return nil, err
		}
		signal[i] = idx
	}
	return s.cutOnSignalChange(run, opts, signal), nil
}

// byDynamicAcceleration cuts the run when the ego acceleration crosses a
// bucket boundary.
func (s *Segmenter) byDynamicAcceleration(run core.SimulationRun, opts Options) ([]*core.Segment, error) {
	signal := make([]int, len(run.Ticks))
	for i, t := range run.Ticks {
		idx, err := bucketIndex(accelBucketBoundsMPerS2, t.Ego.EffAccelerationMPerS2())
		if err != nil {
			return nil, err
		}
		signal[i] = idx
	}
	return s.cutOnSignalChange(run, opts, signal), nil
}

// byDynamicTrafficDensity cuts the run when the vehicle count in the
// ego's block crosses a bucket boundary.
func (s *Segmenter) byDynamicTrafficDensity(run core.SimulationRun, opts Options) ([]*core.Segment, error) {
	signal := make([]int, len(run.Ticks))
	for i, t := range run.Ticks {
		idx, err := bucketIndex(densityBounds, float64(s.trafficDensity(t)))
		if err != nil {
			return nil, err
		}
		signal[i] = idx
	}
	return s.cutOnSignalChange(run, opts, signal), nil
}

// byDynamicPedestrianProximity cuts the run when the "pedestrian on a
// driving lane within 30 m of the ego" flag flips.
func (s *Segmenter) byDynamicPedestrianProximity(run core.SimulationRun, opts Options) []*core.Segment {
	signal := make([]int, len(run.Ticks))
	for i, t := range run.Ticks {
		if s.pedestrianNearby(t) {
			signal[i] = 1
		}
	}
	return s.cutOnSignalChange(run, opts, signal)
}

// pedestrianNearby reports whether any pedestrian on a driving lane is
// within the proximity radius of the ego.
func (s *Segmenter) pedestrianNearby(t *core.TickData) bool {
	for _, p := range t.Pedestrians() {
		if p.Lane == roadnet.NoLane {
			continue
		}
		if s.net.Lane(p.Lane).Type != roadnet.LaneTypeDriving {
			continue
		}
		if r3.Norm(r3.Sub(p.Location, t.Ego.Location)) <= pedestrianProximityMeters {
			return true
		}
	}
	return false
}

// byDynamicLaneChanges emits a padded segment around every ego lane
// change.
func (s *Segmenter) byDynamicLaneChanges(run core.SimulationRun, opts Options) []*core.Segment {
	ticks := run.Ticks
	n := len(ticks)
	var segments []*core.Segment
	for i := 1; i < n; i++ {
		if ticks[i].Ego.Lane == ticks[i-1].Ego.Lane {
			continue
		}
		start := i - laneChangeBackPad
		if start < 0 {
			start = 0
		}
		end := i + laneChangeForwardPad
		if end > n {
			end = n
		}
		if seg := s.emit(run, opts, start, end, false); seg != nil {
			segments = append(segments, seg)
		}
	}
	return segments
}

// byDynamicVariables concatenates the block, event and half-overlap
// segmentations in a fixed order. Overlapping segments are expected;
// de-duplication is left to the consumer.
func (s *Segmenter) byDynamicVariables(run core.SimulationRun, opts Options) ([]*core.Segment, error) {
	subs := []Options{
		{Type: ByBlock},
		{Type: ByDynamicAcceleration},
		{Type: ByDynamicSpeed},
		{Type: ByDynamicTrafficDensity},
		{Type: ByDynamicPedestrianProximity},
		{Type: ByDynamicLaneChanges},
		{Type: SlidingWindowHalfOverlap, Value: 100, AddJunctions: opts.AddJunctions},
	}
	var segments []*core.Segment
	for _, sub := range subs {
		sub.MinSegmentTickCount = opts.MinSegmentTickCount
		sub.MaxSegmentTickCount = opts.MaxSegmentTickCount
		part, err := s.Segment(run, sub)
		if err != nil {
			return nil, err
		}
		segments = append(segments, part...)
	}
	return segments, nil
}
