package segmenter

import (
	"math"

	"github.com/Rheadawn/stars/internal/model/core"
)

// emit materialises the candidate window [start, end) as a segment with
// deep-copied ticks. Non-junction candidates below the minimum tick
// count are dropped with a log note; junction-exempt candidates (whole
// blocks containing a junction, junction-extended windows) always emit.
func (s *Segmenter) emit(run core.SimulationRun, opts Options, start, end int, junctionExempt bool) *core.Segment {
	if start < 0 {
		start = 0
	}
	if end > len(run.Ticks) {
		end = len(run.Ticks)
	}
	if end <= start {
		return nil
	}
	if !junctionExempt && end-start < opts.MinSegmentTickCount {
		if s.logger != nil {
			s.logger.Debug("segment below minimum tick count, dropped",
				"simulationRunId", run.SimulationRunID,
				"start", start, "ticks", end-start, "min", opts.MinSegmentTickCount)
		}
		return nil
	}
	return &core.Segment{
		SimulationRunID:  run.SimulationRunID,
		SegmentSource:    run.SimulationRunID,
		SegmentationType: string(opts.Type),
		TickData:         core.CloneTicks(run.Ticks[start:end]),
	}
}

// isJunctionTick reports whether the ego is on a junction road at the tick.
func (s *Segmenter) isJunctionTick(t *core.TickData) bool {
	return s.net.LaneRoad(t.Ego.Lane).IsJunction
}

// egoBlockID returns the id of the block the ego's road belongs to.
func (s *Segmenter) egoBlockID(t *core.TickData) string {
	return s.net.Block(s.net.BlockOfLane(t.Ego.Lane)).ID
}

// junctionExtensionBeforeStart walks backwards from the window's first
// tick over contiguous junction ticks to the first non-junction tick and
// returns the extended start. No-op when the window does not begin on a
// junction road.
func (s *Segmenter) junctionExtensionBeforeStart(ticks []*core.TickData, start int) int {
	if start <= 0 || !s.isJunctionTick(ticks[start]) {
		return start
	}
	i := start - 1
	for i >= 0 && s.isJunctionTick(ticks[i]) {
		i--
	}
	if i < 0 {
		return 0
	}
	return i
}

// junctionExtensionAfterEnd walks forward from the first tick past the
// window over contiguous junction ticks to the first non-junction tick
// and returns the extended exclusive end. Probing starts one past the
// window's last tick, matching the recorded behaviour of the source
// traces.
func (s *Segmenter) junctionExtensionAfterEnd(ticks []*core.TickData, end int) int {
	if end >= len(ticks) || !s.isJunctionTick(ticks[end-1]) {
		return end
	}
	i := end
	for i < len(ticks) && s.isJunctionTick(ticks[i]) {
		i++
	}
	if i < len(ticks) {
		i++
	}
	return i
}

// junctionExtend applies both extensions to a candidate window and
// reports whether either end moved.
func (s *Segmenter) junctionExtend(ticks []*core.TickData, start, end int) (int, int, bool) {
	newStart := s.junctionExtensionBeforeStart(ticks, start)
	newEnd := s.junctionExtensionAfterEnd(ticks, end)
	return newStart, newEnd, newStart != start || newEnd != end
}

// indexRange is a half-open [start, end) window of tick indices.
type indexRange struct {
	start int
	end   int
}

// blockRanges cuts the run into maximal contiguous ranges where the
// ego's block id is constant.
func (s *Segmenter) blockRanges(ticks []*core.TickData) []indexRange {
	var ranges []indexRange
	start := 0
	for i := 1; i < len(ticks); i++ {
		if s.egoBlockID(ticks[i]) != s.egoBlockID(ticks[i-1]) {
			ranges = append(ranges, indexRange{start: start, end: i})
			start = i
		}
	}
	ranges = append(ranges, indexRange{start: start, end: len(ticks)})
	return ranges
}

// rangeContainsJunction reports whether any tick of the range has the
// ego on a junction road.
func (s *Segmenter) rangeContainsJunction(ticks []*core.TickData, r indexRange) bool {
	for i := r.start; i < r.end; i++ {
		if s.isJunctionTick(ticks[i]) {
			return true
		}
	}
	return false
}

// junctionBlocks returns the BY_BLOCK segments of the run that contain a
// junction, emitted whole. Used by addJunctions sliding strategies.
func (s *Segmenter) junctionBlocks(run core.SimulationRun, opts Options) []*core.Segment {
	var segments []*core.Segment
	for _, r := range s.blockRanges(run.Ticks) {
		if !s.rangeContainsJunction(run.Ticks, r) {
			continue
		}
		if seg := s.emit(run, opts, r.start, r.end, true); seg != nil {
			segments = append(segments, seg)
		}
	}
	return segments
}

// bucketIndex returns the index of the first bound exceeding the value.
// A change in this index between ticks is the event-strategy cut signal.
func bucketIndex(bounds []float64, value float64) (int, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, ErrUnsupportedInput
	}
	for i, bound := range bounds {
		if bound > value {
			return i, nil
		}
	}
	return len(bounds), nil
}

// cutOnSignalChange splits the run into maximal ranges of constant
// signal value and emits one segment per range.
func (s *Segmenter) cutOnSignalChange(run core.SimulationRun, opts Options, signal []int) []*core.Segment {
	var segments []*core.Segment
	start := 0
	for i := 1; i < len(signal); i++ {
		if signal[i] != signal[i-1] {
			if seg := s.emit(run, opts, start, i, false); seg != nil {
				segments = append(segments, seg)
			}
			start = i
		}
	}
	if seg := s.emit(run, opts, start, len(signal), false); seg != nil {
		segments = append(segments, seg)
	}
	return segments
}
