package segmenter

import (
	"github.com/Rheadawn/stars/internal/model/core"
)

var (
	multistartMeterSizes = []float64{60, 65, 70, 75, 80}
	multistartTickSizes  = []int{100, 110, 120, 130, 140}
	rotatingTickSizes    = []int{60, 65, 70, 75, 80}

	// Window sizes per traffic-density bucket {<6, <16, >=16}.
	densityWindowSizes = []int{60, 70, 80}
	densityBounds      = []float64{6, 16}
)

// slideTicks emits windows of w ticks stepping by step, stopping once
// the window would reach the run's end.
func (s *Segmenter) slideTicks(run core.SimulationRun, opts Options, w, step int) []*core.Segment {
	var segments []*core.Segment
	for i := 0; i+w < len(run.Ticks); i += step {
		if seg := s.emit(run, opts, i, i+w, false); seg != nil {
			segments = append(segments, seg)
		}
	}
	return segments
}

// slidingWindow emits Value-tick windows stepping by SecondaryValue.
// The window is clamped up to the minimum segment tick count. With
// AddJunctions, every block containing a junction is emitted whole ahead
// of the windows.
func (s *Segmenter) slidingWindow(run core.SimulationRun, opts Options) []*core.Segment {
	w := intParam(opts.Value, 1)
	if w < opts.MinSegmentTickCount {
		if s.logger != nil {
			s.logger.Debug("window smaller than minimum, clamped",
				"simulationRunId", run.SimulationRunID,
				"window", w, "min", opts.MinSegmentTickCount)
		}
		w = opts.MinSegmentTickCount
	}
	step := intParam(opts.SecondaryValue, 1)

	var segments []*core.Segment
	if opts.AddJunctions {
		segments = append(segments, s.junctionBlocks(run, opts)...)
	}
	return append(segments, s.slideTicks(run, opts, w, step)...)
}

// slidingWindowMeters emits windows covering Value metres, stepping by
// the ticks covering SecondaryValue metres.
func (s *Segmenter) slidingWindowMeters(run core.SimulationRun, opts Options) []*core.Segment {
	ticks := run.Ticks
	windowMeters := opts.Value
	stepMeters := opts.SecondaryValue

	var segments []*core.Segment
	if opts.AddJunctions {
		segments = append(segments, s.junctionBlocks(run, opts)...)
	}
	lastStart := s.LastValidStart(ticks, windowMeters)
	for i := 0; i <= lastStart; i = s.ticksCovering(ticks, i, stepMeters) {
		end, _ := s.IndexAtDistance(ticks, i, windowMeters)
		if seg := s.emit(run, opts, i, end+1, false); seg != nil {
			segments = append(segments, seg)
		}
	}
	return segments
}

// slidingWindowByBlock slides Value-tick windows inside each block.
// Blocks containing a junction are emitted whole when AddJunctions is
// set; blocks too short for a window are emitted whole once.
func (s *Segmenter) slidingWindowByBlock(run core.SimulationRun, opts Options) []*core.Segment {
	w := intParam(opts.Value, 1)
	step := intParam(opts.SecondaryValue, 1)

	var segments []*core.Segment
	for _, r := range s.blockRanges(run.Ticks) {
		if opts.AddJunctions && s.rangeContainsJunction(run.Ticks, r) {
			if seg := s.emit(run, opts, r.start, r.end, true); seg != nil {
				segments = append(segments, seg)
			}
			continue
		}
		if r.end-r.start < w {
			if seg := s.emit(run, opts, r.start, r.end, false); seg != nil {
				segments = append(segments, seg)
			}
			continue
		}
		for i := r.start; i+w <= r.end; i += step {
			if seg := s.emit(run, opts, i, i+w, false); seg != nil {
				segments = append(segments, seg)
			}
		}
	}
	return segments
}

// slidingWindowHalving runs five passes with window sizes n, n/2, n/4,
// n/8 and n/16, each stepping by a tenth of the size. Sizes below the
// minimum are skipped.
func (s *Segmenter) slidingWindowHalving(run core.SimulationRun, opts Options) []*core.Segment {
	n := len(run.Ticks)
	var segments []*core.Segment
	size := n
	for pass := 0; pass < 5; pass++ {
		if size < opts.MinSegmentTickCount {
			if s.logger != nil {
				s.logger.Debug("halving pass window below minimum, skipped",
					"simulationRunId", run.SimulationRunID, "window", size)
			}
			size /= 2
			continue
		}
		step := size / 10
		if step < 1 {
			step = 1
		}
		segments = append(segments, s.slideTicks(run, opts, size, step)...)
		size /= 2
	}
	return segments
}

// slidingWindowHalfOverlap emits Value-tick windows stepping by a
// quarter of the window.
func (s *Segmenter) slidingWindowHalfOverlap(run core.SimulationRun, opts Options) []*core.Segment {
	w := intParam(opts.Value, 1)
	step := w / 4
	if step < 1 {
		step = 1
	}
	var segments []*core.Segment
	if opts.AddJunctions {
		segments = append(segments, s.junctionBlocks(run, opts)...)
	}
	return append(segments, s.slideTicks(run, opts, w, step)...)
}

// slidingWindowRotating samples each window's size uniformly from the
// rotation list, stepping by Value ticks. The injected RNG drives the
// sampling.
func (s *Segmenter) slidingWindowRotating(run core.SimulationRun, opts Options) []*core.Segment {
	step := intParam(opts.Value, 1)
	n := len(run.Ticks)

	var segments []*core.Segment
	if opts.AddJunctions {
		segments = append(segments, s.junctionBlocks(run, opts)...)
	}
	for i := 0; ; i += step {
		w := rotatingTickSizes[s.rng.Intn(len(rotatingTickSizes))]
		if i+w >= n {
			break
		}
		if seg := s.emit(run, opts, i, i+w, false); seg != nil {
			segments = append(segments, seg)
		}
	}
	return segments
}

// slidingWindowByTrafficDensity chooses each window's size by the bucket
// of the vehicle count in the ego's block at the window start.
func (s *Segmenter) slidingWindowByTrafficDensity(run core.SimulationRun, opts Options) []*core.Segment {
	step := intParam(opts.Value, 1)
	ticks := run.Ticks
	n := len(ticks)

	var segments []*core.Segment
	if opts.AddJunctions {
		segments = append(segments, s.junctionBlocks(run, opts)...)
	}
	for i := 0; ; i += step {
		if i >= n {
			break
		}
		idx, err := bucketIndex(densityBounds, float64(s.trafficDensity(ticks[i])))
		if err != nil {
			// Vehicle counts are always finite.
			idx = len(densityWindowSizes) - 1
		}
		w := densityWindowSizes[idx]
		if i+w >= n {
			break
		}
		if seg := s.emit(run, opts, i, i+w, false); seg != nil {
			segments = append(segments, seg)
		}
	}
	return segments
}

// slidingMultistartMeters runs one metre-window pass per size in the
// multistart list, overlapping by Value percent.
func (s *Segmenter) slidingMultistartMeters(run core.SimulationRun, opts Options) []*core.Segment {
	ticks := run.Ticks
	overlapPct := opts.Value

	var segments []*core.Segment
	for _, size := range multistartMeterSizes {
		stepMeters := size * (1 - overlapPct/100)
		if stepMeters < 1 {
			stepMeters = 1
		}
		lastStart := s.LastValidStart(ticks, size)
		for i := 0; i <= lastStart; i = s.ticksCovering(ticks, i, stepMeters) {
			end, _ := s.IndexAtDistance(ticks, i, size)
			if seg := s.emit(run, opts, i, end+1, false); seg != nil {
				segments = append(segments, seg)
			}
		}
	}
	return segments
}

// slidingMultistartTicks runs one tick-window pass per size in the
// multistart list, overlapping by Value percent.
func (s *Segmenter) slidingMultistartTicks(run core.SimulationRun, opts Options) []*core.Segment {
	overlapPct := opts.Value

	var segments []*core.Segment
	for _, size := range multistartTickSizes {
		step := int(float64(size) * (1 - overlapPct/100))
		if step < 1 {
			step = 1
		}
		segments = append(segments, s.slideTicks(run, opts, size, step)...)
	}
	return segments
}

// trafficDensity counts the vehicles in the ego's block at the tick.
func (s *Segmenter) trafficDensity(t *core.TickData) int {
	blockID := s.egoBlockID(t)
	count := 0
	for _, v := range t.Vehicles() {
		if s.net.Block(s.net.BlockOfLane(v.Lane)).ID == blockID {
			count++
		}
	}
	return count
}
