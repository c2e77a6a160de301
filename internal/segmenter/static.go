package segmenter

import (
	"github.com/Rheadawn/stars/internal/model/core"
)

// staticLengthTicks emits fixed windows of Value ticks, stepping by
// SecondaryValue ticks. When the next window would run past the end, the
// last full window ending at the run's final tick is emitted instead.
func (s *Segmenter) staticLengthTicks(run core.SimulationRun, opts Options) []*core.Segment {
	ticks := run.Ticks
	n := len(ticks)
	w := intParam(opts.Value, 1)
	step := intParam(opts.SecondaryValue, 1)

	var segments []*core.Segment
	for i := 0; ; i += step {
		start, end := i, i+w
		last := false
		if end > n {
			start, end = n-w, n
			if start < 0 {
				start = 0
			}
			last = true
		}
		a, b, moved := s.junctionExtend(ticks, start, end)
		if seg := s.emit(run, opts, a, b, moved); seg != nil {
			segments = append(segments, seg)
		}
		if last {
			break
		}
	}
	return segments
}

// staticLengthMeters emits windows covering Value metres of ego path,
// advancing by the ticks covering SecondaryValue metres. Starts past the
// last valid one produce a single remainder segment.
func (s *Segmenter) staticLengthMeters(run core.SimulationRun, opts Options) []*core.Segment {
	ticks := run.Ticks
	n := len(ticks)
	windowMeters := opts.Value
	stepMeters := opts.SecondaryValue

	lastStart := s.LastValidStart(ticks, windowMeters)

	var segments []*core.Segment
	i := 0
	for i <= lastStart {
		end, _ := s.IndexAtDistance(ticks, i, windowMeters)
		a, b, moved := s.junctionExtend(ticks, i, end+1)
		if seg := s.emit(run, opts, a, b, moved); seg != nil {
			segments = append(segments, seg)
		}
		i = s.ticksCovering(ticks, i, stepMeters)
	}
	if i < n {
		a, b, moved := s.junctionExtend(ticks, i, n)
		if seg := s.emit(run, opts, a, b, moved); seg != nil {
			segments = append(segments, seg)
		}
	}
	return segments
}

func intParam(v float64, min int) int {
	i := int(v)
	if i < min {
		return min
	}
	return i
}
