package segmenter

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Rheadawn/stars/internal/model/core"
)

// IndexAtDistance walks forward from start accumulating the ego's path
// length per step: |ΔpositionOnLane| while the ego stays on one road,
// Euclidean location distance across road changes. It returns the first
// index whose cumulative distance reaches meters, or the last index with
// whatever distance was covered.
func (s *Segmenter) IndexAtDistance(ticks []*core.TickData, start int, meters float64) (int, float64) {
	acc := 0.0
	last := len(ticks) - 1
	for i := start + 1; i <= last; i++ {
		acc += s.stepDistance(ticks[i-1], ticks[i])
		if acc >= meters {
			return i, acc
		}
	}
	return last, acc
}

// LastValidStart scans backwards from the run's end accumulating
// Euclidean distance to the final location and returns the latest index
// from which meters of remaining path exist, or 0 if no index does.
func (s *Segmenter) LastValidStart(ticks []*core.TickData, meters float64) int {
	acc := 0.0
	for i := len(ticks) - 2; i >= 0; i-- {
		acc += r3.Norm(r3.Sub(ticks[i+1].Ego.Location, ticks[i].Ego.Location))
		if acc >= meters {
			return i
		}
	}
	return 0
}

func (s *Segmenter) stepDistance(prev, cur *core.TickData) float64 {
	prevRoad := s.net.LaneRoad(prev.Ego.Lane)
	curRoad := s.net.LaneRoad(cur.Ego.Lane)
	if prevRoad.ID == curRoad.ID {
		d := cur.Ego.PositionOnLane - prev.Ego.PositionOnLane
		if d < 0 {
			return -d
		}
		return d
	}
	return r3.Norm(r3.Sub(cur.Ego.Location, prev.Ego.Location))
}

// ticksCovering returns the next window start after advancing by the
// ticks covering meters of path from start. Always advances at least one
// tick so cursors cannot stall.
func (s *Segmenter) ticksCovering(ticks []*core.TickData, start int, meters float64) int {
	next, _ := s.IndexAtDistance(ticks, start, meters)
	if next <= start {
		return start + 1
	}
	return next
}
