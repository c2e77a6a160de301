// Package geo builds geometric views over segments for downstream
// consumers: the ego trajectory as a line string and path-length
// measures derived from it.
package geo

import (
	"fmt"

	geom "github.com/peterstace/simplefeatures/geom"

	"github.com/Rheadawn/stars/internal/model/core"
)

// Trajectory builds the ego's path through a segment as an XY line
// string (elevation dropped).
func Trajectory(seg *core.Segment) (geom.LineString, error) {
	if seg.TickCount() < 2 {
		return geom.LineString{}, fmt.Errorf("trajectory needs at least 2 ticks, segment has %d", seg.TickCount())
	}
	flatCoords := make([]float64, 0, seg.TickCount()*2)
	for _, td := range seg.TickData {
		if td.Ego == nil {
			return geom.LineString{}, fmt.Errorf("segment tick without ego vehicle")
		}
		flatCoords = append(flatCoords, td.Ego.Location.X, td.Ego.Location.Y)
	}
	seq := geom.NewSequence(flatCoords, geom.DimXY)
	return geom.NewLineString(seq)
}

// PathLengthMeters returns the length of the ego trajectory through the
// segment. Segments too short for a trajectory have length zero.
func PathLengthMeters(seg *core.Segment) float64 {
	ls, err := Trajectory(seg)
	if err != nil {
		return 0
	}
	return ls.Length()
}
