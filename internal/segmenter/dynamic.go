package segmenter

import (
	"fmt"
	"math"

	"github.com/Rheadawn/stars/internal/model/core"
)

// Dynamic window parameters. Speeds are in km/h, accelerations in m/s²
// (the derived magnitudes), distances in metres.
const (
	dynamicSpeedLookAhead = 60.0
	dynamicSpeedScalar    = 300.0

	dynamicAccelLookAhead = 60.0
	dynamicAccelScalar    = 1.0

	dynamicSpeedAccel1LookAhead = 30.0
	dynamicSpeedAccel2LookAhead = 30.0
	dynamicSpeedAccel2Scalar    = 30.0
)

// dynamicLengthMeters emits windows whose metre budget adapts to the
// ego's kinematics at the window start, stepping by the ticks covering
// Value metres. Windows exceeding MaxSegmentTickCount are truncated.
func (s *Segmenter) dynamicLengthMeters(run core.SimulationRun, opts Options) ([]*core.Segment, error) {
	if opts.MaxSegmentTickCount <= 0 {
		return nil, fmt.Errorf("%w: %s requires maxSegmentTickCount", ErrUnsupportedStrategy, opts.Type)
	}
	ticks := run.Ticks
	n := len(ticks)
	stepMeters := opts.Value

	var segments []*core.Segment
	for i := 0; i < n; {
		meters, err := s.dynamicWindowMeters(opts.Type, ticks[i].Ego)
		if err != nil {
			return nil, err
		}
		end, _ := s.IndexAtDistance(ticks, i, meters)
		candEnd := end + 1
		if candEnd-i > opts.MaxSegmentTickCount {
			candEnd = i + opts.MaxSegmentTickCount
			if s.logger != nil {
				s.logger.Debug("segment truncated to maximum tick count",
					"simulationRunId", run.SimulationRunID,
					"start", i, "max", opts.MaxSegmentTickCount)
			}
		}
		a, b, moved := s.junctionExtend(ticks, i, candEnd)
		if seg := s.emit(run, opts, a, b, moved); seg != nil {
			segments = append(segments, seg)
		}
		i = s.ticksCovering(ticks, i, stepMeters)
	}
	return segments, nil
}

// dynamicWindowMeters computes the metre budget for a window starting at
// the given ego state.
func (s *Segmenter) dynamicWindowMeters(t Type, ego *core.Vehicle) (float64, error) {
	speed := ego.EffVelocityKmPerH()
	accel := ego.EffAccelerationMPerS2()
	if math.IsNaN(speed) || math.IsInf(speed, 0) || math.IsNaN(accel) || math.IsInf(accel, 0) {
		return 0, fmt.Errorf("%w: speed=%f accel=%f", ErrUnsupportedInput, speed, accel)
	}
	switch t {
	case DynamicSegmentLengthMetersSpeed:
		return dynamicSpeedLookAhead * (1 + speed/dynamicSpeedScalar), nil
	case DynamicSegmentLengthMetersAcceleration:
		return dynamicAccelScalar*accel*accel + dynamicAccelLookAhead, nil
	case DynamicSegmentLengthMetersSpeedAccel1:
		return dynamicSpeedAccel1LookAhead +
			(accel/2)*1.2*1.2 +
			speed*1.2 +
			(speed/10)*(speed/10)*0.5, nil
	case DynamicSegmentLengthMetersSpeedAccel2:
		return dynamicSpeedAccel2LookAhead*(1+speed/dynamicSpeedAccel2Scalar) +
			math.Abs(accel)*5, nil
	default:
		return 0, fmt.Errorf("%w: %q is not a dynamic strategy", ErrUnsupportedStrategy, t)
	}
}
