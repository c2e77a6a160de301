// Package segmenter cuts converted, kinematically complete timelines
// into segments under one strategy from a closed family: fixed-tick,
// fixed-distance, speed/acceleration-adaptive, sliding-window, block and
// event-triggered variants, plus a composite.
package segmenter

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/Rheadawn/stars/internal/model/core"
	"github.com/Rheadawn/stars/internal/roadnet"
)

// ErrUnsupportedStrategy is returned for a Type outside the closed family.
var ErrUnsupportedStrategy = errors.New("unsupported segmentation strategy")

// ErrUnsupportedInput is returned when bucket computation meets NaN or
// infinite kinematics.
var ErrUnsupportedInput = errors.New("unsupported input for bucket computation")

// Type names one segmentation strategy.
type Type string

const (
	StaticSegmentLengthTicks                Type = "STATIC_SEGMENT_LENGTH_TICKS"
	StaticSegmentLengthMeters               Type = "STATIC_SEGMENT_LENGTH_METERS"
	DynamicSegmentLengthMetersSpeed         Type = "DYNAMIC_SEGMENT_LENGTH_METERS_SPEED"
	DynamicSegmentLengthMetersAcceleration  Type = "DYNAMIC_SEGMENT_LENGTH_METERS_ACCELERATION"
	DynamicSegmentLengthMetersSpeedAccel1   Type = "DYNAMIC_SEGMENT_LENGTH_METERS_SPEED_ACCELERATION_1"
	DynamicSegmentLengthMetersSpeedAccel2   Type = "DYNAMIC_SEGMENT_LENGTH_METERS_SPEED_ACCELERATION_2"
	SlidingWindowMultistartMeters           Type = "SLIDING_WINDOW_MULTISTART_METERS"
	SlidingWindowMultistartTicks            Type = "SLIDING_WINDOW_MULTISTART_TICKS"
	ByBlock                                 Type = "BY_BLOCK"
	None                                    Type = "NONE"
	EvenSize                                Type = "EVEN_SIZE"
	ByLength                                Type = "BY_LENGTH"
	ByTicks                                 Type = "BY_TICKS"
	BySpeedLimits                           Type = "BY_SPEED_LIMITS"
	ByDynamicSpeed                          Type = "BY_DYNAMIC_SPEED"
	ByDynamicAcceleration                   Type = "BY_DYNAMIC_ACCELERATION"
	ByDynamicTrafficDensity                 Type = "BY_DYNAMIC_TRAFFIC_DENSITY"
	ByDynamicPedestrianProximity            Type = "BY_DYNAMIC_PEDESTRIAN_PROXIMITY"
	ByDynamicLaneChanges                    Type = "BY_DYNAMIC_LANE_CHANGES"
	ByDynamicVariables                      Type = "BY_DYNAMIC_VARIABLES"
	SlidingWindow                           Type = "SLIDING_WINDOW"
	SlidingWindowMeters                     Type = "SLIDING_WINDOW_METERS"
	SlidingWindowByBlock                    Type = "SLIDING_WINDOW_BY_BLOCK"
	SlidingWindowHalving                    Type = "SLIDING_WINDOW_HALVING"
	SlidingWindowHalfOverlap                Type = "SLIDING_WINDOW_HALF_OVERLAP"
	SlidingWindowRotating                   Type = "SLIDING_WINDOW_ROTATING"
	SlidingWindowByTrafficDensity           Type = "SLIDING_WINDOW_BY_TRAFFIC_DENSITY"
)

// Options selects a strategy and its parameters. Value and SecondaryValue
// are the strategy's primary and secondary parameters (window, step,
// split count, overlap percentage) as listed in the strategy family.
type Options struct {
	Type           Type
	Value          float64
	SecondaryValue float64
	AddJunctions   bool

	// MinSegmentTickCount drops non-junction candidates shorter than
	// this. MaxSegmentTickCount truncates dynamic windows.
	MinSegmentTickCount int
	MaxSegmentTickCount int
}

// Logger is the minimal logging surface the segmenter needs.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Segmenter applies segmentation strategies over one road network.
// The RNG drives the window-size sampling of SLIDING_WINDOW_ROTATING and
// is injectable for reproducible runs.
type Segmenter struct {
	net    *roadnet.Network
	logger Logger
	rng    *rand.Rand
}

// New creates a segmenter. rng may be nil when no rotating strategy is used.
func New(net *roadnet.Network, logger Logger, rng *rand.Rand) *Segmenter {
	return &Segmenter{net: net, logger: logger, rng: rng}
}

// Segment cuts the run under the selected strategy. Empty input yields
// empty output; an unknown strategy type is an error.
func (s *Segmenter) Segment(run core.SimulationRun, opts Options) ([]*core.Segment, error) {
	if len(run.Ticks) == 0 {
		return nil, nil
	}
	switch opts.Type {
	case StaticSegmentLengthTicks:
		return s.staticLengthTicks(run, opts), nil
	case StaticSegmentLengthMeters:
		return s.staticLengthMeters(run, opts), nil
	case DynamicSegmentLengthMetersSpeed,
		DynamicSegmentLengthMetersAcceleration,
		DynamicSegmentLengthMetersSpeedAccel1,
		DynamicSegmentLengthMetersSpeedAccel2:
		return s.dynamicLengthMeters(run, opts)
	case SlidingWindowMultistartMeters:
		return s.slidingMultistartMeters(run, opts), nil
	case SlidingWindowMultistartTicks:
		return s.slidingMultistartTicks(run, opts), nil
	case ByBlock:
		return s.byBlock(run, opts), nil
	case None:
		return s.wholeRun(run, opts), nil
	case EvenSize:
		return s.evenSize(run, opts), nil
	case ByLength:
		return s.byLength(run, opts), nil
	case ByTicks:
		return s.byTicks(run, opts), nil
	case BySpeedLimits:
		return s.bySpeedLimits(run, opts), nil
	case ByDynamicSpeed:
		return s.byDynamicSpeed(run, opts)
	case ByDynamicAcceleration:
		return s.byDynamicAcceleration(run, opts)
	case ByDynamicTrafficDensity:
		return s.byDynamicTrafficDensity(run, opts)
	case ByDynamicPedestrianProximity:
		return s.byDynamicPedestrianProximity(run, opts), nil
	case ByDynamicLaneChanges:
		return s.byDynamicLaneChanges(run, opts), nil
	case ByDynamicVariables:
		return s.byDynamicVariables(run, opts)
	case SlidingWindow:
		return s.slidingWindow(run, opts), nil
	case SlidingWindowMeters:
		return s.slidingWindowMeters(run, opts), nil
	case SlidingWindowByBlock:
		return s.slidingWindowByBlock(run, opts), nil
	case SlidingWindowHalving:
		return s.slidingWindowHalving(run, opts), nil
	case SlidingWindowHalfOverlap:
		return s.slidingWindowHalfOverlap(run, opts), nil
	case SlidingWindowRotating:
		return s.slidingWindowRotating(run, opts), nil
	case SlidingWindowByTrafficDensity:
		return s.slidingWindowByTrafficDensity(run, opts), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedStrategy, opts.Type)
	}
}
