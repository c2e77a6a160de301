package segmenter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestDynamicSpeed_ConstantSixtyKmPerH(t *testing.T) {
	net := testNetwork(t)
	s := New(net, nil, nil)

	// 60 km/h at a 0.1 s tick period: 5/3 m per tick.
	metersPerTick := 60.0 / 3.6 * 0.1
	run := straightRun(t, net, 200, 0.1, metersPerTick)

	segments, err := s.Segment(run, Options{
		Type: DynamicSegmentLengthMetersSpeed, Value: 10,
		MinSegmentTickCount: 10, MaxSegmentTickCount: 200,
	})
	require.NoError(t, err)
	require.NotEmpty(t, segments)

	// Window metres = 60*(1+60/300) = 72 m -> 44 steps of 5/3 m.
	assert.Equal(t, 45, segments[0].TickCount())

	// Step = ticks covering 10 m = 6 ticks.
	require.Greater(t, len(segments), 1)
	assert.InDelta(t, 0.6, segments[1].FirstTick().CurrentTick, 1e-9)
}

func TestDynamicSpeed_TruncatedToMax(t *testing.T) {
	net := testNetwork(t)
	s := New(net, nil, nil)
	metersPerTick := 60.0 / 3.6 * 0.1
	run := straightRun(t, net, 200, 0.1, metersPerTick)

	segments, err := s.Segment(run, Options{
		Type: DynamicSegmentLengthMetersSpeed, Value: 10,
		MinSegmentTickCount: 1, MaxSegmentTickCount: 20,
	})
	require.NoError(t, err)
	for _, seg := range segments {
		assert.LessOrEqual(t, seg.TickCount(), 20)
	}
}

func TestDynamic_RequiresMaxTickCount(t *testing.T) {
	net := testNetwork(t)
	s := New(net, nil, nil)
	run := straightRun(t, net, 50, 0.1, 1.0)

	_, err := s.Segment(run, Options{
		Type: DynamicSegmentLengthMetersAcceleration, Value: 10,
	})
	assert.Error(t, err)
}

func TestDynamic_NaNKinematicsRejected(t *testing.T) {
	net := testNetwork(t)
	s := New(net, nil, nil)
	run := straightRun(t, net, 50, 0.1, 1.0)
	run.Ticks[0].Ego.Velocity = r3.Vec{X: math.NaN()}

	_, err := s.Segment(run, Options{
		Type: DynamicSegmentLengthMetersSpeed, Value: 10,
		MinSegmentTickCount: 1, MaxSegmentTickCount: 100,
	})
	assert.ErrorIs(t, err, ErrUnsupportedInput)
}

func TestDynamicWindowMeters_Formulas(t *testing.T) {
	net := testNetwork(t)
	s := New(net, nil, nil)

	ego := egoTick(t, net, 0, 1, 1, 0, 60).Ego // 60 km/h
	ego.Acceleration = r3.Vec{X: 2}            // 2 m/s²

	tests := []struct {
		typ  Type
		want float64
	}{
		{DynamicSegmentLengthMetersSpeed, 60 * (1 + 60.0/300)},
		{DynamicSegmentLengthMetersAcceleration, 2*2 + 60},
		{DynamicSegmentLengthMetersSpeedAccel1, 30 + (2.0/2)*1.44 + 60*1.2 + 36*0.5},
		{DynamicSegmentLengthMetersSpeedAccel2, 30*(1+60.0/30) + 2*5},
	}
	for _, tt := range tests {
		got, err := s.dynamicWindowMeters(tt.typ, ego)
		require.NoError(t, err, string(tt.typ))
		assert.InDelta(t, tt.want, got, 1e-9, string(tt.typ))
	}
}
