package segmenter

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Rheadawn/stars/internal/model/core"
	"github.com/Rheadawn/stars/internal/roadnet"
)

// testNetwork builds three blocks: road 1 (two driving lanes, limits 50
// and 30 km/h), junction road 50, and road 2.
func testNetwork(t *testing.T) *roadnet.Network {
	t.Helper()
	net, err := roadnet.NewNetwork([]roadnet.BlockDoc{
		{ID: "b1", Roads: []roadnet.RoadDoc{{
			ID: 1,
			Lanes: []roadnet.LaneDoc{
				{LaneID: 1, LaneType: "Driving", SpeedLimit: &roadnet.SpeedLimitDoc{SpeedLimit: 50}},
				{LaneID: 2, LaneType: "Driving", SpeedLimit: &roadnet.SpeedLimitDoc{SpeedLimit: 30}},
				{LaneID: 3, LaneType: "Sidewalk"},
			},
		}}},
		{ID: "bj", Roads: []roadnet.RoadDoc{{
			ID: 50, IsJunction: true,
			Lanes: []roadnet.LaneDoc{{LaneID: 1, LaneType: "Driving"}},
		}}},
		{ID: "b2", Roads: []roadnet.RoadDoc{{
			ID: 2,
			Lanes: []roadnet.LaneDoc{{LaneID: 1, LaneType: "Driving"}},
		}}},
	})
	require.NoError(t, err)
	return net
}

func newTestSegmenter(t *testing.T) *Segmenter {
	t.Helper()
	return New(testNetwork(t), nil, rand.New(rand.NewSource(1)))
}

// egoTick builds a tick holding only the ego vehicle.
func egoTick(t *testing.T, net *roadnet.Network, time float64, roadID, laneID int64, pos float64, speedKmPerH float64) *core.TickData {
	t.Helper()
	lane, err := net.FindLane(roadID, laneID)
	require.NoError(t, err)
	ego := &core.Vehicle{
		ActorBase:      core.ActorBase{ID: 1, Location: r3.Vec{X: pos}},
		IsEgo:          true,
		Lane:           lane,
		PositionOnLane: pos,
		Velocity:       r3.Vec{X: speedKmPerH / 3.6},
	}
	return &core.TickData{
		CurrentTick: time,
		Actors:      []core.Actor{ego},
		Ego:         ego,
	}
}

// straightRun builds n ticks on road 1 lane 1 with the given tick period
// and metres travelled per tick.
func straightRun(t *testing.T, net *roadnet.Network, n int, dt, metersPerTick float64) core.SimulationRun {
	t.Helper()
	run := core.SimulationRun{SimulationRunID: "test_run"}
	for i := 0; i < n; i++ {
		speedKmPerH := metersPerTick / dt * 3.6
		run.Ticks = append(run.Ticks,
			egoTick(t, net, float64(i)*dt, 1, 1, float64(i)*metersPerTick, speedKmPerH))
	}
	return run
}

// threeBlockRun builds perBlock ticks each on road 1, junction road 50
// and road 2.
func threeBlockRun(t *testing.T, net *roadnet.Network, perBlock int) core.SimulationRun {
	t.Helper()
	run := core.SimulationRun{SimulationRunID: "test_run"}
	i := 0
	for _, roadID := range []int64{1, 50, 2} {
		for j := 0; j < perBlock; j++ {
			run.Ticks = append(run.Ticks,
				egoTick(t, net, float64(i)*0.1, roadID, 1, float64(j), 30))
			i++
		}
	}
	return run
}

func newEmptyRun() core.SimulationRun {
	return core.SimulationRun{SimulationRunID: "empty"}
}

func segmentLengths(segments []*core.Segment) []int {
	out := make([]int, len(segments))
	for i, s := range segments {
		out[i] = s.TickCount()
	}
	return out
}
