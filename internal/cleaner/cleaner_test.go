package cleaner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rheadawn/stars/internal/model"
	"github.com/Rheadawn/stars/internal/roadnet"
)

// testNetwork builds: road 1 -> junction road 50 (lanes 1 and 2) -> road 2.
// Lane 50/1 is the connection between the multilane roads; 50/2 dangles.
func testNetwork(t *testing.T) *roadnet.Network {
	t.Helper()
	net, err := roadnet.NewNetwork([]roadnet.BlockDoc{
		{ID: "in", Roads: []roadnet.RoadDoc{{
			ID: 1,
			Lanes: []roadnet.LaneDoc{{
				LaneID: 1, LaneType: "Driving",
				SuccessorLanes: []roadnet.LaneLinkDoc{{RoadID: 50, LaneID: 1}},
			}},
		}}},
		{ID: "junction", Roads: []roadnet.RoadDoc{{
			ID: 50, IsJunction: true,
			Lanes: []roadnet.LaneDoc{
				{
					LaneID: 1, LaneType: "Driving",
					PredecessorLanes: []roadnet.LaneLinkDoc{{RoadID: 1, LaneID: 1}},
					SuccessorLanes:   []roadnet.LaneLinkDoc{{RoadID: 2, LaneID: 1}},
				},
				{LaneID: 2, LaneType: "Driving"},
			},
		}}},
		{ID: "out", Roads: []roadnet.RoadDoc{{
			ID: 2,
			Lanes: []roadnet.LaneDoc{{
				LaneID: 1, LaneType: "Driving",
				PredecessorLanes: []roadnet.LaneLinkDoc{{RoadID: 50, LaneID: 1}},
			}},
		}}},
	})
	require.NoError(t, err)
	return net
}

// detourNetwork builds: road 1 -> 50/1 -> 50/2 -> road 2, so the only
// path from road 1 to road 2 goes through two junction lanes.
func detourNetwork(t *testing.T) *roadnet.Network {
	t.Helper()
	net, err := roadnet.NewNetwork([]roadnet.BlockDoc{
		{ID: "in", Roads: []roadnet.RoadDoc{{
			ID: 1,
			Lanes: []roadnet.LaneDoc{{
				LaneID: 1, LaneType: "Driving",
				SuccessorLanes: []roadnet.LaneLinkDoc{{RoadID: 50, LaneID: 1}},
			}},
		}}},
		{ID: "roundabout", Roads: []roadnet.RoadDoc{{
			ID: 50, IsJunction: true,
			Lanes: []roadnet.LaneDoc{
				{
					LaneID: 1, LaneType: "Driving",
					PredecessorLanes: []roadnet.LaneLinkDoc{{RoadID: 1, LaneID: 1}},
					SuccessorLanes:   []roadnet.LaneLinkDoc{{RoadID: 50, LaneID: 2}},
				},
				{
					LaneID: 2, LaneType: "Driving",
					PredecessorLanes: []roadnet.LaneLinkDoc{{RoadID: 50, LaneID: 1}},
					SuccessorLanes:   []roadnet.LaneLinkDoc{{RoadID: 2, LaneID: 1}},
				},
			},
		}}},
		{ID: "out", Roads: []roadnet.RoadDoc{{
			ID: 2,
			Lanes: []roadnet.LaneDoc{{
				LaneID: 1, LaneType: "Driving",
				PredecessorLanes: []roadnet.LaneLinkDoc{{RoadID: 50, LaneID: 2}},
			}},
		}}},
	})
	require.NoError(t, err)
	return net
}

func tick(time float64, roadID, laneID int64) model.RawTick {
	return model.RawTick{
		CurrentTick: time,
		ActorPositions: []model.RawActorPosition{{
			Actor:  model.RawActor{Kind: model.ActorKindVehicle, ID: 1},
			RoadID: roadID,
			LaneID: laneID,
		}},
	}
}

func labels(ticks []model.RawTick) [][2]int64 {
	out := make([][2]int64, len(ticks))
	for i, t := range ticks {
		out[i] = [2]int64{t.ActorPositions[0].RoadID, t.ActorPositions[0].LaneID}
	}
	return out
}

func TestClean_OutlierBetweenSameMultilane(t *testing.T) {
	// Ego leaves road 1, gets mislabelled across junction lanes A,B,A,A,A
	// and comes back to road 1: the labeller glitched inside the same
	// multilane road, so all five ticks snap back to road 1 lane 1.
	net := testNetwork(t)
	ticks := []model.RawTick{
		tick(0.0, 1, 1),
		tick(0.1, 50, 1),
		tick(0.2, 50, 2),
		tick(0.3, 50, 1),
		tick(0.4, 50, 1),
		tick(0.5, 50, 1),
		tick(0.6, 1, 1),
	}
	require.NoError(t, New(net, nil).Clean(ticks))

	want := [][2]int64{
		{1, 1}, {1, 1}, {1, 1}, {1, 1}, {1, 1}, {1, 1}, {1, 1},
	}
	assert.Equal(t, want, labels(ticks))
}

func TestClean_ConnectingLane(t *testing.T) {
	net := testNetwork(t)
	ticks := []model.RawTick{
		tick(0.0, 1, 1),
		tick(0.1, 50, 2),
		tick(0.2, 50, 1),
		tick(0.3, 50, 2),
		tick(0.4, 2, 1),
	}
	require.NoError(t, New(net, nil).Clean(ticks))

	want := [][2]int64{
		{1, 1}, {50, 1}, {50, 1}, {50, 1}, {2, 1},
	}
	assert.Equal(t, want, labels(ticks))
}

func TestClean_SameLaneUntouched(t *testing.T) {
	// A consistent traversal is not rewritten, even on the dangling lane.
	net := testNetwork(t)
	ticks := []model.RawTick{
		tick(0.0, 1, 1),
		tick(0.1, 50, 2),
		tick(0.2, 50, 2),
		tick(0.3, 2, 1),
	}
	require.NoError(t, New(net, nil).Clean(ticks))

	want := [][2]int64{
		{1, 1}, {50, 2}, {50, 2}, {2, 1},
	}
	assert.Equal(t, want, labels(ticks))
}

func TestClean_MajorityAtRunBoundary(t *testing.T) {
	// Run starts inside the junction: the most frequent accumulated lane
	// wins.
	net := testNetwork(t)
	ticks := []model.RawTick{
		tick(0.0, 50, 2),
		tick(0.1, 50, 1),
		tick(0.2, 50, 2),
		tick(0.3, 2, 1),
	}
	require.NoError(t, New(net, nil).Clean(ticks))

	want := [][2]int64{
		{50, 2}, {50, 2}, {50, 2}, {2, 1},
	}
	assert.Equal(t, want, labels(ticks))
}

func TestClean_TrailingJunctionMajority(t *testing.T) {
	// Run ends inside the junction: flushed with no following multilane.
	net := testNetwork(t)
	ticks := []model.RawTick{
		tick(0.0, 1, 1),
		tick(0.1, 50, 1),
		tick(0.2, 50, 2),
		tick(0.3, 50, 1),
	}
	require.NoError(t, New(net, nil).Clean(ticks))

	want := [][2]int64{
		{1, 1}, {50, 1}, {50, 1}, {50, 1},
	}
	assert.Equal(t, want, labels(ticks))
}

func TestClean_DetourLane(t *testing.T) {
	// No direct successor∩predecessor between road 1 and road 2; the
	// one-step detour finds 50/2.
	net := detourNetwork(t)
	ticks := []model.RawTick{
		tick(0.0, 1, 1),
		tick(0.1, 50, 1),
		tick(0.2, 50, 2),
		tick(0.3, 2, 1),
	}
	require.NoError(t, New(net, nil).Clean(ticks))

	want := [][2]int64{
		{1, 1}, {50, 2}, {50, 2}, {2, 1},
	}
	assert.Equal(t, want, labels(ticks))
}

func TestClean_UnknownLaneFails(t *testing.T) {
	net := testNetwork(t)
	ticks := []model.RawTick{tick(0.0, 999, 1)}
	err := New(net, nil).Clean(ticks)
	assert.ErrorIs(t, err, roadnet.ErrUnknownLane)
}

func TestClean_EmptyRun(t *testing.T) {
	net := testNetwork(t)
	assert.NoError(t, New(net, nil).Clean(nil))
}
