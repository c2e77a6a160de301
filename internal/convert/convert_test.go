package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rheadawn/stars/internal/model"
	"github.com/Rheadawn/stars/internal/roadnet"
)

func testNetwork(t *testing.T) *roadnet.Network {
	t.Helper()
	net, err := roadnet.NewNetwork([]roadnet.BlockDoc{
		{ID: "b", Roads: []roadnet.RoadDoc{{
			ID: 1,
			Lanes: []roadnet.LaneDoc{
				{LaneID: 1, LaneType: "Driving"},
				{LaneID: 2, LaneType: "Driving"},
			},
		}}},
	})
	require.NoError(t, err)
	return net
}

func vehicleAt(id int64, ego bool, x float64) model.RawActorPosition {
	return model.RawActorPosition{
		Actor: model.RawActor{
			Kind:       model.ActorKindVehicle,
			ID:         id,
			EgoVehicle: ego,
			Location:   model.Vec3{X: x},
		},
		RoadID: 1, LaneID: 1,
		PositionOnLane: x,
	}
}

func TestConvertRun_EmptyInput(t *testing.T) {
	c := New(testNetwork(t), nil)
	runs, err := c.ConvertRun(nil, "run", false)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestConvertRun_TaggedEgoSelected(t *testing.T) {
	c := New(testNetwork(t), nil)
	ticks := []model.RawTick{
		{CurrentTick: 0, ActorPositions: []model.RawActorPosition{
			vehicleAt(1, false, 0),
			vehicleAt(2, true, 10),
		}},
		{CurrentTick: 0.1, ActorPositions: []model.RawActorPosition{
			vehicleAt(1, false, 1),
			vehicleAt(2, true, 11),
		}},
	}
	runs, err := c.ConvertRun(ticks, "run", false)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run", runs[0].SimulationRunID)
	for _, td := range runs[0].Ticks {
		require.NotNil(t, td.Ego)
		assert.Equal(t, int64(2), td.Ego.ID)
		assert.True(t, td.Ego.IsEgo)
	}
}

func TestConvertRun_FirstVehicleFallback(t *testing.T) {
	c := New(testNetwork(t), nil)
	ticks := []model.RawTick{
		{CurrentTick: 0, ActorPositions: []model.RawActorPosition{
			vehicleAt(5, false, 0),
			vehicleAt(6, false, 10),
		}},
	}
	runs, err := c.ConvertRun(ticks, "run", false)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, int64(5), runs[0].Ticks[0].Ego.ID)
}

func TestConvertRun_EveryVehicleAsEgo(t *testing.T) {
	c := New(testNetwork(t), nil)
	ticks := []model.RawTick{
		{CurrentTick: 0, ActorPositions: []model.RawActorPosition{
			vehicleAt(1, true, 0),
			vehicleAt(2, false, 10),
		}},
		{CurrentTick: 0.1, ActorPositions: []model.RawActorPosition{
			vehicleAt(1, true, 1),
			vehicleAt(2, false, 11),
		}},
	}
	runs, err := c.ConvertRun(ticks, "run", true)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	// Each run has exactly one ego vehicle per tick, the other cleared.
	for i, wantEgo := range []int64{1, 2} {
		for _, td := range runs[i].Ticks {
			egoCount := 0
			for _, v := range td.Vehicles() {
				if v.IsEgo {
					egoCount++
					assert.Equal(t, wantEgo, v.ID)
				}
			}
			assert.Equal(t, 1, egoCount)
			assert.Equal(t, wantEgo, td.Ego.ID)
		}
	}
}

func TestConvertRun_CloneIsolation(t *testing.T) {
	c := New(testNetwork(t), nil)
	ticks := []model.RawTick{
		{CurrentTick: 0, ActorPositions: []model.RawActorPosition{
			vehicleAt(1, false, 0),
			vehicleAt(2, false, 10),
		}},
	}
	runs, err := c.ConvertRun(ticks, "run", true)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	runs[0].Ticks[0].Ego.Location.X = 999
	assert.NotEqual(t, 999.0, runs[1].Ticks[0].VehicleByID(1).Location.X)
}

func TestConvertRun_EgoVanishesMidRun(t *testing.T) {
	c := New(testNetwork(t), nil)
	ticks := []model.RawTick{
		{CurrentTick: 0, ActorPositions: []model.RawActorPosition{
			vehicleAt(1, false, 0),
			vehicleAt(2, false, 10),
		}},
		{CurrentTick: 0.1, ActorPositions: []model.RawActorPosition{
			vehicleAt(2, false, 11),
		}},
	}
	runs, err := c.ConvertRun(ticks, "run", true)
	require.NoError(t, err)

	// Vehicle 1's run is aborted, vehicle 2's survives.
	require.Len(t, runs, 1)
	assert.Equal(t, int64(2), runs[0].Ticks[0].Ego.ID)
}

func TestConvertRun_UnknownLaneFailsRun(t *testing.T) {
	c := New(testNetwork(t), nil)
	bad := vehicleAt(1, true, 0)
	bad.RoadID = 77
	ticks := []model.RawTick{{CurrentTick: 0, ActorPositions: []model.RawActorPosition{bad}}}
	_, err := c.ConvertRun(ticks, "run", false)
	assert.ErrorIs(t, err, roadnet.ErrUnknownLane)
}

func TestConvertRun_NonVehicleActors(t *testing.T) {
	c := New(testNetwork(t), nil)
	ticks := []model.RawTick{
		{CurrentTick: 0, ActorPositions: []model.RawActorPosition{
			vehicleAt(1, true, 0),
			{Actor: model.RawActor{Kind: model.ActorKindPedestrian, ID: 2}, RoadID: 1, LaneID: 2},
			{Actor: model.RawActor{Kind: model.ActorKindTrafficLight, ID: 3, State: "Green"}},
			{Actor: model.RawActor{Kind: model.ActorKindTrafficSign, ID: 4, SignType: "stop"}},
		}},
	}
	runs, err := c.ConvertRun(ticks, "run", false)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	td := runs[0].Ticks[0]
	assert.Len(t, td.Actors, 4)
	assert.Len(t, td.Vehicles(), 1)
	assert.Len(t, td.Pedestrians(), 1)
	// Unmapped traffic light lane does not fail the run.
	assert.NotNil(t, td.ActorByID(3))
}
