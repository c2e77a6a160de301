// Package convert transforms cleaned raw tick lists into ego-centric
// core timelines: one SimulationRun per selected ego vehicle, each with
// its own deep-cloned tick list.
package convert

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Rheadawn/stars/internal/model"
	"github.com/Rheadawn/stars/internal/model/core"
	"github.com/Rheadawn/stars/internal/roadnet"
)

// Logger is the minimal logging surface the converter needs.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Converter builds core timelines from raw ticks.
type Converter struct {
	net    *roadnet.Network
	logger Logger
}

// New creates a converter over the given road network.
func New(net *roadnet.Network, logger Logger) *Converter {
	return &Converter{net: net, logger: logger}
}

// ConvertRun converts one cleaned raw tick list into zero or more
// simulation runs, one per selected ego vehicle. An ego whose id vanishes
// mid-run is skipped entirely rather than emitted as a partial timeline.
func (c *Converter) ConvertRun(ticks []model.RawTick, simulationRunID string, useEveryVehicleAsEgo bool) ([]core.SimulationRun, error) {
	if len(ticks) == 0 {
		return nil, nil
	}

	reference := make([]*core.TickData, len(ticks))
	for i := range ticks {
		td, err := c.convertTick(&ticks[i])
		if err != nil {
			return nil, fmt.Errorf("converting tick %d: %w", i, err)
		}
		reference[i] = td
	}

	egoIDs := selectEgos(reference[0], useEveryVehicleAsEgo)

	var runs []core.SimulationRun
	for _, egoID := range egoIDs {
		timeline := core.CloneTicks(reference)
		if useEveryVehicleAsEgo {
			for _, td := range timeline {
				for _, v := range td.Vehicles() {
					v.IsEgo = false
				}
			}
		}
		if !tagEgo(timeline, egoID) {
			if c.logger != nil {
				c.logger.Info("ego vehicle missing mid-run, skipping run",
					"simulationRunId", simulationRunID, "egoId", egoID)
			}
			continue
		}
		runs = append(runs, core.SimulationRun{
			SimulationRunID: simulationRunID,
			Ticks:           timeline,
		})
	}
	return runs, nil
}

// convertTick converts one raw tick, resolving lane references.
func (c *Converter) convertTick(raw *model.RawTick) (*core.TickData, error) {
	td := &core.TickData{
		CurrentTick: raw.CurrentTick,
		Actors:      make([]core.Actor, 0, len(raw.ActorPositions)),
	}
	for i := range raw.ActorPositions {
		pos := &raw.ActorPositions[i]
		actor, err := c.convertActor(pos)
		if err != nil {
			return nil, err
		}
		td.Actors = append(td.Actors, actor)
	}
	return td, nil
}

func (c *Converter) convertActor(pos *model.RawActorPosition) (core.Actor, error) {
	base := core.ActorBase{
		ID:       pos.Actor.ID,
		Location: r3.Vec{X: pos.Actor.Location.X, Y: pos.Actor.Location.Y, Z: pos.Actor.Location.Z},
	}
	switch pos.Actor.Kind {
	case model.ActorKindVehicle:
		lane, err := c.net.FindLane(pos.RoadID, pos.LaneID)
		if err != nil {
			return nil, err
		}
		return &core.Vehicle{
			ActorBase:      base,
			TypeID:         pos.Actor.TypeID,
			IsEgo:          pos.Actor.EgoVehicle,
			Lane:           lane,
			PositionOnLane: pos.PositionOnLane,
		}, nil
	case model.ActorKindPedestrian:
		// Pedestrians may stand off the mapped network; an unresolvable
		// lane is kept as NoLane rather than failing the run.
		lane, err := c.net.FindLane(pos.RoadID, pos.LaneID)
		if err != nil {
			lane = roadnet.NoLane
		}
		return &core.Pedestrian{
			ActorBase:      base,
			Lane:           lane,
			PositionOnLane: pos.PositionOnLane,
		}, nil
	case model.ActorKindTrafficLight:
		return &core.TrafficLight{ActorBase: base, State: pos.Actor.State}, nil
	case model.ActorKindTrafficSign:
		return &core.TrafficSign{ActorBase: base, SignType: pos.Actor.SignType}, nil
	default:
		return nil, fmt.Errorf("unknown actor kind %q", pos.Actor.Kind)
	}
}

// selectEgos applies the ego selection rules to the first tick.
func selectEgos(first *core.TickData, useEveryVehicleAsEgo bool) []int64 {
	vehicles := first.Vehicles()
	if len(vehicles) == 0 {
		return nil
	}
	if useEveryVehicleAsEgo {
		ids := make([]int64, len(vehicles))
		for i, v := range vehicles {
			ids[i] = v.ID
		}
		return ids
	}
	var tagged []int64
	for _, v := range vehicles {
		if v.IsEgo {
			tagged = append(tagged, v.ID)
		}
	}
	if len(tagged) > 0 {
		return tagged
	}
	return []int64{vehicles[0].ID}
}

// tagEgo walks the timeline setting the ego flag and view on the vehicle
// with the given id. Returns false if the id is missing from any tick.
func tagEgo(timeline []*core.TickData, egoID int64) bool {
	for _, td := range timeline {
		v := td.VehicleByID(egoID)
		if v == nil {
			return false
		}
		v.IsEgo = true
		td.Ego = v
	}
	return true
}
