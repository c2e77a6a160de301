// Package kinematics derives per-vehicle velocity and acceleration
// vectors from successive positions and the simulation clock.
package kinematics

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Rheadawn/stars/internal/model/core"
)

// ErrTypeMismatch is returned when an actor id resolves to a vehicle in
// one tick and a different actor kind in the previous tick.
var ErrTypeMismatch = errors.New("actor type mismatch between ticks")

// ErrTimeOrderViolation is returned when the simulation clock runs
// backwards between consecutive ticks.
var ErrTimeOrderViolation = errors.New("tick time order violation")

// Fill derives velocity and acceleration for every vehicle of the run
// from its location in the preceding tick.
//
// The acceleration update is velocity - prev.velocity/dt, reproducing
// the recorded trace semantics exactly.
func Fill(run *core.SimulationRun) error {
	ticks := run.Ticks
	for i := 1; i < len(ticks); i++ {
		dt := ticks[i].CurrentTick - ticks[i-1].CurrentTick
		if dt < 0 {
			return fmt.Errorf("%w: tick %d at %fs precedes tick %d at %fs",
				ErrTimeOrderViolation, i, ticks[i].CurrentTick, i-1, ticks[i-1].CurrentTick)
		}
		for _, v := range ticks[i].Vehicles() {
			prev := ticks[i-1].ActorByID(v.ID)
			if prev == nil {
				v.Velocity = r3.Vec{}
				v.Acceleration = r3.Vec{}
				continue
			}
			prevVehicle, ok := prev.(*core.Vehicle)
			if !ok {
				return fmt.Errorf("%w: actor %d is not a vehicle in tick %d",
					ErrTypeMismatch, v.ID, i-1)
			}
			if dt == 0 {
				v.Velocity = r3.Vec{}
				v.Acceleration = r3.Vec{}
				continue
			}
			v.Velocity = r3.Scale(1/dt, r3.Sub(v.Location, prevVehicle.Location))
			v.Acceleration = r3.Sub(v.Velocity, r3.Scale(1/dt, prevVehicle.Velocity))
		}
	}
	return nil
}
