// Package core holds the converted, ego-centric model the segmenter
// operates on: actors with resolved lane references, tick snapshots,
// simulation runs and segments.
package core

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Rheadawn/stars/internal/roadnet"
)

// ActorBase is the shared view of every actor variant.
type ActorBase struct {
	ID       int64
	Location r3.Vec
}

// ActorID returns the actor's trace identifier.
func (b ActorBase) ActorID() int64 { return b.ID }

// ActorLocation returns the actor's world location in metres.
func (b ActorBase) ActorLocation() r3.Vec { return b.Location }

// Actor is the tagged-variant view over vehicles, pedestrians, traffic
// lights and traffic signs.
type Actor interface {
	ActorID() int64
	ActorLocation() r3.Vec

	// Clone returns an independently mutable deep copy. Lane references
	// stay shared; the network is immutable.
	Clone() Actor
}

// Vehicle is a vehicle actor with derived kinematics.
type Vehicle struct {
	ActorBase
	TypeID         string
	IsEgo          bool
	Velocity       r3.Vec
	Acceleration   r3.Vec
	Lane           roadnet.LaneRef
	PositionOnLane float64
}

// Clone returns a deep copy of the vehicle.
func (v *Vehicle) Clone() Actor {
	c := *v
	return &c
}

// EffVelocityKmPerH is the velocity magnitude in km/h.
func (v *Vehicle) EffVelocityKmPerH() float64 {
	return r3.Norm(v.Velocity) * 3.6
}

// EffAccelerationMPerS2 is the acceleration magnitude in m/s².
func (v *Vehicle) EffAccelerationMPerS2() float64 {
	return r3.Norm(v.Acceleration)
}

// Pedestrian is a pedestrian actor.
type Pedestrian struct {
	ActorBase
	Lane           roadnet.LaneRef
	PositionOnLane float64
}

// Clone returns a deep copy of the pedestrian.
func (p *Pedestrian) Clone() Actor {
	c := *p
	return &c
}

// TrafficLight is a traffic light actor.
type TrafficLight struct {
	ActorBase
	State string
}

// Clone returns a deep copy of the traffic light.
func (t *TrafficLight) Clone() Actor {
	c := *t
	return &c
}

// TrafficSign is a traffic sign actor.
type TrafficSign struct {
	ActorBase
	SignType string
}

// Clone returns a deep copy of the traffic sign.
func (t *TrafficSign) Clone() Actor {
	c := *t
	return &c
}
