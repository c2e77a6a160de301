// Package model holds the raw dynamic input records as they appear in the
// recorded trace documents, before conversion into the core model.
package model

// Vec3 is a raw 3D world location in metres.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// RawActorPosition places one actor on the road network at one tick.
// RoadID and LaneID may be rewritten by the junction cleaner; everything
// else is immutable after decoding.
type RawActorPosition struct {
	Actor          RawActor `json:"actor"`
	RoadID         int64    `json:"roadId"`
	LaneID         int64    `json:"laneId"`
	PositionOnLane float64  `json:"positionOnLane"`
}

// RawTick is one timestamped snapshot of every actor.
// CurrentTick is the simulation wall clock in seconds.
type RawTick struct {
	CurrentTick    float64            `json:"currentTick"`
	ActorPositions []RawActorPosition `json:"actorPositions"`
}
