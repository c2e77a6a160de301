package model

import (
	"encoding/json"
	"fmt"
)

// ActorKind discriminates the polymorphic actor descriptors in the
// dynamic documents.
type ActorKind string

const (
	ActorKindVehicle      ActorKind = "vehicle"
	ActorKindPedestrian   ActorKind = "pedestrian"
	ActorKindTrafficLight ActorKind = "trafficLight"
	ActorKindTrafficSign  ActorKind = "trafficSign"
)

// RawActor is the decoded form of one polymorphic actor descriptor.
// Kind selects which of the optional fields are meaningful.
type RawActor struct {
	Kind     ActorKind
	ID       int64
	TypeID   string
	Location Vec3

	// Vehicles only.
	EgoVehicle bool

	// Traffic lights only.
	State string

	// Traffic signs only.
	SignType string
}

// rawActorDoc mirrors the JSON wire shape of an actor descriptor.
type rawActorDoc struct {
	Type       string `json:"type"`
	ID         int64  `json:"id"`
	TypeID     string `json:"typeId"`
	Location   Vec3   `json:"location"`
	EgoVehicle bool   `json:"egoVehicle"`
	State      string `json:"state"`
	SignType   string `json:"signType"`
}

// UnmarshalJSON decodes an actor descriptor, validating the kind tag.
func (a *RawActor) UnmarshalJSON(data []byte) error {
	var doc rawActorDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	switch ActorKind(doc.Type) {
	case ActorKindVehicle, ActorKindPedestrian, ActorKindTrafficLight, ActorKindTrafficSign:
	default:
		return fmt.Errorf("unknown actor kind %q", doc.Type)
	}
	*a = RawActor{
		Kind:       ActorKind(doc.Type),
		ID:         doc.ID,
		TypeID:     doc.TypeID,
		Location:   doc.Location,
		EgoVehicle: doc.EgoVehicle,
		State:      doc.State,
		SignType:   doc.SignType,
	}
	return nil
}

// MarshalJSON re-encodes the actor descriptor with its kind tag.
func (a RawActor) MarshalJSON() ([]byte, error) {
	return json.Marshal(rawActorDoc{
		Type:       string(a.Kind),
		ID:         a.ID,
		TypeID:     a.TypeID,
		Location:   a.Location,
		EgoVehicle: a.EgoVehicle,
		State:      a.State,
		SignType:   a.SignType,
	})
}

// IsVehicle reports whether the actor is a vehicle.
func (a RawActor) IsVehicle() bool {
	return a.Kind == ActorKindVehicle
}
