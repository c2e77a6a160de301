package roadnet

import (
	"encoding/json"
	"fmt"
	"io"
)

// Static document schema. One document describes the whole map: a list of
// blocks, each with its roads and lanes. Successor and predecessor lanes
// are referenced by (roadId, laneId) pairs and resolved after all lanes
// have been created.

// LaneLinkDoc references another lane by its ids.
type LaneLinkDoc struct {
	RoadID int64 `json:"roadId"`
	LaneID int64 `json:"laneId"`
}

// SpeedLimitDoc carries the posted speed limit of a lane.
type SpeedLimitDoc struct {
	SpeedLimit float64 `json:"speedLimit"`
}

// LaneDoc describes one lane.
type LaneDoc struct {
	LaneID           int64          `json:"laneId"`
	LaneType         string         `json:"laneType"`
	SuccessorLanes   []LaneLinkDoc  `json:"successorLanes"`
	PredecessorLanes []LaneLinkDoc  `json:"predecessorLanes"`
	SpeedLimit       *SpeedLimitDoc `json:"applicableSpeedLimit"`
}

// RoadDoc describes one road.
type RoadDoc struct {
	ID         int64     `json:"id"`
	IsJunction bool      `json:"isJunction"`
	Lanes      []LaneDoc `json:"lanes"`
}

// BlockDoc describes one block.
type BlockDoc struct {
	ID    string    `json:"id"`
	Roads []RoadDoc `json:"roads"`
}

// DecodeNetwork reads a static map document and builds the network.
func DecodeNetwork(r io.Reader) (*Network, error) {
	var blocks []BlockDoc
	dec := json.NewDecoder(r)
	if err := dec.Decode(&blocks); err != nil {
		return nil, fmt.Errorf("decoding static map document: %w", err)
	}
	return NewNetwork(blocks)
}

// NewNetwork flattens block documents into the arena and builds the
// lookup maps. Lane relations are resolved in a second pass; links that
// point outside the map are dropped.
func NewNetwork(blocks []BlockDoc) (*Network, error) {
	n := &Network{
		laneByKey: make(map[laneKey]LaneRef),
		roadByID:  make(map[int64]RoadRef),
	}

	for _, bd := range blocks {
		blockRef := BlockRef(len(n.Blocks))
		block := Block{ID: bd.ID}

		for _, rd := range bd.Roads {
			if _, exists := n.roadByID[rd.ID]; exists {
				return nil, fmt.Errorf("duplicate road id %d in block %q", rd.ID, bd.ID)
			}
			roadRef := RoadRef(len(n.Roads))
			road := Road{
				ID:         rd.ID,
				IsJunction: rd.IsJunction,
				Block:      blockRef,
			}

			for _, ld := range rd.Lanes {
				key := laneKey{roadID: rd.ID, laneID: ld.LaneID}
				if _, exists := n.laneByKey[key]; exists {
					return nil, fmt.Errorf("duplicate lane id %d on road %d", ld.LaneID, rd.ID)
				}
				laneRef := LaneRef(len(n.Lanes))
				lane := Lane{
					LaneID: ld.LaneID,
					Road:   roadRef,
					Type:   laneTypeFromString(ld.LaneType),
				}
				if ld.SpeedLimit != nil {
					lane.SpeedLimit = &SpeedLimit{SpeedLimitKmPerH: ld.SpeedLimit.SpeedLimit}
				}
				n.Lanes = append(n.Lanes, lane)
				n.laneByKey[key] = laneRef
				road.Lanes = append(road.Lanes, laneRef)
			}

			n.Roads = append(n.Roads, road)
			n.roadByID[rd.ID] = roadRef
			block.Roads = append(block.Roads, roadRef)
		}

		n.Blocks = append(n.Blocks, block)
	}

	// Second pass: resolve successor/predecessor relations now that every
	// lane exists.
	laneIdx := 0
	for _, bd := range blocks {
		for _, rd := range bd.Roads {
			for _, ld := range rd.Lanes {
				lane := &n.Lanes[laneIdx]
				lane.Successors = n.resolveLinks(ld.SuccessorLanes)
				lane.Predecessors = n.resolveLinks(ld.PredecessorLanes)
				laneIdx++
			}
		}
	}

	return n, nil
}

func (n *Network) resolveLinks(links []LaneLinkDoc) []LaneRef {
	var refs []LaneRef
	for _, l := range links {
		if ref, ok := n.laneByKey[laneKey{roadID: l.RoadID, laneID: l.LaneID}]; ok {
			refs = append(refs, ref)
		}
	}
	return refs
}

func laneTypeFromString(s string) LaneType {
	switch s {
	case "Driving":
		return LaneTypeDriving
	case "Sidewalk":
		return LaneTypeSidewalk
	case "Shoulder":
		return LaneTypeShoulder
	case "Parking":
		return LaneTypeParking
	case "Biking":
		return LaneTypeBiking
	default:
		return LaneTypeOther
	}
}
