// Package cache indexes raw actor positions by actor id and tick index so
// the junction cleaner can find and rewrite a vehicle's position without
// rescanning the whole timeline. Latency matters here: the cleaner probes
// the cache once per accumulated junction tick.
package cache

import (
	"sort"
	"sync"

	"github.com/Rheadawn/stars/internal/model"
)

// PositionCache maps (vehicle id, tick index) to the raw position record
// inside the run's tick slice. The cached pointers alias the slice, so
// writes through them rewrite the run.
type PositionCache struct {
	m         sync.Mutex
	positions map[int64]map[int]*model.RawActorPosition
}

// NewPositionCache returns an empty cache.
func NewPositionCache() *PositionCache {
	return &PositionCache{
		positions: make(map[int64]map[int]*model.RawActorPosition),
	}
}

// BuildPositionCache indexes every vehicle position of a run. The tick
// slice must not be reallocated while the cache is in use.
func BuildPositionCache(ticks []model.RawTick) *PositionCache {
	c := NewPositionCache()
	for i := range ticks {
		for j := range ticks[i].ActorPositions {
			pos := &ticks[i].ActorPositions[j]
			if !pos.Actor.IsVehicle() {
				continue
			}
			c.Add(pos.Actor.ID, i, pos)
		}
	}
	return c
}

// Add records a vehicle position for one tick.
func (c *PositionCache) Add(actorID int64, tick int, pos *model.RawActorPosition) {
	c.m.Lock()
	defer c.m.Unlock()
	byTick, ok := c.positions[actorID]
	if !ok {
		byTick = make(map[int]*model.RawActorPosition)
		c.positions[actorID] = byTick
	}
	byTick[tick] = pos
}

// Get returns the vehicle's position record at a tick.
func (c *PositionCache) Get(actorID int64, tick int) (*model.RawActorPosition, bool) {
	c.m.Lock()
	defer c.m.Unlock()
	byTick, ok := c.positions[actorID]
	if !ok {
		return nil, false
	}
	pos, ok := byTick[tick]
	return pos, ok
}

// VehicleIDs returns all cached vehicle ids in ascending order.
func (c *PositionCache) VehicleIDs() []int64 {
	c.m.Lock()
	defer c.m.Unlock()
	ids := make([]int64, 0, len(c.positions))
	for id := range c.positions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Reset drops all cached positions.
func (c *PositionCache) Reset() {
	c.m.Lock()
	defer c.m.Unlock()
	c.positions = make(map[int64]map[int]*model.RawActorPosition)
}
