// Package cleaner repairs map-inference noise at junction boundaries.
// Inside a junction the raw labeller may flip a vehicle between internal
// lanes across successive ticks; the cleaner commits each traversal to
// one plausible internal lane and rewrites the raw labels accordingly.
package cleaner

import (
	"errors"
	"fmt"

	"github.com/Rheadawn/stars/internal/cache"
	"github.com/Rheadawn/stars/internal/model"
	"github.com/Rheadawn/stars/internal/roadnet"
)

// ErrInconsistentTrace is returned when an accumulated junction tick has
// no matching raw position for the vehicle being cleaned.
var ErrInconsistentTrace = errors.New("inconsistent trace")

// Logger is the minimal logging surface the cleaner needs.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// progressionEntry is one step of a vehicle's lane progression:
// the lane it was labelled on at that tick (if present at all) and
// whether that lane lies on a junction road.
type progressionEntry struct {
	tick       int
	lane       roadnet.LaneRef
	present    bool
	isJunction bool
}

// junctionTick is one accumulated tick inside a junction traversal.
type junctionTick struct {
	tick int
	lane roadnet.LaneRef
}

// Cleaner rewrites junction lane labels on raw tick lists.
type Cleaner struct {
	net    *roadnet.Network
	logger Logger
}

// New creates a cleaner over the given road network.
func New(net *roadnet.Network, logger Logger) *Cleaner {
	return &Cleaner{net: net, logger: logger}
}

// Clean repairs the junction lane labels of every vehicle in the run,
// mutating the RoadID/LaneID fields of the raw positions in place.
func (c *Cleaner) Clean(ticks []model.RawTick) error {
	positions := cache.BuildPositionCache(ticks)
	for _, vehicleID := range positions.VehicleIDs() {
		if err := c.cleanVehicle(ticks, positions, vehicleID); err != nil {
			return fmt.Errorf("cleaning vehicle %d: %w", vehicleID, err)
		}
	}
	return nil
}

func (c *Cleaner) cleanVehicle(ticks []model.RawTick, positions *cache.PositionCache, vehicleID int64) error {
	progression, err := c.laneProgression(ticks, positions, vehicleID)
	if err != nil {
		return err
	}

	var (
		previousMultilane    = roadnet.NoLane
		hasPreviousMultilane bool
		currentJunction      []junctionTick
	)

	for _, entry := range progression {
		if !entry.present {
			continue
		}
		if entry.isJunction {
			currentJunction = append(currentJunction, junctionTick{tick: entry.tick, lane: entry.lane})
			continue
		}
		if len(currentJunction) > 0 {
			err := c.resolveJunction(positions, vehicleID, currentJunction,
				previousMultilane, hasPreviousMultilane, entry.lane, true)
			if err != nil {
				return err
			}
			currentJunction = currentJunction[:0]
		}
		previousMultilane = entry.lane
		hasPreviousMultilane = true
	}

	// Trailing junction ticks at run end have no following multilane road.
	if len(currentJunction) > 0 {
		return c.resolveJunction(positions, vehicleID, currentJunction,
			previousMultilane, hasPreviousMultilane, roadnet.NoLane, false)
	}
	return nil
}

// laneProgression builds the per-tick (lane, isJunction) walk of one vehicle.
func (c *Cleaner) laneProgression(ticks []model.RawTick, positions *cache.PositionCache, vehicleID int64) ([]progressionEntry, error) {
	progression := make([]progressionEntry, 0, len(ticks))
	for i := range ticks {
		pos, ok := positions.Get(vehicleID, i)
		if !ok {
			progression = append(progression, progressionEntry{tick: i})
			continue
		}
		lane, err := c.net.FindLane(pos.RoadID, pos.LaneID)
		if err != nil {
			return nil, err
		}
		progression = append(progression, progressionEntry{
			tick:       i,
			lane:       lane,
			present:    true,
			isJunction: c.net.LaneIsJunction(lane),
		})
	}
	return progression, nil
}

// resolveJunction commits one junction traversal to a single lane and
// rewrites the accumulated raw labels. The priority order:
//  1. traversal touches the run boundary -> most frequent accumulated lane
//  2. same multilane road on both sides -> that lane (labeller outlier)
//  3. unique successor(prev) ∩ predecessor(next)
//  4. first successor(successor(prev)) ∩ predecessor(next) (one-step detour)
//  5. give up, labels stay as recorded
func (c *Cleaner) resolveJunction(positions *cache.PositionCache, vehicleID int64,
	accumulated []junctionTick,
	previousMultilane roadnet.LaneRef, hasPrevious bool,
	nextMultilane roadnet.LaneRef, hasNext bool,
) error {
	if sameLane(accumulated) {
		return nil
	}

	newLane := roadnet.NoLane
	switch {
	case !hasPrevious || !hasNext:
		newLane = mostFrequentLane(accumulated)
	case previousMultilane == nextMultilane:
		newLane = previousMultilane
	default:
		newLane = c.connectingLane(previousMultilane, nextMultilane)
		if newLane == roadnet.NoLane {
			newLane = c.detourLane(previousMultilane, nextMultilane)
		}
	}
	if newLane == roadnet.NoLane {
		if c.logger != nil {
			c.logger.Debug("no plausible junction lane, labels left untouched",
				"vehicleId", vehicleID, "ticks", len(accumulated))
		}
		return nil
	}

	lane := c.net.Lane(newLane)
	road := c.net.LaneRoad(newLane)
	for _, jt := range accumulated {
		pos, ok := positions.Get(vehicleID, jt.tick)
		if !ok {
			return fmt.Errorf("%w: vehicle %d has no raw position at tick %d",
				ErrInconsistentTrace, vehicleID, jt.tick)
		}
		pos.RoadID = road.ID
		pos.LaneID = lane.LaneID
	}
	return nil
}

// connectingLane returns the unique lane linking prev to next, NoLane if
// there is none or it is ambiguous.
func (c *Cleaner) connectingLane(prev, next roadnet.LaneRef) roadnet.LaneRef {
	predecessors := laneSet(c.net.Lane(next).Predecessors)
	found := roadnet.NoLane
	for _, succ := range c.net.Lane(prev).Successors {
		if _, ok := predecessors[succ]; !ok {
			continue
		}
		if found != roadnet.NoLane {
			return roadnet.NoLane
		}
		found = succ
	}
	return found
}

// detourLane searches one lane further: successors of prev's successors
// against next's predecessors. Covers roundabouts with intra-road
// connections. Returns the first hit.
func (c *Cleaner) detourLane(prev, next roadnet.LaneRef) roadnet.LaneRef {
	predecessors := laneSet(c.net.Lane(next).Predecessors)
	for _, succ := range c.net.Lane(prev).Successors {
		for _, succ2 := range c.net.Lane(succ).Successors {
			if _, ok := predecessors[succ2]; ok {
				return succ2
			}
		}
	}
	return roadnet.NoLane
}

func sameLane(accumulated []junctionTick) bool {
	for _, jt := range accumulated[1:] {
		if jt.lane != accumulated[0].lane {
			return false
		}
	}
	return true
}

// mostFrequentLane picks the lane seen most often in the accumulator;
// ties go to the earlier first occurrence.
func mostFrequentLane(accumulated []junctionTick) roadnet.LaneRef {
	counts := make(map[roadnet.LaneRef]int)
	for _, jt := range accumulated {
		counts[jt.lane]++
	}
	best := roadnet.NoLane
	bestCount := 0
	for _, jt := range accumulated {
		if counts[jt.lane] > bestCount {
			best = jt.lane
			bestCount = counts[jt.lane]
		}
	}
	return best
}

func laneSet(refs []roadnet.LaneRef) map[roadnet.LaneRef]struct{} {
	set := make(map[roadnet.LaneRef]struct{}, len(refs))
	for _, r := range refs {
		set[r] = struct{}{}
	}
	return set
}
