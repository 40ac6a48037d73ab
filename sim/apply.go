package sim

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/vl4deee11/lifesim/geom"
)

// TickStats summarizes what happened during one tick.
type TickStats struct {
	Tick       int
	Proposed   int
	Dropped    int
	Died       int
	Eaten      int
	Moved      int
	Born       int
	Population int
}

func (s TickStats) String() string {
	return fmt.Sprintf("tick=%d proposed=%d dropped=%d died=%d eaten=%d moved=%d born=%d population=%d",
		s.Tick, s.Proposed, s.Dropped, s.Died, s.Eaten, s.Moved, s.Born, s.Population)
}

// apply runs the actions grouped by kind in priority order, keeping the
// decision order within a kind. Actions whose actor or prey is already
// gone are dropped.
func (w *World) apply(actions []Action) (TickStats, error) {
	var groups [numActionKinds][]Action
	for _, a := range actions {
		groups[a.Kind] = append(groups[a.Kind], a)
	}

	var stats TickStats
	for kind := ActionKind(0); kind < numActionKinds; kind++ {
		for _, a := range groups[kind] {
			applied, err := w.applyOne(a, &stats)
			if err != nil {
				return stats, errors.Wrapf(err, "apply %v", a)
			}
			if !applied {
				stats.Dropped++
			}
		}
	}
	return stats, nil
}

func (w *World) applyOne(a Action, stats *TickStats) (bool, error) {
	actor, ok := w.registry.Get(a.Actor)
	if !ok {
		return false, nil
	}

	switch a.Kind {
	case ActionDie:
		w.RemoveDweller(actor.ID)
		stats.Died++

	case ActionEat:
		prey, ok := w.registry.Get(a.Prey)
		if !ok || prey.ID == actor.ID || !actor.Traits.Eats {
			return false, nil
		}
		w.RemoveDweller(prey.ID)
		actor.Feed(w.nutrition)
		stats.Eaten++

	case ActionMove:
		if err := w.MoveDweller(actor.ID, a.Target); err != nil {
			return false, err
		}
		stats.Moved++

	case ActionBreed:
		if err := w.breed(actor); err != nil {
			return false, err
		}
		stats.Born++

	default:
		return false, errors.Errorf("unknown action kind %v", a.Kind)
	}
	return true, nil
}

// breed spawns a child of the parent's species at a random offset within
// the reproduction range. Eating parents give half their saturation to the
// child.
func (w *World) breed(parent *Dweller) error {
	traits := parent.Traits
	offset := geom.UnitVector(w.rand.Float64()).Scale(w.rand.Float64() * traits.ReproductionRange)

	child := newDweller(w.NextID(), parent.Species, traits, parent.Position.Add(offset), w.tick)
	share := 0.0
	if traits.Eats {
		share = traits.FoodSaturation / 2
		child.StoredFood = share
	}
	if err := w.AddDweller(child); err != nil {
		return err
	}
	parent.StoredFood -= share
	parent.LastReproduction = w.tick
	return nil
}
