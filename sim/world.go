// Package sim runs the ant world: dwellers decide in parallel against a
// frozen view of the world, then their actions are applied one by one.
package sim

import (
	"fmt"
	"log"
	"math"
	"math/rand"
	"runtime"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/vl4deee11/lifesim/config"
	"github.com/vl4deee11/lifesim/geom"
	"github.com/vl4deee11/lifesim/quadtree"
)

// TickHandler observes a world after each completed tick.
type TickHandler func(tick int, w *World)

// World is a single simulation run. It is not safe for concurrent use;
// Tick parallelizes internally.
type World struct {
	RunID uuid.UUID

	bounds    geom.Rectangle
	seed      int64
	tick      int
	lastID    ID
	rand      *rand.Rand
	registry  *Registry
	index     *quadtree.Tree[ID]
	traits    map[Species]*Traits
	deciders  map[Species]Decider
	nutrition float64
	workers   int
	verbose   bool
	handlers  []TickHandler
	stats     TickStats
}

// New returns an empty world configured by c. Use Build for a populated
// one.
func New(c *config.Config) *World {
	bounds := geom.Rect(0, 0, c.World.Width, c.World.Height)
	workers := c.Sim.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &World{
		RunID:    uuid.New(),
		bounds:   bounds,
		seed:     c.World.Seed,
		rand:     rand.New(rand.NewSource(c.World.Seed)),
		registry: NewRegistry(),
		index:    quadtree.New[ID](bounds),
		traits: map[Species]*Traits{
			Ant:  TraitsFromConfig(c.Ant, true),
			Food: TraitsFromConfig(c.Food, false),
		},
		deciders: map[Species]Decider{
			Ant:  NewAntAI(c.AntAI),
			Food: FoodAI{},
		},
		nutrition: c.World.FoodNutrition,
		workers:   workers,
		verbose:   c.Log.Verbose,
	}
}

func (w *World) Bounds() geom.Rectangle { return w.bounds }
func (w *World) Seed() int64            { return w.seed }
func (w *World) CurrentTick() int       { return w.tick }
func (w *World) DwellersCount() int     { return w.registry.Len() }
func (w *World) Random() *rand.Rand     { return w.rand }
func (w *World) LastStats() TickStats   { return w.stats }

// SetDecider replaces the decision logic of a species.
func (w *World) SetDecider(s Species, d Decider) {
	w.deciders[s] = d
}

// Traits returns the shared constants of a species.
func (w *World) Traits(s Species) *Traits {
	return w.traits[s]
}

// AddTickHandler registers fn to run after every tick, in registration
// order.
func (w *World) AddTickHandler(fn TickHandler) {
	w.handlers = append(w.handlers, fn)
}

// NextID hands out the next dweller ID.
func (w *World) NextID() ID {
	w.lastID++
	return w.lastID
}

// NewAnt creates an ant with a fresh ID. It is not part of the world until
// added.
func (w *World) NewAnt(pos geom.Point, storedFood float64) *Dweller {
	d := newDweller(w.NextID(), Ant, w.traits[Ant], pos, w.tick)
	d.StoredFood = storedFood
	return d
}

// NewFood creates a food source with a fresh ID born at tick.
func (w *World) NewFood(pos geom.Point, tick int) *Dweller {
	return newDweller(w.NextID(), Food, w.traits[Food], pos, tick)
}

// Dweller returns a copy of the dweller's state.
func (w *World) Dweller(id ID) (Dweller, bool) {
	d, ok := w.registry.Get(id)
	if !ok {
		return Dweller{}, false
	}
	return *d, true
}

// Dwellers returns copies of all dwellers in ID order.
func (w *World) Dwellers() []Dweller {
	sorted := w.registry.Sorted()
	out := make([]Dweller, len(sorted))
	for i, d := range sorted {
		out[i] = *d
	}
	return out
}

// Population returns the number of living dwellers of each species.
func (w *World) Population() map[Species]int {
	return w.registry.CountBySpecies()
}

// AddDweller places d into the registry and the spatial index. Positions
// outside the world wrap around; a position already taken is nudged along
// x until it is free.
func (w *World) AddDweller(d *Dweller) error {
	if _, exists := w.registry.Get(d.ID); exists {
		return errors.Errorf("add %v: id already in use", d)
	}
	pos := w.vacant(w.bounds.Wrap(d.Position))
	if err := w.index.Put(pos, d.ID); err != nil {
		return errors.Wrapf(err, "add %v", d)
	}
	d.Position = pos
	w.registry.Add(d)
	return nil
}

// RemoveDweller evicts the dweller from the registry and the index.
func (w *World) RemoveDweller(id ID) bool {
	d, ok := w.registry.Remove(id)
	if !ok {
		return false
	}
	w.index.Remove(d.Position)
	return true
}

// MoveDweller re-indexes the dweller at target, wrapped around the world
// edges. A failed move leaves the dweller where it was.
func (w *World) MoveDweller(id ID, target geom.Point) error {
	d, ok := w.registry.Get(id)
	if !ok {
		return errors.Errorf("move #%d: no such dweller", id)
	}
	w.index.Remove(d.Position)
	pos := w.vacant(w.bounds.Wrap(target))
	if err := w.index.Put(pos, id); err != nil {
		if restoreErr := w.index.Put(d.Position, id); restoreErr != nil {
			invariantf("cannot restore %v after failed move: %v", d, restoreErr)
		}
		return errors.Wrapf(err, "move %v to %v", d, target)
	}
	d.Position = pos
	return nil
}

// vacant returns p or the closest free point to its east. Two dwellers
// never share a point, so the index never loses an identity.
func (w *World) vacant(p geom.Point) geom.Point {
	step := math.Max(w.bounds.Width(), 1) * 1e-9
	for w.index.Contains(p) {
		p = w.bounds.Wrap(geom.Pt(p.X+step, p.Y))
	}
	return p
}

// Tick advances the world by one step: every dweller decides in parallel,
// the actions are applied in priority order and observers are notified.
// An error leaves the world in a partially applied state and should stop
// the run.
func (w *World) Tick() error {
	w.tick++

	ids := w.index.Values()
	actions := w.decide(ids)
	stats, err := w.apply(actions)
	stats.Tick = w.tick
	stats.Proposed = len(actions)
	stats.Population = w.registry.Len()
	w.stats = stats
	if err != nil {
		return errors.Wrapf(err, "tick %d", w.tick)
	}
	if w.verbose {
		log.Printf("[world %s] %v", w.RunID, stats)
	}

	for _, fn := range w.handlers {
		fn(w.tick, w)
	}
	return nil
}

func invariantf(format string, args ...interface{}) {
	panic(fmt.Sprintf("sim: internal error: "+format, args...))
}
