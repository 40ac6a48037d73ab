package sim

import (
	"math/rand"
	"sort"

	"github.com/vl4deee11/lifesim/geom"
)

// View is the read-only face of the world handed to deciders.
type View interface {
	Tick() int
	Bounds() geom.Rectangle
	// DwellersInRange returns the dwellers strictly closer than radius to p,
	// nearest first. Dwellers located exactly at p are left out.
	DwellersInRange(p geom.Point, radius float64) []Neighbor
	// Random returns a generator private to the current decision.
	Random() *rand.Rand
}

// Neighbor is a copy of the public state of a nearby dweller.
type Neighbor struct {
	ID             ID
	Species        Species
	Position       geom.Point
	SquareDistance float64
}

type worldView struct {
	w    *World
	self ID
	rng  *rand.Rand
}

func (v *worldView) Tick() int              { return v.w.tick }
func (v *worldView) Bounds() geom.Rectangle { return v.w.bounds }

func (v *worldView) DwellersInRange(p geom.Point, radius float64) []Neighbor {
	return v.w.DwellersInRange(p, radius)
}

func (v *worldView) Random() *rand.Rand {
	if v.rng == nil {
		v.rng = rand.New(newDecisionSource(v.w.seed, v.w.tick, v.self))
	}
	return v.rng
}

// DwellersInRange is safe to call concurrently as long as nothing mutates
// the world.
func (w *World) DwellersInRange(p geom.Point, radius float64) []Neighbor {
	var out []Neighbor
	r2 := radius * radius
	w.index.VisitWithinCircle(p, radius, func(at geom.Point, id ID) bool {
		d2 := at.SquareDistance(p)
		if d2 >= r2 || at == p {
			return true
		}
		d, ok := w.registry.Get(id)
		if !ok {
			return true
		}
		out = append(out, Neighbor{ID: id, Species: d.Species, Position: at, SquareDistance: d2})
		return true
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].SquareDistance != out[j].SquareDistance {
			return out[i].SquareDistance < out[j].SquareDistance
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// decisionSource is a splitmix64 stream seeded from (seed, tick, id), so
// every decision draws the same numbers regardless of which worker runs it.
type decisionSource struct {
	state uint64
}

func newDecisionSource(seed int64, tick int, id ID) *decisionSource {
	s := &decisionSource{state: uint64(seed)}
	s.state = s.Uint64() ^ uint64(tick)
	s.state = s.Uint64() ^ uint64(id)
	return s
}

func (s *decisionSource) Uint64() uint64 {
	s.state += 0x9e3779b97f4a7c15
	z := s.state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

func (s *decisionSource) Int63() int64 {
	return int64(s.Uint64() >> 1)
}

func (s *decisionSource) Seed(seed int64) {
	s.state = uint64(seed)
}
