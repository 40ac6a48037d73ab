package sim

import (
	"fmt"

	"github.com/vl4deee11/lifesim/config"
	"github.com/vl4deee11/lifesim/geom"
)

// ID identifies a dweller for the lifetime of a world. IDs start at 1 and
// are never reused.
type ID int

type Species string

const (
	Ant  Species = "ant"
	Food Species = "food"
)

// Traits are the constants shared by every dweller of a species.
type Traits struct {
	VisibilityRange   float64
	ActionRange       float64
	BaseSpeed         float64
	ReproductionRate  int
	ReproductionRange float64

	// Eats marks species that store food, starve and can be fed.
	Eats            bool
	FoodConsumption float64
	FoodSaturation  float64
}

func TraitsFromConfig(c config.Species, eats bool) *Traits {
	return &Traits{
		VisibilityRange:   c.VisibilityRange,
		ActionRange:       c.ActionRange,
		BaseSpeed:         c.BaseSpeed,
		ReproductionRate:  c.ReproductionRate,
		ReproductionRange: c.ReproductionRange,
		Eats:              eats,
		FoodConsumption:   c.FoodConsumption,
		FoodSaturation:    c.FoodSaturation,
	}
}

// Memory is per-dweller decision state that survives across ticks. Only
// the dweller's own decider touches it.
type Memory struct {
	// Heading is the remembered wandering step; zero means none.
	Heading geom.Vector
}

// Dweller is the full state of one simulated entity. Dwellers are owned by
// the world's registry; the spatial index only maps positions to IDs.
type Dweller struct {
	ID               ID
	Species          Species
	Position         geom.Point
	BirthTick        int
	LastReproduction int
	Traits           *Traits
	StoredFood       float64
	Memory           Memory
}

func newDweller(id ID, species Species, traits *Traits, pos geom.Point, tick int) *Dweller {
	return &Dweller{
		ID:               id,
		Species:          species,
		Position:         pos,
		BirthTick:        tick,
		LastReproduction: tick,
		Traits:           traits,
	}
}

func (d *Dweller) Age(tick int) int {
	return tick - d.BirthTick
}

// CanReproduce reports whether enough ticks have passed since the last
// breeding. Eating species must also be saturated.
func (d *Dweller) CanReproduce(tick int) bool {
	if tick-d.LastReproduction < d.Traits.ReproductionRate {
		return false
	}
	return !d.Traits.Eats || d.IsSaturated()
}

func (d *Dweller) SquareActionRange() float64 {
	return d.Traits.ActionRange * d.Traits.ActionRange
}

func (d *Dweller) ConsumeFood() {
	d.StoredFood -= d.Traits.FoodConsumption
}

func (d *Dweller) IsStarving() bool {
	return d.Traits.Eats && d.StoredFood <= 0
}

func (d *Dweller) IsSaturated() bool {
	return d.StoredFood >= d.Traits.FoodSaturation
}

// Feed adds nutrition to the stored food, capped at saturation.
func (d *Dweller) Feed(nutrition float64) {
	d.StoredFood = min(d.StoredFood+nutrition, d.Traits.FoodSaturation)
}

func (d *Dweller) String() string {
	return fmt.Sprintf("[%s #%d %v]", d.Species, d.ID, d.Position)
}
