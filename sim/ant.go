package sim

import (
	"math"

	"github.com/vl4deee11/lifesim/config"
	"github.com/vl4deee11/lifesim/geom"
)

// NewAntAI returns the ant decider named by the configuration.
func NewAntAI(c config.AntAI) Decider {
	switch c.Type {
	case "nearest_food":
		return NearestFoodAI{}
	default:
		return AngleDistanceAI{
			DirectionAngle:  c.DirectionAngle,
			FoodCoefficient: c.FoodCoefficient,
			AntCoefficient:  c.AntCoefficient,
		}
	}
}

// antNeeds covers what every ant does before looking around: breed when
// possible, otherwise burn food and die when nothing is left.
func antNeeds(self *Dweller, tick int) (Action, bool) {
	if self.CanReproduce(tick) {
		return Breed(self.ID), true
	}
	self.ConsumeFood()
	if self.IsStarving() {
		return Die(self.ID), true
	}
	return Action{}, false
}

// NearestFoodAI walks to the closest visible food and eats it.
type NearestFoodAI struct{}

func (NearestFoodAI) Decide(self *Dweller, tick int, view View) (Action, bool) {
	if a, ok := antNeeds(self, tick); ok {
		return a, true
	}

	for _, n := range view.DwellersInRange(self.Position, self.Traits.VisibilityRange) {
		if n.Species != Food {
			continue
		}
		self.Memory.Heading = geom.Vector{}
		if n.SquareDistance <= self.SquareActionRange() {
			return Eat(self.ID, n.ID), true
		}
		return Move(self.ID, stepTowards(self, n.Position)), true
	}
	return Move(self.ID, wander(self, view)), true
}

// AngleDistanceAI heads for the food whose direction is backed by the most
// other food and the fewest competing ants. Each neighbor contributes its
// coefficient divided by its squared distance, for every candidate
// direction within DirectionAngle turns of it.
type AngleDistanceAI struct {
	DirectionAngle  float64
	FoodCoefficient float64
	AntCoefficient  float64
}

func (ai AngleDistanceAI) Decide(self *Dweller, tick int, view View) (Action, bool) {
	if a, ok := antNeeds(self, tick); ok {
		return a, true
	}

	neighbors := view.DwellersInRange(self.Position, self.Traits.VisibilityRange)
	for _, n := range neighbors {
		if n.Species == Food && n.SquareDistance <= self.SquareActionRange() {
			self.Memory.Heading = geom.Vector{}
			return Eat(self.ID, n.ID), true
		}
	}

	if dir, ok := ai.chooseDirection(self.Position, neighbors); ok {
		self.Memory.Heading = geom.Vector{}
		return Move(self.ID, stepTowards(self, self.Position.Add(dir))), true
	}
	return Move(self.ID, wander(self, view)), true
}

type weighted struct {
	vec    geom.Vector
	angle  float64
	food   bool
	weight float64
}

func (ai AngleDistanceAI) chooseDirection(from geom.Point, neighbors []Neighbor) (geom.Vector, bool) {
	candidates := make([]weighted, 0, len(neighbors))
	hasFood := false
	for _, n := range neighbors {
		v := geom.VectorBetween(from, n.Position)
		coef := ai.AntCoefficient
		if n.Species == Food {
			coef = ai.FoodCoefficient
			hasFood = true
		}
		candidates = append(candidates, weighted{
			vec:    v,
			angle:  v.Angle(),
			food:   n.Species == Food,
			weight: coef / v.SquareLength(),
		})
	}
	if !hasFood {
		return geom.Vector{}, false
	}

	var best geom.Vector
	bestScore := math.Inf(-1)
	for _, c := range candidates {
		if !c.food {
			continue
		}
		score := 0.0
		for _, o := range candidates {
			diff := math.Abs(o.angle - c.angle)
			if diff > 0.5 {
				diff = 1 - diff
			}
			if closeness := ai.DirectionAngle - diff; closeness > 0 {
				score += closeness * o.weight
			}
		}
		if score > bestScore {
			best, bestScore = c.vec, score
		}
	}
	return best, true
}

// stepTowards returns where self ends up after one tick of walking to
// target. A target within reach is approached to half the action range.
func stepTowards(self *Dweller, target geom.Point) geom.Point {
	v := geom.VectorBetween(self.Position, target)
	length := v.Length()
	if length == 0 {
		return self.Position
	}
	speed := self.Traits.BaseSpeed
	if length <= speed {
		return self.Position.Add(v.Scale((length - self.Traits.ActionRange/2) / length))
	}
	return self.Position.Add(v.Scale(speed / length))
}

// wander keeps walking along the remembered heading, picking a random one
// when there is none.
func wander(self *Dweller, view View) geom.Point {
	if self.Memory.Heading.IsZero() {
		self.Memory.Heading = geom.UnitVector(view.Random().Float64()).Scale(self.Traits.BaseSpeed)
	}
	return self.Position.Add(self.Memory.Heading)
}
