package geom

import (
	"fmt"
	"math"
)

// Vector is a directed quantity. Angles are measured in turns: 0.25 is a
// quarter of a full rotation counter-clockwise from the positive x axis.
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func Vec(x, y float64) Vector {
	return Vector{X: x, Y: y}
}

// VectorBetween returns the vector pointing from one point to another.
func VectorBetween(from, to Point) Vector {
	return Vector{X: to.X - from.X, Y: to.Y - from.Y}
}

// UnitVector returns the vector of length 1 at the given angle in turns.
func UnitVector(angle float64) Vector {
	rad := angle * 2 * math.Pi
	return Vector{X: math.Cos(rad), Y: math.Sin(rad)}
}

func (v Vector) Length() float64 {
	return math.Sqrt(v.SquareLength())
}

func (v Vector) SquareLength() float64 {
	return v.X*v.X + v.Y*v.Y
}

func (v Vector) Scale(f float64) Vector {
	return Vector{X: v.X * f, Y: v.Y * f}
}

// Angle returns the direction of v in turns, in [0, 1).
func (v Vector) Angle() float64 {
	a := math.Atan2(v.Y, v.X) / (2 * math.Pi)
	if a < 0 {
		a++
	}
	if a >= 1 {
		a = 0
	}
	return a
}

// Rotate keeps the length of v and points it at angle (turns).
func (v Vector) Rotate(angle float64) Vector {
	return UnitVector(angle).Scale(v.Length())
}

func (v Vector) Plus(o Vector) Vector {
	return Vector{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vector) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

func (v Vector) String() string {
	return fmt.Sprintf("{%g, %g}", v.X, v.Y)
}
