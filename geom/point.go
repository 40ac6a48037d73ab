// Package geom holds the immutable 2D value types shared by the spatial
// index and the simulation.
package geom

import (
	"fmt"
	"math"
)

// Point is a position on the plane. Points compare with == and are ordered
// by Compare (x first, then y).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Compare returns -1, 0 or 1 ordering p before, equal to or after o.
func (p Point) Compare(o Point) int {
	switch {
	case p.X < o.X:
		return -1
	case p.X > o.X:
		return 1
	case p.Y < o.Y:
		return -1
	case p.Y > o.Y:
		return 1
	}
	return 0
}

func (p Point) Less(o Point) bool {
	return p.Compare(o) < 0
}

func (p Point) SquareDistance(o Point) float64 {
	dx := p.X - o.X
	dy := p.Y - o.Y
	return dx*dx + dy*dy
}

func (p Point) Distance(o Point) float64 {
	return math.Sqrt(p.SquareDistance(o))
}

func (p Point) Delta(dx, dy float64) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Add moves p along v.
func (p Point) Add(v Vector) Point {
	return p.Delta(v.X, v.Y)
}

func (p Point) Multiply(m float64) Point {
	return Point{X: p.X * m, Y: p.Y * m}
}

// WithinCircle reports whether p lies inside or on the circle.
func (p Point) WithinCircle(center Point, radius float64) bool {
	return p.SquareDistance(center) <= radius*radius
}

func (p Point) String() string {
	return fmt.Sprintf("{%g, %g}", p.X, p.Y)
}
