package geom

import (
	"fmt"
	"math"
)

// Quadrant names one quarter of a rectangle. North is towards smaller y.
type Quadrant int

const (
	NE Quadrant = iota
	SE
	SW
	NW
)

// Quadrants lists the quadrants in traversal order.
var Quadrants = [4]Quadrant{NE, SE, SW, NW}

func (q Quadrant) String() string {
	switch q {
	case NE:
		return "NE"
	case SE:
		return "SE"
	case SW:
		return "SW"
	case NW:
		return "NW"
	}
	return fmt.Sprintf("Quadrant(%d)", int(q))
}

// Rectangle is the closed axis-aligned region [X1,X2]x[Y1,Y2].
type Rectangle struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// Rect builds a rectangle from two opposite corners in any order.
func Rect(x1, y1, x2, y2 float64) Rectangle {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	return Rectangle{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

// RectAt builds a rectangle from its top left corner and size.
func RectAt(topLeft Point, width, height float64) Rectangle {
	return Rect(topLeft.X, topLeft.Y, topLeft.X+width, topLeft.Y+height)
}

func (r Rectangle) Width() float64  { return r.X2 - r.X1 }
func (r Rectangle) Height() float64 { return r.Y2 - r.Y1 }

func (r Rectangle) TopLeft() Point     { return Point{X: r.X1, Y: r.Y1} }
func (r Rectangle) TopRight() Point    { return Point{X: r.X2, Y: r.Y1} }
func (r Rectangle) BottomLeft() Point  { return Point{X: r.X1, Y: r.Y2} }
func (r Rectangle) BottomRight() Point { return Point{X: r.X2, Y: r.Y2} }

func (r Rectangle) Center() Point {
	return Point{X: r.X1 + r.Width()/2, Y: r.Y1 + r.Height()/2}
}

// Contains reports whether p lies inside r or on its border.
func (r Rectangle) Contains(p Point) bool {
	return r.X1 <= p.X && p.X <= r.X2 && r.Y1 <= p.Y && p.Y <= r.Y2
}

// Intersects reports whether the two closed rectangles share any point.
func (r Rectangle) Intersects(o Rectangle) bool {
	return r.X1 <= o.X2 && r.X2 >= o.X1 && r.Y1 <= o.Y2 && r.Y2 >= o.Y1
}

// IntersectsCircle reports whether r shares any point with the closed
// circle around c.
func (r Rectangle) IntersectsCircle(c Point, radius float64) bool {
	center := r.Center()
	halfW := r.Width() / 2
	halfH := r.Height() / 2
	dx := math.Abs(center.X - c.X)
	dy := math.Abs(center.Y - c.Y)

	if dx > halfW+radius || dy > halfH+radius {
		return false
	}
	if dx <= halfW || dy <= halfH {
		return true
	}
	cx := dx - halfW
	cy := dy - halfH
	return cx*cx+cy*cy <= radius*radius
}

// QuadrantOf returns the quadrant of r that p falls into. Points on the
// centre lines belong to the east and south halves.
func (r Rectangle) QuadrantOf(p Point) Quadrant {
	center := r.Center()
	if p.X < center.X {
		if p.Y < center.Y {
			return NW
		}
		return SW
	}
	if p.Y < center.Y {
		return NE
	}
	return SE
}

// Split divides r into four equal quarters indexed by Quadrant. The quarters
// cover r exactly and overlap only on the centre lines.
func (r Rectangle) Split() [4]Rectangle {
	c := r.Center()
	var out [4]Rectangle
	out[NE] = Rectangle{X1: c.X, Y1: r.Y1, X2: r.X2, Y2: c.Y}
	out[SE] = Rectangle{X1: c.X, Y1: c.Y, X2: r.X2, Y2: r.Y2}
	out[SW] = Rectangle{X1: r.X1, Y1: c.Y, X2: c.X, Y2: r.Y2}
	out[NW] = Rectangle{X1: r.X1, Y1: r.Y1, X2: c.X, Y2: c.Y}
	return out
}

// FitsIn reports whether r lies entirely inside o.
func (r Rectangle) FitsIn(o Rectangle) bool {
	return r.X1 >= o.X1 && r.X2 <= o.X2 && r.Y1 >= o.Y1 && r.Y2 <= o.Y2
}

// FitsInCircle reports whether all four corners of r lie in the circle.
func (r Rectangle) FitsInCircle(c Point, radius float64) bool {
	return r.TopLeft().WithinCircle(c, radius) &&
		r.TopRight().WithinCircle(c, radius) &&
		r.BottomLeft().WithinCircle(c, radius) &&
		r.BottomRight().WithinCircle(c, radius)
}

// Wrap maps p onto r treating r as a torus. Points already inside r are
// returned unchanged.
func (r Rectangle) Wrap(p Point) Point {
	if r.Contains(p) {
		return p
	}
	return Point{
		X: r.X1 + wrap(p.X-r.X1, r.Width()),
		Y: r.Y1 + wrap(p.Y-r.Y1, r.Height()),
	}
}

func wrap(v, size float64) float64 {
	if size <= 0 {
		return 0
	}
	v = math.Mod(v, size)
	if v < 0 {
		v += size
	}
	return v
}

func (r Rectangle) String() string {
	return fmt.Sprintf("[%g, %g | %g, %g]", r.X1, r.Y1, r.X2, r.Y2)
}
