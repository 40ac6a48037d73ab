package quadtree

import (
	"github.com/vl4deee11/lifesim/geom"
)

// Visit calls fn for every stored pair, depth first in NE, SE, SW, NW
// order, until fn returns false.
func (t *Tree[T]) Visit(fn func(p geom.Point, v T) bool) {
	t.visit(root, fn)
}

// Values returns every stored value in Visit order.
func (t *Tree[T]) Values() []T {
	out := make([]T, 0, t.count)
	t.Visit(func(_ geom.Point, v T) bool {
		out = append(out, v)
		return true
	})
	return out
}

func (t *Tree[T]) visit(i int32, fn func(geom.Point, T) bool) bool {
	n := &t.nodes[i]
	switch n.kind {
	case empty:
		return true
	case leaf:
		return fn(n.point, n.value)
	case pointer:
		for q := int32(0); q < 4; q++ {
			if !t.visit(n.child+q, fn) {
				return false
			}
		}
		return true
	}
	invariant("node %d has kind %v", i, n.kind)
	return false
}

// VisitWithin calls fn for every pair whose point lies in r (borders
// included) until fn returns false. Only subtrees intersecting r are
// descended.
func (t *Tree[T]) VisitWithin(r geom.Rectangle, fn func(p geom.Point, v T) bool) {
	t.within(root, r, fn)
}

// SearchWithin returns the values stored inside r.
func (t *Tree[T]) SearchWithin(r geom.Rectangle) []T {
	var out []T
	t.VisitWithin(r, func(_ geom.Point, v T) bool {
		out = append(out, v)
		return true
	})
	return out
}

func (t *Tree[T]) within(i int32, r geom.Rectangle, fn func(geom.Point, T) bool) bool {
	n := &t.nodes[i]
	switch n.kind {
	case empty:
		return true
	case leaf:
		if r.Contains(n.point) {
			return fn(n.point, n.value)
		}
		return true
	case pointer:
		for q := int32(0); q < 4; q++ {
			c := n.child + q
			if r.Intersects(t.nodes[c].rect) && !t.within(c, r, fn) {
				return false
			}
		}
		return true
	}
	invariant("node %d has kind %v", i, n.kind)
	return false
}

// VisitWithinCircle calls fn for every pair whose point is at most radius
// away from center, until fn returns false.
func (t *Tree[T]) VisitWithinCircle(center geom.Point, radius float64, fn func(p geom.Point, v T) bool) {
	t.withinCircle(root, center, radius, fn)
}

// SearchWithinCircle returns the values stored at most radius away from
// center.
func (t *Tree[T]) SearchWithinCircle(center geom.Point, radius float64) []T {
	var out []T
	t.VisitWithinCircle(center, radius, func(_ geom.Point, v T) bool {
		out = append(out, v)
		return true
	})
	return out
}

func (t *Tree[T]) withinCircle(i int32, center geom.Point, radius float64, fn func(geom.Point, T) bool) bool {
	n := &t.nodes[i]
	switch n.kind {
	case empty:
		return true
	case leaf:
		if n.point.WithinCircle(center, radius) {
			return fn(n.point, n.value)
		}
		return true
	case pointer:
		for q := int32(0); q < 4; q++ {
			c := n.child + q
			if t.nodes[c].rect.IntersectsCircle(center, radius) && !t.withinCircle(c, center, radius, fn) {
				return false
			}
		}
		return true
	}
	invariant("node %d has kind %v", i, n.kind)
	return false
}
