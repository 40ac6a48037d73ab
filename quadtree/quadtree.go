// Package quadtree implements a point region quadtree over a fixed
// rectangle. Every node is either empty, a leaf holding exactly one
// (point, value) pair, or a pointer to four children covering its quarters.
// Removing a point rebalances the tree so that pointer nodes with at most
// one leaf below them collapse back into leaves.
//
// Nodes live in a flat arena and refer to their parent and children by
// index. Child blocks released by a collapse are reused by later splits.
package quadtree

import (
	"github.com/vl4deee11/lifesim/geom"
)

type kind uint8

const (
	empty kind = iota
	leaf
	pointer
)

func (k kind) String() string {
	switch k {
	case empty:
		return "empty"
	case leaf:
		return "leaf"
	case pointer:
		return "pointer"
	}
	return "invalid"
}

const (
	root   int32 = 0
	noNode int32 = -1
)

type node[T any] struct {
	rect   geom.Rectangle
	kind   kind
	parent int32
	// child is the index of the first of four consecutive children, in
	// geom.Quadrants order. Only meaningful for pointer nodes.
	child int32
	point geom.Point
	value T
}

// Tree maps points inside a fixed rectangle to values of type T.
// A Tree is not safe for concurrent mutation; concurrent readers are fine
// while nobody writes.
type Tree[T any] struct {
	nodes []node[T]
	free  []int32
	count int
}

// New returns an empty tree covering bounds.
func New[T any](bounds geom.Rectangle) *Tree[T] {
	t := &Tree[T]{}
	t.reset(bounds)
	return t
}

func (t *Tree[T]) reset(bounds geom.Rectangle) {
	t.nodes = append(t.nodes[:0], node[T]{rect: bounds, parent: noNode, child: noNode})
	t.free = t.free[:0]
	t.count = 0
}

// Bounds returns the area covered by the tree.
func (t *Tree[T]) Bounds() geom.Rectangle {
	return t.nodes[root].rect
}

// Count returns the number of stored points.
func (t *Tree[T]) Count() int {
	return t.count
}

func (t *Tree[T]) IsEmpty() bool {
	return t.nodes[root].kind == empty
}

// Clear removes every point.
func (t *Tree[T]) Clear() {
	t.reset(t.Bounds())
}

// Clone returns an independent copy of the tree. Values are copied
// shallowly.
func (t *Tree[T]) Clone() *Tree[T] {
	c := &Tree[T]{
		nodes: make([]node[T], len(t.nodes)),
		free:  make([]int32, len(t.free)),
		count: t.count,
	}
	copy(c.nodes, t.nodes)
	copy(c.free, t.free)
	return c
}

// Put stores v at p. A value already stored at exactly p is replaced and
// the count does not change.
func (t *Tree[T]) Put(p geom.Point, v T) error {
	if !t.Bounds().Contains(p) {
		return &OutOfBoundsError{Point: p, Bounds: t.Bounds()}
	}
	added, err := t.insert(root, p, v)
	if err != nil {
		return err
	}
	if added {
		t.count++
	}
	return nil
}

// Get returns the value stored at exactly p.
func (t *Tree[T]) Get(p geom.Point) (T, bool) {
	if i := t.find(p); i != noNode {
		return t.nodes[i].value, true
	}
	var zero T
	return zero, false
}

func (t *Tree[T]) Contains(p geom.Point) bool {
	return t.find(p) != noNode
}

// Remove deletes the value stored at exactly p and returns it.
func (t *Tree[T]) Remove(p geom.Point) (T, bool) {
	var zero T
	i := t.find(p)
	if i == noNode {
		return zero, false
	}
	v := t.nodes[i].value
	t.nodes[i].kind = empty
	t.nodes[i].point = geom.Point{}
	t.nodes[i].value = zero
	t.count--
	t.balance(t.nodes[i].parent)
	return v, true
}

func (t *Tree[T]) find(p geom.Point) int32 {
	i := root
	for {
		n := &t.nodes[i]
		switch n.kind {
		case empty:
			return noNode
		case leaf:
			if n.point == p {
				return i
			}
			return noNode
		case pointer:
			i = n.child + int32(n.rect.QuadrantOf(p))
		default:
			invariant("node %d has kind %v", i, n.kind)
		}
	}
}

func (t *Tree[T]) insert(i int32, p geom.Point, v T) (bool, error) {
	for {
		n := &t.nodes[i]
		switch n.kind {
		case empty:
			n.kind = leaf
			n.point = p
			n.value = v
			return true, nil
		case leaf:
			if n.point == p {
				n.value = v
				return false, nil
			}
			if !t.separable(i, p) {
				if parent := n.parent; parent != noNode {
					t.balance(parent)
				}
				return false, ErrInseparable
			}
			t.split(i)
		case pointer:
			next := n.child + int32(n.rect.QuadrantOf(p))
			if t.nodes[next].rect == n.rect {
				return false, ErrInseparable
			}
			i = next
		default:
			invariant("node %d has kind %v", i, n.kind)
		}
	}
}

// separable reports whether splitting the leaf at i moves both its point and
// p into strictly smaller quarters. Adjacent floats can leave a quarter
// equal to its parent.
func (t *Tree[T]) separable(i int32, p geom.Point) bool {
	n := &t.nodes[i]
	quarters := n.rect.Split()
	return quarters[n.rect.QuadrantOf(n.point)] != n.rect && quarters[n.rect.QuadrantOf(p)] != n.rect
}

// split turns the leaf at i into a pointer and pushes its pair down into an
// empty quarter.
func (t *Tree[T]) split(i int32) {
	oldPoint, oldValue := t.nodes[i].point, t.nodes[i].value

	block := t.alloc()
	quarters := t.nodes[i].rect.Split()
	for q, r := range quarters {
		t.nodes[block+int32(q)] = node[T]{rect: r, parent: i, child: noNode}
	}

	var zero T
	n := &t.nodes[i]
	n.kind = pointer
	n.child = block
	n.point = geom.Point{}
	n.value = zero

	q := t.nodes[i].rect.QuadrantOf(oldPoint)
	c := &t.nodes[block+int32(q)]
	c.kind = leaf
	c.point = oldPoint
	c.value = oldValue
}

// balance collapses pointer nodes bottom-up, starting at i.
func (t *Tree[T]) balance(i int32) {
	var zero T
	for i != noNode {
		n := &t.nodes[i]
		if n.kind != pointer {
			invariant("balancing node %d of kind %v", i, n.kind)
		}

		only := noNode
		occupied := 0
		for q := int32(0); q < 4; q++ {
			if t.nodes[n.child+q].kind != empty {
				only = n.child + q
				occupied++
			}
		}

		switch {
		case occupied > 1:
			return
		case occupied == 0:
			t.release(n.child)
			n.kind = empty
			n.child = noNode
			n.value = zero
		default:
			c := t.nodes[only]
			if c.kind == pointer {
				return
			}
			t.release(n.child)
			n.kind = leaf
			n.child = noNode
			n.point = c.point
			n.value = c.value
		}
		i = n.parent
	}
}

func (t *Tree[T]) alloc() int32 {
	if k := len(t.free); k > 0 {
		b := t.free[k-1]
		t.free = t.free[:k-1]
		return b
	}
	b := int32(len(t.nodes))
	t.nodes = append(t.nodes, make([]node[T], 4)...)
	return b
}

func (t *Tree[T]) release(block int32) {
	var zero T
	for q := int32(0); q < 4; q++ {
		t.nodes[block+q].value = zero
	}
	t.free = append(t.free, block)
}
