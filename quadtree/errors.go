package quadtree

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/vl4deee11/lifesim/geom"
)

var (
	// ErrOutOfBounds is matched by errors.Is for every *OutOfBoundsError.
	ErrOutOfBounds = errors.New("quadtree: point out of bounds")

	// ErrInseparable is returned by Put when two distinct points are too
	// close for float64 halving to put them in different quadrants.
	ErrInseparable = errors.New("quadtree: points cannot be separated")
)

// OutOfBoundsError reports a Put outside the tree's domain.
type OutOfBoundsError struct {
	Point  geom.Point
	Bounds geom.Rectangle
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("quadtree: point %v out of bounds %v", e.Point, e.Bounds)
}

func (e *OutOfBoundsError) Is(target error) bool {
	return target == ErrOutOfBounds
}

func invariant(format string, args ...interface{}) {
	panic("quadtree: internal error: " + fmt.Sprintf(format, args...))
}
