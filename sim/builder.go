package sim

import (
	"github.com/ojrac/opensimplex-go"
	"github.com/pkg/errors"

	"github.com/vl4deee11/lifesim/config"
	"github.com/vl4deee11/lifesim/geom"
)

// noiseScale is the size in world units of one food cluster feature.
const noiseScale = 40.0

// Build creates a world populated the way c describes: ants around the
// centre with half their saturation, and food scattered over the plane.
// Food birth ticks are spread over one reproduction period so the sources
// do not all breed on the same tick.
func Build(c *config.Config) (*World, error) {
	w := New(c)

	center := w.bounds.Center()
	antTraits := w.traits[Ant]
	for i := 0; i < c.World.InitialAnts; i++ {
		pos := center
		if i > 0 {
			offset := geom.UnitVector(w.rand.Float64()).Scale(w.rand.Float64() * antTraits.ReproductionRange)
			pos = pos.Add(offset)
		}
		if err := w.AddDweller(w.NewAnt(pos, antTraits.FoodSaturation/2)); err != nil {
			return nil, errors.Wrap(err, "place ant")
		}
	}

	place := foodPlacer(w, c.World.FoodClustering)
	rate := w.traits[Food].ReproductionRate
	for i := 0; i < c.World.InitialFood; i++ {
		birth := 0
		if rate > 0 {
			birth = -1 - w.rand.Intn(rate)
		}
		if err := w.AddDweller(w.NewFood(place(), birth)); err != nil {
			return nil, errors.Wrap(err, "place food")
		}
	}
	return w, nil
}

// foodPlacer returns a generator of food positions. With clustering above
// zero, positions where the simplex noise field falls below the threshold
// are rejected, which gathers food into patches.
func foodPlacer(w *World, clustering float64) func() geom.Point {
	uniform := func() geom.Point {
		return geom.Pt(w.rand.Float64()*w.bounds.Width(), w.rand.Float64()*w.bounds.Height())
	}
	if clustering <= 0 {
		return uniform
	}

	noise := opensimplex.NewNormalized(w.seed)
	return func() geom.Point {
		for attempt := 0; attempt < 1000; attempt++ {
			p := uniform()
			if noise.Eval2(p.X/noiseScale, p.Y/noiseScale) >= clustering {
				return p
			}
		}
		return uniform()
	}
}
