package sim

import (
	"fmt"
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vl4deee11/lifesim/config"
	"github.com/vl4deee11/lifesim/geom"
	"github.com/vl4deee11/lifesim/quadtree"
)

func testConfig() *config.Config {
	c := config.Default()
	c.World.Width = 100
	c.World.Height = 100
	c.World.InitialAnts = 0
	c.World.InitialFood = 0
	c.Sim.Workers = 1
	return c
}

func addAnt(t *testing.T, w *World, x, y, food float64) ID {
	d := w.NewAnt(geom.Pt(x, y), food)
	require.NoError(t, w.AddDweller(d))
	return d.ID
}

func addFood(t *testing.T, w *World, x, y float64, birth int) ID {
	d := w.NewFood(geom.Pt(x, y), birth)
	require.NoError(t, w.AddDweller(d))
	return d.ID
}

func TestAntEatsFoodInRange(t *testing.T) {
	for _, ai := range []string{"angle_distance", "nearest_food"} {
		t.Run(ai, func(t *testing.T) {
			c := testConfig()
			c.AntAI.Type = ai
			w := New(c)
			ant := addAnt(t, w, 50, 50, 50)
			food := addFood(t, w, 52, 50, 0)

			require.NoError(t, w.Tick())

			assert.Equal(t, 1, w.DwellersCount())
			_, ok := w.Dweller(food)
			assert.False(t, ok)
			got, ok := w.Dweller(ant)
			require.True(t, ok)
			assert.Equal(t, 50.0, got.StoredFood)
			assert.Equal(t, 1, w.LastStats().Eaten)
		})
	}
}

func TestMoveWrapsAroundEdges(t *testing.T) {
	w := New(testConfig())
	east := addAnt(t, w, 98, 50, 50)
	west := addAnt(t, w, 2, 20, 50)
	w.SetDecider(Ant, DeciderFunc(func(self *Dweller, _ int, _ View) (Action, bool) {
		if self.ID == east {
			return Move(self.ID, geom.Pt(105, 50)), true
		}
		return Move(self.ID, geom.Pt(-5, 20)), true
	}))

	require.NoError(t, w.Tick())

	got, _ := w.Dweller(east)
	assert.InDelta(t, 5, got.Position.X, 1e-9)
	assert.InDelta(t, 50, got.Position.Y, 1e-9)
	got, _ = w.Dweller(west)
	assert.InDelta(t, 95, got.Position.X, 1e-9)
	assert.Equal(t, 2, w.LastStats().Moved)
}

func TestStarvingAntDies(t *testing.T) {
	w := New(testConfig())
	ant := addAnt(t, w, 50, 50, 1)

	require.NoError(t, w.Tick())

	_, ok := w.Dweller(ant)
	assert.False(t, ok)
	assert.Equal(t, 1, w.LastStats().Died)
	assert.Zero(t, w.Population()[Ant])
}

func TestDeathsApplyBeforeMeals(t *testing.T) {
	w := New(testConfig())
	ant := addAnt(t, w, 50, 50, 10)
	food := addFood(t, w, 51, 50, 0)
	w.SetDecider(Ant, DeciderFunc(func(self *Dweller, _ int, _ View) (Action, bool) {
		return Eat(self.ID, food), true
	}))
	w.SetDecider(Food, DeciderFunc(func(self *Dweller, _ int, _ View) (Action, bool) {
		return Die(self.ID), true
	}))

	require.NoError(t, w.Tick())

	stats := w.LastStats()
	assert.Equal(t, 2, stats.Proposed)
	assert.Equal(t, 1, stats.Died)
	assert.Zero(t, stats.Eaten)
	assert.Equal(t, 1, stats.Dropped)
	got, _ := w.Dweller(ant)
	assert.Equal(t, 10.0, got.StoredFood)
}

func TestEatenActorsDoNotMove(t *testing.T) {
	w := New(testConfig())
	hunter := addAnt(t, w, 50, 50, 10)
	prey := addAnt(t, w, 51, 50, 10)
	w.SetDecider(Ant, DeciderFunc(func(self *Dweller, _ int, _ View) (Action, bool) {
		if self.ID == hunter {
			return Eat(self.ID, prey), true
		}
		return Move(self.ID, geom.Pt(80, 80)), true
	}))

	require.NoError(t, w.Tick())

	stats := w.LastStats()
	assert.Equal(t, 1, stats.Eaten)
	assert.Zero(t, stats.Moved)
	assert.Equal(t, 1, stats.Dropped)
	assert.Equal(t, 1, w.DwellersCount())
	assert.Empty(t, w.DwellersInRange(geom.Pt(80, 80), 1))
}

func TestSelfAndNonEatingMealsAreDropped(t *testing.T) {
	w := New(testConfig())
	ant := addAnt(t, w, 50, 50, 10)
	food := addFood(t, w, 10, 10, 0)
	other := addFood(t, w, 11, 10, 0)
	w.SetDecider(Ant, DeciderFunc(func(self *Dweller, _ int, _ View) (Action, bool) {
		return Eat(self.ID, self.ID), true
	}))
	w.SetDecider(Food, DeciderFunc(func(self *Dweller, _ int, _ View) (Action, bool) {
		if self.ID == food {
			return Eat(self.ID, other), true
		}
		return Action{}, false
	}))

	require.NoError(t, w.Tick())

	assert.Equal(t, 3, w.DwellersCount())
	assert.Equal(t, 2, w.LastStats().Dropped)
	_, ok := w.Dweller(ant)
	assert.True(t, ok)
}

func TestBreedSharesFood(t *testing.T) {
	w := New(testConfig())
	parent := addAnt(t, w, 50, 50, 50)
	w.SetDecider(Ant, DeciderFunc(func(self *Dweller, tick int, _ View) (Action, bool) {
		if tick == 1 {
			return Breed(self.ID), true
		}
		return Action{}, false
	}))

	require.NoError(t, w.Tick())

	dwellers := w.Dwellers()
	require.Len(t, dwellers, 2)
	p, child := dwellers[0], dwellers[1]
	assert.Equal(t, parent, p.ID)
	assert.Equal(t, 25.0, p.StoredFood)
	assert.Equal(t, 1, p.LastReproduction)
	assert.Equal(t, Ant, child.Species)
	assert.Equal(t, 25.0, child.StoredFood)
	assert.Equal(t, 1, child.BirthTick)
	assert.Greater(t, child.ID, parent)
	assert.LessOrEqual(t, child.Position.Distance(p.Position), w.Traits(Ant).ReproductionRange+1e-6)
	assert.Equal(t, 1, w.LastStats().Born)
}

func TestFoodBreedsOnSchedule(t *testing.T) {
	w := New(testConfig())
	early := addFood(t, w, 20, 20, -29)
	addFood(t, w, 70, 70, -5)

	require.NoError(t, w.Tick())

	assert.Equal(t, 3, w.Population()[Food])
	got, _ := w.Dweller(early)
	assert.Equal(t, 1, got.LastReproduction)
	for _, d := range w.Dwellers() {
		assert.Zero(t, d.StoredFood)
	}
}

func TestAntBreedsWhenSaturated(t *testing.T) {
	c := testConfig()
	c.Ant.ReproductionRate = 1
	w := New(c)
	addAnt(t, w, 50, 50, 50)
	addAnt(t, w, 20, 20, 30)

	require.NoError(t, w.Tick())

	assert.Equal(t, 3, w.Population()[Ant])
}

func TestStaleMoveIsDropped(t *testing.T) {
	w := New(testConfig())
	ant := addAnt(t, w, 50, 50, 10)
	w.SetDecider(Ant, DeciderFunc(func(self *Dweller, _ int, _ View) (Action, bool) {
		return Die(self.ID), true
	}))
	require.NoError(t, w.Tick())

	stats, err := w.apply([]Action{Move(ant, geom.Pt(1, 1))})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Dropped)
}

func TestAddDwellerNudgesCollisions(t *testing.T) {
	w := New(testConfig())
	a := addAnt(t, w, 50, 50, 10)
	b := addAnt(t, w, 50, 50, 10)

	da, _ := w.Dweller(a)
	db, _ := w.Dweller(b)
	assert.NotEqual(t, da.Position, db.Position)
	assert.InDelta(t, 50, db.Position.X, 1e-6)
	assert.Equal(t, 2, w.DwellersCount())

	assert.Error(t, w.AddDweller(&da))
}

func TestRemoveAndMoveDweller(t *testing.T) {
	w := New(testConfig())
	a := addAnt(t, w, 10, 10, 10)

	require.NoError(t, w.MoveDweller(a, geom.Pt(30, 30)))
	assert.Len(t, w.DwellersInRange(geom.Pt(30, 31), 2), 1)
	assert.Empty(t, w.DwellersInRange(geom.Pt(10, 11), 2))

	assert.True(t, w.RemoveDweller(a))
	assert.False(t, w.RemoveDweller(a))
	assert.Error(t, w.MoveDweller(a, geom.Pt(1, 1)))
	assert.Zero(t, w.DwellersCount())
}

func TestFailedMoveKeepsDwellerIndexed(t *testing.T) {
	c := testConfig()
	c.World.Width = 2
	c.World.Height = 2
	w := New(c)
	addAnt(t, w, 1, 1, 10)
	mover := addAnt(t, w, 0.5, 0.5, 10)

	// No quarter of the plane can hold both (1, 1) and its neighbouring float.
	err := w.MoveDweller(mover, geom.Pt(1, math.Nextafter(1, 2)))
	require.Error(t, err)
	assert.True(t, errors.Is(err, quadtree.ErrInseparable))

	got, ok := w.Dweller(mover)
	require.True(t, ok)
	assert.Equal(t, geom.Pt(0.5, 0.5), got.Position)
	assert.Equal(t, w.DwellersCount(), w.index.Count())
	id, ok := w.index.Get(geom.Pt(0.5, 0.5))
	require.True(t, ok)
	assert.Equal(t, mover, id)
}

func TestFailedBreedKeepsParentFood(t *testing.T) {
	w := New(testConfig())
	parent := addAnt(t, w, 50, 50, 50)
	// The child would get an ID that is already taken.
	w.lastID = 0

	_, err := w.apply([]Action{Breed(parent)})
	require.Error(t, err)

	got, _ := w.Dweller(parent)
	assert.Equal(t, 50.0, got.StoredFood)
	assert.Zero(t, got.LastReproduction)
	assert.Equal(t, 1, w.DwellersCount())
}

func TestDwellersInRange(t *testing.T) {
	w := New(testConfig())
	addAnt(t, w, 10, 10, 10)
	east := addAnt(t, w, 13, 10, 10)
	south := addFood(t, w, 10, 14, 0)
	west := addAnt(t, w, 7, 10, 10)
	addAnt(t, w, 15, 10, 10)
	addAnt(t, w, 40, 40, 10)

	got := w.DwellersInRange(geom.Pt(10, 10), 5)

	ids := make([]ID, len(got))
	for i, n := range got {
		ids[i] = n.ID
	}
	assert.Equal(t, []ID{east, west, south}, ids)
	assert.Equal(t, Food, got[2].Species)
	assert.Equal(t, 16.0, got[2].SquareDistance)
}

func TestTickHandlersRunInOrder(t *testing.T) {
	w := New(testConfig())
	var calls []string
	w.AddTickHandler(func(tick int, _ *World) { calls = append(calls, "a") })
	w.AddTickHandler(func(tick int, got *World) {
		assert.Same(t, w, got)
		assert.Equal(t, 1, tick)
		calls = append(calls, "b")
	})

	require.NoError(t, w.Tick())
	assert.Equal(t, []string{"a", "b"}, calls)
}

func run(t *testing.T, c *config.Config, ticks int) []Dweller {
	w, err := Build(c)
	require.NoError(t, err)
	for i := 0; i < ticks; i++ {
		require.NoError(t, w.Tick())
	}
	return w.Dwellers()
}

func TestRunIsIndependentOfWorkers(t *testing.T) {
	c := config.Default()
	c.World.InitialAnts = 4
	c.World.InitialFood = 60
	c.World.Seed = 42

	c.Sim.Workers = 1
	serial, err := Build(c)
	require.NoError(t, err)
	c.Sim.Workers = 8
	parallel, err := Build(c)
	require.NoError(t, err)

	for tick := 1; tick <= 100; tick++ {
		require.NoError(t, serial.Tick())
		require.NoError(t, parallel.Tick())
		require.Equal(t, serial.Dwellers(), parallel.Dwellers(), "tick %d", tick)
		require.Equal(t, serial.LastStats(), parallel.LastStats(), "tick %d", tick)
	}
	assert.NotEmpty(t, serial.Dwellers())
}

func TestSeedChangesRun(t *testing.T) {
	c := config.Default()
	c.Sim.Workers = 2
	first := run(t, c, 50)
	c.World.Seed = 7
	second := run(t, c, 50)
	assert.NotEqual(t, first, second)
}

func TestDecisionSourceIsStable(t *testing.T) {
	a := newDecisionSource(1, 5, 9)
	b := newDecisionSource(1, 5, 9)
	c := newDecisionSource(1, 6, 9)
	first := a.Uint64()
	assert.Equal(t, first, b.Uint64())
	assert.NotEqual(t, first, c.Uint64())
	assert.GreaterOrEqual(t, a.Int63(), int64(0))
}

func BenchmarkTick(b *testing.B) {
	for _, workers := range []int{1, 4} {
		b.Run(fmt.Sprintf("workers=%d", workers), func(b *testing.B) {
			c := config.Default()
			c.World.Width = 1000
			c.World.Height = 1000
			c.World.InitialAnts = 200
			c.World.InitialFood = 2000
			c.Sim.Workers = workers
			for i := 0; i < b.N; i++ {
				b.StopTimer()
				w, err := Build(c)
				if err != nil {
					b.Fatal(err)
				}
				b.StartTimer()
				for tick := 0; tick < 10; tick++ {
					if err := w.Tick(); err != nil {
						b.Fatal(err)
					}
				}
			}
		})
	}
}
