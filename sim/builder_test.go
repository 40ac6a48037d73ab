package sim

import (
	"encoding/json"
	"testing"

	"github.com/ojrac/opensimplex-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vl4deee11/lifesim/config"
	"github.com/vl4deee11/lifesim/geom"
)

func TestBuildPopulatesWorld(t *testing.T) {
	c := config.Default()
	c.World.InitialAnts = 3
	w, err := Build(c)
	require.NoError(t, err)

	pop := w.Population()
	assert.Equal(t, 3, pop[Ant])
	assert.Equal(t, 30, pop[Food])
	assert.Zero(t, w.CurrentTick())

	var ants int
	for _, d := range w.Dwellers() {
		assert.True(t, w.Bounds().Contains(d.Position), "%v outside the world", &d)
		switch d.Species {
		case Ant:
			if ants == 0 {
				assert.Equal(t, geom.Pt(100, 100), d.Position)
			}
			ants++
			assert.Equal(t, 25.0, d.StoredFood)
			assert.Zero(t, d.BirthTick)
		case Food:
			assert.GreaterOrEqual(t, d.BirthTick, -30)
			assert.LessOrEqual(t, d.BirthTick, -1)
			assert.Zero(t, d.StoredFood)
		}
	}
}

func TestBuildIsSeeded(t *testing.T) {
	c := config.Default()
	a, err := Build(c)
	require.NoError(t, err)
	b, err := Build(c)
	require.NoError(t, err)

	assert.Equal(t, a.Dwellers(), b.Dwellers())
	assert.NotEqual(t, a.RunID, b.RunID)
}

func TestBuildClustersFood(t *testing.T) {
	c := config.Default()
	c.World.InitialFood = 200
	c.World.FoodClustering = 0.6
	w, err := Build(c)
	require.NoError(t, err)

	noise := opensimplex.NewNormalized(c.World.Seed)
	for _, d := range w.Dwellers() {
		if d.Species != Food {
			continue
		}
		v := noise.Eval2(d.Position.X/noiseScale, d.Position.Y/noiseScale)
		assert.GreaterOrEqual(t, v, 0.6, "%v", &d)
	}
}

func TestSnapshot(t *testing.T) {
	w := New(testConfig())
	addAnt(t, w, 10, 20, 30)
	addFood(t, w, 40, 50, 0)
	require.NoError(t, w.Tick())

	s := w.Snapshot()
	assert.Equal(t, "state", s.Type)
	assert.Equal(t, w.RunID.String(), s.RunID)
	assert.Equal(t, 1, s.Tick)
	assert.Equal(t, 100.0, s.Width)
	assert.Equal(t, 1, s.Ants)
	assert.Equal(t, 1, s.Food)
	require.Len(t, s.Dwellers, 2)
	assert.Equal(t, Ant, s.Dwellers[0].Species)
	assert.Equal(t, 1, s.Dwellers[1].Age)

	raw, err := json.Marshal(s)
	require.NoError(t, err)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "state", decoded["type"])
	assert.Len(t, decoded["dwellers"], 2)
}
