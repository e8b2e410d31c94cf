package internal

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func block(x, y, z float64) Block {
	return Block{X: x, Y: y, Z: z, Color: "#ef4444", Shape: ShapeCube, Size: 1}
}

func TestWorldPlaceOverwrites(t *testing.T) {
	w := NewWorld(0)

	require.True(t, w.Place(block(1, 0, 1)))
	red := block(1, 0, 1)
	red.Color = "#00ff00"
	require.True(t, w.Place(red))

	assert.Equal(t, 1, w.Len())
	got, ok := w.Get(Coord{X: 1, Y: 0, Z: 1})
	require.True(t, ok)
	assert.Equal(t, "#00ff00", got.Color)
}

func TestWorldHalfUnitKeys(t *testing.T) {
	w := NewWorld(0)
	w.Place(block(0.5, 0, 0))
	w.Place(block(1, 0, 0))

	assert.Equal(t, 2, w.Len())
	_, ok := w.Get(Coord{X: 0.5})
	assert.True(t, ok)
}

func TestWorldRemoveAndUpdateAbsent(t *testing.T) {
	w := NewWorld(0)
	w.Place(block(0, 0, 0))

	_, ok := w.Remove(Coord{X: 5})
	assert.False(t, ok)
	assert.False(t, w.Update(block(5, 0, 0)))
	assert.Equal(t, 1, w.Len())
	_, ok = w.Get(Coord{X: 5})
	assert.False(t, ok)

	removed, ok := w.Remove(Coord{})
	require.True(t, ok)
	assert.Equal(t, block(0, 0, 0), removed)
	assert.Zero(t, w.Len())
}

func TestWorldLimit(t *testing.T) {
	w := NewWorld(2)
	require.True(t, w.Place(block(0, 0, 0)))
	require.True(t, w.Place(block(1, 0, 0)))

	assert.False(t, w.Place(block(2, 0, 0)))
	assert.True(t, w.Place(block(1, 0, 0)), "overwrite at the limit")
	assert.Equal(t, 2, w.Len())
}

func TestWorldBlocksSorted(t *testing.T) {
	w := NewWorld(0)
	w.Place(block(2, 0, 0))
	w.Place(block(0, 1, 0))
	w.Place(block(0, 0, 3))
	w.Place(block(0, 0, -1))

	var coords []Coord
	for _, b := range w.Blocks() {
		coords = append(coords, b.Coord())
	}
	assert.Equal(t, []Coord{{0, 0, -1}, {0, 0, 3}, {0, 1, 0}, {2, 0, 0}}, coords)
}

func TestWorldWithinSparesFloor(t *testing.T) {
	w := NewWorld(0)
	w.Place(block(0, -1, 0)) // floor, distance 1
	w.Place(block(1, 0, 0))  // distance 1
	w.Place(block(0, 3, 0))  // distance 3, on the boundary
	w.Place(block(2, 2, 2))  // distance ~3.46
	w.Place(block(0, 0, 0.5))

	hits := w.Within(Vec3{0, 0, 0}, 3, -1)
	assert.Equal(t, []Coord{{0, 0, 0.5}, {0, 3, 0}, {1, 0, 0}}, hits)
}

func TestCoordValidate(t *testing.T) {
	assert.NoError(t, Coord{X: 1.5, Y: -0.5, Z: 10000}.Validate())
	assert.Error(t, Coord{X: 0.25}.Validate())
	assert.Error(t, Coord{Y: 10000.5}.Validate())
	assert.Error(t, Coord{Z: math.NaN()}.Validate())
	assert.Error(t, Coord{Z: math.Inf(1)}.Validate())
}

func TestBlockNormalize(t *testing.T) {
	b, err := Block{X: 1, Color: "#EF4444"}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, "#ef4444", b.Color)
	assert.Equal(t, ShapeCube, b.Shape)
	assert.Equal(t, 1.0, b.Size)

	_, err = Block{Color: "red"}.Normalize()
	assert.Error(t, err)
	_, err = Block{Color: "#ffffff", Shape: "cone"}.Normalize()
	assert.Error(t, err)
	_, err = Block{Color: "#ffffff", Size: 2}.Normalize()
	assert.Error(t, err)

	b, err = Block{Color: "#ffffff", Shape: ShapeSphere, Size: 0.5}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, 0.5, b.Size)
}
