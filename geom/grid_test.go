package geom

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGrid(t *testing.T) *Grid[string] {
	t.Helper()
	g, err := NewGrid[string](0, 0, 1, 1, 10, 10)
	require.NoError(t, err)
	return g
}

func TestNewGrid_InvalidArguments(t *testing.T) {
	tests := []struct {
		name           string
		sizeX, sizeY   float64
		countX, countY int
	}{
		{"zero size", 0, 1, 1, 1},
		{"negative size", 1, -1, 1, 1},
		{"zero count", 1, 1, 0, 1},
		{"negative count", 1, 1, 1, -2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGrid[int](0, 0, tt.sizeX, tt.sizeY, tt.countX, tt.countY)
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}
}

func TestGrid_CellOf(t *testing.T) {
	g := newTestGrid(t)

	c, err := g.CellOf(0, 0)
	require.NoError(t, err)
	assert.Equal(t, Cell{0, 0}, c)

	c, err = g.CellOf(3.5, 9.99)
	require.NoError(t, err)
	assert.Equal(t, Cell{3, 9}, c)

	for _, p := range [][2]float64{{-0.1, 5}, {10, 5}, {5, 10}, {5, -3}} {
		_, err := g.CellOf(p[0], p[1])
		assert.ErrorIs(t, err, ErrOutOfRange, "point %v", p)
	}
}

func TestGrid_QueryNeighbourhood(t *testing.T) {
	g := newTestGrid(t)
	require.NoError(t, g.InsertPoint(Cell{5, 5}, "a"))

	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			items, err := g.Query(5.5+float64(dx), 5.5+float64(dy))
			require.NoError(t, err)
			assert.Equal(t, []string{"a"}, items)
		}
	}

	items, err := g.Query(7.5, 5.5)
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = g.Query(11, 5)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestGrid_QueryClipsAtCorner(t *testing.T) {
	g := newTestGrid(t)
	require.NoError(t, g.InsertPoint(Cell{0, 0}, "corner"))
	require.NoError(t, g.InsertPoint(Cell{1, 1}, "diag"))
	require.NoError(t, g.InsertPoint(Cell{1, 1}, "diag"))

	items, err := g.Query(0.2, 0.2)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"corner", "diag"}, items)
	assert.Len(t, g.Items(Cell{1, 1}), 1)
}

func TestGrid_InsertPointOutOfRange(t *testing.T) {
	g := newTestGrid(t)
	assert.ErrorIs(t, g.InsertPoint(Cell{10, 0}, "x"), ErrOutOfRange)
}

func TestBresenham(t *testing.T) {
	assert.Equal(t, []Cell{{0, 0}, {1, 0}, {2, 0}, {3, 0}}, Bresenham(0, 0, 3, 0))
	assert.Equal(t, []Cell{{0, 0}, {0, 1}, {0, 2}}, Bresenham(0, 0, 0, 2))
	assert.Equal(t, []Cell{{2, 2}}, Bresenham(2, 2, 2, 2))

	diag := Bresenham(3, 3, 0, 0)
	assert.ElementsMatch(t, []Cell{{0, 0}, {1, 1}, {2, 2}, {3, 3}}, diag)
}

func TestGrid_InsertSegment(t *testing.T) {
	g := newTestGrid(t)
	require.NoError(t, g.InsertSegment(orb.Point{0.5, 0.5}, orb.Point{3.5, 0.5}, "road"))

	for x := 0; x <= 3; x++ {
		assert.Equal(t, []string{"road"}, g.Items(Cell{x, 0}), "cell %d", x)
	}
	assert.Empty(t, g.Items(Cell{4, 0}))
	assert.Empty(t, g.Items(Cell{0, 1}))

	err := g.InsertSegment(orb.Point{0.5, 0.5}, orb.Point{30, 0.5}, "road")
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestNewGridOver(t *testing.T) {
	box, err := NewBoundingBox(0, 0, 1, 1)
	require.NoError(t, err)

	g, err := NewGridOver[int](box, 0.25, 0.5)
	require.NoError(t, err)

	nx, ny := g.Dims()
	assert.Equal(t, 6, nx)
	assert.Equal(t, 4, ny)

	ext := g.Extent()
	assert.InDelta(t, -0.25, ext.Min.Lon(), 1e-9)
	assert.InDelta(t, -0.5, ext.Min.Lat(), 1e-9)
	assert.InDelta(t, 1.25, ext.Max.Lon(), 1e-9)
	assert.InDelta(t, 1.5, ext.Max.Lat(), 1e-9)

	_, err = g.CellOf(1, 1)
	assert.NoError(t, err)
}
