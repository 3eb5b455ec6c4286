package geom

import (
	"fmt"
	"math"
	"slices"

	"github.com/paulmach/orb"
)

// Cell addresses one grid cell.
type Cell struct {
	X, Y int
}

// Grid is a uniform spatial index over the half-open rectangle
// [left, left+countX*sizeX) x [bottom, bottom+countY*sizeY).
// Each cell holds a set of items; an item may live in many cells.
// A Grid is safe for concurrent reads once populated.
type Grid[T comparable] struct {
	left, bottom   float64
	sizeX, sizeY   float64
	countX, countY int
	cells          [][]T // countX*countY cells, index x*countY+y
}

// NewGrid allocates an empty grid with every cell present.
func NewGrid[T comparable](left, bottom, sizeX, sizeY float64, countX, countY int) (*Grid[T], error) {
	for _, v := range []float64{left, bottom, sizeX, sizeY} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: non-finite grid parameter", ErrInvalidArgument)
		}
	}
	if sizeX <= 0 || sizeY <= 0 {
		return nil, fmt.Errorf("%w: cell size must be positive, got %gx%g", ErrInvalidArgument, sizeX, sizeY)
	}
	if countX <= 0 || countY <= 0 {
		return nil, fmt.Errorf("%w: cell count must be positive, got %dx%d", ErrInvalidArgument, countX, countY)
	}
	return &Grid[T]{
		left:   left,
		bottom: bottom,
		sizeX:  sizeX,
		sizeY:  sizeY,
		countX: countX,
		countY: countY,
		cells:  make([][]T, countX*countY),
	}, nil
}

// NewGridOver covers box with cells of roughly cellX x cellY degrees and adds
// one cell of margin on every side.
func NewGridOver[T comparable](box BoundingBox, cellX, cellY float64) (*Grid[T], error) {
	if !(cellX > 0) || !(cellY > 0) {
		return nil, fmt.Errorf("%w: cell size must be positive", ErrInvalidArgument)
	}
	left := box.West - cellX
	bottom := box.South - cellY
	width := (box.East + cellX) - left
	height := (box.North + cellY) - bottom

	// Dimensions are the extent over the rough size; the actual size is
	// stretched so the cells tile the extent exactly.
	countX := max(int(width/cellX), 1)
	countY := max(int(height/cellY), 1)
	return NewGrid[T](left, bottom, width/float64(countX), height/float64(countY), countX, countY)
}

// Dims returns the number of cells along x and y.
func (g *Grid[T]) Dims() (int, int) { return g.countX, g.countY }

// Extent returns the covered rectangle.
func (g *Grid[T]) Extent() orb.Bound {
	return orb.Bound{
		Min: orb.Point{g.left, g.bottom},
		Max: orb.Point{g.left + float64(g.countX)*g.sizeX, g.bottom + float64(g.countY)*g.sizeY},
	}
}

// CellOf maps a point to its cell.
func (g *Grid[T]) CellOf(x, y float64) (Cell, error) {
	cx := math.Floor((x - g.left) / g.sizeX)
	cy := math.Floor((y - g.bottom) / g.sizeY)
	if !(cx >= 0 && cx < float64(g.countX) && cy >= 0 && cy < float64(g.countY)) {
		return Cell{}, fmt.Errorf("%w: (%g, %g)", ErrOutOfRange, x, y)
	}
	return Cell{X: int(cx), Y: int(cy)}, nil
}

func (g *Grid[T]) valid(c Cell) bool {
	return c.X >= 0 && c.X < g.countX && c.Y >= 0 && c.Y < g.countY
}

func (g *Grid[T]) index(c Cell) int { return c.X*g.countY + c.Y }

// InsertPoint adds item to a single cell.
func (g *Grid[T]) InsertPoint(c Cell, item T) error {
	if !g.valid(c) {
		return fmt.Errorf("%w: cell (%d, %d)", ErrOutOfRange, c.X, c.Y)
	}
	i := g.index(c)
	if !slices.Contains(g.cells[i], item) {
		g.cells[i] = append(g.cells[i], item)
	}
	return nil
}

// InsertSegment adds item to every cell crossed by the straight line from p0 to p1.
func (g *Grid[T]) InsertSegment(p0, p1 orb.Point, item T) error {
	c0, err := g.CellOf(p0[0], p0[1])
	if err != nil {
		return err
	}
	c1, err := g.CellOf(p1[0], p1[1])
	if err != nil {
		return err
	}
	for _, c := range Bresenham(c0.X, c0.Y, c1.X, c1.Y) {
		if err := g.InsertPoint(c, item); err != nil {
			return err
		}
	}
	return nil
}

// InsertLine rasterises every segment of ls.
func (g *Grid[T]) InsertLine(ls orb.LineString, item T) error {
	if len(ls) == 1 {
		c, err := g.CellOf(ls[0][0], ls[0][1])
		if err != nil {
			return err
		}
		return g.InsertPoint(c, item)
	}
	for i := 1; i < len(ls); i++ {
		if err := g.InsertSegment(ls[i-1], ls[i], item); err != nil {
			return err
		}
	}
	return nil
}

// Items returns the items of one cell. The slice must not be modified.
func (g *Grid[T]) Items(c Cell) []T {
	if !g.valid(c) {
		return nil
	}
	return g.cells[g.index(c)]
}

// Query returns the de-duplicated items of the 3x3 neighbourhood around the
// cell holding (x, y), clipped to the grid.
func (g *Grid[T]) Query(x, y float64) ([]T, error) {
	c, err := g.CellOf(x, y)
	if err != nil {
		return nil, err
	}
	seen := make(map[T]struct{})
	var result []T
	for i := c.X - 1; i <= c.X+1; i++ {
		for j := c.Y - 1; j <= c.Y+1; j++ {
			n := Cell{X: i, Y: j}
			if !g.valid(n) {
				continue
			}
			for _, item := range g.cells[g.index(n)] {
				if _, ok := seen[item]; ok {
					continue
				}
				seen[item] = struct{}{}
				result = append(result, item)
			}
		}
	}
	return result, nil
}

// Bresenham returns the cells on the integer line between (x0, y0) and (x1, y1), both ends included.
func Bresenham(x0, y0, x1, y1 int) []Cell {
	steep := abs(y1-y0) > abs(x1-x0)
	if steep {
		x0, y0 = y0, x0
		x1, y1 = y1, x1
	}
	if x0 > x1 {
		x0, x1 = x1, x0
		y0, y1 = y1, y0
	}
	dx := x1 - x0
	dy := abs(y1 - y0)
	errTerm := dx / 2
	ystep := 1
	if y0 > y1 {
		ystep = -1
	}

	cells := make([]Cell, 0, dx+1)
	y := y0
	for x := x0; x <= x1; x++ {
		if steep {
			cells = append(cells, Cell{X: y, Y: x})
		} else {
			cells = append(cells, Cell{X: x, Y: y})
		}
		errTerm -= dy
		if errTerm < 0 {
			y += ystep
			errTerm += dx
		}
	}
	return cells
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
