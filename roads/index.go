package roads

import (
	"fmt"
	"math"
	"sort"

	"kuanb/gosm-mapmatch/geom"

	"github.com/paulmach/orb"
)

// Index finds roads near a point. Implementations are read-only after
// construction.
type Index interface {
	// Nearby returns roads whose geometry may lie within radius meters of p.
	// The result is a superset: callers filter by projected distance.
	Nearby(p orb.Point, radius float64) ([]*Road, error)
}

// maxCellLatitude caps the latitude used to size longitude cells.
const maxCellLatitude = 89.0

// GridIndex rasterises every road into a uniform grid. Queries return the
// roads of the 3x3 cell neighbourhood, so the cell size should be at least
// the search radius.
type GridIndex struct {
	grid *geom.Grid[*Road]
}

// NewGridIndex builds a grid with cells of at least cellSizeMeters over box,
// or over the graph's extent when box is nil. No cell is narrower than
// cellSizeMeters in either direction.
func NewGridIndex(g *Graph, cellSizeMeters float64, box *geom.BoundingBox) (*GridIndex, error) {
	if !(cellSizeMeters > 0) {
		return nil, fmt.Errorf("%w: cell size %g", geom.ErrInvalidArgument, cellSizeMeters)
	}
	var extent geom.BoundingBox
	if box != nil {
		extent = *box
	} else {
		if g.Len() == 0 {
			return nil, fmt.Errorf("%w: empty road graph", geom.ErrInvalidArgument)
		}
		var err error
		if extent, err = geom.BoundingBoxOf(g.Bound()); err != nil {
			return nil, err
		}
	}

	// Longitude degrees shrink towards the poles: size cells at the latitude
	// furthest from the equator so none is narrower than cellSizeMeters.
	refLat := min(max(math.Abs(extent.South), math.Abs(extent.North)), maxCellLatitude)
	grid, err := geom.NewGridOver[*Road](extent,
		geom.MetersToDeltaLon(cellSizeMeters, refLat),
		geom.MetersToDeltaLat(cellSizeMeters))
	if err != nil {
		return nil, err
	}

	for _, r := range g.Roads() {
		if err := grid.InsertLine(r.Geometry, r); err != nil {
			return nil, fmt.Errorf("indexing road %s: %w", r.ID, err)
		}
	}
	return &GridIndex{grid: grid}, nil
}

// Nearby ignores radius; the neighbourhood size is fixed by the cell size.
func (ix *GridIndex) Nearby(p orb.Point, _ float64) ([]*Road, error) {
	return ix.grid.Query(p.Lon(), p.Lat())
}

// Grid exposes the underlying grid.
func (ix *GridIndex) Grid() *geom.Grid[*Road] { return ix.grid }

// RTreeIndex indexes road bounding boxes in an R-tree. Unlike GridIndex it
// has no extent, so it never fails with geom.ErrOutOfRange.
type RTreeIndex struct {
	tree *geom.RTree[*Road]
}

func NewRTreeIndex(g *Graph) *RTreeIndex {
	tree := geom.NewRTree[*Road]()
	for _, r := range g.Roads() {
		tree.Insert(r.Geometry.Bound(), r)
	}
	return &RTreeIndex{tree: tree}
}

// Nearby returns roads whose bounding box intersects the radius box around p, sorted by id.
func (ix *RTreeIndex) Nearby(p orb.Point, radius float64) ([]*Road, error) {
	result := ix.tree.SearchNearPoint(p, radius)
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Size returns the number of indexed roads.
func (ix *RTreeIndex) Size() int { return ix.tree.Size() }
