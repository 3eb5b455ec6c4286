package geom

import (
	"github.com/paulmach/orb"
	"github.com/tidwall/rtree"
)

// RTree wraps tidwall/rtree for spatial indexing of line bounding boxes
type RTree[T any] struct {
	tree *rtree.RTreeG[T]
}

// NewRTree creates a new RTree
func NewRTree[T any]() *RTree[T] {
	return &RTree[T]{
		tree: &rtree.RTreeG[T]{},
	}
}

// Insert adds an item to the RTree with the given bounding box
func (r *RTree[T]) Insert(b orb.Bound, item T) {
	r.tree.Insert(
		[2]float64{b.Min.Lon(), b.Min.Lat()},
		[2]float64{b.Max.Lon(), b.Max.Lat()},
		item,
	)
}

// Search returns all items whose bounding boxes intersect with the query bound
func (r *RTree[T]) Search(b orb.Bound) []T {
	result := make([]T, 0)
	r.tree.Search(
		[2]float64{b.Min.Lon(), b.Min.Lat()},
		[2]float64{b.Max.Lon(), b.Max.Lat()},
		func(min, max [2]float64, item T) bool {
			result = append(result, item)
			return true // continue searching
		},
	)
	return result
}

// SearchNearPoint returns all items within a distance (in meters) of a point
func (r *RTree[T]) SearchNearPoint(p orb.Point, distanceMeters float64) []T {
	deltaLon := MetersToDeltaLon(distanceMeters, p.Lat())
	deltaLat := MetersToDeltaLat(distanceMeters)

	return r.Search(orb.Bound{
		Min: orb.Point{p.Lon() - deltaLon, p.Lat() - deltaLat},
		Max: orb.Point{p.Lon() + deltaLon, p.Lat() + deltaLat},
	})
}

// Size returns the number of items in the RTree
func (r *RTree[T]) Size() int {
	return r.tree.Len()
}
