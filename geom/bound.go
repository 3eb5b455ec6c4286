package geom

import (
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

var (
	// ErrOutOfRange is returned when a point falls outside a grid's extent.
	ErrOutOfRange = errors.New("geom: point outside grid range")

	// ErrInvalidArgument is returned for malformed bounds, grid dimensions or empty inputs.
	ErrInvalidArgument = errors.New("geom: invalid argument")
)

// BoundingBox is a validated lon/lat rectangle.
type BoundingBox struct {
	West, South, East, North float64
}

// NewBoundingBox validates the corners and returns the box.
func NewBoundingBox(west, south, east, north float64) (BoundingBox, error) {
	if !validLon(west) || !validLon(east) {
		return BoundingBox{}, fmt.Errorf("%w: longitude out of [-180, 180]", ErrInvalidArgument)
	}
	if !validLat(south) || !validLat(north) {
		return BoundingBox{}, fmt.Errorf("%w: latitude out of [-90, 90]", ErrInvalidArgument)
	}
	if west > east || south > north {
		return BoundingBox{}, fmt.Errorf("%w: bounding box corners inverted", ErrInvalidArgument)
	}
	return BoundingBox{West: west, South: south, East: east, North: north}, nil
}

// BoundingBoxOf validates an orb.Bound.
func BoundingBoxOf(b orb.Bound) (BoundingBox, error) {
	return NewBoundingBox(b.Min.Lon(), b.Min.Lat(), b.Max.Lon(), b.Max.Lat())
}

func validLon(v float64) bool { return !math.IsNaN(v) && -180 <= v && v <= 180 }

func validLat(v float64) bool { return !math.IsNaN(v) && -90 <= v && v <= 90 }

// Bound returns the box as an orb.Bound.
func (b BoundingBox) Bound() orb.Bound {
	return orb.Bound{Min: orb.Point{b.West, b.South}, Max: orb.Point{b.East, b.North}}
}

// Center returns the midpoint of the box.
func (b BoundingBox) Center() orb.Point {
	return orb.Point{(b.West + b.East) / 2, (b.South + b.North) / 2}
}

// Contains reports whether p lies inside or on the edge of the box.
func (b BoundingBox) Contains(p orb.Point) bool {
	return b.Bound().Contains(p)
}
