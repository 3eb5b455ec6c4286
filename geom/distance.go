package geom

import (
	"math"

	"github.com/paulmach/orb"
)

const EarthRadiusMeters = 6371000.0

func toRad(deg float64) float64 { return deg * math.Pi / 180.0 }

func toDeg(rad float64) float64 { return rad * 180.0 / math.Pi }

// GreatCircleDistance calculates the distance between two lon/lat points in meters using the Haversine formula
func GreatCircleDistance(a, b orb.Point) float64 {
	dLat := toRad(b.Lat() - a.Lat())
	dLon := toRad(b.Lon() - a.Lon())
	lat1Rad := toRad(a.Lat())
	lat2Rad := toRad(b.Lat())

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusMeters * c
}

// LineLength sums the great circle distance over every segment of ls.
func LineLength(ls orb.LineString) float64 {
	total := 0.0
	for i := 1; i < len(ls); i++ {
		total += GreatCircleDistance(ls[i-1], ls[i])
	}
	return total
}

// MetersToDeltaLat converts an arc length in meters to degrees of latitude.
func MetersToDeltaLat(meters float64) float64 {
	return toDeg(meters / EarthRadiusMeters)
}

// MetersToDeltaLon converts an arc length in meters to degrees of longitude at refLat.
func MetersToDeltaLon(meters, refLat float64) float64 {
	return toDeg(meters / (EarthRadiusMeters * math.Cos(toRad(refLat))))
}

// Projection is the nearest point of a polyline to some query point.
type Projection struct {
	Point    orb.Point
	Index    int     // index of the segment start in the polyline
	Distance float64 // great circle distance from the query point to Point, meters
}

// projectOnSegment returns the parameter t in [0,1] of the point of ab closest to p.
// Uses equirectangular projection around a (accurate for short distances).
func projectOnSegment(p, a, b orb.Point) float64 {
	cosLat := math.Cos(toRad(a.Lat()))
	ax := toRad(a.Lon()) * cosLat * EarthRadiusMeters
	ay := toRad(a.Lat()) * EarthRadiusMeters
	bx := toRad(b.Lon()) * cosLat * EarthRadiusMeters
	by := toRad(b.Lat()) * EarthRadiusMeters
	px := toRad(p.Lon()) * cosLat * EarthRadiusMeters
	py := toRad(p.Lat()) * EarthRadiusMeters

	dx := bx - ax
	dy := by - ay
	if dx == 0 && dy == 0 {
		// a and b are the same point
		return 0
	}
	t := ((px-ax)*dx + (py-ay)*dy) / (dx*dx + dy*dy)
	return math.Max(0, math.Min(1, t))
}

func lerp(a, b orb.Point, t float64) orb.Point {
	return orb.Point{a[0] + t*(b[0]-a[0]), a[1] + t*(b[1]-a[1])}
}

// ProjectOnLine snaps p onto the closest point of ls. A single point line
// projects onto that point; an empty line returns false.
func ProjectOnLine(p orb.Point, ls orb.LineString) (Projection, bool) {
	switch len(ls) {
	case 0:
		return Projection{}, false
	case 1:
		return Projection{Point: ls[0], Index: 0, Distance: GreatCircleDistance(p, ls[0])}, true
	}

	best := Projection{Distance: math.Inf(1)}
	for i := 0; i < len(ls)-1; i++ {
		q := lerp(ls[i], ls[i+1], projectOnSegment(p, ls[i], ls[i+1]))
		d := GreatCircleDistance(p, q)
		if d < best.Distance {
			best = Projection{Point: q, Index: i, Distance: d}
		}
	}
	return best, true
}

// DistanceFromStart is the along-line distance from the first point of ls to
// a projection lying on segment index.
func DistanceFromStart(ls orb.LineString, pr Projection) float64 {
	if len(ls) == 0 {
		return 0
	}
	total := 0.0
	for i := 1; i <= pr.Index && i < len(ls); i++ {
		total += GreatCircleDistance(ls[i-1], ls[i])
	}
	return total + GreatCircleDistance(ls[pr.Index], pr.Point)
}

// DistanceToEnd is the along-line distance from a projection to the last point of ls.
func DistanceToEnd(ls orb.LineString, pr Projection) float64 {
	if len(ls) == 0 {
		return 0
	}
	next := pr.Index + 1
	if next >= len(ls) {
		return 0
	}
	total := GreatCircleDistance(pr.Point, ls[next])
	for i := next + 1; i < len(ls); i++ {
		total += GreatCircleDistance(ls[i-1], ls[i])
	}
	return total
}
