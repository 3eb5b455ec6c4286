package geom

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// TraceFromGeoJSON extracts the ordered GPS observations of a GeoJSON
// FeatureCollection. Point, MultiPoint and LineString features contribute
// their coordinates in document order; other geometries are ignored.
func TraceFromGeoJSON(data []byte) ([]orb.Point, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("invalid GeoJSON: %w", err)
	}

	var coords []orb.Point
	for _, feature := range fc.Features {
		switch g := feature.Geometry.(type) {
		case orb.Point:
			coords = append(coords, g)
		case orb.MultiPoint:
			coords = append(coords, g...)
		case orb.LineString:
			coords = append(coords, g...)
		}
	}
	if len(coords) == 0 {
		return nil, fmt.Errorf("%w: no coordinates found in GeoJSON", ErrInvalidArgument)
	}
	return coords, nil
}
