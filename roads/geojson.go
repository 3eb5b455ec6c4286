package roads

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// FromGeoJSON builds a graph from a FeatureCollection of LineString features
// carrying "id", "start" and "end" properties. A feature with
// "oneway": false is also added reversed, with id suffixed by "-rev".
// Other geometry types are skipped.
func FromGeoJSON(data []byte) (*Graph, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("invalid GeoJSON: %w", err)
	}

	g := NewGraph()
	for i, f := range fc.Features {
		ls, ok := f.Geometry.(orb.LineString)
		if !ok {
			continue
		}
		id, start, end := property(f, "id"), property(f, "start"), property(f, "end")
		if id == "" {
			id = fmt.Sprintf("%d", i)
		}
		if err := g.AddRoad(NewRoad(id, start, end, ls)); err != nil {
			return nil, err
		}
		if oneway, ok := f.Properties["oneway"].(bool); ok && !oneway {
			rev := make(orb.LineString, len(ls))
			for j, p := range ls {
				rev[len(ls)-1-j] = p
			}
			if err := g.AddRoad(NewRoad(id+"-rev", end, start, rev)); err != nil {
				return nil, err
			}
		}
	}
	if g.Len() == 0 {
		return nil, fmt.Errorf("%w: no LineString features", ErrInvalidRoad)
	}
	return g, nil
}

// ToFeature converts a road to a GeoJSON feature.
func ToFeature(r *Road) *geojson.Feature {
	f := geojson.NewFeature(r.Geometry)
	f.Properties["id"] = r.ID
	f.Properties["start"] = r.Start
	f.Properties["end"] = r.End
	f.Properties["length_m"] = r.Length
	return f
}

func property(f *geojson.Feature, key string) string {
	v, ok := f.Properties[key]
	if !ok || v == nil {
		return ""
	}
	switch v := v.(type) {
	case string:
		return v
	case float64:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprint(v)
	}
}
