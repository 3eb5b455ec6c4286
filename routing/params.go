package routing

import (
	"errors"
	"fmt"
)

// ErrInvalidParams is returned by Params.Validate.
var ErrInvalidParams = errors.New("routing: invalid parameters")

// Params tune the map-matching model.
type Params struct {
	Sigma                   float64 `yaml:"sigma"`                     // GPS measurement noise (meters)
	Beta                    float64 `yaml:"beta"`                      // transition decay (meters)
	NearbyRoadRadius        float64 `yaml:"nearby_road_radius"`        // candidate search radius (meters)
	TransitionDiffThreshold float64 `yaml:"transition_diff_threshold"` // max |route - great circle| (meters)
	PathSearchBudget        float64 `yaml:"path_search_budget"`        // Dijkstra distance cutoff (meters)
	GridCellSizeMeters      float64 `yaml:"grid_cell_size_meters"`
	HistoryDepth            int     `yaml:"history_depth"`
}

// DefaultParams returns typical values for urban GPS traces.
func DefaultParams() Params {
	return Params{
		Sigma:                   4.07, // typical GPS noise
		Beta:                    3.0,
		NearbyRoadRadius:        35.0,
		TransitionDiffThreshold: 200.0,
		PathSearchBudget:        2000.0,
		GridCellSizeMeters:      35.0,
		HistoryDepth:            5,
	}
}

// Validate rejects non-positive values and a grid cell smaller than the
// nearby road radius.
func (p Params) Validate() error {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"sigma", p.Sigma},
		{"beta", p.Beta},
		{"nearby_road_radius", p.NearbyRoadRadius},
		{"transition_diff_threshold", p.TransitionDiffThreshold},
		{"path_search_budget", p.PathSearchBudget},
		{"grid_cell_size_meters", p.GridCellSizeMeters},
	} {
		if !(f.value > 0) {
			return fmt.Errorf("%w: %s must be positive, got %g", ErrInvalidParams, f.name, f.value)
		}
	}
	if p.GridCellSizeMeters < p.NearbyRoadRadius {
		// the 3x3 neighbourhood must cover the search radius
		return fmt.Errorf("%w: grid_cell_size_meters %g is smaller than nearby_road_radius %g",
			ErrInvalidParams, p.GridCellSizeMeters, p.NearbyRoadRadius)
	}
	if p.HistoryDepth < 1 {
		return fmt.Errorf("%w: history_depth must be at least 1, got %d", ErrInvalidParams, p.HistoryDepth)
	}
	return nil
}
