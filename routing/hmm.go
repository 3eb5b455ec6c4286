package routing

import (
	"fmt"
	"math"

	"kuanb/gosm-mapmatch/geom"
	"kuanb/gosm-mapmatch/hmm"
	"kuanb/gosm-mapmatch/roads"

	"github.com/paulmach/orb"
	"gonum.org/v1/gonum/stat/distuv"
)

// Model is the map-matching hidden Markov model: hidden states are road ids,
// observations are lon/lat GPS points.
//
// A Model owns a projection cache and must not be shared between decoders.
// The Network it reads is shared freely.
type Model struct {
	net        *Network
	params     Params
	cache      *projectionCache
	emission   distuv.Normal
	transition distuv.Exponential
}

var _ hmm.Model[string, orb.Point] = (*Model)(nil)

// NewModel creates a model over net.
func NewModel(net *Network, params Params) (*Model, error) {
	if net == nil {
		return nil, fmt.Errorf("%w: nil network", ErrInvalidParams)
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	cache, err := newProjectionCache(params.HistoryDepth)
	if err != nil {
		return nil, err
	}
	return &Model{
		net:        net,
		params:     params,
		cache:      cache,
		emission:   distuv.Normal{Mu: 0, Sigma: params.Sigma},
		transition: distuv.Exponential{Rate: 1 / params.Beta},
	}, nil
}

// Candidates returns roads whose projected distance is within the nearby
// radius. When the index returns roads but none is close enough, all of
// them are returned. An observation outside the grid yields geom.ErrOutOfRange.
func (m *Model) Candidates(obs orb.Point) ([]string, error) {
	nearby, err := m.net.Index.Nearby(obs, m.params.NearbyRoadRadius)
	if err != nil {
		return nil, err
	}

	result := make([]string, 0, len(nearby))
	for _, r := range nearby {
		if m.cache.get(obs, r).snap.Distance < m.params.NearbyRoadRadius {
			result = append(result, r.ID)
		}
	}
	if len(result) == 0 {
		for _, r := range nearby {
			result = append(result, r.ID)
		}
	}
	return result, nil
}

// Emission is the half-Gaussian density of the distance between the
// observation and its projection onto the road.
func (m *Model) Emission(p hmm.Pair[string, orb.Point]) float64 {
	r, ok := m.net.Graph.Road(p.State)
	if !ok {
		return 0
	}
	d := m.cache.get(p.Observation, r).snap.Distance
	return 2 * m.emission.Prob(d)
}

// Transition compares the on-road distance between two projections with the
// great circle distance between the raw observations. Large detours,
// disconnected roads and geometrically inconsistent continuations have zero
// probability.
func (m *Model) Transition(from, to hmm.Pair[string, orb.Point]) float64 {
	road1, ok1 := m.net.Graph.Road(from.State)
	road2, ok2 := m.net.Graph.Road(to.State)
	if !ok1 || !ok2 {
		return 0
	}

	onRoad, ok := m.onRoadDistance(from.Observation, road1, to.Observation, road2)
	if !ok {
		return 0
	}

	diff := math.Abs(geom.GreatCircleDistance(from.Observation, to.Observation) - onRoad)
	if diff > m.params.TransitionDiffThreshold {
		return 0
	}
	return m.transition.Prob(diff)
}

func (m *Model) onRoadDistance(obs1 orb.Point, road1 *roads.Road, obs2 orb.Point, road2 *roads.Road) (float64, bool) {
	p1 := m.cache.get(obs1, road1)
	p2 := m.cache.get(obs2, road2)

	switch {
	case road1.ID == road2.ID:
		// negative when moving backwards along the road
		return p2.fromStart - p1.fromStart, true
	case road1.End == road2.End || road1.Start == road2.Start:
		return 0, false
	case road1.End == road2.Start:
		return p1.toEnd + p2.fromStart, true
	}

	path, ok := m.net.Graph.FindPath(road1.End, road2.Start, m.params.PathSearchBudget)
	if !ok {
		return 0, false
	}
	return p1.toEnd + path.Length + p2.fromStart, true
}
