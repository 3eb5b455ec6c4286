package routing

import (
	"fmt"

	"kuanb/gosm-mapmatch/geom"
	"kuanb/gosm-mapmatch/roads"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/paulmach/orb"
)

// roadProjection is an observation snapped onto one road.
type roadProjection struct {
	road      *roads.Road
	snap      geom.Projection
	fromStart float64 // meters along the road before the snapped point
	toEnd     float64 // meters along the road after the snapped point
}

func project(obs orb.Point, r *roads.Road) roadProjection {
	snap, _ := geom.ProjectOnLine(obs, r.Geometry)
	return roadProjection{
		road:      r,
		snap:      snap,
		fromStart: geom.DistanceFromStart(r.Geometry, snap),
		toEnd:     geom.DistanceToEnd(r.Geometry, snap),
	}
}

// projectionCache memoizes projections per observation and road. It holds
// the projections of the most recent observations only; older ones are
// evicted as the decode window moves on.
type projectionCache struct {
	byObs *lru.Cache[orb.Point, map[string]roadProjection]
}

func newProjectionCache(observations int) (*projectionCache, error) {
	// a transition needs the previous and the current observation
	c, err := lru.New[orb.Point, map[string]roadProjection](max(observations, 2))
	if err != nil {
		return nil, fmt.Errorf("projection cache: %w", err)
	}
	return &projectionCache{byObs: c}, nil
}

func (c *projectionCache) get(obs orb.Point, r *roads.Road) roadProjection {
	byRoad, ok := c.byObs.Get(obs)
	if !ok {
		byRoad = make(map[string]roadProjection)
		c.byObs.Add(obs, byRoad)
	}
	if p, ok := byRoad[r.ID]; ok {
		return p
	}
	p := project(obs, r)
	byRoad[r.ID] = p
	return p
}

// observations returns the number of observations currently cached.
func (c *projectionCache) observations() int { return c.byObs.Len() }

func (c *projectionCache) purge() { c.byObs.Purge() }
