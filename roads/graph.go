package roads

import (
	"errors"
	"fmt"
	"maps"
	"sort"

	"kuanb/gosm-mapmatch/geom"

	"github.com/paulmach/orb"
)

// ErrInvalidRoad is returned when a road cannot be added to a graph.
var ErrInvalidRoad = errors.New("roads: invalid road")

// Road is a directed edge of the road network. Two-way streets are two roads.
type Road struct {
	ID       string
	Start    string // node id at Geometry[0]
	End      string // node id at Geometry[len-1]
	Geometry orb.LineString
	Length   float64 // meters
}

// NewRoad builds a road and computes its length from the geometry.
func NewRoad(id, start, end string, geometry orb.LineString) *Road {
	return &Road{
		ID:       id,
		Start:    start,
		End:      end,
		Geometry: geometry,
		Length:   geom.LineLength(geometry),
	}
}

// Graph is a directed road network. Each road is indexed once by its start
// node (outgoing) and once by its end node (incoming). A Graph is read-only
// once built and may be shared between goroutines.
type Graph struct {
	roads    map[string]*Road
	outgoing map[string][]*Road
	incoming map[string][]*Road
	nodes    map[string]orb.Point
}

func NewGraph() *Graph {
	return &Graph{
		roads:    make(map[string]*Road),
		outgoing: make(map[string][]*Road),
		incoming: make(map[string][]*Road),
		nodes:    make(map[string]orb.Point),
	}
}

// AddRoad inserts r into both adjacency indices. A zero Length is filled in from the geometry.
func (g *Graph) AddRoad(r *Road) error {
	switch {
	case r == nil:
		return fmt.Errorf("%w: nil road", ErrInvalidRoad)
	case r.ID == "":
		return fmt.Errorf("%w: empty id", ErrInvalidRoad)
	case r.Start == "" || r.End == "":
		return fmt.Errorf("%w: road %s has no start or end node", ErrInvalidRoad, r.ID)
	case len(r.Geometry) < 2:
		return fmt.Errorf("%w: road %s has %d points", ErrInvalidRoad, r.ID, len(r.Geometry))
	case r.Length < 0:
		return fmt.Errorf("%w: road %s has negative length", ErrInvalidRoad, r.ID)
	}
	if _, ok := g.roads[r.ID]; ok {
		return fmt.Errorf("%w: duplicate id %s", ErrInvalidRoad, r.ID)
	}
	if r.Length == 0 {
		r.Length = geom.LineLength(r.Geometry)
	}

	g.roads[r.ID] = r
	g.outgoing[r.Start] = append(g.outgoing[r.Start], r)
	g.incoming[r.End] = append(g.incoming[r.End], r)
	if _, ok := g.nodes[r.Start]; !ok {
		g.nodes[r.Start] = r.Geometry[0]
	}
	if _, ok := g.nodes[r.End]; !ok {
		g.nodes[r.End] = r.Geometry[len(r.Geometry)-1]
	}
	return nil
}

// Road looks a road up by id.
func (g *Graph) Road(id string) (*Road, bool) {
	r, ok := g.roads[id]
	return r, ok
}

// Roads returns every road sorted by id.
func (g *Graph) Roads() []*Road {
	result := make([]*Road, 0, len(g.roads))
	for _, r := range g.roads {
		result = append(result, r)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// Outgoing returns the roads leaving node.
func (g *Graph) Outgoing(node string) []*Road { return g.outgoing[node] }

// Incoming returns the roads entering node.
func (g *Graph) Incoming(node string) []*Road { return g.incoming[node] }

// Nodes returns a copy of the node id to position map.
func (g *Graph) Nodes() map[string]orb.Point { return maps.Clone(g.nodes) }

// Len returns the number of roads.
func (g *Graph) Len() int { return len(g.roads) }

// Bound returns the extent of every road geometry. It is empty for an empty graph.
func (g *Graph) Bound() orb.Bound {
	var b orb.Bound
	first := true
	for _, r := range g.roads {
		if first {
			b = r.Geometry.Bound()
			first = false
			continue
		}
		b = b.Union(r.Geometry.Bound())
	}
	return b
}
