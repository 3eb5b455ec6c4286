package roads

import (
	"container/heap"
)

// Path is an ordered sequence of connected roads.
type Path struct {
	Roads  []*Road
	Length float64 // meters, sum of road lengths
}

// FindPath runs Dijkstra from node from to node to over outgoing roads,
// weighted by road length. The search succeeds the first time to is popped
// from the heap and gives up once every frontier entry would exceed budget.
// from == to yields an empty path.
//
// The search keeps no state between calls, so concurrent searches on the same
// graph are safe.
func (g *Graph) FindPath(from, to string, budget float64) (Path, bool) {
	if from == to {
		return Path{}, true
	}
	if budget < 0 {
		return Path{}, false
	}

	s := &search{
		g:       g,
		budget:  budget,
		dist:    map[string]float64{from: 0},
		via:     make(map[string]*Road),
		settled: make(map[string]bool),
	}
	heap.Push(&s.pq, &searchItem{node: from, dist: 0})

	for s.pq.Len() > 0 {
		item := heap.Pop(&s.pq).(*searchItem)
		if s.settled[item.node] {
			// stale entry
			continue
		}
		s.settled[item.node] = true
		if item.node == to {
			return s.path(from, to), true
		}
		s.relax(item.node, item.dist)
	}
	return Path{}, false
}

type search struct {
	g       *Graph
	budget  float64
	dist    map[string]float64
	via     map[string]*Road // road used to reach each node
	settled map[string]bool
	pq      searchPQ
}

func (s *search) relax(u string, d float64) {
	for _, r := range s.g.outgoing[u] {
		v := r.End
		if s.settled[v] {
			continue
		}
		nd := d + r.Length
		if nd > s.budget {
			continue
		}
		if cur, ok := s.dist[v]; ok && nd >= cur {
			continue
		}
		s.dist[v] = nd
		s.via[v] = r
		heap.Push(&s.pq, &searchItem{node: v, dist: nd})
	}
}

func (s *search) path(from, to string) Path {
	var rev []*Road
	for n := to; n != from; {
		r := s.via[n]
		rev = append(rev, r)
		n = r.Start
	}
	p := Path{Roads: make([]*Road, len(rev)), Length: s.dist[to]}
	for i, r := range rev {
		p.Roads[len(rev)-1-i] = r
	}
	return p
}

type searchItem struct {
	node string
	dist float64
}

// searchPQ is a min-heap on distance with lazy decrease-key; ties break on node id.
type searchPQ []*searchItem

func (pq searchPQ) Len() int { return len(pq) }

func (pq searchPQ) Less(i, j int) bool {
	if pq[i].dist != pq[j].dist {
		return pq[i].dist < pq[j].dist
	}
	return pq[i].node < pq[j].node
}

func (pq searchPQ) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *searchPQ) Push(x any) { *pq = append(*pq, x.(*searchItem)) }

func (pq *searchPQ) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}
