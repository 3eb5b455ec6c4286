package routing

import (
	"fmt"

	"kuanb/gosm-mapmatch/geom"
	"kuanb/gosm-mapmatch/roads"
)

// IndexKind selects the spatial index used for candidate lookup.
type IndexKind string

const (
	IndexGrid  IndexKind = "grid"
	IndexRTree IndexKind = "rtree"
)

// Network is the immutable road data shared by every matcher.
type Network struct {
	Graph *roads.Graph
	Index roads.Index
}

type networkOptions struct {
	box  *geom.BoundingBox
	kind IndexKind
}

// NetworkOption configures NewNetwork.
type NetworkOption func(*networkOptions)

// WithBoundingBox sizes the grid from box instead of the road extent.
// Every road must lie inside it.
func WithBoundingBox(box geom.BoundingBox) NetworkOption {
	return func(o *networkOptions) {
		o.box = &box
	}
}

// WithIndex selects the candidate index. Defaults to IndexGrid.
func WithIndex(kind IndexKind) NetworkOption {
	return func(o *networkOptions) {
		o.kind = kind
	}
}

// NewNetwork indexes g for candidate lookup.
func NewNetwork(g *roads.Graph, params Params, opts ...NetworkOption) (*Network, error) {
	cfg := networkOptions{kind: IndexGrid}
	for _, opt := range opts {
		opt(&cfg)
	}
	if g == nil || g.Len() == 0 {
		return nil, fmt.Errorf("%w: empty road graph", geom.ErrInvalidArgument)
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	var index roads.Index
	switch cfg.kind {
	case IndexGrid, "":
		grid, err := roads.NewGridIndex(g, params.GridCellSizeMeters, cfg.box)
		if err != nil {
			return nil, fmt.Errorf("building grid index: %w", err)
		}
		index = grid
	case IndexRTree:
		index = roads.NewRTreeIndex(g)
	default:
		return nil, fmt.Errorf("%w: unknown index %q", ErrInvalidParams, cfg.kind)
	}
	return &Network{Graph: g, Index: index}, nil
}
