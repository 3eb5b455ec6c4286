package routing

import (
	"context"
	"fmt"
	"runtime"

	"github.com/paulmach/orb"
	"golang.org/x/sync/errgroup"
)

// MatchAll matches traces concurrently over one shared network. Each trace
// gets its own Matcher; results are returned in input order.
func MatchAll(ctx context.Context, net *Network, params Params, traces [][]orb.Point, opts ...MatcherOption) ([]MatchResult, error) {
	results := make([]MatchResult, len(traces))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, trace := range traces {
		g.Go(func() error {
			m, err := NewMatcher(net, params, opts...)
			if err != nil {
				return err
			}
			res, err := m.Match(ctx, trace)
			if err != nil {
				return fmt.Errorf("trace %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
