package hmm

import "fmt"

// Backpointer records the best predecessor of a state. Root marks states
// seeded by the first observation, which have no predecessor.
type Backpointer[S comparable] struct {
	Prev S
	Root bool
}

// Level holds the backpointers of one decode step, keyed by the states of
// that step's distribution.
type Level[S comparable] map[S]Backpointer[S]

// TraceBack walks levels from newest to oldest starting at seed and returns
// the states in chronological order. The result has len(levels)+1 states
// unless a Root backpointer ends the walk early.
//
// A seed missing from the newest level is ErrInvalidArgument; a predecessor
// missing from an older level is ErrTracebackInconsistency.
func TraceBack[S comparable](levels []Level[S], seed S) ([]S, error) {
	backwards := []S{seed}
	current := seed
	for i := len(levels) - 1; i >= 0; i-- {
		bp, ok := levels[i][current]
		if !ok {
			if i == len(levels)-1 {
				return nil, fmt.Errorf("%w: seed %v not in the latest step", ErrInvalidArgument, seed)
			}
			return nil, fmt.Errorf("%w: state %v missing at depth %d", ErrTracebackInconsistency, current, len(levels)-1-i)
		}
		if bp.Root {
			break
		}
		backwards = append(backwards, bp.Prev)
		current = bp.Prev
	}

	result := make([]S, len(backwards))
	for i, s := range backwards {
		result[len(backwards)-1-i] = s
	}
	return result, nil
}

// CollapseRepeats drops consecutive duplicates: [0 1 2 2 2 3] becomes [0 1 2 3].
func CollapseRepeats[S comparable](seq []S) []S {
	if len(seq) < 2 {
		return seq
	}
	result := []S{seq[0]}
	for _, s := range seq[1:] {
		if s != result[len(result)-1] {
			result = append(result, s)
		}
	}
	return result
}
