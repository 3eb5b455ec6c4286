package hmm

import "fmt"

// MatrixModel is a Model backed by explicit transition and emission tables.
// Missing table entries are zero.
type MatrixModel[S, O comparable] struct {
	states     []S
	transition map[S]map[S]float64
	emission   map[S]map[O]float64
}

// NewMatrixModel copies nothing; the tables must not change afterwards.
func NewMatrixModel[S, O comparable](states []S, transition map[S]map[S]float64, emission map[S]map[O]float64) (*MatrixModel[S, O], error) {
	if len(states) == 0 {
		return nil, fmt.Errorf("%w: no states", ErrInvalidArgument)
	}
	return &MatrixModel[S, O]{
		states:     states,
		transition: transition,
		emission:   emission,
	}, nil
}

func (m *MatrixModel[S, O]) Transition(from, to Pair[S, O]) float64 {
	return m.transition[from.State][to.State]
}

func (m *MatrixModel[S, O]) Emission(p Pair[S, O]) float64 {
	return m.emission[p.State][p.Observation]
}

// Candidates returns the states that can emit obs.
func (m *MatrixModel[S, O]) Candidates(obs O) ([]S, error) {
	var result []S
	for _, s := range m.states {
		if m.emission[s][obs] > 0 {
			result = append(result, s)
		}
	}
	return result, nil
}
