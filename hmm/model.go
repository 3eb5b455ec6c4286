// Package hmm implements a streaming Viterbi decoder over any hidden Markov
// model whose states and observations are comparable values.
//
// An Engine consumes observations one at a time and keeps only the last few
// steps of backpointers, so memory stays bounded by the history depth rather
// than the length of the observation stream.
package hmm

import "errors"

var (
	// ErrInvalidArgument is returned for empty inputs, bad options and
	// traceback seeds that are not part of the current step.
	ErrInvalidArgument = errors.New("hmm: invalid argument")

	// ErrDecodeRejected is returned by Engine.Update when an observation has
	// no candidate states or every path probability vanishes. The engine
	// keeps its previous state; the caller may skip the observation or Reset.
	ErrDecodeRejected = errors.New("hmm: observation rejected")

	// ErrTracebackInconsistency means a backpointer refers to a state missing
	// from the previous step. It indicates corrupted history.
	ErrTracebackInconsistency = errors.New("hmm: traceback inconsistency")
)

// Pair binds a hidden state to the observation it is evaluated against.
type Pair[S, O comparable] struct {
	State       S
	Observation O
}

// Model supplies the probabilities a Viterbi decoder needs. All methods
// must be free of side effects visible to the decoder.
type Model[S, O comparable] interface {
	// Transition returns the non-negative weight of moving from one
	// state/observation pair to the next. Zero forbids the move.
	Transition(from, to Pair[S, O]) float64

	// Emission returns the non-negative likelihood of a state emitting an
	// observation. It need not be normalised; a density is fine.
	Emission(p Pair[S, O]) float64

	// Candidates returns the states worth evaluating for obs. An empty
	// result is not an error: the decoder rejects the observation. Models
	// that cannot narrow the state space may return every state.
	Candidates(obs O) ([]S, error)
}
