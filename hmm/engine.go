package hmm

import (
	"cmp"
	"fmt"
	"log/slog"
	"math"
)

// DefaultHistoryDepth is the number of most recent states a traceback can recover.
const DefaultHistoryDepth = 5

// State is an immutable snapshot of the decoder. Each successful update
// replaces it wholesale.
type State[S, O comparable] struct {
	// LastObservation is only meaningful when Started is true.
	LastObservation O
	Started         bool
	Distribution    Vector[S]
	// History holds at most depth-1 levels, oldest first.
	History []Level[S]
}

type options struct {
	depth  int
	logger *slog.Logger
}

// Option configures an Engine.
type Option func(*options)

// WithHistoryDepth sets how many states a traceback can recover (at least 1).
func WithHistoryDepth(depth int) Option {
	return func(o *options) {
		o.depth = depth
	}
}

// WithLogger sets the logger used for rejected updates. Nil discards output.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// Engine runs the Viterbi algorithm incrementally over a stream of
// observations. It is not safe for concurrent use.
type Engine[S, O comparable] struct {
	model  Model[S, O]
	cmp    func(a, b S) int
	depth  int
	logger *slog.Logger
	state  State[S, O]
	steps  int
}

// NewEngine creates an engine over model. compare orders states and decides
// ties: the lowest state wins.
func NewEngine[S, O comparable](model Model[S, O], compare func(a, b S) int, opts ...Option) (*Engine[S, O], error) {
	cfg := options{depth: DefaultHistoryDepth}
	for _, opt := range opts {
		opt(&cfg)
	}
	if model == nil {
		return nil, fmt.Errorf("%w: nil model", ErrInvalidArgument)
	}
	if compare == nil {
		return nil, fmt.Errorf("%w: nil state comparator", ErrInvalidArgument)
	}
	if cfg.depth < 1 {
		return nil, fmt.Errorf("%w: history depth %d", ErrInvalidArgument, cfg.depth)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.DiscardHandler)
	}
	e := &Engine[S, O]{
		model:  model,
		cmp:    compare,
		depth:  cfg.depth,
		logger: cfg.logger,
	}
	e.Reset()
	return e, nil
}

// NewOrderedEngine is NewEngine with the natural order of S.
func NewOrderedEngine[S cmp.Ordered, O comparable](model Model[S, O], opts ...Option) (*Engine[S, O], error) {
	return NewEngine(model, cmp.Compare[S], opts...)
}

// Update advances the decoder by one observation. On error the engine keeps
// its previous state; errors.Is(err, ErrDecodeRejected) marks observations
// the model cannot explain.
func (e *Engine[S, O]) Update(obs O) error {
	candidates, err := e.model.Candidates(obs)
	if err != nil {
		return fmt.Errorf("hmm: candidates: %w", err)
	}
	candidates = unique(candidates)
	if len(candidates) == 0 {
		e.logger.Debug("update rejected", "reason", "no candidates", "step", e.steps)
		return fmt.Errorf("%w: no candidate states", ErrDecodeRejected)
	}

	next := make(Vector[S], len(candidates))
	level := make(Level[S], len(candidates))
	if !e.state.Started {
		for _, s := range candidates {
			if p := e.model.Emission(Pair[S, O]{s, obs}); p > 0 {
				next[s] = p
				level[s] = Backpointer[S]{Root: true}
			}
		}
	} else {
		prev := e.state.Distribution.Support(e.cmp)
		for _, s := range candidates {
			to := Pair[S, O]{s, obs}
			emission := e.model.Emission(to)
			if !(emission > 0) {
				continue
			}
			best, score, ok := e.bestPredecessor(prev, to)
			if !ok {
				continue
			}
			if p := score * emission; p > 0 {
				next[s] = p
				level[s] = Backpointer[S]{Prev: best}
			}
		}
	}

	if sum := next.Sum(); !(sum >= math.SmallestNonzeroFloat64) {
		e.logger.Debug("update rejected", "reason", "probabilities vanished",
			"step", e.steps, "candidates", len(candidates))
		return fmt.Errorf("%w: all %d candidates have zero probability", ErrDecodeRejected, len(candidates))
	}

	e.state = State[S, O]{
		LastObservation: obs,
		Started:         true,
		Distribution:    next.Normalize(),
		History:         e.pushLevel(level),
	}
	e.steps++
	return nil
}

// bestPredecessor scans prev (sorted ascending) and keeps the first maximum,
// so ties resolve to the lowest state.
func (e *Engine[S, O]) bestPredecessor(prev []S, to Pair[S, O]) (best S, score float64, ok bool) {
	for _, s := range prev {
		sc := e.state.Distribution[s] * e.model.Transition(Pair[S, O]{s, e.state.LastObservation}, to)
		if sc > score {
			best, score, ok = s, sc, true
		}
	}
	return best, score, ok
}

func (e *Engine[S, O]) pushLevel(level Level[S]) []Level[S] {
	old := e.state.History
	keep := e.depth - 1
	start := 0
	if len(old)+1 > keep {
		start = len(old) + 1 - keep
	}
	history := make([]Level[S], 0, keep)
	if start < len(old) {
		history = append(history, old[start:]...)
	}
	if keep > 0 {
		history = append(history, level)
	}
	return history
}

// MostLikelyState returns the most probable current state.
func (e *Engine[S, O]) MostLikelyState() (S, error) {
	s, ok := e.state.Distribution.Argmax(e.cmp)
	if !ok {
		return s, fmt.Errorf("%w: no observation decoded yet", ErrInvalidArgument)
	}
	return s, nil
}

// MostLikelySequence traces back from the most probable current state. It
// covers at most the history depth; an engine with no accepted observation
// yields an empty sequence.
func (e *Engine[S, O]) MostLikelySequence() ([]S, error) {
	s, ok := e.state.Distribution.Argmax(e.cmp)
	if !ok {
		return nil, nil
	}
	return TraceBack(e.state.History, s)
}

// SequenceEndingIn traces back from an explicit final state, which must be
// part of the current distribution.
func (e *Engine[S, O]) SequenceEndingIn(s S) ([]S, error) {
	if _, ok := e.state.Distribution[s]; !ok {
		return nil, fmt.Errorf("%w: state %v not in current distribution", ErrInvalidArgument, s)
	}
	return TraceBack(e.state.History, s)
}

// Reset forgets every observation.
func (e *Engine[S, O]) Reset() {
	e.state = State[S, O]{Distribution: Vector[S]{}}
	e.steps = 0
}

// State returns the current snapshot. Callers must not modify its maps.
func (e *Engine[S, O]) State() State[S, O] { return e.state }

// Distribution returns a copy of the current distribution.
func (e *Engine[S, O]) Distribution() Vector[S] { return e.state.Distribution.Clone() }

// Depth returns the configured history depth.
func (e *Engine[S, O]) Depth() int { return e.depth }

// Steps returns the number of observations accepted since the last Reset.
func (e *Engine[S, O]) Steps() int { return e.steps }

func unique[S comparable](states []S) []S {
	if len(states) < 2 {
		return states
	}
	seen := make(map[S]struct{}, len(states))
	result := make([]S, 0, len(states))
	for _, s := range states {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		result = append(result, s)
	}
	return result
}
