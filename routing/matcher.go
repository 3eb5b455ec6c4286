package routing

import (
	"context"
	"errors"
	"fmt"

	"kuanb/gosm-mapmatch/geom"
	"kuanb/gosm-mapmatch/hmm"
	"kuanb/gosm-mapmatch/logging"

	"github.com/paulmach/orb"
)

// MatchResult represents the output of the HMM map matching
type MatchResult struct {
	Roads      []string // matched road id per accepted observation
	Path       []string // Roads with consecutive repeats collapsed
	Confidence float64  // probability of the final most likely road (0-1)
	Skipped    int      // observations rejected by the decoder
}

// Matcher streams GPS observations through a Viterbi engine over the map-matching model.
// States leaving the engine's bounded history are committed so a full trace
// can be recovered. A Matcher is not safe for concurrent use; create one per
// trace and share the Network.
type Matcher struct {
	model     *Model
	engine    *hmm.Engine[string, orb.Point]
	logger    *logging.Logger
	committed []string
	// lastCommitted is set when the latest update committed the first state of the window
	lastCommitted bool
}

// MatcherOption configures NewMatcher.
type MatcherOption func(*Matcher)

// WithMatcherLogger sets the matcher and engine logger.
func WithMatcherLogger(l *logging.Logger) MatcherOption {
	return func(m *Matcher) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewMatcher creates a matcher with its own model and engine over net.
func NewMatcher(net *Network, params Params, opts ...MatcherOption) (*Matcher, error) {
	model, err := NewModel(net, params)
	if err != nil {
		return nil, err
	}
	m := &Matcher{model: model, logger: logging.Noop()}
	for _, opt := range opts {
		opt(m)
	}
	m.engine, err = hmm.NewOrderedEngine[string, orb.Point](model,
		hmm.WithHistoryDepth(params.HistoryDepth),
		hmm.WithLogger(m.logger.Logger))
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Update feeds one observation. Rejected observations leave the matcher
// unchanged and return an error matching hmm.ErrDecodeRejected, or
// geom.ErrOutOfRange for points outside the road grid.
//
// An error matching hmm.ErrTracebackInconsistency is reported after the
// engine accepted obs: the engine has advanced but nothing was committed for
// this step. The matcher should be Reset.
func (m *Matcher) Update(obs orb.Point) error {
	if err := m.engine.Update(obs); err != nil {
		return err
	}
	window, err := m.engine.MostLikelySequence()
	if err != nil {
		m.lastCommitted = false
		return fmt.Errorf("engine advanced to step %d: %w", m.engine.Steps(), err)
	}
	m.lastCommitted = len(window) == m.engine.Depth()
	if m.lastCommitted {
		// window[0] slides out of the history on the next update
		m.committed = append(m.committed, window[0])
	}
	return nil
}

// Sequence returns the committed roads followed by the current window.
func (m *Matcher) Sequence() ([]string, error) {
	window, err := m.engine.MostLikelySequence()
	if err != nil {
		return nil, err
	}
	if m.lastCommitted {
		window = window[1:]
	}
	result := make([]string, 0, len(m.committed)+len(window))
	result = append(result, m.committed...)
	return append(result, window...), nil
}

// Confidence is the probability of the current most likely road.
func (m *Matcher) Confidence() float64 {
	dist := m.engine.Distribution()
	best, err := m.engine.MostLikelyState()
	if err != nil {
		return 0
	}
	return dist[best]
}

// Reset forgets the trace.
func (m *Matcher) Reset() {
	m.engine.Reset()
	m.model.cache.purge()
	m.committed = nil
	m.lastCommitted = false
}

// Match resets the matcher and matches a whole trace, skipping observations
// the model cannot explain.
func (m *Matcher) Match(ctx context.Context, trace []orb.Point) (MatchResult, error) {
	m.Reset()

	skipped := 0
	for i, obs := range trace {
		if err := ctx.Err(); err != nil {
			return MatchResult{}, err
		}
		err := m.Update(obs)
		m.logger.LogUpdate(ctx, i, err)
		if err != nil {
			if errors.Is(err, hmm.ErrDecodeRejected) || errors.Is(err, geom.ErrOutOfRange) {
				skipped++
				continue
			}
			return MatchResult{}, fmt.Errorf("observation %d: %w", i, err)
		}
	}

	seq, err := m.Sequence()
	if err != nil {
		return MatchResult{}, err
	}
	result := MatchResult{
		Roads:      seq,
		Path:       hmm.CollapseRepeats(seq),
		Confidence: m.Confidence(),
		Skipped:    skipped,
	}
	m.logger.LogMatch(ctx, len(trace), skipped, len(result.Path), result.Confidence)
	return result, nil
}
