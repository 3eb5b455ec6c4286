package hmm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weatherModel(t *testing.T) *MatrixModel[string, string] {
	t.Helper()
	m, err := NewMatrixModel(
		[]string{"s1", "s2"},
		map[string]map[string]float64{
			"s1": {"s1": 0.8, "s2": 0.2},
			"s2": {"s1": 0.5, "s2": 0.5},
		},
		map[string]map[string]float64{
			"s1": {"o1": 0.8, "o2": 0.2},
			"s2": {"o1": 0.2, "o2": 0.8},
		},
	)
	require.NoError(t, err)
	return m
}

func feed(t *testing.T, e *Engine[string, string], obs ...string) {
	t.Helper()
	for _, o := range obs {
		require.NoError(t, e.Update(o), "observation %s", o)
	}
}

func TestEngine_MostLikelySequence(t *testing.T) {
	e, err := NewOrderedEngine[string, string](weatherModel(t))
	require.NoError(t, err)

	feed(t, e, "o1", "o2", "o1")

	seq, err := e.MostLikelySequence()
	require.NoError(t, err)
	assert.Equal(t, []string{"s1", "s1", "s1"}, seq)

	best, err := e.MostLikelyState()
	require.NoError(t, err)
	assert.Equal(t, "s1", best)
	assert.InDelta(t, 1.0, e.Distribution().Sum(), 1e-12)
	assert.Equal(t, 3, e.Steps())
}

func TestEngine_TieBreaksToLowestState(t *testing.T) {
	e, err := NewOrderedEngine[string, string](weatherModel(t))
	require.NoError(t, err)

	// after o1,o2 both states score 0.128
	feed(t, e, "o1", "o2")
	dist := e.Distribution()
	assert.InDelta(t, dist["s1"], dist["s2"], 1e-12)

	seq, err := e.MostLikelySequence()
	require.NoError(t, err)
	assert.Equal(t, []string{"s1", "s1"}, seq)

	seq, err = e.SequenceEndingIn("s2")
	require.NoError(t, err)
	assert.Equal(t, []string{"s1", "s2"}, seq)

	_, err = e.SequenceEndingIn("s3")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestEngine_HistoryIsBounded(t *testing.T) {
	e, err := NewOrderedEngine[string, string](weatherModel(t), WithHistoryDepth(3))
	require.NoError(t, err)

	feed(t, e, "o1", "o1", "o1", "o1", "o1", "o1")

	assert.Len(t, e.State().History, 2)
	seq, err := e.MostLikelySequence()
	require.NoError(t, err)
	assert.Equal(t, []string{"s1", "s1", "s1"}, seq)

	for _, level := range e.State().History {
		assert.NotEmpty(t, level)
	}
	last := e.State().History[len(e.State().History)-1]
	for s := range e.State().Distribution {
		assert.Contains(t, last, s)
	}
}

func TestEngine_DepthOne(t *testing.T) {
	e, err := NewOrderedEngine[string, string](weatherModel(t), WithHistoryDepth(1))
	require.NoError(t, err)

	feed(t, e, "o1", "o2", "o2")
	assert.Empty(t, e.State().History)

	seq, err := e.MostLikelySequence()
	require.NoError(t, err)
	assert.Equal(t, []string{"s2"}, seq)
}

func TestEngine_RejectsUnknownObservation(t *testing.T) {
	e, err := NewOrderedEngine[string, string](weatherModel(t))
	require.NoError(t, err)
	feed(t, e, "o1")
	before := e.State()

	err = e.Update("o3")
	assert.ErrorIs(t, err, ErrDecodeRejected)
	assert.Equal(t, before, e.State())
	assert.Equal(t, 1, e.Steps())
}

func TestEngine_RejectsVanishingProbabilities(t *testing.T) {
	m, err := NewMatrixModel(
		[]string{"a", "b"},
		map[string]map[string]float64{"a": {"a": 1}},
		map[string]map[string]float64{"a": {"x": 1}, "b": {"y": 1}},
	)
	require.NoError(t, err)
	e, err := NewOrderedEngine[string, string](m)
	require.NoError(t, err)

	require.NoError(t, e.Update("x"))
	err = e.Update("y")
	assert.ErrorIs(t, err, ErrDecodeRejected)

	// the previous state survives and decoding can continue
	require.NoError(t, e.Update("x"))
	seq, err := e.MostLikelySequence()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "a"}, seq)
}

type failingModel struct {
	MatrixModel[int, int]
}

var errBoom = errors.New("boom")

func (failingModel) Candidates(int) ([]int, error) { return nil, errBoom }

func TestEngine_CandidateErrorIsReturned(t *testing.T) {
	e, err := NewOrderedEngine[int, int](&failingModel{})
	require.NoError(t, err)

	err = e.Update(1)
	assert.ErrorIs(t, err, errBoom)
	assert.NotErrorIs(t, err, ErrDecodeRejected)
}

func TestEngine_Reset(t *testing.T) {
	e, err := NewOrderedEngine[string, string](weatherModel(t))
	require.NoError(t, err)
	feed(t, e, "o1", "o2")

	e.Reset()
	seq, err := e.MostLikelySequence()
	require.NoError(t, err)
	assert.Empty(t, seq)
	assert.False(t, e.State().Started)

	_, err = e.MostLikelyState()
	assert.ErrorIs(t, err, ErrInvalidArgument)

	// first observation after a reset seeds again
	feed(t, e, "o2")
	seq, err = e.MostLikelySequence()
	require.NoError(t, err)
	assert.Equal(t, []string{"s2"}, seq)
}

func TestNewEngine_InvalidOptions(t *testing.T) {
	_, err := NewOrderedEngine[string, string](weatherModel(t), WithHistoryDepth(0))
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewEngine[string, string](weatherModel(t), nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewOrderedEngine[string, string](nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
