package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clickOnsets(interval float64, count int) []float64 {
	onsets := make([]float64, count)
	for i := range onsets {
		onsets[i] = float64(i) * interval
	}
	return onsets
}

func TestEstimateTempoClickTrack(t *testing.T) {
	e := New(DefaultConfig())

	tempo, err := e.EstimateTempo(clickOnsets(0.5, 9))
	require.NoError(t, err)
	assert.InDelta(t, 120, tempo, 2)
}

func TestEstimateTempoSlowClickTrack(t *testing.T) {
	e := New(DefaultConfig())

	tempo, err := e.EstimateTempo(clickOnsets(1.0, 9))
	require.NoError(t, err)
	assert.InDelta(t, 60, tempo, 2)
}

func TestEstimateTempoMixedNoteValues(t *testing.T) {
	e := New(DefaultConfig())

	// Quarter notes at 120 BPM with a pair of half notes mixed in
	onsets := []float64{0, 0.5, 1.0, 1.5, 2.5, 3.0, 3.5, 4.5, 5.0}
	tempo, err := e.EstimateTempo(onsets)
	require.NoError(t, err)
	assert.InDelta(t, 120, tempo, 2)
}

func TestEstimateTempoTooFewOnsets(t *testing.T) {
	e := New(DefaultConfig())

	_, err := e.EstimateTempo([]float64{0})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInsufficientOnsets))

	var stageErr *StageError
	require.True(t, errors.As(err, &stageErr))
	assert.Equal(t, "tempo", stageErr.Stage)

	_, err = e.EstimateTempo(nil)
	assert.True(t, errors.Is(err, ErrInsufficientOnsets))
}

func TestEstimateTempoWithinRange(t *testing.T) {
	e := New(DefaultConfig())
	cfg := e.Config()

	cases := [][]float64{
		clickOnsets(0.2, 10),  // 300 BPM direct, must fold into range
		clickOnsets(2.0, 5),   // 30 BPM direct, must fold into range
		clickOnsets(0.31, 12), // awkward interval
	}

	for _, onsets := range cases {
		tempo, err := e.EstimateTempo(onsets)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, tempo, cfg.MinTempo)
		assert.LessOrEqual(t, tempo, cfg.MaxTempo)
	}
}

func TestEstimateTempoDeterministic(t *testing.T) {
	e := New(DefaultConfig())
	onsets := []float64{0, 0.48, 1.02, 1.49, 2.01, 2.52}

	first, err := e.EstimateTempo(onsets)
	require.NoError(t, err)
	second, err := e.EstimateTempo(onsets)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
