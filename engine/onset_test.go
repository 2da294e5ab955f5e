package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectOnsetsIncludesStart(t *testing.T) {
	e := New(DefaultConfig())

	onsets := e.DetectOnsets(testBuffer(sineWave(440, 1.0, testRate)))
	require.NotEmpty(t, onsets)
	assert.Equal(t, 0.0, onsets[0])
}

func TestDetectOnsetsShortInput(t *testing.T) {
	e := New(DefaultConfig())

	onsets := e.DetectOnsets(testBuffer(make([]float64, 10)))
	assert.Equal(t, []float64{0}, onsets)
}

func TestDetectOnsetsStrictlyIncreasing(t *testing.T) {
	e := New(DefaultConfig())

	clip := concat(
		sineWave(440, 0.4, testRate),
		silence(0.1, testRate),
		sineWave(554.37, 0.4, testRate),
		silence(0.1, testRate),
		sineWave(659.25, 0.4, testRate),
	)

	onsets := e.DetectOnsets(testBuffer(clip))
	for i := 1; i < len(onsets); i++ {
		assert.Greater(t, onsets[i], onsets[i-1])
	}
}

func TestDetectOnsetsMinimumGap(t *testing.T) {
	e := New(DefaultConfig())

	clip := concat(
		sineWave(440, 0.5, testRate),
		silence(0.1, testRate),
		sineWave(880, 0.5, testRate),
	)

	onsets := e.DetectOnsets(testBuffer(clip))
	for i := 1; i < len(onsets); i++ {
		assert.GreaterOrEqual(t, onsets[i]-onsets[i-1], e.Config().MinOnsetGap)
	}
}

func TestDetectOnsetsFindsSecondAttack(t *testing.T) {
	e := New(DefaultConfig())

	clip := concat(
		sineWave(440, 0.5, testRate),
		silence(0.1, testRate),
		sineWave(880, 0.5, testRate),
	)

	onsets := e.DetectOnsets(testBuffer(clip))
	require.GreaterOrEqual(t, len(onsets), 2, "the second note's attack should register")

	// The second attack lands at 0.6s
	found := false
	for _, o := range onsets[1:] {
		if o > 0.55 && o < 0.66 {
			found = true
		}
	}
	assert.True(t, found, "expected an onset near 0.6s, got %v", onsets)
}

func TestDetectOnsetsSteadyToneHasFewOnsets(t *testing.T) {
	e := New(DefaultConfig())

	onsets := e.DetectOnsets(testBuffer(sineWave(440, 2.0, testRate)))
	// A held tone has no interior attacks; allow the start plus stray edges
	assert.LessOrEqual(t, len(onsets), 3)
}
