package engine

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConditionSilentInput(t *testing.T) {
	e := New(DefaultConfig())

	_, err := e.Condition(testBuffer(silence(2.0, testRate)))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptyAudio))

	var stageErr *StageError
	require.True(t, errors.As(err, &stageErr))
	assert.Equal(t, "condition", stageErr.Stage)
}

func TestConditionEmptyBuffer(t *testing.T) {
	e := New(DefaultConfig())

	_, err := e.Condition(SampleBuffer{Rate: testRate})
	assert.True(t, errors.Is(err, ErrEmptyAudio))

	_, err = e.Condition(SampleBuffer{Samples: []float64{0.1, 0.2}, Rate: 0})
	assert.True(t, errors.Is(err, ErrEmptyAudio))
}

func TestConditionRejectsNonFiniteSamples(t *testing.T) {
	e := New(DefaultConfig())

	samples := sineWave(440, 1.0, testRate)
	samples[100] = math.NaN()

	_, err := e.Condition(testBuffer(samples))
	assert.True(t, errors.Is(err, ErrEmptyAudio))
}

func TestConditionNormalizesPeak(t *testing.T) {
	e := New(DefaultConfig())

	quiet := sineWave(440, 1.0, testRate)
	for i := range quiet {
		quiet[i] *= 0.1
	}

	out, err := e.Condition(testBuffer(quiet))
	require.NoError(t, err)

	peak := 0.0
	for _, s := range out.Samples {
		if a := math.Abs(s); a > peak {
			peak = a
		}
	}
	assert.InDelta(t, e.Config().NormalizePeak, peak, 0.01)
}

func TestConditionResamples(t *testing.T) {
	e := New(DefaultConfig())

	rate := 44100
	n := int(1.0 * float64(rate))
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = 0.6 * math.Sin(2*math.Pi*440*float64(i)/float64(rate))
	}

	out, err := e.Condition(SampleBuffer{Samples: samples, Rate: rate})
	require.NoError(t, err)
	assert.Equal(t, e.Config().AnalysisRate, out.Rate)
	assert.InDelta(t, 1.0, out.Duration(), 0.05)
}

func TestConditionTrimsEdgeSilence(t *testing.T) {
	e := New(DefaultConfig())

	clip := concat(
		silence(0.5, testRate),
		sineWave(440, 1.0, testRate),
		silence(0.5, testRate),
	)

	out, err := e.Condition(testBuffer(clip))
	require.NoError(t, err)
	assert.Less(t, out.Duration(), 1.2)
	assert.Greater(t, out.Duration(), 0.8)
}

func TestConditionKeepsInteriorSilence(t *testing.T) {
	e := New(DefaultConfig())

	clip := concat(
		sineWave(440, 0.5, testRate),
		silence(0.3, testRate),
		sineWave(440, 0.5, testRate),
	)

	out, err := e.Condition(testBuffer(clip))
	require.NoError(t, err)
	// The interior rest must survive; only edges are trimmed
	assert.InDelta(t, 1.3, out.Duration(), 0.1)
}
