package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMean(t *testing.T) {
	assert.Equal(t, 2.0, Mean([]float64{1, 2, 3}))
	assert.Equal(t, 0.0, Mean(nil))
}

func TestStandardDeviation(t *testing.T) {
	assert.InDelta(t, 2.0, StandardDeviation([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 1e-9)
	assert.Equal(t, 0.0, StandardDeviation([]float64{5}))
}

func TestRMS(t *testing.T) {
	assert.InDelta(t, 5.0, RMS([]float64{3, 4, 3, -4, -3, 4, 3, -4}), 1e-9)
	assert.Equal(t, 0.0, RMS(nil))
}

func TestMaxAbs(t *testing.T) {
	assert.Equal(t, 7.0, MaxAbs([]float64{3, -7, 5}))
	assert.Equal(t, 0.0, MaxAbs(nil))
}

func TestMax(t *testing.T) {
	assert.Equal(t, 5.0, Max([]float64{3, -7, 5}))
	assert.Equal(t, 0.0, Max(nil))
}

func TestCorrelation(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	y := []float64{2, 4, 6, 8, 10}
	assert.InDelta(t, 1.0, Correlation(x, y), 1e-9)

	inv := []float64{10, 8, 6, 4, 2}
	assert.InDelta(t, -1.0, Correlation(x, inv), 1e-9)

	flat := []float64{3, 3, 3, 3, 3}
	assert.Equal(t, 0.0, Correlation(x, flat))

	assert.Equal(t, 0.0, Correlation(x, []float64{1, 2}))
}

func TestMovingAverage(t *testing.T) {
	out := MovingAverage([]float64{1, 2, 3, 4, 5}, 3)
	assert.InDelta(t, 2.0, out[1], 1e-9)
	assert.InDelta(t, 3.0, out[2], 1e-9)

	passthrough := MovingAverage([]float64{1, 2, 3}, 1)
	assert.Equal(t, []float64{1, 2, 3}, passthrough)
}

func TestMedianFilter(t *testing.T) {
	// A lone spike should be suppressed
	out := MedianFilter([]float64{1, 1, 9, 1, 1}, 3)
	assert.Equal(t, 1.0, out[2])
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.5, Clamp(0.5, 0, 1))
	assert.Equal(t, 0.0, Clamp(-2, 0, 1))
	assert.Equal(t, 1.0, Clamp(3, 0, 1))
}
