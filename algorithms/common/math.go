package common

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Mean calculates the arithmetic mean of a slice
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// StandardDeviation calculates the population standard deviation
func StandardDeviation(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	mean := stat.Mean(data, nil)
	sum := 0.0
	for _, v := range data {
		diff := v - mean
		sum += diff * diff
	}
	return math.Sqrt(sum / float64(len(data)))
}

// RMS calculates the root mean square of a slice
func RMS(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range data {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(data)))
}

// MaxAbs returns the largest absolute value in a slice
func MaxAbs(data []float64) float64 {
	maxVal := 0.0
	for _, v := range data {
		if abs := math.Abs(v); abs > maxVal {
			maxVal = abs
		}
	}
	return maxVal
}

// Max returns the largest value in a slice (0 for empty input)
func Max(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return floats.Max(data)
}

// Correlation calculates the Pearson correlation coefficient between two
// equal-length slices. Returns 0 when either slice has no variance.
func Correlation(x, y []float64) float64 {
	if len(x) != len(y) || len(x) < 2 {
		return 0
	}
	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) {
		return 0
	}
	return r
}

// MovingAverage smooths data with a centered moving average window
func MovingAverage(data []float64, windowSize int) []float64 {
	if len(data) == 0 || windowSize <= 1 {
		result := make([]float64, len(data))
		copy(result, data)
		return result
	}

	result := make([]float64, len(data))
	half := windowSize / 2

	for i := range data {
		start := i - half
		if start < 0 {
			start = 0
		}
		end := i + half + 1
		if end > len(data) {
			end = len(data)
		}
		result[i] = Mean(data[start:end])
	}

	return result
}

// MedianFilter applies a median filter with the given window size
func MedianFilter(data []float64, windowSize int) []float64 {
	if len(data) == 0 || windowSize <= 1 {
		result := make([]float64, len(data))
		copy(result, data)
		return result
	}

	result := make([]float64, len(data))
	half := windowSize / 2
	window := make([]float64, 0, windowSize)

	for i := range data {
		start := i - half
		if start < 0 {
			start = 0
		}
		end := i + half + 1
		if end > len(data) {
			end = len(data)
		}

		window = window[:0]
		window = append(window, data[start:end]...)
		sort.Float64s(window)
		result[i] = window[len(window)/2]
	}

	return result
}

// Clamp constrains a value to the range [min, max]
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
