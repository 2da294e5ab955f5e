package filters

import (
	"math"
)

// DCRemoval implements a single-pole DC blocking / rumble high-pass filter.
//
// Difference equation:
// y[n] = x[n] - x[n-1] + R * y[n-1]
//
// Reference:
//   - Julius O. Smith III, "Introduction to Digital Filters with Audio Applications"
//     https://ccrma.stanford.edu/~jos/filters/DC_Blocker.html
type DCRemoval struct {
	poleLocation float64 // R parameter (0 < R < 1)

	// State variables
	x1 float64 // Previous input sample x[n-1]
	y1 float64 // Previous output sample y[n-1]
}

// NewDCRemoval creates a DC removal filter with the standard pole location
// of 0.995 (cutoff around 8 Hz at 44.1 kHz).
func NewDCRemoval() *DCRemoval {
	return &DCRemoval{poleLocation: 0.995}
}

// NewDCRemovalWithCutoff creates a DC removal filter for the desired -3dB
// cutoff frequency. Uses R = 1 - 2*pi*fc/fs, valid for fc << fs/2.
func NewDCRemovalWithCutoff(sampleRate int, cutoffFreq float64) *DCRemoval {
	dc := &DCRemoval{poleLocation: 0.995}
	if sampleRate > 0 && cutoffFreq > 0 {
		r := 1.0 - (2.0 * math.Pi * cutoffFreq / float64(sampleRate))
		if r >= 1.0 {
			r = 0.999
		} else if r <= 0.0 {
			r = 0.001
		}
		dc.poleLocation = r
	}
	return dc
}

// Process applies DC removal to a single sample
func (dc *DCRemoval) Process(input float64) float64 {
	output := input - dc.x1 + dc.poleLocation*dc.y1
	dc.x1 = input
	dc.y1 = output
	return output
}

// ProcessBuffer applies DC removal to an entire buffer of samples
func (dc *DCRemoval) ProcessBuffer(input []float64) []float64 {
	output := make([]float64, len(input))
	for i, sample := range input {
		output[i] = dc.Process(sample)
	}
	return output
}

// Reset clears the filter's internal state.
// Call this when processing discontinuous audio segments.
func (dc *DCRemoval) Reset() {
	dc.x1 = 0.0
	dc.y1 = 0.0
}

// GetCutoffFrequency calculates the approximate -3dB cutoff frequency
func (dc *DCRemoval) GetCutoffFrequency(sampleRate int) float64 {
	if sampleRate <= 0 {
		return 0.0
	}
	return (1.0 - dc.poleLocation) * float64(sampleRate) / (2.0 * math.Pi)
}
