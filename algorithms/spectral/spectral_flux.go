package spectral

import (
	"math"
)

// SpectralFlux computes spectral flux (measure of spectral change)
type SpectralFlux struct{}

// NewSpectralFlux creates a new spectral flux calculator
func NewSpectralFlux() *SpectralFlux {
	return &SpectralFlux{}
}

// Compute calculates half-wave rectified spectral flux for a spectrogram.
// Only energy increases contribute, which makes the curve peak at note
// attacks while ignoring decays.
func (sf *SpectralFlux) Compute(spectrogram [][]float64) []float64 {
	if len(spectrogram) < 2 {
		return []float64{}
	}

	flux := make([]float64, len(spectrogram)-1)

	for t := 1; t < len(spectrogram); t++ {
		sum := 0.0
		for f := 0; f < len(spectrogram[t]); f++ {
			diff := spectrogram[t][f] - spectrogram[t-1][f]
			if diff > 0 {
				sum += diff * diff
			}
		}
		flux[t-1] = math.Sqrt(sum)
	}

	return flux
}
