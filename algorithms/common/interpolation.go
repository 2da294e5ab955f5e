package common

// Interpolator provides sample-accurate signal interpolation
type Interpolator struct{}

// NewInterpolator creates a new linear interpolator
func NewInterpolator() *Interpolator {
	return &Interpolator{}
}

// Interpolate returns the linearly interpolated value at a fractional index
func (interp *Interpolator) Interpolate(data []float64, index float64) float64 {
	if len(data) == 0 {
		return 0
	}
	if index <= 0 {
		return data[0]
	}
	if index >= float64(len(data)-1) {
		return data[len(data)-1]
	}

	i := int(index)
	frac := index - float64(i)
	return data[i]*(1.0-frac) + data[i+1]*frac
}

// ResampleSignal converts a signal from one sample rate to another using
// linear interpolation. Returns the input unchanged when rates match.
func (interp *Interpolator) ResampleSignal(signal []float64, originalRate, targetRate int) []float64 {
	if originalRate == targetRate || len(signal) == 0 || originalRate <= 0 || targetRate <= 0 {
		result := make([]float64, len(signal))
		copy(result, signal)
		return result
	}

	ratio := float64(originalRate) / float64(targetRate)
	newLength := int(float64(len(signal)) / ratio)
	if newLength < 1 {
		newLength = 1
	}

	resampled := make([]float64, newLength)
	for i := range resampled {
		resampled[i] = interp.Interpolate(signal, float64(i)*ratio)
	}

	return resampled
}
