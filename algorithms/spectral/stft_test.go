package spectral

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meloscribe/meloscribe/algorithms/windowing"
)

func sine(freq float64, n, rate int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Sin(2 * math.Pi * freq * float64(i) / float64(rate))
	}
	return out
}

func TestSTFTDimensions(t *testing.T) {
	stft := NewSTFT()
	signal := sine(440, 22050, 22050)

	result, err := stft.ComputeWithWindow(signal, 1024, 256, 22050, windowing.NewHann(1024, true))
	require.NoError(t, err)

	wantFrames := (len(signal)-1024)/256 + 1
	assert.Equal(t, wantFrames, result.TimeFrames)
	assert.Equal(t, 513, result.FreqBins)
	assert.Len(t, result.Magnitude, wantFrames)
	assert.Len(t, result.Magnitude[0], 513)
}

func TestSTFTPeakBin(t *testing.T) {
	stft := NewSTFT()
	rate := 22050
	signal := sine(1000, rate, rate)

	result, err := stft.ComputeWithWindow(signal, 1024, 256, rate, windowing.NewHann(1024, true))
	require.NoError(t, err)

	// The dominant bin of a mid-frame spectrum should sit near 1000 Hz
	frame := result.Magnitude[result.TimeFrames/2]
	peakBin := 0
	for i, m := range frame {
		if m > frame[peakBin] {
			peakBin = i
		}
	}
	peakFreq := float64(peakBin) * result.FreqResolution
	assert.InDelta(t, 1000, peakFreq, result.FreqResolution*1.5)
}

func TestSTFTDeterministic(t *testing.T) {
	stft := NewSTFT()
	signal := sine(523, 11025, 22050)
	window := windowing.NewHann(512, true)

	first, err := stft.ComputeWithWindow(signal, 512, 128, 22050, window)
	require.NoError(t, err)
	second, err := stft.ComputeWithWindow(signal, 512, 128, 22050, window)
	require.NoError(t, err)

	assert.Equal(t, first.Magnitude, second.Magnitude)
}

func TestSTFTInvalidInputs(t *testing.T) {
	stft := NewSTFT()

	_, err := stft.ComputeWithWindow(nil, 1024, 256, 22050, nil)
	assert.Error(t, err)

	_, err = stft.ComputeWithWindow(sine(440, 4096, 22050), 0, 256, 22050, nil)
	assert.Error(t, err)

	_, err = stft.ComputeWithWindow(sine(440, 4096, 22050), 1024, 0, 22050, nil)
	assert.Error(t, err)

	_, err = stft.ComputeWithWindow(sine(440, 100, 22050), 1024, 256, 22050, nil)
	assert.Error(t, err)
}
