package engine

import (
	"github.com/meloscribe/meloscribe/algorithms/common"
	"github.com/meloscribe/meloscribe/algorithms/spectral"
	"github.com/meloscribe/meloscribe/algorithms/windowing"
	"github.com/meloscribe/meloscribe/logging"
)

// DetectOnsets locates note-attack times in a conditioned clip. The novelty
// curve is half-wave rectified spectral flux; a peak counts as an onset when
// it clears a rolling adaptive threshold (local mean plus a sensitivity
// multiple of the local deviation) and sits at least MinOnsetGap after the
// previous accepted onset.
//
// The clip start is always reported as an onset: conditioning trims leading
// silence, so audio begins at t=0 whether or not the flux curve spikes there.
// Returned times are strictly increasing.
func (e *Engine) DetectOnsets(buf SampleBuffer) []float64 {
	onsets := []float64{0}

	windowSize := e.cfg.OnsetWindowSize
	hopSize := e.cfg.HopSize
	if len(buf.Samples) < windowSize {
		return onsets
	}

	window := windowing.NewHann(windowSize, true)
	stft := spectral.NewSTFT()
	result, err := stft.ComputeWithWindow(buf.Samples, windowSize, hopSize, buf.Rate, window)
	if err != nil {
		e.log.Warn("onset analysis failed", logging.Fields{"error": err.Error()})
		return onsets
	}

	flux := spectral.NewSpectralFlux().Compute(result.Magnitude)
	if len(flux) == 0 {
		return onsets
	}

	hopSec := float64(hopSize) / float64(buf.Rate)
	contextFrames := int(e.cfg.OnsetContext / hopSec)
	if contextFrames < 1 {
		contextFrames = 1
	}

	lastOnset := 0.0
	for i := 1; i < len(flux)-1; i++ {
		if flux[i] <= flux[i-1] || flux[i] < flux[i+1] {
			continue
		}

		lo := i - contextFrames
		if lo < 0 {
			lo = 0
		}
		hi := i + contextFrames + 1
		if hi > len(flux) {
			hi = len(flux)
		}
		local := flux[lo:hi]
		threshold := common.Mean(local) + e.cfg.OnsetSensitivity*common.StandardDeviation(local)

		if flux[i] <= threshold {
			continue
		}

		// flux[i] compares frames i and i+1, so the attack lands at frame i+1
		t := float64(i+1) * hopSec
		if t-lastOnset < e.cfg.MinOnsetGap {
			continue
		}

		onsets = append(onsets, t)
		lastOnset = t
	}

	e.log.Debug("onsets detected", logging.Fields{"count": len(onsets)})
	return onsets
}
