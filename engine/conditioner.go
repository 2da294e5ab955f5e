package engine

import (
	"github.com/meloscribe/meloscribe/algorithms/common"
	"github.com/meloscribe/meloscribe/algorithms/filters"
	"github.com/meloscribe/meloscribe/algorithms/temporal"
	"github.com/meloscribe/meloscribe/logging"
)

// Condition normalizes a raw clip for analysis: resamples to the fixed
// analysis rate, removes low-frequency rumble, trims leading and trailing
// silence, and scales the peak amplitude to a fixed target. Interior
// silence is preserved; it carries rests.
//
// Fails with ErrEmptyAudio when less than one analysis window of signal
// survives trimming.
func (e *Engine) Condition(raw SampleBuffer) (SampleBuffer, error) {
	if err := raw.Validate(); err != nil {
		return SampleBuffer{}, stageError("condition", ErrEmptyAudio, "invalid input buffer: %v", err)
	}

	samples := raw.Samples
	if raw.Rate != e.cfg.AnalysisRate {
		interp := common.NewInterpolator()
		samples = interp.ResampleSignal(samples, raw.Rate, e.cfg.AnalysisRate)
		e.log.Debug("resampled input", logging.Fields{
			"from_rate": raw.Rate,
			"to_rate":   e.cfg.AnalysisRate,
		})
	}

	if e.cfg.HighPassCutoff > 0 {
		dc := filters.NewDCRemovalWithCutoff(e.cfg.AnalysisRate, e.cfg.HighPassCutoff)
		samples = dc.ProcessBuffer(samples)
	}

	samples = e.trimEdgeSilence(samples)

	if len(samples) < e.cfg.WindowSize {
		return SampleBuffer{}, stageError("condition", ErrEmptyAudio,
			"%d samples remain after silence trimming, need at least %d", len(samples), e.cfg.WindowSize)
	}

	// Peak-normalize so downstream thresholds are level-independent
	peak := common.MaxAbs(samples)
	if peak > 0 {
		scale := e.cfg.NormalizePeak / peak
		normalized := make([]float64, len(samples))
		for i, s := range samples {
			normalized[i] = s * scale
		}
		samples = normalized
	}

	return SampleBuffer{Samples: samples, Rate: e.cfg.AnalysisRate}, nil
}

// trimEdgeSilence removes silence from the very start and end of the clip.
// A frame is silent when its RMS stays below SilenceRatio of the clip's
// peak frame RMS; edges are only trimmed when the silent run lasts longer
// than MinSilence.
func (e *Engine) trimEdgeSilence(samples []float64) []float64 {
	rate := e.cfg.AnalysisRate
	frameSize := rate / 40 // 25ms frames
	hopSize := frameSize / 2

	env := temporal.NewEnvelope().ComputeRMS(samples, frameSize, hopSize)
	if len(env) == 0 {
		return samples
	}

	// Below this RMS the clip carries no signal at all; the relative
	// threshold alone would keep arbitrarily quiet noise alive.
	const silenceFloor = 1e-5

	peak := common.Max(env)
	if peak <= silenceFloor {
		return samples[:0]
	}
	threshold := e.cfg.SilenceRatio * peak

	first := len(env)
	last := -1
	for i, v := range env {
		if v >= threshold {
			if i < first {
				first = i
			}
			last = i
		}
	}
	if last < 0 {
		// Entire clip sits below the silence floor
		return samples[:0]
	}

	hopSec := float64(hopSize) / float64(rate)
	minFrames := int(e.cfg.MinSilence / hopSec)

	start := 0
	if first >= minFrames {
		start = first * hopSize
	}

	end := len(samples)
	trailing := len(env) - 1 - last
	if trailing >= minFrames {
		end = last*hopSize + frameSize
		if end > len(samples) {
			end = len(samples)
		}
	}

	return samples[start:end]
}
