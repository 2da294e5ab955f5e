package engine

import (
	"runtime"
	"sync"
)

// TrackPitch estimates the fundamental frequency for every analysis frame.
// Output length is (len(samples)-WindowSize)/HopSize + 1, one frame per hop,
// time-ordered with constant spacing. Frames without a strong periodic
// component are reported unvoiced (Frequency 0) rather than given a
// fabricated pitch.
//
// Estimation uses the YIN difference function restricted to the configured
// frequency band; only the strongest candidate per frame is kept
// (monophonic assumption).
//
// Reference: de Cheveigné, A., Kawahara, H. (2002). "YIN, a fundamental
// frequency estimator for speech and music".
func (e *Engine) TrackPitch(buf SampleBuffer) []PitchFrame {
	window := e.cfg.WindowSize
	hop := e.cfg.HopSize

	if len(buf.Samples) < window {
		return []PitchFrame{}
	}

	numFrames := (len(buf.Samples)-window)/hop + 1
	frames := make([]PitchFrame, numFrames)

	// Frames are independent; fan out over a worker pool writing into the
	// index-addressed slice so ordering never depends on scheduling.
	numWorkers := min(runtime.NumCPU(), numFrames)
	if numWorkers < 1 {
		numWorkers = 1
	}

	jobs := make(chan int, numFrames)

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			yin := newYinFrame(window, buf.Rate, e.cfg.MinFrequency, e.cfg.MaxFrequency, e.cfg.YinThreshold)
			for idx := range jobs {
				start := idx * hop
				freq, conf := yin.estimate(buf.Samples[start : start+window])

				frame := PitchFrame{
					Time:       float64(start+window/2) / float64(buf.Rate),
					Confidence: conf,
				}
				if conf >= e.cfg.VoicingThreshold {
					frame.Frequency = freq
				}
				frames[idx] = frame
			}
		}()
	}

	for idx := 0; idx < numFrames; idx++ {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	return frames
}

// yinFrame holds the per-worker scratch state for YIN analysis
type yinFrame struct {
	rate      int
	tauMin    int
	tauMax    int
	threshold float64
	diff      []float64
	cmndf     []float64
}

func newYinFrame(windowSize, rate int, minFreq, maxFreq, threshold float64) *yinFrame {
	tauMin := int(float64(rate) / maxFreq)
	if tauMin < 2 {
		tauMin = 2
	}
	tauMax := int(float64(rate)/minFreq) + 1
	if tauMax > windowSize/2 {
		tauMax = windowSize / 2
	}

	return &yinFrame{
		rate:      rate,
		tauMin:    tauMin,
		tauMax:    tauMax,
		threshold: threshold,
		diff:      make([]float64, tauMax+1),
		cmndf:     make([]float64, tauMax+1),
	}
}

// estimate returns the frame's fundamental frequency and a periodicity
// confidence in [0,1]. Confidence is 1 - CMNDF at the chosen lag, so
// aperiodic (noise/percussive) frames score low.
func (y *yinFrame) estimate(frame []float64) (float64, float64) {
	half := len(frame) / 2

	// Difference function d(tau)
	for tau := 1; tau <= y.tauMax; tau++ {
		sum := 0.0
		for j := 0; j < half; j++ {
			delta := frame[j] - frame[j+tau]
			sum += delta * delta
		}
		y.diff[tau] = sum
	}

	// Cumulative mean normalized difference function
	y.cmndf[0] = 1.0
	runningSum := 0.0
	for tau := 1; tau <= y.tauMax; tau++ {
		runningSum += y.diff[tau]
		if runningSum > 0 {
			y.cmndf[tau] = y.diff[tau] * float64(tau) / runningSum
		} else {
			y.cmndf[tau] = 1.0
		}
	}

	// First local minimum below the acceptance threshold wins; otherwise
	// fall back to the global minimum in the search band.
	bestTau := -1
	for tau := y.tauMin; tau < y.tauMax; tau++ {
		if y.cmndf[tau] < y.threshold && y.cmndf[tau] <= y.cmndf[tau+1] {
			bestTau = tau
			break
		}
	}
	if bestTau < 0 {
		minVal := y.cmndf[y.tauMin]
		bestTau = y.tauMin
		for tau := y.tauMin + 1; tau <= y.tauMax; tau++ {
			if y.cmndf[tau] < minVal {
				minVal = y.cmndf[tau]
				bestTau = tau
			}
		}
	}

	confidence := 1.0 - y.cmndf[bestTau]
	if confidence < 0 {
		confidence = 0
	}

	period := y.refineTau(bestTau)
	freq := float64(y.rate) / period

	// Refinement can nudge the lag just outside the band; such estimates
	// are untrustworthy.
	minFreq := float64(y.rate) / float64(y.tauMax)
	maxFreq := float64(y.rate) / float64(y.tauMin)
	if freq < minFreq || freq > maxFreq {
		return 0, 0
	}

	return freq, confidence
}

// refineTau applies parabolic interpolation around the CMNDF minimum for
// sub-sample period accuracy
func (y *yinFrame) refineTau(tau int) float64 {
	if tau <= 0 || tau >= y.tauMax {
		return float64(tau)
	}

	s0 := y.cmndf[tau-1]
	s1 := y.cmndf[tau]
	s2 := y.cmndf[tau+1]

	denom := 2.0 * (s0 - 2.0*s1 + s2)
	if denom == 0 {
		return float64(tau)
	}

	adjustment := (s0 - s2) / denom
	if adjustment < -1 || adjustment > 1 {
		return float64(tau)
	}

	return float64(tau) + adjustment
}
