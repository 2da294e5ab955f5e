package engine

import (
	"math"

	"github.com/meloscribe/meloscribe/logging"
)

// EstimateTempo derives a global tempo from onset times using an
// inter-onset-interval histogram. Each interval votes for its direct BPM
// and, with reduced weight, for integer multiples and divisors, so a melody
// of mixed note values still converges on the underlying beat. The winning
// bin's value is refined as the weighted mean of the votes that landed in it.
//
// Fails with ErrInsufficientOnsets when fewer than two onsets are supplied.
// The result is clamped to [MinTempo, MaxTempo].
func (e *Engine) EstimateTempo(onsets []float64) (float64, error) {
	if len(onsets) < 2 {
		return 0, stageError("tempo", ErrInsufficientOnsets,
			"%d onsets detected, need at least 2", len(onsets))
	}

	minBPM := e.cfg.MinTempo
	maxBPM := e.cfg.MaxTempo
	numBins := int(maxBPM-minBPM) + 1

	weights := make([]float64, numBins)
	weightedBPM := make([]float64, numBins)

	vote := func(bpm, weight float64) {
		if bpm < minBPM || bpm > maxBPM {
			return
		}
		bin := int(bpm - minBPM)
		if bin >= numBins {
			bin = numBins - 1
		}
		weights[bin] += weight
		weightedBPM[bin] += weight * bpm
	}

	for i := 1; i < len(onsets); i++ {
		ioi := onsets[i] - onsets[i-1]
		if ioi <= 0 {
			continue
		}
		base := 60.0 / ioi

		// The direct reading gets full weight; harmonically related
		// tempos get progressively less so the true beat dominates.
		vote(base, 1.0)
		for m := 2.0; m <= 4.0; m++ {
			vote(base*m, 1.0/(2.0*m))
			vote(base/m, 1.0/(2.0*m))
		}
	}

	best := -1
	for bin := range weights {
		if weights[bin] <= 0 {
			continue
		}
		if best < 0 || weights[bin] > weights[best] {
			best = bin
			continue
		}
		// On an exact tie prefer the bin whose refined value lies closer
		// to a whole BPM; performed music clusters around round tempos.
		if weights[bin] == weights[best] {
			cand := weightedBPM[bin] / weights[bin]
			cur := weightedBPM[best] / weights[best]
			if roundDistance(cand) < roundDistance(cur) {
				best = bin
			}
		}
	}
	if best < 0 {
		return 0, stageError("tempo", ErrInsufficientOnsets,
			"no inter-onset interval maps into the %.0f-%.0f BPM range", minBPM, maxBPM)
	}

	tempo := weightedBPM[best] / weights[best]
	if tempo < minBPM {
		tempo = minBPM
	}
	if tempo > maxBPM {
		tempo = maxBPM
	}

	e.log.Debug("tempo estimated", logging.Fields{
		"tempo":  tempo,
		"onsets": len(onsets),
	})

	return tempo, nil
}

// roundDistance measures how far a BPM value sits from the nearest integer
func roundDistance(bpm float64) float64 {
	return math.Abs(bpm - math.Round(bpm))
}
