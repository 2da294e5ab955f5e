package engine

import (
	"github.com/meloscribe/meloscribe/algorithms/common"
	"github.com/meloscribe/meloscribe/logging"
)

// Krumhansl-Schmuckler key profiles, empirically derived from listener
// ratings. Index 0 is the tonic.
var (
	majorProfile = []float64{6.35, 2.23, 3.48, 2.33, 4.38, 4.09, 2.52, 5.19, 2.39, 3.66, 2.29, 2.88}
	minorProfile = []float64{6.33, 2.68, 3.52, 5.38, 2.60, 3.53, 2.54, 4.75, 3.98, 2.69, 3.34, 3.17}
)

// ResolveKey estimates the key of a quantized note sequence. A
// duration-weighted pitch-class histogram is correlated against all 24
// rotated major and minor profiles; the best-scoring rotation wins. When the
// best correlation falls below MinKeyConfidence the key is reported as
// unknown rather than guessed.
func (e *Engine) ResolveKey(notes []QuantizedNote) KeySignature {
	if len(notes) == 0 {
		return KeySignature{}
	}

	histogram := make([]float64, 12)
	for _, n := range notes {
		histogram[n.Pitch%12] += float64(n.DurationTicks)
	}

	best := KeySignature{Confidence: -1}
	rotated := make([]float64, 12)

	for tonic := 0; tonic < 12; tonic++ {
		for i := 0; i < 12; i++ {
			rotated[i] = majorProfile[(i-tonic+12)%12]
		}
		if r := common.Correlation(histogram, rotated); r > best.Confidence {
			best = KeySignature{Tonic: tonic, Mode: KeyModeMajor, Confidence: r}
		}

		for i := 0; i < 12; i++ {
			rotated[i] = minorProfile[(i-tonic+12)%12]
		}
		if r := common.Correlation(histogram, rotated); r > best.Confidence {
			best = KeySignature{Tonic: tonic, Mode: KeyModeMinor, Confidence: r}
		}
	}

	best.Known = best.Confidence >= e.cfg.MinKeyConfidence

	e.log.Debug("key resolved", logging.Fields{
		"key":        best.String(),
		"confidence": best.Confidence,
	})

	return best
}
