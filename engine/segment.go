package engine

import (
	"math"

	"github.com/meloscribe/meloscribe/logging"
)

// Segment partitions the clip into note candidates using onsets as note
// boundaries. Each inter-onset interval becomes at most one candidate: the
// interval must be voiced for at least MinVoicedCoverage of its frames, its
// pitch is the semitone mode of the voiced frames (refined to their mean
// frequency within that semitone), and candidates shorter than
// MinNoteDuration merge into an adjacent same-pitch neighbor or drop.
//
// Intervals that fail the coverage test produce no candidate; the gap
// becomes a rest in the final score.
func (e *Engine) Segment(frames []PitchFrame, onsets []float64, duration float64) []NoteCandidate {
	if len(frames) == 0 || len(onsets) == 0 {
		return []NoteCandidate{}
	}

	bounds := make([]float64, 0, len(onsets)+1)
	bounds = append(bounds, onsets...)
	if duration > bounds[len(bounds)-1] {
		bounds = append(bounds, duration)
	}

	candidates := make([]NoteCandidate, 0, len(bounds))
	frameIdx := 0
	for i := 0; i+1 < len(bounds); i++ {
		start, end := bounds[i], bounds[i+1]

		// Frames are time-ordered, so each interval consumes a contiguous run
		lo := frameIdx
		for lo < len(frames) && frames[lo].Time < start {
			lo++
		}
		hi := lo
		for hi < len(frames) && frames[hi].Time < end {
			hi++
		}
		frameIdx = hi

		if cand, ok := e.intervalCandidate(frames[lo:hi], start, end); ok {
			candidates = append(candidates, cand)
		}
	}

	candidates = e.mergeShortCandidates(candidates)

	e.log.Debug("segmentation complete", logging.Fields{
		"intervals":  len(bounds) - 1,
		"candidates": len(candidates),
	})

	return candidates
}

// intervalCandidate builds a single note candidate from the frames inside
// one inter-onset interval, or reports the interval as a rest
func (e *Engine) intervalCandidate(frames []PitchFrame, start, end float64) (NoteCandidate, bool) {
	if len(frames) == 0 {
		return NoteCandidate{}, false
	}

	voiced := make([]PitchFrame, 0, len(frames))
	for _, f := range frames {
		if f.Voiced() {
			voiced = append(voiced, f)
		}
	}

	coverage := float64(len(voiced)) / float64(len(frames))
	if coverage < e.cfg.MinVoicedCoverage {
		return NoteCandidate{}, false
	}

	// Representative pitch: the modal semitone, then the mean frequency of
	// the frames in that semitone. A brief octave glitch cannot drag the
	// pitch the way a plain average would.
	counts := make(map[int]int, len(voiced))
	for _, f := range voiced {
		counts[int(math.Round(hzToMIDI(f.Frequency)))]++
	}
	modal, modalCount := 0, 0
	for semitone, n := range counts {
		if n > modalCount || (n == modalCount && semitone < modal) {
			modal, modalCount = semitone, n
		}
	}

	freqSum, confSum := 0.0, 0.0
	inMode := 0
	for _, f := range voiced {
		confSum += f.Confidence
		if int(math.Round(hzToMIDI(f.Frequency))) == modal {
			freqSum += f.Frequency
			inMode++
		}
	}
	if inMode == 0 {
		return NoteCandidate{}, false
	}

	return NoteCandidate{
		Frequency:  freqSum / float64(inMode),
		Start:      start,
		End:        end,
		Confidence: confSum / float64(len(voiced)),
	}, true
}

// mergeShortCandidates absorbs sub-minimum candidates into the following
// candidate when it sits within a semitone; otherwise the short candidate is
// dropped as a transient artifact
func (e *Engine) mergeShortCandidates(candidates []NoteCandidate) []NoteCandidate {
	out := make([]NoteCandidate, 0, len(candidates))

	for i := 0; i < len(candidates); i++ {
		cand := candidates[i]
		if cand.Duration() >= e.cfg.MinNoteDuration {
			out = append(out, cand)
			continue
		}

		if i+1 < len(candidates) && sameSemitone(cand, candidates[i+1]) {
			candidates[i+1].Start = cand.Start
			continue
		}
		// Too short and nothing to merge into
	}

	return out
}

func sameSemitone(a, b NoteCandidate) bool {
	return int(math.Round(a.MIDIPitch())) == int(math.Round(b.MIDIPitch()))
}
