package engine

import (
	"math"

	"github.com/meloscribe/meloscribe/logging"
)

// Quantize snaps note candidates to the musical grid implied by the tempo.
// Pitch becomes the nearest equal-tempered MIDI note; start and duration
// snap to the nearest grid tick (TicksPerBeat ticks per beat, round half
// up). Notes quantized to zero length are bumped to one tick, and starts
// that collide after snapping are pushed forward so tick starts stay
// strictly increasing.
func (e *Engine) Quantize(candidates []NoteCandidate, tempoBPM float64) []QuantizedNote {
	if len(candidates) == 0 || tempoBPM <= 0 {
		return []QuantizedNote{}
	}

	ticksPerSecond := tempoBPM / 60.0 * float64(e.cfg.TicksPerBeat)

	notes := make([]QuantizedNote, 0, len(candidates))
	for _, cand := range candidates {
		pitch := int(math.Round(cand.MIDIPitch()))
		if pitch < 0 {
			pitch = 0
		}
		if pitch > 127 {
			pitch = 127
		}

		start := roundHalfUp(cand.Start * ticksPerSecond)
		end := roundHalfUp(cand.End * ticksPerSecond)

		duration := end - start
		if duration < 1 {
			// The note is real; never let grid snapping erase it
			duration = 1
		}

		if n := len(notes); n > 0 {
			prev := &notes[n-1]
			if start <= prev.StartTicks {
				start = prev.StartTicks + 1
			}
			// Monophonic output: a note ends no later than its successor starts
			if prevEnd := prev.StartTicks + prev.DurationTicks; prevEnd > start {
				prev.DurationTicks = start - prev.StartTicks
			}
		}

		notes = append(notes, QuantizedNote{
			Pitch:         pitch,
			StartTicks:    start,
			DurationTicks: duration,
		})
	}

	e.log.Debug("quantization complete", logging.Fields{
		"notes": len(notes),
		"tempo": tempoBPM,
	})

	return notes
}

// roundHalfUp rounds to the nearest integer with exact halves rounding up
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
