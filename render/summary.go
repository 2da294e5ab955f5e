package render

import (
	"fmt"
	"io"

	"github.com/meloscribe/meloscribe/engine"
)

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// NoteName renders a MIDI note number in scientific pitch notation
func NoteName(pitch int) string {
	return fmt.Sprintf("%s%d", noteNames[pitch%12], pitch/12-1)
}

// WriteSummary prints a human-readable account of the score: the musical
// context followed by one line per note in beat units.
func WriteSummary(w io.Writer, score *engine.Score) error {
	if score == nil {
		return fmt.Errorf("no score")
	}

	tpb := score.Meta.TicksPerBeat
	fmt.Fprintf(w, "Tempo: %.1f BPM\n", score.Meta.Tempo)
	fmt.Fprintf(w, "Key: %s\n", score.Meta.Key.String())
	fmt.Fprintf(w, "Time signature: %s\n", score.Meta.TimeSignature)
	fmt.Fprintf(w, "Notes: %d\n\n", len(score.Notes))

	for i, n := range score.Notes {
		fmt.Fprintf(w, "%3d. %-4s beat %.2f for %.2f beats\n",
			i+1, NoteName(n.Pitch), n.StartBeats(tpb), n.DurationBeats(tpb))
	}

	return nil
}
