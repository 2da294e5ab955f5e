// Package render serializes a transcribed score into playable and readable
// formats: Standard MIDI File, MusicXML, and a plain-text summary.
package render

import (
	"fmt"
	"io"
	"sort"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/meloscribe/meloscribe/engine"
)

const (
	midiResolution = 480 // MIDI ticks per quarter note
	noteVelocity   = 80
	midiChannel    = 0
)

// Accidental counts for major keys by tonic pitch class; negative means flats
var majorAccidentals = [12]int{0, -5, 2, -3, 4, -1, 6, 1, -4, 3, -2, 5}

// WriteMIDI serializes the score as a single-track Standard MIDI File.
// Grid ticks are rescaled to a 480 ticks-per-quarter resolution so the file
// plays back at the score's tempo in any sequencer.
func WriteMIDI(w io.Writer, score *engine.Score) error {
	if score == nil || len(score.Notes) == 0 {
		return fmt.Errorf("score has no notes")
	}
	ticksPerBeat := score.Meta.TicksPerBeat
	if ticksPerBeat <= 0 {
		return fmt.Errorf("invalid ticks per beat %d", ticksPerBeat)
	}

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(midiResolution)

	var tr smf.Track
	tr.Add(0, smf.MetaTempo(score.Meta.Tempo))
	tr.Add(0, smf.MetaMeter(4, 4))
	if score.Meta.Key.Known {
		tr.Add(0, keyMeta(score.Meta.Key))
	}

	// Flatten note boundaries into a single ordered event stream so delta
	// times stay non-negative even when notes butt against each other
	type event struct {
		tick int
		on   bool
		key  uint8
	}
	events := make([]event, 0, 2*len(score.Notes))
	for _, n := range score.Notes {
		start := n.StartTicks * midiResolution / ticksPerBeat
		end := (n.StartTicks + n.DurationTicks) * midiResolution / ticksPerBeat
		events = append(events,
			event{tick: start, on: true, key: uint8(n.Pitch)},
			event{tick: end, on: false, key: uint8(n.Pitch)},
		)
	}
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		// Note-off first when boundaries coincide
		return !events[i].on && events[j].on
	})

	cursor := 0
	for _, ev := range events {
		delta := uint32(ev.tick - cursor)
		cursor = ev.tick
		if ev.on {
			tr.Add(delta, midi.NoteOn(midiChannel, ev.key, noteVelocity))
		} else {
			tr.Add(delta, midi.NoteOff(midiChannel, ev.key))
		}
	}
	tr.Close(0)

	if err := s.Add(tr); err != nil {
		return fmt.Errorf("adding track: %w", err)
	}
	if _, err := s.WriteTo(w); err != nil {
		return fmt.Errorf("writing MIDI: %w", err)
	}
	return nil
}

// keyMeta builds the key signature meta event. Minor keys carry the
// accidentals of their relative major.
func keyMeta(key engine.KeySignature) smf.Message {
	tonic := key.Tonic % 12
	isMajor := key.Mode == engine.KeyModeMajor

	accTonic := tonic
	if !isMajor {
		accTonic = (tonic + 3) % 12
	}
	acc := majorAccidentals[accTonic]

	isFlat := acc < 0
	num := uint8(acc)
	if isFlat {
		num = uint8(-acc)
	}
	return smf.MetaKey(uint8(tonic), isMajor, num, isFlat)
}
