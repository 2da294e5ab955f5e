package engine

import (
	"fmt"
	"math"
)

// SampleBuffer is a mono PCM clip: amplitude samples plus their sample rate.
type SampleBuffer struct {
	Samples []float64 `json:"-"`
	Rate    int       `json:"rate"`
}

// Duration returns the clip length in seconds
func (b SampleBuffer) Duration() float64 {
	if b.Rate <= 0 {
		return 0
	}
	return float64(len(b.Samples)) / float64(b.Rate)
}

// Validate checks the buffer invariants: non-empty, positive rate, finite samples
func (b SampleBuffer) Validate() error {
	if len(b.Samples) == 0 {
		return fmt.Errorf("buffer has no samples")
	}
	if b.Rate <= 0 {
		return fmt.Errorf("invalid sample rate %d", b.Rate)
	}
	for i, s := range b.Samples {
		if math.IsNaN(s) || math.IsInf(s, 0) {
			return fmt.Errorf("non-finite sample at index %d", i)
		}
	}
	return nil
}

// PitchFrame is one fundamental-frequency estimate on the analysis grid.
// Frequency 0 marks an unvoiced frame; no sentinel frequencies are used.
type PitchFrame struct {
	Time       float64 `json:"time"`       // frame center, seconds
	Frequency  float64 `json:"frequency"`  // Hz, 0 when unvoiced
	Confidence float64 `json:"confidence"` // voicing confidence (0-1)
}

// Voiced reports whether the frame carries a usable pitch estimate
func (f PitchFrame) Voiced() bool {
	return f.Frequency > 0
}

// NoteCandidate is a segmented note before quantization
type NoteCandidate struct {
	Frequency  float64 `json:"frequency"`  // representative pitch, Hz
	Start      float64 `json:"start"`      // seconds
	End        float64 `json:"end"`        // seconds, > Start
	Confidence float64 `json:"confidence"` // mean voicing confidence
}

// Duration returns the candidate length in seconds
func (n NoteCandidate) Duration() float64 {
	return n.End - n.Start
}

// MIDIPitch returns the candidate's pitch as a continuous MIDI note number
func (n NoteCandidate) MIDIPitch() float64 {
	return hzToMIDI(n.Frequency)
}

// QuantizedNote is a note snapped to the musical grid. Times are stored as
// integer grid ticks so quantized values stay exact; the tick resolution is
// ScoreMetadata.TicksPerBeat.
type QuantizedNote struct {
	Pitch         int `json:"pitch"`          // MIDI note number (0-127)
	StartTicks    int `json:"start_ticks"`    // grid ticks from beat zero
	DurationTicks int `json:"duration_ticks"` // grid ticks, always > 0
}

// StartBeats converts the start position to beats
func (n QuantizedNote) StartBeats(ticksPerBeat int) float64 {
	return float64(n.StartTicks) / float64(ticksPerBeat)
}

// DurationBeats converts the duration to beats
func (n QuantizedNote) DurationBeats(ticksPerBeat int) float64 {
	return float64(n.DurationTicks) / float64(ticksPerBeat)
}

// KeyMode represents major or minor mode
type KeyMode int

const (
	KeyModeMajor KeyMode = iota
	KeyModeMinor
)

func (m KeyMode) String() string {
	if m == KeyModeMinor {
		return "minor"
	}
	return "major"
}

var pitchClassNames = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// KeySignature is the resolved key of a score. Known is false when no key
// profile scored above the confidence floor.
type KeySignature struct {
	Tonic      int     `json:"tonic"` // pitch class (0=C .. 11=B)
	Mode       KeyMode `json:"mode"`
	Confidence float64 `json:"confidence"`
	Known      bool    `json:"known"`
}

func (k KeySignature) String() string {
	if !k.Known {
		return "unknown"
	}
	return pitchClassNames[k.Tonic%12] + " " + k.Mode.String()
}

// ScoreMetadata carries the global musical context of a score
type ScoreMetadata struct {
	Tempo         float64      `json:"tempo"` // BPM
	Key           KeySignature `json:"key"`
	TimeSignature string       `json:"time_signature"` // fixed 4/4 assumption
	TicksPerBeat  int          `json:"ticks_per_beat"` // quantization grid resolution
}

// Score is the engine's sole output artifact: quantized notes in start order
// plus global metadata. Immutable once returned.
type Score struct {
	Notes []QuantizedNote `json:"notes"`
	Meta  ScoreMetadata   `json:"meta"`
}

// hzToMIDI converts a frequency to a continuous MIDI note number
func hzToMIDI(freq float64) float64 {
	if freq <= 0 {
		return 0
	}
	return 69.0 + 12.0*math.Log2(freq/440.0)
}

// midiToHz converts a MIDI note number to its equal-tempered frequency
func midiToHz(midi float64) float64 {
	return 440.0 * math.Pow(2, (midi-69.0)/12.0)
}
