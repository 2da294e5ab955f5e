package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scaleNotes lays out a sequence of MIDI pitches as equal quarter notes
func scaleNotes(pitches ...int) []QuantizedNote {
	notes := make([]QuantizedNote, len(pitches))
	for i, p := range pitches {
		notes[i] = QuantizedNote{Pitch: p, StartTicks: i * 4, DurationTicks: 4}
	}
	return notes
}

func TestResolveKeyCMajorScale(t *testing.T) {
	e := New(DefaultConfig())

	// C D E F G A B C with the tonic weighted by repetition
	key := e.ResolveKey(scaleNotes(60, 62, 64, 65, 67, 69, 71, 72, 60, 64, 67, 60))

	assert.True(t, key.Known)
	assert.Equal(t, 0, key.Tonic)
	assert.Equal(t, KeyModeMajor, key.Mode)
	assert.Greater(t, key.Confidence, 0.5)
}

func TestResolveKeyTransposedScale(t *testing.T) {
	e := New(DefaultConfig())

	// The same scale shape moved to G should move the tonic with it
	key := e.ResolveKey(scaleNotes(67, 69, 71, 72, 74, 76, 78, 79, 67, 71, 74, 67))

	assert.True(t, key.Known)
	assert.Equal(t, 7, key.Tonic)
	assert.Equal(t, KeyModeMajor, key.Mode)
}

func TestResolveKeyMinorScale(t *testing.T) {
	e := New(DefaultConfig())

	// A natural minor with tonic emphasis
	key := e.ResolveKey(scaleNotes(69, 71, 72, 74, 76, 77, 79, 81, 69, 72, 76, 69))

	assert.True(t, key.Known)
	assert.Equal(t, 9, key.Tonic)
	assert.Equal(t, KeyModeMinor, key.Mode)
}

func TestResolveKeyChromaticIsUnknown(t *testing.T) {
	e := New(DefaultConfig())

	// All twelve pitch classes equally weighted carry no tonal center
	key := e.ResolveKey(scaleNotes(60, 61, 62, 63, 64, 65, 66, 67, 68, 69, 70, 71))

	assert.False(t, key.Known)
	assert.Equal(t, "unknown", key.String())
}

func TestResolveKeyEmptyInput(t *testing.T) {
	e := New(DefaultConfig())

	key := e.ResolveKey(nil)
	assert.False(t, key.Known)
}

func TestKeySignatureString(t *testing.T) {
	assert.Equal(t, "C major", KeySignature{Tonic: 0, Mode: KeyModeMajor, Known: true}.String())
	assert.Equal(t, "A minor", KeySignature{Tonic: 9, Mode: KeyModeMinor, Known: true}.String())
	assert.Equal(t, "F# major", KeySignature{Tonic: 6, Mode: KeyModeMajor, Known: true}.String())
	assert.Equal(t, "unknown", KeySignature{}.String())
}

func TestResolveKeyDurationWeighting(t *testing.T) {
	e := New(DefaultConfig())

	// A long held tonic should dominate short ornamental neighbors
	notes := []QuantizedNote{
		{Pitch: 60, StartTicks: 0, DurationTicks: 32},
		{Pitch: 64, StartTicks: 32, DurationTicks: 8},
		{Pitch: 67, StartTicks: 40, DurationTicks: 8},
		{Pitch: 62, StartTicks: 48, DurationTicks: 1},
		{Pitch: 65, StartTicks: 49, DurationTicks: 1},
	}
	key := e.ResolveKey(notes)

	require.True(t, key.Known)
	assert.Equal(t, 0, key.Tonic)
	assert.Equal(t, KeyModeMajor, key.Mode)
}
