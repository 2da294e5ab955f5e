package render

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoteName(t *testing.T) {
	assert.Equal(t, "A4", NoteName(69))
	assert.Equal(t, "C4", NoteName(60))
	assert.Equal(t, "C#5", NoteName(73))
	assert.Equal(t, "E2", NoteName(40))
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, testScore()))
	out := buf.String()

	assert.Contains(t, out, "Tempo: 120.0 BPM")
	assert.Contains(t, out, "Key: C major")
	assert.Contains(t, out, "Time signature: 4/4")
	assert.Contains(t, out, "Notes: 3")
	assert.Contains(t, out, "A4")
	assert.Contains(t, out, "C5")
	assert.Contains(t, out, "E5")
}

func TestWriteSummaryNilScore(t *testing.T) {
	assert.Error(t, WriteSummary(&bytes.Buffer{}, nil))
}
