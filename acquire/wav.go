package acquire

import (
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/meloscribe/meloscribe/engine"
)

// DecodeWAV reads a PCM WAV stream into a mono sample buffer. Multi-channel
// audio is downmixed by averaging channels; integer samples are scaled to
// [-1, 1] by their bit depth.
func DecodeWAV(r io.ReadSeeker) (engine.SampleBuffer, error) {
	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return engine.SampleBuffer{}, fmt.Errorf("not a valid WAV stream")
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return engine.SampleBuffer{}, fmt.Errorf("reading PCM data: %w", err)
	}
	if buf == nil || len(buf.Data) == 0 {
		return engine.SampleBuffer{}, fmt.Errorf("WAV stream contains no samples")
	}

	return pcmToMono(buf, int(decoder.BitDepth))
}

// LoadWAV decodes a WAV file from disk
func LoadWAV(path string) (engine.SampleBuffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return engine.SampleBuffer{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	return DecodeWAV(f)
}

func pcmToMono(buf *audio.IntBuffer, bitDepth int) (engine.SampleBuffer, error) {
	channels := buf.Format.NumChannels
	if channels < 1 {
		return engine.SampleBuffer{}, fmt.Errorf("invalid channel count %d", channels)
	}
	if bitDepth <= 0 {
		bitDepth = buf.SourceBitDepth
	}
	if bitDepth <= 0 {
		bitDepth = 16
	}

	scale := float64(int64(1) << (uint(bitDepth) - 1))
	numFrames := len(buf.Data) / channels

	samples := make([]float64, numFrames)
	for frame := 0; frame < numFrames; frame++ {
		sum := 0.0
		for ch := 0; ch < channels; ch++ {
			sum += float64(buf.Data[frame*channels+ch]) / scale
		}
		samples[frame] = sum / float64(channels)
	}

	return engine.SampleBuffer{
		Samples: samples,
		Rate:    buf.Format.SampleRate,
	}, nil
}
