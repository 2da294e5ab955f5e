// Package acquire turns an input source (local WAV file or YouTube URL)
// into a mono sample buffer ready for transcription.
package acquire

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/meloscribe/meloscribe/engine"
	"github.com/meloscribe/meloscribe/logging"
)

// AcquisitionError reports a failure to obtain audio from a source
type AcquisitionError struct {
	Source string
	Err    error
}

func (e *AcquisitionError) Error() string {
	return fmt.Sprintf("acquiring %q: %v", e.Source, e.Err)
}

func (e *AcquisitionError) Unwrap() error {
	return e.Err
}

// Fetch resolves a source into audio samples. YouTube URLs are downloaded
// into a fresh job directory under workDir (left in place for caller
// cleanup); anything else is treated as a local WAV path.
func Fetch(ctx context.Context, source, workDir string) (engine.SampleBuffer, error) {
	log := logging.GetGlobalLogger().WithFields(logging.Fields{"component": "acquire"})

	if IsYouTubeURL(source) {
		jobDir := filepath.Join(workDir, uuid.New().String())
		if err := os.MkdirAll(jobDir, 0o755); err != nil {
			return engine.SampleBuffer{}, &AcquisitionError{Source: source, Err: err}
		}

		log.Info("downloading audio", logging.Fields{"url": source, "dir": jobDir})
		wavPath, err := downloadYouTube(ctx, source, jobDir)
		if err != nil {
			return engine.SampleBuffer{}, &AcquisitionError{Source: source, Err: err}
		}

		buf, err := LoadWAV(wavPath)
		if err != nil {
			return engine.SampleBuffer{}, &AcquisitionError{Source: source, Err: err}
		}
		return buf, nil
	}

	buf, err := LoadWAV(source)
	if err != nil {
		return engine.SampleBuffer{}, &AcquisitionError{Source: source, Err: err}
	}

	log.Debug("loaded audio file", logging.Fields{
		"path":     source,
		"rate":     buf.Rate,
		"duration": buf.Duration(),
	})

	return buf, nil
}
