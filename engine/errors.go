package engine

import (
	"errors"
	"fmt"
)

// Sentinel errors for the terminal, content-driven failure modes. None of
// these are retryable within a single run; relaxing thresholds and trying
// again is a caller policy decision.
var (
	// ErrEmptyAudio means no usable signal remained after conditioning
	ErrEmptyAudio = errors.New("no usable audio signal")

	// ErrInsufficientOnsets means tempo cannot be estimated from the clip
	ErrInsufficientOnsets = errors.New("not enough onsets to estimate tempo")

	// ErrEmptyScore means no notes survived segmentation and quantization
	ErrEmptyScore = errors.New("no notes detected")
)

// StageError reports which pipeline stage a failure originated from
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// stageError wraps a sentinel with its originating stage and a reason
func stageError(stage string, sentinel error, format string, args ...any) *StageError {
	reason := fmt.Sprintf(format, args...)
	return &StageError{
		Stage: stage,
		Err:   fmt.Errorf("%w: %s", sentinel, reason),
	}
}
