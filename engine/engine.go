// Package engine turns a monophonic audio clip into a quantized musical
// score. The pipeline is a fixed chain of pure stages:
//
//	Condition -> {TrackPitch, DetectOnsets} -> EstimateTempo ->
//	Segment -> Quantize -> ResolveKey -> Assemble
//
// The engine holds no mutable state between invocations; two runs over the
// same buffer produce identical Scores.
package engine

import (
	"github.com/meloscribe/meloscribe/logging"
)

// Config carries every tunable of the transcription pipeline. The zero
// value is not usable; start from DefaultConfig.
type Config struct {
	// Signal conditioning
	AnalysisRate   int     `json:"analysis_rate"`    // fixed analysis sample rate (Hz)
	HighPassCutoff float64 `json:"high_pass_cutoff"` // rumble filter cutoff (Hz), 0 disables
	SilenceRatio   float64 `json:"silence_ratio"`    // fraction of peak RMS treated as silence
	MinSilence     float64 `json:"min_silence"`      // seconds of silence before edge trimming kicks in
	NormalizePeak  float64 `json:"normalize_peak"`   // target peak amplitude after conditioning

	// Pitch tracking
	WindowSize       int     `json:"window_size"`       // analysis window (samples)
	HopSize          int     `json:"hop_size"`          // hop between frames (samples)
	MinFrequency     float64 `json:"min_frequency"`     // lowest trackable pitch (Hz)
	MaxFrequency     float64 `json:"max_frequency"`     // highest trackable pitch (Hz)
	YinThreshold     float64 `json:"yin_threshold"`     // CMNDF acceptance threshold
	VoicingThreshold float64 `json:"voicing_threshold"` // min periodicity confidence for a voiced frame

	// Onset detection
	OnsetWindowSize  int     `json:"onset_window_size"` // STFT window for the novelty curve
	MinOnsetGap      float64 `json:"min_onset_gap"`     // minimum inter-onset spacing (seconds)
	OnsetSensitivity float64 `json:"onset_sensitivity"` // std-dev multiplier of the adaptive threshold
	OnsetContext     float64 `json:"onset_context"`     // rolling window for the adaptive threshold (seconds)

	// Tempo estimation
	MinTempo float64 `json:"min_tempo"` // BPM search floor
	MaxTempo float64 `json:"max_tempo"` // BPM search ceiling

	// Segmentation
	MinVoicedCoverage float64 `json:"min_voiced_coverage"` // voiced fraction below which an interval is a rest
	MinNoteDuration   float64 `json:"min_note_duration"`   // seconds; shorter candidates merge or drop

	// Quantization
	TicksPerBeat     int     `json:"ticks_per_beat"`     // grid subdivisions per beat (4 = sixteenth notes)
	MinKeyConfidence float64 `json:"min_key_confidence"` // key profile score below which key is unknown

	// Logger receives per-stage progress; nil falls back to the global logger
	Logger logging.Logger `json:"-"`
}

// DefaultConfig returns the tuning the engine was validated with. All
// values are defaults, not bit-exact requirements.
func DefaultConfig() Config {
	return Config{
		AnalysisRate:   22050,
		HighPassCutoff: 30.0,
		SilenceRatio:   0.05,
		MinSilence:     0.1,
		NormalizePeak:  0.95,

		WindowSize:       2048,
		HopSize:          256,
		MinFrequency:     65.0,   // roughly C2
		MaxFrequency:     2000.0, // above C7 fundamentals are rare in melodies
		YinThreshold:     0.15,
		VoicingThreshold: 0.5,

		OnsetWindowSize:  1024,
		MinOnsetGap:      0.06,
		OnsetSensitivity: 1.5,
		OnsetContext:     0.5,

		MinTempo: 40.0,
		MaxTempo: 220.0,

		MinVoicedCoverage: 0.5,
		MinNoteDuration:   0.06,

		TicksPerBeat:     4,
		MinKeyConfidence: 0.5,
	}
}

// Engine runs the transcription pipeline. Safe for repeated use; each
// Transcribe call is independent.
type Engine struct {
	cfg Config
	log logging.Logger
}

// New creates an engine from an explicit configuration
func New(cfg Config) *Engine {
	log := cfg.Logger
	if log == nil {
		log = logging.GetGlobalLogger()
	}
	return &Engine{
		cfg: cfg,
		log: log.WithFields(logging.Fields{"component": "engine"}),
	}
}

// Config returns the engine's configuration
func (e *Engine) Config() Config {
	return e.cfg
}

// Transcribe runs the full pipeline, estimating the tempo from the clip's
// own onsets. Clips with fewer than two detectable onsets fail with
// ErrInsufficientOnsets; use TranscribeWithTempo to apply a fallback tempo.
func (e *Engine) Transcribe(raw SampleBuffer) (*Score, error) {
	conditioned, err := e.Condition(raw)
	if err != nil {
		return nil, err
	}

	onsets := e.DetectOnsets(conditioned)
	tempo, err := e.EstimateTempo(onsets)
	if err != nil {
		return nil, err
	}

	return e.transcribeConditioned(conditioned, onsets, tempo)
}

// TranscribeWithTempo runs the pipeline against a caller-supplied tempo,
// skipping tempo estimation entirely
func (e *Engine) TranscribeWithTempo(raw SampleBuffer, tempoBPM float64) (*Score, error) {
	conditioned, err := e.Condition(raw)
	if err != nil {
		return nil, err
	}

	onsets := e.DetectOnsets(conditioned)
	return e.transcribeConditioned(conditioned, onsets, tempoBPM)
}

func (e *Engine) transcribeConditioned(buf SampleBuffer, onsets []float64, tempo float64) (*Score, error) {
	frames := e.TrackPitch(buf)

	e.log.Debug("analysis complete", logging.Fields{
		"frames": len(frames),
		"onsets": len(onsets),
		"tempo":  tempo,
	})

	candidates := e.Segment(frames, onsets, buf.Duration())
	notes := e.Quantize(candidates, tempo)
	key := e.ResolveKey(notes)

	score, err := e.Assemble(notes, tempo, key)
	if err != nil {
		return nil, err
	}

	e.log.Info("transcription complete", logging.Fields{
		"notes": len(score.Notes),
		"tempo": score.Meta.Tempo,
		"key":   score.Meta.Key.String(),
	})

	return score, nil
}
