package engine

import "sort"

// Assemble builds the final Score from quantized notes and the resolved
// musical context. Notes are ordered by start tick; fails with ErrEmptyScore
// when no notes survived the pipeline.
func (e *Engine) Assemble(notes []QuantizedNote, tempoBPM float64, key KeySignature) (*Score, error) {
	if len(notes) == 0 {
		return nil, stageError("assemble", ErrEmptyScore,
			"no note candidates survived segmentation and quantization")
	}

	ordered := make([]QuantizedNote, len(notes))
	copy(ordered, notes)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].StartTicks < ordered[j].StartTicks
	})

	return &Score{
		Notes: ordered,
		Meta: ScoreMetadata{
			Tempo:         tempoBPM,
			Key:           key,
			TimeSignature: "4/4",
			TicksPerBeat:  e.cfg.TicksPerBeat,
		},
	}, nil
}
