package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/meloscribe/meloscribe/acquire"
	"github.com/meloscribe/meloscribe/engine"
	"github.com/meloscribe/meloscribe/logging"
)

type errorResponse struct {
	Error string `json:"error"`
	Stage string `json:"stage,omitempty"`
}

// handleHealth reports liveness
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// handleTranscribe accepts a WAV upload (multipart field "audio") and
// responds with the transcribed score as JSON. Clips with too few onsets
// for tempo estimation are retried at the configured fallback tempo.
func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxUploadSize)

	if err := r.ParseMultipartForm(s.config.MaxUploadSize); err != nil {
		s.writeError(w, http.StatusBadRequest, "upload too large or malformed", "")
		return
	}

	file, _, err := r.FormFile("audio")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, `missing multipart file field "audio"`, "")
		return
	}
	defer file.Close()

	// Buffer the upload; the WAV decoder needs a seekable stream
	data, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "reading upload", "")
		return
	}

	buf, err := acquire.DecodeWAV(bytes.NewReader(data))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	score, err := s.engine.Transcribe(buf)
	if err != nil && errors.Is(err, engine.ErrInsufficientOnsets) && s.config.FallbackTempo > 0 {
		score, err = s.engine.TranscribeWithTempo(buf, s.config.FallbackTempo)
	}
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, engine.ErrEmptyAudio) ||
			errors.Is(err, engine.ErrInsufficientOnsets) ||
			errors.Is(err, engine.ErrEmptyScore) {
			status = http.StatusUnprocessableEntity
		}
		var stageErr *engine.StageError
		stage := ""
		if errors.As(err, &stageErr) {
			stage = stageErr.Stage
		}
		s.writeError(w, status, err.Error(), stage)
		return
	}

	s.log.Info("transcription served", logging.Fields{
		"notes": len(score.Notes),
		"tempo": score.Meta.Tempo,
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(score)
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg, stage string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Error: msg, Stage: stage})
}
