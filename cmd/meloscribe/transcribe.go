package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/meloscribe/meloscribe/acquire"
	"github.com/meloscribe/meloscribe/engine"
	"github.com/meloscribe/meloscribe/logging"
	"github.com/meloscribe/meloscribe/render"
)

var (
	outDir        string
	outName       string
	forcedTempo   float64
	fallbackTempo float64
	formats       []string
)

var transcribeCmd = &cobra.Command{
	Use:   "transcribe <wav-file-or-youtube-url>",
	Short: "Transcribe a melody recording into a score",
	Long: `Transcribe reads a WAV file (or downloads the audio of a YouTube
video) and writes the transcribed score in the requested formats.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTranscribe(cmd.Context(), args[0])
	},
}

func init() {
	transcribeCmd.Flags().StringVarP(&outDir, "out-dir", "o", ".", "output directory")
	transcribeCmd.Flags().StringVarP(&outName, "name", "n", "", "output base name (defaults to the input name)")
	transcribeCmd.Flags().Float64VarP(&forcedTempo, "tempo", "t", 0, "force a tempo in BPM instead of estimating")
	transcribeCmd.Flags().Float64Var(&fallbackTempo, "fallback-tempo", 120, "tempo applied when the clip has too few onsets (0 disables)")
	transcribeCmd.Flags().StringSliceVarP(&formats, "formats", "f", []string{"midi", "musicxml", "summary"}, "output formats: midi, musicxml, summary")
	rootCmd.AddCommand(transcribeCmd)
}

func runTranscribe(ctx context.Context, source string) error {
	log := logging.GetGlobalLogger()

	workDir, err := os.MkdirTemp("", "meloscribe-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(workDir)

	buf, err := acquire.Fetch(ctx, source, workDir)
	if err != nil {
		return err
	}

	eng := engine.New(engine.DefaultConfig())

	var score *engine.Score
	if forcedTempo > 0 {
		score, err = eng.TranscribeWithTempo(buf, forcedTempo)
	} else {
		score, err = eng.Transcribe(buf)
		if err != nil && errors.Is(err, engine.ErrInsufficientOnsets) && fallbackTempo > 0 {
			log.Warn("too few onsets for tempo estimation, using fallback", logging.Fields{
				"fallback_tempo": fallbackTempo,
			})
			score, err = eng.TranscribeWithTempo(buf, fallbackTempo)
		}
	}
	if err != nil {
		return err
	}

	base := outName
	if base == "" {
		base = strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
		if acquire.IsYouTubeURL(source) {
			base = "transcription"
		}
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	for _, format := range formats {
		switch strings.ToLower(format) {
		case "midi", "mid":
			if err := writeScoreFile(filepath.Join(outDir, base+".mid"), score, render.WriteMIDI); err != nil {
				return err
			}
		case "musicxml", "xml":
			if err := writeScoreFile(filepath.Join(outDir, base+".musicxml"), score, render.WriteMusicXML); err != nil {
				return err
			}
		case "summary", "txt":
			if err := render.WriteSummary(os.Stdout, score); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown format %q", format)
		}
	}

	return nil
}

func writeScoreFile(path string, score *engine.Score, write func(w io.Writer, s *engine.Score) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f, score); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}
