package acquire

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"regexp"
)

var youtubePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^https?://(www\.)?youtube\.com/watch\?v=[\w-]+`),
	regexp.MustCompile(`^https?://(www\.)?youtube\.com/shorts/[\w-]+`),
	regexp.MustCompile(`^https?://youtu\.be/[\w-]+`),
	regexp.MustCompile(`^https?://music\.youtube\.com/watch\?v=[\w-]+`),
}

// IsYouTubeURL reports whether the source string is a YouTube video URL
func IsYouTubeURL(source string) bool {
	for _, p := range youtubePatterns {
		if p.MatchString(source) {
			return true
		}
	}
	return false
}

// downloadYouTube fetches a video's audio track as WAV via yt-dlp and
// returns the path of the downloaded file
func downloadYouTube(ctx context.Context, url, outputDir string) (string, error) {
	if err := checkYtDlp(); err != nil {
		return "", err
	}

	outputTemplate := filepath.Join(outputDir, "input.%(ext)s")

	cmd := exec.CommandContext(ctx, "yt-dlp",
		"--no-playlist",
		"--extract-audio",
		"--audio-format", "wav",
		"--audio-quality", "0",
		"--output", outputTemplate,
		"--no-warnings",
		"--quiet",
		url,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("yt-dlp failed: %w (stderr: %s)", err, stderr.String())
	}

	return filepath.Join(outputDir, "input.wav"), nil
}

func checkYtDlp() error {
	if err := exec.Command("yt-dlp", "--version").Run(); err != nil {
		return fmt.Errorf("yt-dlp not installed (pip install yt-dlp)")
	}
	return nil
}
