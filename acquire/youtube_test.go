package acquire

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsYouTubeURL(t *testing.T) {
	valid := []string{
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		"https://youtube.com/watch?v=dQw4w9WgXcQ",
		"http://youtu.be/dQw4w9WgXcQ",
		"https://www.youtube.com/shorts/abc123DEF",
		"https://music.youtube.com/watch?v=abc_123-XY",
	}
	for _, url := range valid {
		assert.True(t, IsYouTubeURL(url), url)
	}

	invalid := []string{
		"",
		"melody.wav",
		"/home/user/audio/melody.wav",
		"https://vimeo.com/12345",
		"https://example.com/watch?v=abc",
		"youtube.com/watch?v=abc", // no scheme
	}
	for _, url := range invalid {
		assert.False(t, IsYouTubeURL(url), url)
	}
}
