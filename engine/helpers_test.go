package engine

import (
	"math"
	"math/rand"
)

const testRate = 22050

// sineWave synthesizes a constant-frequency tone with a short fade-in and
// fade-out so synthetic clips don't click at their edges
func sineWave(freq, duration float64, rate int) []float64 {
	n := int(duration * float64(rate))
	samples := make([]float64, n)
	fade := rate / 200 // 5ms
	for i := range samples {
		s := 0.6 * math.Sin(2*math.Pi*freq*float64(i)/float64(rate))
		if i < fade {
			s *= float64(i) / float64(fade)
		}
		if n-i < fade {
			s *= float64(n-i) / float64(fade)
		}
		samples[i] = s
	}
	return samples
}

// silence returns a run of zero samples
func silence(duration float64, rate int) []float64 {
	return make([]float64, int(duration*float64(rate)))
}

// noiseWave synthesizes deterministic white noise
func noiseWave(duration float64, rate int, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	samples := make([]float64, int(duration*float64(rate)))
	for i := range samples {
		samples[i] = rng.Float64() - 0.5
	}
	return samples
}

// concat joins sample runs into one clip
func concat(parts ...[]float64) []float64 {
	total := 0
	for _, p := range parts {
		total += len(p)
	}
	out := make([]float64, 0, total)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func testBuffer(samples []float64) SampleBuffer {
	return SampleBuffer{Samples: samples, Rate: testRate}
}
