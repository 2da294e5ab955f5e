package spectral

import (
	"fmt"
	"math/cmplx"
	"runtime"
	"sync"
)

// STFT provides Short-Time Fourier Transform functionality
type STFT struct {
	fft *FFT
}

// STFTResult holds the result of STFT analysis
type STFTResult struct {
	Magnitude      [][]float64 `json:"magnitude"`       // Time x Frequency magnitude matrix
	TimeFrames     int         `json:"time_frames"`     // Number of time frames
	FreqBins       int         `json:"freq_bins"`       // Number of frequency bins
	SampleRate     int         `json:"sample_rate"`     // Sample rate
	WindowSize     int         `json:"window_size"`     // FFT window size
	HopSize        int         `json:"hop_size"`        // Hop size between frames
	FreqResolution float64     `json:"freq_resolution"` // Frequency resolution (Hz/bin)
	TimeResolution float64     `json:"time_resolution"` // Time resolution (seconds/frame)
}

// Window is a windowing function applied to each analysis frame
type Window interface {
	ApplyInPlace(signal []float64) error
}

// NewSTFT creates a new STFT calculator
func NewSTFT() *STFT {
	return &STFT{
		fft: NewFFT(),
	}
}

// ComputeWithWindow computes the magnitude spectrogram with parallel frame
// processing. Frames are written into a pre-allocated, index-addressed matrix
// so the result is independent of worker scheduling.
func (s *STFT) ComputeWithWindow(signal []float64, windowSize, hopSize, sampleRate int, window Window) (*STFTResult, error) {
	if len(signal) == 0 {
		return nil, fmt.Errorf("empty signal")
	}
	if windowSize <= 0 {
		return nil, fmt.Errorf("window size must be positive")
	}
	if hopSize <= 0 {
		return nil, fmt.Errorf("hop size must be positive")
	}

	numFrames := (len(signal)-windowSize)/hopSize + 1
	if numFrames <= 0 {
		return nil, fmt.Errorf("signal too short for given window size and hop size")
	}

	freqBins := windowSize/2 + 1

	magnitude := make([][]float64, numFrames)
	for i := 0; i < numFrames; i++ {
		magnitude[i] = make([]float64, freqBins)
	}

	numWorkers := s.getOptimalWorkerCount(numFrames)

	jobs := make(chan int, numFrames)

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			// Reuse frame buffer for this worker
			frameBuffer := make([]float64, windowSize)

			for frameIdx := range jobs {
				startIdx := frameIdx * hopSize
				endIdx := startIdx + windowSize
				if endIdx > len(signal) {
					continue
				}

				copy(frameBuffer, signal[startIdx:endIdx])

				if window != nil {
					if err := window.ApplyInPlace(frameBuffer); err != nil {
						continue
					}
				}

				fftResult := s.fft.Compute(frameBuffer)
				for i := 0; i < freqBins; i++ {
					magnitude[frameIdx][i] = cmplx.Abs(fftResult[i])
				}
			}
		}()
	}

	for frameIdx := 0; frameIdx < numFrames; frameIdx++ {
		jobs <- frameIdx
	}
	close(jobs)

	wg.Wait()

	return &STFTResult{
		Magnitude:      magnitude,
		TimeFrames:     numFrames,
		FreqBins:       freqBins,
		SampleRate:     sampleRate,
		WindowSize:     windowSize,
		HopSize:        hopSize,
		FreqResolution: float64(sampleRate) / float64(windowSize),
		TimeResolution: float64(hopSize) / float64(sampleRate),
	}, nil
}

// getOptimalWorkerCount determines the number of workers based on workload
func (s *STFT) getOptimalWorkerCount(numFrames int) int {
	numCPU := runtime.NumCPU()

	if numFrames < 100 {
		workers := min(numCPU/2, numFrames)
		if workers < 1 {
			workers = 1
		}
		return workers
	}
	if numFrames < 1000 {
		return min(numCPU, 8)
	}
	return numCPU
}
