package dsp

import (
	"math"
	"math/cmplx"

	"github.com/madelynnblue/go-dsp/fft"
)

const defaultFFTSize = 4096

type spectralBand struct {
	lowFreq, highFreq float64
	energy            float64
}

// SpectralAnalyzer maintains a rolling mono-mixed window and recomputes
// a real FFT every F/4 samples, tracking an exponentially smoothed
// energy estimate per predefined band. Unlike the reference
// implementation (which subsamples every 16th bin and every 8th time
// sample and replicates the result across the skipped bins), this uses
// a full FFT so the reported spectrum is not biased.
type SpectralAnalyzer struct {
	window     []float64
	hann       []float64
	fftSize    int
	sampleRate float64
	writePos   int
	bands      [9]spectralBand
	avgEnergy  float64

	scratch []float64
}

// NewSpectralAnalyzer returns a SpectralAnalyzer initialized at 48kHz
// with the default 4096-sample FFT window.
func NewSpectralAnalyzer() *SpectralAnalyzer {
	s := &SpectralAnalyzer{}
	s.Init(48000, defaultFFTSize)
	return s
}

// Init (re)allocates the rolling window/Hann table for the given sample
// rate and FFT size, and resets the nine predefined bands.
func (s *SpectralAnalyzer) Init(sampleRate float64, fftSize int) {
	s.sampleRate = sampleRate
	s.fftSize = fftSize
	s.window = make([]float64, fftSize)
	s.hann = make([]float64, fftSize)
	s.scratch = make([]float64, fftSize)
	for i := 0; i < fftSize; i++ {
		s.hann[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(fftSize-1)))
	}

	edges := [9][2]float64{
		{30, 250}, {250, 500}, {500, 1000}, {1000, 2000}, {2000, 4000},
		{4000, 8000}, {8000, 12000}, {12000, 16000}, {16000, 20000},
	}
	for i, e := range edges {
		s.bands[i] = spectralBand{lowFreq: e[0], highFreq: e[1]}
	}
	s.writePos = 0
}

// Process mixes buffer down to mono and feeds it into the rolling
// window, triggering a recompute every fftSize/4 samples.
func (s *SpectralAnalyzer) Process(buffer []float32, numFrames, numChannels int) {
	hop := s.fftSize / 4

	for i := 0; i < numFrames; i++ {
		var sum float64
		for ch := 0; ch < numChannels; ch++ {
			sum += float64(buffer[i*numChannels+ch])
		}
		sample := sum / float64(numChannels)

		s.window[s.writePos] = sample
		s.writePos = (s.writePos + 1) % s.fftSize

		if s.writePos%hop == 0 {
			s.recompute()
		}
	}
}

func (s *SpectralAnalyzer) recompute() {
	for i := 0; i < s.fftSize; i++ {
		s.scratch[i] = s.window[i] * s.hann[i]
	}

	spectrum := fft.FFTReal(s.scratch)
	halfSize := len(spectrum) / 2
	binWidth := s.sampleRate / float64(s.fftSize)

	for i := range s.bands {
		band := &s.bands[i]
		startBin := clampInt(int(band.lowFreq/binWidth), 0, halfSize-1)
		endBin := clampInt(int(band.highFreq/binWidth), 0, halfSize-1)

		var sum float64
		count := 0
		for k := startBin; k <= endBin; k++ {
			sum += cmplx.Abs(spectrum[k])
			count++
		}
		if count > 0 {
			newEnergy := sum / float64(count)
			band.energy = band.energy*0.8 + newEnergy*0.2
		}
	}

	var total float64
	for _, band := range s.bands {
		total += band.energy
	}
	s.avgEnergy = total / float64(len(s.bands))
}

// GetBandEnergy returns the smoothed energy of the predefined band whose
// range contains [lowFreq, highFreq], or 0 if none matches.
func (s *SpectralAnalyzer) GetBandEnergy(lowFreq, highFreq float64) float64 {
	for _, band := range s.bands {
		if band.lowFreq <= lowFreq && band.highFreq >= highFreq {
			return band.energy
		}
	}
	return 0
}

// GetAverageEnergy returns the mean energy across all predefined bands.
func (s *SpectralAnalyzer) GetAverageEnergy() float64 {
	return s.avgEnergy
}

// Reset zeroes the rolling window and all band energies.
func (s *SpectralAnalyzer) Reset() {
	for i := range s.window {
		s.window[i] = 0
	}
	for i := range s.bands {
		s.bands[i].energy = 0
	}
	s.avgEnergy = 0
	s.writePos = 0
}
