package dsp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpectralAnalyzerDetectsDominantBand(t *testing.T) {
	s := NewSpectralAnalyzer()

	const blockFrames = 1024
	buf := make([]float32, blockFrames*2)

	var sampleIdx int
	for block := 0; block < 16; block++ {
		for i := 0; i < blockFrames; i++ {
			v := float32(0.5 * math.Sin(2*math.Pi*3000*float64(sampleIdx)/testSampleRate))
			buf[i*2] = v
			buf[i*2+1] = v
			sampleIdx++
		}
		s.Process(buf, blockFrames, 2)
	}

	lowEnergy := s.GetBandEnergy(30, 250)
	midEnergy := s.GetBandEnergy(2000, 4000)
	assert.Greater(t, midEnergy, lowEnergy)
}

func TestSpectralAnalyzerResetZeroesEnergies(t *testing.T) {
	s := NewSpectralAnalyzer()

	const frames = 8192
	buf := make([]float32, frames*2)
	for i := 0; i < frames; i++ {
		v := float32(0.5 * math.Sin(2*math.Pi*1000*float64(i)/testSampleRate))
		buf[i*2] = v
		buf[i*2+1] = v
	}
	s.Process(buf, frames, 2)
	s.Reset()

	assert.Equal(t, 0.0, s.GetAverageEnergy())
}

func TestSpectralAnalyzerUnknownRangeReturnsZero(t *testing.T) {
	s := NewSpectralAnalyzer()
	assert.Equal(t, 0.0, s.GetBandEnergy(1, 2))
}
