package dsp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEqualizerNoBandsIsPreampOnly(t *testing.T) {
	eq := NewEqualizer()
	eq.UpdateParams(6, nil, testSampleRate)

	buf := []float32{0.1, 0.1, -0.2, -0.2}
	eq.Process(buf, 2, 2)

	expected := float32(0.1 * dbToLinear(6))
	assert.InDelta(t, expected, buf[0], 0.0001)
}

func TestEqualizerPeakingBandBoostsTargetFrequency(t *testing.T) {
	eq := NewEqualizer()
	eq.UpdateParams(0, []EqualizerBandSnapshot{
		{Type: 3, FreqHz: 1000, Q: 1.0, GainDb: 12},
	}, testSampleRate)

	const frames = 2048
	buf := make([]float32, frames*2)
	for i := 0; i < frames; i++ {
		v := float32(0.1 * math.Sin(2*math.Pi*1000*float64(i)/testSampleRate))
		buf[i*2] = v
		buf[i*2+1] = v
	}

	eq.Process(buf, frames, 2)

	var peak float32
	for i := frames / 2; i < frames; i++ {
		if buf[i*2] > peak {
			peak = buf[i*2]
		}
	}
	assert.Greater(t, peak, float32(0.1*1.5))
}

func TestEqualizerBandCountChangeReallocates(t *testing.T) {
	eq := NewEqualizer()
	eq.UpdateParams(0, []EqualizerBandSnapshot{
		{Type: 3, FreqHz: 1000, Q: 1.0, GainDb: 3},
	}, testSampleRate)
	assert.Equal(t, 1, eq.numBands)

	eq.UpdateParams(0, []EqualizerBandSnapshot{
		{Type: 3, FreqHz: 1000, Q: 1.0, GainDb: 3},
		{Type: 1, FreqHz: 8000, Q: 0.707, GainDb: -3},
	}, testSampleRate)
	assert.Equal(t, 2, eq.numBands)
}
