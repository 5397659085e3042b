package dsp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBandLimiterInactiveEntryIsNoOp(t *testing.T) {
	bl := NewBandLimiter()
	bl.UpdateParams([]BandLimiterEntrySnapshot{
		{Active: false, LowFreq: 200, HighFreq: 2000, LimitDb: -6},
	}, testSampleRate)

	buf := make([]float32, 128*2)
	for i := range buf {
		buf[i] = 0.5
	}
	original := append([]float32{}, buf...)

	bl.Process(buf, 128, 2)

	assert.Equal(t, original, buf)
}

func TestBandLimiterCapsLoudBandEnergy(t *testing.T) {
	bl := NewBandLimiter()
	bl.UpdateParams([]BandLimiterEntrySnapshot{
		{Active: true, LowFreq: 500, HighFreq: 2000, LimitDb: -20},
	}, testSampleRate)

	const frames = 4096
	buf := make([]float32, frames*2)
	for i := 0; i < frames; i++ {
		v := float32(0.9 * math.Sin(2*math.Pi*1000*float64(i)/testSampleRate))
		buf[i*2] = v
		buf[i*2+1] = v
	}

	bl.Process(buf, frames, 2)

	var peak float32
	for i := frames / 2; i < frames; i++ {
		abs := float32(math.Abs(float64(buf[i*2])))
		if abs > peak {
			peak = abs
		}
	}
	assert.Less(t, peak, float32(0.9))
}

func TestBandLimiterResetClearsEnvelope(t *testing.T) {
	bl := NewBandLimiter()
	bl.UpdateParams([]BandLimiterEntrySnapshot{
		{Active: true, LowFreq: 200, HighFreq: 2000, LimitDb: -6},
	}, testSampleRate)

	buf := make([]float32, 256*2)
	for i := range buf {
		buf[i] = 0.8
	}
	bl.Process(buf, 256, 2)
	bl.Reset()

	assert.Equal(t, 0.0, bl.entries[0].envState[0])
}
