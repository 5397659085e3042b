package dsp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToneStageDisabledIsNoOp(t *testing.T) {
	ts := NewToneStage()
	ts.UpdateParams(100, 0.707, 6, 8000, 0.707, 6, testSampleRate)

	buf := make([]float32, 64*2)
	for i := range buf {
		buf[i] = 0.3
	}
	original := append([]float32{}, buf...)

	ts.Process(buf, 64, 2, false, false)

	assert.Equal(t, original, buf)
}

func TestToneStageBassBoostRaisesLowFreqLevel(t *testing.T) {
	ts := NewToneStage()
	ts.UpdateParams(100, 0.707, 12, 8000, 0.707, 0, testSampleRate)

	const frames = 2048
	buf := make([]float32, frames*2)
	for i := 0; i < frames; i++ {
		v := float32(0.1 * math.Sin(2*math.Pi*80*float64(i)/testSampleRate))
		buf[i*2] = v
		buf[i*2+1] = v
	}

	ts.Process(buf, frames, 2, true, false)

	var peak float32
	for i := frames / 2; i < frames; i++ {
		if buf[i*2] > peak {
			peak = buf[i*2]
		}
	}
	assert.Greater(t, peak, float32(0.1))
}

func TestToneStageResetClearsStateNotCoefficients(t *testing.T) {
	ts := NewToneStage()
	ts.UpdateParams(100, 0.707, 6, 8000, 0.707, 6, testSampleRate)

	buf := make([]float32, 32*2)
	for i := range buf {
		buf[i] = 0.4
	}
	ts.Process(buf, 32, 2, true, true)
	ts.Reset()

	assert.Equal(t, 0.0, ts.bass[0].z1)
	assert.Equal(t, 0.0, ts.bass[0].z2)
	assert.NotEqual(t, 1.0, ts.bass[0].b0)
}
