package dsp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExciterZeroAmountIsNoOp(t *testing.T) {
	e := NewExciter()
	e.SetAmount(0)

	buf := make([]float32, 64*2)
	for i := range buf {
		buf[i] = 0.4
	}
	original := append([]float32{}, buf...)

	e.Process(buf, 64, 2)

	assert.Equal(t, original, buf)
}

func TestExciterFrequencyClampsToRange(t *testing.T) {
	e := NewExciter()
	e.SetFrequency(500)
	assert.Equal(t, exciterMinFreq, e.frequency)

	e.SetFrequency(20000)
	assert.Equal(t, exciterMaxFreq, e.frequency)
}

func TestExciterAddsHarmonicContent(t *testing.T) {
	e := NewExciter()
	e.SetAmount(0.8)
	e.SetFrequency(2000)
	e.SetHarmonics(2)

	const frames = 1024
	buf := make([]float32, frames*2)
	for i := 0; i < frames; i++ {
		v := float32(0.3 * math.Sin(2*math.Pi*4000*float64(i)/testSampleRate))
		buf[i*2] = v
		buf[i*2+1] = v
	}
	original := append([]float32{}, buf...)

	e.Process(buf, frames, 2)

	var diff float64
	for i := range buf {
		diff += math.Abs(float64(buf[i]) - float64(original[i]))
	}
	assert.Greater(t, diff, 0.0)
}
