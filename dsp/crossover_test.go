package dsp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCrossoverZeroGainIsNoOp(t *testing.T) {
	c := NewCrossover()
	c.UpdateParams(false, 80, 200, 24, 24, 0, testSampleRate)

	buf := make([]float32, 256)
	for i := range buf {
		buf[i] = float32(math.Sin(float64(i) * 0.1))
	}
	orig := append([]float32(nil), buf...)

	c.Process(buf, 128, 2)
	assert.Equal(t, orig, buf)
}

func TestCrossoverS6Gain(t *testing.T) {
	c := NewCrossover()
	c.UpdateParams(false, 80, 70, 24, 24, 6, testSampleRate)

	const frames = 4096
	buf := make([]float32, frames*2)
	for i := 0; i < frames; i++ {
		x := float32(0.1 * math.Sin(2*math.Pi*50*float64(i)/testSampleRate))
		buf[i*2] = x
		buf[i*2+1] = x
	}

	c.Process(buf, frames, 2)

	var peak float64
	for i := frames - 200; i < frames; i++ {
		v := math.Abs(float64(buf[i*2]))
		if v > peak {
			peak = v
		}
	}
	assert.InDelta(t, 0.1995, peak, 0.1995*0.05)
}
