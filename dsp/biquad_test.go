package dsp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

const testSampleRate = 48000.0

func TestBiquadPeakingEQZeroGainIsIdentity(t *testing.T) {
	b := NewBiquad()
	b.SetParams(PeakingEQ, 1000, 0, 1, testSampleRate)

	for n := 0; n < 64; n++ {
		x := 0.3 * math.Sin(2*math.Pi*1000*float64(n)/testSampleRate)
		y := b.Process(x)
		if n >= 4 {
			assert.InDelta(t, x, y, 1e-6)
		}
	}
}

func TestBiquadResetClearsStateNotCoefficients(t *testing.T) {
	b := NewBiquad()
	b.SetParams(LowPass, 500, 0, sqrt2over2, testSampleRate)
	b.Process(1.0)
	b.Process(1.0)

	b.Reset()
	assert.Zero(t, b.z1)
	assert.Zero(t, b.z2)
	assert.NotZero(t, b.b0)
}

func TestBiquadHighPassAttenuatesDC(t *testing.T) {
	b := NewBiquad()
	b.SetParams(HighPass, 200, 0, sqrt2over2, testSampleRate)

	var y float64
	for n := 0; n < 2000; n++ {
		y = b.Process(1.0)
	}
	assert.Less(t, math.Abs(y), 0.01)
}
