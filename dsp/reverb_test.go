package dsp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func defaultReverbParams() ReverbParams {
	return ReverbParams{
		DecayTime:    1.5,
		HiRatio:      0.5,
		Diffusion:    0.7,
		InitialDelay: 20,
		Density:      6,
		LpfFreq:      8000,
		HpfFreq:      100,
		ReverbDelay:  10,
		Balance:      30,
	}
}

func TestReverbSilenceStaysFinite(t *testing.T) {
	r := NewReverb()
	r.Init(testSampleRate)
	r.UpdateParams(defaultReverbParams())

	buf := make([]float32, 4096*2)
	r.Process(buf, 4096, 2)

	for _, v := range buf {
		assert.False(t, math.IsNaN(float64(v)))
		assert.False(t, math.IsInf(float64(v), 0))
	}
}

func TestReverbZeroBalanceIsDryOnly(t *testing.T) {
	r := NewReverb()
	r.Init(testSampleRate)
	p := defaultReverbParams()
	p.Balance = 0
	r.UpdateParams(p)

	buf := make([]float32, 512*2)
	for i := 0; i < 512; i++ {
		buf[i*2] = 0.3
		buf[i*2+1] = 0.3
	}
	r.Process(buf, 512, 2)

	assert.InDelta(t, 0.3, float64(buf[511*2]), 0.01)
}

func TestReverbTailDecaysAfterImpulse(t *testing.T) {
	r := NewReverb()
	r.Init(testSampleRate)
	p := defaultReverbParams()
	p.Balance = 100
	r.UpdateParams(p)

	const frames = 20000
	buf := make([]float32, frames*2)
	buf[0] = 1.0
	buf[1] = 1.0

	r.Process(buf, frames, 2)

	var earlyEnergy, lateEnergy float64
	for i := 1000; i < 2000; i++ {
		earlyEnergy += math.Abs(float64(buf[i*2]))
	}
	for i := frames - 1000; i < frames; i++ {
		lateEnergy += math.Abs(float64(buf[i*2]))
	}

	assert.Greater(t, earlyEnergy, lateEnergy)
}

func TestReverbResetClearsState(t *testing.T) {
	r := NewReverb()
	r.Init(testSampleRate)
	r.UpdateParams(defaultReverbParams())

	buf := make([]float32, 1024*2)
	for i := range buf {
		buf[i] = 0.5
	}
	r.Process(buf, 1024, 2)
	r.Reset()

	silent := make([]float32, 256*2)
	r.Process(silent, 256, 2)
	for _, v := range silent {
		assert.InDelta(t, 0, v, 1e-6)
	}
}
