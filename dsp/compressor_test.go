package dsp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompressorStaticCurve(t *testing.T) {
	c := NewCompressor()
	c.UpdateParams(CompressorParams{
		ThresholdDb:     -20,
		Ratio:           2,
		Volume:          1,
		MakeupGainDb:    0,
		PreGainDb:       0,
		KneeDb:          0,
		ExpansionRatio:  1,
		GateThresholdDb: -90,
		AttackMs:        0.01,
		ReleaseMs:       0.01,
	}, testSampleRate)

	const frames = 4000
	peak := float32(math.Pow(10, -10.0/20))
	buf := make([]float32, frames*2)
	for i := 0; i < frames; i++ {
		buf[i*2] = peak
		buf[i*2+1] = -peak
	}

	c.Process(buf, frames, 2)

	outDb := linearToDb(math.Abs(float64(buf[(frames-1)*2])))
	assert.InDelta(t, -15.0, outDb, 0.5)
}

func TestCompressorGate(t *testing.T) {
	c := NewCompressor()
	c.UpdateParams(CompressorParams{
		ThresholdDb:     -20,
		Ratio:           4,
		Volume:          1,
		GateThresholdDb: -60,
		ExpansionRatio:  1,
		AttackMs:        0.01,
		ReleaseMs:       0.01,
	}, testSampleRate)

	const frames = 4000
	peak := float32(math.Pow(10, -70.0/20))
	buf := make([]float32, frames*2)
	for i := 0; i < frames; i++ {
		buf[i*2] = peak
		buf[i*2+1] = -peak
	}

	c.Process(buf, frames, 2)

	outMag := math.Abs(float64(buf[(frames-1)*2]))
	assert.Less(t, outMag, math.Pow(10, -80.0/20))
}
