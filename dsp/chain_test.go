package dsp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func passthroughChainParams() ChainParams {
	return ChainParams{
		EQ:          EQParams{Enabled: false},
		Tone:        ToneParams{},
		Crossover:   CrossoverParams{Enabled: false},
		BandLimiter: BandLimiterParams{Enabled: false},
		Multiband:   MultibandParams{Enabled: false},
		Compressor:  CompressorParams{},
		CompressorEnabled: false,
		Reverb:        ReverbParams{},
		ReverbEnabled: false,
	}
}

func TestChainDryPassthrough(t *testing.T) {
	chain := NewDSPChain()
	defer chain.Close()

	const frames = 256
	buf := make([]float32, frames*2)
	for i := 0; i < frames; i++ {
		v := float32(0.2 * math.Sin(2*math.Pi*440*float64(i)/testSampleRate))
		buf[i*2] = v
		buf[i*2+1] = v
	}
	original := make([]float32, len(buf))
	copy(original, buf)

	chain.Process(buf, frames, 2, testSampleRate, passthroughChainParams())

	for i := range buf {
		assert.InDelta(t, original[i], buf[i], 1e-6)
	}
}

func TestChainPreampOnly(t *testing.T) {
	chain := NewDSPChain()
	defer chain.Close()

	p := passthroughChainParams()
	p.EQ = EQParams{Enabled: true, PreampDb: 6, Bands: nil}

	const frames = 16
	buf := make([]float32, frames*2)
	for i := 0; i < frames; i++ {
		buf[i*2] = 0.1
		buf[i*2+1] = 0.1
	}

	chain.Process(buf, frames, 2, testSampleRate, p)

	expected := float32(0.1 * dbToLinear(6))
	assert.InDelta(t, expected, buf[0], 0.001)
}

func TestChainSinglePeakingBand(t *testing.T) {
	chain := NewDSPChain()
	defer chain.Close()

	p := passthroughChainParams()
	p.EQ = EQParams{
		Enabled:  true,
		PreampDb: 0,
		Bands: []EqualizerBandSnapshot{
			{Type: 3, FreqHz: 1000, Q: 1.0, GainDb: 6},
		},
	}

	const frames = 2048
	buf := make([]float32, frames*2)
	for i := 0; i < frames; i++ {
		v := float32(0.1 * math.Sin(2*math.Pi*1000*float64(i)/testSampleRate))
		buf[i*2] = v
		buf[i*2+1] = v
	}

	chain.Process(buf, frames, 2, testSampleRate, p)

	var peak float32
	for i := frames / 2; i < frames; i++ {
		if buf[i*2] > peak {
			peak = buf[i*2]
		}
	}
	assert.Greater(t, peak, float32(0.1))
}

func TestChainSoftClipBound(t *testing.T) {
	const frames = 8
	buf := make([]float32, frames*2)
	for i := 0; i < frames; i++ {
		buf[i*2] = 1.5
		buf[i*2+1] = -1.5
	}

	softClip(buf)

	for _, v := range buf {
		assert.Less(t, math.Abs(float64(v)), 1.0)
	}
}

func TestChainSoftClipLeavesSmallSamplesUntouched(t *testing.T) {
	buf := []float32{0.1, -0.5, 0.89}
	original := append([]float32{}, buf...)

	softClip(buf)

	for i := range buf {
		assert.Equal(t, original[i], buf[i])
	}
}

func TestChainBypassAllSkipsEveryStage(t *testing.T) {
	chain := NewDSPChain()
	defer chain.Close()

	p := passthroughChainParams()
	p.BypassAll = true
	p.EQ = EQParams{Enabled: true, PreampDb: 6, Bands: nil}

	const frames = 16
	buf := make([]float32, frames*2)
	for i := 0; i < frames; i++ {
		buf[i*2] = 0.1
		buf[i*2+1] = 0.1
	}
	original := make([]float32, len(buf))
	copy(original, buf)

	chain.Process(buf, frames, 2, testSampleRate, p)

	for i := range buf {
		assert.Equal(t, original[i], buf[i])
	}
}

func TestChainProcessNoAllocations(t *testing.T) {
	chain := NewDSPChain()
	defer chain.Close()

	p := passthroughChainParams()
	const frames = 1024
	buf := make([]float32, frames*2)

	allocs := testing.AllocsPerRun(20, func() {
		chain.Process(buf, frames, 2, testSampleRate, p)
	})
	assert.Zero(t, allocs)
}
