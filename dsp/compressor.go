package dsp

import (
	"math"
	"sync/atomic"
)

// CompressorParams is the controller-side snapshot Compressor.UpdateParams
// reads each block.
type CompressorParams struct {
	ThresholdDb     float64
	Ratio           float64
	Volume          float64 // linear
	MakeupGainDb    float64
	PreGainDb       float64
	KneeDb          float64
	ExpansionRatio  float64
	GateThresholdDb float64
	AttackMs        float64
	ReleaseMs       float64
	SidechainFreqHz float64
}

// Compressor is a feed-forward peak compressor with knee, gate, upward
// expansion, and an optional sidechain high-pass on the detector path.
type Compressor struct {
	envDb float64

	attackCoeff  float64
	releaseCoeff float64

	thresholdDb    float64
	ratio          float64
	makeupLinear   float64
	volumeLinear   float64
	preGainLinear  float64
	kneeDb         float64
	expansionRatio float64
	gateThresholdDb float64

	sidechain        [2]*Biquad
	sidechainFreq    float64
	sidechainEnabled bool

	currentGainReductionDb atomic.Uint32 // float32 bits
}

// NewCompressor returns a Compressor matching the reference's defaults
// (threshold -20dB, ratio 4, attack 10ms, release 100ms, preGain 12.2dB),
// with the attack/release coefficients computed for 48kHz until the
// first UpdateParams call.
func NewCompressor() *Compressor {
	c := &Compressor{
		envDb:           noiseFloorDb,
		attackCoeff:     math.Exp(-1 / (10 * 0.001 * 48000)),
		releaseCoeff:    math.Exp(-1 / (100 * 0.001 * 48000)),
		thresholdDb:     -20,
		ratio:           4,
		makeupLinear:    1,
		volumeLinear:    1,
		preGainLinear:   dbToLinear(12.2),
		gateThresholdDb: -90,
		expansionRatio:  1,
		sidechain:       [2]*Biquad{NewBiquad(), NewBiquad()},
	}
	c.currentGainReductionDb.Store(math.Float32bits(0))
	return c
}

// UpdateParams clamps ratio/expansionRatio to >=1 and attack/release to
// >=0.01ms, and only rebuilds the sidechain filter when its frequency
// actually changed (disabling and resetting it if freq <= 20Hz).
func (c *Compressor) UpdateParams(p CompressorParams, sampleRate float64) {
	c.thresholdDb = p.ThresholdDb
	c.ratio = math.Max(1, p.Ratio)
	c.volumeLinear = p.Volume
	c.makeupLinear = dbToLinear(p.MakeupGainDb)
	c.preGainLinear = dbToLinear(p.PreGainDb)
	c.kneeDb = math.Max(0, p.KneeDb)
	c.expansionRatio = math.Max(1, p.ExpansionRatio)
	c.gateThresholdDb = p.GateThresholdDb

	attackMs := math.Max(0.01, p.AttackMs)
	releaseMs := math.Max(0.01, p.ReleaseMs)
	c.attackCoeff = math.Exp(-1 / (attackMs * 0.001 * sampleRate))
	c.releaseCoeff = math.Exp(-1 / (releaseMs * 0.001 * sampleRate))

	if p.SidechainFreqHz != c.sidechainFreq {
		c.sidechainFreq = p.SidechainFreqHz
		if p.SidechainFreqHz > 20 {
			c.sidechainEnabled = true
			for ch := 0; ch < 2; ch++ {
				c.sidechain[ch].SetParams(HighPass, p.SidechainFreqHz, 0, sqrt2over2, sampleRate)
			}
		} else {
			c.sidechainEnabled = false
			for ch := 0; ch < 2; ch++ {
				c.sidechain[ch].Reset()
			}
		}
	}
}

// Process compresses buffer in place per the feed-forward peak detector
// algorithm, publishing the block's peak compression for UI readout.
func (c *Compressor) Process(buffer []float32, numFrames, numChannels int) {
	channels := numChannels
	if channels > 2 {
		channels = 2
	}

	var maxCompression float64
	kneeHalf := c.kneeDb * 0.5

	for frame := 0; frame < numFrames; frame++ {
		for ch := 0; ch < numChannels; ch++ {
			idx := frame*numChannels + ch
			buffer[idx] = float32(float64(buffer[idx]) * c.preGainLinear)
		}

		var peakLevel float64
		for ch := 0; ch < channels; ch++ {
			idx := frame*numChannels + ch
			sample := float64(buffer[idx])
			if c.sidechainEnabled {
				sample = c.sidechain[ch].Process(sample)
			}
			absVal := math.Abs(sample)
			if absVal > peakLevel {
				peakLevel = absVal
			}
		}

		inputDb := linearToDb(peakLevel)
		if inputDb > c.envDb {
			c.envDb = c.attackCoeff*c.envDb + (1-c.attackCoeff)*inputDb
		} else {
			c.envDb = c.releaseCoeff*c.envDb + (1-c.releaseCoeff)*inputDb
		}

		var compressionDb, totalReductionDb float64

		if c.envDb <= c.gateThresholdDb {
			totalReductionDb = 96
		} else {
			kneeBottom := c.thresholdDb - kneeHalf
			kneeTop := c.thresholdDb + kneeHalf

			switch {
			case c.envDb >= kneeTop:
				overDb := c.envDb - c.thresholdDb
				compressionDb = overDb * (1 - 1/c.ratio)
			case c.kneeDb > 0 && c.envDb > kneeBottom:
				x := c.envDb - kneeBottom
				compressionDb = (1 - 1/c.ratio) * (x * x) / (2 * c.kneeDb)
			}

			totalReductionDb = compressionDb

			if compressionDb <= 0 && c.expansionRatio > 1 && c.envDb < kneeBottom {
				underDb := kneeBottom - c.envDb
				totalReductionDb = underDb * (1 - 1/c.expansionRatio)
			}
		}

		totalReductionDb = math.Min(totalReductionDb, 96)
		if compressionDb > maxCompression {
			maxCompression = compressionDb
		}

		gainLinear := dbToLinear(-totalReductionDb)
		totalGain := gainLinear * c.makeupLinear * c.volumeLinear
		for ch := 0; ch < numChannels; ch++ {
			idx := frame*numChannels + ch
			buffer[idx] = float32(float64(buffer[idx]) * totalGain)
		}
	}

	c.currentGainReductionDb.Store(math.Float32bits(float32(maxCompression)))
}

// GainReductionDb returns the most recently published peak compression,
// for UI display. Safe to call from any goroutine.
func (c *Compressor) GainReductionDb() float64 {
	return float64(math.Float32frombits(c.currentGainReductionDb.Load()))
}

// Reset clears the envelope, sidechain filters, and published gain reduction.
func (c *Compressor) Reset() {
	c.envDb = noiseFloorDb
	for ch := 0; ch < 2; ch++ {
		c.sidechain[ch].Reset()
	}
	c.currentGainReductionDb.Store(math.Float32bits(0))
}
