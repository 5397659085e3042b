package dsp

import "math"

// EQParams is the controller-side snapshot the equalizer stage reads.
type EQParams struct {
	Enabled bool
	PreampDb float64
	Bands    []EqualizerBandSnapshot
}

// ToneParams is the controller-side snapshot the tone stage reads.
type ToneParams struct {
	BassEnabled    bool
	BassFreq       float64
	BassQ          float64
	BassGainDb     float64
	TrebleEnabled  bool
	TrebleFreq     float64
	TrebleQ        float64
	TrebleGainDb   float64
}

// CrossoverParams is the controller-side snapshot the crossover stage reads.
type CrossoverParams struct {
	Enabled   bool
	LowFreq   float64
	HighFreq  float64
	HPFSlope  int
	LPFSlope  int
	SubGainDb float64
}

// BandLimiterParams is the controller-side snapshot the band limiter
// stage reads.
type BandLimiterParams struct {
	Enabled bool
	Entries []BandLimiterEntrySnapshot
}

// MultibandParams is the controller-side snapshot the multiband stage reads.
type MultibandParams struct {
	Enabled           bool
	AutoBalance       bool
	AutoBalanceSpeed  float64
	GlobalCompression float64
	OutputGainDb      float64
	SubBassBoostDb    float64
	SubBassLowFreq    float64
	SubBassHighFreq   float64
	BandGainsDb       [numMultibandBands]float64
}

// ChainParams bundles every stage's parameters into the single snapshot
// DSPChain.Process consumes each block.
type ChainParams struct {
	BypassAll bool

	EQ          EQParams
	Tone        ToneParams
	Crossover   CrossoverParams
	BandLimiter BandLimiterParams
	Multiband   MultibandParams
	Compressor  CompressorParams
	CompressorEnabled bool
	Reverb      ReverbParams
	ReverbEnabled bool
}

// DSPChain runs the fixed processing order EQ -> Tone -> Crossover ->
// BandLimiter -> Multiband -> Compressor -> Reverb -> soft clip. Each
// stage's updateParams is invoked lazily, immediately before its
// process call, only when the stage is enabled.
type DSPChain struct {
	eq          *Equalizer
	tone        *ToneStage
	crossover   *Crossover
	bandLimiter *BandLimiter
	multiband   *MultibandProcessor
	compressor  *Compressor
	reverb      *Reverb

	sampleRate float64
}

// NewDSPChain constructs every stage at 48kHz.
func NewDSPChain() *DSPChain {
	c := &DSPChain{
		eq:          NewEqualizer(),
		tone:        NewToneStage(),
		crossover:   NewCrossover(),
		bandLimiter: NewBandLimiter(),
		multiband:   NewMultibandProcessor(),
		compressor:  NewCompressor(),
		reverb:      NewReverb(),
		sampleRate:  48000,
	}
	c.reverb.Init(c.sampleRate)
	return c
}

// Close tears down any standing resources owned by the chain's stages
// (currently the multiband worker pool). Must be called while the
// audio thread is stopped.
func (c *DSPChain) Close() {
	c.multiband.Close()
}

// Process runs buffer through every enabled stage in the fixed order,
// then applies the unconditional final soft clip.
func (c *DSPChain) Process(buffer []float32, numFrames, numChannels int, sampleRate float64, p ChainParams) {
	if p.BypassAll {
		return
	}

	if sampleRate != c.sampleRate {
		c.sampleRate = sampleRate
		c.reverb.Init(sampleRate)
	}

	if p.EQ.Enabled {
		c.eq.UpdateParams(p.EQ.PreampDb, p.EQ.Bands, sampleRate)
		c.eq.Process(buffer, numFrames, numChannels)
	}

	if p.Tone.BassEnabled || p.Tone.TrebleEnabled {
		c.tone.UpdateParams(p.Tone.BassFreq, p.Tone.BassQ, p.Tone.BassGainDb,
			p.Tone.TrebleFreq, p.Tone.TrebleQ, p.Tone.TrebleGainDb, sampleRate)
		c.tone.Process(buffer, numFrames, numChannels, p.Tone.BassEnabled, p.Tone.TrebleEnabled)
	}

	if p.Crossover.Enabled {
		c.crossover.UpdateParams(true, p.Crossover.LowFreq, p.Crossover.HighFreq,
			p.Crossover.HPFSlope, p.Crossover.LPFSlope, p.Crossover.SubGainDb, sampleRate)
		c.crossover.Process(buffer, numFrames, numChannels)
	}

	if p.BandLimiter.Enabled {
		c.bandLimiter.UpdateParams(p.BandLimiter.Entries, sampleRate)
		c.bandLimiter.Process(buffer, numFrames, numChannels)
	}

	if p.Multiband.Enabled {
		c.multiband.SetAutoBalance(p.Multiband.AutoBalance)
		c.multiband.SetAutoBalanceSpeed(p.Multiband.AutoBalanceSpeed)
		c.multiband.SetGlobalCompression(p.Multiband.GlobalCompression)
		c.multiband.SetOutputGain(p.Multiband.OutputGainDb)
		c.multiband.SetSubBassBoost(p.Multiband.SubBassBoostDb)
		c.multiband.SetSubBassRange(p.Multiband.SubBassLowFreq, p.Multiband.SubBassHighFreq)
		for i := 0; i < numMultibandBands && i < c.multiband.NumBands(); i++ {
			c.multiband.bands[i].ManualGainDb = p.Multiband.BandGainsDb[i]
		}
		c.multiband.SetEnabled(true)
		c.multiband.Process(buffer, numFrames, numChannels, sampleRate)
	} else {
		c.multiband.SetEnabled(false)
	}

	if p.CompressorEnabled {
		c.compressor.UpdateParams(p.Compressor, sampleRate)
		c.compressor.Process(buffer, numFrames, numChannels)
	}

	if p.ReverbEnabled {
		c.reverb.UpdateParams(p.Reverb)
		c.reverb.Process(buffer, numFrames, numChannels)
	}

	softClip(buffer)
}

// softClip applies the final unconditional tanh soft clipper, leaving
// samples below the 0.9 threshold untouched and guaranteeing |y| < 1.0
// above it.
func softClip(buffer []float32) {
	for i, v := range buffer {
		x := float64(v)
		absX := math.Abs(x)
		if absX > 0.9 {
			sign := 1.0
			if x < 0 {
				sign = -1.0
			}
			buffer[i] = float32(sign * (0.9 + 0.1*math.Tanh((absX-0.9)/0.1)))
		}
	}
}

// BandEnergies returns the multiband stage's nine smoothed band energy
// readings, for spectrum visualization.
func (c *DSPChain) BandEnergies() [numMultibandBands]float64 {
	var out [numMultibandBands]float64
	for i := 0; i < numMultibandBands; i++ {
		out[i] = c.multiband.Band(i).Energy
	}
	return out
}

// GainReductionDb returns the compressor stage's most recently
// published peak gain reduction, for UI display.
func (c *DSPChain) GainReductionDb() float64 {
	return c.compressor.GainReductionDb()
}

// Reset clears every stage's internal state.
func (c *DSPChain) Reset() {
	c.eq.Reset()
	c.tone.Reset()
	c.crossover.Reset()
	c.bandLimiter.Reset()
	c.multiband.Reset()
	c.compressor.Reset()
	c.reverb.Reset()
}
