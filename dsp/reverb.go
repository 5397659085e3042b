package dsp

import "math"

const (
	numCombs    = 12
	numInputAP  = 4
	numOutputAP = 2
	stereoSpread = 37
	reverbInputGain = 0.012
)

// Prime delay lengths tuned for 48kHz, spread across 23-47ms for a
// rich, dense tail.
var combTuning48k = [numCombs]int{
	1117, 1201, 1301, 1399, 1499, 1601,
	1709, 1811, 1907, 2011, 2113, 2239,
}

// Input diffusion allpass lengths (3.4-10.5ms at 48kHz).
var inputAPTuning48k = [numInputAP]int{163, 271, 383, 503}

// Output decorrelation allpass lengths.
var outputAPTuning48k = [numOutputAP]int{131, 197}

type combFilter struct {
	buffer      []float32
	idx         int
	filterState float64
}

func (c *combFilter) init(size int) {
	c.buffer = make([]float32, size)
	c.idx = 0
	c.filterState = 0
}

func (c *combFilter) process(input, feedback, damping float64) float64 {
	output := float64(c.buffer[c.idx])
	c.filterState = output + damping*(c.filterState-output)
	c.buffer[c.idx] = float32(input + c.filterState*feedback)
	c.idx++
	if c.idx >= len(c.buffer) {
		c.idx = 0
	}
	return output
}

func (c *combFilter) reset() {
	for i := range c.buffer {
		c.buffer[i] = 0
	}
	c.filterState = 0
	c.idx = 0
}

type allpassFilter struct {
	buffer []float32
	idx    int
}

func (a *allpassFilter) init(size int) {
	a.buffer = make([]float32, size)
	a.idx = 0
}

func (a *allpassFilter) process(input, feedback float64) float64 {
	bufOut := float64(a.buffer[a.idx])
	a.buffer[a.idx] = float32(input + bufOut*feedback)
	a.idx++
	if a.idx >= len(a.buffer) {
		a.idx = 0
	}
	return bufOut - input*feedback
}

func (a *allpassFilter) reset() {
	for i := range a.buffer {
		a.buffer[i] = 0
	}
	a.idx = 0
}

type reverbDelayLine struct {
	buffer            []float32
	writeIdx, readIdx int
}

func (d *reverbDelayLine) init(maxSamples int) {
	d.buffer = make([]float32, maxSamples)
	d.writeIdx = 0
	d.readIdx = 0
}

func (d *reverbDelayLine) setDelay(samples int) {
	size := len(d.buffer)
	if samples >= size {
		samples = size - 1
	}
	if samples < 0 {
		samples = 0
	}
	d.readIdx = d.writeIdx - samples
	if d.readIdx < 0 {
		d.readIdx += size
	}
}

func (d *reverbDelayLine) process(input float64) float64 {
	d.buffer[d.writeIdx] = float32(input)
	output := float64(d.buffer[d.readIdx])
	d.writeIdx++
	if d.writeIdx >= len(d.buffer) {
		d.writeIdx = 0
	}
	d.readIdx++
	if d.readIdx >= len(d.buffer) {
		d.readIdx = 0
	}
	return output
}

func (d *reverbDelayLine) reset() {
	for i := range d.buffer {
		d.buffer[i] = 0
	}
}

// ReverbParams is the controller-side snapshot Reverb.UpdateParams reads.
type ReverbParams struct {
	DecayTime    float64
	HiRatio      float64
	Diffusion    float64
	InitialDelay float64 // ms
	Density      float64 // 0..12
	LpfFreq      float64
	HpfFreq      float64
	ReverbDelay  float64 // ms
	Balance      float64 // 0..100
}

// Reverb is a parallel-comb/series-allpass algorithmic reverberator:
// twelve stereo-spread combs, four input diffusion allpasses, two
// output decorrelation allpasses, a pre-delay and two late-delay lines.
type Reverb struct {
	combL, combR             [numCombs]combFilter
	inputApL, inputApR       [numInputAP]allpassFilter
	outputApL, outputApR     [numOutputAP]allpassFilter
	preDelay                 reverbDelayLine
	lateDelayL, lateDelayR   reverbDelayLine

	inputHPF, inputLPF *Biquad

	combFeedback [numCombs]float64
	combGain     [numCombs]float64
	combNorm     float64
	damping      float64
	diffusionFb  float64
	wet, dry     float64

	sampleRate  float64
	initialized bool

	lastDecayTime, lastHiRatio, lastDiffusion float64
	lastDensity, lastLpfFreq, lastHpfFreq     float64
}

// NewReverb returns an uninitialized Reverb; Init must be called before
// Process does anything (matching the reference's lazy-init-on-first-
// enable behavior in DSPChain).
func NewReverb() *Reverb {
	return &Reverb{
		inputHPF:      NewBiquad(),
		inputLPF:      NewBiquad(),
		lastDecayTime: -1, lastHiRatio: -1, lastDiffusion: -1,
		lastDensity: -1, lastLpfFreq: -1, lastHpfFreq: -1,
	}
}

// Init (re)builds every delay/comb/allpass buffer for sampleRate,
// scaling the 48kHz-tuned lengths proportionally.
func (r *Reverb) Init(sampleRate float64) {
	r.sampleRate = sampleRate
	scale := sampleRate / 48000.0

	for i := 0; i < numCombs; i++ {
		sz := int(float64(combTuning48k[i]) * scale)
		if sz < 1 {
			sz = 1
		}
		r.combL[i].init(sz)
		r.combR[i].init(sz + stereoSpread)
	}

	for i := 0; i < numInputAP; i++ {
		sz := int(float64(inputAPTuning48k[i]) * scale)
		if sz < 1 {
			sz = 1
		}
		r.inputApL[i].init(sz)
		r.inputApR[i].init(sz + 13)
	}

	for i := 0; i < numOutputAP; i++ {
		sz := int(float64(outputAPTuning48k[i]) * scale)
		if sz < 1 {
			sz = 1
		}
		r.outputApL[i].init(sz)
		r.outputApR[i].init(sz + 11)
	}

	maxDelay := int(sampleRate * 0.15)
	if maxDelay < 1 {
		maxDelay = 1
	}
	r.preDelay.init(maxDelay)
	r.lateDelayL.init(maxDelay)
	r.lateDelayR.init(maxDelay)

	r.inputHPF.SetParams(HighPass, 90, 0, sqrt2over2, sampleRate)
	r.inputLPF.SetParams(LowPass, 11000, 0, sqrt2over2, sampleRate)

	for i := 0; i < numCombs; i++ {
		r.combFeedback[i] = 0
		r.combGain[i] = 1
	}
	r.combNorm = 1 / math.Sqrt(float64(numCombs))

	r.initialized = true
}

// UpdateParams recomputes comb feedback, damping, diffusion, comb gain
// normalization, and the input HPF/LPF corners only when the
// corresponding parameter actually changed since the last call.
func (r *Reverb) UpdateParams(p ReverbParams) {
	if p.DecayTime != r.lastDecayTime {
		rt60 := math.Max(0.1, p.DecayTime)
		for i := 0; i < numCombs; i++ {
			delaySec := float64(len(r.combL[i].buffer)) / r.sampleRate
			r.combFeedback[i] = math.Pow(10, -3*delaySec/rt60)
		}
		r.lastDecayTime = p.DecayTime
	}

	if p.HiRatio != r.lastHiRatio {
		hr := clamp(p.HiRatio, 0, 1)
		r.damping = 1 - hr
		r.lastHiRatio = p.HiRatio
	}

	if p.Diffusion != r.lastDiffusion {
		d := clamp(p.Diffusion, 0, 1)
		r.diffusionFb = d * 0.75
		r.lastDiffusion = p.Diffusion
	}

	if p.Density != r.lastDensity {
		d := clamp(p.Density, 0, 12) / 12
		var sumSq float64
		for i := 0; i < numCombs; i++ {
			switch {
			case i < 4:
				r.combGain[i] = 1
			case i < 8:
				r.combGain[i] = 0.3 + 0.7*d
			default:
				r.combGain[i] = 0.1 + 0.9*d*d
			}
			sumSq += r.combGain[i] * r.combGain[i]
		}
		r.combNorm = 1 / math.Sqrt(sumSq)
		r.lastDensity = p.Density
	}

	if p.LpfFreq != r.lastLpfFreq {
		freq := clamp(p.LpfFreq, 1000, 20000)
		r.inputLPF.SetParams(LowPass, freq, 0, sqrt2over2, r.sampleRate)
		r.lastLpfFreq = p.LpfFreq
	}

	if p.HpfFreq != r.lastHpfFreq {
		freq := clamp(p.HpfFreq, 20, 500)
		r.inputHPF.SetParams(HighPass, freq, 0, sqrt2over2, r.sampleRate)
		r.lastHpfFreq = p.HpfFreq
	}

	preDelaySamples := int(p.InitialDelay * 0.001 * r.sampleRate)
	r.preDelay.setDelay(preDelaySamples)

	lateDelaySamples := int(p.ReverbDelay * 0.001 * r.sampleRate)
	r.lateDelayL.setDelay(lateDelaySamples)
	r.lateDelayR.setDelay(lateDelaySamples)

	bal := clamp(p.Balance, 0, 100) / 100
	r.wet = bal
	r.dry = 1 - bal*0.5
}

// Process runs the reverberator in place.
func (r *Reverb) Process(buffer []float32, numFrames, numChannels int) {
	if !r.initialized {
		return
	}

	channels := numChannels
	if channels > 2 {
		channels = 2
	}

	for frame := 0; frame < numFrames; frame++ {
		idxL := frame * numChannels
		idxR := idxL
		if channels > 1 {
			idxR = frame*numChannels + 1
		}

		inputL := float64(buffer[idxL])
		inputR := float64(buffer[idxR])

		mono := (inputL + inputR) * 0.5

		filtered := r.inputHPF.Process(mono)
		filtered = r.inputLPF.Process(filtered)

		pd := r.preDelay.process(filtered) * reverbInputGain

		diffL, diffR := pd, pd
		for i := 0; i < numInputAP; i++ {
			diffL = r.inputApL[i].process(diffL, r.diffusionFb)
			diffR = r.inputApR[i].process(diffR, r.diffusionFb)
		}

		delL := r.lateDelayL.process(diffL)
		delR := r.lateDelayR.process(diffR)

		var outL, outR float64
		for i := 0; i < numCombs; i++ {
			g := r.combGain[i]
			outL += r.combL[i].process(delL, r.combFeedback[i], r.damping) * g
			outR += r.combR[i].process(delR, r.combFeedback[i], r.damping) * g
		}

		outL *= r.combNorm
		outR *= r.combNorm

		for i := 0; i < numOutputAP; i++ {
			outL = r.outputApL[i].process(outL, r.diffusionFb*0.8)
			outR = r.outputApR[i].process(outR, r.diffusionFb*0.8)
		}

		buffer[idxL] = float32(inputL*r.dry + outL*r.wet)
		if channels > 1 {
			buffer[idxR] = float32(inputR*r.dry + outR*r.wet)
		}
	}
}

// Reset clears every comb, allpass, delay line, and input filter.
func (r *Reverb) Reset() {
	for i := 0; i < numCombs; i++ {
		r.combL[i].reset()
		r.combR[i].reset()
	}
	for i := 0; i < numInputAP; i++ {
		r.inputApL[i].reset()
		r.inputApR[i].reset()
	}
	for i := 0; i < numOutputAP; i++ {
		r.outputApL[i].reset()
		r.outputApR[i].reset()
	}
	r.preDelay.reset()
	r.lateDelayL.reset()
	r.lateDelayR.reset()
	r.inputHPF.Reset()
	r.inputLPF.Reset()
}
