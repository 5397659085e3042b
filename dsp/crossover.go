package dsp

import "math"

const maxCrossoverStages = 4

func slopeToStages(slope int) int {
	switch slope {
	case 6:
		return 0
	case 12:
		return 1
	case 24:
		return 2
	case 48:
		return 4
	default:
		return 2
	}
}

// Crossover extracts a sub-band via HPF and mixes a gained copy back
// into the signal, optionally re-band-limiting the sub with an LPF.
type Crossover struct {
	hpf [2][maxCrossoverStages]*Biquad
	lpf [2][maxCrossoverStages]*Biquad

	hpfOnePoleState [2]float64
	lpfOnePoleState [2]float64
	hpfOnePoleCoeff float64
	lpfOnePoleCoeff float64

	lpfEnabled   bool
	hpfSlope     int
	lpfSlope     int
	hpfStages    int
	lpfStages    int
	subGainLinear float64

	lastLowFreq    float64
	lastHighFreq   float64
	lastHpfSlope   int
	lastLpfSlope   int
	lastSampleRate float64
}

// NewCrossover returns a Crossover with unity sub-gain (no-op until
// UpdateParams is called with a nonzero subGainDb).
func NewCrossover() *Crossover {
	c := &Crossover{subGainLinear: 1}
	for ch := 0; ch < 2; ch++ {
		for s := 0; s < maxCrossoverStages; s++ {
			c.hpf[ch][s] = NewBiquad()
			c.lpf[ch][s] = NewBiquad()
		}
	}
	return c
}

// UpdateParams recomputes filter stages only when lowFreq, highFreq,
// either slope, or the sample rate actually changed since last call.
func (c *Crossover) UpdateParams(lpfEnabled bool, lowFreq, highFreq float64, hpfSlope, lpfSlope int, subGainDb, sampleRate float64) {
	c.subGainLinear = dbToLinear(subGainDb)
	c.lpfEnabled = lpfEnabled
	c.hpfSlope = hpfSlope
	c.lpfSlope = lpfSlope

	needsUpdate := lowFreq != c.lastLowFreq || highFreq != c.lastHighFreq ||
		hpfSlope != c.lastHpfSlope || lpfSlope != c.lastLpfSlope ||
		sampleRate != c.lastSampleRate
	if !needsUpdate {
		return
	}

	c.lastLowFreq = lowFreq
	c.lastHighFreq = highFreq
	c.lastHpfSlope = hpfSlope
	c.lastLpfSlope = lpfSlope
	c.lastSampleRate = sampleRate

	c.hpfStages = slopeToStages(hpfSlope)
	if hpfSlope == 6 {
		c.hpfOnePoleCoeff = 1 - math.Exp(-2*math.Pi*lowFreq/sampleRate)
	} else {
		for ch := 0; ch < 2; ch++ {
			for s := 0; s < c.hpfStages; s++ {
				c.hpf[ch][s].SetParams(HighPass, lowFreq, 0, sqrt2over2, sampleRate)
			}
		}
	}

	c.lpfStages = slopeToStages(lpfSlope)
	if lpfSlope == 6 {
		c.lpfOnePoleCoeff = 1 - math.Exp(-2*math.Pi*highFreq/sampleRate)
	} else {
		for ch := 0; ch < 2; ch++ {
			for s := 0; s < c.lpfStages; s++ {
				c.lpf[ch][s].SetParams(LowPass, highFreq, 0, sqrt2over2, sampleRate)
			}
		}
	}
}

// Process mixes the gained sub-band back into buffer. Short-circuits
// entirely when the sub-gain is within 0.001 of unity, so subGainDb=0
// is a true no-op (bit-identical output).
func (c *Crossover) Process(buffer []float32, numFrames, numChannels int) {
	channels := numChannels
	if channels > 2 {
		channels = 2
	}

	extraGain := c.subGainLinear - 1
	if math.Abs(extraGain) < 0.001 {
		return
	}

	for frame := 0; frame < numFrames; frame++ {
		for ch := 0; ch < channels; ch++ {
			idx := frame*numChannels + ch
			original := float64(buffer[idx])

			var hpfOut float64
			if c.hpfSlope == 6 {
				c.hpfOnePoleState[ch] += c.hpfOnePoleCoeff * (original - c.hpfOnePoleState[ch])
				hpfOut = original - c.hpfOnePoleState[ch]
			} else {
				hpfOut = original
				for s := 0; s < c.hpfStages; s++ {
					hpfOut = c.hpf[ch][s].Process(hpfOut)
				}
			}

			sub := original - hpfOut

			if c.lpfEnabled {
				if c.lpfSlope == 6 {
					c.lpfOnePoleState[ch] += c.lpfOnePoleCoeff * (sub - c.lpfOnePoleState[ch])
					sub = c.lpfOnePoleState[ch]
				} else {
					for s := 0; s < c.lpfStages; s++ {
						sub = c.lpf[ch][s].Process(sub)
					}
				}
			}

			buffer[idx] = float32(original + sub*extraGain)
		}
	}
}

// Reset clears all filter and one-pole state on both channels.
func (c *Crossover) Reset() {
	for ch := 0; ch < 2; ch++ {
		for s := 0; s < maxCrossoverStages; s++ {
			c.hpf[ch][s].Reset()
			c.lpf[ch][s].Reset()
		}
		c.hpfOnePoleState[ch] = 0
		c.lpfOnePoleState[ch] = 0
	}
}
