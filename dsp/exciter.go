package dsp

import "math"

const (
	exciterMinFreq = 1000.0
	exciterMaxFreq = 16000.0
)

// Exciter adds high-frequency harmonic content: a high-passed copy of
// the signal is run through a tanh-based 2nd/3rd-order nonlinearity and
// mixed back in at `amount`.
type Exciter struct {
	hpfL, hpfR     *Biquad
	amount         float64
	frequency      float64
	sampleRate     float64
	harmonicOrder  int
}

// NewExciter returns an Exciter defaulted to amount=0.3, frequency=4000Hz,
// 2nd-order harmonics, initialized at 48kHz.
func NewExciter() *Exciter {
	e := &Exciter{
		hpfL:          NewBiquad(),
		hpfR:          NewBiquad(),
		amount:        0.3,
		frequency:     4000,
		harmonicOrder: 2,
	}
	e.Init(48000)
	return e
}

// Init (re)builds the HPF for the current frequency at the given sample
// rate and clears filter state.
func (e *Exciter) Init(sampleRate float64) {
	e.sampleRate = sampleRate
	e.SetFrequency(e.frequency)
	e.Reset()
}

// SetFrequency clamps freq to [1kHz, 16kHz] and rebuilds both channel HPFs.
func (e *Exciter) SetFrequency(freq float64) {
	e.frequency = clamp(freq, exciterMinFreq, exciterMaxFreq)
	e.hpfL.SetParams(HighPass, e.frequency, 0, sqrt2over2, e.sampleRate)
	e.hpfR.SetParams(HighPass, e.frequency, 0, sqrt2over2, e.sampleRate)
}

// SetAmount sets the wet mix amount (0 disables, per the 0.001 short-circuit).
func (e *Exciter) SetAmount(amount float64) { e.amount = amount }

// SetHarmonics sets the harmonic order (2 or 3).
func (e *Exciter) SetHarmonics(order int) { e.harmonicOrder = order }

// Process adds harmonic excitement in-place. Short-circuits if amount < 0.001.
func (e *Exciter) Process(buffer []float32, numFrames, numChannels int) {
	if e.amount < 0.001 {
		return
	}

	for i := 0; i < numFrames; i++ {
		dryL := float64(buffer[i*numChannels])
		highL := e.hpfL.Process(dryL)
		excitedL := e.harmonic(highL)
		buffer[i*numChannels] = float32(dryL + excitedL*e.amount)

		if numChannels > 1 {
			dryR := float64(buffer[i*numChannels+1])
			highR := e.hpfR.Process(dryR)
			excitedR := e.harmonic(highR)
			buffer[i*numChannels+1] = float32(dryR + excitedR*e.amount)
		}
	}
}

func (e *Exciter) harmonic(high float64) float64 {
	excited := high
	if e.harmonicOrder >= 2 {
		excited = math.Tanh(high*2) * 0.5
	}
	if e.harmonicOrder >= 3 {
		excited += high * high * high * 0.3
	}
	return excited
}

// Reset clears both channel HPFs' delay registers.
func (e *Exciter) Reset() {
	e.hpfL.Reset()
	e.hpfR.Reset()
}
