package dsp

import "math"

const (
	maxBandLimiterEntries  = 4
	bandLimiterStages      = 2
	bandLimiterReleaseTauS = 0.05
)

type bandLimiterEntry struct {
	active       bool
	limitLinear  float64
	hpf          [2][bandLimiterStages]*Biquad
	lpf          [2][bandLimiterStages]*Biquad
	envState     [2]float64
	releaseCoeff float64
	lastLowFreq  float64
	lastHighFreq float64
}

// BandLimiterEntrySnapshot is one entry's controller-side parameter view.
type BandLimiterEntrySnapshot struct {
	Active   bool
	LowFreq  float64
	HighFreq float64
	LimitDb  float64
}

// BandLimiter runs up to four parallel band-specific peak limiters,
// applied additively on the same input-domain buffer.
type BandLimiter struct {
	entries [maxBandLimiterEntries]*bandLimiterEntry
}

// NewBandLimiter returns a BandLimiter with all entries inactive.
func NewBandLimiter() *BandLimiter {
	bl := &BandLimiter{}
	for i := range bl.entries {
		e := &bandLimiterEntry{}
		for ch := 0; ch < 2; ch++ {
			for s := 0; s < bandLimiterStages; s++ {
				e.hpf[ch][s] = NewBiquad()
				e.lpf[ch][s] = NewBiquad()
			}
		}
		bl.entries[i] = e
	}
	return bl
}

// UpdateParams refreshes each entry's limiter target and band filters.
// Band filters are only rebuilt when lowFreq/highFreq actually change,
// matching the reference's cached recompute discipline.
func (bl *BandLimiter) UpdateParams(entries []BandLimiterEntrySnapshot, sampleRate float64) {
	for i := 0; i < maxBandLimiterEntries && i < len(entries); i++ {
		e := bl.entries[i]
		snap := entries[i]
		e.active = snap.Active
		if !e.active {
			continue
		}

		e.limitLinear = dbToLinear(snap.LimitDb)
		e.releaseCoeff = math.Exp(-1 / (bandLimiterReleaseTauS * sampleRate))

		if snap.LowFreq == e.lastLowFreq && snap.HighFreq == e.lastHighFreq {
			continue
		}
		e.lastLowFreq = snap.LowFreq
		e.lastHighFreq = snap.HighFreq

		for ch := 0; ch < 2; ch++ {
			for s := 0; s < bandLimiterStages; s++ {
				e.hpf[ch][s].SetParams(HighPass, snap.LowFreq, 0, sqrt2over2, sampleRate)
				e.lpf[ch][s].SetParams(LowPass, snap.HighFreq, 0, sqrt2over2, sampleRate)
			}
		}
	}
}

// Process applies every active entry's band limiting additively.
func (bl *BandLimiter) Process(buffer []float32, numFrames, numChannels int) {
	channels := numChannels
	if channels > 2 {
		channels = 2
	}

	for _, e := range bl.entries {
		if !e.active {
			continue
		}

		for frame := 0; frame < numFrames; frame++ {
			for ch := 0; ch < channels; ch++ {
				idx := frame*numChannels + ch
				input := float64(buffer[idx])

				band := input
				for s := 0; s < bandLimiterStages; s++ {
					band = e.hpf[ch][s].Process(band)
				}
				for s := 0; s < bandLimiterStages; s++ {
					band = e.lpf[ch][s].Process(band)
				}

				absVal := math.Abs(band)
				if absVal > e.envState[ch] {
					e.envState[ch] = absVal
				} else {
					e.envState[ch] *= e.releaseCoeff
				}

				gain := 1.0
				if e.envState[ch] > e.limitLinear && e.envState[ch] > 1e-10 {
					gain = e.limitLinear / e.envState[ch]
				}

				buffer[idx] = float32(input + band*(gain-1))
			}
		}
	}
}

// Reset clears every entry's filter and envelope state.
func (bl *BandLimiter) Reset() {
	for _, e := range bl.entries {
		for ch := 0; ch < 2; ch++ {
			for s := 0; s < bandLimiterStages; s++ {
				e.hpf[ch][s].Reset()
				e.lpf[ch][s].Reset()
			}
			e.envState[ch] = 0
		}
		e.lastLowFreq = 0
		e.lastHighFreq = 0
	}
}
