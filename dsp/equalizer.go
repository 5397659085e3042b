package dsp

// mapFilterType translates the config-file integer filter type (as
// stored on a Band) into the corresponding Biquad shape.
func mapFilterType(configType int) FilterType {
	switch configType {
	case 1:
		return HighShelf
	case 2:
		return LowShelf
	case 3:
		return PeakingEQ
	case 4:
		return BandPass
	case 5:
		return HighPass
	case 6:
		return LowPass
	default:
		return PeakingEQ
	}
}

// Equalizer holds two parallel stacks of biquads (left, right), one per
// band, plus a constant pre-amp applied ahead of the stack.
type Equalizer struct {
	filtersL []*Biquad
	filtersR []*Biquad
	lastGain []float64

	lastSampleRate float64
	preampLinear   float64
	numBands       int
	initialized    bool
}

// NewEqualizer returns an Equalizer with no bands; UpdateParams must be
// called at least once before Process does anything useful.
func NewEqualizer() *Equalizer {
	return &Equalizer{preampLinear: 1}
}

// EqualizerBandSnapshot is the structural+scalar view of one band that
// UpdateParams needs: type/freq/Q are structural (only change while
// stopped), GainDb changes at audio rate.
type EqualizerBandSnapshot struct {
	Type   int
	FreqHz float64
	Q      float64
	GainDb float64
}

// UpdateParams reallocates the filter stacks if the band count changed,
// and recomputes a band's coefficients only if the band count changed,
// the sample rate changed, or that band's gain changed since the last
// call.
func (e *Equalizer) UpdateParams(preampDb float64, bands []EqualizerBandSnapshot, sampleRate float64) {
	n := len(bands)
	rateChanged := sampleRate != e.lastSampleRate

	if n != e.numBands {
		e.filtersL = make([]*Biquad, n)
		e.filtersR = make([]*Biquad, n)
		e.lastGain = make([]float64, n)
		for i := range e.filtersL {
			e.filtersL[i] = NewBiquad()
			e.filtersR[i] = NewBiquad()
			e.lastGain[i] = -999
		}
		e.numBands = n
		e.initialized = false
	}

	e.preampLinear = dbToLinear(preampDb)

	for i, bp := range bands {
		if !e.initialized || rateChanged || bp.GainDb != e.lastGain[i] {
			t := mapFilterType(bp.Type)
			e.filtersL[i].SetParams(t, bp.FreqHz, bp.GainDb, bp.Q, sampleRate)
			e.filtersR[i].SetParams(t, bp.FreqHz, bp.GainDb, bp.Q, sampleRate)
			e.lastGain[i] = bp.GainDb
		}
	}

	e.lastSampleRate = sampleRate
	e.initialized = true
}

// Process applies the pre-amp then all bands in series, per channel.
// Channels beyond two are passed through untouched.
func (e *Equalizer) Process(buffer []float32, numFrames, numChannels int) {
	channels := numChannels
	if channels > 2 {
		channels = 2
	}

	for frame := 0; frame < numFrames; frame++ {
		for ch := 0; ch < channels; ch++ {
			idx := frame*numChannels + ch
			sample := float64(buffer[idx]) * e.preampLinear

			filters := e.filtersL
			if ch == 1 {
				filters = e.filtersR
			}
			for _, f := range filters {
				sample = f.Process(sample)
			}

			buffer[idx] = float32(sample)
		}
	}
}

// Reset zeroes every band's filter state on both channels.
func (e *Equalizer) Reset() {
	for _, f := range e.filtersL {
		f.Reset()
	}
	for _, f := range e.filtersR {
		f.Reset()
	}
	e.initialized = false
}
