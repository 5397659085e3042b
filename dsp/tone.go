package dsp

// ToneStage is a bass LowShelf / treble HighShelf pair, one of each per
// channel, each independently enabled. Disabling a side bypasses it
// without resetting its filter state, so re-enabling never clicks.
type ToneStage struct {
	bass   [2]*Biquad
	treble [2]*Biquad

	lastBassFreq, lastBassQ, lastBassGain       float64
	lastTrebleFreq, lastTrebleQ, lastTrebleGain float64
	lastSampleRate                              float64
}

// NewToneStage returns a ToneStage with unity-gain passthrough filters.
func NewToneStage() *ToneStage {
	return &ToneStage{
		bass:   [2]*Biquad{NewBiquad(), NewBiquad()},
		treble: [2]*Biquad{NewBiquad(), NewBiquad()},
	}
}

// UpdateParams recomputes the bass and treble biquads independently,
// each only when its own freq/Q/gain (or the sample rate) changed.
func (t *ToneStage) UpdateParams(bassFreq, bassQ, bassGainDb, trebleFreq, trebleQ, trebleGainDb, sampleRate float64) {
	rateChanged := sampleRate != t.lastSampleRate

	if rateChanged || bassFreq != t.lastBassFreq || bassQ != t.lastBassQ || bassGainDb != t.lastBassGain {
		for ch := 0; ch < 2; ch++ {
			t.bass[ch].SetParams(LowShelf, bassFreq, bassGainDb, bassQ, sampleRate)
		}
		t.lastBassFreq, t.lastBassQ, t.lastBassGain = bassFreq, bassQ, bassGainDb
	}

	if rateChanged || trebleFreq != t.lastTrebleFreq || trebleQ != t.lastTrebleQ || trebleGainDb != t.lastTrebleGain {
		for ch := 0; ch < 2; ch++ {
			t.treble[ch].SetParams(HighShelf, trebleFreq, trebleGainDb, trebleQ, sampleRate)
		}
		t.lastTrebleFreq, t.lastTrebleQ, t.lastTrebleGain = trebleFreq, trebleQ, trebleGainDb
	}

	t.lastSampleRate = sampleRate
}

// Process applies whichever of bass/treble is enabled, per channel.
func (t *ToneStage) Process(buffer []float32, numFrames, numChannels int, bassOn, trebleOn bool) {
	if !bassOn && !trebleOn {
		return
	}

	channels := numChannels
	if channels > 2 {
		channels = 2
	}

	for frame := 0; frame < numFrames; frame++ {
		for ch := 0; ch < channels; ch++ {
			idx := frame*numChannels + ch
			sample := float64(buffer[idx])
			if bassOn {
				sample = t.bass[ch].Process(sample)
			}
			if trebleOn {
				sample = t.treble[ch].Process(sample)
			}
			buffer[idx] = float32(sample)
		}
	}
}

// Reset clears both shelves' filter state on both channels.
func (t *ToneStage) Reset() {
	for ch := 0; ch < 2; ch++ {
		t.bass[ch].Reset()
		t.treble[ch].Reset()
	}
}
