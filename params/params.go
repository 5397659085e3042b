// Package params holds the live, audio-thread-visible parameter state
// shared between the controller (UI, config loader) and the DSP chain.
// Scalars that change every block are atomics so the audio callback
// never blocks on a lock; composite/structural changes (band counts,
// filter types) are published as whole-slice swaps under a mutex and
// read once per block by the caller before handing them to the chain.
package params

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/sanioo123/audio-equalizer/dsp"
)

// EngineState mirrors the AudioEngine state machine.
type EngineState int32

const (
	StateStopped EngineState = iota
	StateStarting
	StateRunning
	StateErrorInit
	StateErrorDevice
	StateErrorFormat
)

// String renders the engine state for status lines and logs.
func (s EngineState) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateErrorInit:
		return "error: init"
	case StateErrorDevice:
		return "error: device"
	case StateErrorFormat:
		return "error: format"
	default:
		return "unknown"
	}
}

// BandParam is one equalizer band's live parameters. Type/Freq/Q are
// structural and only change while the engine is stopped; GainDb is
// audio-rate and published as atomic bits.
type BandParam struct {
	Type   int
	FreqHz float64
	Q      float64
	gainDb atomic.Uint32 // float32 bits
}

// NewBandParam returns a BandParam with the given structural fields and
// an initial gain of 0dB.
func NewBandParam(bandType int, freqHz, q float64) *BandParam {
	b := &BandParam{Type: bandType, FreqHz: freqHz, Q: q}
	b.SetGainDb(0)
	return b
}

// GainDb returns the band's current gain. Safe from any goroutine.
func (b *BandParam) GainDb() float64 {
	return float64(math.Float32frombits(b.gainDb.Load()))
}

// SetGainDb publishes a new gain. Safe from any goroutine.
func (b *BandParam) SetGainDb(db float64) {
	b.gainDb.Store(math.Float32bits(float32(db)))
}

// Snapshot returns the dsp package's view of this band for the current gain.
func (b *BandParam) Snapshot() dsp.EqualizerBandSnapshot {
	return dsp.EqualizerBandSnapshot{Type: b.Type, FreqHz: b.FreqHz, Q: b.Q, GainDb: b.GainDb()}
}

// atomicFloat is a float64-precision value published as float32 bits,
// matching the reference's single-precision atomic parameter idiom.
type atomicFloat struct {
	bits atomic.Uint32
}

func (a *atomicFloat) Load() float64 {
	return float64(math.Float32frombits(a.bits.Load()))
}

func (a *atomicFloat) Store(v float64) {
	a.bits.Store(math.Float32bits(float32(v)))
}

// SharedParams is the full set of live parameters the controller thread
// publishes and the audio thread reads once per block. It owns no DSP
// state itself — only the numbers that feed dsp.ChainParams.
type SharedParams struct {
	mu sync.RWMutex

	eqEnabled  atomic.Bool
	preampDb   atomicFloat
	bands      []*BandParam // protected by mu for structural changes

	// bandSnapshotScratch is reused by ChainParams every block instead of
	// allocating a fresh slice; only SetBands resizes it, and that only
	// happens while the engine is stopped.
	bandSnapshotScratch []dsp.EqualizerBandSnapshot

	bassEnabled    atomic.Bool
	bassFreq       atomicFloat
	bassQ          atomicFloat
	bassGainDb     atomicFloat
	trebleEnabled  atomic.Bool
	trebleFreq     atomicFloat
	trebleQ        atomicFloat
	trebleGainDb   atomicFloat

	crossoverEnabled atomic.Bool
	crossoverLowFreq atomicFloat
	crossoverHighFreq atomicFloat
	crossoverHPFSlope atomic.Int32
	crossoverLPFSlope atomic.Int32
	crossoverSubGainDb atomicFloat

	bandLimiterEnabled atomic.Bool
	bandLimiterEntries []dsp.BandLimiterEntrySnapshot // protected by mu

	multibandEnabled       atomic.Bool
	multibandAutoBalance   atomic.Bool
	multibandAutoBalSpeed  atomicFloat
	multibandCompression   atomicFloat
	multibandOutputGainDb  atomicFloat
	multibandSubBassBoost  atomicFloat
	multibandSubBassLow    atomicFloat
	multibandSubBassHigh   atomicFloat
	multibandBandGainsDb   [9]atomicFloat

	captureDeviceIdx atomic.Int32
	playDeviceIdx    atomic.Int32

	compressorEnabled    atomic.Bool
	compressorThresholdDb atomicFloat
	compressorRatio       atomicFloat
	compressorVolumeDb    atomicFloat
	compressorMakeupDb    atomicFloat
	compressorPreGainDb   atomicFloat
	compressorKneeDb      atomicFloat
	compressorExpansion   atomicFloat
	compressorGateDb      atomicFloat
	compressorAttackMs    atomicFloat
	compressorReleaseMs   atomicFloat
	compressorSidechainHz atomicFloat

	reverbEnabled      atomic.Bool
	reverbDecayTime    atomicFloat
	reverbHiRatio      atomicFloat
	reverbDiffusion    atomicFloat
	reverbInitialDelay atomicFloat
	reverbDensity      atomicFloat
	reverbLpfFreq      atomicFloat
	reverbHpfFreq      atomicFloat
	reverbDelay        atomicFloat
	reverbBalance      atomicFloat

	bypassAll   atomic.Bool
	blockSize   atomic.Int32
	engineState atomic.Int32

	levelInL, levelInR   atomicFloat
	levelOutL, levelOutR atomicFloat

	capturedFrames atomic.Uint64
	droppedFrames  atomic.Uint64
	underruns      atomic.Uint64
	overflows      atomic.Uint64
}

// New returns SharedParams with the reference implementation's defaults.
func New() *SharedParams {
	p := &SharedParams{}
	p.eqEnabled.Store(true)
	p.preampDb.Store(0)

	p.bassEnabled.Store(true)
	p.bassFreq.Store(70)
	p.bassQ.Store(0.10)
	p.bassGainDb.Store(0)
	p.trebleEnabled.Store(true)
	p.trebleFreq.Store(10000)
	p.trebleQ.Store(0.60)
	p.trebleGainDb.Store(0)

	p.crossoverEnabled.Store(true)
	p.crossoverLowFreq.Store(30)
	p.crossoverHighFreq.Store(70)
	p.crossoverHPFSlope.Store(24)
	p.crossoverLPFSlope.Store(24)
	p.crossoverSubGainDb.Store(0)

	p.multibandAutoBalance.Store(true)
	p.multibandAutoBalSpeed.Store(0.1)
	p.multibandCompression.Store(0.5)
	p.multibandSubBassBoost.Store(10)
	p.multibandSubBassLow.Store(30)
	p.multibandSubBassHigh.Store(250)

	p.compressorEnabled.Store(true)
	p.compressorThresholdDb.Store(-20)
	p.compressorRatio.Store(4)
	p.compressorPreGainDb.Store(12.2)
	p.compressorGateDb.Store(-90)
	p.compressorExpansion.Store(1)
	p.compressorAttackMs.Store(10)
	p.compressorReleaseMs.Store(100)

	p.reverbEnabled.Store(true)
	p.reverbDecayTime.Store(0.9)
	p.reverbHiRatio.Store(0.7)
	p.reverbDiffusion.Store(0.9)
	p.reverbInitialDelay.Store(26)
	p.reverbDensity.Store(3)
	p.reverbLpfFreq.Store(11000)
	p.reverbHpfFreq.Store(90)
	p.reverbDelay.Store(17)
	p.reverbBalance.Store(20)

	p.blockSize.Store(1024)
	p.engineState.Store(int32(StateStopped))
	p.captureDeviceIdx.Store(-1)
	p.playDeviceIdx.Store(-1)

	return p
}

// CaptureDeviceIndex / PlayDeviceIndex / SetCaptureDeviceIndex /
// SetPlayDeviceIndex hold the selected device indices across a restart
// of the engine; -1 means "use the system default".
func (p *SharedParams) CaptureDeviceIndex() int      { return int(p.captureDeviceIdx.Load()) }
func (p *SharedParams) PlayDeviceIndex() int         { return int(p.playDeviceIdx.Load()) }
func (p *SharedParams) SetCaptureDeviceIndex(idx int) { p.captureDeviceIdx.Store(int32(idx)) }
func (p *SharedParams) SetPlayDeviceIndex(idx int)    { p.playDeviceIdx.Store(int32(idx)) }

// MultibandBandGainDb / SetMultibandBandGainDb access one of the nine
// fixed multiband bands' manual gain. Indices outside [0,9) are no-ops
// for Set and return 0 for Get.
func (p *SharedParams) MultibandBandGainDb(i int) float64 {
	if i < 0 || i >= len(p.multibandBandGainsDb) {
		return 0
	}
	return p.multibandBandGainsDb[i].Load()
}

func (p *SharedParams) SetMultibandBandGainDb(i int, db float64) {
	if i < 0 || i >= len(p.multibandBandGainsDb) {
		return
	}
	p.multibandBandGainsDb[i].Store(db)
}

// SetBands structurally replaces the band list. Must only be called
// while the engine is stopped or between blocks, never concurrently
// with Snapshot from the audio thread.
func (p *SharedParams) SetBands(bands []*BandParam) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bands = bands
	p.bandSnapshotScratch = make([]dsp.EqualizerBandSnapshot, len(bands))
}

// Bands returns the current band list.
func (p *SharedParams) Bands() []*BandParam {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.bands
}

// SetBandLimiterEntries structurally replaces the band limiter entries.
func (p *SharedParams) SetBandLimiterEntries(entries []dsp.BandLimiterEntrySnapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bandLimiterEntries = entries
}

func (p *SharedParams) bandLimiterSnapshot() []dsp.BandLimiterEntrySnapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.bandLimiterEntries
}

// EQEnabled / SetEQEnabled toggle the equalizer stage.
func (p *SharedParams) EQEnabled() bool       { return p.eqEnabled.Load() }
func (p *SharedParams) SetEQEnabled(v bool)   { p.eqEnabled.Store(v) }
func (p *SharedParams) PreampDb() float64     { return p.preampDb.Load() }
func (p *SharedParams) SetPreampDb(db float64) { p.preampDb.Store(db) }

// SetBassEnabled / SetTrebleEnabled toggle each tone shelf independently.
func (p *SharedParams) SetBassEnabled(v bool)   { p.bassEnabled.Store(v) }
func (p *SharedParams) SetTrebleEnabled(v bool) { p.trebleEnabled.Store(v) }
func (p *SharedParams) SetBassParams(freq, q, gainDb float64) {
	p.bassFreq.Store(freq)
	p.bassQ.Store(q)
	p.bassGainDb.Store(gainDb)
}
func (p *SharedParams) SetTrebleParams(freq, q, gainDb float64) {
	p.trebleFreq.Store(freq)
	p.trebleQ.Store(q)
	p.trebleGainDb.Store(gainDb)
}

// SetCrossover publishes the crossover section's parameters.
func (p *SharedParams) SetCrossover(enabled bool, lowFreq, highFreq float64, hpfSlope, lpfSlope int, subGainDb float64) {
	p.crossoverEnabled.Store(enabled)
	p.crossoverLowFreq.Store(lowFreq)
	p.crossoverHighFreq.Store(highFreq)
	p.crossoverHPFSlope.Store(int32(hpfSlope))
	p.crossoverLPFSlope.Store(int32(lpfSlope))
	p.crossoverSubGainDb.Store(subGainDb)
}

// SetBandLimiterEnabled toggles the band limiter stage.
func (p *SharedParams) SetBandLimiterEnabled(v bool) { p.bandLimiterEnabled.Store(v) }
func (p *SharedParams) BandLimiterEnabled() bool     { return p.bandLimiterEnabled.Load() }

// CrossoverEnabled and friends expose the crossover section for display.
func (p *SharedParams) CrossoverEnabled() bool     { return p.crossoverEnabled.Load() }
func (p *SharedParams) CrossoverLowFreq() float64  { return p.crossoverLowFreq.Load() }
func (p *SharedParams) CrossoverHighFreq() float64 { return p.crossoverHighFreq.Load() }
func (p *SharedParams) CrossoverHPFSlope() int     { return int(p.crossoverHPFSlope.Load()) }
func (p *SharedParams) CrossoverLPFSlope() int     { return int(p.crossoverLPFSlope.Load()) }
func (p *SharedParams) CrossoverSubGainDb() float64 { return p.crossoverSubGainDb.Load() }

// BassEnabled / TrebleEnabled and their parameters, for display.
func (p *SharedParams) BassEnabled() bool      { return p.bassEnabled.Load() }
func (p *SharedParams) BassFreq() float64      { return p.bassFreq.Load() }
func (p *SharedParams) BassQ() float64         { return p.bassQ.Load() }
func (p *SharedParams) BassGainDb() float64    { return p.bassGainDb.Load() }
func (p *SharedParams) TrebleEnabled() bool    { return p.trebleEnabled.Load() }
func (p *SharedParams) TrebleFreq() float64    { return p.trebleFreq.Load() }
func (p *SharedParams) TrebleQ() float64       { return p.trebleQ.Load() }
func (p *SharedParams) TrebleGainDb() float64  { return p.trebleGainDb.Load() }

// SetMultiband publishes the multiband section's scalar parameters.
func (p *SharedParams) SetMultiband(enabled, autoBalance bool, autoBalanceSpeed, compression, outputGainDb, subBassBoostDb, subBassLow, subBassHigh float64) {
	p.multibandEnabled.Store(enabled)
	p.multibandAutoBalance.Store(autoBalance)
	p.multibandAutoBalSpeed.Store(autoBalanceSpeed)
	p.multibandCompression.Store(compression)
	p.multibandOutputGainDb.Store(outputGainDb)
	p.multibandSubBassBoost.Store(subBassBoostDb)
	p.multibandSubBassLow.Store(subBassLow)
	p.multibandSubBassHigh.Store(subBassHigh)
}

// SetCompressor publishes the compressor section's parameters.
// volumeDb is authoritative; VolumeLinear() derives the linear gain on read.
func (p *SharedParams) SetCompressor(enabled bool, thresholdDb, ratio, volumeDb, makeupDb, preGainDb, kneeDb, expansionRatio, gateDb, attackMs, releaseMs, sidechainHz float64) {
	p.compressorEnabled.Store(enabled)
	p.compressorThresholdDb.Store(thresholdDb)
	p.compressorRatio.Store(ratio)
	p.compressorVolumeDb.Store(volumeDb)
	p.compressorMakeupDb.Store(makeupDb)
	p.compressorPreGainDb.Store(preGainDb)
	p.compressorKneeDb.Store(kneeDb)
	p.compressorExpansion.Store(expansionRatio)
	p.compressorGateDb.Store(gateDb)
	p.compressorAttackMs.Store(attackMs)
	p.compressorReleaseMs.Store(releaseMs)
	p.compressorSidechainHz.Store(sidechainHz)
}

// CompressorEnabled and per-field getters expose the compressor section
// for display without requiring callers to reassemble ChainParams.
func (p *SharedParams) CompressorEnabled() bool         { return p.compressorEnabled.Load() }
func (p *SharedParams) CompressorThresholdDb() float64  { return p.compressorThresholdDb.Load() }
func (p *SharedParams) CompressorRatio() float64        { return p.compressorRatio.Load() }
func (p *SharedParams) CompressorVolumeDb() float64     { return p.compressorVolumeDb.Load() }
func (p *SharedParams) CompressorMakeupDb() float64     { return p.compressorMakeupDb.Load() }
func (p *SharedParams) CompressorPreGainDb() float64    { return p.compressorPreGainDb.Load() }
func (p *SharedParams) CompressorKneeDb() float64       { return p.compressorKneeDb.Load() }
func (p *SharedParams) CompressorExpansionRatio() float64 { return p.compressorExpansion.Load() }
func (p *SharedParams) CompressorGateThresholdDb() float64 { return p.compressorGateDb.Load() }
func (p *SharedParams) CompressorAttackMs() float64     { return p.compressorAttackMs.Load() }
func (p *SharedParams) CompressorReleaseMs() float64    { return p.compressorReleaseMs.Load() }
func (p *SharedParams) CompressorSidechainHz() float64  { return p.compressorSidechainHz.Load() }

// CompressorVolumeLinear derives the compressor's linear volume from
// the authoritative VolumeDb, resolving the reference's redundant
// volume/volumeDb pair in favor of the dB value.
func (p *SharedParams) CompressorVolumeLinear() float64 {
	return math.Pow(10, p.compressorVolumeDb.Load()/20)
}

// SetReverb publishes the reverb section's parameters.
func (p *SharedParams) SetReverb(enabled bool, decayTime, hiRatio, diffusion, initialDelay, density, lpfFreq, hpfFreq, reverbDelay, balance float64) {
	p.reverbEnabled.Store(enabled)
	p.reverbDecayTime.Store(decayTime)
	p.reverbHiRatio.Store(hiRatio)
	p.reverbDiffusion.Store(diffusion)
	p.reverbInitialDelay.Store(initialDelay)
	p.reverbDensity.Store(density)
	p.reverbLpfFreq.Store(lpfFreq)
	p.reverbHpfFreq.Store(hpfFreq)
	p.reverbDelay.Store(reverbDelay)
	p.reverbBalance.Store(balance)
}

// ReverbEnabled and per-field getters expose the reverb section for display.
func (p *SharedParams) ReverbEnabled() bool        { return p.reverbEnabled.Load() }
func (p *SharedParams) ReverbDecayTime() float64   { return p.reverbDecayTime.Load() }
func (p *SharedParams) ReverbHiRatio() float64     { return p.reverbHiRatio.Load() }
func (p *SharedParams) ReverbDiffusion() float64   { return p.reverbDiffusion.Load() }
func (p *SharedParams) ReverbInitialDelay() float64 { return p.reverbInitialDelay.Load() }
func (p *SharedParams) ReverbDensity() float64     { return p.reverbDensity.Load() }
func (p *SharedParams) ReverbLpfFreq() float64     { return p.reverbLpfFreq.Load() }
func (p *SharedParams) ReverbHpfFreq() float64     { return p.reverbHpfFreq.Load() }
func (p *SharedParams) ReverbDelay() float64       { return p.reverbDelay.Load() }
func (p *SharedParams) ReverbBalance() float64     { return p.reverbBalance.Load() }

// MultibandEnabled and per-field getters expose the multiband section
// for display.
func (p *SharedParams) MultibandEnabled() bool          { return p.multibandEnabled.Load() }
func (p *SharedParams) MultibandAutoBalance() bool       { return p.multibandAutoBalance.Load() }
func (p *SharedParams) MultibandAutoBalanceSpeed() float64 { return p.multibandAutoBalSpeed.Load() }
func (p *SharedParams) MultibandCompression() float64   { return p.multibandCompression.Load() }
func (p *SharedParams) MultibandOutputGainDb() float64  { return p.multibandOutputGainDb.Load() }
func (p *SharedParams) MultibandSubBassBoostDb() float64 { return p.multibandSubBassBoost.Load() }
func (p *SharedParams) MultibandSubBassLowFreq() float64 { return p.multibandSubBassLow.Load() }
func (p *SharedParams) MultibandSubBassHighFreq() float64 { return p.multibandSubBassHigh.Load() }

// SetBypassAll makes the DSP chain pass captured audio through
// unprocessed, without tearing it down.
func (p *SharedParams) SetBypassAll(v bool) { p.bypassAll.Store(v) }
func (p *SharedParams) BypassAll() bool     { return p.bypassAll.Load() }

// SetBlockSize clamps and stores the requested block size; the engine
// reads this only while stopped.
func (p *SharedParams) SetBlockSize(n int) {
	if n < 64 {
		n = 64
	}
	if n > 16384 {
		n = 16384
	}
	p.blockSize.Store(int32(n))
}
func (p *SharedParams) BlockSize() int { return int(p.blockSize.Load()) }

// State / SetState drive the engine's visible state machine.
func (p *SharedParams) State() EngineState     { return EngineState(p.engineState.Load()) }
func (p *SharedParams) SetState(s EngineState) { p.engineState.Store(int32(s)) }

// SetInputLevels / SetOutputLevels publish the post-decay level meters.
func (p *SharedParams) SetInputLevels(l, r float64)  { p.levelInL.Store(l); p.levelInR.Store(r) }
func (p *SharedParams) SetOutputLevels(l, r float64) { p.levelOutL.Store(l); p.levelOutR.Store(r) }
func (p *SharedParams) InputLevels() (float64, float64)  { return p.levelInL.Load(), p.levelInR.Load() }
func (p *SharedParams) OutputLevels() (float64, float64) { return p.levelOutL.Load(), p.levelOutR.Load() }

// IncCapturedFrames / IncDroppedFrames / IncUnderruns / IncOverflows are
// relaxed debug counters surfaced in the status line; they are not used
// for any control-flow decision.
func (p *SharedParams) IncCapturedFrames(n uint64) { p.capturedFrames.Add(n) }
func (p *SharedParams) IncDroppedFrames(n uint64)  { p.droppedFrames.Add(n) }
func (p *SharedParams) IncUnderruns()              { p.underruns.Add(1) }
func (p *SharedParams) IncOverflows()              { p.overflows.Add(1) }
func (p *SharedParams) Counters() (captured, dropped, underruns, overflows uint64) {
	return p.capturedFrames.Load(), p.droppedFrames.Load(), p.underruns.Load(), p.overflows.Load()
}

// ChainParams assembles the current, fully-resolved dsp.ChainParams
// snapshot for one block. Called once per callback from the audio
// thread, so it fills the band snapshot scratch slice SetBands sized
// in place rather than allocating one.
func (p *SharedParams) ChainParams() dsp.ChainParams {
	p.mu.RLock()
	for i, b := range p.bands {
		p.bandSnapshotScratch[i] = b.Snapshot()
	}
	bandSnapshots := p.bandSnapshotScratch
	p.mu.RUnlock()

	var bandGains [9]float64
	for i := range bandGains {
		bandGains[i] = p.multibandBandGainsDb[i].Load()
	}

	return dsp.ChainParams{
		BypassAll: p.bypassAll.Load(),
		EQ: dsp.EQParams{
			Enabled:  p.EQEnabled(),
			PreampDb: p.PreampDb(),
			Bands:    bandSnapshots,
		},
		Tone: dsp.ToneParams{
			BassEnabled:   p.bassEnabled.Load(),
			BassFreq:      p.bassFreq.Load(),
			BassQ:         p.bassQ.Load(),
			BassGainDb:    p.bassGainDb.Load(),
			TrebleEnabled: p.trebleEnabled.Load(),
			TrebleFreq:    p.trebleFreq.Load(),
			TrebleQ:       p.trebleQ.Load(),
			TrebleGainDb:  p.trebleGainDb.Load(),
		},
		Crossover: dsp.CrossoverParams{
			Enabled:   p.crossoverEnabled.Load(),
			LowFreq:   p.crossoverLowFreq.Load(),
			HighFreq:  p.crossoverHighFreq.Load(),
			HPFSlope:  int(p.crossoverHPFSlope.Load()),
			LPFSlope:  int(p.crossoverLPFSlope.Load()),
			SubGainDb: p.crossoverSubGainDb.Load(),
		},
		BandLimiter: dsp.BandLimiterParams{
			Enabled: p.bandLimiterEnabled.Load(),
			Entries: p.bandLimiterSnapshot(),
		},
		Multiband: dsp.MultibandParams{
			Enabled:           p.multibandEnabled.Load(),
			AutoBalance:       p.multibandAutoBalance.Load(),
			AutoBalanceSpeed:  p.multibandAutoBalSpeed.Load(),
			GlobalCompression: p.multibandCompression.Load(),
			OutputGainDb:      p.multibandOutputGainDb.Load(),
			SubBassBoostDb:    p.multibandSubBassBoost.Load(),
			SubBassLowFreq:    p.multibandSubBassLow.Load(),
			SubBassHighFreq:   p.multibandSubBassHigh.Load(),
			BandGainsDb:       bandGains,
		},
		CompressorEnabled: p.compressorEnabled.Load(),
		Compressor: dsp.CompressorParams{
			ThresholdDb:     p.compressorThresholdDb.Load(),
			Ratio:           p.compressorRatio.Load(),
			Volume:          p.CompressorVolumeLinear(),
			MakeupGainDb:    p.compressorMakeupDb.Load(),
			PreGainDb:       p.compressorPreGainDb.Load(),
			KneeDb:          p.compressorKneeDb.Load(),
			ExpansionRatio:  p.compressorExpansion.Load(),
			GateThresholdDb: p.compressorGateDb.Load(),
			AttackMs:        p.compressorAttackMs.Load(),
			ReleaseMs:       p.compressorReleaseMs.Load(),
			SidechainFreqHz: p.compressorSidechainHz.Load(),
		},
		ReverbEnabled: p.reverbEnabled.Load(),
		Reverb: dsp.ReverbParams{
			DecayTime:    p.reverbDecayTime.Load(),
			HiRatio:      p.reverbHiRatio.Load(),
			Diffusion:    p.reverbDiffusion.Load(),
			InitialDelay: p.reverbInitialDelay.Load(),
			Density:      p.reverbDensity.Load(),
			LpfFreq:      p.reverbLpfFreq.Load(),
			HpfFreq:      p.reverbHpfFreq.Load(),
			ReverbDelay:  p.reverbDelay.Load(),
			Balance:      p.reverbBalance.Load(),
		},
	}
}
