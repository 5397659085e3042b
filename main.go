// Package main is the entry point for the real-time loopback equalizer.
package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/sanioo123/audio-equalizer/config"
	"github.com/sanioo123/audio-equalizer/dsp"
	"github.com/sanioo123/audio-equalizer/engine"
	"github.com/sanioo123/audio-equalizer/params"
	"github.com/sanioo123/audio-equalizer/ui"
)

func run() error {
	presetPath := flag.String("preset", "equalizer.json", "path to the preset file to load and save")
	captureIdx := flag.Int("capture", -1, "capture device index (-1 for system default)")
	playIdx := flag.Int("play", -1, "playback device index (-1 for system default)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: audio-equalizer [flags]\n\nFlags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	logger := log.New(os.Stderr)

	doc, err := config.Load(*presetPath)
	if err != nil {
		logger.Warn("preset not loaded, using defaults", "path", *presetPath, "err", err)
	}

	p := applyDocument(doc, params.New())
	if *captureIdx >= 0 {
		p.SetCaptureDeviceIndex(*captureIdx)
	}
	if *playIdx >= 0 {
		p.SetPlayDeviceIndex(*playIdx)
	}

	chain := dsp.NewDSPChain()
	defer chain.Close()

	eng := engine.New(engine.PortAudioIO{}, chain, p, logger)
	defer eng.Stop()

	m := ui.NewModel(p, eng, logger)
	prog := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := prog.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}

	if err := config.Save(*presetPath, documentFromParams(p)); err != nil {
		logger.Warn("preset not saved", "path", *presetPath, "err", err)
	}

	return nil
}

// applyDocument seeds a fresh SharedParams with a loaded preset's
// values, returning p for chaining.
func applyDocument(doc config.Document, p *params.SharedParams) *params.SharedParams {
	p.SetPreampDb(doc.Preamp)

	bands := make([]*params.BandParam, len(doc.Bands))
	for i, b := range doc.Bands {
		bp := params.NewBandParam(b.Type, b.Frequency, b.Q)
		bp.SetGainDb(b.Gain)
		bands[i] = bp
	}
	p.SetBands(bands)

	p.SetBassEnabled(doc.Tone.BassEnabled)
	p.SetTrebleEnabled(doc.Tone.TrebleEnabled)
	p.SetBassParams(doc.Tone.BassFreq, doc.Tone.BassQ, doc.Tone.BassGainDb)
	p.SetTrebleParams(doc.Tone.TrebleFreq, doc.Tone.TrebleQ, doc.Tone.TrebleGainDb)

	p.SetCrossover(doc.Crossover.Enabled, doc.Crossover.LowFreq, doc.Crossover.HighFreq,
		doc.Crossover.HPFSlope, doc.Crossover.LPFSlope, doc.Crossover.SubGainDb)

	p.SetBandLimiterEnabled(doc.BandLimiter.Enabled)
	entries := make([]dsp.BandLimiterEntrySnapshot, len(doc.BandLimiter.Entries))
	for i, e := range doc.BandLimiter.Entries {
		entries[i] = dsp.BandLimiterEntrySnapshot{Active: e.Active, LowFreq: e.LowFreq, HighFreq: e.HighFreq, LimitDb: e.LimitDb}
	}
	p.SetBandLimiterEntries(entries)

	p.SetMultiband(doc.Multiband.Enabled, doc.Multiband.AutoBalance, doc.Multiband.AutoBalanceSpeed,
		doc.Multiband.Compression, doc.Multiband.OutputGain, doc.Multiband.SubBassBoost,
		doc.Multiband.SubBassLowFreq, doc.Multiband.SubBassHighFreq)

	p.SetCompressor(doc.Compressor.Enabled, doc.Compressor.ThresholdDb, doc.Compressor.Ratio,
		doc.Compressor.VolumeDb, doc.Compressor.MakeupGainDb, doc.Compressor.PreGainDb,
		doc.Compressor.KneeDb, doc.Compressor.ExpansionRatio, doc.Compressor.GateThresholdDb,
		doc.Compressor.AttackMs, doc.Compressor.ReleaseMs, doc.Compressor.SidechainFreqHz)

	p.SetReverb(doc.Reverb.Enabled, doc.Reverb.DecayTime, doc.Reverb.HiRatio, doc.Reverb.Diffusion,
		doc.Reverb.InitialDelay, doc.Reverb.Density, doc.Reverb.LpfFreq, doc.Reverb.HpfFreq,
		doc.Reverb.ReverbDelay, doc.Reverb.Balance)

	p.SetBlockSize(doc.Audio.BlockSize)

	return p
}

// documentFromParams captures the live parameter state back into a
// config.Document suitable for config.Save.
func documentFromParams(p *params.SharedParams) config.Document {
	bands := p.Bands()
	docBands := make([]config.Band, len(bands))
	for i, b := range bands {
		docBands[i] = config.Band{Type: b.Type, Frequency: b.FreqHz, Q: b.Q, Gain: b.GainDb()}
	}

	return config.Document{
		Preamp: p.PreampDb(),
		Bands:  docBands,
		Compressor: config.CompressorSection{
			Enabled: p.CompressorEnabled(), ThresholdDb: p.CompressorThresholdDb(), Ratio: p.CompressorRatio(),
			AttackMs: p.CompressorAttackMs(), ReleaseMs: p.CompressorReleaseMs(), SidechainFreqHz: p.CompressorSidechainHz(),
			MakeupGainDb: p.CompressorMakeupDb(), VolumeDb: p.CompressorVolumeDb(), PreGainDb: p.CompressorPreGainDb(),
			KneeDb: p.CompressorKneeDb(), ExpansionRatio: p.CompressorExpansionRatio(), GateThresholdDb: p.CompressorGateThresholdDb(),
		},
		Tone: config.ToneSection{
			BassFreq: p.BassFreq(), BassQ: p.BassQ(), BassGainDb: p.BassGainDb(), BassEnabled: p.BassEnabled(),
			TrebleFreq: p.TrebleFreq(), TrebleQ: p.TrebleQ(), TrebleGainDb: p.TrebleGainDb(), TrebleEnabled: p.TrebleEnabled(),
		},
		Reverb: config.ReverbSection{
			Enabled: p.ReverbEnabled(), DecayTime: p.ReverbDecayTime(), HiRatio: p.ReverbHiRatio(),
			Diffusion: p.ReverbDiffusion(), InitialDelay: p.ReverbInitialDelay(), Density: p.ReverbDensity(),
			LpfFreq: p.ReverbLpfFreq(), HpfFreq: p.ReverbHpfFreq(), ReverbDelay: p.ReverbDelay(), Balance: p.ReverbBalance(),
		},
		Crossover: config.CrossoverSection{
			Enabled: p.CrossoverEnabled(), LowFreq: p.CrossoverLowFreq(), HighFreq: p.CrossoverHighFreq(),
			HPFSlope: p.CrossoverHPFSlope(), LPFSlope: p.CrossoverLPFSlope(), SubGainDb: p.CrossoverSubGainDb(),
		},
		Multiband: config.MultibandSection{
			Enabled: p.MultibandEnabled(), AutoBalance: p.MultibandAutoBalance(), AutoBalanceSpeed: p.MultibandAutoBalanceSpeed(),
			Compression: p.MultibandCompression(), OutputGain: p.MultibandOutputGainDb(), SubBassBoost: p.MultibandSubBassBoostDb(),
			SubBassLowFreq: p.MultibandSubBassLowFreq(), SubBassHighFreq: p.MultibandSubBassHighFreq(),
		},
		BandLimiter: config.BandLimiterSection{Enabled: p.BandLimiterEnabled(), Entries: bandLimiterEntries(p)},
		Audio:       config.AudioSection{BlockSize: p.BlockSize()},
	}
}

func bandLimiterEntries(p *params.SharedParams) []config.BandLimiterEntry {
	snaps := p.ChainParams().BandLimiter.Entries
	entries := make([]config.BandLimiterEntry, len(snaps))
	for i, s := range snaps {
		entries[i] = config.BandLimiterEntry{Active: s.Active, LowFreq: s.LowFreq, HighFreq: s.HighFreq, LimitDb: s.LimitDb}
	}
	return entries
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
