// Package config reads and writes the equalizer preset format: a
// single JSON document describing the EQ bands, compressor, tone,
// reverb, crossover, band limiter, multiband, device, and audio
// sections. Any section absent from the file keeps the defaults from
// defaultDocument and reports Loaded=false so the caller can tell
// "absent" from "present but matching the default."
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Band is one parametric EQ band. Type follows the original numbering:
// 1=HighShelf, 2=LowShelf, 3=PeakingEQ, 4=BandPass, 5=HighPass, 6=LowPass.
// A band with Type 0 is skipped entirely on load (matches the
// reference's "type != 0" filter).
type Band struct {
	Type      int     `json:"type"`
	Channels  int     `json:"channels,omitempty"`
	Frequency float64 `json:"frequency"`
	Q         float64 `json:"q"`
	Gain      float64 `json:"gain"`
	Color     int     `json:"color,omitempty"`
}

// CompressorSection is the "compressor" object.
type CompressorSection struct {
	Enabled         bool    `json:"enabled"`
	ThresholdDb     float64 `json:"threshold"`
	Ratio           float64 `json:"ratio"`
	AttackMs        float64 `json:"attackMs"`
	ReleaseMs       float64 `json:"releaseMs"`
	SidechainFreqHz float64 `json:"sidechainFreqHz"`
	MakeupGainDb    float64 `json:"makeupGainDb"`
	VolumeDb        float64 `json:"volumeDb"`
	PreGainDb       float64 `json:"preGainDb"`
	KneeDb          float64 `json:"kneeDb"`
	ExpansionRatio  float64 `json:"expansionRatio"`
	GateThresholdDb float64 `json:"gateThresholdDb"`
	Loaded          bool    `json:"-"`
}

// ToneSection is the "tone" object.
type ToneSection struct {
	BassFreq      float64 `json:"bassFreq"`
	BassQ         float64 `json:"bassQ"`
	BassGainDb    float64 `json:"bassGainDb"`
	BassEnabled   bool    `json:"bassEnabled"`
	TrebleFreq    float64 `json:"trebleFreq"`
	TrebleQ       float64 `json:"trebleQ"`
	TrebleGainDb  float64 `json:"trebleGainDb"`
	TrebleEnabled bool    `json:"trebleEnabled"`
	Loaded        bool    `json:"-"`
}

// ReverbSection is the "reverb" object.
type ReverbSection struct {
	Enabled      bool    `json:"enabled"`
	DecayTime    float64 `json:"decayTime"`
	HiRatio      float64 `json:"hiRatio"`
	Diffusion    float64 `json:"diffusion"`
	InitialDelay float64 `json:"initialDelay"`
	Density      float64 `json:"density"`
	LpfFreq      float64 `json:"lpfFreq"`
	HpfFreq      float64 `json:"hpfFreq"`
	ReverbDelay  float64 `json:"reverbDelay"`
	Balance      float64 `json:"balance"`
	Loaded       bool    `json:"-"`
}

// CrossoverSection is the "crossover" object. Slope is accepted as a
// backward-compat alias: if present and hpfSlope/lpfSlope are absent,
// it sets both.
type CrossoverSection struct {
	Enabled    bool    `json:"enabled"`
	LpfEnabled bool    `json:"lpfEnabled"`
	LowFreq    float64 `json:"lowFreq"`
	HighFreq   float64 `json:"highFreq"`
	HPFSlope   int     `json:"hpfSlope"`
	LPFSlope   int     `json:"lpfSlope"`
	SubGainDb  float64 `json:"subGainDb"`
	Loaded     bool    `json:"-"`
}

// BandLimiterEntry is one entry in the "bandLimiter.entries" array.
type BandLimiterEntry struct {
	Active   bool    `json:"active"`
	LowFreq  float64 `json:"lowFreq"`
	HighFreq float64 `json:"highFreq"`
	LimitDb  float64 `json:"limitDb"`
}

// BandLimiterSection is the "bandLimiter" object.
type BandLimiterSection struct {
	Enabled bool               `json:"enabled"`
	Entries []BandLimiterEntry `json:"entries"`
	Loaded  bool               `json:"-"`
}

// MultibandSection is the "multiband" object.
type MultibandSection struct {
	Enabled          bool    `json:"enabled"`
	AutoBalance      bool    `json:"autoBalance"`
	AutoBalanceSpeed float64 `json:"autoBalanceSpeed"`
	Compression      float64 `json:"compression"`
	OutputGain       float64 `json:"outputGain"`
	ExciterAmount    float64 `json:"exciterAmount"`
	SubBassBoost     float64 `json:"subBassBoost"`
	SubBassLowFreq   float64 `json:"subBassLowFreq"`
	SubBassHighFreq  float64 `json:"subBassHighFreq"`
	Loaded           bool    `json:"-"`
}

// DeviceSection is the "devices" object.
type DeviceSection struct {
	CaptureFrom string `json:"captureFrom"`
	PlayTo      string `json:"playTo"`
	Loaded      bool   `json:"-"`
}

// AudioSection is the "audio" object. BlockSize is clamped to
// [64, 16384] on load.
type AudioSection struct {
	BlockSize int  `json:"blockSize"`
	Loaded    bool `json:"-"`
}

// rawDocument mirrors the on-disk JSON shape exactly, including the
// top-level EQ fields that have no wrapper object.
type rawDocument struct {
	Name        string              `json:"name"`
	Preamp      float64             `json:"preamp"`
	Parametric  bool                `json:"parametric"`
	Bands       []Band              `json:"bands"`
	Compressor  *CompressorSection  `json:"compressor"`
	Tone        *ToneSection        `json:"tone"`
	Reverb      *ReverbSection      `json:"reverb"`
	Crossover   *rawCrossover       `json:"crossover"`
	BandLimiter *BandLimiterSection `json:"bandLimiter"`
	Multiband   *MultibandSection   `json:"multiband"`
	Devices     *DeviceSection      `json:"devices"`
	Audio       *AudioSection       `json:"audio"`
}

// rawCrossover adds the legacy "slope" alias field that CrossoverSection
// does not carry in its own JSON tags (it is folded into HPFSlope/LPFSlope
// during load instead).
type rawCrossover struct {
	CrossoverSection
	Slope *int `json:"slope"`
}

// Document is the fully parsed preset: every section, each reporting
// whether it was actually present in the source file.
type Document struct {
	Name        string
	Preamp      float64
	Bands       []Band
	Compressor  CompressorSection
	Tone        ToneSection
	Reverb      ReverbSection
	Crossover   CrossoverSection
	BandLimiter BandLimiterSection
	Multiband   MultibandSection
	Devices     DeviceSection
	Audio       AudioSection
}

// defaultDocument mirrors the reference's struct default member
// initializers. Load starts from it; a section present in the file
// replaces that whole section, so a field missing from a present
// section takes its zero value rather than its default (the ratio,
// attack/release and blockSize clamps in Load still apply).
func defaultDocument() Document {
	return Document{
		Compressor: CompressorSection{
			Enabled: true, ThresholdDb: -20, Ratio: 4, AttackMs: 10, ReleaseMs: 100,
			PreGainDb: 12.2, GateThresholdDb: -90, ExpansionRatio: 1,
		},
		Tone: ToneSection{
			BassFreq: 70, BassQ: 0.10, BassGainDb: 20, BassEnabled: true,
			TrebleFreq: 10000, TrebleQ: 0.60, TrebleGainDb: 20, TrebleEnabled: true,
		},
		Reverb: ReverbSection{
			Enabled: true, DecayTime: 0.9, HiRatio: 0.7, Diffusion: 0.9,
			InitialDelay: 26, Density: 3, LpfFreq: 11000, HpfFreq: 90,
			ReverbDelay: 17, Balance: 20,
		},
		Crossover: CrossoverSection{
			Enabled: true, LowFreq: 30, HighFreq: 70, HPFSlope: 24, LPFSlope: 24, SubGainDb: 6,
		},
		Multiband: MultibandSection{
			AutoBalance: true, AutoBalanceSpeed: 0.1, Compression: 0.5,
			ExciterAmount: 0.3, SubBassBoost: 10, SubBassLowFreq: 30, SubBassHighFreq: 250,
		},
		Audio: AudioSection{BlockSize: 1024},
	}
}

// Load reads and parses a preset file at path. A missing or malformed
// file is reported as an error wrapping the underlying cause, alongside
// the default Document, since preset loading is a control-path
// operation that fails fast rather than falling back silently.
func Load(path string) (Document, error) {
	doc := defaultDocument()

	data, err := os.ReadFile(path)
	if err != nil {
		return doc, fmt.Errorf("config: read %s: %w", path, err)
	}

	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return doc, fmt.Errorf("config: parse %s: %w", path, err)
	}

	doc.Name = raw.Name
	doc.Preamp = raw.Preamp

	doc.Bands = doc.Bands[:0]
	for _, b := range raw.Bands {
		if b.Type == 0 {
			continue
		}
		doc.Bands = append(doc.Bands, b)
	}

	if raw.Compressor != nil {
		doc.Compressor = *raw.Compressor
		doc.Compressor.Ratio = max64(1, doc.Compressor.Ratio)
		doc.Compressor.ExpansionRatio = max64(1, doc.Compressor.ExpansionRatio)
		doc.Compressor.AttackMs = max64(0.01, doc.Compressor.AttackMs)
		doc.Compressor.ReleaseMs = max64(0.01, doc.Compressor.ReleaseMs)
		doc.Compressor.Loaded = true
	}
	if raw.Tone != nil {
		doc.Tone = *raw.Tone
		doc.Tone.Loaded = true
	}
	if raw.Reverb != nil {
		doc.Reverb = *raw.Reverb
		doc.Reverb.Loaded = true
	}
	if raw.Crossover != nil {
		doc.Crossover = raw.Crossover.CrossoverSection
		if raw.Crossover.Slope != nil {
			if raw.Crossover.HPFSlope == 0 {
				doc.Crossover.HPFSlope = *raw.Crossover.Slope
			}
			if raw.Crossover.LPFSlope == 0 {
				doc.Crossover.LPFSlope = *raw.Crossover.Slope
			}
		}
		doc.Crossover.Loaded = true
	}
	if raw.BandLimiter != nil {
		doc.BandLimiter = *raw.BandLimiter
		doc.BandLimiter.Loaded = true
	}
	if raw.Multiband != nil {
		doc.Multiband = *raw.Multiband
		doc.Multiband.Loaded = true
	}
	if raw.Devices != nil {
		doc.Devices = *raw.Devices
		doc.Devices.Loaded = true
	}
	if raw.Audio != nil {
		doc.Audio = *raw.Audio
		if doc.Audio.BlockSize < 64 {
			doc.Audio.BlockSize = 64
		}
		if doc.Audio.BlockSize > 16384 {
			doc.Audio.BlockSize = 16384
		}
		doc.Audio.Loaded = true
	}

	return doc, nil
}

// Save serializes doc to path as indented JSON, matching the field
// order and section layout of the reference writer.
func Save(path string, doc Document) error {
	out := struct {
		Name        string              `json:"name"`
		Preamp      float64             `json:"preamp"`
		Parametric  bool                `json:"parametric"`
		Bands       []Band              `json:"bands"`
		Compressor  CompressorSection   `json:"compressor"`
		Reverb      ReverbSection       `json:"reverb"`
		Crossover   CrossoverSection    `json:"crossover"`
		BandLimiter BandLimiterSection  `json:"bandLimiter"`
		Tone        ToneSection         `json:"tone"`
		Multiband   MultibandSection    `json:"multiband"`
		Devices     DeviceSection       `json:"devices"`
		Audio       AudioSection        `json:"audio"`
	}{
		Name: doc.Name, Preamp: doc.Preamp, Parametric: true,
		Bands: doc.Bands, Compressor: doc.Compressor, Reverb: doc.Reverb,
		Crossover: doc.Crossover, BandLimiter: doc.BandLimiter, Tone: doc.Tone,
		Multiband: doc.Multiband, Devices: doc.Devices, Audio: doc.Audio,
	}

	data, err := json.MarshalIndent(out, "", "\t")
	if err != nil {
		return fmt.Errorf("config: marshal %s: %w", path, err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

func max64(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
