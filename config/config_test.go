package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeRaw(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	doc, err := Load(filepath.Join(t.TempDir(), "does-not-exist.json"))
	assert.Error(t, err)
	assert.Equal(t, 1024, doc.Audio.BlockSize)
	assert.False(t, doc.Compressor.Loaded)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preset.json")

	doc := Document{
		Name:   "test preset",
		Preamp: 3,
		Bands: []Band{
			{Type: 3, Frequency: 1000, Q: 1.0, Gain: 6},
		},
		Compressor:  CompressorSection{Enabled: true, ThresholdDb: -18, Ratio: 3, AttackMs: 5, ReleaseMs: 80, PreGainDb: 0, GateThresholdDb: -90, ExpansionRatio: 1},
		Tone:        ToneSection{BassFreq: 70, BassQ: 0.1, BassGainDb: 10, BassEnabled: true, TrebleFreq: 9000, TrebleQ: 0.6, TrebleGainDb: 10, TrebleEnabled: true},
		Reverb:      ReverbSection{Enabled: true, DecayTime: 1.2, Balance: 25},
		Crossover:   CrossoverSection{Enabled: true, LowFreq: 80, HighFreq: 120, HPFSlope: 12, LPFSlope: 12, SubGainDb: 6},
		BandLimiter: BandLimiterSection{Enabled: true, Entries: []BandLimiterEntry{{Active: true, LowFreq: 20, HighFreq: 100, LimitDb: -3}}},
		Multiband:   MultibandSection{Enabled: true, AutoBalance: true, AutoBalanceSpeed: 0.2, Compression: 0.4, OutputGain: 1, SubBassBoost: 8, SubBassLowFreq: 30, SubBassHighFreq: 250},
		Devices:     DeviceSection{CaptureFrom: "Speakers", PlayTo: "Headphones"},
		Audio:       AudioSection{BlockSize: 512},
	}

	assert.NoError(t, Save(path, doc))

	loaded, err := Load(path)
	assert.NoError(t, err)

	assert.Equal(t, doc.Name, loaded.Name)
	assert.Equal(t, doc.Preamp, loaded.Preamp)
	assert.Equal(t, 1, len(loaded.Bands))
	assert.Equal(t, doc.Crossover.LowFreq, loaded.Crossover.LowFreq)
	assert.Equal(t, 512, loaded.Audio.BlockSize)
	assert.True(t, loaded.Compressor.Loaded)
}

func TestLoadSkipsZeroTypeBands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preset.json")
	raw := `{"name":"x","preamp":0,"bands":[{"type":0,"frequency":100,"q":1,"gain":0},{"type":3,"frequency":200,"q":1,"gain":2}]}`
	assert.NoError(t, writeRaw(path, raw))

	doc, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(doc.Bands))
	assert.Equal(t, 200.0, doc.Bands[0].Frequency)
}

func TestLoadCrossoverSlopeBackwardCompat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preset.json")
	raw := `{"crossover":{"enabled":true,"lowFreq":50,"highFreq":100,"slope":48,"subGainDb":3}}`
	assert.NoError(t, writeRaw(path, raw))

	doc, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, 48, doc.Crossover.HPFSlope)
	assert.Equal(t, 48, doc.Crossover.LPFSlope)
}

func TestLoadBlockSizeClamped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preset.json")
	raw := `{"audio":{"blockSize":999999}}`
	assert.NoError(t, writeRaw(path, raw))

	doc, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, 16384, doc.Audio.BlockSize)
}
