package params

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDefaults(t *testing.T) {
	p := New()
	assert.True(t, p.EQEnabled())
	assert.Equal(t, 0.0, p.PreampDb())
	assert.Equal(t, 1024, p.BlockSize())
	assert.Equal(t, StateStopped, p.State())
}

func TestBandParamGainRoundTrip(t *testing.T) {
	b := NewBandParam(3, 1000, 1.0)
	b.SetGainDb(6.5)
	assert.InDelta(t, 6.5, b.GainDb(), 0.001)
}

func TestSetBandsReplacesList(t *testing.T) {
	p := New()
	assert.Empty(t, p.Bands())

	bands := []*BandParam{NewBandParam(3, 1000, 1.0), NewBandParam(1, 8000, 0.7)}
	p.SetBands(bands)
	assert.Len(t, p.Bands(), 2)
}

func TestBlockSizeClamped(t *testing.T) {
	p := New()
	p.SetBlockSize(1)
	assert.Equal(t, 64, p.BlockSize())

	p.SetBlockSize(1 << 20)
	assert.Equal(t, 16384, p.BlockSize())
}

func TestChainParamsReflectsPublishedValues(t *testing.T) {
	p := New()
	p.SetPreampDb(3)
	p.SetBands([]*BandParam{NewBandParam(3, 1000, 1.0)})
	p.Bands()[0].SetGainDb(4)

	cp := p.ChainParams()
	assert.Equal(t, 3.0, cp.EQ.PreampDb)
	assert.Len(t, cp.EQ.Bands, 1)
	assert.Equal(t, 4.0, cp.EQ.Bands[0].GainDb)
}

func TestBypassAllRoundTripsIntoChainParams(t *testing.T) {
	p := New()
	assert.False(t, p.ChainParams().BypassAll)

	p.SetBypassAll(true)
	assert.True(t, p.BypassAll())
	assert.True(t, p.ChainParams().BypassAll)
}

func TestChainParamsNoAllocationsOnceBandsAreSet(t *testing.T) {
	p := New()
	p.SetBands([]*BandParam{NewBandParam(3, 1000, 1.0), NewBandParam(1, 8000, 0.7)})

	allocs := testing.AllocsPerRun(20, func() {
		p.ChainParams()
	})
	assert.Zero(t, allocs)
}

func TestCompressorVolumeLinearDerivedFromDb(t *testing.T) {
	p := New()
	p.SetCompressor(true, -20, 4, 0, 0, 12.2, 0, 1, -90, 10, 100, 0)
	assert.InDelta(t, 1.0, p.CompressorVolumeLinear(), 0.001)

	p.SetCompressor(true, -20, 4, -6, 0, 12.2, 0, 1, -90, 10, 100, 0)
	assert.Less(t, p.CompressorVolumeLinear(), 1.0)
}

func TestMultibandBandGainRoundTrip(t *testing.T) {
	p := New()
	assert.Equal(t, 0.0, p.MultibandBandGainDb(3))

	p.SetMultibandBandGainDb(3, 4.5)
	assert.Equal(t, 4.5, p.MultibandBandGainDb(3))

	cp := p.ChainParams()
	assert.Equal(t, 4.5, cp.Multiband.BandGainsDb[3])

	// out-of-range indices are no-ops, not panics
	p.SetMultibandBandGainDb(99, 1)
	assert.Equal(t, 0.0, p.MultibandBandGainDb(99))
}

func TestDeviceIndexDefaultsToSystemDefault(t *testing.T) {
	p := New()
	assert.Equal(t, -1, p.CaptureDeviceIndex())
	assert.Equal(t, -1, p.PlayDeviceIndex())

	p.SetCaptureDeviceIndex(2)
	p.SetPlayDeviceIndex(5)
	assert.Equal(t, 2, p.CaptureDeviceIndex())
	assert.Equal(t, 5, p.PlayDeviceIndex())
}
