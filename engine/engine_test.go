package engine

import (
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"

	"github.com/sanioo123/audio-equalizer/dsp"
	"github.com/sanioo123/audio-equalizer/params"
)

type fakeStream struct {
	buf     []float32
	fillVal float32
	closed  bool
}

func (s *fakeStream) Start() error { return nil }
func (s *fakeStream) Stop() error  { return nil }
func (s *fakeStream) Close() error { s.closed = true; return nil }
func (s *fakeStream) Read() error {
	for i := range s.buf {
		s.buf[i] = s.fillVal
	}
	return nil
}
func (s *fakeStream) Write() error { return nil }

// FakeIO is a DeviceIO implementation for tests: it never touches real
// hardware, always succeeds, and fills captured buffers with a constant.
type FakeIO struct {
	FillVal float32
}

func (f *FakeIO) Init() error      { return nil }
func (f *FakeIO) Terminate() error { return nil }
func (f *FakeIO) Devices() ([]Device, error) {
	return []Device{{Index: 0, Name: "fake", MaxInputChannels: 2, MaxOutputChannels: 2}}, nil
}
func (f *FakeIO) OpenCaptureStream(deviceIdx int, sampleRate float64, channels, framesPerBuffer int, buf []float32) (Stream, error) {
	return &fakeStream{buf: buf, fillVal: f.FillVal}, nil
}
func (f *FakeIO) OpenPlaybackStream(deviceIdx int, sampleRate float64, channels, framesPerBuffer int, buf []float32) (Stream, error) {
	return &fakeStream{buf: buf}, nil
}

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestEngineStartStop(t *testing.T) {
	p := params.New()
	p.SetBlockSize(256)
	chain := dsp.NewDSPChain()
	defer chain.Close()

	e := New(&FakeIO{FillVal: 0.1}, chain, p, testLogger())

	assert.NoError(t, e.Start(0, 0))
	assert.True(t, e.IsRunning())
	assert.Equal(t, params.StateRunning, p.State())

	time.Sleep(20 * time.Millisecond)

	e.Stop()
	assert.False(t, e.IsRunning())
	assert.Equal(t, params.StateStopped, p.State())
}

func TestEngineDoubleStartFails(t *testing.T) {
	p := params.New()
	p.SetBlockSize(256)
	chain := dsp.NewDSPChain()
	defer chain.Close()

	e := New(&FakeIO{}, chain, p, testLogger())
	assert.NoError(t, e.Start(0, 0))
	defer e.Stop()

	assert.Error(t, e.Start(0, 0))
}

func TestEngineUpdatesLevelMeters(t *testing.T) {
	p := params.New()
	p.SetBlockSize(256)
	chain := dsp.NewDSPChain()
	defer chain.Close()

	e := New(&FakeIO{FillVal: 0.5}, chain, p, testLogger())
	assert.NoError(t, e.Start(0, 0))
	defer e.Stop()

	time.Sleep(30 * time.Millisecond)

	l, r := p.InputLevels()
	assert.Greater(t, l, 0.0)
	assert.Greater(t, r, 0.0)
}
