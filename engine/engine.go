// Package engine owns the capture/playback loops that glue a DeviceIO
// implementation to a dsp.DSPChain through a lock-free ring buffer.
package engine

import (
	"fmt"
	"math"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/sanioo123/audio-equalizer/dsp"
	"github.com/sanioo123/audio-equalizer/params"
)

const (
	engineSampleRate = 48000
	engineChannels   = 2
	levelDecay       = 0.98
	ringBufferFrames = engineSampleRate * 2 * 2 // ~2s of headroom
)

// Engine runs one capture loop and one playback loop against a shared
// ring buffer, feeding every captured block through a DSPChain before
// it is queued for playback.
type Engine struct {
	io     DeviceIO
	chain  *dsp.DSPChain
	params *params.SharedParams
	logger *log.Logger

	ring *dsp.RingBuffer

	captureStream  Stream
	playbackStream Stream

	stopCh chan struct{}
	wg     sync.WaitGroup

	mu      sync.Mutex
	running bool

	errorDetail string
}

// New returns an Engine wired to io, chain, and the shared parameter
// block, logging through logger (typically created with
// log.New(os.Stderr) in the teacher's style).
func New(io DeviceIO, chain *dsp.DSPChain, p *params.SharedParams, logger *log.Logger) *Engine {
	return &Engine{io: io, chain: chain, params: p, logger: logger}
}

// ErrorDetail returns the human-readable cause of the most recent
// failed Start call, if any.
func (e *Engine) ErrorDetail() string { return e.errorDetail }

// Devices lists the endpoints available from the underlying DeviceIO,
// for populating a device-selection panel. If the engine is already
// running the device layer is already initialized and is queried
// directly; otherwise it is initialized and torn down just for the
// query.
func (e *Engine) Devices() ([]Device, error) {
	if e.IsRunning() {
		return e.io.Devices()
	}
	if err := e.io.Init(); err != nil {
		return nil, err
	}
	defer e.io.Terminate()
	return e.io.Devices()
}

// IsRunning reports whether capture and playback are active.
func (e *Engine) IsRunning() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// BandEnergies exposes the DSP chain's nine multiband energy readings
// for spectrum visualization.
func (e *Engine) BandEnergies() [9]float64 { return e.chain.BandEnergies() }

// GainReductionDb exposes the DSP chain's compressor gain-reduction
// reading for a status readout.
func (e *Engine) GainReductionDb() float64 { return e.chain.GainReductionDb() }

// Start opens capture (loopback) from captureIdx and playback to
// playIdx, in that order failure-safe: playback is started before
// capture so there is never a capture callback with nowhere to write,
// and any failure unwinds everything already opened.
func (e *Engine) Start(captureIdx, playIdx int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.running {
		return fmt.Errorf("engine: already running")
	}

	e.params.SetState(params.StateStarting)
	e.errorDetail = ""

	if err := e.io.Init(); err != nil {
		e.errorDetail = fmt.Sprintf("device init: %v", err)
		e.params.SetState(params.StateErrorInit)
		return fmt.Errorf("engine: %s", e.errorDetail)
	}

	blockSize := e.params.BlockSize()
	e.ring = dsp.NewRingBuffer(ringBufferFrames)

	captureBuf := make([]float32, blockSize*engineChannels)
	captureStream, err := e.io.OpenCaptureStream(captureIdx, engineSampleRate, engineChannels, blockSize, captureBuf)
	if err != nil {
		e.errorDetail = fmt.Sprintf("loopback open: %v", err)
		e.io.Terminate()
		e.ring = nil
		e.params.SetState(params.StateErrorDevice)
		return fmt.Errorf("engine: %s", e.errorDetail)
	}

	playbackBuf := make([]float32, blockSize*engineChannels)
	playbackStream, err := e.io.OpenPlaybackStream(playIdx, engineSampleRate, engineChannels, blockSize, playbackBuf)
	if err != nil {
		e.errorDetail = fmt.Sprintf("playback open: %v", err)
		captureStream.Close()
		e.io.Terminate()
		e.ring = nil
		e.params.SetState(params.StateErrorDevice)
		return fmt.Errorf("engine: %s", e.errorDetail)
	}

	if err := playbackStream.Start(); err != nil {
		e.errorDetail = fmt.Sprintf("playback start: %v", err)
		captureStream.Close()
		playbackStream.Close()
		e.io.Terminate()
		e.ring = nil
		e.params.SetState(params.StateErrorDevice)
		return fmt.Errorf("engine: %s", e.errorDetail)
	}

	if err := captureStream.Start(); err != nil {
		e.errorDetail = fmt.Sprintf("loopback start: %v", err)
		playbackStream.Stop()
		captureStream.Close()
		playbackStream.Close()
		e.io.Terminate()
		e.ring = nil
		e.params.SetState(params.StateErrorDevice)
		return fmt.Errorf("engine: %s", e.errorDetail)
	}

	e.captureStream = captureStream
	e.playbackStream = playbackStream
	e.stopCh = make(chan struct{})

	e.wg.Add(2)
	go func() { defer e.wg.Done(); e.captureLoop(captureBuf) }()
	go func() { defer e.wg.Done(); e.playbackLoop(playbackBuf) }()

	e.running = true
	e.params.SetState(params.StateRunning)
	e.logger.Info("engine started", "captureIdx", captureIdx, "playIdx", playIdx, "blockSize", blockSize)
	return nil
}

// Stop tears capture down before playback, mirroring Start's reverse
// order, then releases the ring buffer.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.running {
		return
	}

	close(e.stopCh)
	e.wg.Wait()

	if e.captureStream != nil {
		e.captureStream.Stop()
		e.captureStream.Close()
		e.captureStream = nil
	}
	if e.playbackStream != nil {
		e.playbackStream.Stop()
		e.playbackStream.Close()
		e.playbackStream = nil
	}
	e.io.Terminate()

	e.ring = nil
	e.params.SetInputLevels(0, 0)
	e.params.SetOutputLevels(0, 0)
	e.running = false
	e.params.SetState(params.StateStopped)
	e.logger.Info("engine stopped")
}

// captureLoop repeatedly fills buf from the capture stream, runs it
// through the DSP chain, updates the level meters, and writes the
// result into the ring buffer, dropping the whole block when the ring
// lacks room for it.
func (e *Engine) captureLoop(buf []float32) {
	channels := engineChannels
	decayDetect := func(buf []float32, frames, channels int) (peakL, peakR float64) {
		for i := 0; i < frames; i += 32 {
			l := math.Abs(float64(buf[i*channels]))
			if l > peakL {
				peakL = l
			}
			if channels > 1 {
				r := math.Abs(float64(buf[i*channels+1]))
				if r > peakR {
					peakR = r
				}
			}
		}
		return
	}

	var curInL, curInR, curOutL, curOutR float64

	for {
		select {
		case <-e.stopCh:
			return
		default:
		}

		if err := e.captureStream.Read(); err != nil {
			e.logger.Warn("capture read failed", "err", err)
			continue
		}

		frames := len(buf) / channels

		peakL, peakR := decayDetect(buf, frames, channels)
		curInL = math.Max(peakL, curInL*levelDecay)
		curInR = math.Max(peakR, curInR*levelDecay)
		e.params.SetInputLevels(curInL, curInR)

		e.chain.Process(buf, frames, channels, engineSampleRate, e.params.ChainParams())

		peakOutL, peakOutR := decayDetect(buf, frames, channels)
		curOutL = math.Max(peakOutL, curOutL*levelDecay)
		curOutR = math.Max(peakOutR, curOutR*levelDecay)
		e.params.SetOutputLevels(curOutL, curOutR)

		if !e.ring.Write(buf) {
			e.params.IncOverflows()
		}
		e.params.IncCapturedFrames(uint64(frames))
	}
}

// playbackLoop reads exactly len(buf) samples from the ring buffer into
// buf for every Write call; on underrun it zero-fills instead of
// blocking, so playback never stalls waiting for capture.
func (e *Engine) playbackLoop(buf []float32) {
	for {
		select {
		case <-e.stopCh:
			return
		default:
		}

		if !e.ring.Read(buf) {
			for i := range buf {
				buf[i] = 0
			}
			e.params.IncUnderruns()
		}

		if err := e.playbackStream.Write(); err != nil {
			e.logger.Warn("playback write failed", "err", err)
		}
	}
}
