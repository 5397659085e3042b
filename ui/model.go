// Package ui implements the Bubbletea TUI for the audio equalizer.
package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/sanioo123/audio-equalizer/engine"
	"github.com/sanioo123/audio-equalizer/params"
)

type focusArea int

const (
	focusDevices focusArea = iota
	focusEQ
	focusTone
	focusCrossover
	focusMultiband
	focusCompressor
	focusReverb
	focusAreaCount
)

func (f focusArea) label() string {
	switch f {
	case focusDevices:
		return "Devices"
	case focusEQ:
		return "Equalizer"
	case focusTone:
		return "Tone"
	case focusCrossover:
		return "Crossover"
	case focusMultiband:
		return "Multiband"
	case focusCompressor:
		return "Compressor"
	case focusReverb:
		return "Reverb"
	default:
		return ""
	}
}

type tickMsg time.Time

// toneCursor selects which of the tone stage's two shelves is edited.
type toneCursor int

const (
	toneCursorBass toneCursor = iota
	toneCursorTreble
)

// Model is the Bubbletea model for the equalizer TUI. It holds no DSP
// state of its own: every edit and every parameter reading flows
// through SharedParams (gain reduction and band energies are read from
// the Engine), and the audio thread picks up edits on its own next
// block without the UI ever touching the chain directly.
type Model struct {
	params *params.SharedParams
	engine *engine.Engine
	vis    *Visualizer
	logger *log.Logger

	devices        []engine.Device
	deviceErr      error
	deviceCursor   int
	selectPlayback bool // false: cursor picks capture device; true: playback

	focus           focusArea
	eqCursor        int
	tone            toneCursor
	multibandCursor int // 0..8 select a band, 9 selects sub-bass range

	err      error
	quitting bool
	width    int
	height   int
}

// NewModel creates a Model wired to the given shared parameter block
// and audio engine.
func NewModel(p *params.SharedParams, eng *engine.Engine, logger *log.Logger) Model {
	m := Model{
		params: p,
		engine: eng,
		vis:    NewVisualizer(48000),
		logger: logger,
	}
	m.refreshDevices()
	return m
}

func (m *Model) refreshDevices() {
	devs, err := m.engine.Devices()
	m.devices = devs
	m.deviceErr = err
}

// Init starts the tick timer and requests the terminal size.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), tea.WindowSize())
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*50, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages: key presses, ticks, and window resizes.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmd := m.handleKey(msg)
		if m.quitting {
			return m, tea.Quit
		}
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tickMsg:
		return m, tickCmd()
	}

	return m, nil
}

// handleKey dispatches a key press to the focused panel's handler, plus
// the global bindings (quit, toggle engine, change focus).
func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c", "q":
		m.stopEngine()
		m.quitting = true
		return nil
	case "tab":
		m.focus = (m.focus + 1) % focusAreaCount
		return nil
	case "shift+tab":
		m.focus = (m.focus - 1 + focusAreaCount) % focusAreaCount
		return nil
	case " ":
		m.toggleEngine()
		return nil
	}

	switch m.focus {
	case focusDevices:
		m.handleDevicesKey(msg)
	case focusEQ:
		m.handleEQKey(msg)
	case focusTone:
		m.handleToneKey(msg)
	case focusCrossover:
		m.handleCrossoverKey(msg)
	case focusMultiband:
		m.handleMultibandKey(msg)
	case focusCompressor:
		m.handleCompressorKey(msg)
	case focusReverb:
		m.handleReverbKey(msg)
	}
	return nil
}

func (m *Model) toggleEngine() {
	if m.engine.IsRunning() {
		m.stopEngine()
		return
	}
	captureIdx := m.params.CaptureDeviceIndex()
	playIdx := m.params.PlayDeviceIndex()
	if err := m.engine.Start(captureIdx, playIdx); err != nil {
		m.err = err
		m.logger.Warn("engine start failed", "err", err)
	}
}

func (m *Model) stopEngine() {
	if m.engine.IsRunning() {
		m.engine.Stop()
	}
}

func (m *Model) handleDevicesKey(msg tea.KeyMsg) {
	switch msg.String() {
	case "up", "k":
		if m.deviceCursor > 0 {
			m.deviceCursor--
		}
	case "down", "j":
		if m.deviceCursor < len(m.devices)-1 {
			m.deviceCursor++
		}
	case "left", "right":
		m.selectPlayback = !m.selectPlayback
	case "enter":
		if m.deviceCursor < 0 || m.deviceCursor >= len(m.devices) {
			return
		}
		idx := m.devices[m.deviceCursor].Index
		if m.selectPlayback {
			m.params.SetPlayDeviceIndex(idx)
		} else {
			m.params.SetCaptureDeviceIndex(idx)
		}
	case "r":
		m.refreshDevices()
	}
}

func (m *Model) handleEQKey(msg tea.KeyMsg) {
	bands := m.params.Bands()
	switch msg.String() {
	case "up", "k":
		if m.eqCursor > 0 {
			m.eqCursor--
		}
	case "down", "j":
		if m.eqCursor < len(bands)-1 {
			m.eqCursor++
		}
	case "left", "-":
		if m.eqCursor < len(bands) {
			adjustGain(bands[m.eqCursor], -0.5)
		}
	case "right", "+", "=":
		if m.eqCursor < len(bands) {
			adjustGain(bands[m.eqCursor], 0.5)
		}
	case "e":
		m.params.SetEQEnabled(!m.params.EQEnabled())
	case "[":
		m.params.SetPreampDb(m.params.PreampDb() - 0.5)
	case "]":
		m.params.SetPreampDb(m.params.PreampDb() + 0.5)
	}
}

func adjustGain(b *params.BandParam, delta float64) {
	g := b.GainDb() + delta
	g = clampDb(g)
	b.SetGainDb(g)
}

func clampDb(db float64) float64 {
	if db < -24 {
		return -24
	}
	if db > 24 {
		return 24
	}
	return db
}

func (m *Model) handleToneKey(msg tea.KeyMsg) {
	switch msg.String() {
	case "up", "k":
		m.tone = toneCursorBass
	case "down", "j":
		m.tone = toneCursorTreble
	case "e":
		if m.tone == toneCursorBass {
			m.params.SetBassEnabled(!m.params.BassEnabled())
		} else {
			m.params.SetTrebleEnabled(!m.params.TrebleEnabled())
		}
	case "left", "-":
		m.adjustToneGain(-0.5)
	case "right", "+", "=":
		m.adjustToneGain(0.5)
	}
}

func (m *Model) adjustToneGain(delta float64) {
	if m.tone == toneCursorBass {
		g := clampDb(m.params.BassGainDb() + delta)
		m.params.SetBassParams(m.params.BassFreq(), m.params.BassQ(), g)
		return
	}
	g := clampDb(m.params.TrebleGainDb() + delta)
	m.params.SetTrebleParams(m.params.TrebleFreq(), m.params.TrebleQ(), g)
}

func (m *Model) handleCrossoverKey(msg tea.KeyMsg) {
	switch msg.String() {
	case "e":
		m.params.SetCrossover(!m.params.CrossoverEnabled(), m.params.CrossoverLowFreq(), m.params.CrossoverHighFreq(),
			m.params.CrossoverHPFSlope(), m.params.CrossoverLPFSlope(), m.params.CrossoverSubGainDb())
	case "left", "-":
		db := clampDb(m.params.CrossoverSubGainDb() - 0.5)
		m.params.SetCrossover(m.params.CrossoverEnabled(), m.params.CrossoverLowFreq(), m.params.CrossoverHighFreq(),
			m.params.CrossoverHPFSlope(), m.params.CrossoverLPFSlope(), db)
	case "right", "+", "=":
		db := clampDb(m.params.CrossoverSubGainDb() + 0.5)
		m.params.SetCrossover(m.params.CrossoverEnabled(), m.params.CrossoverLowFreq(), m.params.CrossoverHighFreq(),
			m.params.CrossoverHPFSlope(), m.params.CrossoverLPFSlope(), db)
	}
}

func (m *Model) handleMultibandKey(msg tea.KeyMsg) {
	const subBassCursor = 9
	switch msg.String() {
	case "up", "k":
		if m.multibandCursor > 0 {
			m.multibandCursor--
		}
	case "down", "j":
		if m.multibandCursor < subBassCursor {
			m.multibandCursor++
		}
	case "e":
		m.params.SetMultiband(!m.params.MultibandEnabled(), m.params.MultibandAutoBalance(),
			m.params.MultibandAutoBalanceSpeed(), m.params.MultibandCompression(), m.params.MultibandOutputGainDb(),
			m.params.MultibandSubBassBoostDb(), m.params.MultibandSubBassLowFreq(), m.params.MultibandSubBassHighFreq())
	case "a":
		m.params.SetMultiband(m.params.MultibandEnabled(), !m.params.MultibandAutoBalance(),
			m.params.MultibandAutoBalanceSpeed(), m.params.MultibandCompression(), m.params.MultibandOutputGainDb(),
			m.params.MultibandSubBassBoostDb(), m.params.MultibandSubBassLowFreq(), m.params.MultibandSubBassHighFreq())
	case "left", "-":
		if m.multibandCursor == subBassCursor {
			db := clampDb(m.params.MultibandSubBassBoostDb() - 0.5)
			m.params.SetMultiband(m.params.MultibandEnabled(), m.params.MultibandAutoBalance(),
				m.params.MultibandAutoBalanceSpeed(), m.params.MultibandCompression(), m.params.MultibandOutputGainDb(),
				db, m.params.MultibandSubBassLowFreq(), m.params.MultibandSubBassHighFreq())
			return
		}
		g := clampDb(m.params.MultibandBandGainDb(m.multibandCursor) - 0.5)
		m.params.SetMultibandBandGainDb(m.multibandCursor, g)
	case "right", "+", "=":
		if m.multibandCursor == subBassCursor {
			db := clampDb(m.params.MultibandSubBassBoostDb() + 0.5)
			m.params.SetMultiband(m.params.MultibandEnabled(), m.params.MultibandAutoBalance(),
				m.params.MultibandAutoBalanceSpeed(), m.params.MultibandCompression(), m.params.MultibandOutputGainDb(),
				db, m.params.MultibandSubBassLowFreq(), m.params.MultibandSubBassHighFreq())
			return
		}
		g := clampDb(m.params.MultibandBandGainDb(m.multibandCursor) + 0.5)
		m.params.SetMultibandBandGainDb(m.multibandCursor, g)
	}
}

func (m *Model) handleCompressorKey(msg tea.KeyMsg) {
	switch msg.String() {
	case "e":
		m.setCompressorEnabled(!m.params.CompressorEnabled())
	case "left", "-":
		m.setCompressorThreshold(m.params.CompressorThresholdDb() - 1)
	case "right", "+", "=":
		m.setCompressorThreshold(m.params.CompressorThresholdDb() + 1)
	}
}

func (m *Model) setCompressorEnabled(v bool) {
	p := m.params
	p.SetCompressor(v, p.CompressorThresholdDb(), p.CompressorRatio(), p.CompressorVolumeDb(), p.CompressorMakeupDb(),
		p.CompressorPreGainDb(), p.CompressorKneeDb(), p.CompressorExpansionRatio(), p.CompressorGateThresholdDb(),
		p.CompressorAttackMs(), p.CompressorReleaseMs(), p.CompressorSidechainHz())
}

func (m *Model) setCompressorThreshold(db float64) {
	if db < -60 {
		db = -60
	}
	if db > 0 {
		db = 0
	}
	p := m.params
	p.SetCompressor(p.CompressorEnabled(), db, p.CompressorRatio(), p.CompressorVolumeDb(), p.CompressorMakeupDb(),
		p.CompressorPreGainDb(), p.CompressorKneeDb(), p.CompressorExpansionRatio(), p.CompressorGateThresholdDb(),
		p.CompressorAttackMs(), p.CompressorReleaseMs(), p.CompressorSidechainHz())
}

func (m *Model) handleReverbKey(msg tea.KeyMsg) {
	switch msg.String() {
	case "e":
		m.setReverbEnabled(!m.params.ReverbEnabled())
	case "left", "-":
		m.setReverbBalance(m.params.ReverbBalance() - 5)
	case "right", "+", "=":
		m.setReverbBalance(m.params.ReverbBalance() + 5)
	}
}

func (m *Model) setReverbEnabled(v bool) {
	p := m.params
	p.SetReverb(v, p.ReverbDecayTime(), p.ReverbHiRatio(), p.ReverbDiffusion(), p.ReverbInitialDelay(), p.ReverbDensity(),
		p.ReverbLpfFreq(), p.ReverbHpfFreq(), p.ReverbDelay(), p.ReverbBalance())
}

func (m *Model) setReverbBalance(balance float64) {
	if balance < 0 {
		balance = 0
	}
	if balance > 100 {
		balance = 100
	}
	p := m.params
	p.SetReverb(p.ReverbEnabled(), p.ReverbDecayTime(), p.ReverbHiRatio(), p.ReverbDiffusion(), p.ReverbInitialDelay(),
		p.ReverbDensity(), p.ReverbLpfFreq(), p.ReverbHpfFreq(), p.ReverbDelay(), balance)
}
