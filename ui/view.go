package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sanioo123/audio-equalizer/params"
)

const panelWidth = 60 // usable inner width (66 frame - 2 border - 4 padding)

const meterBarWidth = 24

// Pre-built style for elements created per-render to avoid repeated allocation.
var activeToggle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)

// View renders the full TUI frame.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{
		m.renderTitle(),
		m.renderStatus(),
		"",
		m.renderMeters(),
		m.renderSpectrum(),
		"",
		m.renderDevices(),
		"",
		m.renderEQ(),
		"",
		m.renderTone(),
		"",
		m.renderCrossover(),
		"",
		m.renderMultiband(),
		"",
		m.renderCompressor(),
		"",
		m.renderReverb(),
		"",
		m.renderHelp(),
	}

	if m.err != nil {
		sections = append(sections, errorStyle.Render(fmt.Sprintf("ERR: %s", m.err)))
	}

	content := strings.Join(sections, "\n")
	style := frameStyle
	if m.width > 0 && m.width < panelWidth+6 {
		style = style.Width(max(20, m.width-6))
	}
	return style.Render(content)
}

func (m Model) renderTitle() string {
	return titleStyle.Render("E Q U A L I Z E R")
}

func (m Model) renderStatus() string {
	state := m.params.State()
	var status string
	switch state {
	case params.StateRunning:
		status = statusStyle.Render(" running")
	case params.StateStarting:
		status = statusStyle.Render("starting")
	default:
		status = dimStyle.Render(" " + state.String())
	}

	focusLabel := dimStyle.Render("focus: " + m.focus.label())

	captured, dropped, underruns, overflows := m.params.Counters()
	counters := dimStyle.Render(fmt.Sprintf("frames %d  drop %d  underrun %d  overflow %d",
		captured, dropped, underruns, overflows))

	left := status + "  " + focusLabel
	gap := panelWidth - lipgloss.Width(left) - lipgloss.Width(counters)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + counters
}

func levelBar(level float64, width int) string {
	level = max(0, min(1, level))
	filled := int(level * float64(width))
	style := meterStyle
	if level > 0.95 {
		style = meterClipStyle
	}
	return style.Render(strings.Repeat("█", filled)) + dimStyle.Render(strings.Repeat("░", width-filled))
}

func (m Model) renderMeters() string {
	inL, inR := m.params.InputLevels()
	outL, outR := m.params.OutputLevels()
	grDb := m.engine.GainReductionDb()

	line1 := labelStyle.Render("IN  ") + levelBar(inL, meterBarWidth) + " " + levelBar(inR, meterBarWidth)
	line2 := labelStyle.Render("OUT ") + levelBar(outL, meterBarWidth) + " " + levelBar(outR, meterBarWidth)
	line3 := labelStyle.Render("GR  ") + dimStyle.Render(fmt.Sprintf("%.1fdB", grDb))
	return line1 + "\n" + line2 + "\n" + line3
}

func (m Model) renderSpectrum() string {
	energies := m.engine.BandEnergies()
	bands := m.vis.Analyze(energies)
	return m.vis.Render(bands)
}

func panelHeader(title string, active bool) string {
	marker := "── "
	if active {
		return activeToggle.Render("▸ "+title) + dimStyle.Render(" "+strings.Repeat("─", max(0, panelWidth-len(title)-3)))
	}
	return dimStyle.Render(marker+title+" "+strings.Repeat("─", max(0, panelWidth-len(title)-len(marker)-1)))
}

func (m Model) renderDevices() string {
	header := panelHeader("Devices", m.focus == focusDevices)

	if m.deviceErr != nil {
		return header + "\n" + errorStyle.Render("  "+m.deviceErr.Error())
	}

	captureIdx := m.params.CaptureDeviceIndex()
	playIdx := m.params.PlayDeviceIndex()

	lines := []string{header}
	slot := "capture"
	if m.selectPlayback {
		slot = "playback"
	}
	lines = append(lines, dimStyle.Render("  selecting: ")+labelStyle.Render(slot))

	for i, d := range m.devices {
		prefix := "  "
		style := deviceItemStyle
		if d.Index == captureIdx {
			prefix = "C "
		}
		if d.Index == playIdx {
			if prefix == "C " {
				prefix = "CP"
			} else {
				prefix = "P "
			}
		}
		if m.focus == focusDevices && i == m.deviceCursor {
			style = deviceSelectedStyle
		}
		lines = append(lines, style.Render(fmt.Sprintf("%s %d. %s", prefix, d.Index, d.Name)))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderEQ() string {
	header := panelHeader("Equalizer", m.focus == focusEQ)
	bands := m.params.Bands()

	enableStyle := stageDisabledStyle
	enableLabel := "off"
	if m.params.EQEnabled() {
		enableStyle = stageEnabledStyle
		enableLabel = "on"
	}
	summary := labelStyle.Render("  ") + enableStyle.Render(enableLabel) +
		dimStyle.Render(fmt.Sprintf("  preamp %+.1fdB", m.params.PreampDb()))

	if len(bands) == 0 {
		return header + "\n" + summary + "\n" + dimStyle.Render("  no bands configured")
	}

	parts := make([]string, len(bands))
	for i, b := range bands {
		label := fmt.Sprintf("%.0fHz", b.FreqHz)
		style := eqInactiveStyle
		if m.focus == focusEQ && i == m.eqCursor {
			style = eqActiveStyle
			label = fmt.Sprintf("%+.1f", b.GainDb())
		}
		parts[i] = style.Render(label)
	}
	return header + "\n" + summary + "\n" + labelStyle.Render("  ") + strings.Join(parts, " ")
}

func (m Model) renderTone() string {
	header := panelHeader("Tone", m.focus == focusTone)

	bassStyle := stageDisabledStyle
	if m.params.BassEnabled() {
		bassStyle = stageEnabledStyle
	}
	trebleStyle := stageDisabledStyle
	if m.params.TrebleEnabled() {
		trebleStyle = stageEnabledStyle
	}
	if m.focus == focusTone && m.tone == toneCursorBass {
		bassStyle = eqActiveStyle
	}
	if m.focus == focusTone && m.tone == toneCursorTreble {
		trebleStyle = eqActiveStyle
	}

	bassLine := labelStyle.Render("  bass   ") + bassStyle.Render(fmt.Sprintf("%.0fHz %+.1fdB", m.params.BassFreq(), m.params.BassGainDb()))
	trebleLine := labelStyle.Render("  treble ") + trebleStyle.Render(fmt.Sprintf("%.0fHz %+.1fdB", m.params.TrebleFreq(), m.params.TrebleGainDb()))
	return header + "\n" + bassLine + "\n" + trebleLine
}

func (m Model) renderCrossover() string {
	header := panelHeader("Crossover", m.focus == focusCrossover)
	style := stageDisabledStyle
	label := "off"
	if m.params.CrossoverEnabled() {
		style = stageEnabledStyle
		label = "on"
	}
	line := labelStyle.Render("  ") + style.Render(label) +
		dimStyle.Render(fmt.Sprintf("  low %.0fHz  high %.0fHz  sub %+.1fdB",
			m.params.CrossoverLowFreq(), m.params.CrossoverHighFreq(), m.params.CrossoverSubGainDb()))
	return header + "\n" + line
}

func (m Model) renderMultiband() string {
	header := panelHeader("Multiband", m.focus == focusMultiband)

	style := stageDisabledStyle
	label := "off"
	if m.params.MultibandEnabled() {
		style = stageEnabledStyle
		label = "on"
	}
	autoLabel := "manual"
	if m.params.MultibandAutoBalance() {
		autoLabel = "auto"
	}
	summary := labelStyle.Render("  ") + style.Render(label) + dimStyle.Render("  "+autoLabel)

	parts := make([]string, 9)
	for i := 0; i < 9; i++ {
		partStyle := eqInactiveStyle
		label := fmt.Sprintf("B%d", i+1)
		if m.focus == focusMultiband && i == m.multibandCursor {
			partStyle = eqActiveStyle
			label = fmt.Sprintf("%+.1f", m.params.MultibandBandGainDb(i))
		}
		parts[i] = partStyle.Render(label)
	}
	bandsLine := labelStyle.Render("  ") + strings.Join(parts, " ")

	subStyle := dimStyle
	if m.focus == focusMultiband && m.multibandCursor == 9 {
		subStyle = eqActiveStyle
	}
	subLine := labelStyle.Render("  sub-bass ") + subStyle.Render(fmt.Sprintf("%.0f-%.0fHz boost %+.1fdB",
		m.params.MultibandSubBassLowFreq(), m.params.MultibandSubBassHighFreq(), m.params.MultibandSubBassBoostDb()))

	return strings.Join([]string{header, summary, bandsLine, subLine}, "\n")
}

func (m Model) renderCompressor() string {
	header := panelHeader("Compressor", m.focus == focusCompressor)
	style := stageDisabledStyle
	label := "off"
	if m.params.CompressorEnabled() {
		style = stageEnabledStyle
		label = "on"
	}
	line := labelStyle.Render("  ") + style.Render(label) +
		dimStyle.Render(fmt.Sprintf("  thresh %+.1fdB  ratio %.1f:1  attack %.0fms  release %.0fms",
			m.params.CompressorThresholdDb(), m.params.CompressorRatio(), m.params.CompressorAttackMs(), m.params.CompressorReleaseMs()))
	return header + "\n" + line
}

func (m Model) renderReverb() string {
	header := panelHeader("Reverb", m.focus == focusReverb)
	style := stageDisabledStyle
	label := "off"
	if m.params.ReverbEnabled() {
		style = stageEnabledStyle
		label = "on"
	}
	line := labelStyle.Render("  ") + style.Render(label) +
		dimStyle.Render(fmt.Sprintf("  decay %.1fs  balance %.0f%%  density %.0f",
			m.params.ReverbDecayTime(), m.params.ReverbBalance(), m.params.ReverbDensity()))
	return header + "\n" + line
}

func (m Model) renderHelp() string {
	return helpStyle.Render("[Spc]Start/Stop [Tab]Focus [↑↓]Select [←→]Adjust [E]Enable [Q]Quit")
}
