package ui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	numBands = 9
	barWidth = 5 // character width of each spectrum bar
)

// Unicode block elements for bar height (9 levels including space)
var barBlocks = []string{" ", "▁", "▂", "▃", "▄", "▅", "▆", "▇", "█"}

// Pre-built styles for spectrum bar colors to avoid per-frame allocation.
var (
	specLowStyle  = lipgloss.NewStyle().Foreground(spectrumLow)
	specMidStyle  = lipgloss.NewStyle().Foreground(spectrumMid)
	specHighStyle = lipgloss.NewStyle().Foreground(spectrumHigh)
)

// Visualizer turns the multiband stage's smoothed energy readings into
// spectrum bars. Unlike the original player visualizer it performs no
// FFT of its own: the DSP chain's own analyzer already produced these
// nine band energies, so reusing them avoids a redundant transform.
type Visualizer struct {
	prev [numBands]float64 // previous frame for temporal smoothing
}

// NewVisualizer creates a Visualizer. The sample rate argument is kept
// for API continuity but no longer used internally.
func NewVisualizer(sampleRate float64) *Visualizer {
	return &Visualizer{}
}

// Analyze converts raw band energies into normalized, smoothed 0-1
// levels with fast attack / slow decay, matching the original
// visualizer's temporal smoothing behavior.
func (v *Visualizer) Analyze(energies [numBands]float64) [numBands]float64 {
	var bands [numBands]float64
	for b := range numBands {
		level := 0.0
		if energies[b] > 0 {
			level = (20*math.Log10(energies[b]) + 10) / 50
		}
		level = max(0, min(1, level))

		if level > v.prev[b] {
			level = level*0.6 + v.prev[b]*0.4
		} else {
			level = level*0.25 + v.prev[b]*0.75
		}
		bands[b] = level
		v.prev[b] = level
	}
	return bands
}

// RenderDynamic converts band levels into a spectrum bar string sized to fit the given width.
func (v *Visualizer) RenderDynamic(bands [numBands]float64, availWidth int) string {
	if availWidth < numBands {
		return ""
	}
	bw := (availWidth - (numBands - 1)) / numBands
	if bw < 1 {
		bw = 1
	}

	var sb strings.Builder
	for i, level := range bands {
		idx := int(level * float64(len(barBlocks)-1))
		idx = max(0, min(idx, len(barBlocks)-1))
		block := barBlocks[idx]

		var style lipgloss.Style
		switch {
		case level > 0.75:
			style = specHighStyle
		case level > 0.45:
			style = specMidStyle
		default:
			style = specLowStyle
		}

		sb.WriteString(style.Render(strings.Repeat(block, bw)))
		if i < numBands-1 {
			sb.WriteString(" ")
		}
	}
	return sb.String()
}

// Render converts band levels into a colored spectrum bar string using
// the fixed bar width.
func (v *Visualizer) Render(bands [numBands]float64) string {
	var sb strings.Builder

	for i, level := range bands {
		idx := int(level * float64(len(barBlocks)-1))
		idx = max(0, min(idx, len(barBlocks)-1))

		block := barBlocks[idx]

		var style lipgloss.Style
		switch {
		case level > 0.75:
			style = specHighStyle
		case level > 0.45:
			style = specMidStyle
		default:
			style = specLowStyle
		}

		sb.WriteString(style.Render(strings.Repeat(block, barWidth)))
		if i < numBands-1 {
			sb.WriteString(" ")
		}
	}

	return sb.String()
}
