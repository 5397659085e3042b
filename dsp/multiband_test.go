package dsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMultibandProcessorNineBands(t *testing.T) {
	m := NewMultibandProcessor()
	defer m.Close()

	assert.Equal(t, 9, m.NumBands())
	assert.Equal(t, 30.0, m.Band(0).LowFreq)
	assert.Equal(t, 20000.0, m.Band(8).HighFreq)
}

func TestMultibandProcessorSubBassRangeClamped(t *testing.T) {
	m := NewMultibandProcessor()
	defer m.Close()

	m.SetSubBassRange(5, 1000)
	assert.Equal(t, 20.0, m.Band(0).LowFreq)
	assert.Equal(t, 500.0, m.Band(0).HighFreq)
}

func TestMultibandProcessorSubBassRangeEnforcesOrdering(t *testing.T) {
	m := NewMultibandProcessor()
	defer m.Close()

	m.SetSubBassRange(90, 95)
	assert.Less(t, m.Band(0).LowFreq, m.Band(0).HighFreq)
}

func TestMultibandProcessorDisabledIsNoOp(t *testing.T) {
	m := NewMultibandProcessor()
	defer m.Close()
	m.SetEnabled(false)

	buf := make([]float32, 256*2)
	for i := range buf {
		buf[i] = 0.3
	}
	original := append([]float32{}, buf...)

	m.Process(buf, 256, 2, testSampleRate)

	assert.Equal(t, original, buf)
}

func TestMultibandProcessorProcessesWithoutPanicking(t *testing.T) {
	m := NewMultibandProcessor()
	defer m.Close()

	const frames = 1024
	buf := make([]float32, frames*2)
	for i := range buf {
		buf[i] = 0.2
	}

	assert.NotPanics(t, func() {
		m.Process(buf, frames, 2, testSampleRate)
	})
}

func TestMultibandProcessorProcessNoAllocationsAtSteadyBlockSize(t *testing.T) {
	m := NewMultibandProcessor()
	defer m.Close()

	const frames = 1024
	buf := make([]float32, frames*2)
	for i := range buf {
		buf[i] = 0.2
	}

	allocs := testing.AllocsPerRun(20, func() {
		m.Process(buf, frames, 2, testSampleRate)
	})
	assert.Zero(t, allocs)
}
