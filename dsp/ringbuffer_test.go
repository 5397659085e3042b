package dsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingBufferPowerOfTwoCapacity(t *testing.T) {
	rb := NewRingBuffer(100)
	assert.Equal(t, 128, rb.Capacity())

	rb2 := NewRingBuffer(128)
	assert.Equal(t, 128, rb2.Capacity())
}

func TestRingBufferOrderedReadback(t *testing.T) {
	rb := NewRingBuffer(64)

	written := make([]float32, 0, 200)
	for i := 0; i < 3; i++ {
		chunk := make([]float32, 20)
		for j := range chunk {
			chunk[j] = float32(i*20 + j)
		}
		require.True(t, rb.Write(chunk))
		written = append(written, chunk...)

		out := make([]float32, 15)
		require.True(t, rb.Read(out))
		assert.Equal(t, written[:15], out)
		written = written[15:]
	}
}

func TestRingBufferOverflowRejected(t *testing.T) {
	rb := NewRingBuffer(16) // rounds to 16

	full := make([]float32, 16)
	require.True(t, rb.Write(full))

	assert.False(t, rb.Write([]float32{1}))
	assert.Equal(t, 0, rb.WriteAvailable())
}

func TestRingBufferUnderrunReturnsFalse(t *testing.T) {
	rb := NewRingBuffer(2048)

	require.True(t, rb.Write(make([]float32, 1024)))

	out := make([]float32, 2048)
	for i := range out {
		out[i] = 99 // sentinel to confirm Read leaves it untouched
	}
	assert.False(t, rb.Read(out))
	for _, v := range out {
		assert.Equal(t, float32(99), v)
	}
}

func TestRingBufferWrapAround(t *testing.T) {
	rb := NewRingBuffer(8)

	// Advance the cursors near the wrap boundary.
	require.True(t, rb.Write(make([]float32, 6)))
	require.True(t, rb.Read(make([]float32, 6)))

	data := []float32{1, 2, 3, 4, 5}
	require.True(t, rb.Write(data))

	out := make([]float32, 5)
	require.True(t, rb.Read(out))
	assert.Equal(t, data, out)
}
