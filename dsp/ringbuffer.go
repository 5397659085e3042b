package dsp

import "sync/atomic"

// RingBuffer is a single-producer/single-consumer wait-free FIFO of
// float32 samples. Capacity is rounded up to the next power of two.
// Exactly one goroutine may call Write (the capture callback) and
// exactly one goroutine may call Read (the playback callback); no
// other synchronization between them is required.
type RingBuffer struct {
	buf      []float32
	capacity uint64 // power of two
	writePos atomic.Uint64
	readPos  atomic.Uint64
}

// NewRingBuffer returns a RingBuffer whose capacity is the next power
// of two at or above capacity.
func NewRingBuffer(capacity int) *RingBuffer {
	c := uint64(1)
	for c < uint64(capacity) {
		c <<= 1
	}
	return &RingBuffer{
		buf:      make([]float32, c),
		capacity: c,
	}
}

// Write copies len(data) samples into the buffer. It returns false and
// copies nothing if there is not enough free space; the caller is
// expected to drop the overflowing block rather than retry.
func (rb *RingBuffer) Write(data []float32) bool {
	w := rb.writePos.Load()
	r := rb.readPos.Load() // acquire

	count := uint64(len(data))
	available := rb.capacity - (w - r)
	if count > available {
		return false
	}

	mask := rb.capacity - 1
	wMasked := w & mask
	firstChunk := rb.capacity - wMasked

	if count <= firstChunk {
		copy(rb.buf[wMasked:wMasked+count], data)
	} else {
		copy(rb.buf[wMasked:], data[:firstChunk])
		copy(rb.buf[0:count-firstChunk], data[firstChunk:])
	}

	rb.writePos.Store(w + count) // release
	return true
}

// Read fills data with exactly len(data) samples from the buffer. It
// returns false and leaves data untouched if fewer than len(data)
// samples are available; on false the caller MUST zero-fill its output
// itself (Read does not do it, since the caller usually already knows
// how to build a silent block).
func (rb *RingBuffer) Read(data []float32) bool {
	r := rb.readPos.Load()
	w := rb.writePos.Load() // acquire

	count := uint64(len(data))
	available := w - r
	if count > available {
		return false
	}

	mask := rb.capacity - 1
	rMasked := r & mask
	firstChunk := rb.capacity - rMasked

	if count <= firstChunk {
		copy(data, rb.buf[rMasked:rMasked+count])
	} else {
		copy(data, rb.buf[rMasked:])
		copy(data[firstChunk:], rb.buf[0:count-firstChunk])
	}

	rb.readPos.Store(r + count) // release
	return true
}

// ReadAvailable reports how many samples are currently readable.
func (rb *RingBuffer) ReadAvailable() int {
	w := rb.writePos.Load() // acquire
	r := rb.readPos.Load()
	return int(w - r)
}

// WriteAvailable reports how many samples can currently be written.
func (rb *RingBuffer) WriteAvailable() int {
	w := rb.writePos.Load()
	r := rb.readPos.Load() // acquire
	return int(rb.capacity - (w - r))
}

// Capacity returns the buffer's power-of-two capacity.
func (rb *RingBuffer) Capacity() int {
	return int(rb.capacity)
}

// Reset rewinds both cursors to zero. Must only be called while the
// capture and playback callbacks are both stopped.
func (rb *RingBuffer) Reset() {
	rb.writePos.Store(0)
	rb.readPos.Store(0)
}
