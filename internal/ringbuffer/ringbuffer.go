// SPDX-License-Identifier: MIT

// Package ringbuffer is a single-producer, multi-consumer sample store.
//
// The writer owns the storage and publishes progress through an atomic
// absolute write position. Readers load the position and copy whatever window
// they need; they never block the writer and never allocate. A reader that
// falls more than Capacity samples behind will see overwritten data, so
// consumers are expected to keep up or skip ahead.
package ringbuffer

import (
	"fmt"
	"sync/atomic"

	"spectra/internal/validate"
)

// RingBuffer is a fixed-capacity circular buffer of float32 samples.
type RingBuffer struct {
	data     []float32
	capacity uint64
	cursor   atomic.Uint64 // absolute samples written since creation
}

// New creates a zero-filled ring buffer holding capacity samples.
func New(capacity int) (*RingBuffer, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: ring capacity %d", validate.ErrDimensions, capacity)
	}
	return &RingBuffer{
		data:     make([]float32, capacity),
		capacity: uint64(capacity),
	}, nil
}

// Capacity returns the number of samples the buffer retains.
func (r *RingBuffer) Capacity() int {
	return int(r.capacity)
}

// WritePosition returns the absolute number of samples written so far.
func (r *RingBuffer) WritePosition() uint64 {
	return r.cursor.Load()
}

// Write appends samples. Only one goroutine may call Write. If samples is
// longer than the capacity only its tail is kept, but the write position still
// advances by the full length.
func (r *RingBuffer) Write(samples []float32) {
	n := uint64(len(samples))
	if n == 0 {
		return
	}
	pos := r.cursor.Load()
	end := pos + n

	if n > r.capacity {
		samples = samples[n-r.capacity:]
		pos = end - r.capacity
	}

	start := pos % r.capacity
	copied := copy(r.data[start:], samples)
	if copied < len(samples) {
		copy(r.data, samples[copied:])
	}

	// Publish after the copy so readers never see a position ahead of the data.
	r.cursor.Store(end)
}

// Read copies len(out) samples starting at the absolute position offset.
// Positions are taken modulo the capacity; reads longer than the capacity
// repeat the stored contents.
func (r *RingBuffer) Read(offset uint64, out []float32) {
	start := offset % r.capacity
	for filled := 0; filled < len(out); {
		n := copy(out[filled:], r.data[start:])
		filled += n
		start = 0
	}
}

// Latest fills out with the most recent len(out) samples, oldest first.
// Before enough samples have been written the leading part is zeros.
func (r *RingBuffer) Latest(out []float32) {
	pos := r.cursor.Load()
	want := uint64(len(out))
	var start uint64
	if pos >= want {
		start = pos - want
	} else {
		// Region before the first write is still zero-filled.
		start = r.capacity - (want-pos)%r.capacity
	}
	r.Read(start, out)
}
