// SPDX-License-Identifier: MIT
package audio

import (
	"context"
	"time"

	"spectra/internal/ringbuffer"
)

// Stream feeds samples into ring in blocks at real-time pace, as a capture
// device would, and returns when they are exhausted or ctx ends. Nothing is
// played back.
func Stream(ctx context.Context, samples []float32, sampleRate float64, block int, ring *ringbuffer.RingBuffer) error {
	if block <= 0 {
		block = 512
	}
	period := time.Duration(float64(block) / sampleRate * float64(time.Second))
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for start := 0; start < len(samples); start += block {
		end := min(start+block, len(samples))
		ring.Write(samples[start:end])

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}
