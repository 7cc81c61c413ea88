// SPDX-License-Identifier: MIT
package pipeline

import (
	"context"
	"time"

	"spectra/internal/ringbuffer"
)

// Drain processes every complete window available in rb, advancing by one
// hop per column. A reader lapped by the writer, before or during the batch,
// skips whole hops to the newest window and counts them as dropped; a window
// the writer overwrote while it was being read is discarded. It returns the
// number of columns produced.
func (p *Pipeline) Drain(rb *ringbuffer.RingBuffer) (int, error) {
	if err := p.settings.FitsRing(rb.Capacity()); err != nil {
		return 0, err
	}
	n := uint64(len(p.window))
	hop := uint64(p.settings.SamplesPerColumn())
	capacity := uint64(rb.Capacity())

	pos := rb.WritePosition()
	p.skipLapped(pos, n, hop, capacity)

	produced := 0
	for p.readPos+n <= pos {
		rb.Read(p.readPos, p.window)
		if now := rb.WritePosition(); now-p.readPos > capacity {
			pos = now
			p.skipLapped(pos, n, hop, capacity)
			continue
		}
		if err := p.ProcessWindow(p.window); err != nil {
			return produced, err
		}
		p.readPos += hop
		produced++
	}
	return produced, nil
}

// skipLapped moves the read position forward by whole hops when the writer
// at pos has overwritten it, leaving the newest complete window next.
func (p *Pipeline) skipLapped(pos, n, hop, capacity uint64) {
	if pos <= p.readPos {
		return
	}
	behind := pos - p.readPos
	if behind <= capacity || behind <= n {
		return
	}
	skip := (behind - n) / hop
	p.readPos += skip * hop
	p.dropped += skip
	logger.Warnf("reader fell behind by %d samples, dropped %d columns", behind, skip)
}

// Run drains rb every interval until ctx is cancelled, returning ctx.Err().
// A processing error stops the loop and is returned.
func (p *Pipeline) Run(ctx context.Context, rb *ringbuffer.RingBuffer, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := p.Drain(rb); err != nil {
				logger.Errorf("processing stopped: %v", err)
				return err
			}
		}
	}
}
