// SPDX-License-Identifier: MIT
package transport

import (
	"sync/atomic"

	"github.com/chewxy/math32"
)

// LoggingTransport logs a one-line summary of each frame at debug level.
type LoggingTransport struct {
	frames atomic.Uint64
}

// NewLoggingTransport creates a new LoggingTransport.
func NewLoggingTransport() *LoggingTransport {
	logger.Infof("using logging transport")
	return &LoggingTransport{}
}

// Send logs the frame's index and its loudest row.
func (lt *LoggingTransport) Send(f *Frame) error {
	lt.frames.Add(1)
	peakRow, peak := -1, float32(0)
	for i, v := range f.Levels {
		if v > peak {
			peakRow, peak = i, v
		}
	}
	logger.Debugf("column %d: %d rows, peak %.3f at row %d", f.Index, len(f.Levels), math32.Min(peak, 1), peakRow)
	return nil
}

// Frames returns the number of frames seen.
func (lt *LoggingTransport) Frames() uint64 { return lt.frames.Load() }

// Close logs the frame count.
func (lt *LoggingTransport) Close() error {
	logger.Infof("logging transport closed after %d frames", lt.frames.Load())
	return nil
}

var _ Transport = (*LoggingTransport)(nil)
