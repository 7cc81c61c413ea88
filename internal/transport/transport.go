// SPDX-License-Identifier: MIT

// Package transport publishes finished spectrogram columns to remote viewers.
// A Sink sits on the pipeline's processing goroutine, copies each column into
// a Frame and hands it to every configured Transport. Transports must not
// block the caller; slow consumers lose frames.
package transport

import (
	"errors"
	"time"

	"spectra/internal/log"
)

var logger = log.With("transport")

// Frame is one spectrogram column. Levels and Colors run from the lowest
// frequency row to the highest. A Frame is immutable once sent.
type Frame struct {
	Index     uint64    `json:"index"`
	Timestamp int64     `json:"timestamp"` // unix nanoseconds
	Levels    []float32 `json:"levels"`    // normalised to [0, 1]
	Colors    []uint32  `json:"colors,omitempty"`
}

// Transport delivers frames. Implementations must be safe for concurrent use.
type Transport interface {
	Send(f *Frame) error
	Close() error
}

// Sink fans columns out to a set of transports. It satisfies the pipeline's
// column sink.
type Sink struct {
	transports []Transport
	colors     bool
	now        func() time.Time
}

// SinkOption configures a Sink.
type SinkOption func(*Sink)

// WithColors includes packed RGBA colours in each frame.
func WithColors() SinkOption {
	return func(s *Sink) { s.colors = true }
}

// NewSink returns a Sink sending to ts.
func NewSink(ts []Transport, opts ...SinkOption) *Sink {
	s := &Sink{transports: ts, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Len returns the number of transports.
func (s *Sink) Len() int { return len(s.transports) }

// WriteColumn copies the column into a new Frame and sends it to every
// transport. Errors from individual transports are joined.
func (s *Sink) WriteColumn(index uint64, colors []uint32, levels []float32) error {
	if len(s.transports) == 0 {
		return nil
	}
	f := &Frame{
		Index:     index,
		Timestamp: s.now().UnixNano(),
		Levels:    append([]float32(nil), levels...),
	}
	if s.colors {
		f.Colors = append([]uint32(nil), colors...)
	}

	var errs []error
	for _, t := range s.transports {
		if err := t.Send(f); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every transport and returns the joined errors.
func (s *Sink) Close() error {
	var errs []error
	for _, t := range s.transports {
		if err := t.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
