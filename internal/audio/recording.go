// SPDX-License-Identifier: MIT
package audio

import (
	"errors"
	"fmt"
	"os"
	"sync"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

var ErrRecorderClosed = errors.New("recorder closed")

// Recorder writes mono float32 blocks to a PCM WAV file.
type Recorder struct {
	mu        sync.Mutex
	file      *os.File
	encoder   *wav.Encoder
	buf       *goaudio.IntBuffer
	bitDepth  int
	maxFrames int // 0 for unlimited
	frames    int
	closed    bool
}

// NewRecorder creates path and prepares a mono encoder. maxSeconds of 0
// records without limit.
func NewRecorder(path string, sampleRate, bitDepth, maxSeconds, blockSize int) (*Recorder, error) {
	switch bitDepth {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("unsupported bit depth %d", bitDepth)
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create recording: %w", err)
	}
	return &Recorder{
		file:    file,
		encoder: wav.NewEncoder(file, sampleRate, bitDepth, 1, 1),
		buf: &goaudio.IntBuffer{
			Format:         &goaudio.Format{NumChannels: 1, SampleRate: sampleRate},
			Data:           make([]int, blockSize),
			SourceBitDepth: bitDepth,
		},
		bitDepth:  bitDepth,
		maxFrames: maxSeconds * sampleRate,
	}, nil
}

// Write converts samples to integers and appends them. Samples past the
// duration limit are discarded.
func (r *Recorder) Write(samples []float32) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrRecorderClosed
	}
	if r.maxFrames > 0 {
		remaining := r.maxFrames - r.frames
		if remaining <= 0 {
			return nil
		}
		if len(samples) > remaining {
			samples = samples[:remaining]
		}
	}
	if cap(r.buf.Data) < len(samples) {
		r.buf.Data = make([]int, len(samples))
	}
	r.buf.Data = r.buf.Data[:len(samples)]
	full := float64(int64(1)<<(r.bitDepth-1) - 1)
	for i, s := range samples {
		s = min(max(s, -1), 1)
		r.buf.Data[i] = int(float64(s) * full)
	}
	if err := r.encoder.Write(r.buf); err != nil {
		return fmt.Errorf("failed to write recording: %w", err)
	}
	r.frames += len(samples)
	return nil
}

// Frames returns the number of frames written.
func (r *Recorder) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

// Close finalises the WAV header and closes the file. It is safe to call
// more than once.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	if err := r.encoder.Close(); err != nil {
		r.file.Close()
		return fmt.Errorf("failed to finalise recording: %w", err)
	}
	return r.file.Close()
}

// StartRecording begins writing the captured mono stream to path.
func (e *Engine) StartRecording(path string, bitDepth, maxSeconds int) error {
	if e.recorder.Load() != nil {
		return fmt.Errorf("already recording")
	}
	rec, err := NewRecorder(path, int(e.cfg.SampleRate), bitDepth, maxSeconds, e.cfg.FramesPerBuffer)
	if err != nil {
		return err
	}
	if !e.recorder.CompareAndSwap(nil, rec) {
		rec.Close()
		return fmt.Errorf("already recording")
	}
	logger.Infof("recording to %s", path)
	return nil
}

// StopRecording detaches and closes the recorder, if any.
func (e *Engine) StopRecording() error {
	rec := e.recorder.Swap(nil)
	if rec == nil {
		return nil
	}
	return rec.Close()
}

// Recording reports whether a recorder is attached.
func (e *Engine) Recording() bool { return e.recorder.Load() != nil }

// Close stops recording and the input stream.
func (e *Engine) Close() error {
	if err := e.StopRecording(); err != nil {
		return err
	}
	return e.StopInputStream()
}
