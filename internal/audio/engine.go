// SPDX-License-Identifier: MIT

/*
Package audio is the capture side of the spectrogram.

It delivers mono float32 blocks into a ring buffer from a PortAudio input
stream, and provides the file collaborators: a WAV loader, a linear
resampler, test signal generators and a WAV recorder of the captured stream.

Thread Safety:
  - The PortAudio callback is the ring buffer's only writer
  - Buffers used by the callback are allocated before the stream starts
  - Gate settings and the recorder attachment are switched with atomics
*/
package audio

import (
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/gordonklaus/portaudio"

	"spectra/internal/config"
	"spectra/internal/log"
	"spectra/internal/ringbuffer"
)

var logger = log.With("audio")

// Engine captures from one input device into a ring buffer.
type Engine struct {
	cfg  config.AudioConfig
	ring *ringbuffer.RingBuffer

	inputDevice  *portaudio.DeviceInfo
	inputLatency time.Duration
	inputStream  *portaudio.Stream

	mono []float32 // FramesPerBuffer samples, reused by the callback
	gate Gate

	recorder atomic.Pointer[Recorder]
	blocks   atomic.Uint64 // callbacks handled
}

// NewEngine resolves the input device and sizes the callback buffers. The
// ring buffer is supplied by the caller, who drains it.
func NewEngine(cfg config.AudioConfig, ring *ringbuffer.RingBuffer) (*Engine, error) {
	if cfg.InputChannels < 1 || cfg.FramesPerBuffer < 1 {
		return nil, fmt.Errorf("invalid capture shape: %d channels, %d frames", cfg.InputChannels, cfg.FramesPerBuffer)
	}
	inputDevice, err := InputDevice(cfg.InputDevice)
	if err != nil {
		return nil, err
	}

	e := newEngine(cfg, ring)
	e.inputDevice = inputDevice
	if cfg.LowLatency {
		e.inputLatency = inputDevice.DefaultLowInputLatency
	} else {
		e.inputLatency = inputDevice.DefaultHighInputLatency
	}
	logger.Infof("input device %q, %d ch, %.0f Hz, %d frames", inputDevice.Name, cfg.InputChannels, cfg.SampleRate, cfg.FramesPerBuffer)
	return e, nil
}

func newEngine(cfg config.AudioConfig, ring *ringbuffer.RingBuffer) *Engine {
	e := &Engine{
		cfg:  cfg,
		ring: ring,
		mono: make([]float32, cfg.FramesPerBuffer),
	}
	if cfg.GateThreshold > 0 {
		e.gate.SetThreshold(float32(cfg.GateThreshold))
		e.gate.Enable()
	}
	return e
}

// StartInputStream opens and starts the PortAudio stream.
func (e *Engine) StartInputStream() error {
	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Channels: e.cfg.InputChannels,
			Device:   e.inputDevice,
			Latency:  e.inputLatency,
		},
		FramesPerBuffer: e.cfg.FramesPerBuffer,
		SampleRate:      e.cfg.SampleRate,
	}

	stream, err := portaudio.OpenStream(params, e.processInputStream)
	if err != nil {
		return fmt.Errorf("failed to open input stream: %w", err)
	}
	e.inputStream = stream

	if err := e.inputStream.Start(); err != nil {
		e.inputStream.Close()
		e.inputStream = nil
		return fmt.Errorf("failed to start input stream: %w", err)
	}
	return nil
}

// StopInputStream stops and closes the stream if one is open.
func (e *Engine) StopInputStream() error {
	if e.inputStream == nil {
		return nil
	}
	if err := e.inputStream.Stop(); err != nil {
		return err
	}
	if err := e.inputStream.Close(); err != nil {
		return err
	}
	e.inputStream = nil
	return nil
}

// processInputStream is the PortAudio callback. It must not allocate or
// block.
func (e *Engine) processInputStream(in []float32) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	e.processBuffer(in)
}

// processBuffer mixes an interleaved block to mono, gates it and publishes
// it to the ring.
func (e *Engine) processBuffer(interleaved []float32) {
	mono := MixDown(e.mono, interleaved, e.cfg.InputChannels)
	e.gate.Apply(mono)
	e.ring.Write(mono)
	e.blocks.Add(1)

	if rec := e.recorder.Load(); rec != nil {
		if err := rec.Write(mono); err != nil {
			logger.Errorf("recording stopped: %v", err)
			e.recorder.CompareAndSwap(rec, nil)
		}
	}
}

// Blocks returns the number of callbacks handled.
func (e *Engine) Blocks() uint64 { return e.blocks.Load() }

// Gate returns the engine's noise gate.
func (e *Engine) Gate() *Gate { return &e.gate }

// MixDown averages interleaved frames of the given channel count into dst
// and returns the mono slice. dst must hold len(interleaved)/channels samples.
func MixDown(dst, interleaved []float32, channels int) []float32 {
	if channels <= 1 {
		n := copy(dst, interleaved)
		return dst[:n]
	}
	frames := min(len(interleaved)/channels, len(dst))
	scale := 1 / float32(channels)
	for i := range frames {
		frame := interleaved[i*channels : (i+1)*channels]
		var sum float32
		for _, s := range frame {
			sum += s
		}
		dst[i] = sum * scale
	}
	return dst[:frames]
}
