// SPDX-License-Identifier: MIT
package config

import "time"

// Boundaries and defaults for the engine.
const (
	// Audio capture.
	DefaultDeviceID        = MinDeviceID // system default device
	DefaultSampleRate      = 48000
	DefaultFramesPerBuffer = 512
	DefaultInputChannels   = 1
	DefaultRingSeconds     = 60 // history kept in the sample ring

	// Spectrogram display.
	DefaultFFTSize   = 4096
	DefaultWindow    = "hann"
	DefaultScale     = "mel"
	DefaultTheme     = "cmrmap"
	DefaultEngine    = "gonum"
	DefaultMinFreq   = 20.0
	DefaultMaxFreq   = 24000.0
	DefaultMinDB     = -140.0
	DefaultMaxDB     = 0.0
	DefaultTimeRange = 10.0 // seconds across the visible window
	DefaultWidth     = 0 // follow the time range
	DefaultHeight    = 512

	// Consecutive hops advance by a quarter window (75% overlap).
	HopFraction = 0.25

	// Recording.
	DefaultFormat   = "wav"
	DefaultBitDepth = 16

	// Transport.
	DefaultUDPTarget       = "127.0.0.1:9090"
	DefaultUDPSendInterval = 33 * time.Millisecond
	DefaultWebSocketAddr   = "127.0.0.1:8080"

	// Hardware and processing limits.
	MinDeviceID      = -1 // -1 represents the system default device
	MinSampleRate    = 8000
	MaxSampleRate    = 192000
	MaxBufferFrames  = 8192
	MaxInputChannels = 32
	MaxRingSeconds   = 600
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel: "info",
		Audio: AudioConfig{
			InputDevice:     DefaultDeviceID,
			SampleRate:      DefaultSampleRate,
			FramesPerBuffer: DefaultFramesPerBuffer,
			InputChannels:   DefaultInputChannels,
			RingSeconds:     DefaultRingSeconds,
		},
		Spectrogram: SpectrogramConfig{
			FFTSize:   DefaultFFTSize,
			Window:    DefaultWindow,
			Scale:     DefaultScale,
			MinFreq:   DefaultMinFreq,
			MaxFreq:   DefaultMaxFreq,
			MinDB:     DefaultMinDB,
			MaxDB:     DefaultMaxDB,
			TimeRange: DefaultTimeRange,
			Theme:     DefaultTheme,
			Engine:    DefaultEngine,
			Width:     DefaultWidth,
			Height:    DefaultHeight,
		},
		Recording: RecordingConfig{
			OutputDir: "./recordings",
			Format:    DefaultFormat,
			BitDepth:  DefaultBitDepth,
		},
		Transport: TransportConfig{
			UDPTargetAddress: DefaultUDPTarget,
			UDPSendInterval:  DefaultUDPSendInterval,
			WebSocketAddress: DefaultWebSocketAddr,
		},
	}
}
