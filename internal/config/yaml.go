// SPDX-License-Identifier: MIT
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"spectra/internal/analysis"
	"spectra/internal/colormap"
	"spectra/internal/freqscale"
	"spectra/internal/log"
	"spectra/pkg/bitint"
)

var logger = log.With("config")

// Config represents the main application configuration structure, loaded from YAML.
type Config struct {
	Debug       bool              `yaml:"debug"`       // Enable debug logging.
	LogLevel    string            `yaml:"log_level"`   // Logging level (e.g., "debug", "info", "warn", "error").
	Audio       AudioConfig       `yaml:"audio"`       // Capture settings.
	Spectrogram SpectrogramConfig `yaml:"spectrogram"` // Analysis and display settings.
	Recording   RecordingConfig   `yaml:"recording"`   // Recording of the captured mono stream.
	Transport   TransportConfig   `yaml:"transport"`   // Column streaming.
}

// AudioConfig holds settings related to audio capture.
type AudioConfig struct {
	InputDevice     int     `yaml:"input_device"`      // PortAudio device index for audio input (-1 for default).
	SampleRate      float64 `yaml:"sample_rate"`       // Sample rate in Hz (e.g., 44100, 48000).
	FramesPerBuffer int     `yaml:"frames_per_buffer"` // Frames per PortAudio callback.
	LowLatency      bool    `yaml:"low_latency"`       // Request the device's low latency setting.
	InputChannels   int     `yaml:"input_channels"`    // Channels captured before mixing down to mono.
	RingSeconds     int     `yaml:"ring_seconds"`      // Seconds of history held in the sample ring.
	GateThreshold   float64 `yaml:"gate_threshold"`    // Peak level below which blocks are silenced (0 disables).
}

// SpectrogramConfig is the YAML form of Settings plus the display size.
type SpectrogramConfig struct {
	FFTSize   int     `yaml:"fft_size"`
	Window    string  `yaml:"window"`
	Scale     string  `yaml:"scale"`
	MinFreq   float64 `yaml:"min_freq"`
	MaxFreq   float64 `yaml:"max_freq"`
	MinDB     float64 `yaml:"min_db"`
	MaxDB     float64 `yaml:"max_db"`
	TimeRange float64 `yaml:"time_range"` // seconds
	Theme     string  `yaml:"theme"`
	Engine    string  `yaml:"engine"` // "gonum" or "go-dsp"
	Width     int     `yaml:"width"`  // visible columns, 0 to cover time_range
	Height    int     `yaml:"height"` // frequency rows
}

// RecordingConfig holds settings related to audio recording functionality.
type RecordingConfig struct {
	Enabled     bool   `yaml:"enabled"`              // Enable recording the captured stream.
	OutputDir   string `yaml:"output_dir"`           // Directory to save recorded audio files.
	Format      string `yaml:"format"`               // File format for recordings ("wav").
	BitDepth    int    `yaml:"bit_depth"`            // Bit depth for recorded audio (16, 24 or 32).
	MaxDuration int    `yaml:"max_duration_seconds"` // Maximum duration of a recording in seconds (0 for unlimited).
}

// TransportConfig holds settings related to sending columns over the network.
type TransportConfig struct {
	UDPEnabled       bool          `yaml:"udp_enabled"`        // Send column packets over UDP.
	UDPTargetAddress string        `yaml:"udp_target_address"` // Target address and port for UDP packets (e.g., "127.0.0.1:9090").
	UDPSendInterval  time.Duration `yaml:"udp_send_interval"`  // Interval between UDP packets.
	WebSocketEnabled bool          `yaml:"websocket_enabled"`  // Serve columns to websocket clients.
	WebSocketAddress string        `yaml:"websocket_address"`  // Listen address for the websocket server.
}

// LoadConfig loads configuration from a YAML file specified by path. If path is empty,
// it searches default locations ("config.yaml"). If no file is found, it uses built-in
// defaults. After loading defaults or from file, it applies environment variable
// overrides and validates the final configuration.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		candidates := []string{"config.yaml", "spectra.yaml"}
		for _, candidate := range candidates {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
		if path == "" {
			cfg.applyEnvOverrides()
			if err := cfg.Validate(); err != nil {
				return nil, fmt.Errorf("invalid default configuration: %w", err)
			}
			return &cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Environment overrides win over the file.
	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	logger.Debugf("loaded %s", path)
	return &cfg, nil
}

// Validate checks every section. Spectrogram settings are checked against
// the audio sample rate.
func (c *Config) Validate() error {
	if _, ok := log.ParseLevel(c.LogLevel); !ok {
		return fmt.Errorf("log_level '%s' is not recognised", c.LogLevel)
	}

	a := c.Audio
	if a.InputDevice < MinDeviceID {
		return fmt.Errorf("audio.input_device %d is invalid", a.InputDevice)
	}
	if a.SampleRate < MinSampleRate || a.SampleRate > MaxSampleRate {
		return fmt.Errorf("audio.sample_rate %g outside [%d, %d]", a.SampleRate, MinSampleRate, MaxSampleRate)
	}
	if a.FramesPerBuffer <= 0 || a.FramesPerBuffer > MaxBufferFrames {
		return fmt.Errorf("audio.frames_per_buffer %d outside [1, %d]", a.FramesPerBuffer, MaxBufferFrames)
	}
	if a.InputChannels < 1 || a.InputChannels > MaxInputChannels {
		return fmt.Errorf("audio.input_channels %d outside [1, %d]", a.InputChannels, MaxInputChannels)
	}
	if a.RingSeconds < 1 || a.RingSeconds > MaxRingSeconds {
		return fmt.Errorf("audio.ring_seconds %d outside [1, %d]", a.RingSeconds, MaxRingSeconds)
	}
	if a.GateThreshold < 0 || a.GateThreshold >= 1 {
		return fmt.Errorf("audio.gate_threshold %g outside [0, 1)", a.GateThreshold)
	}

	s, err := c.Settings()
	if err != nil {
		return fmt.Errorf("spectrogram: %w", err)
	}
	if err := s.FitsRing(c.RingCapacity()); err != nil {
		return fmt.Errorf("audio.ring_seconds %d too short: %w", a.RingSeconds, err)
	}
	if c.Spectrogram.Width < 0 || c.Spectrogram.Height <= 0 {
		return fmt.Errorf("spectrogram: width and height out of range, got %dx%d", c.Spectrogram.Width, c.Spectrogram.Height)
	}
	if _, ok := analysis.ParseEngine(c.Spectrogram.Engine); !ok {
		return fmt.Errorf("spectrogram.engine '%s' is not recognised", c.Spectrogram.Engine)
	}

	if r := c.Recording; r.Enabled {
		if r.Format != DefaultFormat {
			return fmt.Errorf("recording.format '%s' is not supported", r.Format)
		}
		switch r.BitDepth {
		case 16, 24, 32:
		default:
			return fmt.Errorf("recording.bit_depth %d must be 16, 24 or 32", r.BitDepth)
		}
	}

	if t := c.Transport; t.UDPEnabled {
		if t.UDPTargetAddress == "" {
			return errors.New("transport.udp_target_address must be set when UDP is enabled")
		}
		if t.UDPSendInterval <= 0 {
			return errors.New("transport.udp_send_interval must be positive when UDP is enabled")
		}
	}
	if t := c.Transport; t.WebSocketEnabled && t.WebSocketAddress == "" {
		return errors.New("transport.websocket_address must be set when websockets are enabled")
	}

	return nil
}

// Settings parses the spectrogram section into the typed settings unit.
func (c *Config) Settings() (Settings, error) {
	sc := c.Spectrogram
	window, err := analysis.ParseWindowFunc(sc.Window)
	if err != nil {
		return Settings{}, err
	}
	scale, err := freqscale.ParseScale(sc.Scale)
	if err != nil {
		return Settings{}, err
	}
	theme, err := colormap.ParseTheme(sc.Theme)
	if err != nil {
		return Settings{}, err
	}
	s := Settings{
		FFTSize:    sc.FFTSize,
		Window:     window,
		Scale:      scale,
		Theme:      theme,
		MinFreq:    sc.MinFreq,
		MaxFreq:    sc.MaxFreq,
		MinDB:      sc.MinDB,
		MaxDB:      sc.MaxDB,
		TimeRange:  sc.TimeRange,
		SampleRate: c.Audio.SampleRate,
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// RingCapacity is the sample ring size for ring_seconds of audio, rounded up
// to a power of two.
func (c *Config) RingCapacity() int {
	return bitint.NextPowerOfTwo(c.Audio.RingSeconds * int(c.Audio.SampleRate))
}

// VisibleColumns is the image width: spectrogram.width, or the columns
// covering time_range when width is 0.
func (c *Config) VisibleColumns(s Settings) int {
	if c.Spectrogram.Width > 0 {
		return c.Spectrogram.Width
	}
	return s.ColumnsForTimeRange()
}

// applyEnvOverrides reads ENV_* variables. Values that fail to parse are
// ignored with a warning.
func (c *Config) applyEnvOverrides() {
	envBool("ENV_DEBUG", &c.Debug)
	envString("ENV_LOG_LEVEL", &c.LogLevel)

	envInt("ENV_INPUT_DEVICE", &c.Audio.InputDevice)
	envFloat("ENV_SAMPLE_RATE", &c.Audio.SampleRate)

	envInt("ENV_FFT_SIZE", &c.Spectrogram.FFTSize)
	envString("ENV_WINDOW", &c.Spectrogram.Window)
	envString("ENV_SCALE", &c.Spectrogram.Scale)
	envString("ENV_THEME", &c.Spectrogram.Theme)

	envBool("ENV_UDP_ENABLED", &c.Transport.UDPEnabled)
	envString("ENV_UDP_TARGET_ADDRESS", &c.Transport.UDPTargetAddress)
	if val, ok := os.LookupEnv("ENV_UDP_SEND_INTERVAL"); ok {
		if dur, err := time.ParseDuration(val); err == nil {
			c.Transport.UDPSendInterval = dur
			logger.Infof("overriding transport.udp_send_interval from env: %s", dur)
		} else {
			logger.Warnf("ignoring ENV_UDP_SEND_INTERVAL=%q: %v", val, err)
		}
	}
	envBool("ENV_WEBSOCKET_ENABLED", &c.Transport.WebSocketEnabled)
	envString("ENV_WEBSOCKET_ADDRESS", &c.Transport.WebSocketAddress)
}

func envString(key string, dst *string) {
	if val, ok := os.LookupEnv(key); ok {
		*dst = val
		logger.Infof("overriding %s from env: %s", key, val)
	}
}

func envBool(key string, dst *bool) {
	if val, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(val)
		if err != nil {
			logger.Warnf("ignoring %s=%q: %v", key, val, err)
			return
		}
		*dst = b
		logger.Infof("overriding %s from env: %v", key, b)
	}
}

func envInt(key string, dst *int) {
	if val, ok := os.LookupEnv(key); ok {
		n, err := strconv.Atoi(val)
		if err != nil {
			logger.Warnf("ignoring %s=%q: %v", key, val, err)
			return
		}
		*dst = n
		logger.Infof("overriding %s from env: %d", key, n)
	}
}

func envFloat(key string, dst *float64) {
	if val, ok := os.LookupEnv(key); ok {
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			logger.Warnf("ignoring %s=%q: %v", key, val, err)
			return
		}
		*dst = f
		logger.Infof("overriding %s from env: %g", key, f)
	}
}
