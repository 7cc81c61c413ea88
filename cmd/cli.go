// SPDX-License-Identifier: MIT

// Package cmd parses the command line into Options and implements the
// commands main dispatches to.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"spectra/internal/config"
	"spectra/internal/log"
	"spectra/pkg/build"
)

var logger = log.With("cmd")

// Commands.
const (
	CommandLive   = "live"
	CommandList   = "list"
	CommandRender = "render"
)

// Options is the parsed command line. Config already has every flag the
// user set applied on top of the file and environment.
type Options struct {
	Command    string
	ConfigPath string
	Config     *config.Config

	// live
	Headless   bool
	RecordPath string

	// list
	Interactive bool

	// render
	Input  string
	Output string
	Width  int
}

// flagValues receives the flags that overlay the configuration. Only flags
// the user actually set are applied.
type flagValues struct {
	device          int
	sampleRate      float64
	channels        int
	framesPerBuffer int
	lowLatency      bool
	gate            float64

	fftSize int
	window  string
	scale   string
	theme   string
	engine  string
	minFreq float64
	maxFreq float64
	minDB   float64
	maxDB   float64
	span    float64

	record    bool
	websocket string
	udp       string

	verbose  bool
	logLevel string
}

// ParseArgs parses args (without the program name). A nil Options with a nil
// error means help or version output was printed and there is nothing to run.
func ParseArgs(args []string) (*Options, error) {
	info := build.Get()
	opts := &Options{}
	var fv flagValues

	rootCmd := &cobra.Command{
		Use:           info.NameOr("spectra"),
		Short:         "Real-time audio spectrogram",
		Version:       info.String(),
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd:   true,
			DisableDescriptions: true,
			DisableNoDescFlag:   true,
			HiddenDefaultCmd:    true,
		},
		PersistentPreRunE: func(c *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(opts.ConfigPath)
			if err != nil {
				return err
			}
			overlayFlags(c, cfg, &fv)
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid flags: %w", err)
			}
			applyLogLevel(cfg)
			opts.Config = cfg
			return nil
		},
		RunE: func(c *cobra.Command, args []string) error {
			opts.Command = CommandLive
			return nil
		},
	}
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List available audio devices",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			opts.Command = CommandList
			return nil
		},
	}
	listCmd.Flags().BoolVarP(&opts.Interactive, "interactive", "i", false,
		"Browse input devices and pick one")
	rootCmd.AddCommand(listCmd)

	renderCmd := &cobra.Command{
		Use:   "render <file.wav>",
		Short: "Render a WAV file to a bitmap",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			opts.Command = CommandRender
			opts.Input = args[0]
			return nil
		},
	}
	renderCmd.Flags().StringVarP(&opts.Output, "output", "o", "",
		"Bitmap to write. Default is the input name with a .bmp extension")
	renderCmd.Flags().IntVarP(&opts.Width, "width", "w", 0,
		"Image width in columns. Default covers the time range, or the whole file if shorter")
	rootCmd.AddCommand(renderCmd)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.ConfigPath, "config", "", "Configuration file (default config.yaml or spectra.yaml)")

	// Audio
	pf.IntVarP(&fv.device, "device", "d", config.DefaultDeviceID,
		"Input device ID. Use 'list' to see available devices")
	pf.Float64VarP(&fv.sampleRate, "sample-rate", "s", config.DefaultSampleRate,
		"Sample rate, measured in Hertz (Hz)")
	pf.IntVarP(&fv.channels, "channels", "c", config.DefaultInputChannels,
		"Channels to capture before mixing to mono")
	pf.IntVarP(&fv.framesPerBuffer, "frames-per-buffer", "b", config.DefaultFramesPerBuffer,
		"Frames per capture callback (affects latency)")
	pf.BoolVarP(&fv.lowLatency, "low-latency", "l", false,
		"Use the device's low latency setting")
	pf.Float64Var(&fv.gate, "gate", 0, "Silence blocks whose peak is below this level (0 disables)")

	// Spectrogram
	pf.IntVarP(&fv.fftSize, "fft-size", "f", config.DefaultFFTSize, "FFT size, a power of two")
	pf.StringVar(&fv.window, "window", config.DefaultWindow, "Window function")
	pf.StringVar(&fv.scale, "scale", config.DefaultScale, "Frequency scale: linear, log, mel, erb or octave")
	pf.StringVar(&fv.theme, "theme", config.DefaultTheme, "Colour theme: cmrmap or grayscale")
	pf.StringVar(&fv.engine, "engine", config.DefaultEngine, "FFT engine: gonum or go-dsp")
	pf.Float64Var(&fv.minFreq, "min-freq", config.DefaultMinFreq, "Lowest displayed frequency in Hz")
	pf.Float64Var(&fv.maxFreq, "max-freq", config.DefaultMaxFreq, "Highest displayed frequency in Hz")
	pf.Float64Var(&fv.minDB, "min-db", config.DefaultMinDB, "Level mapped to the darkest colour")
	pf.Float64Var(&fv.maxDB, "max-db", config.DefaultMaxDB, "Level mapped to the brightest colour")
	pf.Float64VarP(&fv.span, "time-range", "t", config.DefaultTimeRange, "Seconds across the visible window")

	// Streaming
	pf.StringVar(&fv.websocket, "websocket", "", "Serve columns to websocket clients on this address")
	pf.StringVar(&fv.udp, "udp", "", "Send column packets to this UDP address")

	// Debug
	pf.BoolVarP(&fv.verbose, "verbose", "v", false, "Show verbose output")
	pf.StringVar(&fv.logLevel, "log-level", "", "Log level: debug, info, warn or error")

	// Live only
	rootCmd.Flags().BoolVarP(&fv.record, "record", "r", false, "Record the captured stream to WAV")
	rootCmd.Flags().StringVarP(&opts.RecordPath, "output", "o", "",
		"Recording file. Default is recording-DD-MM-YYYY-HHMMSS.wav in the output directory")
	rootCmd.Flags().BoolVar(&opts.Headless, "headless", false, "Stream columns without the terminal UI")

	if args == nil {
		// cobra falls back to os.Args on a nil slice
		args = []string{}
	}
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		return nil, err
	}
	if opts.Command == "" {
		return nil, nil
	}
	return opts, nil
}

func overlayFlags(c *cobra.Command, cfg *config.Config, fv *flagValues) {
	changed := c.Flags().Changed

	if changed("device") {
		cfg.Audio.InputDevice = fv.device
	}
	if changed("sample-rate") {
		cfg.Audio.SampleRate = fv.sampleRate
		if cfg.Spectrogram.MaxFreq > fv.sampleRate/2 && !changed("max-freq") {
			cfg.Spectrogram.MaxFreq = fv.sampleRate / 2
		}
	}
	if changed("channels") {
		cfg.Audio.InputChannels = fv.channels
	}
	if changed("frames-per-buffer") {
		cfg.Audio.FramesPerBuffer = fv.framesPerBuffer
	}
	if changed("low-latency") {
		cfg.Audio.LowLatency = fv.lowLatency
	}
	if changed("gate") {
		cfg.Audio.GateThreshold = fv.gate
	}

	sc := &cfg.Spectrogram
	if changed("fft-size") {
		sc.FFTSize = fv.fftSize
	}
	if changed("window") {
		sc.Window = fv.window
	}
	if changed("scale") {
		sc.Scale = fv.scale
	}
	if changed("theme") {
		sc.Theme = fv.theme
	}
	if changed("engine") {
		sc.Engine = fv.engine
	}
	if changed("min-freq") {
		sc.MinFreq = fv.minFreq
	}
	if changed("max-freq") {
		sc.MaxFreq = fv.maxFreq
	}
	if changed("min-db") {
		sc.MinDB = fv.minDB
	}
	if changed("max-db") {
		sc.MaxDB = fv.maxDB
	}
	if changed("time-range") {
		sc.TimeRange = fv.span
	}

	if changed("record") {
		cfg.Recording.Enabled = fv.record
	}
	if changed("websocket") {
		cfg.Transport.WebSocketEnabled = fv.websocket != ""
		cfg.Transport.WebSocketAddress = fv.websocket
	}
	if changed("udp") {
		cfg.Transport.UDPEnabled = fv.udp != ""
		cfg.Transport.UDPTargetAddress = fv.udp
	}

	if changed("log-level") {
		cfg.LogLevel = fv.logLevel
	}
	if fv.verbose {
		cfg.Debug = true
	}
}

func applyLogLevel(cfg *config.Config) {
	level, _ := log.ParseLevel(cfg.LogLevel)
	if cfg.Debug {
		level = log.LevelDebug
	}
	log.SetLevel(level)
	logger.Debugf("log level %v", level)
}
