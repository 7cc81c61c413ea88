// SPDX-License-Identifier: MIT
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"spectra/internal/analysis"
	"spectra/internal/audio"
	"spectra/internal/config"
	"spectra/internal/log"
	"spectra/internal/pipeline"
	"spectra/internal/ringbuffer"
	"spectra/internal/transport"
	"spectra/internal/transport/udp"
	"spectra/internal/tui"
)

// RunLive captures from the configured device, or a synthetic chirp when no
// device can be opened, and shows the spectrogram until the user quits or
// ctx ends.
func RunLive(ctx context.Context, opts *Options) error {
	cfg := opts.Config
	settings, err := cfg.Settings()
	if err != nil {
		return err
	}
	engine, _ := analysis.ParseEngine(cfg.Spectrogram.Engine)

	ring, err := ringbuffer.New(cfg.RingCapacity())
	if err != nil {
		return err
	}

	sink, err := openTransports(cfg.Transport)
	if err != nil {
		return err
	}
	defer func() {
		if err := sink.Close(); err != nil {
			logger.Errorf("closing transports: %v", err)
		}
	}()

	pipeOpts := []pipeline.Option{pipeline.WithEngine(engine)}
	if sink.Len() > 0 {
		pipeOpts = append(pipeOpts, pipeline.WithSink(sink))
	}
	pipe, err := pipeline.New(settings, cfg.VisibleColumns(settings), cfg.Spectrogram.Height, pipeOpts...)
	if err != nil {
		return err
	}

	srcCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	source, stop := startSource(srcCtx, cfg, ring, opts.RecordPath)
	defer stop()

	if opts.Headless {
		interval := time.Duration(settings.TimePerColumn() * float64(time.Second))
		logger.Infof("headless: %s, one column every %s", source, interval)
		if err := pipe.Run(ctx, ring, interval); !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	}

	// Log lines would tear the alternate screen.
	logPath := filepath.Join(os.TempDir(), "spectra.log")
	if f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
		log.SetOutput(f)
		defer func() {
			log.SetOutput(os.Stderr)
			f.Close()
		}()
	} else {
		log.SetLevel(log.LevelFatal)
	}

	return tui.Run(ctx, tui.NewModel(pipe, ring, source, 0))
}

// startSource starts capture into ring and returns a label for the source
// and a function that releases it. When the device cannot be opened it
// loops the fallback chirp instead.
func startSource(ctx context.Context, cfg *config.Config, ring *ringbuffer.RingBuffer, recordPath string) (string, func()) {
	engine, err := openCapture(cfg.Audio, ring)
	if err != nil {
		logger.Warnf("capture unavailable (%v), showing a test chirp", err)
		go loopChirp(ctx, cfg.Audio, ring)
		return "test chirp", func() {}
	}

	if cfg.Recording.Enabled {
		if recordPath == "" {
			recordPath = filepath.Join(cfg.Recording.OutputDir,
				"recording-"+time.Now().UTC().Format("02-01-2006-150405")+"."+cfg.Recording.Format)
		}
		if err := engine.StartRecording(recordPath, cfg.Recording.BitDepth, cfg.Recording.MaxDuration); err != nil {
			logger.Errorf("recording disabled: %v", err)
		}
	}

	label := "default input"
	if cfg.Audio.InputDevice != config.MinDeviceID {
		label = fmt.Sprintf("device %d", cfg.Audio.InputDevice)
	}
	return label, func() {
		if engine.Recording() {
			fmt.Fprintf(os.Stderr, "Recording saved to: %s\n", recordPath)
		}
		if err := engine.Close(); err != nil {
			logger.Errorf("closing audio engine: %v", err)
		}
		if err := audio.Terminate(); err != nil {
			logger.Errorf("%v", err)
		}
	}
}

func openCapture(ac config.AudioConfig, ring *ringbuffer.RingBuffer) (*audio.Engine, error) {
	if err := audio.Initialize(); err != nil {
		return nil, err
	}
	engine, err := audio.NewEngine(ac, ring)
	if err == nil {
		err = engine.StartInputStream()
	}
	if err != nil {
		audio.Terminate()
		return nil, err
	}
	return engine, nil
}

func loopChirp(ctx context.Context, ac config.AudioConfig, ring *ringbuffer.RingBuffer) {
	chirp := audio.FallbackChirp(ac.SampleRate)
	for {
		if err := audio.Stream(ctx, chirp, ac.SampleRate, ac.FramesPerBuffer, ring); err != nil {
			return
		}
	}
}

// openTransports starts every enabled column transport. A failure closes
// the ones already started.
func openTransports(tc config.TransportConfig) (*transport.Sink, error) {
	var ts []transport.Transport
	fail := func(err error) (*transport.Sink, error) {
		transport.NewSink(ts).Close()
		return nil, err
	}

	if tc.WebSocketEnabled {
		ws, err := transport.NewWebSocketTransport(tc.WebSocketAddress)
		if err != nil {
			return fail(err)
		}
		ts = append(ts, ws)
	}
	if tc.UDPEnabled {
		sender, err := udp.NewUDPSender(tc.UDPTargetAddress)
		if err != nil {
			return fail(err)
		}
		pub, err := udp.NewUDPPublisher(tc.UDPSendInterval, sender)
		if err != nil {
			sender.Close()
			return fail(err)
		}
		pub.Start()
		ts = append(ts, pub)
	}
	if log.GetLevel() == log.LevelDebug {
		ts = append(ts, transport.NewLoggingTransport())
	}
	return transport.NewSink(ts), nil
}
