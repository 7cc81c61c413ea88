// SPDX-License-Identifier: MIT
package main

import (
	"context"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"spectra/cmd"
	"spectra/internal/log"
	"spectra/pkg/build"
)

// main runs in three phases:
//
// 1. Startup (cold path): build info, runtime settings, flags and config.
// 2. Running: capture feeds the ring buffer on the audio thread while the
//    UI loop drains it into the spectrogram.
// 3. Shutdown (cold path): on quit or SIGINT/SIGTERM, stop capture, finalise
//    any recording and close transports.
func main() {
	if err := build.Initialize(); err != nil {
		log.Debugf("development build: %v", err)
	}

	// One thread for the audio callback, one for processing and UI.
	runtime.GOMAXPROCS(2)

	opts, err := cmd.ParseArgs(os.Args[1:])
	if err != nil {
		log.Errorf("%v", err)
		os.Exit(2)
	}
	if opts == nil {
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts); err != nil {
		log.Errorf("%v", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, opts *cmd.Options) error {
	switch opts.Command {
	case cmd.CommandList:
		return cmd.ListDevices(opts, os.Stdout)
	case cmd.CommandRender:
		return cmd.Render(opts, os.Stdout)
	default:
		return cmd.RunLive(ctx, opts)
	}
}
