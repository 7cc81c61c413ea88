// SPDX-License-Identifier: MIT
package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"spectra/internal/analysis"
	"spectra/internal/audio"
	"spectra/internal/pipeline"
)

// Render runs a WAV file through the pipeline offline and writes the visible
// window as a bitmap. A file that cannot be loaded is replaced by the
// fallback chirp so the output is never empty.
func Render(opts *Options, w io.Writer) error {
	cfg := opts.Config
	settings, err := cfg.Settings()
	if err != nil {
		return err
	}
	rate := settings.SampleRate

	var samples []float32
	clip, err := audio.LoadWAV(opts.Input)
	switch {
	case err != nil:
		logger.Warnf("%v; rendering a test chirp instead", err)
		samples = audio.FallbackChirp(rate)
	case float64(clip.SampleRate) != rate:
		logger.Infof("resampling %d Hz to %.0f Hz", clip.SampleRate, rate)
		samples = audio.ResampleLinear(clip.Samples, float64(clip.SampleRate), rate)
	default:
		samples = clip.Samples
	}

	n, hop := settings.FFTSize, settings.SamplesPerColumn()
	if len(samples) < n {
		samples = append(samples, make([]float32, n-len(samples))...)
	}
	columns := (len(samples)-n)/hop + 1
	width := opts.Width
	if width <= 0 {
		width = min(columns, cfg.VisibleColumns(settings))
	}

	engine, _ := analysis.ParseEngine(cfg.Spectrogram.Engine)
	pipe, err := pipeline.New(settings, width, cfg.Spectrogram.Height, pipeline.WithEngine(engine))
	if err != nil {
		return err
	}
	for i := range columns {
		start := i * hop
		if err := pipe.ProcessWindow(samples[start : start+n]); err != nil {
			return err
		}
	}

	out := opts.Output
	if out == "" {
		out = strings.TrimSuffix(opts.Input, filepath.Ext(opts.Input)) + ".bmp"
	}
	if err := pipe.Image().SaveBMP(out); err != nil {
		return err
	}
	fmt.Fprintf(w, "Wrote %s (%dx%d, %d columns)\n", out, width, cfg.Spectrogram.Height, columns)
	return nil
}
