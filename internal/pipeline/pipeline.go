// SPDX-License-Identifier: MIT

// Package pipeline drives one spectrogram column at a time through the
// analyzer, the frequency-scale resampler, dB normalisation, the colormap and
// the scrolling image.
//
// A Pipeline is owned by a single processing goroutine. Reconfiguration
// happens on that goroutine too, between columns; the only structure shared
// with the audio producer is the ring buffer it drains.
package pipeline

import (
	"fmt"

	"github.com/chewxy/math32"

	"spectra/internal/analysis"
	"spectra/internal/colormap"
	"spectra/internal/config"
	"spectra/internal/freqscale"
	"spectra/internal/log"
	"spectra/internal/spectrogram"
	"spectra/internal/validate"
)

var logger = log.With("pipeline")

// ColumnSink receives every finished column. colors and levels alias the
// pipeline's buffers and are only valid for the duration of the call.
type ColumnSink interface {
	WriteColumn(index uint64, colors []uint32, levels []float32) error
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithEngine selects the FFT engine used by the analyzer.
func WithEngine(f analysis.EngineFactory) Option {
	return func(p *Pipeline) { p.engine = f }
}

// WithSink attaches a column sink.
func WithSink(s ColumnSink) Option {
	return func(p *Pipeline) { p.sink = s }
}

// Pipeline turns sample windows into image columns.
type Pipeline struct {
	settings  config.Settings
	engine    analysis.EngineFactory
	analyzer  analysis.SpectrumProcessor
	meter     *analysis.BandMeter
	resampler *freqscale.Resampler
	mapper    *colormap.Mapper
	image     *spectrogram.Image
	sink      ColumnSink

	window   []float32 // FFTSize samples
	spectrum []float32 // NumBins dB values
	rows     []float32 // height dB values
	levels   []float32 // height values in [0, 1]
	colors   []uint32  // height packed colours
	bands    []float32 // mean dB per analysis band

	readPos uint64 // absolute ring position of the next window
	columns uint64 // columns produced
	dropped uint64 // hops skipped after falling behind the writer
}

// New builds every stage from settings for a width x height image.
func New(settings config.Settings, width, height int, opts ...Option) (*Pipeline, error) {
	p := &Pipeline{engine: analysis.EngineGonum}
	for _, opt := range opts {
		opt(p)
	}
	if err := validate.Dimensions(width, height); err != nil {
		return nil, err
	}
	image, err := spectrogram.NewImage(width, height)
	if err != nil {
		return nil, err
	}
	p.image = image
	if err := p.rebuild(settings, height); err != nil {
		return nil, err
	}
	logger.Infof("ready (fft %d, %v, %v, %.0f-%.0f Hz, %dx%d)",
		settings.FFTSize, settings.Window, settings.Scale, settings.MinFreq, settings.MaxFreq, width, height)
	return p, nil
}

// rebuild constructs every stage into locals and swaps them in only when all
// succeed.
func (p *Pipeline) rebuild(s config.Settings, height int) error {
	if err := s.Validate(); err != nil {
		return err
	}
	analyzer, err := analysis.NewSpectralAnalyzerWithEngine(s.FFTSize, s.Window, p.engine)
	if err != nil {
		return err
	}
	resampler, err := freqscale.NewResampler(s.Scale, s.MinFreq, s.MaxFreq, s.SampleRate, s.FFTSize, height)
	if err != nil {
		return err
	}
	mapper, err := colormap.NewMapper(s.Theme)
	if err != nil {
		return err
	}
	meter, err := analysis.NewBandMeter(analysis.DefaultBands, s.FFTSize, s.SampleRate)
	if err != nil {
		return err
	}

	p.settings = s
	p.analyzer = analyzer
	p.resampler = resampler
	p.mapper = mapper
	p.meter = meter
	p.bands = make([]float32, len(analysis.DefaultBands))
	p.window = make([]float32, s.FFTSize)
	p.spectrum = make([]float32, analyzer.NumBins())
	p.rows = make([]float32, height)
	p.levels = make([]float32, height)
	p.colors = make([]uint32, height)
	return nil
}

// Reconfigure applies new settings to every stage and clears the image. On
// error nothing changes.
func (p *Pipeline) Reconfigure(s config.Settings) error {
	if err := p.rebuild(s, p.image.Height()); err != nil {
		return err
	}
	p.image.Clear()
	logger.Infof("reconfigured (fft %d, %v, %v, %v)", s.FFTSize, s.Window, s.Scale, s.Theme)
	return nil
}

// Resize changes the image dimensions and clears it.
func (p *Pipeline) Resize(width, height int) error {
	if err := validate.Dimensions(width, height); err != nil {
		return err
	}
	if err := p.resampler.SetHeight(height); err != nil {
		return err
	}
	if err := p.image.Resize(width, height); err != nil {
		return err
	}
	p.rows = make([]float32, height)
	p.levels = make([]float32, height)
	p.colors = make([]uint32, height)
	return nil
}

// ProcessWindow runs one window of FFTSize samples through every stage and
// appends the resulting column.
func (p *Pipeline) ProcessWindow(samples []float32) error {
	if err := p.analyzer.Process(samples, p.spectrum); err != nil {
		return err
	}
	if err := p.meter.Measure(p.spectrum, p.bands); err != nil {
		return err
	}
	if err := p.resampler.Resample(p.spectrum, p.rows); err != nil {
		return err
	}
	Normalize(p.levels, p.rows, float32(p.settings.MinDB), float32(p.settings.MaxDB))
	if err := p.mapper.TransformColumn(p.levels, p.colors); err != nil {
		return err
	}
	if err := p.image.AddColumn(p.colors); err != nil {
		return err
	}
	index := p.columns
	p.columns++

	if p.sink != nil {
		if err := p.sink.WriteColumn(index, p.colors, p.levels); err != nil {
			return fmt.Errorf("column sink: %w", err)
		}
	}
	return nil
}

// Normalize maps dB values onto [0, 1] between minDB and maxDB. NaN passes
// through for the colormap to handle.
func Normalize(dst, src []float32, minDB, maxDB float32) {
	scale := 1 / (maxDB - minDB)
	for i, v := range src {
		dst[i] = math32.Min(math32.Max((v-minDB)*scale, 0), 1)
	}
}

func (p *Pipeline) Settings() config.Settings { return p.settings }
func (p *Pipeline) Image() *spectrogram.Image { return p.image }
func (p *Pipeline) Resampler() *freqscale.Resampler { return p.resampler }
func (p *Pipeline) Columns() uint64 { return p.columns }
func (p *Pipeline) Dropped() uint64 { return p.dropped }
func (p *Pipeline) ReadPosition() uint64 { return p.readPos }

// Rows returns the last column in dB before normalisation. It aliases the
// pipeline's buffer.
func (p *Pipeline) Rows() []float32 { return p.rows }

// Levels returns the last normalised column. It aliases the pipeline's buffer.
func (p *Pipeline) Levels() []float32 { return p.levels }

// BandLevels returns the latest mean level in dB of each analysis.DefaultBands
// entry. The slice is overwritten by the next column.
func (p *Pipeline) BandLevels() []float32 { return p.bands }

// Seek sets the ring position of the next window.
func (p *Pipeline) Seek(pos uint64) { p.readPos = pos }
