// SPDX-License-Identifier: MIT
package config

import (
	"fmt"
	"math"

	"spectra/internal/analysis"
	"spectra/internal/colormap"
	"spectra/internal/freqscale"
	"spectra/internal/validate"
)

// Settings is the shared spectrogram configuration consumed by every stage
// of the pipeline. It is validated as a unit: each setter checks the new
// value against the rest and leaves the settings unchanged on error.
type Settings struct {
	FFTSize    int
	Window     analysis.WindowFunc
	Scale      freqscale.Scale
	Theme      colormap.Theme
	MinFreq    float64 // Hz
	MaxFreq    float64 // Hz
	MinDB      float64
	MaxDB      float64
	TimeRange  float64 // seconds across the visible window
	SampleRate float64 // Hz
}

// DefaultSettings returns the built-in spectrogram settings.
func DefaultSettings() Settings {
	return Settings{
		FFTSize:    DefaultFFTSize,
		Window:     analysis.Hann,
		Scale:      freqscale.Mel,
		Theme:      colormap.CMRmap,
		MinFreq:    DefaultMinFreq,
		MaxFreq:    DefaultMaxFreq,
		MinDB:      DefaultMinDB,
		MaxDB:      DefaultMaxDB,
		TimeRange:  DefaultTimeRange,
		SampleRate: DefaultSampleRate,
	}
}

// Validate checks every field and their relationships.
func (s Settings) Validate() error {
	if err := validate.FFTSize(s.FFTSize); err != nil {
		return err
	}
	if !s.Window.Valid() {
		return fmt.Errorf("%w: %d", analysis.ErrUnknownWindow, int(s.Window))
	}
	if !s.Scale.Valid() {
		return fmt.Errorf("%w: %d", freqscale.ErrUnknownScale, int(s.Scale))
	}
	if !s.Theme.Valid() {
		return fmt.Errorf("%w: %d", colormap.ErrUnknownTheme, int(s.Theme))
	}
	if err := validate.FrequencyRange(s.MinFreq, s.MaxFreq, s.SampleRate); err != nil {
		return err
	}
	if err := validate.AmplitudeRange(s.MinDB, s.MaxDB); err != nil {
		return err
	}
	return validate.TimeRange(s.TimeRange)
}

// apply validates a modified copy and commits it only on success.
func (s *Settings) apply(edit func(*Settings)) error {
	next := *s
	edit(&next)
	if err := next.Validate(); err != nil {
		return err
	}
	*s = next
	return nil
}

func (s *Settings) SetFFTSize(n int) error {
	return s.apply(func(c *Settings) { c.FFTSize = n })
}

func (s *Settings) SetWindow(w analysis.WindowFunc) error {
	return s.apply(func(c *Settings) { c.Window = w })
}

func (s *Settings) SetScale(sc freqscale.Scale) error {
	return s.apply(func(c *Settings) { c.Scale = sc })
}

func (s *Settings) SetTheme(t colormap.Theme) error {
	return s.apply(func(c *Settings) { c.Theme = t })
}

// SetFrequencyRange requires 0 < minHz < maxHz <= Nyquist.
func (s *Settings) SetFrequencyRange(minHz, maxHz float64) error {
	return s.apply(func(c *Settings) { c.MinFreq, c.MaxFreq = minHz, maxHz })
}

func (s *Settings) SetAmplitudeRange(minDB, maxDB float64) error {
	return s.apply(func(c *Settings) { c.MinDB, c.MaxDB = minDB, maxDB })
}

func (s *Settings) SetTimeRange(seconds float64) error {
	return s.apply(func(c *Settings) { c.TimeRange = seconds })
}

// SetSampleRate changes the rate and pulls MaxFreq down to the new Nyquist
// frequency if it no longer fits.
func (s *Settings) SetSampleRate(rate float64) error {
	if err := validate.SampleRate(rate); err != nil {
		return err
	}
	return s.apply(func(c *Settings) {
		c.SampleRate = rate
		c.MaxFreq = math.Min(c.MaxFreq, rate/2)
	})
}

// Nyquist is half the sample rate.
func (s Settings) Nyquist() float64 { return s.SampleRate / 2 }

// NumBins is the analyzer output length.
func (s Settings) NumBins() int { return s.FFTSize/2 + 1 }

// BinResolution is the spacing of FFT bins in Hz.
func (s Settings) BinResolution() float64 { return s.SampleRate / float64(s.FFTSize) }

// SamplesPerColumn is the hop between consecutive analysis windows.
func (s Settings) SamplesPerColumn() int {
	return max(1, int(float64(s.FFTSize)*HopFraction))
}

// TimePerColumn is the duration of one hop in seconds.
func (s Settings) TimePerColumn() float64 {
	return float64(s.SamplesPerColumn()) / s.SampleRate
}

// ColumnsForTimeRange is how many columns cover TimeRange seconds.
func (s Settings) ColumnsForTimeRange() int {
	return max(1, int(math.Ceil(s.TimeRange/s.TimePerColumn())))
}

// FitsRing checks that a ring of capacity samples holds one window plus one
// hop, the least a reader needs to keep up with the writer.
func (s Settings) FitsRing(capacity int) error {
	if need := s.FFTSize + s.SamplesPerColumn(); capacity < need {
		return fmt.Errorf("%w: ring of %d samples cannot hold fft %d plus hop %d",
			validate.ErrDimensions, capacity, s.FFTSize, s.SamplesPerColumn())
	}
	return nil
}
