// SPDX-License-Identifier: MIT
package freqscale

import (
	"errors"
	"fmt"

	"spectra/internal/log"
	"spectra/internal/validate"
)

var ErrUnknownScale = errors.New("unknown frequency scale")

var logger = log.With("freqscale")

// Params is everything the mapping table depends on.
type Params struct {
	Scale      Scale
	MinHz      float64
	MaxHz      float64
	SampleRate float64
	FFTSize    int
	Height     int
}

// Validate checks the parameters as a unit.
func (p Params) Validate() error {
	if !p.Scale.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownScale, int(p.Scale))
	}
	if err := validate.FFTSize(p.FFTSize); err != nil {
		return err
	}
	if err := validate.FrequencyRange(p.MinHz, p.MaxHz, p.SampleRate); err != nil {
		return err
	}
	if p.Height <= 0 {
		return fmt.Errorf("%w: output height %d", validate.ErrDimensions, p.Height)
	}
	return nil
}

// NumBins is the spectrum length the resampler expects.
func (p Params) NumBins() int { return p.FFTSize/2 + 1 }

// Resampler converts spectra of NumBins values into Height rows. Row 0 is
// MinHz and row Height-1 is MaxHz. It is not safe for concurrent use.
type Resampler struct {
	params  Params
	mapping []float32 // fractional bin per row
}

// NewResampler validates the parameters and builds the mapping table.
func NewResampler(scale Scale, minHz, maxHz, sampleRate float64, fftSize, height int) (*Resampler, error) {
	r := &Resampler{}
	if err := r.Configure(Params{
		Scale:      scale,
		MinHz:      minHz,
		MaxHz:      maxHz,
		SampleRate: sampleRate,
		FFTSize:    fftSize,
		Height:     height,
	}); err != nil {
		return nil, err
	}
	return r, nil
}

// Configure replaces every parameter at once and rebuilds the table. On error
// the resampler is unchanged.
func (r *Resampler) Configure(p Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	mapping := r.mapping
	if cap(mapping) >= p.Height {
		mapping = mapping[:p.Height]
	} else {
		mapping = make([]float32, p.Height)
	}
	buildMapping(mapping, p)
	r.mapping = mapping
	r.params = p
	logger.Debugf("mapping rebuilt (%v, %.1f-%.1f Hz, fft %d, %d rows)", p.Scale, p.MinHz, p.MaxHz, p.FFTSize, p.Height)
	return nil
}

func buildMapping(dst []float32, p Params) {
	lo := p.Scale.Forward(p.MinHz)
	hi := p.Scale.Forward(p.MaxHz)
	binsPerHz := float64(p.FFTSize) / p.SampleRate
	maxBin := float64(p.NumBins() - 1)

	n := len(dst)
	for i := range dst {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		hz := p.Scale.Inverse(lo + t*(hi-lo))
		bin := hz * binsPerHz
		if bin < 0 {
			bin = 0
		} else if bin > maxBin {
			bin = maxBin
		}
		dst[i] = float32(bin)
	}
}

// Resample linearly interpolates in at each mapped fractional bin.
// len(in) must be NumBins and len(out) Height.
func (r *Resampler) Resample(in []float32, out []float32) error {
	if err := validate.Length("resampler input", len(in), r.params.NumBins()); err != nil {
		return err
	}
	if err := validate.Length("resampler output", len(out), len(r.mapping)); err != nil {
		return err
	}

	last := len(in) - 1
	maxPos := float32(last)
	for i, pos := range r.mapping {
		if pos < 0 {
			pos = 0
		} else if pos > maxPos {
			pos = maxPos
		}
		lo := int(pos)
		if lo >= last {
			out[i] = in[last]
			continue
		}
		frac := pos - float32(lo)
		out[i] = in[lo] + frac*(in[lo+1]-in[lo])
	}
	return nil
}

func (r *Resampler) withParams(edit func(*Params)) error {
	p := r.params
	edit(&p)
	return r.Configure(p)
}

// SetScale switches the frequency axis.
func (r *Resampler) SetScale(s Scale) error {
	return r.withParams(func(p *Params) { p.Scale = s })
}

// SetFrequencyRange changes the displayed band.
func (r *Resampler) SetFrequencyRange(minHz, maxHz float64) error {
	return r.withParams(func(p *Params) { p.MinHz, p.MaxHz = minHz, maxHz })
}

// SetSampleRate changes the rate used to convert Hz to bins.
func (r *Resampler) SetSampleRate(rate float64) error {
	return r.withParams(func(p *Params) { p.SampleRate = rate })
}

// SetFFTSize changes the expected spectrum length.
func (r *Resampler) SetFFTSize(n int) error {
	return r.withParams(func(p *Params) { p.FFTSize = n })
}

// SetHeight changes the number of output rows.
func (r *Resampler) SetHeight(h int) error {
	return r.withParams(func(p *Params) { p.Height = h })
}

func (r *Resampler) Params() Params { return r.params }
func (r *Resampler) Scale() Scale { return r.params.Scale }
func (r *Resampler) MinFrequency() float64 { return r.params.MinHz }
func (r *Resampler) MaxFrequency() float64 { return r.params.MaxHz }
func (r *Resampler) Height() int { return len(r.mapping) }
func (r *Resampler) NumBins() int { return r.params.NumBins() }

// Mapping returns a copy of the fractional bin table.
func (r *Resampler) Mapping() []float32 {
	out := make([]float32, len(r.mapping))
	copy(out, r.mapping)
	return out
}

// FrequencyAt returns the frequency in Hz shown at row, or 0 if row is out of
// range.
func (r *Resampler) FrequencyAt(row int) float64 {
	if row < 0 || row >= len(r.mapping) {
		return 0
	}
	return float64(r.mapping[row]) * r.params.SampleRate / float64(r.params.FFTSize)
}
