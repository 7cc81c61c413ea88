// SPDX-License-Identifier: MIT
package analysis

import (
	"fmt"
	"math"

	"github.com/chewxy/math32"

	"spectra/internal/validate"
)

// Band is a named frequency range [LowHz, HighHz). A HighHz of zero or above
// Nyquist extends the band to Nyquist; a band starting above Nyquist is
// always silent.
type Band struct {
	Name   string
	LowHz  float64
	HighHz float64
}

// DefaultBands splits the audible range the way mixing engineers do.
var DefaultBands = []Band{
	{Name: "sub", LowHz: 20, HighHz: 60},
	{Name: "bass", LowHz: 60, HighHz: 250},
	{Name: "lowMid", LowHz: 250, HighHz: 500},
	{Name: "mid", LowHz: 500, HighHz: 2000},
	{Name: "highMid", LowHz: 2000, HighHz: 4000},
	{Name: "treble", LowHz: 4000},
}

// BandMeter reduces a dB spectrum to one mean level per band.
type BandMeter struct {
	bands   []Band
	lo, hi  []int // bin range per band, hi exclusive
	numBins int
}

// NewBandMeter resolves each band to spectrum bins for the given transform.
func NewBandMeter(bands []Band, fftSize int, sampleRate float64) (*BandMeter, error) {
	if err := validate.FFTSize(fftSize); err != nil {
		return nil, err
	}
	if err := validate.SampleRate(sampleRate); err != nil {
		return nil, err
	}
	numBins := fftSize/2 + 1
	nyquist := sampleRate / 2
	res := sampleRate / float64(fftSize)

	m := &BandMeter{
		bands:   append([]Band(nil), bands...),
		lo:      make([]int, len(bands)),
		hi:      make([]int, len(bands)),
		numBins: numBins,
	}
	for i, b := range bands {
		if !(b.LowHz >= 0) || (b.HighHz > 0 && b.HighHz <= b.LowHz) {
			return nil, fmt.Errorf("%w: band %q [%g, %g] Hz", validate.ErrFrequencyRange, b.Name, b.LowHz, b.HighHz)
		}
		if b.LowHz >= nyquist {
			m.lo[i], m.hi[i] = numBins, numBins
			continue
		}
		m.lo[i] = int(math.Ceil(b.LowHz / res))
		if b.HighHz <= 0 || b.HighHz >= nyquist {
			m.hi[i] = numBins
		} else {
			m.hi[i] = min(int(math.Ceil(b.HighHz/res)), numBins)
		}
	}
	return m, nil
}

// Bands returns a copy of the band definitions.
func (m *BandMeter) Bands() []Band {
	return append([]Band(nil), m.bands...)
}

// Measure writes the mean power of each band, in dB, to out. Bands too
// narrow to contain a bin read as silence.
func (m *BandMeter) Measure(spectrum, out []float32) error {
	if err := validate.Length("spectrum", len(spectrum), m.numBins); err != nil {
		return err
	}
	if err := validate.Length("band levels", len(out), len(m.bands)); err != nil {
		return err
	}
	for i := range m.bands {
		lo, hi := m.lo[i], m.hi[i]
		if hi <= lo {
			out[i] = 10 * math32.Log10(Epsilon)
			continue
		}
		var sum float32
		for _, db := range spectrum[lo:hi] {
			sum += math32.Pow(10, db/10)
		}
		out[i] = 10 * math32.Log10(sum/float32(hi-lo)+Epsilon)
	}
	return nil
}
