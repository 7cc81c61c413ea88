// SPDX-License-Identifier: MIT

// Package colormap converts normalised amplitudes to packed RGBA colours
// through a 256-entry lookup table. Colours are packed little-endian as
// 0xAABBGGRR so a []uint32 column can be uploaded as RGBA8 bytes.
package colormap

import (
	"fmt"

	"github.com/chewxy/math32"

	"spectra/internal/log"
	"spectra/internal/validate"
)

// LUTSize is the number of quantisation levels.
const LUTSize = 256

var logger = log.With("colormap")

// Mapper owns one theme's lookup table. It is not safe for concurrent use.
type Mapper struct {
	theme Theme
	lut   [LUTSize]uint32
}

// NewMapper builds the table for theme.
func NewMapper(theme Theme) (*Mapper, error) {
	if !theme.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTheme, int(theme))
	}
	m := &Mapper{theme: theme}
	buildLUT(&m.lut, theme)
	return m, nil
}

// SetTheme regenerates the table. Setting the active theme is a no-op.
func (m *Mapper) SetTheme(theme Theme) error {
	if !theme.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownTheme, int(theme))
	}
	if theme == m.theme {
		return nil
	}
	buildLUT(&m.lut, theme)
	m.theme = theme
	logger.Debugf("theme set to %v", theme)
	return nil
}

// Theme returns the active theme.
func (m *Mapper) Theme() Theme { return m.theme }

// LUT returns a copy of the lookup table.
func (m *Mapper) LUT() [LUTSize]uint32 { return m.lut }

// index quantises v to a table index. NaN and -Inf map to 0, +Inf to 255.
func index(v float32) int {
	if math32.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 1 {
		return LUTSize - 1
	}
	return int(v*(LUTSize-1) + 0.5)
}

// ValueToColor returns the colour for v, clamped to [0, 1].
func (m *Mapper) ValueToColor(v float32) uint32 {
	return m.lut[index(v)]
}

// TransformColumn maps every value of in into out. The slices must have the
// same length.
func (m *Mapper) TransformColumn(in []float32, out []uint32) error {
	if err := validate.Length("color column", len(out), len(in)); err != nil {
		return err
	}
	lut := &m.lut
	for i, v := range in {
		out[i] = lut[index(v)]
	}
	return nil
}

// Pack builds a 0xAABBGGRR colour.
func Pack(r, g, b, a uint8) uint32 {
	return uint32(r) | uint32(g)<<8 | uint32(b)<<16 | uint32(a)<<24
}

// Unpack splits a 0xAABBGGRR colour.
func Unpack(c uint32) (r, g, b, a uint8) {
	return uint8(c), uint8(c >> 8), uint8(c >> 16), uint8(c >> 24)
}

// Luminance is 0.299R + 0.587G + 0.114B in 0..255.
func Luminance(c uint32) float32 {
	r, g, b, _ := Unpack(c)
	return 0.299*float32(r) + 0.587*float32(g) + 0.114*float32(b)
}
