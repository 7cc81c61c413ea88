// SPDX-License-Identifier: MIT
package colormap

import (
	"errors"
	"fmt"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

var ErrUnknownTheme = errors.New("unknown color theme")

// Theme selects a colormap.
type Theme int

const (
	// CMRmap runs black, purple, red, yellow, white.
	CMRmap Theme = iota
	Grayscale
	numThemes
)

var themeNames = [numThemes]string{
	CMRmap:    "cmrmap",
	Grayscale: "grayscale",
}

func (t Theme) String() string {
	if t < 0 || t >= numThemes {
		return fmt.Sprintf("Theme(%d)", int(t))
	}
	return themeNames[t]
}

// Valid reports whether t is a known theme.
func (t Theme) Valid() bool {
	return t >= 0 && t < numThemes
}

// Themes lists every supported theme in enum order.
func Themes() []Theme {
	out := make([]Theme, numThemes)
	for i := range out {
		out[i] = Theme(i)
	}
	return out
}

// ParseTheme converts a case-insensitive name to a Theme. Unknown names
// return CMRmap and an error.
func ParseTheme(name string) (Theme, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "cmrmap", "cmr":
		return CMRmap, nil
	case "grayscale", "greyscale", "gray", "grey":
		return Grayscale, nil
	default:
		return CMRmap, fmt.Errorf("%w: '%s'", ErrUnknownTheme, name)
	}
}

// CMRmap keypoints, evenly spaced from 0 to 1.
var cmrKeypoints = []colorful.Color{
	{R: 0.00, G: 0.00, B: 0.00},
	{R: 0.15, G: 0.15, B: 0.50},
	{R: 0.30, G: 0.15, B: 0.75},
	{R: 0.60, G: 0.20, B: 0.50},
	{R: 1.00, G: 0.25, B: 0.15},
	{R: 0.90, G: 0.50, B: 0.00},
	{R: 0.90, G: 0.75, B: 0.10},
	{R: 0.90, G: 0.90, B: 0.50},
	{R: 1.00, G: 1.00, B: 1.00},
}

var grayKeypoints = []colorful.Color{
	{R: 0, G: 0, B: 0},
	{R: 1, G: 1, B: 1},
}

func (t Theme) keypoints() []colorful.Color {
	if t == Grayscale {
		return grayKeypoints
	}
	return cmrKeypoints
}

// at samples a keypoint gradient at x in [0, 1]. Blending is linear in RGB,
// which keeps the luminance of CMRmap non-decreasing.
func at(keys []colorful.Color, x float64) colorful.Color {
	segments := len(keys) - 1
	pos := x * float64(segments)
	i := int(pos)
	if i >= segments {
		return keys[segments]
	}
	return keys[i].BlendRgb(keys[i+1], pos-float64(i)).Clamped()
}

// buildLUT fills lut with the theme sampled at i/255.
func buildLUT(lut *[LUTSize]uint32, t Theme) {
	keys := t.keypoints()
	for i := range lut {
		r, g, b := at(keys, float64(i)/(LUTSize-1)).RGB255()
		lut[i] = Pack(r, g, b, 0xFF)
	}
}
