// SPDX-License-Identifier: MIT

// Package freqscale maps a linear FFT spectrum onto a display axis.
//
// Each Scale is a monotonic transform of frequency with an exact inverse.
// The Resampler spaces output rows evenly in the transformed domain, converts
// each row back to Hz and then to a fractional FFT bin, and keeps that table
// so the per-column work is one interpolation per row.
package freqscale

import (
	"fmt"
	"math"
	"strings"
)

// Scale selects the frequency axis.
type Scale int

const (
	Linear Scale = iota
	Logarithmic
	Mel
	ERB
	Octave
	numScales
)

// erbScale is the ERB-rate constant 1000/(24.7*4.37*ln 10).
const erbScale = 21.33228113095401739888262

var scaleNames = [numScales]string{
	Linear:      "linear",
	Logarithmic: "log",
	Mel:         "mel",
	ERB:         "erb",
	Octave:      "octave",
}

func (s Scale) String() string {
	if s < 0 || s >= numScales {
		return fmt.Sprintf("Scale(%d)", int(s))
	}
	return scaleNames[s]
}

// Valid reports whether s is a known scale.
func (s Scale) Valid() bool {
	return s >= 0 && s < numScales
}

// Scales lists every supported scale in enum order.
func Scales() []Scale {
	out := make([]Scale, numScales)
	for i := range out {
		out[i] = Scale(i)
	}
	return out
}

// ParseScale converts a case-insensitive name to a Scale. Unknown names
// return Mel and an error.
func ParseScale(name string) (Scale, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "linear", "lin":
		return Linear, nil
	case "log", "logarithmic":
		return Logarithmic, nil
	case "mel":
		return Mel, nil
	case "erb":
		return ERB, nil
	case "octave", "oct":
		return Octave, nil
	default:
		return Mel, fmt.Errorf("%w: '%s'", ErrUnknownScale, name)
	}
}

// Forward maps hz into the scale's domain.
func (s Scale) Forward(hz float64) float64 {
	switch s {
	case Logarithmic:
		return math.Log10(hz)
	case Mel:
		return 2595 * math.Log10(1+hz/700)
	case ERB:
		return erbScale * math.Log10(1+0.00437*hz)
	case Octave:
		return math.Log2(hz)
	default:
		return hz
	}
}

// Inverse maps a value from the scale's domain back to Hz.
func (s Scale) Inverse(v float64) float64 {
	switch s {
	case Logarithmic:
		return math.Pow(10, v)
	case Mel:
		return 700 * (math.Pow(10, v/2595) - 1)
	case ERB:
		return (math.Pow(10, v/erbScale) - 1) / 0.00437
	case Octave:
		return math.Exp2(v)
	default:
		return v
	}
}
