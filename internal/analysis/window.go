// SPDX-License-Identifier: MIT
package analysis

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/dsp/window"
)

// WindowFunc selects the taper applied to each frame before the transform.
type WindowFunc int

// Hann is the zero value so an unset window is the usual default.
const (
	Hann WindowFunc = iota
	Hamming
	BartlettHann
	Blackman
	BlackmanNuttall
	Lanczos
	Nuttall
	Rectangular
	numWindows
)

var windowNames = [numWindows]string{
	Hann:            "hann",
	Hamming:         "hamming",
	BartlettHann:    "bartletthann",
	Blackman:        "blackman",
	BlackmanNuttall: "blackmannuttall",
	Lanczos:         "lanczos",
	Nuttall:         "nuttall",
	Rectangular:     "rectangular",
}

func (w WindowFunc) String() string {
	if w < 0 || w >= numWindows {
		return fmt.Sprintf("WindowFunc(%d)", int(w))
	}
	return windowNames[w]
}

// Valid reports whether w names a known window.
func (w WindowFunc) Valid() bool {
	return w >= 0 && w < numWindows
}

// WindowFuncs lists every supported window in enum order.
func WindowFuncs() []WindowFunc {
	out := make([]WindowFunc, numWindows)
	for i := range out {
		out[i] = WindowFunc(i)
	}
	return out
}

// ParseWindowFunc converts a string name (case-insensitive) to a WindowFunc
// enum, returns a known default (Hann) and an error if the name is unknown.
func ParseWindowFunc(name string) (WindowFunc, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "hann", "hanning":
		return Hann, nil
	case "hamming":
		return Hamming, nil
	case "bartletthann":
		return BartlettHann, nil
	case "blackman":
		return Blackman, nil
	case "blackmannuttall":
		return BlackmanNuttall, nil
	case "lanczos":
		return Lanczos, nil
	case "nuttall":
		return Nuttall, nil
	case "rectangular", "rect", "none":
		return Rectangular, nil
	default:
		return Hann, fmt.Errorf("%w: '%s'", ErrUnknownWindow, name)
	}
}

// fillWindow writes the coefficients of w into coeffs. The gonum window
// functions scale in place, so the slice starts at 1.0.
func fillWindow(coeffs []float64, w WindowFunc) {
	for i := range coeffs {
		coeffs[i] = 1.0
	}
	switch w {
	case Hann:
		window.Hann(coeffs)
	case Hamming:
		window.Hamming(coeffs)
	case BartlettHann:
		window.BartlettHann(coeffs)
	case Blackman:
		window.Blackman(coeffs)
	case BlackmanNuttall:
		window.BlackmanNuttall(coeffs)
	case Lanczos:
		window.Lanczos(coeffs)
	case Nuttall:
		window.Nuttall(coeffs)
	case Rectangular:
	}
}
