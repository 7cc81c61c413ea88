// SPDX-License-Identifier: MIT
package analysis

import (
	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/dsp/fourier"
)

// Engine is a real-to-complex forward transform of a fixed length.
type Engine interface {
	// Coefficients writes the Len()/2+1 non-negative frequency coefficients
	// of seq into dst and returns it.
	Coefficients(dst []complex128, seq []float64) []complex128
	Len() int
}

// EngineFactory builds an Engine for an n-point transform.
type EngineFactory func(n int) Engine

// EngineGonum is the default engine. It reuses its plan and does not allocate
// per call.
func EngineGonum(n int) Engine {
	return fourier.NewFFT(n)
}

// EngineGoDSP wraps go-dsp's transform. It allocates on every call, so it
// suits offline rendering and cross-checks rather than live capture.
func EngineGoDSP(n int) Engine {
	return goDSPEngine{n: n}
}

type goDSPEngine struct {
	n int
}

func (e goDSPEngine) Len() int { return e.n }

func (e goDSPEngine) Coefficients(dst []complex128, seq []float64) []complex128 {
	if dst == nil {
		dst = make([]complex128, e.n/2+1)
	}
	full := fft.FFTReal(seq)
	copy(dst, full[:len(dst)])
	return dst
}

// ParseEngine maps a name to a factory. Unknown names fall back to gonum.
func ParseEngine(name string) (EngineFactory, bool) {
	switch name {
	case "", "gonum":
		return EngineGonum, true
	case "go-dsp", "godsp":
		return EngineGoDSP, true
	default:
		return EngineGonum, false
	}
}
