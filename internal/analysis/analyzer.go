// SPDX-License-Identifier: MIT
package analysis

import (
	"errors"
	"math"

	"spectra/internal/log"
	"spectra/internal/validate"
)

// Epsilon keeps the logarithm finite for silent frames; silence maps to -300 dB.
const Epsilon = 1e-30

var ErrUnknownWindow = errors.New("unknown window function")

var logger = log.With("analysis")

// Pre-allocated buffers for one transform size.
type workspace struct {
	input  []float64    // windowed frame
	coeffs []complex128 // transform output, fftSize/2+1
	window []float64    // window coefficients
}

func newWorkspace(fftSize int, w WindowFunc) workspace {
	ws := workspace{
		input:  make([]float64, fftSize),
		coeffs: make([]complex128, fftSize/2+1),
		window: make([]float64, fftSize),
	}
	fillWindow(ws.window, w)
	return ws
}

// SpectralAnalyzer turns a frame of fftSize samples into a dB power spectrum
// of fftSize/2+1 bins. It is not safe for concurrent use; the processing
// goroutine owns it.
type SpectralAnalyzer struct {
	fftSize    int
	windowFunc WindowFunc
	newEngine  EngineFactory
	engine     Engine
	scale      float64 // 1/fftSize^2
	ws         workspace
}

// Compile-time check.
var _ SpectrumProcessor = (*SpectralAnalyzer)(nil)

// NewSpectralAnalyzer creates an analyzer backed by the gonum transform.
func NewSpectralAnalyzer(fftSize int, w WindowFunc) (*SpectralAnalyzer, error) {
	return NewSpectralAnalyzerWithEngine(fftSize, w, EngineGonum)
}

// NewSpectralAnalyzerWithEngine creates an analyzer with an injected
// transform. A nil factory selects gonum.
func NewSpectralAnalyzerWithEngine(fftSize int, w WindowFunc, factory EngineFactory) (*SpectralAnalyzer, error) {
	if err := validate.FFTSize(fftSize); err != nil {
		return nil, err
	}
	if !w.Valid() {
		return nil, ErrUnknownWindow
	}
	if factory == nil {
		factory = EngineGonum
	}

	logger.Debugf("new analyzer (size %d, window %v)", fftSize, w)

	return &SpectralAnalyzer{
		fftSize:    fftSize,
		windowFunc: w,
		newEngine:  factory,
		engine:     factory(fftSize),
		scale:      1 / (float64(fftSize) * float64(fftSize)),
		ws:         newWorkspace(fftSize, w),
	}, nil
}

// Process windows in, transforms it and writes 10*log10(|X|^2/N^2 + eps)
// for each bin into out. len(in) must be FFTSize and len(out) NumBins.
func (a *SpectralAnalyzer) Process(in []float32, out []float32) error {
	if err := validate.Length("analyzer input", len(in), a.fftSize); err != nil {
		return err
	}
	if err := validate.Length("analyzer output", len(out), len(a.ws.coeffs)); err != nil {
		return err
	}

	input := a.ws.input
	window := a.ws.window
	for i, s := range in {
		input[i] = float64(s) * window[i]
	}

	coeffs := a.engine.Coefficients(a.ws.coeffs, input)

	for i, c := range coeffs {
		re, im := real(c), imag(c)
		power := (re*re + im*im) * a.scale
		out[i] = float32(10 * math.Log10(power+Epsilon))
	}
	return nil
}

// SetFFTSize rebuilds the transform and window table for n points. On error
// the analyzer is unchanged.
func (a *SpectralAnalyzer) SetFFTSize(n int) error {
	if err := validate.FFTSize(n); err != nil {
		return err
	}
	if n == a.fftSize {
		return nil
	}
	ws := newWorkspace(n, a.windowFunc)
	engine := a.newEngine(n)

	a.fftSize = n
	a.ws = ws
	a.engine = engine
	a.scale = 1 / (float64(n) * float64(n))
	logger.Debugf("fft size set to %d", n)
	return nil
}

// SetWindow recomputes the window table. On error the analyzer is unchanged.
func (a *SpectralAnalyzer) SetWindow(w WindowFunc) error {
	if !w.Valid() {
		return ErrUnknownWindow
	}
	if w == a.windowFunc {
		return nil
	}
	fillWindow(a.ws.window, w)
	a.windowFunc = w
	logger.Debugf("window set to %v", w)
	return nil
}

// FFTSize returns the transform length.
func (a *SpectralAnalyzer) FFTSize() int { return a.fftSize }

// NumBins returns FFTSize/2+1.
func (a *SpectralAnalyzer) NumBins() int { return a.fftSize/2 + 1 }

// WindowFunc returns the active window type.
func (a *SpectralAnalyzer) WindowFunc() WindowFunc { return a.windowFunc }

// Window returns a copy of the window coefficients.
func (a *SpectralAnalyzer) Window() []float64 {
	out := make([]float64, len(a.ws.window))
	copy(out, a.ws.window)
	return out
}

// FrequencyForBin returns the centre frequency (Hz) of bin at sampleRate.
// Out-of-range bins return 0.
func (a *SpectralAnalyzer) FrequencyForBin(bin int, sampleRate float64) float64 {
	if bin < 0 || bin >= a.NumBins() {
		return 0
	}
	return BinFrequency(bin, a.fftSize, sampleRate)
}

// BinFrequency is bin*sampleRate/fftSize.
func BinFrequency(bin, fftSize int, sampleRate float64) float64 {
	return float64(bin) * sampleRate / float64(fftSize)
}

// BinForFrequency is the nearest bin to hz.
func BinForFrequency(hz float64, fftSize int, sampleRate float64) int {
	return int(math.Round(hz * float64(fftSize) / sampleRate))
}

// PeakBin returns the index of the largest value, or -1 for an empty slice.
func PeakBin(spectrum []float32) int {
	if len(spectrum) == 0 {
		return -1
	}
	peak := 0
	for i, v := range spectrum {
		if v > spectrum[peak] {
			peak = i
		}
	}
	return peak
}
