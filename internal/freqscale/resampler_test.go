// SPDX-License-Identifier: MIT
package freqscale

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"spectra/internal/validate"
)

const (
	testSampleRate = 48000.0
	testFFTSize    = 4096
	testHeight     = 512
)

func newTestResampler(t testing.TB, s Scale) *Resampler {
	t.Helper()
	r, err := NewResampler(s, 20, 24000, testSampleRate, testFFTSize, testHeight)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestScaleRoundTrip(t *testing.T) {
	freqs := []float64{20, 50, 100, 440, 1000, 2500, 8000, 15000, 24000}
	for _, s := range Scales() {
		t.Run(s.String(), func(t *testing.T) {
			for _, hz := range freqs {
				if got := s.Inverse(s.Forward(hz)); math.Abs(got-hz) >= 0.01 {
					t.Errorf("Inverse(Forward(%v)) = %v", hz, got)
				}
			}
		})
	}
}

func TestScaleFormulas(t *testing.T) {
	tests := []struct {
		scale Scale
		hz    float64
		want  float64
	}{
		{Linear, 1234, 1234},
		{Logarithmic, 1000, 3},
		{Octave, 1024, 10},
		{Mel, 700, 2595 * math.Log10(2)},
		{ERB, 1000, erbScale * math.Log10(5.37)},
	}
	for _, tt := range tests {
		if got := tt.scale.Forward(tt.hz); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("%v.Forward(%v) = %v, want %v", tt.scale, tt.hz, got, tt.want)
		}
	}
}

func TestFlatInputGivesFlatOutput(t *testing.T) {
	for _, s := range Scales() {
		t.Run(s.String(), func(t *testing.T) {
			r := newTestResampler(t, s)
			in := make([]float32, r.NumBins())
			for i := range in {
				in[i] = -42.5
			}
			out := make([]float32, r.Height())
			if err := r.Resample(in, out); err != nil {
				t.Fatal(err)
			}
			for i, v := range out {
				if math.Abs(float64(v+42.5)) > 1e-4 {
					t.Fatalf("row %d = %v, want -42.5", i, v)
				}
			}
		})
	}
}

func TestMappingIsMonotonicAndInRange(t *testing.T) {
	for _, s := range Scales() {
		t.Run(s.String(), func(t *testing.T) {
			r := newTestResampler(t, s)
			m := r.Mapping()
			maxBin := float32(r.NumBins() - 1)
			for i, v := range m {
				if v < 0 || v > maxBin {
					t.Fatalf("mapping[%d] = %v outside [0, %v]", i, v, maxBin)
				}
				if i > 0 && v < m[i-1] {
					t.Fatalf("mapping decreases at %d: %v < %v", i, v, m[i-1])
				}
			}
			if got := r.FrequencyAt(0); math.Abs(got-20) > 0.05 {
				t.Errorf("FrequencyAt(0) = %v, want 20", got)
			}
			if got := r.FrequencyAt(testHeight - 1); math.Abs(got-24000) > 0.05 {
				t.Errorf("FrequencyAt(top) = %v, want 24000", got)
			}
			if r.FrequencyAt(-1) != 0 || r.FrequencyAt(testHeight) != 0 {
				t.Error("out of range rows should report 0 Hz")
			}
		})
	}
}

func TestWarping(t *testing.T) {
	step := func(s Scale, row int) float64 {
		lo, hi := s.Forward(20), s.Forward(24000)
		at := func(i int) float64 {
			return s.Inverse(lo + float64(i)/float64(testHeight-1)*(hi-lo))
		}
		return at(row+1) - at(row)
	}

	for _, s := range []Scale{Mel, ERB, Octave, Logarithmic} {
		low, high := step(s, 0), step(s, testHeight-2)
		if !(low < high) {
			t.Errorf("%v: low step %.4f Hz not smaller than high step %.4f Hz", s, low, high)
		}
	}

	if low, high := step(Linear, 0), step(Linear, testHeight-2); math.Abs(low-high) > 1e-6 {
		t.Errorf("linear steps differ: %v vs %v", low, high)
	}

	// Logarithmic rows keep a constant frequency ratio.
	lo, hi := Logarithmic.Forward(20), Logarithmic.Forward(24000)
	ratio := math.Pow(10, (hi-lo)/float64(testHeight-1))
	for _, row := range []int{0, 100, 300, testHeight - 2} {
		f0 := Logarithmic.Inverse(lo + float64(row)/float64(testHeight-1)*(hi-lo))
		f1 := Logarithmic.Inverse(lo + float64(row+1)/float64(testHeight-1)*(hi-lo))
		if math.Abs(f1/f0-ratio) > 1e-9 {
			t.Errorf("row %d ratio %v, want %v", row, f1/f0, ratio)
		}
	}
}

func TestResampleInterpolates(t *testing.T) {
	r := newTestResampler(t, Mel)
	in := make([]float32, r.NumBins())
	for i := range in {
		in[i] = float32(i)
	}
	out := make([]float32, r.Height())
	if err := r.Resample(in, out); err != nil {
		t.Fatal(err)
	}
	for i, pos := range r.Mapping() {
		if math.Abs(float64(out[i]-pos)) > 1e-3 {
			t.Fatalf("row %d = %v, want %v", i, out[i], pos)
		}
	}
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name   string
		scale  Scale
		minHz  float64
		maxHz  float64
		fft    int
		height int
		want   error
	}{
		{"zero min", Mel, 0, 1000, 1024, 100, validate.ErrFrequencyRange},
		{"inverted", Mel, 2000, 1000, 1024, 100, validate.ErrFrequencyRange},
		{"above nyquist", Linear, 20, 30000, 1024, 100, validate.ErrNyquist},
		{"zero height", Octave, 20, 1000, 1024, 0, validate.ErrDimensions},
		{"bad fft", ERB, 20, 1000, 1000, 100, validate.ErrFFTSize},
		{"bad scale", Scale(9), 20, 1000, 1024, 100, ErrUnknownScale},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewResampler(tt.scale, tt.minHz, tt.maxHz, testSampleRate, tt.fft, tt.height)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSettersLeaveStateOnError(t *testing.T) {
	r := newTestResampler(t, Mel)
	before := r.Mapping()

	if err := r.SetFrequencyRange(500, 100); err == nil {
		t.Fatal("expected error for inverted range")
	}
	if err := r.SetSampleRate(20000); !errors.Is(err, validate.ErrNyquist) {
		t.Fatalf("SetSampleRate(20000) error = %v", err)
	}
	if err := r.SetHeight(-3); err == nil {
		t.Fatal("expected error for negative height")
	}
	after := r.Mapping()
	if len(after) != len(before) {
		t.Fatalf("height changed to %d", len(after))
	}
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("mapping changed at %d", i)
		}
	}

	if err := r.SetScale(Linear); err != nil {
		t.Fatal(err)
	}
	if err := r.SetFFTSize(1024); err != nil {
		t.Fatal(err)
	}
	if err := r.SetHeight(1); err != nil {
		t.Fatal(err)
	}
	if r.Scale() != Linear || r.NumBins() != 513 || r.Height() != 1 {
		t.Fatalf("params = %+v", r.Params())
	}
	// A single row shows the low edge.
	if got := r.FrequencyAt(0); math.Abs(got-20) > 0.05 {
		t.Errorf("single row frequency = %v", got)
	}
}

func TestResampleRejectsMismatchedLengths(t *testing.T) {
	r := newTestResampler(t, Mel)
	if err := r.Resample(make([]float32, 10), make([]float32, testHeight)); !errors.Is(err, validate.ErrShape) {
		t.Errorf("short input error = %v", err)
	}
	if err := r.Resample(make([]float32, r.NumBins()), make([]float32, 10)); !errors.Is(err, validate.ErrShape) {
		t.Errorf("short output error = %v", err)
	}
}

func TestParseScale(t *testing.T) {
	for _, s := range Scales() {
		if got, err := ParseScale(s.String()); err != nil || got != s {
			t.Errorf("ParseScale(%q) = %v, %v", s.String(), got, err)
		}
	}
	if _, err := ParseScale("bark"); !errors.Is(err, ErrUnknownScale) {
		t.Errorf("ParseScale(bark) error = %v", err)
	}
}

func TestResampleZeroAllocs(t *testing.T) {
	r := newTestResampler(t, ERB)
	in := make([]float32, r.NumBins())
	out := make([]float32, r.Height())

	allocs := testing.AllocsPerRun(100, func() {
		r.Resample(in, out)
	})
	if allocs > 0 {
		t.Errorf("Expected zero allocations in Resample, got %.1f", allocs)
	}
}

func BenchmarkResample(b *testing.B) {
	for _, h := range []int{256, 1024} {
		b.Run(fmt.Sprintf("%drows", h), func(b *testing.B) {
			r, _ := NewResampler(Mel, 20, 24000, testSampleRate, testFFTSize, h)
			in := make([]float32, r.NumBins())
			out := make([]float32, h)
			b.ReportAllocs()
			for b.Loop() {
				r.Resample(in, out)
			}
		})
	}
}

func BenchmarkConfigure(b *testing.B) {
	r, _ := NewResampler(Mel, 20, 24000, testSampleRate, testFFTSize, 1000)
	p := r.Params()
	b.ReportAllocs()
	for b.Loop() {
		r.Configure(p)
	}
}
