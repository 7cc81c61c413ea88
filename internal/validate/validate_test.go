// SPDX-License-Identifier: MIT
package validate

import (
	"errors"
	"math"
	"testing"
)

func TestFFTSize(t *testing.T) {
	t.Parallel()
	valid := []int{32, 64, 128, 256, 512, 1024, 2048, 4096, 8192, 16384}
	for _, n := range valid {
		if err := FFTSize(n); err != nil {
			t.Errorf("FFTSize(%d) = %v, want nil", n, err)
		}
	}

	invalid := []int{-32, 0, 1, 16, 31, 33, 100, 1000, 3000, 5000, 32768, 65536}
	for _, n := range invalid {
		if err := FFTSize(n); !errors.Is(err, ErrFFTSize) {
			t.Errorf("FFTSize(%d) = %v, want ErrFFTSize", n, err)
		}
	}
}

func TestFrequencyRange(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name       string
		minHz      float64
		maxHz      float64
		sampleRate float64
		want       error
	}{
		{"full band", 20, 24000, 48000, nil},
		{"max at nyquist", 1, 22050, 44100, nil},
		{"zero min", 0, 1000, 48000, ErrFrequencyRange},
		{"negative min", -5, 1000, 48000, ErrFrequencyRange},
		{"inverted", 2000, 1000, 48000, ErrFrequencyRange},
		{"equal", 1000, 1000, 48000, ErrFrequencyRange},
		{"nan", math.NaN(), 1000, 48000, ErrFrequencyRange},
		{"above nyquist", 20, 24001, 48000, ErrNyquist},
		{"bad sample rate", 20, 1000, 0, ErrSampleRate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := FrequencyRange(tt.minHz, tt.maxHz, tt.sampleRate)
			if tt.want == nil {
				if err != nil {
					t.Errorf("expected nil, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestAmplitudeRange(t *testing.T) {
	t.Parallel()
	tests := []struct {
		minDB, maxDB float64
		ok           bool
	}{
		{-140, 0, true},
		{-200, 200, true},
		{0, 0, false},
		{10, -10, false},
		{-201, 0, false},
		{-100, 201, false},
	}

	for _, tt := range tests {
		err := AmplitudeRange(tt.minDB, tt.maxDB)
		if tt.ok && err != nil {
			t.Errorf("AmplitudeRange(%g, %g) = %v, want nil", tt.minDB, tt.maxDB, err)
		}
		if !tt.ok && !errors.Is(err, ErrAmplitudeRange) {
			t.Errorf("AmplitudeRange(%g, %g) = %v, want ErrAmplitudeRange", tt.minDB, tt.maxDB, err)
		}
	}
}

func TestTimeRangeAndDimensions(t *testing.T) {
	t.Parallel()
	if err := TimeRange(10); err != nil {
		t.Errorf("TimeRange(10) = %v", err)
	}
	for _, s := range []float64{0, 0.05, 1000.5, math.NaN()} {
		if err := TimeRange(s); !errors.Is(err, ErrTimeRange) {
			t.Errorf("TimeRange(%g) = %v, want ErrTimeRange", s, err)
		}
	}

	if err := Dimensions(1, 1); err != nil {
		t.Errorf("Dimensions(1, 1) = %v", err)
	}
	if err := Dimensions(0, 10); !errors.Is(err, ErrDimensions) {
		t.Errorf("Dimensions(0, 10) = %v, want ErrDimensions", err)
	}
	if err := Length("column", 3, 4); !errors.Is(err, ErrShape) {
		t.Errorf("Length(3, 4) = %v, want ErrShape", err)
	}
}
