// SPDX-License-Identifier: MIT

// Package validate holds the checks shared by every component that consumes
// spectrogram settings. Each check returns nil or an error wrapping one of the
// sentinel errors below, so callers can match with errors.Is regardless of
// which component rejected the value.
package validate

import (
	"errors"
	"fmt"
	"math"

	"spectra/pkg/bitint"
)

// Bounds for the shared settings.
const (
	MinFFTSize = 32
	MaxFFTSize = 16384

	MinAmplitudeDB = -200.0
	MaxAmplitudeDB = 200.0

	MinTimeRange = 0.1    // seconds
	MaxTimeRange = 1000.0 // seconds
)

var (
	ErrFFTSize        = errors.New("invalid fft size")
	ErrFrequencyRange = errors.New("invalid frequency range")
	ErrNyquist        = errors.New("frequency exceeds nyquist")
	ErrAmplitudeRange = errors.New("invalid amplitude range")
	ErrTimeRange      = errors.New("invalid time range")
	ErrSampleRate     = errors.New("invalid sample rate")
	ErrDimensions     = errors.New("invalid dimensions")
	ErrShape          = errors.New("mismatched buffer length")
)

// FFTSize checks that n is a power of two in [MinFFTSize, MaxFFTSize].
func FFTSize(n int) error {
	if !bitint.InRange(n, MinFFTSize, MaxFFTSize) {
		return fmt.Errorf("%w: %d (must be a power of 2 in [%d, %d])", ErrFFTSize, n, MinFFTSize, MaxFFTSize)
	}
	return nil
}

// SampleRate checks that rate is a positive finite number.
func SampleRate(rate float64) error {
	if !(rate > 0) || math.IsInf(rate, 0) {
		return fmt.Errorf("%w: %g", ErrSampleRate, rate)
	}
	return nil
}

// FrequencyRange checks 0 < minHz < maxHz <= sampleRate/2.
func FrequencyRange(minHz, maxHz, sampleRate float64) error {
	if err := SampleRate(sampleRate); err != nil {
		return err
	}
	if !(minHz > 0) || !(maxHz > minHz) {
		return fmt.Errorf("%w: [%g, %g] Hz", ErrFrequencyRange, minHz, maxHz)
	}
	if nyquist := sampleRate / 2; maxHz > nyquist {
		return fmt.Errorf("%w: max %g Hz > %g Hz", ErrNyquist, maxHz, nyquist)
	}
	return nil
}

// AmplitudeRange checks MinAmplitudeDB <= minDB < maxDB <= MaxAmplitudeDB.
func AmplitudeRange(minDB, maxDB float64) error {
	if !(minDB < maxDB) || minDB < MinAmplitudeDB || maxDB > MaxAmplitudeDB {
		return fmt.Errorf("%w: [%g, %g] dB", ErrAmplitudeRange, minDB, maxDB)
	}
	return nil
}

// TimeRange checks MinTimeRange <= seconds <= MaxTimeRange.
func TimeRange(seconds float64) error {
	if !(seconds >= MinTimeRange) || seconds > MaxTimeRange {
		return fmt.Errorf("%w: %g s", ErrTimeRange, seconds)
	}
	return nil
}

// Dimensions checks that both width and height are positive.
func Dimensions(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrDimensions, width, height)
	}
	return nil
}

// Length checks that a caller-provided buffer has the expected length.
func Length(what string, got, want int) error {
	if got != want {
		return fmt.Errorf("%w: %s has %d elements, want %d", ErrShape, what, got, want)
	}
	return nil
}
