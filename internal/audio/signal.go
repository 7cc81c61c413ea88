// SPDX-License-Identifier: MIT
package audio

import "math"

// Sine returns n samples of a sine at freq Hz.
func Sine(n int, sampleRate, freq, amplitude float64) []float32 {
	out := make([]float32, n)
	w := 2 * math.Pi * freq / sampleRate
	for i := range out {
		out[i] = float32(amplitude * math.Sin(w*float64(i)))
	}
	return out
}

// Chirp returns n samples of a linear sweep from f0 to f1 Hz.
func Chirp(n int, sampleRate, f0, f1, amplitude float64) []float32 {
	out := make([]float32, n)
	duration := float64(n) / sampleRate
	k := (f1 - f0) / duration
	for i := range out {
		t := float64(i) / sampleRate
		out[i] = float32(amplitude * math.Sin(2*math.Pi*(f0*t+0.5*k*t*t)))
	}
	return out
}

// FallbackChirp is the signal shown when no file or device can be opened:
// five seconds sweeping 100 Hz to 10 kHz.
func FallbackChirp(sampleRate float64) []float32 {
	return Chirp(int(5*sampleRate), sampleRate, 100, 10000, 0.5)
}
