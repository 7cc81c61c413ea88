// SPDX-License-Identifier: MIT
package audio

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-audio/wav"
)

var ErrInvalidWAV = errors.New("not a valid WAV file")

// Clip is decoded mono audio.
type Clip struct {
	Samples    []float32
	SampleRate int
	Channels   int // channel count of the source before mixing
}

// Duration returns the clip length in seconds.
func (c *Clip) Duration() float64 {
	if c.SampleRate == 0 {
		return 0
	}
	return float64(len(c.Samples)) / float64(c.SampleRate)
}

// LoadWAV decodes a PCM WAV file of any channel count into mono samples in
// [-1, 1].
func LoadWAV(path string) (*Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidWAV, path)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	channels := int(dec.NumChans)
	if channels < 1 {
		channels = 1
	}
	bitDepth := int(dec.BitDepth)
	if bitDepth < 8 || bitDepth > 32 {
		return nil, fmt.Errorf("%w: unsupported bit depth %d", ErrInvalidWAV, bitDepth)
	}

	interleaved := make([]float32, len(buf.Data))
	scale := 1 / float32(int64(1)<<(bitDepth-1))
	for i, s := range buf.Data {
		if bitDepth == 8 {
			// 8-bit WAV is unsigned.
			s -= 128
		}
		interleaved[i] = float32(s) * scale
	}

	mono := make([]float32, len(interleaved)/channels)
	mono = MixDown(mono, interleaved, channels)

	logger.Infof("loaded %s: %d frames, %d ch, %d Hz, %d bit", path, len(mono), channels, dec.SampleRate, bitDepth)
	return &Clip{
		Samples:    mono,
		SampleRate: int(dec.SampleRate),
		Channels:   channels,
	}, nil
}

// ResampleLinear converts samples from one rate to another by linear
// interpolation. Equal rates return a copy.
func ResampleLinear(samples []float32, fromRate, toRate float64) []float32 {
	if len(samples) == 0 || fromRate <= 0 || toRate <= 0 {
		return nil
	}
	if fromRate == toRate {
		return append([]float32(nil), samples...)
	}
	n := int(float64(len(samples)) * toRate / fromRate)
	out := make([]float32, n)
	step := fromRate / toRate
	last := len(samples) - 1
	for i := range out {
		pos := float64(i) * step
		j := int(pos)
		if j >= last {
			out[i] = samples[last]
			continue
		}
		frac := float32(pos - float64(j))
		out[i] = samples[j] + frac*(samples[j+1]-samples[j])
	}
	return out
}
