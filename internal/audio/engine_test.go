// SPDX-License-Identifier: MIT
package audio

import (
	"testing"

	"spectra/internal/config"
	"spectra/internal/ringbuffer"
)

const (
	testSampleRate = 48000
	testFrameSize  = 256
)

func newTestEngine(t testing.TB, channels int) (*Engine, *ringbuffer.RingBuffer) {
	t.Helper()
	ring, err := ringbuffer.New(testSampleRate)
	if err != nil {
		t.Fatal(err)
	}
	cfg := config.Default().Audio
	cfg.SampleRate = testSampleRate
	cfg.InputChannels = channels
	cfg.FramesPerBuffer = testFrameSize
	return newEngine(cfg, ring), ring
}

func TestMixDown(t *testing.T) {
	tests := []struct {
		name        string
		interleaved []float32
		channels    int
		want        []float32
	}{
		{"mono passthrough", []float32{0.1, -0.2, 0.3}, 1, []float32{0.1, -0.2, 0.3}},
		{"stereo average", []float32{1, 0, 0.5, 0.5, -1, 1}, 2, []float32{0.5, 0.5, 0}},
		{"four channels", []float32{1, 1, 1, 1, 0, 0, 0, 1}, 4, []float32{1, 0.25}},
		{"partial frame dropped", []float32{1, 1, 1}, 2, []float32{1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := make([]float32, 8)
			got := MixDown(dst, tt.interleaved, tt.channels)
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("got %v, want %v", got, tt.want)
					break
				}
			}
		})
	}
}

func TestProcessBufferWritesMonoToRing(t *testing.T) {
	e, ring := newTestEngine(t, 2)
	in := make([]float32, testFrameSize*2)
	for i := range testFrameSize {
		in[2*i] = float32(i) / testFrameSize
		in[2*i+1] = float32(i) / testFrameSize
	}
	e.processBuffer(in)

	if ring.WritePosition() != testFrameSize || e.Blocks() != 1 {
		t.Fatalf("ring position %d, blocks %d", ring.WritePosition(), e.Blocks())
	}
	out := make([]float32, testFrameSize)
	ring.Read(0, out)
	for i, v := range out {
		if v != float32(i)/testFrameSize {
			t.Fatalf("out[%d] = %v", i, v)
		}
	}
}

func TestProcessBufferHotPath(t *testing.T) {
	e, _ := newTestEngine(t, 2)
	e.Gate().SetThreshold(0.01)
	e.Gate().Enable()
	in := make([]float32, testFrameSize*2)
	for i := range in {
		in[i] = float32(i%100) / 100
	}

	allocs := testing.AllocsPerRun(100, func() {
		e.processBuffer(in)
	})
	if allocs > 0 {
		t.Errorf("Expected zero allocations in capture hot path, got %.1f", allocs)
	}
}

func BenchmarkProcessBuffer(b *testing.B) {
	e, _ := newTestEngine(b, 2)
	in := make([]float32, testFrameSize*2)
	b.ReportAllocs()
	for b.Loop() {
		e.processBuffer(in)
	}
}
