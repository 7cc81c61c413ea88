// SPDX-License-Identifier: MIT
package audio

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"
)

func TestRecorderRoundTrip(t *testing.T) {
	for _, bitDepth := range []int{16, 24, 32} {
		t.Run(fmt.Sprintf("%d-bit", bitDepth), func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "take.wav")
			rec, err := NewRecorder(path, 8000, bitDepth, 0, 64)
			if err != nil {
				t.Fatal(err)
			}
			in := Sine(1000, 8000, 440, 0.8)
			if err := rec.Write(in[:500]); err != nil {
				t.Fatal(err)
			}
			if err := rec.Write(in[500:]); err != nil {
				t.Fatal(err)
			}
			if rec.Frames() != len(in) {
				t.Fatalf("Frames = %d, want %d", rec.Frames(), len(in))
			}
			if err := rec.Close(); err != nil {
				t.Fatal(err)
			}

			clip, err := LoadWAV(path)
			if err != nil {
				t.Fatal(err)
			}
			if clip.SampleRate != 8000 || clip.Channels != 1 || len(clip.Samples) != len(in) {
				t.Fatalf("clip = %d Hz, %d ch, %d samples", clip.SampleRate, clip.Channels, len(clip.Samples))
			}
			for i := range in {
				if d := clip.Samples[i] - in[i]; d > 1e-3 || d < -1e-3 {
					t.Fatalf("sample %d: got %v, want %v", i, clip.Samples[i], in[i])
				}
			}
		})
	}
}

func TestRecorderClampsAndLimits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "limit.wav")
	rec, err := NewRecorder(path, 100, 16, 1, 16)
	if err != nil {
		t.Fatal(err)
	}
	block := make([]float32, 150)
	for i := range block {
		block[i] = 2
	}
	if err := rec.Write(block); err != nil {
		t.Fatal(err)
	}
	if err := rec.Write(block); err != nil {
		t.Fatal(err)
	}
	if rec.Frames() != 100 {
		t.Errorf("Frames = %d, want 100", rec.Frames())
	}
	if err := rec.Close(); err != nil {
		t.Fatal(err)
	}
	if err := rec.Close(); err != nil {
		t.Errorf("second Close = %v", err)
	}
	if err := rec.Write(block); !errors.Is(err, ErrRecorderClosed) {
		t.Errorf("Write after Close = %v, want ErrRecorderClosed", err)
	}

	clip, err := LoadWAV(path)
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range clip.Samples {
		if v > 1 || v < 0.99 {
			t.Fatalf("sample %d = %v, want clamped to full scale", i, v)
		}
	}
}

func TestNewRecorderRejectsBitDepth(t *testing.T) {
	if _, err := NewRecorder(filepath.Join(t.TempDir(), "x.wav"), 8000, 12, 0, 16); err == nil {
		t.Error("expected error for 12-bit recording")
	}
}

func TestEngineRecording(t *testing.T) {
	e, _ := newTestEngine(t, 1)
	path := filepath.Join(t.TempDir(), "engine.wav")

	if err := e.StartRecording(path, 16, 0); err != nil {
		t.Fatal(err)
	}
	if !e.Recording() {
		t.Fatal("Recording() = false after StartRecording")
	}
	if err := e.StartRecording(path, 16, 0); err == nil {
		t.Error("second StartRecording should fail")
	}

	block := Sine(testFrameSize, testSampleRate, 1000, 0.5)
	for range 4 {
		e.processBuffer(block)
	}
	if err := e.StopRecording(); err != nil {
		t.Fatal(err)
	}
	if e.Recording() {
		t.Error("Recording() = true after StopRecording")
	}
	if err := e.StopRecording(); err != nil {
		t.Errorf("StopRecording without recorder = %v", err)
	}

	clip, err := LoadWAV(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(clip.Samples) != 4*testFrameSize {
		t.Errorf("recorded %d samples, want %d", len(clip.Samples), 4*testFrameSize)
	}
}
