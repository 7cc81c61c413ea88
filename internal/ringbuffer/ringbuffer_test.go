// SPDX-License-Identifier: MIT
package ringbuffer

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"

	"spectra/internal/validate"
)

func ramp(start, n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(start + i)
	}
	return out
}

func TestNewRejectsBadCapacity(t *testing.T) {
	for _, c := range []int{0, -1} {
		if _, err := New(c); !errors.Is(err, validate.ErrDimensions) {
			t.Errorf("New(%d) error = %v, want ErrDimensions", c, err)
		}
	}
}

func TestLastKAcrossWraps(t *testing.T) {
	tests := []struct {
		capacity int
		chunk    int
		total    int
	}{
		{capacity: 8, chunk: 3, total: 50},
		{capacity: 16, chunk: 16, total: 160},
		{capacity: 10, chunk: 7, total: 1000},
		{capacity: 64, chunk: 1, total: 200},
		{capacity: 5, chunk: 12, total: 60}, // writes larger than capacity
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("cap%d_chunk%d", tt.capacity, tt.chunk), func(t *testing.T) {
			rb, err := New(tt.capacity)
			if err != nil {
				t.Fatal(err)
			}
			written := 0
			for written < tt.total {
				rb.Write(ramp(written, tt.chunk))
				written += tt.chunk

				for k := 1; k <= tt.capacity && k <= written; k++ {
					out := make([]float32, k)
					rb.Read(uint64(written-k), out)
					for i, v := range out {
						if want := float32(written - k + i); v != want {
							t.Fatalf("after %d samples, last %d: out[%d] = %v, want %v", written, k, i, v, want)
						}
					}
				}
			}
			if got := rb.WritePosition(); got != uint64(written) {
				t.Errorf("WritePosition() = %d, want %d", got, written)
			}
		})
	}
}

func TestLatest(t *testing.T) {
	rb, _ := New(8)
	out := make([]float32, 6)

	rb.Latest(out)
	for i, v := range out {
		if v != 0 {
			t.Fatalf("empty buffer out[%d] = %v", i, v)
		}
	}

	rb.Write([]float32{1, 2, 3})
	rb.Latest(out)
	want := []float32{0, 0, 0, 1, 2, 3}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("partial fill: got %v, want %v", out, want)
		}
	}

	rb.Write(ramp(4, 10)) // 4..13, wraps
	rb.Latest(out)
	for i, v := range out {
		if want := float32(8 + i); v != want {
			t.Fatalf("after wrap: got %v", out)
		}
	}
}

func TestReadDoesNotMutate(t *testing.T) {
	rb, _ := New(4)
	rb.Write([]float32{1, 2, 3, 4, 5})
	before := rb.WritePosition()
	out := make([]float32, 4)
	rb.Read(1, out)
	rb.Read(1, out)
	if rb.WritePosition() != before {
		t.Error("Read advanced the write position")
	}
	want := []float32{2, 3, 4, 5}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("got %v, want %v", out, want)
		}
	}
}

// The writer is throttled so it never laps the reader's window; the reader
// must then always see a consistent ramp.
func TestConcurrentReaderSeesPublishedData(t *testing.T) {
	const (
		capacity = 1024
		chunk    = 37
		total    = 200_000
		window   = 256
	)
	rb, _ := New(capacity)

	var (
		readFrom atomic.Uint64
		done     atomic.Bool
		wg       sync.WaitGroup
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer done.Store(true)
		for n := 0; n < total; n += chunk {
			for uint64(n+chunk) > readFrom.Load()+capacity {
				runtime.Gosched()
			}
			rb.Write(ramp(n, chunk))
		}
	}()

	out := make([]float32, window)
	var failures, reads int
	for !done.Load() {
		pos := rb.WritePosition()
		if pos < window {
			runtime.Gosched()
			continue
		}
		start := pos - window
		readFrom.Store(start)
		rb.Read(start, out)
		reads++
		for i, v := range out {
			if v != float32(start)+float32(i) {
				failures++
				break
			}
		}
	}
	wg.Wait()

	if failures > 0 {
		t.Errorf("%d torn reads out of %d", failures, reads)
	}
}

func TestZeroAllocations(t *testing.T) {
	rb, _ := New(4096)
	in := ramp(0, 512)
	out := make([]float32, 1024)

	allocs := testing.AllocsPerRun(100, func() {
		rb.Write(in)
		rb.Read(rb.WritePosition()-1024, out)
		rb.Latest(out)
	})
	if allocs != 0 {
		t.Errorf("expected 0 allocations, got %.1f", allocs)
	}
}

func BenchmarkWrite512(b *testing.B) {
	rb, _ := New(48000 * 60)
	in := ramp(0, 512)
	b.ReportAllocs()
	for b.Loop() {
		rb.Write(in)
	}
}

func BenchmarkRead4096(b *testing.B) {
	rb, _ := New(48000 * 60)
	rb.Write(ramp(0, 10000))
	out := make([]float32, 4096)
	b.ReportAllocs()
	for b.Loop() {
		rb.Read(5000, out)
	}
}
