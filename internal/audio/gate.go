// SPDX-License-Identifier: MIT
package audio

import (
	"math"
	"sync/atomic"

	"github.com/chewxy/math32"
)

// Gate silences blocks whose peak level is below a threshold. Silenced
// blocks are still written so the ring keeps time.
type Gate struct {
	enabled   atomic.Bool
	threshold atomic.Uint32 // float32 bits, 0..1
}

func (g *Gate) Enable() { g.enabled.Store(true) }
func (g *Gate) Disable() { g.enabled.Store(false) }

// Enabled reports whether the gate is active.
func (g *Gate) Enabled() bool { return g.enabled.Load() }

// SetThreshold sets the peak level in 0..1 below which blocks are silenced.
// Values outside the range are clamped.
func (g *Gate) SetThreshold(threshold float32) {
	if !(threshold > 0) {
		threshold = 0
	}
	if threshold > 1 {
		threshold = 1
	}
	g.threshold.Store(math.Float32bits(threshold))
}

// Threshold returns the current threshold.
func (g *Gate) Threshold() float32 {
	return math.Float32frombits(g.threshold.Load())
}

// Apply zeroes block in place if the gate is enabled and the block's peak
// is below the threshold. It reports whether the block was silenced.
func (g *Gate) Apply(block []float32) bool {
	if !g.enabled.Load() {
		return false
	}
	if Peak(block) >= g.Threshold() {
		return false
	}
	clear(block)
	return true
}

// Peak returns the largest absolute sample value.
func Peak(block []float32) float32 {
	var peak float32
	for _, s := range block {
		peak = math32.Max(peak, math32.Abs(s))
	}
	return peak
}
