// SPDX-License-Identifier: MIT

/*
Package bitint provides the power-of-two arithmetic used to size FFT
frames and sample buffers.

All functions are branch-light, allocation-free and safe to call from
the real-time path.

Usage:

	// Validate an FFT frame length.
	ok := bitint.IsPowerOfTwo(4096) // true

	// Round a ring buffer capacity up so it can hold N seconds of audio.
	capacity := bitint.NextPowerOfTwo(48000 * 60) // 4194304

	// Step between FFT sizes (4096 -> 12 -> 8192).
	next := 1 << (bitint.Log2(4096) + 1)

----------------------------------------------------------------------

Why NextPowerOfTwo subtracts one before taking the bit length:

	bits.Len(8)   = 4 -> 1<<4 = 16 (wrong, doubles a power of two)
	bits.Len(8-1) = 3 -> 1<<3 = 8  (right)
*/
package bitint

import "math/bits"

// IsPowerOfTwo reports whether n is a positive power of two.
//
//	Input  Output  Binary
//	8      true    1000 & 0111 = 0000
//	7      false   0111 & 0110 = 0110
//	0      false   not positive
func IsPowerOfTwo(n int) bool {
	return n > 0 && (n&(n-1)) == 0
}

// NextPowerOfTwo returns the smallest power of two >= n. Values <= 0
// return 1.
func NextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

// Log2 returns floor(log2(n)) for n > 0 and -1 otherwise. For a power
// of two it is the exact exponent.
func Log2(n int) int {
	if n <= 0 {
		return -1
	}
	return bits.Len(uint(n)) - 1
}

// InRange reports whether n is a power of two within [lo, hi].
func InRange(n, lo, hi int) bool {
	return IsPowerOfTwo(n) && n >= lo && n <= hi
}
