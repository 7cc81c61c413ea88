// SPDX-License-Identifier: MIT
package analysis

// SpectrumProcessor turns a sample frame into a spectrum. The pipeline holds
// its analyzer through this interface.
type SpectrumProcessor interface {
	// Process must not allocate; it runs once per output column.
	Process(in []float32, out []float32) error
	FFTSize() int
	NumBins() int
}
