// Package scanratio measures, for the two adaptive two-sided scan
// variants, what fraction of the array the sequential leader claims from
// the left before it meets the followers claiming from the right — the
// "ratio between
// sequential and parallel mode" instrumentation the original benchmark
// suite reports per thread count.
package scanratio

import (
	"github.com/ajroetker/parascan/internal/core"
	"github.com/ajroetker/parascan/internal/kernel"
	"github.com/ajroetker/parascan/internal/scan"
)

// Variant selects which adaptive two-sided scan algorithm to measure.
type Variant int

const (
	ScanThenPropagate Variant = iota
	ReduceThenScan
)

// Measure runs variant once over a freshly-filled array of size elements
// with threadCount goroutines and returns the fraction of elements the
// sequential leader processed before the loop concluded.
func Measure(variant Variant, size int, threadCount int) float64 {
	input := make([]uint64, size)
	kernel.FillInput(input)
	output := make([]uint64, size)

	w := core.NewWorkers(threadCount, nil)
	var sequentialBlocks uint32
	var blockSize uint64
	switch variant {
	case ScanThenPropagate:
		sequentialBlocks, blockSize = scan.AdaptiveScanThenPropagate(w, input, output)
	case ReduceThenScan:
		sequentialBlocks, blockSize = scan.AdaptiveReduceThenScan(w, input, output)
	default:
		panic("scanratio: unknown variant")
	}

	sequentialElements := uint64(sequentialBlocks) * blockSize
	if sequentialElements > uint64(size) {
		sequentialElements = uint64(size)
	}
	return float64(sequentialElements) / float64(size)
}

// Average runs Measure `samples` times and returns the mean ratio,
// matching the original benchmark's 50-sample averaging per thread
// count (case_average in the reference implementation).
func Average(variant Variant, size int, threadCount int, samples int) float64 {
	var total float64
	for i := 0; i < samples; i++ {
		total += Measure(variant, size, threadCount)
	}
	return total / float64(samples)
}

// Theoretical is the idealized 1/threadCount ratio the original
// benchmark prints alongside the measured variants for comparison.
func Theoretical(threadCount int) float64 {
	return 1.0 / float64(threadCount)
}
