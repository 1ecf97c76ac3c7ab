// Package kernel provides the sequential reference algorithms every
// parallel scan/compact variant in internal/scan and internal/compact
// falls back to within a block, plus the deterministic input generator
// and compaction predicate the benchmark CLI and tests share.
package kernel

import "github.com/samber/lo"

// ScanSequential computes an inclusive prefix sum of input into output
// starting from initial, and returns the final accumulator. input and
// output may alias the same slice (in-place scan), since each index is
// only read once, immediately before it is written.
func ScanSequential(input []uint64, initial uint64, output []uint64) uint64 {
	if len(input) != len(output) {
		panic("kernel: ScanSequential requires len(input) == len(output)")
	}
	accumulator := initial
	for i := range output {
		accumulator += input[i]
		output[i] = accumulator
	}
	return accumulator
}

// FoldSequential sums every element of array.
func FoldSequential(array []uint64) uint64 {
	var accumulator uint64
	for _, v := range array {
		accumulator += v
	}
	return accumulator
}

// Predicate decides whether a compaction keeps a given input value.
type Predicate func(value uint64) bool

// HashPredicate builds the fixed deterministic predicate the benchmark
// suite compacts against: a value is kept when the bottom bits of its
// 3-shift hash all equal the bits of mask, where mask = ratio-1. A
// larger ratio keeps a smaller fraction of the input (roughly 1/ratio).
func HashPredicate(ratio uint64) Predicate {
	mask := ratio - 1
	return func(value uint64) bool {
		h := value
		h ^= h << 11
		h ^= h >> 7
		h ^= h << 5
		return h&mask == mask
	}
}

// CountSequential counts how many elements of input satisfy pred.
func CountSequential(input []uint64, pred Predicate) uint64 {
	var count uint64
	for _, v := range input {
		if pred(v) {
			count++
		}
	}
	return count
}

// CompactSequential writes every element of input satisfying pred, in
// order, to the front of output, starting at offset, and returns the
// number written. output must be at least offset+CountSequential(input,
// pred) long.
func CompactSequential(input []uint64, pred Predicate, output []uint64, offset uint64) uint64 {
	count := offset
	for _, v := range input {
		if pred(v) {
			output[count] = v
			count++
		}
	}
	return count - offset
}

// ScanIndicesSequential computes, for every element of input in order,
// the running count of predicate matches seen so far within this call
// (1-based: a matching element's own count includes itself), and writes
// it to the matching position in output. It returns the final count.
// compact.AdaptiveScanThenPropagate's follower blocks use this
// per-element inclusive count, combined with a block's later-determined
// base offset, to decide whether consecutive elements land on the same
// destination slot (no match) or the next one (a match) without
// evaluating the predicate again.
func ScanIndicesSequential(input []uint64, pred Predicate, output []uint64) uint64 {
	if len(input) != len(output) {
		panic("kernel: ScanIndicesSequential requires len(input) == len(output)")
	}
	var count uint64
	for i, v := range input {
		if pred(v) {
			count++
		}
		output[i] = count
	}
	return count
}

// Random32 is the deterministic xorshift generator the benchmark suite
// seeds every input array with, keyed by element index so runs are
// reproducible across algorithms.
func Random32(seed uint64) uint32 {
	seed ^= seed << 13
	seed ^= seed >> 17
	seed ^= seed << 5
	return uint32(seed)
}

// FillInput deterministically fills values with Random32(index) for
// every index, the same seeding every scan/compact benchmark case uses.
func FillInput(values []uint64) {
	for i := range values {
		values[i] = uint64(Random32(uint64(i)))
	}
}

// Range is a small samber/lo-backed convenience that returns the
// contiguous index slice [0, n) without a hand-rolled loop.
func Range(n int) []int {
	return lo.Range(n)
}
