// Package scan implements the inclusive prefix-sum algorithm family:
// scan-then-propagate, reduce-then-scan, chained scan with decoupled
// look-back (full- and half-sized block variants), and the adaptive
// "assisted" variants that start sequential and permanently switch to
// parallel mode under contention.
package scan

import "github.com/ajroetker/parascan/internal/core"

// BlockCount and MinBlockSize govern the non-chained families
// (ScanThenPropagate, ReduceThenScan): split the array into BlockCount
// roughly-equal blocks, unless that would make blocks smaller than
// MinBlockSize, in which case use MinBlockSize-sized blocks instead.
const (
	BlockCount   = 256
	MinBlockSize = 1024
)

// ChainedBlockSize is the fixed block size the full chained-scan family
// uses (Chained, NoLookbackChained, AdaptiveChained).
const ChainedBlockSize = 1024 * 4

// HalfSizedBlockSize is the fixed block size the half-sized-block family
// uses (HalfSizedBlocks, HalfSizedVariant, AdaptiveHalfSizedBlocks).
const HalfSizedBlockSize = 1024 * 2

// partitionBlocks picks (blockSize, blockCount) for length elements
// using the BlockCount/MinBlockSize rule shared by ScanThenPropagate and
// ReduceThenScan.
func partitionBlocks(length int) (blockSize, blockCount uint64) {
	n := uint64(length)
	blockSize = (n + BlockCount - 1) / BlockCount
	blockCount = BlockCount
	if blockSize < MinBlockSize {
		blockSize = MinBlockSize
		blockCount = (n + MinBlockSize - 1) / MinBlockSize
	}
	return blockSize, blockCount
}

// fixedBlockCount returns how many fixed-size blocks of size blockSize
// cover length elements.
func fixedBlockCount(length int, blockSize uint64) uint32 {
	return uint32((uint64(length) + blockSize - 1) / blockSize)
}

// NewTemp allocates and zero-initializes a BlockInfo array sized for a
// chained-family algorithm with the given fixed block size.
func NewTemp(length int, blockSize uint64) []core.BlockInfo {
	return make([]core.BlockInfo, fixedBlockCount(length, blockSize))
}
