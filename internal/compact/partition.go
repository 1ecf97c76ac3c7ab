// Package compact implements predicate-filtered stream compaction: the
// same decoupled look-back, half-sized-block and adaptive algorithm
// family as internal/scan, but tracking a running match count per block
// instead of a running sum, and writing only the elements a predicate
// keeps (in their original relative order) to a prefix of output.
package compact

import (
	"github.com/ajroetker/parascan/internal/core"
	"github.com/ajroetker/parascan/internal/kernel"
)

const (
	BlockCount   = 256
	MinBlockSize = 1024
)

// ChainedBlockSize and HalfSizedBlockSize mirror internal/scan's
// constants of the same name: the chained family's fixed block size and
// the half-sized-block family's (half that).
const (
	ChainedBlockSize   = 1024 * 4
	HalfSizedBlockSize = 1024 * 2
)

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

func fixedBlockCount(length int, blockSize uint64) uint32 {
	return uint32((uint64(length) + blockSize - 1) / blockSize)
}

// NewTemp allocates and zero-initializes a BlockInfo array sized for a
// chained-family compact algorithm with the given fixed block size.
func NewTemp(length int, blockSize uint64) []core.BlockInfo {
	return make([]core.BlockInfo, fixedBlockCount(length, blockSize))
}

type chainedData struct {
	input  []uint64
	temp   []core.BlockInfo
	output []uint64
	pred   kernel.Predicate
}

func runChainedBlock(data *chainedData, blockIndex uint32, blockSize uint64) {
	start := uint64(blockIndex) * blockSize
	end := min(start+blockSize, uint64(len(data.input)))

	local := kernel.CountSequential(data.input[start:end], data.pred)

	if blockIndex == 0 {
		// Same reasoning as scan's runChainedBlock: block 0 moves straight
		// to PrefixAvailable rather than passing through AggregateAvailable,
		// so a concurrent LookBack from block 1 never sees it mid-transition.
		data.temp[blockIndex].PublishPrefix(local)
		kernel.CompactSequential(data.input[start:end], data.pred, data.output, 0)
		return
	}

	data.temp[blockIndex].PublishAggregate(local)
	base := core.LookBack(data.temp, blockIndex)
	data.temp[blockIndex].PublishPrefix(base + local)
	kernel.CompactSequential(data.input[start:end], data.pred, data.output, base)
}

func min(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}
