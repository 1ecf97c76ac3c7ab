package scan

import (
	"github.com/ajroetker/parascan/internal/core"
	"github.com/ajroetker/parascan/internal/kernel"
)

type chainedData struct {
	input  []uint64
	temp   []core.BlockInfo
	output []uint64
}

// Chained runs the decoupled look-back chained scan over fixed-size
// blocks: every block first publishes its own local reduce as an
// aggregate, then walks backwards through temp (spinning on blocks still
// Initialized) to recover the exclusive prefix of everything before it,
// publishes the combined prefix, and finally re-scans its own elements
// with that prefix as the initial accumulator. temp must have at least
// NewTemp(len(output), ChainedBlockSize) blocks and should be Reset
// before reuse.
func Chained(w *core.Workers, input []uint64, temp []core.BlockInfo, output []uint64) {
	data := &chainedData{input: input, temp: temp, output: output}
	blockCount := fixedBlockCount(len(output), ChainedBlockSize)

	task := core.NewDataParallelTask(w.ThreadCount(), blockCount, func(w *core.Workers, args core.LoopArguments) {
		core.WorkAssistLoop(args, func(blockIndex uint32) {
			runChainedBlock(data, blockIndex)
		})
	}, func(w *core.Workers) {
		w.Finish()
	})

	w.Run(task)
}

func runChainedBlock(data *chainedData, blockIndex uint32) {
	start := uint64(blockIndex) * ChainedBlockSize
	end := min(start+ChainedBlockSize, uint64(len(data.input)))

	local := kernel.FoldSequential(data.input[start:end])

	if blockIndex == 0 {
		// Block 0 has nothing to look back through, so it goes straight
		// to PrefixAvailable. Publishing an aggregate here first would
		// momentarily expose it as AggregateAvailable, and a concurrent
		// look-back from block 1 would add that aggregate in and then
		// step past index 0 looking for an earlier block that doesn't
		// exist.
		data.temp[blockIndex].PublishPrefix(local)
		kernel.ScanSequential(data.input[start:end], 0, data.output[start:end])
		return
	}

	data.temp[blockIndex].PublishAggregate(local)
	aggregate := core.LookBack(data.temp, blockIndex)
	data.temp[blockIndex].PublishPrefix(aggregate + local)
	kernel.ScanSequential(data.input[start:end], aggregate, data.output[start:end])
}
