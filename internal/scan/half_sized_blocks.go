package scan

import (
	"github.com/ajroetker/parascan/internal/core"
	"github.com/ajroetker/parascan/internal/kernel"
)

// HalfSizedBlocks uses blocks half the size of Chained's
// (HalfSizedBlockSize) but defers each block's look-back and scan by one
// claim: when a goroutine claims a block, it first folds the current
// block and publishes its aggregate, then finishes processing whatever
// block it deferred on its *previous* claim (if any), and sets the
// current block aside as the new deferred block before claiming again. This overlaps a block's look-back latency with
// the next block's reduce, at the cost of one block's worth of extra
// latency at the very end of the loop, which is flushed once the claim
// loop exits.
func HalfSizedBlocks(w *core.Workers, input []uint64, temp []core.BlockInfo, output []uint64) {
	data := &chainedData{input: input, temp: temp, output: output}
	blockCount := fixedBlockCount(len(output), HalfSizedBlockSize)

	task := core.NewDataParallelTask(w.ThreadCount(), blockCount, func(w *core.Workers, args core.LoopArguments) {
		var deferredIndex uint32
		var deferredStart, deferredEnd uint64
		var deferredLocal uint64
		haveDeferred := false

		core.WorkAssistLoop(args, func(blockIndex uint32) {
			start := uint64(blockIndex) * HalfSizedBlockSize
			end := min(start+HalfSizedBlockSize, uint64(len(data.input)))

			if blockIndex == 0 {
				local := kernel.ScanSequential(data.input[start:end], 0, data.output[start:end])
				data.temp[blockIndex].PublishPrefix(local)
				return
			}

			local := kernel.FoldSequential(data.input[start:end])
			data.temp[blockIndex].PublishAggregate(local)

			if haveDeferred {
				flushHalfSizedBlock(data, deferredIndex, deferredStart, deferredEnd, deferredLocal)
			}

			deferredIndex, deferredStart, deferredEnd, deferredLocal = blockIndex, start, end, local
			haveDeferred = true
		})

		if haveDeferred {
			flushHalfSizedBlock(data, deferredIndex, deferredStart, deferredEnd, deferredLocal)
		}
	}, func(w *core.Workers) {
		w.Finish()
	})

	w.Run(task)
}

func flushHalfSizedBlock(data *chainedData, index uint32, start, end uint64, local uint64) {
	aggregate := core.LookBack(data.temp, index)
	data.temp[index].PublishPrefix(aggregate + local)
	kernel.ScanSequential(data.input[start:end], aggregate, data.output[start:end])
}
