package compact

import (
	"github.com/ajroetker/parascan/internal/core"
	"github.com/ajroetker/parascan/internal/kernel"
)

// HalfSizedBlocks defers a block's look-back and compaction write by one
// claim, exactly like scan.HalfSizedBlocks: a goroutine counts the
// current block's matches and publishes that count, then flushes
// whatever block it deferred on its previous claim, and sets the current
// block aside.
func HalfSizedBlocks(w *core.Workers, input []uint64, temp []core.BlockInfo, output []uint64, pred kernel.Predicate) uint64 {
	data := &chainedData{input: input, temp: temp, output: output, pred: pred}
	blockCount := fixedBlockCount(len(input), HalfSizedBlockSize)

	var outputCount uint64
	task := core.NewDataParallelTask(w.ThreadCount(), blockCount, func(w *core.Workers, args core.LoopArguments) {
		var deferredIndex uint32
		var deferredLocal uint64
		haveDeferred := false

		core.WorkAssistLoop(args, func(blockIndex uint32) {
			start := uint64(blockIndex) * HalfSizedBlockSize
			end := min(start+HalfSizedBlockSize, uint64(len(data.input)))

			if blockIndex == 0 {
				local := kernel.CountSequential(data.input[start:end], data.pred)
				data.temp[blockIndex].PublishPrefix(local)
				kernel.CompactSequential(data.input[start:end], data.pred, data.output, 0)
				return
			}

			local := kernel.CountSequential(data.input[start:end], data.pred)
			data.temp[blockIndex].PublishAggregate(local)

			if haveDeferred {
				flushCompactBlock(data, deferredIndex, deferredLocal, HalfSizedBlockSize)
			}
			deferredIndex, deferredLocal = blockIndex, local
			haveDeferred = true
		})

		if haveDeferred {
			flushCompactBlock(data, deferredIndex, deferredLocal, HalfSizedBlockSize)
		}
	}, func(w *core.Workers) {
		w.Finish()
	})

	// Read the count only after Run returns: each goroutine flushes its
	// last deferred block after its claim loop has already signalled.
	w.Run(task)
	if blockCount > 0 {
		outputCount = data.temp[blockCount-1].Prefix()
	}
	return outputCount
}

func flushCompactBlock(data *chainedData, index uint32, local uint64, blockSize uint64) {
	var base uint64
	if index != 0 {
		base = core.LookBack(data.temp, index)
	}
	data.temp[index].PublishPrefix(base + local)

	start := uint64(index) * blockSize
	end := min(start+blockSize, uint64(len(data.input)))
	kernel.CompactSequential(data.input[start:end], data.pred, data.output, base)
}
