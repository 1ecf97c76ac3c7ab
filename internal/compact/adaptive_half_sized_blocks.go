package compact

import (
	"github.com/ajroetker/parascan/internal/core"
	"github.com/ajroetker/parascan/internal/kernel"
)

// AdaptiveHalfSizedBlocks combines HalfSizedVariant's inline fast path
// with AdaptiveChained's permanent switch: once a goroutine falls back
// to deferral it never attempts the inline fast path again, even if a
// later predecessor happens to already be ready.
func AdaptiveHalfSizedBlocks(w *core.Workers, input []uint64, temp []core.BlockInfo, output []uint64, pred kernel.Predicate) uint64 {
	data := &chainedData{input: input, temp: temp, output: output, pred: pred}
	blockCount := fixedBlockCount(len(input), HalfSizedBlockSize)

	var outputCount uint64
	task := core.NewDataParallelTask(w.ThreadCount(), blockCount, func(w *core.Workers, args core.LoopArguments) {
		sequential := true
		var deferredIndex uint32
		var deferredLocal uint64
		haveDeferred := false

		core.WorkAssistLoop(args, func(blockIndex uint32) {
			start := uint64(blockIndex) * HalfSizedBlockSize
			end := min(start+HalfSizedBlockSize, uint64(len(data.input)))

			if sequential {
				ready := blockIndex == 0 || data.temp[blockIndex-1].State() == core.StatePrefixAvailable
				if ready {
					var base uint64
					if blockIndex != 0 {
						base = data.temp[blockIndex-1].Prefix()
					}
					local := kernel.CountSequential(data.input[start:end], data.pred)
					data.temp[blockIndex].PublishPrefix(base + local)
					kernel.CompactSequential(data.input[start:end], data.pred, data.output, base)
					return
				}
				sequential = false
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
