package scan

import (
	"github.com/ajroetker/parascan/internal/core"
	"github.com/ajroetker/parascan/internal/kernel"
)

// AdaptiveHalfSizedBlocks combines HalfSizedBlocks' deferred-flush
// latency hiding with AdaptiveChained's permanent fast-path switch: a
// goroutine keeps taking the cheap immediate-predecessor-prefix path for
// as long as it can, and only starts deferring (and never stops) once it
// hits a block whose predecessor isn't ready.
func AdaptiveHalfSizedBlocks(w *core.Workers, input []uint64, temp []core.BlockInfo, output []uint64) {
	data := &chainedData{input: input, temp: temp, output: output}
	blockCount := fixedBlockCount(len(output), HalfSizedBlockSize)

	task := core.NewDataParallelTask(w.ThreadCount(), blockCount, func(w *core.Workers, args core.LoopArguments) {
		sequential := true
		var deferredIndex uint32
		var deferredStart, deferredEnd uint64
		var deferredLocal uint64
		haveDeferred := false

		core.WorkAssistLoop(args, func(blockIndex uint32) {
			start := uint64(blockIndex) * HalfSizedBlockSize
			end := min(start+HalfSizedBlockSize, uint64(len(data.input)))

			if aggregate, known := adaptiveFastPathPrefix(data, blockIndex, sequential); known {
				local := kernel.ScanSequential(data.input[start:end], aggregate, data.output[start:end])
				data.temp[blockIndex].PublishPrefix(local)
				return
			}

			sequential = false
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
