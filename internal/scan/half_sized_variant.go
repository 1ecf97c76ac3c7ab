package scan

import (
	"github.com/ajroetker/parascan/internal/core"
	"github.com/ajroetker/parascan/internal/kernel"
)

// HalfSizedVariant differs from HalfSizedBlocks in when it defers: if a
// block's immediate predecessor already has PrefixAvailable when this
// block is claimed (the common case once a goroutine has run ahead
// of contention), it scans inline immediately instead of paying for a
// deferred flush at all. It only falls back to HalfSizedBlocks' defer
// behavior when the immediate predecessor isn't ready yet.
func HalfSizedVariant(w *core.Workers, input []uint64, temp []core.BlockInfo, output []uint64) {
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

			if data.temp[blockIndex-1].State() == core.StatePrefixAvailable {
				aggregate := data.temp[blockIndex-1].Prefix()
				local := kernel.ScanSequential(data.input[start:end], aggregate, data.output[start:end])
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
