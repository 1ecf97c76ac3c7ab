package scan

import (
	"github.com/ajroetker/parascan/internal/core"
	"github.com/ajroetker/parascan/internal/kernel"
)

// AdaptiveChained starts each goroutine in "sequential" mode: as long as
// every block it claims has its immediate predecessor already at
// PrefixAvailable, it skips the look-back loop entirely and scans
// directly from that cheap, already-known prefix. The first time a
// goroutine claims a block whose predecessor isn't ready yet, it falls
// back to Chained's full decoupled look-back for that block and
// permanently flips into parallel mode for the rest of its claimed
// blocks — it never switches back, since by then contention has already
// made the fast path unlikely to pay off again soon.
func AdaptiveChained(w *core.Workers, input []uint64, temp []core.BlockInfo, output []uint64) {
	data := &chainedData{input: input, temp: temp, output: output}
	blockCount := fixedBlockCount(len(output), ChainedBlockSize)

	task := core.NewDataParallelTask(w.ThreadCount(), blockCount, func(w *core.Workers, args core.LoopArguments) {
		sequential := true
		core.WorkAssistLoop(args, func(blockIndex uint32) {
			start := uint64(blockIndex) * ChainedBlockSize
			end := min(start+ChainedBlockSize, uint64(len(data.input)))

			aggregate, known := adaptiveFastPathPrefix(data, blockIndex, sequential)
			if known {
				local := kernel.ScanSequential(data.input[start:end], aggregate, data.output[start:end])
				data.temp[blockIndex].PublishPrefix(local)
				return
			}

			sequential = false
			local := kernel.FoldSequential(data.input[start:end])
			data.temp[blockIndex].PublishAggregate(local)

			aggregate = core.LookBack(data.temp, blockIndex)
			data.temp[blockIndex].PublishPrefix(aggregate + local)
			kernel.ScanSequential(data.input[start:end], aggregate, data.output[start:end])
		})
	}, func(w *core.Workers) {
		w.Finish()
	})

	w.Run(task)
}

// adaptiveFastPathPrefix reports the exclusive prefix for blockIndex
// when it can be determined without a look-back loop: block 0 always
// starts at zero, and any later block whose immediate predecessor has
// already published its prefix can reuse it directly. Once sequential is
// false the fast path is disabled unconditionally, even if it would
// otherwise apply, so a goroutine that has already fallen back never
// flips back to the cheaper path.
func adaptiveFastPathPrefix(data *chainedData, blockIndex uint32, sequential bool) (uint64, bool) {
	if !sequential {
		return 0, false
	}
	if blockIndex == 0 {
		return 0, true
	}
	if data.temp[blockIndex-1].State() == core.StatePrefixAvailable {
		return data.temp[blockIndex-1].Prefix(), true
	}
	return 0, false
}
