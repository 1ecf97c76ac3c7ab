package compact

import (
	"github.com/ajroetker/parascan/internal/core"
	"github.com/ajroetker/parascan/internal/kernel"
)

// AdaptiveChained mirrors scan.AdaptiveChained for compaction: a
// goroutine stays on the cheap immediate-predecessor-prefix path as long
// as it can, permanently switching to the full look-back path the first
// time a predecessor isn't ready yet.
func AdaptiveChained(w *core.Workers, input []uint64, temp []core.BlockInfo, output []uint64, pred kernel.Predicate) uint64 {
	data := &chainedData{input: input, temp: temp, output: output, pred: pred}
	blockCount := fixedBlockCount(len(input), ChainedBlockSize)

	var outputCount uint64
	task := core.NewDataParallelTask(w.ThreadCount(), blockCount, func(w *core.Workers, args core.LoopArguments) {
		sequential := true
		core.WorkAssistLoop(args, func(blockIndex uint32) {
			start := uint64(blockIndex) * ChainedBlockSize
			end := min(start+ChainedBlockSize, uint64(len(data.input)))

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

			runChainedBlock(data, blockIndex, ChainedBlockSize)
		})
	}, func(w *core.Workers) {
		if blockCount > 0 {
			outputCount = data.temp[blockCount-1].Prefix()
		}
		w.Finish()
	})

	w.Run(task)
	return outputCount
}
