package compact

import (
	"github.com/ajroetker/parascan/internal/core"
	"github.com/ajroetker/parascan/internal/kernel"
)

// NoLookbackChained is compaction's analogue of scan.NoLookbackChained:
// every block spins only on its immediate predecessor's PrefixAvailable
// state rather than walking back over a run of AggregateAvailable
// blocks, trading simplicity and higher stall latency for never needing
// a published aggregate at all.
func NoLookbackChained(w *core.Workers, input []uint64, temp []core.BlockInfo, output []uint64, pred kernel.Predicate) uint64 {
	data := &chainedData{input: input, temp: temp, output: output, pred: pred}
	blockCount := fixedBlockCount(len(input), ChainedBlockSize)

	var outputCount uint64
	task := core.NewDataParallelTask(w.ThreadCount(), blockCount, func(w *core.Workers, args core.LoopArguments) {
		core.WorkAssistLoop(args, func(blockIndex uint32) {
			start := uint64(blockIndex) * ChainedBlockSize
			end := min(start+ChainedBlockSize, uint64(len(data.input)))

			var base uint64
			if blockIndex != 0 {
				for data.temp[blockIndex-1].State() != core.StatePrefixAvailable {
					// Spin until the immediate predecessor publishes its prefix.
				}
				base = data.temp[blockIndex-1].Prefix()
			}

			local := kernel.CountSequential(data.input[start:end], data.pred)
			data.temp[blockIndex].PublishPrefix(base + local)
			kernel.CompactSequential(data.input[start:end], data.pred, data.output, base)
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
