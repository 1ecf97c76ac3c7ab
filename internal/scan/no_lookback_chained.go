package scan

import (
	"github.com/ajroetker/parascan/internal/core"
	"github.com/ajroetker/parascan/internal/kernel"
)

// NoLookbackChained is Chained's simpler, higher-latency sibling: rather
// than aggregating over a run of AggregateAvailable predecessors, each
// block spins only on its immediate predecessor's state until that one
// block reaches PrefixAvailable. It never publishes an intermediate
// aggregate at all, so there's less bookkeeping per block, but a
// temporarily slow block stalls every later block in turn instead of
// letting them race ahead on reduce-only work.
func NoLookbackChained(w *core.Workers, input []uint64, temp []core.BlockInfo, output []uint64) {
	data := &chainedData{input: input, temp: temp, output: output}
	blockCount := fixedBlockCount(len(output), ChainedBlockSize)

	task := core.NewDataParallelTask(w.ThreadCount(), blockCount, func(w *core.Workers, args core.LoopArguments) {
		core.WorkAssistLoop(args, func(blockIndex uint32) {
			start := uint64(blockIndex) * ChainedBlockSize
			end := min(start+ChainedBlockSize, uint64(len(data.input)))

			var aggregate uint64
			if blockIndex != 0 {
				for data.temp[blockIndex-1].State() != core.StatePrefixAvailable {
					// Spin until the immediate predecessor publishes its prefix.
				}
				aggregate = data.temp[blockIndex-1].Prefix()
			}

			local := kernel.ScanSequential(data.input[start:end], aggregate, data.output[start:end])
			data.temp[blockIndex].PublishPrefix(local)
		})
	}, func(w *core.Workers) {
		w.Finish()
	})

	w.Run(task)
}
