package compact

import (
	"github.com/ajroetker/parascan/internal/core"
	"github.com/ajroetker/parascan/internal/kernel"
)

// Chained runs decoupled look-back chained compaction: every block
// counts its own matches, publishes that count as an aggregate, walks
// back through temp to recover how many matches landed before it, then
// writes its own matches starting at that base offset. It returns the
// total number of elements written to the front of output.
func Chained(w *core.Workers, input []uint64, temp []core.BlockInfo, output []uint64, pred kernel.Predicate) uint64 {
	return runChained(w, input, temp, output, pred, ChainedBlockSize)
}

func runChained(w *core.Workers, input []uint64, temp []core.BlockInfo, output []uint64, pred kernel.Predicate, blockSize uint64) uint64 {
	data := &chainedData{input: input, temp: temp, output: output, pred: pred}
	blockCount := fixedBlockCount(len(input), blockSize)

	var outputCount uint64
	task := core.NewDataParallelTask(w.ThreadCount(), blockCount, func(w *core.Workers, args core.LoopArguments) {
		core.WorkAssistLoop(args, func(blockIndex uint32) {
			runChainedBlock(data, blockIndex, blockSize)
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
