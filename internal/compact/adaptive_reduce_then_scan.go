package compact

import (
	"github.com/ajroetker/parascan/internal/core"
	"github.com/ajroetker/parascan/internal/kernel"
)

// AdaptiveReduceThenScan is AdaptiveScanThenPropagate's reduce-then-scan
// sibling: phase 1 only counts matches per block (leader and followers
// alike, right down the middle of temp), phase 2 turns every block's
// count into a cumulative count, and phase 3 re-walks every block in
// parallel, writing its matches from the now-known base offset — no
// block is ever fully finished during phase 1.
func AdaptiveReduceThenScan(w *core.Workers, input, output []uint64, pred kernel.Predicate) uint64 {
	blockSize, blockCount := partitionBlocks(len(input))
	data := &adaptiveCompactData{
		input: input, output: output,
		temp:      make([]uint64, len(input)),
		pred:      pred,
		blockSize: blockSize, blockCount: blockCount,
	}

	count := func(blockIndex uint32) {
		start := uint64(blockIndex) * data.blockSize
		end := min(start+data.blockSize, uint64(len(data.input)))
		data.temp[end-1] = kernel.CountSequential(data.input[start:end], data.pred)
	}

	phase1 := core.NewTwoSidedDataParallelTask(w.ThreadCount(), uint32(blockCount), func(w *core.Workers, args core.TwoSidedLoopArguments) {
		core.WorkAssistLoopTwoSided(args, count, count, func(sequentialCount, parallelCount uint32) {
			data.sequentialBlockCount = sequentialCount
		})
	}, func(w *core.Workers) {
		var aggregate uint64
		index := data.blockSize - 1
		for index < uint64(len(data.temp)) {
			aggregate += data.temp[index]
			data.temp[index] = aggregate
			index += data.blockSize
		}

		w.PushTask(core.NewDataParallelTask(w.ThreadCount(), uint32(data.blockCount), func(w *core.Workers, args core.LoopArguments) {
			core.WorkAssistLoop(args, func(blockIndex uint32) {
				start := uint64(blockIndex) * data.blockSize
				end := min(start+data.blockSize, uint64(len(data.input)))
				var base uint64
				if blockIndex != 0 {
					base = data.temp[start-1]
				}
				written := kernel.CompactSequential(data.input[start:end], data.pred, data.output, base)
				if uint64(blockIndex) == data.blockCount-1 {
					data.outputCount = base + written
				}
			})
		}, func(w *core.Workers) {
			w.Finish()
		}))
	})

	w.Run(phase1)
	return data.outputCount
}
