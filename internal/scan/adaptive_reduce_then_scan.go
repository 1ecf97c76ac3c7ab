package scan

import (
	"github.com/ajroetker/parascan/internal/core"
	"github.com/ajroetker/parascan/internal/kernel"
)

// AdaptiveReduceThenScan is ReduceThenScan's two-sided-claim sibling:
// phase 1 only folds every block (leader and followers alike — the
// leader's sequential position buys it a cheaper claim, not a cheaper
// per-block computation here), phase 2 turns every block's fold into a
// cumulative total, and phase 3 re-scans every block in parallel from
// its now-known starting accumulator, exactly like ReduceThenScan's own
// phase 3 but driven by a two-sided phase 1 instead of a one-sided one.
func AdaptiveReduceThenScan(w *core.Workers, input, output []uint64) (sequentialBlocks uint32, blockSize uint64) {
	blockSize, blockCount := partitionBlocks(len(output))
	data := &adaptiveScanData{
		input: input, output: output,
		temp:      make([]uint64, len(output)),
		blockSize: blockSize, blockCount: blockCount,
	}

	fold := func(blockIndex uint32) {
		start := uint64(blockIndex) * data.blockSize
		end := min(start+data.blockSize, uint64(len(data.output)))
		data.temp[end-1] = kernel.FoldSequential(data.input[start:end])
	}

	phase1 := core.NewTwoSidedDataParallelTask(w.ThreadCount(), uint32(blockCount), func(w *core.Workers, args core.TwoSidedLoopArguments) {
		core.WorkAssistLoopTwoSided(args, fold, fold, func(sequentialCount, parallelCount uint32) {
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
				end := min(start+data.blockSize, uint64(len(data.output)))
				var initial uint64
				if blockIndex != 0 {
					initial = data.temp[start-1]
				}
				kernel.ScanSequential(data.input[start:end], initial, data.output[start:end])
			})
		}, func(w *core.Workers) {
			w.Finish()
		}))
	})

	w.Run(phase1)
	return data.sequentialBlockCount, data.blockSize
}
