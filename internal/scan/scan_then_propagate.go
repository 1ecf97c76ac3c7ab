package scan

import (
	"github.com/ajroetker/parascan/internal/core"
	"github.com/ajroetker/parascan/internal/kernel"
)

// scanThenPropagateData is shared, read-only after construction, by
// every goroutine across all three phases; only output and the phase-2
// per-block totals slice are mutated, and each index is only ever
// touched by the block that owns it.
type scanThenPropagateData struct {
	input      []uint64
	output     []uint64
	blockSize  uint64
	blockCount uint64
	blockTotal []uint64
}

// ScanThenPropagate runs the classic three-phase scan: phase 1 performs a
// full local inclusive scan of every block in parallel, recording each
// block's total; phase 2 (sequential, run in the phase-1 finish
// callback) turns those totals into exclusive prefixes; phase 3 adds
// each block's prefix to every one of its already-locally-scanned
// elements, in parallel.
func ScanThenPropagate(w *core.Workers, input, output []uint64) {
	blockSize, blockCount := partitionBlocks(len(output))
	data := &scanThenPropagateData{
		input:      input,
		output:     output,
		blockSize:  blockSize,
		blockCount: blockCount,
		blockTotal: make([]uint64, blockCount),
	}

	task := core.NewDataParallelTask(w.ThreadCount(), uint32(blockCount), func(w *core.Workers, args core.LoopArguments) {
		core.WorkAssistLoop(args, func(blockIndex uint32) {
			start := uint64(blockIndex) * data.blockSize
			end := min(start+data.blockSize, uint64(len(data.output)))
			data.blockTotal[blockIndex] = kernel.ScanSequential(data.input[start:end], 0, data.output[start:end])
		})
	}, func(w *core.Workers) {
		var accumulator uint64
		exclusive := make([]uint64, data.blockCount)
		for i := uint64(0); i < data.blockCount; i++ {
			exclusive[i] = accumulator
			accumulator += data.blockTotal[i]
		}

		w.PushTask(core.NewDataParallelTask(w.ThreadCount(), uint32(data.blockCount), func(w *core.Workers, args core.LoopArguments) {
			core.WorkAssistLoop(args, func(blockIndex uint32) {
				if exclusive[blockIndex] == 0 {
					return
				}
				start := uint64(blockIndex) * data.blockSize
				end := min(start+data.blockSize, uint64(len(data.output)))
				offset := exclusive[blockIndex]
				for i := start; i < end; i++ {
					data.output[i] += offset
				}
			})
		}, func(w *core.Workers) {
			w.Finish()
		}))
	})

	w.Run(task)
}

func min(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}
