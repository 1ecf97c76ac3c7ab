package scan

import (
	"github.com/ajroetker/parascan/internal/core"
	"github.com/ajroetker/parascan/internal/kernel"
)

// reduceThenScanData mirrors scanThenPropagateData, but phase 1 only
// folds (sums) each block rather than scanning it; the full scan
// happens once per block in phase 3, seeded from the already-known
// exclusive prefix.
type reduceThenScanData struct {
	input      []uint64
	output     []uint64
	blockSize  uint64
	blockCount uint64
	blockTotal []uint64
}

// ReduceThenScan runs the local-reduce-then-global-scan three-phase
// algorithm: phase 1 sums each block in parallel and records the sum in
// a per-block totals slice; phase 2 (sequential, in the phase-1 finish
// callback) walks those block sums into running totals; phase
// 3 re-scans each block from its known starting accumulator, in
// parallel. Unlike ScanThenPropagate, every element is only ever written
// once (in phase 3), at the cost of reading each input element twice.
func ReduceThenScan(w *core.Workers, input, output []uint64) {
	blockSize, blockCount := partitionBlocks(len(output))
	data := &reduceThenScanData{
		input:      input,
		output:     output,
		blockSize:  blockSize,
		blockCount: blockCount,
		blockTotal: make([]uint64, blockCount),
	}

	phase1 := core.NewDataParallelTask(w.ThreadCount(), uint32(blockCount), func(w *core.Workers, args core.LoopArguments) {
		core.WorkAssistLoop(args, func(blockIndex uint32) {
			start := uint64(blockIndex) * data.blockSize
			end := min(start+data.blockSize, uint64(len(data.output)))
			data.blockTotal[blockIndex] = kernel.FoldSequential(data.input[start:end])
		})
	}, func(w *core.Workers) {
		accumulators := make([]uint64, data.blockCount)
		var accumulator uint64
		for i := uint64(0); i < data.blockCount; i++ {
			accumulators[i] = accumulator
			accumulator += data.blockTotal[i]
		}

		w.PushTask(core.NewDataParallelTask(w.ThreadCount(), uint32(data.blockCount), func(w *core.Workers, args core.LoopArguments) {
			core.WorkAssistLoop(args, func(blockIndex uint32) {
				start := uint64(blockIndex) * data.blockSize
				end := min(start+data.blockSize, uint64(len(data.output)))
				kernel.ScanSequential(data.input[start:end], accumulators[blockIndex], data.output[start:end])
			})
		}, func(w *core.Workers) {
			w.Finish()
		}))
	})

	w.Run(phase1)
}
