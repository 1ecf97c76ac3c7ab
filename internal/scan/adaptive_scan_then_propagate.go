package scan

import (
	"github.com/ajroetker/parascan/internal/core"
	"github.com/ajroetker/parascan/internal/kernel"
)

// adaptiveScanData is shared across the two-sided phase 1, the
// sequential phase 2, and the one-sided phase 3 of the adaptive
// scan-then-propagate / reduce-then-scan variants.
type adaptiveScanData struct {
	input                []uint64
	output               []uint64
	temp                 []uint64
	blockSize            uint64
	blockCount           uint64
	sequentialBlockCount uint32
}

// AdaptiveScanThenPropagate claims phase-1 blocks with the two-sided
// discipline instead of a single one-sided counter: one goroutine (the
// leader) walks blocks left to right performing a full local scan
// directly into output and leaving each block's true cumulative total in
// temp, while every other goroutine walks blocks right to left, each
// only locally scanning its own block (so its total in temp is a local
// sum, not yet a cumulative one). Phase 2 (sequential, in the phase-1
// finish callback) turns the follower blocks' local sums into cumulative
// totals, continuing on from the leader's last correct total (or from
// block 0's local sum when no goroutine became the leader). Phase 3
// (one-sided, parallel) adds each follower block's now-known prefix to
// every element the leader didn't already finish.
// AdaptiveScanThenPropagate reports the number of blocks the leader
// processed sequentially before the parallel fallback kicked in, for
// callers (such as internal/scanratio) that want to measure how much of
// the array the fast path absorbed under a given thread count.
func AdaptiveScanThenPropagate(w *core.Workers, input, output []uint64) (sequentialBlocks uint32, blockSize uint64) {
	blockSize, blockCount := partitionBlocks(len(output))
	data := &adaptiveScanData{
		input: input, output: output,
		temp:      make([]uint64, len(output)),
		blockSize: blockSize, blockCount: blockCount,
	}

	phase1 := core.NewTwoSidedDataParallelTask(w.ThreadCount(), uint32(blockCount), func(w *core.Workers, args core.TwoSidedLoopArguments) {
		var accumulator uint64
		core.WorkAssistLoopTwoSided(args,
			func(blockIndex uint32) {
				start := uint64(blockIndex) * data.blockSize
				end := min(start+data.blockSize, uint64(len(data.output)))
				accumulator = kernel.ScanSequential(data.input[start:end], accumulator, data.output[start:end])
				data.temp[end-1] = accumulator
			},
			func(blockIndex uint32) {
				start := uint64(blockIndex) * data.blockSize
				end := min(start+data.blockSize, uint64(len(data.output)))
				data.temp[end-1] = kernel.ScanSequential(data.input[start:end], 0, data.output[start:end])
			},
			func(sequentialCount, parallelCount uint32) {
				data.sequentialBlockCount = sequentialCount
			},
		)
	}, func(w *core.Workers) {
		index := uint64(max(data.sequentialBlockCount, 1))*data.blockSize - 1
		var aggregate uint64
		for index < uint64(len(data.temp)) {
			aggregate += data.temp[index]
			data.temp[index] = aggregate
			index += data.blockSize
		}

		remaining := uint32(data.blockCount) - data.sequentialBlockCount
		if remaining == 0 {
			w.Finish()
			return
		}

		w.PushTask(core.NewDataParallelTask(w.ThreadCount(), remaining, func(w *core.Workers, args core.LoopArguments) {
			core.WorkAssistLoop(args, func(offset uint32) {
				blockIndex := offset + data.sequentialBlockCount
				start := uint64(blockIndex) * data.blockSize
				end := min(start+data.blockSize, uint64(len(data.output)))
				var prefix uint64
				if start != 0 {
					prefix = data.temp[start-1]
				}
				if prefix == 0 {
					return
				}
				for i := start; i < end; i++ {
					data.output[i] += prefix
				}
			})
		}, func(w *core.Workers) {
			w.Finish()
		}))
	})

	w.Run(phase1)
	return data.sequentialBlockCount, data.blockSize
}
