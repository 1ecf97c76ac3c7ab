package compact

import (
	"github.com/ajroetker/parascan/internal/core"
	"github.com/ajroetker/parascan/internal/kernel"
)

type adaptiveCompactData struct {
	input                []uint64
	output               []uint64
	temp                 []uint64
	pred                 kernel.Predicate
	blockSize            uint64
	blockCount           uint64
	sequentialBlockCount uint32
	outputCount          uint64
}

// AdaptiveScanThenPropagate claims phase-1 blocks two-sided: the leader
// walks blocks left to right, compacting each directly into output with
// a running accumulator (so its blocks are already completely correct by
// the time phase 1 ends), while every follower only computes each of its
// elements' local running match count into temp, right to left. Phase 2
// (sequential) turns the followers' local counts into true cumulative
// counts, continuing on from the leader's last true count (or from block
// 0's local count when no goroutine became the leader). Phase 3
// (one-sided, parallel) walks every follower-claimed block, adding the
// now-known prefix to interior elements and writing any element whose
// cumulative count advanced (a match) to its final destination slot.
func AdaptiveScanThenPropagate(w *core.Workers, input, output []uint64, pred kernel.Predicate) uint64 {
	blockSize, blockCount := partitionBlocks(len(input))
	data := &adaptiveCompactData{
		input: input, output: output,
		temp:      make([]uint64, len(input)),
		pred:      pred,
		blockSize: blockSize, blockCount: blockCount,
	}

	phase1 := core.NewTwoSidedDataParallelTask(w.ThreadCount(), uint32(blockCount), func(w *core.Workers, args core.TwoSidedLoopArguments) {
		var accumulator uint64
		core.WorkAssistLoopTwoSided(args,
			func(blockIndex uint32) {
				start := uint64(blockIndex) * data.blockSize
				end := min(start+data.blockSize, uint64(len(data.input)))
				written := kernel.CompactSequential(data.input[start:end], data.pred, data.output, accumulator)
				accumulator += written
				if uint64(blockIndex) == data.blockCount-1 {
					data.outputCount = accumulator
				} else {
					data.temp[end-1] = accumulator
				}
			},
			func(blockIndex uint32) {
				start := uint64(blockIndex) * data.blockSize
				end := min(start+data.blockSize, uint64(len(data.input)))
				kernel.ScanIndicesSequential(data.input[start:end], data.pred, data.temp[start:end])
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
				end := min(start+data.blockSize, uint64(len(data.input)))
				var prefix uint64
				if start != 0 {
					prefix = data.temp[start-1]
				}

				previous := prefix
				lastOfBlock := start + data.blockSize - 1
				for i := start; i < end; i++ {
					index := data.temp[i]
					if i != lastOfBlock {
						index += prefix
					}
					if index != previous {
						data.output[index-1] = data.input[i]
					}
					previous = index
				}
				if end == uint64(len(data.input)) {
					data.outputCount = previous
				}
			})
		}, func(w *core.Workers) {
			w.Finish()
		}))
	})

	w.Run(phase1)
	return data.outputCount
}
