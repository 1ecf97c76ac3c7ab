package core

import "sync/atomic"

// Task is one phase of work: a run closure executed by every goroutine
// that participates in the pool, and a finish closure executed exactly
// once after every goroutine has observed the work as claimed. finish may
// call Workers.PushTask to chain a following phase, or Workers.Finish to
// end the chain.
type Task struct {
	workSize  uint32
	twoSided  bool
	workIndex atomic.Uint32
	pending   atomic.Int32

	run    func(w *Workers, workerID int)
	finish func(w *Workers)
}

// NewDataParallelTask builds a one-sided task over blockCount blocks.
// run is called once per participating goroutine with a LoopArguments
// value to drive through WorkAssistLoop; finish is called exactly once
// after all blocks have been claimed and every goroutine has exited its
// loop.
//
// Each of the threadCount goroutines gets its own workerID (0..threadCount-1)
// as FirstIndex, so the first threadCount blocks are pre-claimed one per
// goroutine without any of them touching workIndex; workIndex itself starts
// at threadCount so the loop's own fetch-add claims pick up right where the
// pre-claimed range ends.
//
// The pending signal count is blockCount-agnostic: it's sized to the
// number of goroutines the pool launches for this task (threadCount),
// plus one, because WorkAssistLoop signals once per exiting goroutine and
// once more, extra, from whichever goroutine observes the literal last
// block index mid-loop.
func NewDataParallelTask(threadCount int, blockCount uint32, run func(w *Workers, args LoopArguments), finish func(w *Workers)) *Task {
	t := &Task{workSize: blockCount, twoSided: false}
	t.workIndex.Store(uint32(threadCount))
	t.pending.Store(int32(threadCount) + 1)
	t.run = func(w *Workers, workerID int) {
		run(w, LoopArguments{
			FirstIndex:  uint32(workerID),
			WorkSize:    t.workSize,
			WorkIndex:   &t.workIndex,
			EmptySignal: EmptySignal{pending: &t.pending, onEmpty: func() { t.runFinish(w) }},
		})
	}
	t.finish = finish
	return t
}

// NewTwoSidedDataParallelTask builds a two-sided task over blockCount
// blocks. blockCount must be less than 1<<15. Unlike the one-sided loop,
// every participating goroutine signals TaskEmpty exactly once (on
// whichever branch concludes its side), so the pending count equals
// threadCount exactly.
//
// Unlike NewDataParallelTask, workIndex itself starts at its zero value:
// the leader's compare-and-swap only succeeds against a counter that is
// still 0. Each goroutine still gets its workerID as FirstIndex, but here
// that value is only ever compared against 0 — it decides which single
// goroutine attempts the leader compare-and-swap (the one with workerID
// 0); everyone else falls straight into the follower side without
// touching workIndex beforehand.
func NewTwoSidedDataParallelTask(threadCount int, blockCount uint32, run func(w *Workers, args TwoSidedLoopArguments), finish func(w *Workers)) *Task {
	if blockCount >= 1<<15 {
		panic("core: two-sided task requires block count < 1<<15")
	}
	t := &Task{workSize: blockCount, twoSided: true}
	t.pending.Store(int32(threadCount))
	t.run = func(w *Workers, workerID int) {
		run(w, TwoSidedLoopArguments{
			FirstIndex:  uint32(workerID),
			WorkSize:    t.workSize,
			WorkIndex:   &t.workIndex,
			EmptySignal: EmptySignal{pending: &t.pending, onEmpty: func() { t.runFinish(w) }},
		})
	}
	t.finish = finish
	return t
}

func (t *Task) runFinish(w *Workers) {
	t.finish(w)
}
