package core

import "sync/atomic"

// EmptySignal counts down the number of "task_empty" signals a task still
// expects before its finish callback may run. One-sided loops signal once
// per participating goroutine, plus one extra signal from whichever
// goroutine claims the literal final block index (see NewDataParallelTask).
// Two-sided loops signal exactly once per participating goroutine.
type EmptySignal struct {
	pending *atomic.Int32
	onEmpty func()
}

// TaskEmpty records one signal. When the pending count reaches zero, the
// task's finish callback fires exactly once.
func (e EmptySignal) TaskEmpty() {
	if e.pending.Add(-1) == 0 {
		e.onEmpty()
	}
}

// LoopArguments binds the shared state a one-sided work-assisting loop
// needs: where this goroutine starts claiming from, the total block
// count, the shared claim counter, and the completion signal.
type LoopArguments struct {
	FirstIndex  uint32
	WorkSize    uint32
	WorkIndex   *atomic.Uint32
	EmptySignal EmptySignal
}

// WorkAssistLoop runs body once for every block index this goroutine
// claims, starting at FirstIndex and then repeatedly fetch-adding
// WorkIndex until every block in [0, WorkSize) has been claimed by some
// goroutine. It signals EmptySignal exactly once when it observes the
// literal last index being claimed (by itself or, more precisely, by
// whichever goroutine's fetch-add made it so) and once more,
// unconditionally, when it exits — mirroring the original macro's two
// task_empty call sites so NewDataParallelTask can size the pending
// count as threadCount+1.
func WorkAssistLoop(args LoopArguments, body func(blockIndex uint32)) {
	blockIdx := args.FirstIndex
	for blockIdx < args.WorkSize {
		if blockIdx == args.WorkSize-1 {
			args.EmptySignal.TaskEmpty()
		}
		body(blockIdx)
		blockIdx = args.WorkIndex.Add(1) - 1
	}
	args.EmptySignal.TaskEmpty()
}

// TwoSidedLoopArguments binds the shared state a two-sided work-assisting
// loop needs. The claim counter packs two 16-bit fields into one
// atomic.Uint32: low 16 bits count blocks claimed sequentially from the
// left by the leader, high 16 bits count blocks claimed in lockstep from
// the right by followers.
type TwoSidedLoopArguments struct {
	FirstIndex  uint32
	WorkSize    uint32
	WorkIndex   *atomic.Uint32
	EmptySignal EmptySignal
}

// WorkAssistLoopTwoSided elects at most one goroutine (whichever one
// observes FirstIndex == 0 and wins the initial compare-and-swap) as the
// leader, which claims blocks left-to-right via leaderBody; every other
// goroutine is a follower, claiming blocks right-to-left via
// followerBody. If a follower claims a block before that compare-and-swap
// runs, the swap fails and the followers claim every block (the
// sequential count is then 0). Both sides share one packed claim counter
// so the last block claimed, from either direction, is detected without a
// separate barrier. conclude fires exactly once, on whichever goroutine
// claims the final block, after that block's body has run and before that
// goroutine signals TaskEmpty, with the final sequential/parallel split.
//
// Requires WorkSize < 1<<15: the packed counter has 16 bits per side, and
// a side filling its own 16 bits without the combined count reaching
// WorkSize would wrap.
func WorkAssistLoopTwoSided(
	args TwoSidedLoopArguments,
	leaderBody func(blockIndex uint32),
	followerBody func(blockIndex uint32),
	conclude func(sequentialCount, parallelCount uint32),
) {
	if args.WorkSize >= 1<<15 {
		panic("core: two-sided loop requires work size < 1<<15")
	}

	var isLeader bool
	if args.FirstIndex == 0 {
		isLeader = args.WorkIndex.CompareAndSwap(0, 1)
	}

	if isLeader {
		blockIdx := uint32(0)

		if args.WorkSize == 1 {
			// The original macro concludes here without ever invoking the
			// leader body for the sole block, silently dropping it. Since
			// every algorithm built on this loop relies on every claimed
			// block actually being processed, that block is run here
			// before concluding.
			leaderBody(blockIdx)
			conclude(1, 0)
			args.EmptySignal.TaskEmpty()
			return
		}

		for {
			leaderBody(blockIdx)

			indexValue := args.WorkIndex.Add(1) - 1
			countClaimed := (indexValue & 0xFFFF) + (indexValue >> 16) + 1
			if countClaimed > args.WorkSize {
				args.EmptySignal.TaskEmpty()
				return
			} else if countClaimed == args.WorkSize {
				// This claim is the final block: run it, then conclude.
				leaderBody(indexValue & 0xFFFF)
				sequentialCount := (indexValue & 0xFFFF) + 1
				parallelCount := indexValue >> 16
				conclude(sequentialCount, parallelCount)
				args.EmptySignal.TaskEmpty()
				return
			}
			blockIdx = indexValue & 0xFFFF
		}
	}

	for {
		indexValue := args.WorkIndex.Add(1<<16) - (1 << 16)
		countClaimed := (indexValue & 0xFFFF) + (indexValue >> 16) + 1
		if countClaimed > args.WorkSize {
			args.EmptySignal.TaskEmpty()
			return
		} else if countClaimed == args.WorkSize {
			// This claim is the final block: run it, then conclude.
			followerBody(args.WorkSize - (indexValue >> 16) - 1)
			sequentialCount := indexValue & 0xFFFF
			// Corrected precedence: the original Rust macro computes this
			// as `index_value >> 16 + 1`, which parses as
			// `index_value >> (16 + 1)` and undercounts parallelCount by
			// roughly half. That violates sequentialCount+parallelCount
			// == workSize whenever a follower concludes, so the shift and
			// the +1 are grouped explicitly here.
			parallelCount := (indexValue >> 16) + 1
			conclude(sequentialCount, parallelCount)
			args.EmptySignal.TaskEmpty()
			return
		}
		blockIndex := args.WorkSize - (indexValue >> 16) - 1
		followerBody(blockIndex)
	}
}
