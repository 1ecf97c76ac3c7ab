package core

import (
	"sync"
	"sync/atomic"
	"testing"
)

// TestWorkAssistLoopClaimsEveryBlockOnce runs several goroutines over a
// one-sided loop and checks every block index in [0, workSize) is
// claimed by exactly one goroutine, with the finish callback firing
// exactly once.
func TestWorkAssistLoopClaimsEveryBlockOnce(t *testing.T) {
	const workSize = 997
	const threadCount = 8

	claimed := make([]int32, workSize)
	var workIndex atomic.Uint32
	var pending atomic.Int32
	pending.Store(threadCount + 1)

	var finishCount atomic.Int32
	signal := EmptySignal{pending: &pending, onEmpty: func() { finishCount.Add(1) }}

	var wg sync.WaitGroup
	wg.Add(threadCount)
	for i := 0; i < threadCount; i++ {
		go func() {
			defer wg.Done()
			WorkAssistLoop(LoopArguments{
				FirstIndex:  workIndex.Add(1) - 1,
				WorkSize:    workSize,
				WorkIndex:   &workIndex,
				EmptySignal: signal,
			}, func(blockIndex uint32) {
				atomic.AddInt32(&claimed[blockIndex], 1)
			})
		}()
	}
	wg.Wait()

	for i, c := range claimed {
		if c != 1 {
			t.Fatalf("block %d claimed %d times, want 1", i, c)
		}
	}
	if finishCount.Load() != 1 {
		t.Fatalf("finish callback fired %d times, want 1", finishCount.Load())
	}
}

// TestTwoSidedParallelCountPrecedence pins the corrected
// sequentialCount+parallelCount == workSize invariant. The original
// macro's `indexValue >> 16 + 1` (parsed as `indexValue >> (16+1)`)
// undercounts parallelCount whenever a follower claims the final block,
// which is the usual outcome here with five followers racing one leader.
func TestTwoSidedParallelCountPrecedence(t *testing.T) {
	const workSize = 20000 // must stay below 1<<15 (32768) or WorkAssistLoopTwoSided panics
	const threadCount = 6

	var workIndex atomic.Uint32
	var pending atomic.Int32
	pending.Store(threadCount)
	signal := EmptySignal{pending: &pending, onEmpty: func() {}}

	var mu sync.Mutex
	var seqCount, parCount uint32
	var concluded int

	var wg sync.WaitGroup
	wg.Add(threadCount)
	for i := 0; i < threadCount; i++ {
		go func() {
			defer wg.Done()
			WorkAssistLoopTwoSided(
				TwoSidedLoopArguments{
					FirstIndex:  0,
					WorkSize:    workSize,
					WorkIndex:   &workIndex,
					EmptySignal: signal,
				},
				func(uint32) {},
				func(uint32) {},
				func(sequentialCount, parallelCount uint32) {
					mu.Lock()
					seqCount, parCount = sequentialCount, parallelCount
					concluded++
					mu.Unlock()
				},
			)
		}()
	}
	wg.Wait()

	if concluded != 1 {
		t.Fatalf("conclude fired %d times, want 1", concluded)
	}
	if seqCount+parCount != workSize {
		t.Fatalf("sequentialCount(%d)+parallelCount(%d) = %d, want %d", seqCount, parCount, seqCount+parCount, workSize)
	}
}

func TestWorkAssistLoopTwoSidedPanicsOnOversizedWork(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for work size >= 1<<15")
		}
	}()
	var workIndex atomic.Uint32
	var pending atomic.Int32
	WorkAssistLoopTwoSided(
		TwoSidedLoopArguments{WorkSize: 1 << 15, WorkIndex: &workIndex, EmptySignal: EmptySignal{pending: &pending, onEmpty: func() {}}},
		func(uint32) {}, func(uint32) {}, func(uint32, uint32) {},
	)
}
