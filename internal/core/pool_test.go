package core

import (
	"sync/atomic"
	"testing"
)

func TestWorkersRunSinglePhase(t *testing.T) {
	const blockCount = 64
	var touched [blockCount]int32

	task := NewDataParallelTask(4, blockCount, func(w *Workers, args LoopArguments) {
		WorkAssistLoop(args, func(blockIndex uint32) {
			atomic.AddInt32(&touched[blockIndex], 1)
		})
	}, func(w *Workers) {
		w.Finish()
	})

	NewWorkers(4, nil).Run(task)

	for i, c := range touched {
		if c != 1 {
			t.Fatalf("block %d touched %d times, want 1", i, c)
		}
	}
}

func TestWorkersRunChainsPushedTask(t *testing.T) {
	const blockCount = 16
	var phase1Done, phase2Done atomic.Bool

	phase2 := NewDataParallelTask(4, blockCount, func(w *Workers, args LoopArguments) {
		WorkAssistLoop(args, func(blockIndex uint32) {})
	}, func(w *Workers) {
		phase2Done.Store(true)
		w.Finish()
	})

	phase1 := NewDataParallelTask(4, blockCount, func(w *Workers, args LoopArguments) {
		WorkAssistLoop(args, func(blockIndex uint32) {})
	}, func(w *Workers) {
		phase1Done.Store(true)
		w.PushTask(phase2)
	})

	NewWorkers(4, nil).Run(phase1)

	if !phase1Done.Load() || !phase2Done.Load() {
		t.Fatalf("expected both phases to run: phase1=%v phase2=%v", phase1Done.Load(), phase2Done.Load())
	}
}

func TestNewTwoSidedDataParallelTaskPanicsAboveLimit(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for block count >= 1<<15")
		}
	}()
	NewTwoSidedDataParallelTask(2, 1<<15, func(w *Workers, args TwoSidedLoopArguments) {}, func(w *Workers) {})
}
