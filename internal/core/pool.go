package core

import (
	"runtime"
	"sync"
)

// Workers is a task-chaining worker pool: Run launches threadCount
// goroutines against a Task and blocks until the chain that Task's
// finish callback builds (via PushTask) fully drains. It generalizes the
// teacher's persistent-pool shape (one WaitGroup-gated ParallelFor call)
// into a sequence of such calls, since several scan/compact algorithms
// here are naturally multi-phase (reduce, then propagate, then scan).
type Workers struct {
	threadCount int
	affinity    AffinityMapping

	nextTask *Task
	finished bool
}

// NewWorkers constructs a pool that will launch threadCount goroutines
// per task, pinned to OS threads according to mapping. A nil mapping
// uses the identity AffinityMapping (worker i on logical CPU i).
func NewWorkers(threadCount int, mapping AffinityMapping) *Workers {
	if mapping == nil {
		mapping = IdentityAffinity()
	}
	return &Workers{threadCount: threadCount, affinity: mapping}
}

// ThreadCount reports how many goroutines Run launches per phase.
func (w *Workers) ThreadCount() int {
	return w.threadCount
}

// PushTask chains a following phase. Only valid when called from a
// Task's finish callback; calling it any other time, or calling it
// together with Finish for the same phase, is a programmer error.
func (w *Workers) PushTask(t *Task) {
	if w.finished {
		panic("core: PushTask called after Finish in the same phase")
	}
	w.nextTask = t
}

// Finish marks the task chain as complete. Only valid when called from a
// Task's finish callback.
func (w *Workers) Finish() {
	w.finished = true
}

// Run drives task, and every task its finish callback pushes, to
// completion before returning.
func (w *Workers) Run(task *Task) {
	current := task
	for current != nil {
		w.nextTask = nil
		w.finished = false

		var wg sync.WaitGroup
		wg.Add(w.threadCount)
		for i := 0; i < w.threadCount; i++ {
			go func(workerID int) {
				defer wg.Done()
				runtime.LockOSThread()
				defer runtime.UnlockOSThread()
				pinCurrentThread(w.affinity.CPUFor(workerID))
				current.run(w, workerID)
			}(i)
		}
		wg.Wait()

		if w.finished || w.nextTask == nil {
			return
		}
		current = w.nextTask
	}
}

// AffinityMapping maps a worker index to a logical CPU to pin its OS
// thread to. Building a topology-aware mapping (NUMA-node- or
// core-group-aware placement) is out of scope; IdentityAffinity is the
// only mapping this package provides.
type AffinityMapping interface {
	CPUFor(workerID int) int
}

type identityAffinity struct{}

func (identityAffinity) CPUFor(workerID int) int { return workerID }

// IdentityAffinity pins worker i to logical CPU i.
func IdentityAffinity() AffinityMapping { return identityAffinity{} }
