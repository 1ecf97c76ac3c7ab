//go:build linux

package core

import "golang.org/x/sys/unix"

// pinCurrentThread pins the calling OS thread (already locked via
// runtime.LockOSThread by the caller) to a single logical CPU. Pinning
// failures are ignored: affinity is a scheduling hint for benchmark
// stability, not a correctness requirement, and pinning to an
// out-of-range or unavailable CPU on a restricted cgroup should degrade
// to "unpinned" rather than crash the run.
func pinCurrentThread(cpu int) {
	if cpu < 0 {
		return
	}
	var set unix.CPUSet
	set.Zero()
	set.Set(cpu)
	_ = unix.SchedSetaffinity(0, &set)
}
