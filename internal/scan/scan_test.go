package scan

import (
	"testing"

	"github.com/ajroetker/parascan/internal/core"
	"github.com/ajroetker/parascan/internal/kernel"
)

func referenceScan(input []uint64) []uint64 {
	output := make([]uint64, len(input))
	kernel.ScanSequential(input, 0, output)
	return output
}

func assertScanEqual(t *testing.T, got, want []uint64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("output[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

// sizes exercises a block-count-aligned size, an irregular (non-aligned)
// size and a size smaller than a single block, per testable property
// "block boundaries never lose or duplicate elements" (spec.md S1/S2).
func sizes() []int {
	return []int{1, 37, 1000, ChainedBlockSize, ChainedBlockSize*3 + 17, 200000}
}

func TestScanThenPropagate(t *testing.T) {
	for _, n := range sizes() {
		input := make([]uint64, n)
		kernel.FillInput(input)
		want := referenceScan(input)

		output := make([]uint64, n)
		ScanThenPropagate(core.NewWorkers(4, nil), input, output)
		assertScanEqual(t, output, want)
	}
}

func TestReduceThenScan(t *testing.T) {
	for _, n := range sizes() {
		input := make([]uint64, n)
		kernel.FillInput(input)
		want := referenceScan(input)

		output := make([]uint64, n)
		ReduceThenScan(core.NewWorkers(4, nil), input, output)
		assertScanEqual(t, output, want)
	}
}

func TestChained(t *testing.T) {
	for _, n := range sizes() {
		input := make([]uint64, n)
		kernel.FillInput(input)
		want := referenceScan(input)

		output := make([]uint64, n)
		temp := NewTemp(n, ChainedBlockSize)
		Chained(core.NewWorkers(4, nil), input, temp, output)
		assertScanEqual(t, output, want)
	}
}

func TestNoLookbackChained(t *testing.T) {
	for _, n := range sizes() {
		input := make([]uint64, n)
		kernel.FillInput(input)
		want := referenceScan(input)

		output := make([]uint64, n)
		temp := NewTemp(n, ChainedBlockSize)
		NoLookbackChained(core.NewWorkers(4, nil), input, temp, output)
		assertScanEqual(t, output, want)
	}
}

func TestHalfSizedBlocks(t *testing.T) {
	for _, n := range sizes() {
		input := make([]uint64, n)
		kernel.FillInput(input)
		want := referenceScan(input)

		output := make([]uint64, n)
		temp := NewTemp(n, HalfSizedBlockSize)
		HalfSizedBlocks(core.NewWorkers(4, nil), input, temp, output)
		assertScanEqual(t, output, want)
	}
}

func TestHalfSizedVariant(t *testing.T) {
	for _, n := range sizes() {
		input := make([]uint64, n)
		kernel.FillInput(input)
		want := referenceScan(input)

		output := make([]uint64, n)
		temp := NewTemp(n, HalfSizedBlockSize)
		HalfSizedVariant(core.NewWorkers(4, nil), input, temp, output)
		assertScanEqual(t, output, want)
	}
}

func TestAdaptiveChained(t *testing.T) {
	for _, n := range sizes() {
		input := make([]uint64, n)
		kernel.FillInput(input)
		want := referenceScan(input)

		output := make([]uint64, n)
		temp := NewTemp(n, ChainedBlockSize)
		AdaptiveChained(core.NewWorkers(8, nil), input, temp, output)
		assertScanEqual(t, output, want)
	}
}

func TestAdaptiveHalfSizedBlocks(t *testing.T) {
	for _, n := range sizes() {
		input := make([]uint64, n)
		kernel.FillInput(input)
		want := referenceScan(input)

		output := make([]uint64, n)
		temp := NewTemp(n, HalfSizedBlockSize)
		AdaptiveHalfSizedBlocks(core.NewWorkers(8, nil), input, temp, output)
		assertScanEqual(t, output, want)
	}
}

func TestAdaptiveScanThenPropagate(t *testing.T) {
	for _, n := range sizes() {
		input := make([]uint64, n)
		kernel.FillInput(input)
		want := referenceScan(input)

		output := make([]uint64, n)
		AdaptiveScanThenPropagate(core.NewWorkers(8, nil), input, output)
		assertScanEqual(t, output, want)
	}
}

func TestAdaptiveReduceThenScan(t *testing.T) {
	for _, n := range sizes() {
		input := make([]uint64, n)
		kernel.FillInput(input)
		want := referenceScan(input)

		output := make([]uint64, n)
		AdaptiveReduceThenScan(core.NewWorkers(8, nil), input, output)
		assertScanEqual(t, output, want)
	}
}

// TestScanThenPropagateInPlace checks input==output aliasing, the
// in-place mode the CLI driver exposes, still scans correctly.
func TestScanThenPropagateInPlace(t *testing.T) {
	const n = 50000
	values := make([]uint64, n)
	kernel.FillInput(values)
	want := referenceScan(append([]uint64(nil), values...))

	ScanThenPropagate(core.NewWorkers(4, nil), values, values)
	assertScanEqual(t, values, want)
}

func TestSingleThreadAllVariantsAgreeWithSequential(t *testing.T) {
	const n = 12345
	input := make([]uint64, n)
	kernel.FillInput(input)
	want := referenceScan(input)

	run := func(name string, f func(w *core.Workers)) {
		t.Run(name, func(t *testing.T) {
			f(core.NewWorkers(1, nil))
		})
	}

	output := make([]uint64, n)
	run("ScanThenPropagate", func(w *core.Workers) {
		ScanThenPropagate(w, input, output)
		assertScanEqual(t, output, want)
	})
	output2 := make([]uint64, n)
	run("ReduceThenScan", func(w *core.Workers) {
		ReduceThenScan(w, input, output2)
		assertScanEqual(t, output2, want)
	})
	output3 := make([]uint64, n)
	run("Chained", func(w *core.Workers) {
		Chained(w, input, NewTemp(n, ChainedBlockSize), output3)
		assertScanEqual(t, output3, want)
	})
	output4 := make([]uint64, n)
	run("NoLookbackChained", func(w *core.Workers) {
		NoLookbackChained(w, input, NewTemp(n, ChainedBlockSize), output4)
		assertScanEqual(t, output4, want)
	})
	output5 := make([]uint64, n)
	run("HalfSizedBlocks", func(w *core.Workers) {
		HalfSizedBlocks(w, input, NewTemp(n, HalfSizedBlockSize), output5)
		assertScanEqual(t, output5, want)
	})
	output6 := make([]uint64, n)
	run("HalfSizedVariant", func(w *core.Workers) {
		HalfSizedVariant(w, input, NewTemp(n, HalfSizedBlockSize), output6)
		assertScanEqual(t, output6, want)
	})
	output7 := make([]uint64, n)
	run("AdaptiveChained", func(w *core.Workers) {
		AdaptiveChained(w, input, NewTemp(n, ChainedBlockSize), output7)
		assertScanEqual(t, output7, want)
	})
	output8 := make([]uint64, n)
	run("AdaptiveHalfSizedBlocks", func(w *core.Workers) {
		AdaptiveHalfSizedBlocks(w, input, NewTemp(n, HalfSizedBlockSize), output8)
		assertScanEqual(t, output8, want)
	})
	output9 := make([]uint64, n)
	run("AdaptiveScanThenPropagate", func(w *core.Workers) {
		AdaptiveScanThenPropagate(w, input, output9)
		assertScanEqual(t, output9, want)
	})
	output10 := make([]uint64, n)
	run("AdaptiveReduceThenScan", func(w *core.Workers) {
		AdaptiveReduceThenScan(w, input, output10)
		assertScanEqual(t, output10, want)
	})
}
