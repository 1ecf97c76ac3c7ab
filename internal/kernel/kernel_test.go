package kernel

import "testing"

func TestScanSequential(t *testing.T) {
	input := []uint64{1, 2, 3, 4}
	output := make([]uint64, 4)
	got := ScanSequential(input, 0, output)
	want := []uint64{1, 3, 6, 10}
	for i := range want {
		if output[i] != want[i] {
			t.Fatalf("output[%d] = %d, want %d", i, output[i], want[i])
		}
	}
	if got != 10 {
		t.Fatalf("final accumulator = %d, want 10", got)
	}
}

func TestScanSequentialInPlace(t *testing.T) {
	values := []uint64{5, 1, 1, 1}
	ScanSequential(values, 0, values)
	want := []uint64{5, 6, 7, 8}
	for i := range want {
		if values[i] != want[i] {
			t.Fatalf("values[%d] = %d, want %d", i, values[i], want[i])
		}
	}
}

func TestFoldSequential(t *testing.T) {
	if got := FoldSequential([]uint64{1, 2, 3, 4}); got != 10 {
		t.Fatalf("FoldSequential = %d, want 10", got)
	}
}

func TestHashPredicateDeterministic(t *testing.T) {
	pred := HashPredicate(4)
	var first []bool
	for i := uint64(0); i < 1000; i++ {
		first = append(first, pred(i))
	}
	pred2 := HashPredicate(4)
	for i := uint64(0); i < 1000; i++ {
		if pred2(i) != first[i] {
			t.Fatalf("predicate not deterministic at %d", i)
		}
	}
}

func TestCountAndCompactSequentialAgree(t *testing.T) {
	input := make([]uint64, 10000)
	FillInput(input)
	pred := HashPredicate(8)

	count := CountSequential(input, pred)
	output := make([]uint64, count)
	written := CompactSequential(input, pred, output, 0)
	if written != count {
		t.Fatalf("CompactSequential wrote %d, want %d", written, count)
	}
	for _, v := range output {
		if !pred(v) {
			t.Fatalf("compacted value %d does not satisfy predicate", v)
		}
	}
}

func TestScanIndicesSequentialMatchesCompact(t *testing.T) {
	input := []uint64{10, 11, 12, 13, 14, 15}
	pred := func(v uint64) bool { return v%2 == 0 }

	cumulative := make([]uint64, len(input))
	finalCount := ScanIndicesSequential(input, pred, cumulative)

	count := CountSequential(input, pred)
	if finalCount != count {
		t.Fatalf("ScanIndicesSequential final count = %d, want %d", finalCount, count)
	}

	compacted := make([]uint64, count)
	CompactSequential(input, pred, compacted, 0)

	// cumulative[i] is the 1-based destination slot of input[i] when it
	// matches; translating that back to 0-based should reproduce the
	// same value CompactSequential placed there.
	for i, v := range input {
		if !pred(v) {
			continue
		}
		destination := cumulative[i] - 1
		if compacted[destination] != v {
			t.Fatalf("input[%d]=%d expected at compacted[%d]=%d", i, v, destination, compacted[destination])
		}
	}
}

func TestFillInputDeterministic(t *testing.T) {
	a := make([]uint64, 100)
	b := make([]uint64, 100)
	FillInput(a)
	FillInput(b)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("FillInput not deterministic at %d", i)
		}
	}
}

func TestRange(t *testing.T) {
	r := Range(5)
	if len(r) != 5 {
		t.Fatalf("len(Range(5)) = %d, want 5", len(r))
	}
	for i, v := range r {
		if v != i {
			t.Fatalf("Range(5)[%d] = %d, want %d", i, v, i)
		}
	}
}
