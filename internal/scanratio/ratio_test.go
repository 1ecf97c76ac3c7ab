package scanratio

import "testing"

func TestMeasureReturnsFractionInRange(t *testing.T) {
	for _, variant := range []Variant{ScanThenPropagate, ReduceThenScan} {
		ratio := Measure(variant, 200000, 4)
		if ratio < 0 || ratio > 1 {
			t.Fatalf("ratio out of range: %f", ratio)
		}
	}
}

func TestMeasureSingleThreadIsFullySequential(t *testing.T) {
	ratio := Measure(ScanThenPropagate, 50000, 1)
	if ratio != 1 {
		t.Fatalf("single-threaded ratio = %f, want 1", ratio)
	}
}

func TestTheoretical(t *testing.T) {
	if got := Theoretical(4); got != 0.25 {
		t.Fatalf("Theoretical(4) = %f, want 0.25", got)
	}
}

func TestAverage(t *testing.T) {
	avg := Average(ReduceThenScan, 50000, 2, 5)
	if avg < 0 || avg > 1 {
		t.Fatalf("average ratio out of range: %f", avg)
	}
}
