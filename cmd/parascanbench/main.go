// Command parascanbench is a thin correctness-checked driver over the
// scan and compact algorithm families: it runs one algorithm once
// against a seeded input, verifies the result against the sequential
// reference kernel, and prints a short summary. It is not the full
// timing/warmup/tabulation benchmark harness the original Rust program
// implements.
package main

import (
	"fmt"
	"os"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/ajroetker/parascan/internal/compact"
	"github.com/ajroetker/parascan/internal/core"
	"github.com/ajroetker/parascan/internal/kernel"
	"github.com/ajroetker/parascan/internal/scan"
	"github.com/ajroetker/parascan/internal/scanratio"
)

func main() {
	if err := rootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "parascanbench",
		Short: "Run and verify parallel prefix-sum and stream-compaction algorithms",
	}
	root.AddCommand(scanCommand(), compactCommand(), ratioCommand())
	return root
}

var scanAlgorithms = map[string]func(w *core.Workers, input, output []uint64){
	"scan-then-propagate": scan.ScanThenPropagate,
	"reduce-then-scan":    scan.ReduceThenScan,
	"chained": func(w *core.Workers, input, output []uint64) {
		scan.Chained(w, input, scan.NewTemp(len(input), scan.ChainedBlockSize), output)
	},
	"no-lookback-chained": func(w *core.Workers, input, output []uint64) {
		scan.NoLookbackChained(w, input, scan.NewTemp(len(input), scan.ChainedBlockSize), output)
	},
	"half-sized-blocks": func(w *core.Workers, input, output []uint64) {
		scan.HalfSizedBlocks(w, input, scan.NewTemp(len(input), scan.HalfSizedBlockSize), output)
	},
	"half-sized-variant": func(w *core.Workers, input, output []uint64) {
		scan.HalfSizedVariant(w, input, scan.NewTemp(len(input), scan.HalfSizedBlockSize), output)
	},
	"adaptive-chained": func(w *core.Workers, input, output []uint64) {
		scan.AdaptiveChained(w, input, scan.NewTemp(len(input), scan.ChainedBlockSize), output)
	},
	"adaptive-half-sized-blocks": func(w *core.Workers, input, output []uint64) {
		scan.AdaptiveHalfSizedBlocks(w, input, scan.NewTemp(len(input), scan.HalfSizedBlockSize), output)
	},
	"adaptive-scan-then-propagate": func(w *core.Workers, input, output []uint64) {
		scan.AdaptiveScanThenPropagate(w, input, output)
	},
	"adaptive-reduce-then-scan": func(w *core.Workers, input, output []uint64) {
		scan.AdaptiveReduceThenScan(w, input, output)
	},
}

func scanCommand() *cobra.Command {
	var size, threads int
	var algorithm string
	var inplace bool

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Run one inclusive prefix-sum algorithm and verify it against the sequential reference",
		RunE: func(cmd *cobra.Command, args []string) error {
			run, ok := scanAlgorithms[algorithm]
			if !ok {
				return fmt.Errorf("unknown scan algorithm %q; available: %v", algorithm, scanAlgorithmNames())
			}

			input := make([]uint64, size)
			kernel.FillInput(input)
			want := make([]uint64, size)
			kernel.ScanSequential(input, 0, want)

			output := input
			if !inplace {
				output = make([]uint64, size)
			}

			run(core.NewWorkers(threads, nil), input, output)

			if err := compareScan(output, want); err != nil {
				return err
			}
			fmt.Printf("scan: algorithm=%s size=%d threads=%d inplace=%v OK\n", algorithm, size, threads, inplace)
			return nil
		},
	}

	cmd.Flags().IntVar(&size, "size", 1<<20, "number of elements")
	cmd.Flags().IntVar(&threads, "threads", 4, "worker goroutine count")
	cmd.Flags().StringVar(&algorithm, "algorithm", "chained", fmt.Sprintf("algorithm to run (%v)", scanAlgorithmNames()))
	cmd.Flags().BoolVar(&inplace, "inplace", false, "scan input in place instead of into a separate output array")
	return cmd
}

func scanAlgorithmNames() []string {
	names := make([]string, 0, len(scanAlgorithms))
	for name := range scanAlgorithms {
		names = append(names, name)
	}
	return lo.Uniq(names)
}

func compareScan(got, want []uint64) error {
	for i := range want {
		if got[i] != want[i] {
			return fmt.Errorf("mismatch at index %d: got %d want %d", i, got[i], want[i])
		}
	}
	return nil
}

var compactAlgorithms = map[string]func(w *core.Workers, input, output []uint64, pred kernel.Predicate) uint64{
	"chained": func(w *core.Workers, input, output []uint64, pred kernel.Predicate) uint64 {
		return compact.Chained(w, input, compact.NewTemp(len(input), compact.ChainedBlockSize), output, pred)
	},
	"unchanged-half-sized": func(w *core.Workers, input, output []uint64, pred kernel.Predicate) uint64 {
		return compact.UnchangedHalfSized(w, input, compact.NewTemp(len(input), compact.HalfSizedBlockSize), output, pred)
	},
	"no-lookback-chained": func(w *core.Workers, input, output []uint64, pred kernel.Predicate) uint64 {
		return compact.NoLookbackChained(w, input, compact.NewTemp(len(input), compact.ChainedBlockSize), output, pred)
	},
	"half-sized-blocks": func(w *core.Workers, input, output []uint64, pred kernel.Predicate) uint64 {
		return compact.HalfSizedBlocks(w, input, compact.NewTemp(len(input), compact.HalfSizedBlockSize), output, pred)
	},
	"half-sized-variant": func(w *core.Workers, input, output []uint64, pred kernel.Predicate) uint64 {
		return compact.HalfSizedVariant(w, input, compact.NewTemp(len(input), compact.HalfSizedBlockSize), output, pred)
	},
	"adaptive-chained": func(w *core.Workers, input, output []uint64, pred kernel.Predicate) uint64 {
		return compact.AdaptiveChained(w, input, compact.NewTemp(len(input), compact.ChainedBlockSize), output, pred)
	},
	"adaptive-half-sized-blocks": func(w *core.Workers, input, output []uint64, pred kernel.Predicate) uint64 {
		return compact.AdaptiveHalfSizedBlocks(w, input, compact.NewTemp(len(input), compact.HalfSizedBlockSize), output, pred)
	},
	"adaptive-scan-then-propagate": compact.AdaptiveScanThenPropagate,
	"adaptive-reduce-then-scan":    compact.AdaptiveReduceThenScan,
}

func compactCommand() *cobra.Command {
	var size, threads int
	var algorithm string
	var ratio uint64

	cmd := &cobra.Command{
		Use:   "compact",
		Short: "Run one stream-compaction algorithm and verify it against the sequential reference",
		RunE: func(cmd *cobra.Command, args []string) error {
			run, ok := compactAlgorithms[algorithm]
			if !ok {
				return fmt.Errorf("unknown compact algorithm %q; available: %v", algorithm, compactAlgorithmNames())
			}
			if ratio == 0 || ratio&(ratio-1) != 0 {
				return fmt.Errorf("--ratio must be a power of two, got %d", ratio)
			}

			input := make([]uint64, size)
			kernel.FillInput(input)
			pred := kernel.HashPredicate(ratio)

			wantCount := kernel.CountSequential(input, pred)
			want := make([]uint64, wantCount)
			kernel.CompactSequential(input, pred, want, 0)

			output := make([]uint64, size)
			count := run(core.NewWorkers(threads, nil), input, output, pred)

			if err := compareCompact(output, count, want, wantCount); err != nil {
				return err
			}
			fmt.Printf("compact: algorithm=%s size=%d threads=%d ratio=1/%d kept=%d OK\n", algorithm, size, threads, ratio, count)
			return nil
		},
	}

	cmd.Flags().IntVar(&size, "size", 1<<20, "number of elements")
	cmd.Flags().IntVar(&threads, "threads", 4, "worker goroutine count")
	cmd.Flags().StringVar(&algorithm, "algorithm", "chained", fmt.Sprintf("algorithm to run (%v)", compactAlgorithmNames()))
	cmd.Flags().Uint64Var(&ratio, "ratio", 4, "keep roughly 1/ratio of elements; must be a power of two")
	return cmd
}

func compactAlgorithmNames() []string {
	names := make([]string, 0, len(compactAlgorithms))
	for name := range compactAlgorithms {
		names = append(names, name)
	}
	return lo.Uniq(names)
}

func compareCompact(got []uint64, count uint64, want []uint64, wantCount uint64) error {
	if count != wantCount {
		return fmt.Errorf("output count = %d, want %d", count, wantCount)
	}
	for i := uint64(0); i < count; i++ {
		if got[i] != want[i] {
			return fmt.Errorf("mismatch at index %d: got %d want %d", i, got[i], want[i])
		}
	}
	return nil
}

func ratioCommand() *cobra.Command {
	var size, samples int
	var variantName string

	cmd := &cobra.Command{
		Use:   "ratio",
		Short: "Measure the sequential/parallel split of the adaptive two-sided scan variants across thread counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			variant, ok := map[string]scanratio.Variant{
				"scan-then-propagate": scanratio.ScanThenPropagate,
				"reduce-then-scan":    scanratio.ReduceThenScan,
			}[variantName]
			if !ok {
				return fmt.Errorf("unknown variant %q; available: scan-then-propagate, reduce-then-scan", variantName)
			}

			fmt.Printf("Theoretical:\n")
			threadCounts := []int{1, 2, 3, 4, 6, 8, 10, 12, 14, 16}
			rows := lo.Map(threadCounts, func(threadCount int, _ int) string {
				return fmt.Sprintf("  %02d threads %3.0f%%", threadCount, scanratio.Theoretical(threadCount)*100)
			})
			for _, row := range rows {
				fmt.Println(row)
			}

			fmt.Printf("%s:\n", variantName)
			for _, threadCount := range threadCounts {
				ratio := scanratio.Average(variant, size, threadCount, samples)
				fmt.Printf("  %02d threads %3.0f%%\n", threadCount, ratio*100)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&size, "size", 1<<20, "number of elements")
	cmd.Flags().IntVar(&samples, "samples", 10, "number of runs to average per thread count")
	cmd.Flags().StringVar(&variantName, "variant", "scan-then-propagate", "scan-then-propagate or reduce-then-scan")
	return cmd
}
