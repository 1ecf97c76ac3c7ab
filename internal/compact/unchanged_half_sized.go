package compact

import (
	"github.com/ajroetker/parascan/internal/core"
	"github.com/ajroetker/parascan/internal/kernel"
)

// UnchangedHalfSized is Chained run at HalfSizedBlockSize instead of
// ChainedBlockSize: the same unmodified decoupled look-back algorithm,
// used as the baseline the deferred-flush HalfSizedBlocks/HalfSizedVariant
// optimizations are measured against at matching block granularity.
func UnchangedHalfSized(w *core.Workers, input []uint64, temp []core.BlockInfo, output []uint64, pred kernel.Predicate) uint64 {
	return runChained(w, input, temp, output, pred, HalfSizedBlockSize)
}
