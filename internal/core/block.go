// Package core provides the work-assisting task runtime: a pinned worker
// pool, one-sided and two-sided claim disciplines, and the per-block
// atomic state cell the scan/compact algorithms chain look-back through.
package core

import "sync/atomic"

// BlockState is the monotonic state of a BlockInfo cell. A block only
// ever moves forward: Initialized -> AggregateAvailable -> PrefixAvailable.
type BlockState uint64

const (
	StateInitialized BlockState = iota
	StateAggregateAvailable
	StatePrefixAvailable
)

// BlockInfo is the per-block handshake cell used by the chained scan and
// compact families to publish a block's local aggregate (reduce-only) or
// its final prefix (aggregate plus every earlier block's contribution).
//
// aggregate and prefix are published with a Store that happens-before the
// Store to state that announces them; readers must load state first and
// only trust aggregate/prefix once state reports the matching stage.
// Go's sync/atomic has no separate acquire/release mode — every load and
// store here is sequentially consistent, which is strictly stronger than
// the acquire/release ordering this handshake requires.
type BlockInfo struct {
	state     atomic.Uint64
	aggregate atomic.Uint64
	prefix    atomic.Uint64
}

// Reset returns every cell in temp to StateInitialized with zeroed
// aggregate/prefix, for reuse across benchmark iterations.
func Reset(temp []BlockInfo) {
	for i := range temp {
		temp[i].aggregate.Store(0)
		temp[i].prefix.Store(0)
		temp[i].state.Store(uint64(StateInitialized))
	}
}

// State loads the current stage of the block.
func (b *BlockInfo) State() BlockState {
	return BlockState(b.state.Load())
}

// PublishAggregate stores the block's local (reduce-only) aggregate and
// then advances the block to StateAggregateAvailable.
func (b *BlockInfo) PublishAggregate(value uint64) {
	b.aggregate.Store(value)
	b.state.Store(uint64(StateAggregateAvailable))
}

// PublishPrefix stores the block's final inclusive prefix and then
// advances the block to StatePrefixAvailable.
func (b *BlockInfo) PublishPrefix(value uint64) {
	b.prefix.Store(value)
	b.state.Store(uint64(StatePrefixAvailable))
}

// Aggregate loads the local aggregate. Only meaningful once State has
// reported at least StateAggregateAvailable.
func (b *BlockInfo) Aggregate() uint64 {
	return b.aggregate.Load()
}

// Prefix loads the final inclusive prefix. Only meaningful once State has
// reported StatePrefixAvailable.
func (b *BlockInfo) Prefix() uint64 {
	return b.prefix.Load()
}

// LookBack walks backwards from block index `before`, accumulating local
// aggregates until it finds a block whose prefix is already available,
// and returns the sum of everything strictly before `before`. It spins on
// blocks that are still StateInitialized; this is the decoupled look-back
// every chained algorithm performs when it cannot use a cheaper
// already-available predecessor prefix directly.
func LookBack(temp []BlockInfo, before uint32) uint64 {
	var aggregate uint64
	previous := before - 1
	for {
		switch temp[previous].State() {
		case StatePrefixAvailable:
			return aggregate + temp[previous].Prefix()
		case StateAggregateAvailable:
			aggregate += temp[previous].Aggregate()
			previous--
		default:
			// Spin until the predecessor's state advances.
		}
	}
}
