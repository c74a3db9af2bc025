// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package scq

import (
	"sync/atomic"

	"code.hybscloud.com/atomix"
)

// nodeFree, nodeEnqueued and nodeDequeued are the three states an
// llrcuNode's claim field can hold. A plain (non-slab) node
// only ever moves enqueued -> dequeued; a slab-backed node additionally
// cycles dequeued -> free when the owning head version is reclaimed, so
// the arena can carve it again.
const (
	nodeFree uint64 = iota
	nodeEnqueued
	nodeDequeued
)

// llrcuNode is the linked-list element used by the LL-RCU engine.
//
// Once next becomes non-nil it is never reset while the node is
// published; a slab-recycled node has it cleared when it is carved and
// enqueued again. datum is written before the node is published and
// never mutated afterward.
type llrcuNode[T any] struct {
	next     atomic.Pointer[llrcuNode[T]]
	datum    T
	state    atomix.Uint64 // nodeEnqueued <-> nodeDequeued claim, plus nodeFree for slab recycling
	fromPool bool          // true if carved from a slabArena; immutable after alloc, no atomics needed
}

// claim attempts to move the node from enqueued to dequeued. Exactly one
// caller across all racing consumers observes success.
func (n *llrcuNode[T]) claim() bool {
	return n.state.CompareAndSwapAcqRel(nodeEnqueued, nodeDequeued)
}

// pad is cache line padding to prevent false sharing, matching the
// teacher's use of this layout around hot shared fields.
type pad [64]byte

// detachNode is the linked-list element used by the Detach-TLS engine.
// No lifecycle flag: once a node is detached from the shared list it is
// owned exclusively by the stealing consumer, so there is nothing to CAS.
type detachNode[T any] struct {
	next  atomic.Pointer[detachNode[T]]
	datum T
}
