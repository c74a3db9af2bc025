// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package scq

import (
	"sync/atomic"

	"code.ondine.dev/scq/internal/gate"
)

// headVersion describes a contiguous, reclamation-unit range of live
// nodes [head, tail]. tail is nil while the version is
// current; it is set exactly once, by adjustHead, when a successor
// version replaces this one.
//
// prev is a non-owning back-reference used only by the reclaimer 
// to decide which version is allowed to free its node range. See
// DESIGN.md (C3/C4) for why it is one atomic.Pointer field carrying a
// reserved sentinel rather than a tagged pointer or a split bool.
type headVersion[T any] struct {
	gateRef gate.Ref
	head    *llrcuNode[T]
	tail    atomic.Pointer[llrcuNode[T]]
	prev    atomic.Pointer[headVersion[T]]
	next    atomic.Pointer[headVersion[T]]
}

func (v *headVersion[T]) ref() *gate.Ref { return &v.gateRef }

// newHeadGate constructs the versioned-snapshot gate for an
// RCUQueue[T], wiring the reclaimer as its free callback.
//
// released is a reserved sentinel installed into a headVersion's prev
// field to mean "this version's own release path has already run and
// found nothing to free yet". It is never a real version and is only
// ever compared by identity, never dereferenced. Go generics give every
// instantiation of headVersion[T] a distinct type, so the sentinel is
// allocated once per queue instance here rather than as a package-level
// var shared across instantiations.
func newHeadGate[T any](freeNodes func(head, tail *llrcuNode[T])) *gate.Gate[headVersion[T]] {
	released := &headVersion[T]{}
	return gate.New[headVersion[T]](
		(*headVersion[T]).ref,
		func(v *headVersion[T]) { reclaim(v, released, freeNodes) },
	)
}

// adjustHead publishes a new head version starting at newHead, best effort.
// A losing CAS is silently acceptable: some other consumer already
// advanced the head.
func adjustHead[T any](g *gate.Gate[headVersion[T]], prevVersion *headVersion[T], newHead *llrcuNode[T], tailOfPrev *llrcuNode[T]) {
	next := &headVersion[T]{head: newHead}
	next.prev.Store(prevVersion)
	g.Make(next)

	if !g.CompareAndExchange(prevVersion, next) {
		return
	}

	// Publication succeeded: prevVersion is now closed. Link the chain
	// and set prevVersion.tail last, so a reader still on prevVersion only
	// observes "this version is stale" once the successor is reachable.
	prevVersion.next.Store(next)
	prevVersion.tail.Store(tailOfPrev)
}

// reclaim frees a head version's node range exactly
// once, by exactly one thread, cascading outward through the chain when
// a predecessor's release finds this version already waiting.
//
// freeNodes is supplied by the owning RCUQueue so the reclaimer can
// return slab-backed nodes to their arena instead of just dropping them
// for the GC to collect.
func reclaim[T any](v, released *headVersion[T], freeNodes func(head, tail *llrcuNode[T])) {
	for {
		old := v.prev.Swap(released)
		if old != nil && old != released {
			// v is not the oldest: an older version is still alive and
			// will free v when its own cascade reaches here.
			return
		}

		freeNodes(v.head, v.tail.Load())

		next := v.next.Load()
		if next == nil {
			// v was also the newest: nothing left to cascade into.
			return
		}
		if next.prev.CompareAndSwap(v, nil) {
			// next's own release hasn't run yet; it will find prev==nil
			// and free itself when it does.
			return
		}
		// next's own release already ran and deferred (found v still
		// alive at the time); take over freeing it.
		v = next
	}
}
