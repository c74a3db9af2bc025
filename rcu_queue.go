// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package scq

import (
	"sync/atomic"

	"code.hybscloud.com/spin"

	"code.ondine.dev/scq/internal/gate"
)

// RCUQueue is the LL-RCU engine: an unbounded, wait-free-enqueue
// MPMC FIFO whose dequeue side walks a reference-counted chain of head
// versions instead of mutating a shared head pointer directly.
//
// Strict FIFO across producers is not guaranteed: two concurrent Enqueue
// calls may observe each other's nodes linked in either order relative to
// the moment each call returns.
type RCUQueue[T any] struct {
	tail atomic.Pointer[llrcuNode[T]]
	_    pad // separates the producer-hot tail from the gate below

	gate *gate.Gate[headVersion[T]]

	defaultSlabPages int // used by CreateTLSNodePool(0); set by BuildRCU
}

// NewRCUQueue creates an empty LL-RCU queue. Enqueue allocates each node
// from the Go heap; call CreateTLSNodePool for a per-thread producer that
// instead carves nodes from a recycling slab.
func NewRCUQueue[T any]() *RCUQueue[T] {
	q := &RCUQueue[T]{}
	q.gate = newHeadGate[T](q.freeRange)
	return q
}

// Enqueue appends v. It never blocks and never fails.
func (q *RCUQueue[T]) Enqueue(v T) {
	n := &llrcuNode[T]{datum: v}
	n.state.StoreRelaxed(nodeEnqueued)
	q.publish(n)
}

// publish links n as the new tail, or installs it as the queue's first
// head version if the queue was empty.
func (q *RCUQueue[T]) publish(n *llrcuNode[T]) {
	prev := q.tail.Swap(n)
	if prev == nil {
		// First publisher: there is no predecessor to link from, and no
		// head version exists yet. Install n as both the shared list's
		// origin and the chain's first head version.
		q.gate.Exchange(q.gate.Make(&headVersion[T]{head: n}))
		return
	}
	prev.next.Store(n)
}

// Dequeue removes and returns the oldest claimable element. ok is false if
// the queue was empty at some point during the call.
func (q *RCUQueue[T]) Dequeue() (v T, ok bool) {
	var zero T
outer:
	for {
		ver := q.gate.Acquire()
		if ver == nil {
			return zero, false
		}

		cur := ver.head
		var w spin.Wait
		for {
			if cur.claim() {
				v = cur.datum
				if next := cur.next.Load(); next != nil {
					adjustHead(q.gate, ver, next, cur)
				}
				q.gate.Release(ver)
				return v, true
			}

			if tail := ver.tail.Load(); tail != nil && cur == tail {
				// Exhausted this version's range without claiming
				// anything: every node in it was already dequeued.
				// Re-acquire, which observes whatever version replaced it.
				q.gate.Release(ver)
				continue outer
			}

			next := cur.next.Load()
			if next != nil {
				cur = next
				continue
			}

			if ver.tail.Load() == nil && q.tail.Load() == cur {
				// cur is genuinely the newest node and this version is
				// still current: nothing more has been produced yet.
				q.gate.Release(ver)
				return zero, false
			}

			// A producer has swung q.tail past cur but has not yet
			// stored cur.next. Bounded-spin through the gap.
			w.Once()
		}
	}
}

// DequeueErr is Dequeue reported through iox-style error handling instead
// of a bool, for callers already structured around a backoff loop on
// ErrEmpty.
func (q *RCUQueue[T]) DequeueErr() (T, error) {
	v, ok := q.Dequeue()
	if !ok {
		return v, ErrEmpty
	}
	return v, nil
}

// Destroy drains and reclaims the queue. The caller must ensure
// no producer or consumer is still active; calling Enqueue or Dequeue after
// Destroy is a contract violation with undefined behavior.
func (q *RCUQueue[T]) Destroy() error {
	for {
		if _, ok := q.Dequeue(); !ok {
			break
		}
	}
	return nil
}

// freeRange is the reclaimer's node-disposal callback, invoked once
// per head version after it is no longer reachable by any reader. It walks
// [head, tail] inclusive and returns each node to its slab arena, or drops
// it for the garbage collector when it was never slab-carved.
func (q *RCUQueue[T]) freeRange(head, tail *llrcuNode[T]) {
	for n := head; ; {
		next := n.next.Load()
		freeNode(n)
		if n == tail || next == nil {
			return
		}
		n = next
	}
}
