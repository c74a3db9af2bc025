// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package scq provides unbounded, lock-free MPMC FIFO queues built on a
// single shared-tail linked list, with two interchangeable dequeue engines.
//
//   - RCUQueue: lock-free traversal over the shared list, protected by a
//     versioned, grace-period-managed head gate. Good default: bounded
//     memory growth without per-consumer bookkeeping.
//   - DetachQueue: wait-free per-consumer pop from a private list,
//     replenished by atomically detaching a prefix of the shared list.
//     Good when consumers can tolerate no cross-consumer FIFO ordering in
//     exchange for never retrying.
//
// Neither engine bounds capacity or guarantees ordering across producers or
// across consumers; see each type's doc comment for the guarantees it does
// make.
//
// # Quick Start
//
//	q := scq.NewRCUQueue[Event]()
//	q.Enqueue(ev)
//	ev, ok := q.Dequeue()
//
//	d := scq.NewDetachQueue[Task](false)
//	d.Enqueue(task)
//	c := d.NewConsumer()
//	task, ok := c.Dequeue()
//
// Builder API for slab and topology options:
//
//	q := scq.BuildRCU[Event](scq.New().Slab(64))
//	d := scq.BuildDetach[Task](scq.New().PerProducerSentinel())
//
// # Choosing an Engine
//
// RCUQueue:
//
//	Every consumer sees the same shared list, walked in publication order.
//	Dequeue is lock-free, not wait-free; a consumer whose candidate nodes
//	were all already claimed by others retries against a newer head
//	version rather than blocking.
//
// DetachQueue:
//
//	Each consumer owns a private batch, detached from the shared list in
//	one pair of atomic exchanges. Dequeue is wait-free on the fast path.
//	No ordering guarantee holds across consumers: each sees only the
//	values in its own detached batches, in order.
//
// # Producers
//
// RCUQueue has a single Enqueue method; all producers share one tail.
//
// DetachQueue supports two producer topologies:
//
//	q := scq.NewDetachQueue[T](false)  // single shared sentinel
//	q.Enqueue(v)
//
//	q := scq.NewDetachQueue[T](true)   // per-producer private sentinel
//	p := q.NewProducer()
//	p.Enqueue(v)
//
// The per-producer topology removes contention on a single shared tail at
// the cost of round-robin stealing across producers in Consumer.Dequeue.
// Calling Enqueue directly on a per-producer-sentinel queue panics, and
// calling NewProducer on a shared-sentinel queue panics.
//
// # Consumers
//
// RCUQueue.Dequeue needs no handle; any goroutine may call it directly.
//
// DetachQueue requires a per-goroutine Consumer handle, since a detached
// batch is private state:
//
//	c := q.NewConsumer()
//	for {
//	    v, ok := c.Dequeue()
//	    ...
//	}
//
// A Consumer must not be shared across goroutines.
//
// # Slab Allocator
//
// RCUQueue nodes can be carved from a per-thread pool instead of the Go
// heap, one pool per producer goroutine:
//
//	q := scq.BuildRCU[Event](scq.New().Slab(64))
//	p := q.CreateTLSNodePool(0) // 0: use the builder's default page budget
//	p.Enqueue(ev)
//	p.DestroyTLSNodePool()
//
// A pool recycles node memory once a whole page has cycled back to free,
// falling back to plain heap allocation once its page budget is
// exhausted. Each pool is owned by exactly one goroutine; sharing one
// across producers reintroduces the carve-side race the pool exists to
// avoid. DetachQueue has no slab variant: ownership transfers with the
// detach rather than cycling a free/reuse flag, so there is nothing to
// recycle.
//
// # Error Handling
//
// Dequeue reports emptiness through its boolean return, not an error.
// DequeueErr on RCUQueue and Consumer reports the same condition as
// [ErrEmpty] for callers structured around iox-style backoff loops.
//
// Calling Enqueue or Dequeue after Destroy, or any other violation of the
// quiescence contract around Destroy, is undefined behavior and may panic.
//
// # Destruction
//
//	q.Destroy()  // or d.Destroy() for a DetachQueue
//
// Destroy requires that no producer or consumer is still active. It drains
// the queue. Any TLS node pool must be retired with DestroyTLSNodePool
// before or after, independently of the queue's own Destroy.
//
// # Race Detection
//
// Go's race detector is not designed for lock-free algorithm verification.
// It tracks explicit synchronization primitives (mutex, channels,
// WaitGroup) but cannot observe happens-before relationships established
// purely through acquire-release atomics on separate variables. The head
// gate and both dequeue engines rely on exactly that, so stress tests that
// exercise them skip themselves when [RaceEnabled] is true.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/iox] for semantic errors,
// [code.hybscloud.com/atomix] for atomic primitives with explicit memory
// ordering, and [code.hybscloud.com/spin] for the bounded spin-wait over
// the transient enqueue window.
package scq
