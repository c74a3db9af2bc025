// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package scq

import (
	"sync"
	"sync/atomic"

	"code.hybscloud.com/spin"
)

// producerSentinel anchors one shared-list tail and its permanent dummy
// node. The Detach-TLS engine runs one of these for the
// whole queue in its default topology, or one per producer in the
// per-producer-sentinel sub-variant.
type producerSentinel[T any] struct {
	sentinel detachNode[T]
	_        pad // separates the sentinel from the hot tail pointer below
	tail     atomic.Pointer[detachNode[T]]
}

func newProducerSentinel[T any]() *producerSentinel[T] {
	p := &producerSentinel[T]{}
	p.tail.Store(&p.sentinel)
	return p
}

func (p *producerSentinel[T]) enqueue(n *detachNode[T]) {
	prev := p.tail.Swap(n)
	prev.next.Store(n)
}

// steal implements the paired-exchange detach: first empties
// the sentinel's visible chain, then re-anchors the tail at the sentinel so
// the next producer starts a fresh chain. Returns (nil, nil) if nothing was
// available to steal.
func (p *producerSentinel[T]) steal() (first, last *detachNode[T]) {
	var w spin.Wait
	for {
		first = p.sentinel.next.Swap(nil)
		if first != nil {
			break
		}
		if p.tail.Load() == &p.sentinel {
			return nil, nil
		}
		// A producer has swapped the tail away from the sentinel but has
		// not yet stored sentinel.next; the link is inbound.
		w.Once()
	}
	last = p.tail.Swap(&p.sentinel)
	return first, last
}

// DetachQueue is the Detach-TLS engine: an unbounded
// MPMC FIFO whose dequeue side is wait-free on the fast path, replenished by
// atomically stealing a prefix of the shared list into a private list.
//
// No FIFO guarantee holds across consumers; each consumer observes its own
// detached batches in order.
type DetachQueue[T any] struct {
	perProducer bool
	shared      *producerSentinel[T]

	mu        sync.Mutex
	producers []*producerSentinel[T]
}

// NewDetachQueue creates an empty Detach-TLS queue. perProducer selects the
// per-producer-private-sentinel sub-variant: producers must then use
// NewProducer rather than Enqueue.
//
// Unlike RCUQueue, DetachQueue never sources nodes from a slab arena:
// a node's ownership transfers with the detach rather than
// cycling through a free/reuse flag, so there is nothing for a slab to
// recycle here.
func NewDetachQueue[T any](perProducer bool) *DetachQueue[T] {
	q := &DetachQueue[T]{perProducer: perProducer}
	if !perProducer {
		q.shared = newProducerSentinel[T]()
	}
	return q
}

// Enqueue appends v to the queue's single shared sentinel. It panics if the
// queue was built with perProducer; use NewProducer instead.
func (q *DetachQueue[T]) Enqueue(v T) {
	if q.perProducer {
		panic("scq: Enqueue requires NewProducer on a per-producer-sentinel DetachQueue")
	}
	n := &detachNode[T]{datum: v}
	q.shared.enqueue(n)
}

// Producer is a per-thread enqueue handle for the per-producer-sentinel
// sub-variant. Each Producer owns its own
// (sentinel, tail) pair, removing contention on a single shared tail.
type Producer[T any] struct {
	q  *DetachQueue[T]
	st *producerSentinel[T]
}

// NewProducer registers a new producer handle. Panics if the queue was not
// built with perProducer.
func (q *DetachQueue[T]) NewProducer() *Producer[T] {
	if !q.perProducer {
		panic("scq: NewProducer requires a per-producer-sentinel DetachQueue")
	}
	st := newProducerSentinel[T]()
	q.mu.Lock()
	q.producers = append(q.producers, st)
	q.mu.Unlock()
	return &Producer[T]{q: q, st: st}
}

// Enqueue appends v through this producer's own sentinel.
func (p *Producer[T]) Enqueue(v T) {
	n := &detachNode[T]{datum: v}
	p.st.enqueue(n)
}

// Consumer is a per-thread dequeue handle holding a private detached batch.
// A Consumer must not be used from more than one goroutine at
// a time.
type Consumer[T any] struct {
	q         *DetachQueue[T]
	batchHead *detachNode[T]
	batchLast *detachNode[T]
	cursor    int
}

// NewConsumer registers a new consumer handle.
func (q *DetachQueue[T]) NewConsumer() *Consumer[T] {
	return &Consumer[T]{q: q}
}

// Dequeue pops the next value from this consumer's private batch, stealing
// a fresh batch from the shared list (or, in the per-producer-sentinel
// topology, round-robin across producers) when the private batch is empty.
func (c *Consumer[T]) Dequeue() (v T, ok bool) {
	var zero T
	if c.batchHead == nil && !c.refill() {
		return zero, false
	}

	n := c.batchHead
	v = n.datum
	if n == c.batchLast {
		c.batchHead, c.batchLast = nil, nil
	} else {
		var w spin.Wait
		for n.next.Load() == nil {
			// n is not the batch's last node, so its link is inbound;
			// a producer has swapped the tail past n but not yet stored n.next.
			w.Once()
		}
		c.batchHead = n.next.Load()
	}
	return v, true
}

// DequeueErr is Dequeue reported through iox-style error handling instead
// of a bool, for callers already structured around a backoff loop on
// ErrEmpty.
func (c *Consumer[T]) DequeueErr() (T, error) {
	v, ok := c.Dequeue()
	if !ok {
		return v, ErrEmpty
	}
	return v, nil
}

// Destroy drains the queue. The caller must ensure no producer
// or consumer is still active; enqueueing or dequeuing after Destroy is a
// contract violation with undefined behavior.
func (q *DetachQueue[T]) Destroy() {
	drain := q.NewConsumer()
	for {
		if _, ok := drain.Dequeue(); !ok {
			return
		}
	}
}

func (c *Consumer[T]) refill() bool {
	q := c.q
	if !q.perProducer {
		first, last := q.shared.steal()
		if first == nil {
			return false
		}
		c.batchHead, c.batchLast = first, last
		return true
	}

	q.mu.Lock()
	producers := q.producers
	q.mu.Unlock()
	if len(producers) == 0 {
		return false
	}

	start := c.cursor % len(producers)
	for i := 0; i < len(producers); i++ {
		idx := (start + i) % len(producers)
		first, last := producers[idx].steal()
		if first != nil {
			c.batchHead, c.batchLast = first, last
			c.cursor = idx + 1
			return true
		}
	}
	return false
}
