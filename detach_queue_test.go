// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package scq_test

import (
	"testing"

	"code.ondine.dev/scq"
)

// =============================================================================
// DetachQueue - Basic Operations
// =============================================================================

func TestDetachQueueBasic(t *testing.T) {
	q := scq.NewDetachQueue[int](false)
	c := q.NewConsumer()

	if _, ok := c.Dequeue(); ok {
		t.Fatalf("Dequeue on empty queue: got ok=true, want false")
	}

	for i := range 4 {
		q.Enqueue(i + 100)
	}

	for i := range 4 {
		v, ok := c.Dequeue()
		if !ok {
			t.Fatalf("Dequeue(%d): got ok=false, want true", i)
		}
		if v != i+100 {
			t.Fatalf("Dequeue(%d): got %d, want %d", i, v, i+100)
		}
	}

	if _, ok := c.Dequeue(); ok {
		t.Fatalf("Dequeue after drain: got ok=true, want false")
	}
}

func TestDetachQueuePerProducerFIFO(t *testing.T) {
	q := scq.NewDetachQueue[int](false)
	for i := range 1000 {
		q.Enqueue(i)
	}

	c := q.NewConsumer()
	for i := range 1000 {
		v, ok := c.Dequeue()
		if !ok || v != i {
			t.Fatalf("Dequeue(%d): got (%d, %v), want (%d, true)", i, v, ok, i)
		}
	}
}

func TestDetachQueueEnqueuePanicsWhenPerProducer(t *testing.T) {
	q := scq.NewDetachQueue[int](true)
	defer func() {
		if recover() == nil {
			t.Fatalf("Enqueue on per-producer-sentinel queue: want panic, got none")
		}
	}()
	q.Enqueue(1)
}

func TestDetachQueueNewProducerPanicsWhenShared(t *testing.T) {
	q := scq.NewDetachQueue[int](false)
	defer func() {
		if recover() == nil {
			t.Fatalf("NewProducer on shared-sentinel queue: want panic, got none")
		}
	}()
	q.NewProducer()
}

func TestDetachQueuePerProducerSentinel(t *testing.T) {
	q := scq.NewDetachQueue[int](true)

	p1 := q.NewProducer()
	p2 := q.NewProducer()
	for i := range 500 {
		p1.Enqueue(i)
	}
	for i := range 500 {
		p2.Enqueue(1000 + i)
	}

	c := q.NewConsumer()
	got := make(map[int]int)
	for i := 0; i < 1000; i++ {
		v, ok := c.Dequeue()
		if !ok {
			t.Fatalf("Dequeue(%d): got ok=false, want true", i)
		}
		got[v]++
	}
	for i := range 500 {
		if got[i] != 1 {
			t.Fatalf("value %d: delivered %d times, want 1", i, got[i])
		}
		if got[1000+i] != 1 {
			t.Fatalf("value %d: delivered %d times, want 1", 1000+i, got[1000+i])
		}
	}
}

func TestDetachQueueDestroy(t *testing.T) {
	q := scq.NewDetachQueue[int](false)
	for i := range 10000 {
		q.Enqueue(i)
	}
	q.Destroy()

	c := q.NewConsumer()
	if _, ok := c.Dequeue(); ok {
		t.Fatalf("Dequeue after Destroy: got ok=true, want false")
	}
}

func TestBuildDetachPanicsOnSlab(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("BuildDetach with Slab: want panic, got none")
		}
	}()
	scq.BuildDetach[int](scq.New().Slab(1))
}
