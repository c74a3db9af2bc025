// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package scq_test

import (
	"testing"

	"code.ondine.dev/scq"
)

// =============================================================================
// RCUQueue - Basic Operations
// =============================================================================

func TestRCUQueueBasic(t *testing.T) {
	q := scq.NewRCUQueue[int]()

	if _, ok := q.Dequeue(); ok {
		t.Fatalf("Dequeue on empty queue: got ok=true, want false")
	}

	for i := range 4 {
		q.Enqueue(i + 100)
	}

	for i := range 4 {
		v, ok := q.Dequeue()
		if !ok {
			t.Fatalf("Dequeue(%d): got ok=false, want true", i)
		}
		if v != i+100 {
			t.Fatalf("Dequeue(%d): got %d, want %d", i, v, i+100)
		}
	}

	if _, ok := q.Dequeue(); ok {
		t.Fatalf("Dequeue after drain: got ok=true, want false")
	}
}

// TestRCUQueueNeverReturnsStaleValue pins the resolution of the
// locally-shadowed-datum open question: a value-returning Dequeue cannot
// have an out-parameter silently left unwritten on success, because there
// is no out-parameter to shadow. A failed Dequeue must return the zero
// value, never a value left over from a previous call.
func TestRCUQueueNeverReturnsStaleValue(t *testing.T) {
	q := scq.NewRCUQueue[string]()

	q.Enqueue("first")
	if v, ok := q.Dequeue(); !ok || v != "first" {
		t.Fatalf("Dequeue: got (%q, %v), want (\"first\", true)", v, ok)
	}

	v, ok := q.Dequeue()
	if ok {
		t.Fatalf("Dequeue on empty: got ok=true, want false")
	}
	if v != "" {
		t.Fatalf("Dequeue on empty: got %q, want zero value", v)
	}
}

func TestRCUQueueInterleavedEnqueueDequeue(t *testing.T) {
	q := scq.NewRCUQueue[int]()

	q.Enqueue(1)
	q.Enqueue(2)
	if v, ok := q.Dequeue(); !ok || v != 1 {
		t.Fatalf("Dequeue: got (%d, %v), want (1, true)", v, ok)
	}
	q.Enqueue(3)
	for i, want := range []int{2, 3} {
		v, ok := q.Dequeue()
		if !ok || v != want {
			t.Fatalf("Dequeue(%d): got (%d, %v), want (%d, true)", i, v, ok, want)
		}
	}
	if _, ok := q.Dequeue(); ok {
		t.Fatalf("Dequeue after drain: got ok=true, want false")
	}
}

func TestRCUQueueDestroyDrainsNonEmptyQueue(t *testing.T) {
	q := scq.NewRCUQueue[int]()
	for i := range 10000 {
		q.Enqueue(i)
	}
	if err := q.Destroy(); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
}

func TestRCUQueueSlabBuild(t *testing.T) {
	q := scq.BuildRCU[int](scq.New().Slab(1))
	p := q.CreateTLSNodePool(0)

	for i := range 1000 {
		p.Enqueue(i)
	}
	for i := range 1000 {
		v, ok := q.Dequeue()
		if !ok || v != i {
			t.Fatalf("Dequeue(%d): got (%d, %v), want (%d, true)", i, v, ok, i)
		}
	}

	if err := p.DestroyTLSNodePool(); err != nil {
		t.Fatalf("DestroyTLSNodePool: %v", err)
	}
	if err := q.Destroy(); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
}

func TestRCUQueueDequeueErr(t *testing.T) {
	q := scq.NewRCUQueue[int]()

	if _, err := q.DequeueErr(); !scq.IsWouldBlock(err) {
		t.Fatalf("DequeueErr on empty queue: got %v, want ErrEmpty", err)
	}

	q.Enqueue(7)
	v, err := q.DequeueErr()
	if err != nil || v != 7 {
		t.Fatalf("DequeueErr: got (%d, %v), want (7, nil)", v, err)
	}
}

func TestBuildRCUPanicsOnPerProducerSentinel(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("BuildRCU with PerProducerSentinel: want panic, got none")
		}
	}()
	_ = scq.BuildRCU[int](scq.New().PerProducerSentinel())
}
