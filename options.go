// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package scq

// Options configures queue creation and engine selection.
type Options struct {
	perProducerSentinel bool // Detach-TLS only
	slabPages           int  // LL-RCU only; default for CreateTLSNodePool(0)
}

// Builder creates queues with fluent configuration.
//
// Example:
//
//	// LL-RCU queue whose TLS node pools default to a 64-page slab
//	q := scq.BuildRCU[Event](scq.New().Slab(64))
//	p := q.CreateTLSNodePool(0)
//
//	// Detach-TLS queue with a private sentinel per producer
//	q := scq.BuildDetach[Event](scq.New().PerProducerSentinel())
type Builder struct {
	opts Options
}

// New creates a queue builder with default options: LL-RCU's TLS node
// pools default to a single page, Detach-TLS uses a single shared
// sentinel.
func New() *Builder {
	return &Builder{}
}

// PerProducerSentinel selects the per-producer private sentinel sub-variant
// for a Detach-TLS queue, removing contention on
// a single shared tail at the cost of round-robin stealing in Dequeue.
//
// Only applies to BuildDetach.
func (b *Builder) PerProducerSentinel() *Builder {
	b.opts.perProducerSentinel = true
	return b
}

// Slab sets the default page budget a TLS node pool created with
// CreateTLSNodePool(0) grows to before falling back to plain heap
// allocation.
//
// Only applies to BuildRCU.
func (b *Builder) Slab(reservePages int) *Builder {
	b.opts.slabPages = reservePages
	return b
}

// BuildRCU creates an LL-RCU queue, carrying Slab's page budget as the
// default for any later CreateTLSNodePool(0) call.
//
// Panics if PerProducerSentinel was set; that option only applies to
// BuildDetach.
func BuildRCU[T any](b *Builder) *RCUQueue[T] {
	if b.opts.perProducerSentinel {
		panic("scq: PerProducerSentinel only applies to BuildDetach")
	}
	q := NewRCUQueue[T]()
	q.defaultSlabPages = b.opts.slabPages
	return q
}

// BuildDetach creates a Detach-TLS queue.
//
// Panics if Slab was set; that option only applies to BuildRCU.
func BuildDetach[T any](b *Builder) *DetachQueue[T] {
	if b.opts.slabPages != 0 {
		panic("scq: Slab only applies to BuildRCU")
	}
	return NewDetachQueue[T](b.opts.perProducerSentinel)
}
