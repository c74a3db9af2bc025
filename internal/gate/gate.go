// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package gate implements a reference-counted "current version" pointer:
// installed with Exchange or CompareAndExchange, read with Acquire/Release,
// with the owner-supplied free callback guaranteed to run at most once and
// only after every acquired reference has been released. This is the
// grace-period primitive the LL-RCU dequeue engine builds its versioned
// head chain on top of.
package gate

import (
	"sync/atomic"

	"code.hybscloud.com/atomix"
)

// Ref is embedded in any type managed by a Gate. Its zero value is one
// reference short of ready: callers publish a version via Make, which
// seeds the reference that represents "this is the current version".
type Ref struct {
	count atomix.Int64
}

// Gate holds the current version of a T and reference-counts acquired
// readers of it, invoking onFree exactly once per version once its last
// reference (including the implicit "is current" reference) drops.
type Gate[T any] struct {
	current atomic.Pointer[T]
	refOf   func(*T) *Ref
	onFree  func(*T)
}

// New creates a Gate. refOf extracts the embedded Ref from a *T; onFree
// is invoked exactly once per version, after it is no longer current and
// every Acquire'd reference has been Release'd.
func New[T any](refOf func(*T) *Ref, onFree func(*T)) *Gate[T] {
	return &Gate[T]{refOf: refOf, onFree: onFree}
}

// Make seeds v's reference count with the single implicit reference held
// by "being current" and returns it unchanged, for chaining into
// Exchange/CompareAndExchange.
func (g *Gate[T]) Make(v *T) *T {
	g.refOf(v).count.StoreRelaxed(1)
	return v
}

// Exchange unconditionally installs v as current and returns the
// previous version, releasing its "is current" reference.
func (g *Gate[T]) Exchange(v *T) *T {
	old := g.current.Swap(v)
	if old != nil {
		g.release(old)
	}
	return old
}

// CompareAndExchange installs newV as current only if the current
// version is still old. On success, old's "is current" reference is
// released. On failure, newV was never published and is simply
// discarded by the caller; it was never reachable through the gate so
// there is nothing to release.
func (g *Gate[T]) CompareAndExchange(old, newV *T) bool {
	if !g.current.CompareAndSwap(old, newV) {
		return false
	}
	if old != nil {
		g.release(old)
	}
	return true
}

// Acquire returns a reference-counted pointer to the current version, or
// nil if none has ever been installed. The returned version is guaranteed
// live until the matching Release.
func (g *Gate[T]) Acquire() *T {
	for {
		v := g.current.Load()
		if v == nil {
			return nil
		}
		r := g.refOf(v)
		for {
			n := r.count.LoadAcquire()
			if n <= 0 {
				// Lost the race: this version's count already hit zero
				// (it is being or has been freed) and will never be
				// incremented again. Re-read current, which must have
				// since moved on.
				break
			}
			if r.count.CompareAndSwapAcqRel(n, n+1) {
				return v
			}
		}
	}
}

// Release drops one reference on v, invoking the gate's free callback if
// this was the last one.
func (g *Gate[T]) Release(v *T) {
	g.release(v)
}

func (g *Gate[T]) release(v *T) {
	if g.refOf(v).count.AddAcqRel(-1) == 0 {
		g.onFree(v)
	}
}
