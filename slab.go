// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package scq

import "unsafe"

// pageNodeBytes sizes each slab page to roughly this many bytes of node
// storage, amortizing the cost of growing the arena without committing an
// arbitrarily large slice up front.
const pageNodeBytes = 64 << 10

// slabArena is a per-thread node pool that carves llrcuNode[T]-sized slots
// sequentially out of Go-heap-backed pages and recycles a page once its
// last slot has cycled back to FREE. Once maxPages is reached, carve falls
// back to a plain heap allocation that is never recycled through the
// arena, matching the fallback allocator's role in the carving algorithm
// this is grounded on.
//
// An arena is owned by exactly one TLSNodePool and is not safe for
// concurrent carve calls. release is safe from any goroutine: it only
// ever touches a node's own atomic state field, never the arena's
// carve-side bookkeeping.
type slabArena[T any] struct {
	nodesPerPage int
	maxPages     int
	pages        [][]llrcuNode[T]
	current      int // index into pages being carved
	cursor       int // next free slot within pages[current]
}

// newSlabArena sizes pages to hold roughly pageNodeBytes worth of T and
// commits the first one. maxPages bounds how many pages the arena will
// grow to before carve falls back to plain heap allocation.
func newSlabArena[T any](maxPages int) *slabArena[T] {
	if maxPages < 1 {
		maxPages = 1
	}
	var zero llrcuNode[T]
	nodesPerPage := pageNodeBytes / int(unsafe.Sizeof(zero))
	if nodesPerPage < 1 {
		nodesPerPage = 1
	}

	a := &slabArena[T]{nodesPerPage: nodesPerPage, maxPages: maxPages}
	a.pages = append(a.pages, make([]llrcuNode[T], nodesPerPage))
	return a
}

// carve returns a node whose state is FREE and not yet claimed by any
// producer. It tries the current page, then a page that has fully
// recycled, then grows a new page if maxPages allows, and finally falls
// back to a plain heap node once the arena is at capacity.
func (a *slabArena[T]) carve() *llrcuNode[T] {
	if a.cursor < a.nodesPerPage {
		n := &a.pages[a.current][a.cursor]
		a.cursor++
		n.fromPool = true
		return n
	}

	for i := range a.pages {
		if a.pageRecycled(i) {
			a.current = i
			a.cursor = 1
			n := &a.pages[i][0]
			n.fromPool = true
			return n
		}
	}

	if len(a.pages) < a.maxPages {
		a.pages = append(a.pages, make([]llrcuNode[T], a.nodesPerPage))
		a.current = len(a.pages) - 1
		a.cursor = 1
		n := &a.pages[a.current][0]
		n.fromPool = true
		return n
	}

	return &llrcuNode[T]{}
}

// pageRecycled reports whether page i's last slot has transitioned back to
// FREE, the signal that every slot in the page has cycled: producers
// carve sequentially and reclamation frees ranges in publication order, so
// the last slot only becomes FREE after every earlier slot already has.
func (a *slabArena[T]) pageRecycled(i int) bool {
	page := a.pages[i]
	if len(page) == 0 {
		return false
	}
	return page[len(page)-1].state.LoadAcquire() == nodeFree
}

// freeNode returns n to its arena if it was slab-carved, setting its
// state back to FREE so the owning page can later be recognized as
// recycled. Plain heap nodes (including arena-exhaustion fallback nodes)
// are simply dropped for the garbage collector: they were never part of
// any page's recycling scan.
func freeNode[T any](n *llrcuNode[T]) {
	if n.fromPool {
		n.state.StoreRelease(nodeFree)
	}
}
