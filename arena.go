package xmalloc

import "sync"

import "golang.org/x/sys/cpu"

// cell is one (size class, arena) partition: one mutex and one page-list
// head. Padded to a cache line so adjacent cells in the matrix never share
// a line and fight over it under concurrent access from different arenas.
type cell struct {
	mu   sync.Mutex
	head *page
	_    cpu.CacheLinePad
}

// Allocator is the full bucketed free-stack matrix: BucketNum size classes
// by ArenaNum arena shards, plus the large-allocation path, which needs no
// per-class state of its own since every large request gets its own
// mapping.
type Allocator struct {
	cells       [BucketNum][ArenaNum]cell
	adviseEmpty bool
	closed      bool
	closeMu     sync.Mutex
}

// NewAllocator builds a fully pre-warmed allocator: every (class, arena)
// cell starts with exactly one page already on its list, matching the
// source's requirement that startup completes before any mutator call.
// cfg's "capacity" setting is not read here, and Stats does not report
// against it; there is no enforced ceiling, since the source's own arena
// growth has no hard cap either. cfg's "advise_empty_pages" boolean (default true if unset) gates
// the conformance-optional free-side memory optimization described in
// freeBucket.
func NewAllocator(cfg Config) *Allocator {
	a := &Allocator{adviseEmpty: true}
	if v, ok := cfg["advise_empty_pages"]; ok {
		a.adviseEmpty = v.(bool)
	}
	for c := 0; c < BucketNum; c++ {
		for ar := 0; ar < ArenaNum; ar++ {
			a.cells[c][ar].head = newPage(c)
		}
	}
	logger().Infof("xmalloc: allocator ready, %v classes x %v arenas pre-warmed", BucketNum, ArenaNum)
	return a
}

// allocateBucket runs the favorite-arena-with-fall-forward policy for size
// class c and returns a payload pointer. h may be nil.
func (a *Allocator) allocateBucket(c int, h *Handle) uintptr {
	favorite := h.get(c)

	cl := &a.cells[c][favorite]
	if cl.mu.TryLock() {
		if ptr, ok := a.allocFromCell(cl, c, favorite); ok {
			cl.mu.Unlock()
			return ptr
		}
		cl.mu.Unlock()
	}

	arena := (favorite + 1) % ArenaNum
	cl = &a.cells[c][arena]
	cl.mu.Lock()
	ptr, _ := a.allocFromCell(cl, c, arena)
	cl.mu.Unlock()
	h.set(c, arena)
	return ptr
}

// allocFromCell must be called with cl.mu held. It walks the page list for
// a free slot, creating a new page at the head if every existing page is
// full.
func (a *Allocator) allocFromCell(cl *cell, class, arena int) (uintptr, bool) {
	for p := cl.head; p != nil; p = p.next {
		if ptr, ok := p.allocSlot(arena); ok {
			return uintptr(ptr), true
		}
	}
	p := newPage(class)
	p.next = cl.head
	cl.head = p
	ptr, ok := p.allocSlot(arena)
	if !ok {
		fatalf("xmalloc: freshly created page reports no free slot")
	}
	return uintptr(ptr), ok
}

// freeBucket runs the address-pinned free policy: lock the cell recorded in
// the pointer's own provenance, regardless of the freeing caller's favorite
// arena, then locate the owning page by walking the pinned cell's list. The
// page is never unlinked, even if this free leaves it entirely empty; if
// a.adviseEmpty is set, a fully-empty page's slot region is advised
// unneeded so the OS can reclaim its physical backing until it is reused.
func (a *Allocator) freeBucket(class, arena int, pageOffset uint32, payload uintptr) {
	cl := &a.cells[class][arena]
	cl.mu.Lock()
	defer cl.mu.Unlock()

	headerAddr := payload - bucketMetaSize - uintptr(pageOffset)
	for p := cl.head; p != nil; p = p.next {
		if p.headerStart() == headerAddr {
			p.freeSlot(payload)
			if a.adviseEmpty && p.header().bitmap.freeCount(p.slotCount()) == p.slotCount() {
				osAdviseUnneeded(p.mapping[headerReserve:])
			}
			return
		}
	}
	fatalf("xmalloc: free: no page in cell (%v,%v) owns header at %#x", class, arena, headerAddr)
}

// Close releases every mapping this allocator owns. Idempotent: a second
// call is a silent no-op. Best effort: OS release failures are logged and
// teardown continues with the remaining pages.
func (a *Allocator) Close() {
	a.closeMu.Lock()
	defer a.closeMu.Unlock()
	if a.closed {
		return
	}
	for c := 0; c < BucketNum; c++ {
		for ar := 0; ar < ArenaNum; ar++ {
			cl := &a.cells[c][ar]
			cl.mu.Lock()
			for p := cl.head; p != nil; p = p.next {
				p.release()
			}
			cl.mu.Unlock()
		}
	}
	a.closed = true
	logger().Infof("xmalloc: allocator closed")
}
