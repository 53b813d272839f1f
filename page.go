package xmalloc

import "unsafe"
import "encoding/binary"

// pageHeader is the fixed-layout prefix written into every bucket page's
// raw mapping. It carries only flat, pointer-free data: the live (and
// only) on-page bookkeeping, byte for byte, starts at offset 0 of the
// mapping. The intrusive shard-list link deliberately lives outside this
// struct, in the Go-heap-resident *page wrapper below, since a raw OS
// mapping is not scanned by the garbage collector and must never hold a
// live reference to another Go-managed value.
type pageHeader struct {
	classTag byte
	_        [3]byte
	cursor   uint32
	bitmap   bitset
}

var headerBytes = int64(unsafe.Sizeof(pageHeader{}))

// headerReserve is the number of leading bytes of every page mapping that
// are kept eagerly backed by the OS; it is a fixed multiple of the small
// page size, independent of the exact size of pageHeader, matching the
// source's header_reserve = HeaderPages * SmallPage.
const headerReserve = int64(HeaderPages) * SmallPage

// page is the Go-heap side bookkeeping for one bucket mapping. Only
// mapping is foreign memory; next is an ordinary Go pointer and is safe
// because page values themselves always live on the Go heap.
type page struct {
	mapping []byte
	next    *page
	class   int
}

func (p *page) header() *pageHeader {
	return (*pageHeader)(unsafe.Pointer(&p.mapping[0]))
}

func (p *page) headerStart() uintptr {
	return uintptr(unsafe.Pointer(&p.mapping[0]))
}

// slotCount is the effective number of slots carved out of this page's
// mapping once the header prefix is subtracted.
func (p *page) slotCount() int64 {
	return (mappingLen(p.class) - headerBytes) / slotStride(p.class)
}

// slotStart returns the address of the k-th slot, i.e. the start of its
// 5-byte bucket-metadata header.
func (p *page) slotStart(k int64) uintptr {
	return p.headerStart() + uintptr(headerBytes) + uintptr(k)*uintptr(slotStride(p.class))
}

// newPage reserves and prepares a fresh page for size class c: mmap's a
// mapping of chunkMult[c]*AllocChunk bytes, advises the slot region as
// unneeded so it stays physically unbacked until touched, and writes the
// encoded class tag into the header.
func newPage(c int) *page {
	length := mappingLen(c)
	mem := osReserve(length)
	osAdviseUnneeded(mem[headerReserve:])
	p := &page{mapping: mem, class: c}
	tag := encodeClass(classSizes[c])
	if tag < 0 {
		fatalf("xmalloc: class %v has no valid encoding", classSizes[c])
	}
	p.header().classTag = byte(tag)
	return p
}

// release returns this page's mapping to the OS. Only called from
// teardown.
func (p *page) release() {
	osRelease(p.mapping)
}

// allocSlot finds a free slot on this page via the page's bitmap engine
// (see bitset.alloc), marks it occupied, advances the cursor, writes the
// slot's 5-byte bucket-metadata header, and returns the payload pointer.
// ok is false if the page has no free slot.
func (p *page) allocSlot(arena int) (unsafe.Pointer, bool) {
	h := p.header()
	k, ok := h.bitmap.alloc(p.slotCount(), h.cursor)
	if !ok {
		return nil, false
	}
	h.cursor = uint32(k)

	slot := p.slotStart(k)
	payload := slot + bucketMetaSize
	offset := uint32(slot - p.headerStart())
	binary.LittleEndian.PutUint32(ptrBytes(slot, 4), offset)
	*(*byte)(unsafe.Pointer(slot + 4)) = byte(arena)

	return unsafe.Pointer(payload), true
}

// freeSlot clears the bit for the slot that owns payload. The caller
// must already have located the owning page (via the pointer-metadata
// protocol in xmalloc.go) and locked the shard that owns it.
func (p *page) freeSlot(payload uintptr) {
	slot := payload - bucketMetaSize
	k := int64(slot-p.headerStart()-uintptr(headerBytes)) / slotStride(p.class)
	p.header().bitmap.free(k)
}

// ptrBytes views n bytes starting at addr as a []byte without copying.
// Used only for writing/reading the small fixed-width fields of the
// provenance header; never used to alias a Go-managed object.
func ptrBytes(addr uintptr, n int) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), n)
}
