package xmalloc

import "encoding/binary"
import "sync"
import "unsafe"

// Allocate returns a pointer to a region of at least n bytes. The region is
// not cleared: a slot that was freed and handed out again keeps whatever
// its previous owner wrote into it. A request of 0 bytes lands in the smallest bucket, same as the
// source; a negative n is a caller error. Requests up to BucketMax are
// served from the bucketed matrix; larger requests get a dedicated
// mapping. h carries this call's favorite-arena hint and may be nil.
func (a *Allocator) Allocate(n int, h *Handle) unsafe.Pointer {
	if n < 0 {
		fatalf("xmalloc: Allocate: size must not be negative, got %v", n)
	}
	if int64(n) > BucketMax {
		return allocateLarge(n)
	}
	class := classFor(int64(n))
	ptr := a.allocateBucket(class, h)
	return unsafe.Pointer(ptr)
}

// Free releases a pointer previously returned by Allocate or Reallocate.
// Freeing nil is a no-op. Freeing any other pointer not owned by this
// allocator is undefined behavior, exactly as in the source.
func (a *Allocator) Free(p unsafe.Pointer) {
	if p == nil {
		return
	}
	addr := uintptr(p)
	tag := provenanceByte(addr)

	if tag == largeProvenance {
		length := int64(binary.LittleEndian.Uint64(ptrBytes(addr-largeMetaSize, 8)))
		osRelease(ptrBytes(addr-largeMetaSize, int(length)))
		return
	}
	if int(tag) >= ArenaNum {
		corruptProvenance(addr, tag)
		return
	}
	class, pageOffset := decodeBucketMeta(addr)
	a.freeBucket(class, int(tag), pageOffset, addr)
}

// Reallocate resizes the allocation at prev to n bytes, preserving the
// lesser of n and the allocation's old logical length, and returns the
// (possibly new) pointer. prev == nil returns nil unchanged, matching the
// source's xrealloc(NULL, n): it does not fall back to Allocate.
func (a *Allocator) Reallocate(prev unsafe.Pointer, n int, h *Handle) unsafe.Pointer {
	if prev == nil {
		return nil
	}
	if n < 0 {
		fatalf("xmalloc: Reallocate: size must not be negative, got %v", n)
	}
	addr := uintptr(prev)
	tag := provenanceByte(addr)

	if tag == largeProvenance {
		return a.reallocateLarge(prev, addr, n, h)
	}
	if int(tag) >= ArenaNum {
		corruptProvenance(addr, tag)
		return nil
	}
	return a.reallocateBucket(prev, addr, int(tag), n, h)
}

func (a *Allocator) reallocateLarge(prev unsafe.Pointer, addr uintptr, n int, h *Handle) unsafe.Pointer {
	oldLen := int64(binary.LittleEndian.Uint64(ptrBytes(addr-largeMetaSize, 8))) - largeMetaSize
	if int64(n) <= oldLen && int64(n) >= ceilDiv(3*oldLen, 4) {
		return prev
	}
	next := a.Allocate(n, h)
	copyPayload(next, prev, minInt64(int64(n), oldLen))
	a.Free(prev)
	return next
}

func (a *Allocator) reallocateBucket(prev unsafe.Pointer, addr uintptr, arena int, n int, h *Handle) unsafe.Pointer {
	class, _ := decodeBucketMeta(addr)
	oldClass := classSizes[class]

	grewOut := int64(n) > oldClass
	tooSmall := int64(n) < ceilDiv(2*oldClass, 3) && oldClass != BucketMin
	if int64(n) > BucketMax || grewOut || tooSmall {
		next := a.Allocate(n, h)
		copyPayload(next, prev, minInt64(int64(n), oldClass))
		a.Free(prev)
		return next
	}
	return prev
}

// allocateLarge reserves a dedicated mapping for a request that exceeds
// BucketMax: total length rounded up to a multiple of SmallPage, an 8-byte
// length header, a 1-byte 0xFF provenance sentinel, then the payload.
func allocateLarge(n int) unsafe.Pointer {
	total := roundUp(int64(n)+largeMetaSize, SmallPage)
	mem := osReserve(total)
	binary.LittleEndian.PutUint64(mem[:8], uint64(total))
	mem[8] = largeProvenance
	return unsafe.Pointer(&mem[largeMetaSize])
}

func provenanceByte(addr uintptr) byte {
	return *(*byte)(unsafe.Pointer(addr - 1))
}

// decodeBucketMeta reads the 5-byte bucket-metadata header preceding addr
// and returns the owning size class (resolved via the page's class tag,
// linear-scanned against the size-class table) and the byte offset from
// the owning page's header start to this slot.
func decodeBucketMeta(addr uintptr) (class int, pageOffset uint32) {
	meta := addr - bucketMetaSize
	pageOffset = binary.LittleEndian.Uint32(ptrBytes(meta, 4))
	headerAddr := meta - uintptr(pageOffset)
	tag := *(*byte)(unsafe.Pointer(headerAddr))
	size := decodeClass(tag)
	class = classIndex(size)
	if class < 0 {
		fatalf("xmalloc: corrupt page header at %#x: class tag %#x does not decode", headerAddr, tag)
	}
	return class, pageOffset
}

func copyPayload(dst, src unsafe.Pointer, n int64) {
	if n <= 0 {
		return
	}
	copy(ptrBytes(uintptr(dst), int(n)), ptrBytes(uintptr(src), int(n)))
}

func ceilDiv(a, b int64) int64 {
	return (a + b - 1) / b
}

func minInt64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func roundUp(n, mult int64) int64 {
	return ((n + mult - 1) / mult) * mult
}

var (
	defaultOnce sync.Once
	defaultAlc  *Allocator
)

func defaultAllocator() *Allocator {
	defaultOnce.Do(func() {
		defaultAlc = NewAllocator(Defaultsettings())
	})
	return defaultAlc
}

// Allocate is the package-level convenience entry point: it lazily builds
// and reuses a process-wide default *Allocator (constructed the first time
// any of the package-level functions is called), with a throwaway *Handle
// private to each call, matching the source's implicit single global
// allocator instance without needing a load-time constructor hook.
func Allocate(n int) unsafe.Pointer {
	return defaultAllocator().Allocate(n, nil)
}

// Free releases a pointer obtained from the package-level Allocate or
// Reallocate.
func Free(p unsafe.Pointer) {
	defaultAllocator().Free(p)
}

// Reallocate resizes a pointer obtained from the package-level Allocate or
// Reallocate.
func Reallocate(p unsafe.Pointer, n int) unsafe.Pointer {
	return defaultAllocator().Reallocate(p, n, nil)
}
