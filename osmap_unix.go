//go:build unix

// Package-private OS mapping layer: a thin uniform interface over the
// three POSIX virtual-memory primitives this allocator needs. Grounded on
// the mmap/munmap wrapping in sibling allocator packages of this lineage,
// which keep the syscall surface to exactly these three calls behind
// golang.org/x/sys/unix rather than hand-rolling the syscall numbers.
package xmalloc

import "golang.org/x/sys/unix"

// osReserve returns a fresh, read-write, private, anonymous,
// zero-initialized mapping of length bytes, page-aligned. Fatal on
// failure: there is no recoverable path once the host has refused to back
// a new page.
func osReserve(length int64) []byte {
	mem, err := unix.Mmap(-1, 0, int(length), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		fatalf("xmalloc: mmap %v bytes: %v", length, err)
	}
	return mem
}

// osRelease unmaps mem. Used only on teardown; failures are logged and
// swallowed so the rest of teardown can still run.
func osRelease(mem []byte) {
	if err := unix.Munmap(mem); err != nil {
		logger().Errorf("xmalloc: munmap %v bytes: %v", len(mem), err)
	}
}

// osAdviseUnneeded tells the OS it may drop physical backing for mem.
// Reads after this call return zeroes and the next write faults a fresh
// page. Fatal on failure: an advise failure here would otherwise silently
// leave the allocator unsure which pages are backed.
func osAdviseUnneeded(mem []byte) {
	if len(mem) == 0 {
		return
	}
	if err := unix.Madvise(mem, unix.MADV_DONTNEED); err != nil {
		fatalf("xmalloc: madvise(DONTNEED) %v bytes: %v", len(mem), err)
	}
}
