// Package xmalloc supplies a general-purpose, thread-safe dynamic memory
// allocator that replaces the three classical heap primitives — allocate,
// free, reallocate — for programs running on a POSIX-like host.
//
// Allocations are served from a segregated, bucketed free-stack allocator
// backed by anonymous page mappings. Each size class is sharded across a
// fixed number of arenas to spread lock contention, and every returned
// pointer carries a compact provenance header in the bytes immediately
// preceding it so that Free and Reallocate can recover the owning page
// without any side table.
//
//	ptr := xmalloc.Allocate(40)
//	ptr = xmalloc.Reallocate(ptr, 80)
//	xmalloc.Free(ptr)
//
// Requests above BucketMax bytes bypass the bucketed matrix and are served
// by a dedicated anonymous mapping per allocation.
//
// Types and functions in this package are safe for concurrent use from
// multiple goroutines, except for a *Handle, which is owned by whichever
// goroutine holds it (see Handle).
package xmalloc
