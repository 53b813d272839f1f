package xmalloc

import "errors"
import "os"

// ErrCorruptProvenance is the diagnostic wrapped into the fatal log line
// emitted when Free or Reallocate observes a provenance byte that is
// neither a valid arena index nor the large-allocation sentinel.
var ErrCorruptProvenance = errors.New("xmalloc: corrupt provenance byte")

// fatalf reports an unrecoverable allocator error and terminates the
// process. The source's fail-fast policy is modeled here as a terminal
// call rather than a Go panic: a panic is recoverable, and resuming a
// program against a corrupted allocator is worse than not resuming it at
// all.
func fatalf(format string, args ...interface{}) {
	logger().Fatalf(format, args...)
	// The default Logger's Fatalf already calls os.Exit; this line ends
	// the process when a Logger installed via SetLogger returns instead.
	os.Exit(1)
}

func corruptProvenance(ptr uintptr, tag byte) {
	fatalf("%v: pointer %#x, byte %#x", ErrCorruptProvenance, ptr, tag)
}
