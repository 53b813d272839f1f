// Command xmallocstat is a small local debugging aid: it prints the
// allocator's size-class table, runs a synthetic allocate/free workload,
// and reports humanized Stats. It speaks no wire protocol; it is a
// developer tool, not a server.
package main

import "flag"
import "fmt"
import "unsafe"

import "github.com/curleymi/xmalloc"

var options struct {
	ops  int
	size int
}

func argParse() {
	flag.IntVar(&options.ops, "ops", 100000, "number of allocate/free pairs to run")
	flag.IntVar(&options.size, "size", 64, "requested allocation size in bytes")
	flag.Parse()
}

func main() {
	argParse()
	tellsizeclasses()
	runworkload()
}

func tellsizeclasses() {
	fmt.Println("size classes (class, bytes, chunk multiplier):")
	for c := 0; c < xmalloc.BucketNum; c++ {
		fmt.Printf("  class %2v: %5v bytes, x%v\n", c, xmalloc.ClassSize(c), xmalloc.ChunkMultiplier(c))
	}
}

func runworkload() {
	a := xmalloc.NewAllocator(xmalloc.Defaultsettings())
	defer a.Close()

	h := xmalloc.NewHandle()
	live := make([]unsafe.Pointer, 0, options.ops)
	for i := 0; i < options.ops; i++ {
		p := a.Allocate(options.size, h)
		live = append(live, p)
		if len(live) > 1024 {
			a.Free(live[0])
			live = live[1:]
		}
	}
	for _, p := range live {
		a.Free(p)
	}
	fmt.Println(a.Stats())
}
