package xmalloc

import "fmt"
import "strings"

import "github.com/dustin/go-humanize"

// ClassStats summarizes one size class across all arenas.
type ClassStats struct {
	Size      int64
	Pages     int64
	Slots     int64
	FreeSlots int64
}

// Stats is a point-in-time snapshot of the allocator's bucketed matrix.
// Capacity and Allocated only account for the bucketed path; large
// allocations are untracked individually (the source keeps no registry of
// them either, relying on the caller to pair every large Allocate with a
// Free).
type Stats struct {
	Capacity  int64
	Allocated int64
	Overhead  int64
	Classes   [BucketNum]ClassStats
}

// Stats walks every cell under its own lock and returns a per-class
// snapshot. Only one cell is locked at a time, so the totals are not an
// atomic view across cells while other goroutines allocate or free. Not
// cheap: callers should not call this on a hot path.
func (a *Allocator) Stats() Stats {
	var st Stats
	for c := 0; c < BucketNum; c++ {
		cs := ClassStats{Size: classSizes[c]}
		for ar := 0; ar < ArenaNum; ar++ {
			cl := &a.cells[c][ar]
			cl.mu.Lock()
			for p := cl.head; p != nil; p = p.next {
				cs.Pages++
				slots := p.slotCount()
				cs.Slots += slots
				cs.FreeSlots += p.header().bitmap.freeCount(slots)
				st.Capacity += mappingLen(c)
			}
			cl.mu.Unlock()
		}
		used := cs.Slots - cs.FreeSlots
		st.Allocated += used * classSizes[c]
		st.Overhead += used * bucketMetaSize
		st.Classes[c] = cs
	}
	return st
}

// String renders a Stats value the way the rest of this allocator's
// lineage renders memory figures: humanized byte counts and comma-grouped
// slot counts.
func (s Stats) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "capacity %v allocated %v overhead %v\n",
		humanize.Bytes(uint64(s.Capacity)), humanize.Bytes(uint64(s.Allocated)), humanize.Bytes(uint64(s.Overhead)))
	for _, cs := range s.Classes {
		if cs.Pages == 0 {
			continue
		}
		used := cs.Slots - cs.FreeSlots
		fmt.Fprintf(&b, "  class %-5v pages %-4v slots %-10v used %v\n",
			humanize.Bytes(uint64(cs.Size)), humanize.Comma(cs.Pages), humanize.Comma(cs.Slots), humanize.Comma(used))
	}
	return b.String()
}
