package xmalloc

import "strings"
import "testing"
import "unsafe"

func TestStatsReflectsLiveAllocations(t *testing.T) {
	a := NewAllocator(testConfig())
	defer a.Close()

	h := NewHandle()
	ptrs := make([]unsafe.Pointer, 0, 500)
	for i := 0; i < 500; i++ {
		ptrs = append(ptrs, a.Allocate(64, h))
	}

	st := a.Stats()
	class := classFor(64)
	if st.Classes[class].Slots-st.Classes[class].FreeSlots < 500 {
		t.Errorf("stats should report at least 500 used slots in class %v", class)
	}

	for _, p := range ptrs {
		a.Free(p)
	}
}

func TestStatsStringIsHumanReadable(t *testing.T) {
	a := NewAllocator(testConfig())
	defer a.Close()

	out := a.Stats().String()
	if !strings.Contains(out, "capacity") {
		t.Errorf("Stats().String() missing capacity line: %q", out)
	}
}
