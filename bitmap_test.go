package xmalloc

import "testing"

func TestBitsetAllocFillsThenFails(t *testing.T) {
	var bs bitset
	const n = int64(200)
	seen := make(map[int64]bool)
	for i := int64(0); i < n; i++ {
		k, ok := bs.alloc(n, uint32(n-1))
		if !ok {
			t.Fatalf("allocation %v unexpectedly failed with %v slots free", i, n-i)
		}
		if seen[k] {
			t.Fatalf("slot %v allocated twice", k)
		}
		seen[k] = true
	}
	if _, ok := bs.alloc(n, uint32(n-1)); ok {
		t.Fatalf("expected alloc to fail once every slot is occupied")
	}
}

func TestBitsetFreeThenReallocate(t *testing.T) {
	var bs bitset
	const n = int64(128)
	for i := int64(0); i < n; i++ {
		if _, ok := bs.alloc(n, uint32(n-1)); !ok {
			t.Fatalf("alloc %v failed", i)
		}
	}
	bs.free(42)
	k, ok := bs.alloc(n, uint32(n-1))
	if !ok {
		t.Fatalf("expected one free slot after free(42)")
	}
	if k != 42 {
		t.Errorf("expected the freed slot 42 to be reused first, got %v", k)
	}
}

func TestBitsetFreeCount(t *testing.T) {
	var bs bitset
	const n = int64(300)
	if got := bs.freeCount(n); got != n {
		t.Errorf("empty bitset: freeCount = %v, want %v", got, n)
	}
	for i := int64(0); i < 10; i++ {
		bs.set(i)
	}
	if got := bs.freeCount(n); got != n-10 {
		t.Errorf("freeCount = %v, want %v", got, n-10)
	}
}

func TestBitsetTestSetClear(t *testing.T) {
	var bs bitset
	if bs.test(5) {
		t.Errorf("bit 5 should start clear")
	}
	bs.set(5)
	if !bs.test(5) {
		t.Errorf("bit 5 should be set")
	}
	bs.clear(5)
	if bs.test(5) {
		t.Errorf("bit 5 should be clear again")
	}
}

func TestBitsetAllOnesWordSkip(t *testing.T) {
	var bs bitset
	for i := int64(0); i < wordBits; i++ {
		bs.set(i)
	}
	k, ok := bs.alloc(wordBits+5, uint32(wordBits+5-1))
	if !ok || k < wordBits {
		t.Errorf("expected alloc to skip the full first word, got k=%v ok=%v", k, ok)
	}
}
