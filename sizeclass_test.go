package xmalloc

import "testing"

func TestClassForBoundaries(t *testing.T) {
	cases := []struct {
		n     int64
		class int
	}{
		{1, 0}, {8, 0}, {9, 1}, {12, 1}, {13, 2}, {96, 7}, {97, 8}, {8192, 20},
	}
	for _, c := range cases {
		if got := classFor(c.n); got != c.class {
			t.Errorf("classFor(%v) = %v, want %v", c.n, got, c.class)
		}
	}
}

func TestClassForPanicsAboveMax(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic for size above BucketMax")
		}
	}()
	classFor(BucketMax + 1)
}

func TestEncodeDecodeClassRoundTrip(t *testing.T) {
	for _, size := range classSizes {
		tag := encodeClass(size)
		if tag < 0 {
			t.Fatalf("size %v did not encode", size)
		}
		if got := decodeClass(byte(tag)); got != size {
			t.Errorf("decodeClass(encodeClass(%v)) = %v", size, got)
		}
	}
}

func TestClassIndexExactMatchOnly(t *testing.T) {
	if classIndex(64) != classFor(64) {
		t.Errorf("classIndex(64) should match the table entry for 64")
	}
	if classIndex(65) != -1 {
		t.Errorf("classIndex(65) should be -1, no exact class of that size")
	}
}

func TestSlotStrideAndMappingLen(t *testing.T) {
	for c := range classSizes {
		if slotStride(c) != classSizes[c]+bucketMetaSize {
			t.Errorf("slotStride(%v) wrong", c)
		}
		if mappingLen(c) != chunkMult[c]*AllocChunk {
			t.Errorf("mappingLen(%v) wrong", c)
		}
	}
}
