package malloc

import "testing"

func TestMarkUsedMarkFree(t *testing.T) {
	tests := []struct {
		name string
		word uintptr
		used bool
	}{
		{"mark a free-looking word used", 32, true},
		{"mark an already-used word used", 33, true},
		{"mark a used word free", 33, false},
		{"mark an already-free word free", 32, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got uintptr
			if tt.used {
				got = markUsed(tt.word)
			} else {
				got = markFree(tt.word)
			}
			if isUsedWord(got) != tt.used {
				t.Errorf("isUsedWord(%d) = %v, want %v", got, isUsedWord(got), tt.used)
			}
			if sizeOfWord(got) != 32 {
				t.Errorf("sizeOfWord(%d) = %d, want 32", got, sizeOfWord(got))
			}
		})
	}
}

func TestWriteFencesRoundTrip(t *testing.T) {
	c := newTestHeap(t, 1024)
	size := chunkSize(c)

	assignUsed(c, size)
	if !chunkIsUsed(c) {
		t.Fatal("assignUsed did not set the used bit")
	}
	if readHeader(c) != readFooter(c) {
		t.Errorf("header %d != footer %d after assignUsed", readHeader(c), readFooter(c))
	}
	if chunkSize(c) != size {
		t.Errorf("chunkSize after assignUsed = %d, want %d", chunkSize(c), size)
	}

	assignFree(c, size)
	if chunkIsUsed(c) {
		t.Fatal("assignFree left the used bit set")
	}
	if readHeader(c) != readFooter(c) {
		t.Errorf("header %d != footer %d after assignFree", readHeader(c), readFooter(c))
	}
}

func TestNextChunkTilesTheHeap(t *testing.T) {
	c := newTestHeap(t, 1024)
	full := chunkSize(c)

	low := requiredChunkSize(16)
	high := full - low
	assignUsed(c, low)
	second := chunkHandle(c.addr() + low)
	assignFree(second, high)

	if got := nextChunk(c); got != second {
		t.Errorf("nextChunk(c) = %#x, want %#x", got.addr(), second.addr())
	}
	if !isSentinel(nextChunk(second)) {
		t.Error("nextChunk(second) should land on the high sentinel")
	}
}

func TestPrecedingFreeChunk(t *testing.T) {
	c := newTestHeap(t, 1024)
	full := chunkSize(c)

	// At the very start of the heap, the only thing before c is the
	// low sentinel: precedingFreeChunk must refuse to step over it.
	if got := precedingFreeChunk(c); got.valid() {
		t.Errorf("precedingFreeChunk(first chunk) = %#x, want invalid (blocked by sentinel)", got.addr())
	}

	low := requiredChunkSize(16)
	high := full - low
	assignFree(c, low)
	second := chunkHandle(c.addr() + low)
	assignFree(second, high)

	if got := precedingFreeChunk(second); got != c {
		t.Errorf("precedingFreeChunk(second) = %#x, want %#x (c is free)", got.addr(), c.addr())
	}

	assignUsed(c, low)
	if got := precedingFreeChunk(second); got.valid() {
		t.Errorf("precedingFreeChunk(second) = %#x, want invalid (c is used)", got.addr())
	}
}

func TestIsSentinel(t *testing.T) {
	c := newTestHeap(t, 1024)
	if isSentinel(c) {
		t.Error("a freshly grown chunk must not read as a sentinel")
	}
	low := precedingFreeChunk(c)
	_ = low // precedingFreeChunk refuses the sentinel; check it directly instead
	sentinelAddr := c.addr() - fenceSize
	if !isSentinel(chunkHandle(sentinelAddr)) {
		t.Error("the word immediately before the heap's first chunk must read as a sentinel")
	}
}
