package malloc

import "testing"

func TestStatsReflectsAllocationsAndReleases(t *testing.T) {
	a := newAllocatorForTest(t)

	p1, err := a.Allocate(100)
	if err != nil {
		t.Fatalf("Allocate p1: %v", err)
	}
	p2, err := a.Allocate(200)
	if err != nil {
		t.Fatalf("Allocate p2: %v", err)
	}

	stats := a.Stats()
	if stats.ChunkCount != 3 {
		t.Errorf("ChunkCount = %d, want 3 (two used chunks plus the free remainder of the first growth)", stats.ChunkCount)
	}
	if stats.FreeChunkCount != 1 {
		t.Errorf("FreeChunkCount = %d, want 1", stats.FreeChunkCount)
	}
	if stats.BytesUsed == 0 {
		t.Error("BytesUsed should be nonzero with two live allocations")
	}

	a.Release(p1)
	stats = a.Stats()
	if stats.FreeChunkCount != 2 {
		t.Errorf("FreeChunkCount after one release = %d, want 2", stats.FreeChunkCount)
	}
	if stats.Utilization <= 0 || stats.Utilization >= 1 {
		t.Errorf("Utilization = %f, want strictly between 0 and 1", stats.Utilization)
	}

	a.Release(p2)
	stats = a.Stats()
	if stats.BytesUsed != 0 {
		t.Errorf("BytesUsed after releasing everything = %d, want 0", stats.BytesUsed)
	}
	if stats.Utilization != 0 {
		t.Errorf("Utilization after releasing everything = %f, want 0", stats.Utilization)
	}
}

func TestWalkFreeListIsAddressOrdered(t *testing.T) {
	a := newAllocatorForTest(t)

	p1, _ := a.Allocate(64)
	p2, _ := a.Allocate(64)
	p3, _ := a.Allocate(64)
	a.Release(p1)
	a.Release(p3)
	a.Release(p2)

	var addrs []uintptr
	a.WalkFreeList(func(c ChunkInfo) bool {
		addrs = append(addrs, c.Addr)
		if c.Used {
			t.Error("WalkFreeList visited a used chunk")
		}
		return true
	})

	for i := 1; i < len(addrs); i++ {
		if addrs[i] <= addrs[i-1] {
			t.Errorf("free list not address-ordered at index %d: %#x <= %#x", i, addrs[i], addrs[i-1])
		}
	}
	// All three releases coalesced into one chunk spanning the heap.
	if len(addrs) != 1 {
		t.Errorf("expected a single coalesced free chunk, got %d", len(addrs))
	}
}

func TestWalkChunksStopsEarly(t *testing.T) {
	a := newAllocatorForTest(t)
	a.Allocate(32)
	a.Allocate(32)
	a.Allocate(32)

	count := 0
	a.WalkChunks(func(ChunkInfo) bool {
		count++
		return count < 1
	})
	if count != 1 {
		t.Errorf("WalkChunks visited %d chunks after the callback returned false, want 1", count)
	}
}
