//go:build linux || darwin

package malloc

import "testing"

func TestHeapGrowerFirstGrowthInstallsSentinels(t *testing.T) {
	var g heapGrower
	g.minGrowth = 4096

	c, err := g.grow(64)
	if err != nil {
		t.Fatalf("grow: %v", err)
	}
	if !isSentinel(chunkHandle(c.addr() - fenceSize)) {
		t.Error("low sentinel missing before the first chunk")
	}
	if !isSentinel(nextChunk(c)) {
		t.Error("high sentinel missing after the first chunk")
	}
	if chunkIsUsed(c) {
		t.Error("freshly grown interior must start out free")
	}
}

func TestHeapGrowerSubsequentGrowthExtendsContiguously(t *testing.T) {
	var g heapGrower
	g.minGrowth = 4096

	first, err := g.grow(64)
	if err != nil {
		t.Fatalf("first grow: %v", err)
	}
	firstSize := chunkSize(first)
	oldHighSentinel := nextChunk(first)
	if !isSentinel(oldHighSentinel) {
		t.Fatalf("expected sentinel after first growth")
	}

	second, err := g.grow(64)
	if err != nil {
		t.Fatalf("second grow: %v", err)
	}

	if second.addr() != oldHighSentinel.addr() {
		t.Errorf("second growth should start where the old high sentinel was: got %#x, want %#x",
			second.addr(), oldHighSentinel.addr())
	}
	if nextChunk(first) != second {
		t.Error("first chunk's successor must be the newly grown chunk, tiling the heap")
	}
	if !isSentinel(nextChunk(second)) {
		t.Error("a fresh high sentinel must terminate the extended heap")
	}
	_ = firstSize
}

func TestHeapGrowerRespectsMinGrowthFloor(t *testing.T) {
	var g heapGrower
	g.minGrowth = 1 << 20 // 1 MiB floor, much bigger than the request

	c, err := g.grow(8)
	if err != nil {
		t.Fatalf("grow: %v", err)
	}
	if chunkSize(c) < g.minGrowth {
		t.Errorf("chunk size %d smaller than minGrowth floor %d", chunkSize(c), g.minGrowth)
	}
}

func TestRoundUpPage(t *testing.T) {
	const page = 4096
	tests := []struct{ x, want uintptr }{
		{1, page},
		{page, page},
		{page + 1, 2 * page},
	}
	for _, tt := range tests {
		if got := roundUpPage(tt.x, page); got != tt.want {
			t.Errorf("roundUpPage(%d, %d) = %d, want %d", tt.x, page, got, tt.want)
		}
	}
}

func TestHeapSizeAccounting(t *testing.T) {
	a := NewAllocator(4096)
	t.Cleanup(func() { _ = a.Close() })

	p, err := a.Allocate(100)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	_ = p

	stats := a.Stats()
	// A single allocation well under minGrowth triggers exactly one
	// growFirst call, which commits capacity plus the two sentinel
	// fence words surrounding it.
	want := uintptr(stats.Capacity) + fenceOverhead
	if a.grower.raw.committed != want {
		t.Errorf("committed = %d, want %d (Stats().Capacity %d + two sentinels)",
			a.grower.raw.committed, want, stats.Capacity)
	}
}
