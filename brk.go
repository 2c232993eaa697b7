package malloc

// This file implements the platform-independent half of heap growth:
// first-touch vs. subsequent growth bookkeeping and sentinel
// placement, layered atop the raw commit primitive in
// brk_unix.go/brk_other.go.

// heapGrower extends a single contiguous heap extent by whole pages,
// installing sentinel fences at both ends of the committed range.
type heapGrower struct {
	raw       *brkPrimitive
	pageSize  uintptr
	minGrowth uintptr // floor applied to every requested growth, like a chunk-size hint

	heapStart    uintptr // first byte past the low sentinel; zero until first growth
	highSentinel uintptr // address of the current high sentinel word
}

// grow extends the heap to provide at least requestedBytes of new
// free interior, returning a chunk handle for that interior (not yet
// linked into any free list — the caller inserts it) or an error.
func (g *heapGrower) grow(requestedBytes uintptr) (chunkHandle, error) {
	if g.raw == nil {
		raw, err := newBrkPrimitive()
		if err != nil {
			return 0, err
		}
		g.raw = raw
	}
	if requestedBytes < g.minGrowth {
		requestedBytes = g.minGrowth
	}

	if g.heapStart == 0 {
		return g.growFirst(requestedBytes)
	}
	return g.growSubsequent(requestedBytes)
}

// growFirst queries and caches the page size, then carves out the low
// and high sentinels around the heap's initial free interior.
func (g *heapGrower) growFirst(requestedBytes uintptr) (chunkHandle, error) {
	g.pageSize = queryPageSize()
	size := roundUpPage(requestedBytes+fenceOverhead, g.pageSize)

	start, err := g.raw.growRaw(size)
	if err != nil {
		return 0, err
	}

	writeSentinel(start)
	g.heapStart = start + fenceSize
	g.highSentinel = start + size - fenceSize
	writeSentinel(g.highSentinel)

	freeSize := size - fenceOverhead
	return assignFree(chunkHandle(g.heapStart), freeSize), nil
}

// growSubsequent commits more pages and reuses the address that
// previously held the high sentinel as the header of the new free
// chunk, writing a fresh high sentinel at the new boundary.
func (g *heapGrower) growSubsequent(requestedBytes uintptr) (chunkHandle, error) {
	size := roundUpPage(requestedBytes, g.pageSize)

	if _, err := g.raw.growRaw(size); err != nil {
		return 0, err
	}

	newChunkStart := g.highSentinel
	freeSize := size
	g.highSentinel = newChunkStart + freeSize
	writeSentinel(g.highSentinel)

	return assignFree(chunkHandle(newChunkStart), freeSize), nil
}

// roundUpPage rounds x up to the next multiple of page (page must be
// a power of two, as returned by queryPageSize).
func roundUpPage(x, page uintptr) uintptr {
	return ((x-1)/page)*page + page
}
