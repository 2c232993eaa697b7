package malloc

// This file is the ambient introspection/debug-printing surface that
// sits beyond the four core entry points, grounded on the
// ArenaMetrics/Metrics() snapshot style and on original_source's
// malloc_print_free_chunks/malloc_print_all_chunks walkers (translated
// from printf-based debug output into callback-driven traversal so
// callers, and the package's own tests, can assert on it directly).

// ChunkInfo describes one chunk for introspection purposes. Addr is
// exposed only as an opaque identifier (comparisons and logging); it
// is not a valid payload handle.
type ChunkInfo struct {
	Addr uintptr
	Size int
	Used bool
}

// HeapStats is a point-in-time snapshot of heap usage.
type HeapStats struct {
	BytesUsed      int // sum of used chunk sizes, fences included
	BytesFree      int // sum of free chunk sizes, fences included
	Capacity       int // BytesUsed + BytesFree
	ChunkCount     int // used + free chunks, sentinels excluded
	FreeChunkCount int // chunks reachable from the free list
	Utilization    float64
}

// WalkChunks calls fn for every chunk from the low sentinel to the
// high sentinel, in address order, stopping early if fn returns
// false. It does not visit the sentinels themselves. Mirrors
// original_source's malloc_print_all_chunks.
func (a *Allocator) WalkChunks(fn func(ChunkInfo) bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.walkChunksLocked(fn)
}

func (a *Allocator) walkChunksLocked(fn func(ChunkInfo) bool) {
	if a.grower.heapStart == 0 {
		return
	}
	for c := chunkHandle(a.grower.heapStart); !isSentinel(c); c = nextChunk(c) {
		info := ChunkInfo{Addr: c.addr(), Size: int(chunkSize(c)), Used: chunkIsUsed(c)}
		if !fn(info) {
			return
		}
	}
}

// WalkFreeList calls fn for every chunk on the free list, in its
// native address order, stopping early if fn returns false. Mirrors
// original_source's malloc_print_free_chunks.
func (a *Allocator) WalkFreeList(fn func(ChunkInfo) bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for c := a.free.head; c.valid(); c = readFreeNext(c) {
		info := ChunkInfo{Addr: c.addr(), Size: int(chunkSize(c)), Used: false}
		if !fn(info) {
			return
		}
	}
}

// Stats returns a snapshot computed by a single fence traversal.
func (a *Allocator) Stats() HeapStats {
	a.mu.Lock()
	defer a.mu.Unlock()

	var s HeapStats
	a.walkChunksLocked(func(c ChunkInfo) bool {
		s.ChunkCount++
		if c.Used {
			s.BytesUsed += c.Size
		} else {
			s.BytesFree += c.Size
			s.FreeChunkCount++
		}
		return true
	})
	s.Capacity = s.BytesUsed + s.BytesFree
	if s.Capacity > 0 {
		s.Utilization = float64(s.BytesUsed) / float64(s.Capacity)
	}
	return s
}
