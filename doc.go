// Package malloc implements a boundary-tagged, first-fit, coalescing
// free-chunk heap allocator on top of a page-granular break primitive.
//
// # Overview
//
// Unlike a bump/arena allocator, this allocator supports individual
// release of any previously allocated chunk: released chunks are
// tracked on an address-ordered free list and coalesced with their
// immediate neighbours, so a churn of allocate/release pairs does not
// monotonically grow the heap.
//
// # Basic Usage
//
//	a := malloc.NewAllocator(0) // default growth increment
//
//	p, err := a.Allocate(128)
//	if err != nil {
//		// out of memory
//	}
//
//	z, _ := a.ZeroAllocate(16, 8) // 16 elements of 8 bytes, zeroed
//	q, _ := a.Resize(p, 256)      // p itself if it already holds 256 bytes, else a copy (p is released)
//	defer a.Release(q)
//
// A package-level Default allocator and matching free functions
// (Allocate, Release, ZeroAllocate, Resize) are provided for callers
// that want a single process-wide heap, mirroring the classical
// malloc/free/calloc/realloc contract.
//
// # Thread Safety
//
// Every exported operation on Allocator acquires a single internal
// mutex for its entire duration. There is no unlocked variant: the
// chunk layout, free list, and heap extent are shared state, and the
// design deliberately serializes all mutation rather than offering a
// faster, racy path.
//
// # Memory Layout
//
// The heap is one contiguous extent bounded by a one-word sentinel
// fence at each end. It grows by whole pages at its high-address end
// via an OS-specific break primitive (brk.go). Every chunk inside the
// heap is bounded by a matching header/footer fence pair encoding its
// size and used/free state, which lets a released chunk find both
// neighbours in O(1) and coalesce with either.
//
// # Performance Characteristics
//
//   - Allocate: O(n) in the number of free chunks (first-fit walk)
//   - Release: O(n); neighbours are found in O(1), but the free-list
//     insertion and each merge with a neighbour walk the free list
//   - Growth: amortized, one page-multiple mmap/mprotect call per growth
//
// # Important Notes
//
//   - Allocated memory is only valid until Release or until the
//     Allocator is discarded; there is no GC tracking of handles.
//   - Memory returned by Allocate is not zeroed; use ZeroAllocate for
//     zero-filled memory.
//   - All returned payload handles are 16-byte aligned.
//
// # Introspection
//
// Stats returns a point-in-time snapshot of heap usage:
//
//	s := a.Stats()
//	fmt.Printf("used: %d/%d bytes across %d chunks\n", s.BytesUsed, s.Capacity, s.ChunkCount)
package malloc
