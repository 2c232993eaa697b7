package malloc

import "unsafe"

// Word and alignment sizes. The design assumes an 8-byte machine word
// (amd64/arm64) and a 16-byte chunk alignment, matching
// original_source/malloc.c's SIZE_T_SIZE/ALIGN_SIZE.
const (
	wordSize  = unsafe.Sizeof(uintptr(0))
	alignSize = 2 * wordSize
	fenceSize = wordSize

	// A free node holds size (in its header fence), prev and next (in
	// its payload) — three words — matching original_source's struct
	// fnode.
	freeNodeSize  = 3 * wordSize
	nodeOverhead  = freeNodeSize + fenceSize
	fenceOverhead = 2 * fenceSize
	diffOverhead  = freeNodeSize - fenceSize

	// minChunk is the smallest chunk that can ever exist: large enough
	// to re-host a free node (size+prev+next) plus its footer fence,
	// rounded up to alignment.
	minChunk = ((freeNodeSize + fenceSize + (alignSize - 1)) / alignSize) * alignSize

	usedBit = uintptr(1)

	// sentinelWord is the complete raw fence word stored at each heap
	// extremity: used-bit set, decoded size zero. The raw encoded word
	// equals 1; once the used bit is masked off by sizeOfWord, the
	// decoded size is 0, correctly describing a sentinel's zero-length
	// payload.
	sentinelWord = usedBit
)

// chunkHandle addresses the first byte of a chunk's header fence.
// It is an internal accounting address, distinct from the payload
// pointer handed to callers, so that code operating on chunk metadata
// can never be confused with code operating on caller-owned bytes
// (design note: typed chunk/payload handles).
type chunkHandle uintptr

func (c chunkHandle) addr() uintptr { return uintptr(c) }

func (c chunkHandle) valid() bool { return c != 0 }

// payload returns the address immediately following c's header fence,
// the pointer handed back to the caller by the allocation path.
func (c chunkHandle) payload() PayloadHandle {
	return PayloadHandle(unsafe.Pointer(c.addr() + fenceSize)) //nolint:govet
}

// PayloadHandle is the opaque handle returned by Allocate,
// ZeroAllocate, and Resize. It addresses the first byte of a chunk's
// payload. Callers may convert it to a typed Go pointer via
// unsafe.Pointer for their own use but must not perform address
// arithmetic on it directly — doing so steps outside the region this
// allocator accounts for.
type PayloadHandle unsafe.Pointer

// payloadToChunk recovers the owning chunk handle from a payload
// handle by stepping back one fence width.
func payloadToChunk(p PayloadHandle) chunkHandle {
	return chunkHandle(uintptr(unsafe.Pointer(p)) - fenceSize)
}

func loadWord(addr uintptr) uintptr {
	return *(*uintptr)(unsafe.Pointer(addr)) //nolint:govet
}

func storeWord(addr uintptr, v uintptr) {
	*(*uintptr)(unsafe.Pointer(addr)) = v //nolint:govet
}
