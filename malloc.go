package malloc

import (
	"math/bits"
	"sync"
	"unsafe"
)

// DefaultGrowthHint is the minimum number of bytes requested from the
// heap growth primitive on any single growth: small allocations still
// cause the heap to grow in comfortably-sized, page-rounded
// increments rather than one page at a time.
const DefaultGrowthHint = 1 << 16

// Allocator is a boundary-tagged, first-fit, coalescing heap manager.
// Every exported method acquires a single internal mutex for its
// entire duration: there is no unlocked variant to opt into.
//
// The zero value is not usable; construct with NewAllocator.
type Allocator struct {
	mu     sync.Mutex
	free   freeList
	grower heapGrower
}

// NewAllocator creates an Allocator. growthHint is a floor applied to
// every heap growth, rounded up to the page size; if growthHint <= 0,
// DefaultGrowthHint is used. The underlying OS reservation is made
// lazily, on the first allocation, so a constructed-but-unused
// Allocator never touches the OS.
func NewAllocator(growthHint int) *Allocator {
	if growthHint <= 0 {
		growthHint = DefaultGrowthHint
	}
	return &Allocator{grower: heapGrower{minGrowth: uintptr(growthHint)}}
}

// Allocate reserves n bytes and returns a 16-byte-aligned payload
// handle, or nil with ErrOutOfMemory if the heap cannot grow to
// satisfy the request. A negative n returns (nil, ErrOverflow).
func (a *Allocator) Allocate(n int) (PayloadHandle, error) {
	if n < 0 {
		return nil, ErrOverflow
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.allocateLocked(sizeArg(n))
}

// allocateLocked runs the first-fit-then-split allocation path.
// Callers must hold a.mu.
func (a *Allocator) allocateLocked(n uintptr) (PayloadHandle, error) {
	req := requiredChunkSize(n)

	fit := a.free.findFirstFit(req)
	if !fit.valid() {
		grown, err := a.grower.grow(req)
		if err != nil {
			return nil, err
		}
		a.free.insertByAddress(grown)
		fit = grown
	}

	used := splitChunk(&a.free, fit, req)
	return used.payload(), nil
}

// Release returns a previously allocated chunk to the pool. Releasing
// nil is a no-op. Releasing a handle not obtained from this Allocator,
// or releasing the same handle twice, is undefined — this method does
// not attempt to detect either.
func (a *Allocator) Release(p PayloadHandle) {
	if p == nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	releaseChunk(&a.free, payloadToChunk(p))
}

// ZeroAllocate reserves space for count elements of elemSize bytes
// each, zero-fills it, and returns the payload handle. It returns
// ErrOverflow without ever touching the heap if count*elemSize would
// overflow the size accounting word.
func (a *Allocator) ZeroAllocate(count, elemSize int) (PayloadHandle, error) {
	if count < 0 || elemSize < 0 {
		return nil, ErrOverflow
	}
	c, e := uint64(count), uint64(elemSize)
	if bits.Len64(c)+bits.Len64(e) > int(8*wordSize) {
		return nil, ErrOverflow
	}
	total := uintptr(c * e)

	a.mu.Lock()
	defer a.mu.Unlock()
	p, err := a.allocateLocked(total)
	if err != nil {
		return nil, err
	}
	zeroPayload(p, total)
	return p, nil
}

// Resize changes the capacity behind p to n bytes. A nil p behaves
// like Allocate(n). An n of zero behaves like Release(p) and returns
// (nil, nil) — see DESIGN.md for why this departs from the classical
// realloc(p,0) contract. A negative n returns (nil, ErrOverflow)
// without touching p. If p's current chunk already has capacity >= n,
// p is returned unchanged. Otherwise a new chunk is allocated, the
// lesser of the old and new capacities is copied across, and the old
// chunk is released. On allocation failure the original chunk is left
// intact and (nil, ErrOutOfMemory) is returned.
func (a *Allocator) Resize(p PayloadHandle, n int) (PayloadHandle, error) {
	if n < 0 {
		return nil, ErrOverflow
	}
	if p == nil {
		return a.Allocate(n)
	}
	if n == 0 {
		a.Release(p)
		return nil, nil
	}

	newSize := sizeArg(n)
	a.mu.Lock()
	defer a.mu.Unlock()
	oldCapacity := chunkSize(payloadToChunk(p)) - fenceOverhead
	if oldCapacity >= newSize {
		return p, nil
	}

	newP, err := a.allocateLocked(newSize)
	if err != nil {
		return nil, err
	}
	copyPayload(newP, p, minUintptr(oldCapacity, newSize))
	releaseChunk(&a.free, payloadToChunk(p))
	return newP, nil
}

// Close unmaps the Allocator's underlying address-space reservation.
// The allocator otherwise lives and dies with the process; Close is
// provided so long-running hosts (the mallocctl CLI, tests) can tear
// an Allocator down deterministically instead of leaking the
// reservation until process exit.
func (a *Allocator) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.grower.raw == nil {
		return nil
	}
	return a.grower.raw.release()
}

// sizeArg converts a caller-supplied int size to uintptr. Callers must
// reject n < 0 themselves (Allocate and Resize both do, returning
// ErrOverflow) — converting a negative int directly would wrap to a
// huge uintptr that findFirstFit/requiredChunkSize could satisfy with
// a small, wrong-sized chunk instead of failing.
func sizeArg(n int) uintptr { return uintptr(n) }

func minUintptr(a, b uintptr) uintptr {
	if a < b {
		return a
	}
	return b
}

// zeroPayload clears n bytes starting at p's address: whole words via
// storeWord, then the trailing n mod wordSize bytes individually, so
// that (unlike the original's zero_allocate) no indeterminate tail
// byte is ever left behind. See DESIGN.md Open Question 4.
func zeroPayload(p PayloadHandle, n uintptr) {
	base := uintptr(unsafe.Pointer(p)) //nolint:govet
	words := n / wordSize
	for i := uintptr(0); i < words; i++ {
		storeWord(base+i*wordSize, 0)
	}
	tailStart := base + words*wordSize
	for i := uintptr(0); i < n%wordSize; i++ {
		*(*byte)(unsafe.Pointer(tailStart + i)) = 0 //nolint:govet
	}
}

// copyPayload copies n bytes from src to dst, word at a time with a
// byte-wise tail, mirroring the original realloc's word-granularity
// copy loop.
func copyPayload(dst, src PayloadHandle, n uintptr) {
	dstBase := uintptr(unsafe.Pointer(dst)) //nolint:govet
	srcBase := uintptr(unsafe.Pointer(src)) //nolint:govet
	words := n / wordSize
	for i := uintptr(0); i < words; i++ {
		storeWord(dstBase+i*wordSize, loadWord(srcBase+i*wordSize))
	}
	dstTail, srcTail := dstBase+words*wordSize, srcBase+words*wordSize
	for i := uintptr(0); i < n%wordSize; i++ {
		*(*byte)(unsafe.Pointer(dstTail + i)) = *(*byte)(unsafe.Pointer(srcTail + i)) //nolint:govet
	}
}

// Default is the package-level allocator backing the free-function
// convenience API (Allocate, Release, ZeroAllocate, Resize), for
// callers that want a single process-wide heap mirroring the
// classical malloc/free/calloc/realloc global contract.
var Default = NewAllocator(0)

// Allocate reserves n bytes from the Default allocator.
func Allocate(n int) (PayloadHandle, error) { return Default.Allocate(n) }

// Release returns p to the Default allocator.
func Release(p PayloadHandle) { Default.Release(p) }

// ZeroAllocate reserves zero-filled space for count elements of
// elemSize bytes from the Default allocator.
func ZeroAllocate(count, elemSize int) (PayloadHandle, error) {
	return Default.ZeroAllocate(count, elemSize)
}

// Resize changes the capacity behind p to n bytes using the Default
// allocator.
func Resize(p PayloadHandle, n int) (PayloadHandle, error) { return Default.Resize(p, n) }
