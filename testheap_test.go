package malloc

import (
	"testing"
	"unsafe"
)

// newTestHeap builds a synthetic heap inside a plain Go byte slice,
// bypassing the real OS brk primitive, for unit tests that only care
// about fence/free-list/placement invariants and don't need a real
// Allocator. It installs both sentinels and returns a single free
// chunk spanning the interior. size must be a multiple of alignSize
// and large enough to hold at least one chunk plus the two sentinels.
func newTestHeap(t *testing.T, size int) chunkHandle {
	t.Helper()
	buf := make([]byte, size)
	t.Cleanup(func() { _ = buf }) // keep buf referenced for the test's lifetime

	base := uintptr(unsafe.Pointer(&buf[0])) //nolint:govet
	writeSentinel(base)
	writeSentinel(base + uintptr(size) - fenceSize)

	interior := base + fenceSize
	interiorSize := uintptr(size) - fenceOverhead
	return assignFree(chunkHandle(interior), interiorSize)
}
