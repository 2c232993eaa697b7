//go:build linux || darwin

package malloc

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// reserveSize is the amount of virtual address space reserved, but
// not committed, for the heap to grow into. Go has no sbrk(2); the
// idiomatic substitute (see rclone's mmap allocator and hivekit's
// mmap-backed hive reader) is a single large anonymous mapping whose
// pages are brought online with mprotect as the heap grows, giving
// the heap a single contiguous extent without committing physical
// memory up front.
const reserveSize = 1 << 34 // 16 GiB of reserved address space

// brkPrimitive is the OS-facing half of the heap growth primitive: it
// owns the raw address-space reservation and exposes only "commit n
// more bytes" and "page size", leaving the sentinel/fence bookkeeping
// to heapGrower in brk.go.
type brkPrimitive struct {
	region    []byte // keeps the mapping's backing memory referenced
	base      uintptr
	committed uintptr
}

func newBrkPrimitive() (*brkPrimitive, error) {
	region, err := unix.Mmap(-1, 0, reserveSize,
		unix.PROT_NONE, unix.MAP_PRIVATE|unix.MAP_ANON|unix.MAP_NORESERVE)
	if err != nil {
		return nil, fmt.Errorf("%w: reserve address space: %v", ErrOutOfMemory, err)
	}
	return &brkPrimitive{
		region: region,
		base:   uintptr(unsafe.Pointer(&region[0])),
	}, nil
}

// growRaw commits n more bytes (already rounded to a page multiple)
// at the end of the previously committed range and returns that
// range's start address — the mmap/mprotect analogue of sbrk's
// "previous break".
func (b *brkPrimitive) growRaw(n uintptr) (uintptr, error) {
	if n == 0 {
		return b.base + b.committed, nil
	}
	if b.committed+n > reserveSize {
		return 0, ErrOutOfMemory
	}
	start := b.base + b.committed
	region := unsafe.Slice((*byte)(unsafe.Pointer(start)), n)
	if err := unix.Mprotect(region, unix.PROT_READ|unix.PROT_WRITE); err != nil {
		return 0, fmt.Errorf("%w: mprotect: %v", ErrOutOfMemory, err)
	}
	b.committed += n
	return start, nil
}

// release unmaps the entire reservation. Called only when an
// Allocator is explicitly torn down; there is no partial madvise-style
// shrink.
func (b *brkPrimitive) release() error {
	if b.region == nil {
		return nil
	}
	err := unix.Munmap(b.region)
	b.region = nil
	return err
}

func queryPageSize() uintptr {
	return uintptr(unix.Getpagesize())
}
