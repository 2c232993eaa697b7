//go:build !linux && !darwin

package malloc

import (
	"fmt"
	"runtime"
)

// brkPrimitive has no implementation outside linux/darwin: the
// reservation strategy in brk_unix.go depends on mmap/mprotect
// semantics this package does not attempt to emulate elsewhere.
type brkPrimitive struct{}

func newBrkPrimitive() (*brkPrimitive, error) {
	return nil, fmt.Errorf("malloc: unsupported platform %s", runtime.GOOS)
}

func (b *brkPrimitive) growRaw(n uintptr) (uintptr, error) { return 0, ErrOutOfMemory }

func (b *brkPrimitive) release() error { return nil }

func queryPageSize() uintptr { return 4096 }
