package malloc

import "errors"

// Sentinel errors returned by the public entry points. Rather than a
// global flag callers must check after every call (the classical
// errno = ENOMEM), the failure indicator travels with the call as a
// second return value. See DESIGN.md for the rationale.
var (
	// ErrOutOfMemory is returned when the heap cannot grow to satisfy
	// a request, whether because the kernel refused further pages or
	// because the address-space reservation is exhausted.
	ErrOutOfMemory = errors.New("malloc: out of memory")

	// ErrOverflow is returned by ZeroAllocate when count*elemSize
	// would overflow the size accounting word.
	ErrOverflow = errors.New("malloc: allocation size would overflow")
)
