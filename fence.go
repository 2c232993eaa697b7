package malloc

// This file implements purely computational operations over chunk
// fences. A fence word packs the chunk's total size (header through
// footer, inclusive) in its high bits and a used/free flag in its low
// bit, mirroring original_source's SET_USED/SET_FREE/ISUSED/GETSIZE
// macros translated into named helpers.

func markUsed(word uintptr) uintptr { return word | usedBit }

func markFree(word uintptr) uintptr { return word &^ usedBit }

func isUsedWord(word uintptr) bool { return word&usedBit != 0 }

func sizeOfWord(word uintptr) uintptr { return word &^ usedBit }

// readHeader/writeHeader access the single word at a chunk's start.
func readHeader(c chunkHandle) uintptr { return loadWord(c.addr()) }

func writeHeader(c chunkHandle, word uintptr) { storeWord(c.addr(), word) }

// chunkSize reads the chunk's total size (fences included) from its
// header. Header and footer are kept identical by every writer in
// this package (invariant 1), so the header alone is authoritative.
func chunkSize(c chunkHandle) uintptr { return sizeOfWord(readHeader(c)) }

func chunkIsUsed(c chunkHandle) bool { return isUsedWord(readHeader(c)) }

// footerAddr returns the address of c's footer fence word.
func footerAddr(c chunkHandle) uintptr {
	return c.addr() + chunkSize(c) - fenceSize
}

func readFooter(c chunkHandle) uintptr { return loadWord(footerAddr(c)) }

func writeFooter(c chunkHandle, word uintptr) { storeWord(footerAddr(c), word) }

// writeFences stamps both the header and footer of c with the same
// size/used word, satisfying invariants 1 and 2 by construction.
func writeFences(c chunkHandle, size uintptr, used bool) {
	word := size
	if used {
		word = markUsed(word)
	} else {
		word = markFree(word)
	}
	writeHeader(c, word)
	storeWord(c.addr()+size-fenceSize, word)
}

// writeSentinel stamps a one-word sentinel fence at addr, terminating
// neighbour traversal per invariant 4.
func writeSentinel(addr uintptr) {
	storeWord(addr, sentinelWord)
}

func isSentinel(c chunkHandle) bool {
	return readHeader(c) == sentinelWord
}

// nextChunk returns the chunk whose header sits immediately after c's
// footer (invariant 3: chunks tile the heap exactly). c must be a real
// (non-sentinel) chunk; callers check isSentinel before advancing.
func nextChunk(c chunkHandle) chunkHandle {
	return chunkHandle(footerAddr(c) + fenceSize)
}

// precedingFreeChunk inspects the fence word immediately before c. If
// it belongs to a free chunk, that chunk's handle is returned; if it
// belongs to a used chunk or a sentinel (both have the used bit set),
// the zero handle is returned. Only a free neighbour's raw size word
// is safe to use for backward address arithmetic — a sentinel's raw
// word (1) is a marker, not a byte count, so it must never be stepped
// over (invariant 4; mirrors original_source's fuse_up, which checks
// ISUSED before computing prev_node's address at all).
func precedingFreeChunk(c chunkHandle) chunkHandle {
	word := loadWord(c.addr() - fenceSize)
	if isUsedWord(word) {
		return 0
	}
	return chunkHandle(c.addr() - sizeOfWord(word))
}

// assignFree initializes a chunk as a free node: both fences written
// with the used bit clear, and its prev/next free-list links reset to
// null. Mirrors original_source's malloc_fnode_assign_free.
func assignFree(c chunkHandle, size uintptr) chunkHandle {
	writeFences(c, size, false)
	writeFreePrev(c, 0)
	writeFreeNext(c, 0)
	return c
}

// assignUsed initializes a chunk as used: both fences written with
// the used bit set. Mirrors malloc_fnode_assign_used.
func assignUsed(c chunkHandle, size uintptr) {
	writeFences(c, size, true)
}
