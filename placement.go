package malloc

// This file implements first-fit placement with split-on-allocate,
// and release with bidirectional coalescing.

// requiredChunkSize computes the total chunk size (both fences
// included) needed to satisfy a request for n payload bytes: large
// enough to re-host a free node if later released, never smaller than
// minChunk, and alignment-rounded.
func requiredChunkSize(n uintptr) uintptr {
	payload := n
	if payload < diffOverhead {
		payload = diffOverhead
	}
	return roundUpAlign(payload + fenceOverhead)
}

func roundUpAlign(x uintptr) uintptr {
	return ((x-1)/alignSize)*alignSize + alignSize
}

// splitChunk carves fit down to exactly `required` bytes and returns
// the now-used chunk. Splitting always happens at fit's high end: the
// remainder, if large enough to host a free node, replaces fit in the
// free list at fit's former position; otherwise fit is removed from
// the list and handed out whole (the effective size extends to fit's
// full size, not just `required`).
func splitChunk(list *freeList, fit chunkHandle, required uintptr) chunkHandle {
	total := chunkSize(fit)
	remainderSize := total - required

	if remainderSize >= minChunk {
		remainder := chunkHandle(fit.addr() + required)
		assignFree(remainder, remainderSize)
		list.replace(fit, remainder)
		assignUsed(fit, required)
		return fit
	}

	list.remove(fit)
	assignUsed(fit, total)
	return fit
}

// releaseChunk marks c free, inserts it into list, and attempts
// bidirectional coalescing with its neighbours (coalescing enabled;
// see DESIGN.md for the rationale).
func releaseChunk(list *freeList, c chunkHandle) {
	size := chunkSize(c)
	assignFree(c, size)
	list.insertByAddress(c)
	fuseUp(list, c)
}

// fuseUp merges c with its predecessor if the predecessor is a free
// chunk, then attempts fuseDown on the (possibly merged) result.
// Sentinels are always marked used, so fusion naturally halts at
// heap boundaries (invariant 4) without special-casing them here.
func fuseUp(list *freeList, c chunkHandle) chunkHandle {
	prev := precedingFreeChunk(c)
	if !prev.valid() {
		return fuseDown(list, c)
	}
	return fuseDown(list, mergeAdjacent(list, prev, c))
}

// fuseDown merges c with its successor if the successor is free.
func fuseDown(list *freeList, c chunkHandle) chunkHandle {
	next := nextChunk(c)
	if chunkIsUsed(next) {
		return c
	}
	return mergeAdjacent(list, c, next)
}

// mergeAdjacent fuses two adjacent free chunks — lo directly followed
// by hi in address order — into one, splicing both originals out of
// the free list and reinserting the survivor at lo's address.
func mergeAdjacent(list *freeList, lo, hi chunkHandle) chunkHandle {
	list.remove(lo)
	list.remove(hi)
	combined := chunkSize(lo) + chunkSize(hi)
	assignFree(lo, combined)
	list.insertByAddress(lo)
	return lo
}
