package malloc

// This file implements a doubly linked, address-ordered free list
// threaded through the payload of each free chunk. The list owns no
// memory of its own: it is a view over links stored in the heap
// arena, not storage either neighbour chunk owns — it only reads and
// rewrites the two back-reference words living in each free chunk's
// payload.

func freeNodePrevAddr(c chunkHandle) uintptr { return c.addr() + fenceSize }

func freeNodeNextAddr(c chunkHandle) uintptr { return c.addr() + fenceSize + wordSize }

func readFreePrev(c chunkHandle) chunkHandle { return chunkHandle(loadWord(freeNodePrevAddr(c))) }

func readFreeNext(c chunkHandle) chunkHandle { return chunkHandle(loadWord(freeNodeNextAddr(c))) }

func writeFreePrev(c chunkHandle, prev chunkHandle) { storeWord(freeNodePrevAddr(c), prev.addr()) }

func writeFreeNext(c chunkHandle, next chunkHandle) { storeWord(freeNodeNextAddr(c), next.addr()) }

// freeList is a doubly linked, strictly address-ascending list of free
// chunks. The zero value is an empty list.
type freeList struct {
	head chunkHandle
}

// insertByAddress splices item into the list at its address-ordered
// position. O(n): walks from the head until the next element's
// address exceeds item, mirroring original_source's
// malloc_list_addr_insert.
func (l *freeList) insertByAddress(item chunkHandle) {
	if !l.head.valid() || item.addr() < l.head.addr() {
		writeFreePrev(item, 0)
		writeFreeNext(item, l.head)
		if l.head.valid() {
			writeFreePrev(l.head, item)
		}
		l.head = item
		return
	}
	front := l.head
	for readFreeNext(front).valid() && readFreeNext(front).addr() < item.addr() {
		front = readFreeNext(front)
	}
	next := readFreeNext(front)
	writeFreePrev(item, front)
	writeFreeNext(item, next)
	writeFreeNext(front, item)
	if next.valid() {
		writeFreePrev(next, item)
	}
}

// remove splices a known-present node out of the list. O(n): a
// forward walk is used whenever node is not the head, matching
// malloc_list_remove.
func (l *freeList) remove(node chunkHandle) {
	if l.head == node {
		next := readFreeNext(node)
		l.head = next
		if next.valid() {
			writeFreePrev(next, 0)
		}
		return
	}
	front := l.head
	for front.valid() && readFreeNext(front) != node {
		front = readFreeNext(front)
	}
	if !front.valid() {
		return
	}
	next := readFreeNext(node)
	writeFreeNext(front, next)
	if next.valid() {
		writeFreePrev(next, front)
	}
}

// replace swaps old for replacement at old's exact list position,
// preserving replacement's own size/used fences (already written by
// the caller) and rewiring old's neighbours to point at replacement.
// Used by the split path when a found chunk shrinks into its
// remainder rather than being removed outright.
func (l *freeList) replace(old, replacement chunkHandle) {
	prev := readFreePrev(old)
	next := readFreeNext(old)
	writeFreePrev(replacement, prev)
	writeFreeNext(replacement, next)
	if prev.valid() {
		writeFreeNext(prev, replacement)
	} else {
		l.head = replacement
	}
	if next.valid() {
		writeFreePrev(next, replacement)
	}
}

// findFirstFit returns the first free chunk whose size is at least
// required, or the zero handle on exhaustion.
func (l *freeList) findFirstFit(required uintptr) chunkHandle {
	for c := l.head; c.valid(); c = readFreeNext(c) {
		if chunkSize(c) >= required {
			return c
		}
	}
	return 0
}
