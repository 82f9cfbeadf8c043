// Package memory provides in-memory storage for keva.
package memory

import "container/heap"

// expiryPair links an expiration deadline to the key it was recorded for.
//
// Pairs are never removed when an entry is overwritten or deleted, so a
// pair may be stale by the time it surfaces at the top of the heap. The
// reaper re-validates each pair against the live entry before deleting.
type expiryPair struct {
	expiresAt int64
	key       string
}

// expiryHeap is a min-heap of expiryPairs ordered by deadline.
type expiryHeap []expiryPair

func (h expiryHeap) Len() int           { return len(h) }
func (h expiryHeap) Less(i, j int) bool { return h[i].expiresAt < h[j].expiresAt }
func (h expiryHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *expiryHeap) Push(x any) {
	*h = append(*h, x.(expiryPair))
}

func (h *expiryHeap) Pop() any {
	old := *h
	n := len(old)
	pair := old[n-1]
	*h = old[:n-1]
	return pair
}

// expiryIndex tracks (deadline, key) pairs so the reaper can find expired
// entries without scanning the whole table.
//
// The index is not safe for concurrent use. The table's write lock guards
// every access.
type expiryIndex struct {
	heap expiryHeap
}

func newExpiryIndex() *expiryIndex {
	return &expiryIndex{heap: make(expiryHeap, 0)}
}

// push records a deadline for a key.
func (idx *expiryIndex) push(expiresAt int64, key string) {
	heap.Push(&idx.heap, expiryPair{expiresAt: expiresAt, key: key})
}

// peekMin returns the earliest recorded pair without removing it.
func (idx *expiryIndex) peekMin() (expiryPair, bool) {
	if len(idx.heap) == 0 {
		return expiryPair{}, false
	}
	return idx.heap[0], true
}

// popMin removes and returns the earliest recorded pair.
func (idx *expiryIndex) popMin() (expiryPair, bool) {
	if len(idx.heap) == 0 {
		return expiryPair{}, false
	}
	return heap.Pop(&idx.heap).(expiryPair), true
}

// len returns the number of recorded pairs, stale ones included.
func (idx *expiryIndex) len() int {
	return len(idx.heap)
}

// clear drops all recorded pairs.
func (idx *expiryIndex) clear() {
	idx.heap = idx.heap[:0]
}
