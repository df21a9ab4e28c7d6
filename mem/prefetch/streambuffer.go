// Package prefetch provides the prefetching machinery of the cache models:
// a stream buffer holding sequentially prefetched blocks, a stride
// predictor, and an adaptive prefetcher that tunes mode and distance.
package prefetch

// A StreamBuffer is a small FIFO of prefetched block addresses that a cache
// probes on a miss before it evicts anything. A hit consumes the prefix of
// the buffer up to the matched slot, so the buffer acts as a lookahead
// window over a sequential stream, not as a random-access cache.
type StreamBuffer struct {
	entries   []uint64
	count     int
	lastHit   int
	valid     bool
	blockSize uint64

	accesses uint64
	hits     uint64
}

// NewStreamBuffer creates a stream buffer holding up to size block
// addresses. Prefetched slots advance in blockSize units.
func NewStreamBuffer(size int, blockSize uint64) *StreamBuffer {
	if size <= 0 {
		size = 1
	}

	return &StreamBuffer{
		entries:   make([]uint64, size),
		lastHit:   -1,
		blockSize: blockSize,
	}
}

// Access probes the buffer for the block holding addr. On a hit the matched
// slot index is remembered so that a later Shift can consume the prefix.
func (b *StreamBuffer) Access(addr uint64) bool {
	b.accesses++

	if !b.valid {
		return false
	}

	blockAddr := addr / b.blockSize * b.blockSize
	for i := 0; i < b.count; i++ {
		if b.entries[i] == blockAddr {
			b.lastHit = i
			b.hits++

			return true
		}
	}

	return false
}

// Prefetch refills the buffer with base and the following blocks at unit
// block stride, replacing any previous content.
func (b *StreamBuffer) Prefetch(base uint64) {
	base = base / b.blockSize * b.blockSize
	for i := range b.entries {
		b.entries[i] = base + uint64(i)*b.blockSize
	}

	b.count = len(b.entries)
	b.lastHit = -1
	b.valid = true
}

// Shift discards every slot up to and including the last hit and moves the
// remaining entries to the front. Called on a read hit so that the buffer
// keeps tracking the stream one block ahead.
func (b *StreamBuffer) Shift() {
	if b.lastHit < 0 {
		return
	}

	keep := b.count - b.lastHit - 1
	copy(b.entries, b.entries[b.lastHit+1:b.count])
	for i := keep; i < b.count; i++ {
		b.entries[i] = 0
	}

	b.count = keep
	b.lastHit = -1

	if b.count == 0 {
		b.valid = false
	}
}

// Size returns the capacity of the buffer in blocks.
func (b *StreamBuffer) Size() int {
	return len(b.entries)
}

// Accesses returns how many times the buffer was probed.
func (b *StreamBuffer) Accesses() uint64 {
	return b.accesses
}

// Hits returns how many probes matched a prefetched block.
func (b *StreamBuffer) Hits() uint64 {
	return b.hits
}

// Reset empties the buffer and zeroes its counters.
func (b *StreamBuffer) Reset() {
	for i := range b.entries {
		b.entries[i] = 0
	}
	b.count = 0
	b.lastHit = -1
	b.valid = false
	b.accesses = 0
	b.hits = 0
}
