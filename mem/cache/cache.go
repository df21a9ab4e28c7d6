// Package cache models one level of a set-associative cache. The model
// tracks tags and flags only; it is driven synchronously, one access at a
// time, by the memory hierarchy above it.
package cache

import (
	"github.com/muditbhargava66/CacheSimulator-sub000/mem/cache/replacement"
	"github.com/muditbhargava66/CacheSimulator-sub000/mem/coherence"
	"github.com/muditbhargava66/CacheSimulator-sub000/mem/prefetch"
)

// A NextLevel is where a cache sends its writebacks and fetches. It is
// passed into every access instead of being stored, so a Cache keeps no
// back-edge into the hierarchy and can be tested in isolation.
type NextLevel interface {
	Access(addr uint64, isWrite bool) bool
}

// NextLevelFunc adapts a function to the NextLevel interface.
type NextLevelFunc func(addr uint64, isWrite bool) bool

// Access calls the wrapped function.
func (f NextLevelFunc) Access(addr uint64, isWrite bool) bool {
	return f(addr, isWrite)
}

// A Cache is one level of the memory hierarchy.
type Cache struct {
	name string

	byteSize         uint64
	blockSize        uint64
	wayAssociativity int
	numSets          int
	replacementKind  replacement.Kind
	writePolicy      WritePolicy
	prefetchEnabled  bool

	sets         []Set
	streamBuffer *prefetch.StreamBuffer
	mesi         *coherence.Tracker
	clock        *Clock
	stats        Stats

	// Block addresses invalidated by a coherence action. The next miss on
	// such an address is accounted as a coherence miss.
	pendingCoherence map[uint64]bool

	// Block addresses ever brought into this cache, for telling compulsory
	// misses apart from conflict and capacity misses.
	seen map[uint64]struct{}
}

// Access performs one read or write. It returns true on a hit, including a
// hit in the stream buffer. The next level, when present, receives the
// writeback of a dirty victim and the fetch of the missing block. The
// stride predictor, when present, drives the prefetch path on read misses.
func (c *Cache) Access(
	addr uint64,
	isWrite bool,
	next NextLevel,
	predictor *prefetch.StridePredictor,
) bool {
	if isWrite {
		c.stats.Writes++
	} else {
		c.stats.Reads++
	}

	tag, setID := c.decode(addr)
	set := &c.sets[setID]

	if way, ok := set.FindBlock(tag); ok {
		c.handleHit(set, way, addr, isWrite, next)
		return true
	}

	// The stream buffer is probed before any eviction. A match counts as a
	// hit and installs nothing.
	if c.prefetchEnabled && c.streamBuffer.Access(addr) {
		c.stats.Hits++
		c.stats.StreamBufferHits++
		c.stats.PrefetchUseful++
		c.clock.Tick()

		if !isWrite {
			c.streamBuffer.Shift()
		}

		return true
	}

	c.handleMiss(addr, tag, setID, isWrite, next, predictor)

	return false
}

func (c *Cache) handleHit(
	set *Set,
	way int,
	addr uint64,
	isWrite bool,
	next NextLevel,
) {
	block := &set.Blocks[way]
	block.AccessCount++
	block.LastAccess = c.clock.Tick()

	if block.Prefetched {
		block.Prefetched = false
		c.stats.PrefetchUseful++
	}

	if isWrite {
		switch c.writePolicy {
		case WriteBack:
			block.Dirty = true
			block.State = c.mesi.Apply(block.State, coherence.LocalWrite, false)
		case WriteThrough:
			// The block stays clean; the write is mirrored below. No
			// allocation is needed since the block is already resident.
			block.Dirty = false
			if next != nil {
				next.Access(addr, true)
			}
			c.stats.WriteThroughs++
		}
	} else {
		block.State = c.mesi.Apply(block.State, coherence.LocalRead, false)
	}

	set.Policy.OnAccess(way)
	c.stats.Hits++
}

func (c *Cache) handleMiss(
	addr uint64,
	tag uint64,
	setID int,
	isWrite bool,
	next NextLevel,
	predictor *prefetch.StridePredictor,
) {
	c.stats.Misses++

	set := &c.sets[setID]
	c.classifyMiss(addr)

	way := set.Policy.SelectVictim(set.ValidMask())
	c.evictWay(set, way, setID, next)
	c.fetchAndInstall(set, way, addr, tag, isWrite, next)

	if c.prefetchEnabled && !isWrite {
		c.runPrefetch(addr, next, predictor)
	}
}

// evictWay retires the block in the way, writing it back when required.
func (c *Cache) evictWay(set *Set, way int, setID int, next NextLevel) {
	victim := &set.Blocks[way]
	if !victim.Valid {
		return
	}

	if victim.RequiresWriteback() {
		victimAddr := c.encode(victim.Tag, setID)
		if next != nil {
			next.Access(victimAddr, true)
		}
		c.stats.Writebacks++
	}

	if victim.Prefetched && victim.AccessCount == 0 {
		c.stats.PrefetchUseless++
	}

	victim.State = c.mesi.Apply(victim.State, coherence.Evict, false)
	victim.Valid = false
	victim.Dirty = false
}

func (c *Cache) fetchAndInstall(
	set *Set,
	way int,
	addr uint64,
	tag uint64,
	isWrite bool,
	next NextLevel,
) {
	if next != nil {
		// The hit/miss result of the fetch only matters to that level's own
		// statistics.
		next.Access(addr, false)
	}

	block := &set.Blocks[way]
	block.Valid = true
	block.Tag = tag
	block.Prefetched = false
	block.AccessCount = 1
	block.LastAccess = c.clock.Tick()

	if isWrite {
		block.State = c.mesi.Apply(coherence.Invalid, coherence.LocalWrite, false)
		block.Dirty = c.writePolicy == WriteBack

		if c.writePolicy == WriteThrough {
			if next != nil {
				next.Access(addr, true)
			}
			c.stats.WriteThroughs++
		}
	} else {
		block.State = c.mesi.Apply(coherence.Invalid, coherence.LocalRead, false)
		block.Dirty = false
	}

	set.Policy.OnInstall(way)
}

func (c *Cache) classifyMiss(addr uint64) {
	class := c.missClass(addr)
	c.stats.MissesByClass[class]++
}

func (c *Cache) missClass(addr uint64) MissClass {
	blockAddr := c.blockAlign(addr)
	if c.pendingCoherence[blockAddr] {
		delete(c.pendingCoherence, blockAddr)
		return MissCoherence
	}

	if _, ok := c.seen[blockAddr]; !ok {
		c.seen[blockAddr] = struct{}{}
		return MissCompulsory
	}

	if c.wayAssociativity < c.numSets {
		return MissConflict
	}

	return MissCapacity
}

// runPrefetch is the prefetch path taken after a read miss is filled. A
// confident stride installs the predicted block into the cache proper;
// either way the stream buffer is refilled to run ahead of the stream.
func (c *Cache) runPrefetch(
	addr uint64,
	next NextLevel,
	predictor *prefetch.StridePredictor,
) {
	var stride int64
	if predictor != nil {
		stride = predictor.GetStride(addr)
	}

	if stride == 0 {
		c.streamBuffer.Prefetch(c.blockAlign(addr) + c.blockSize)
		c.stats.PrefetchesIssued++

		return
	}

	target := int64(addr) + stride
	if target < 0 {
		// Predicted address left the simulated address space.
		return
	}
	prefetchAddr := uint64(target)

	if !c.Contains(prefetchAddr) {
		c.installPrefetched(prefetchAddr, next)
	}

	c.streamBuffer.Prefetch(c.blockAlign(prefetchAddr))
	c.stats.PrefetchesIssued++
}

func (c *Cache) installPrefetched(addr uint64, next NextLevel) {
	tag, setID := c.decode(addr)
	set := &c.sets[setID]

	way := set.Policy.SelectVictim(set.ValidMask())
	c.evictWay(set, way, setID, next)

	if next != nil {
		next.Access(addr, false)
	}

	block := &set.Blocks[way]
	block.Valid = true
	block.Tag = tag
	block.Dirty = false
	block.State = c.mesi.Apply(coherence.Invalid, coherence.LocalRead, false)
	block.AccessCount = 0
	block.LastAccess = c.clock.Tick()
	block.Prefetched = true

	c.seen[c.blockAlign(addr)] = struct{}{}
	set.Policy.OnInstall(way)
}

// Contains reports whether the block holding addr is resident.
func (c *Cache) Contains(addr uint64) bool {
	tag, setID := c.decode(addr)
	_, ok := c.sets[setID].FindBlock(tag)

	return ok
}

// InvalidateBlock drops the block holding addr, as a remote writer would.
// The next miss on that block is accounted as a coherence miss.
func (c *Cache) InvalidateBlock(addr uint64) {
	tag, setID := c.decode(addr)
	set := &c.sets[setID]

	way, ok := set.FindBlock(tag)
	if !ok {
		return
	}

	block := &set.Blocks[way]
	block.State = c.mesi.Apply(block.State, coherence.RemoteWrite, false)
	block.Valid = false
	block.Dirty = false

	c.pendingCoherence[c.blockAlign(addr)] = true
}

// UpdateMESIState forces the block holding addr into the given state. A
// transition into Invalid also drops the block.
func (c *Cache) UpdateMESIState(addr uint64, state coherence.State) {
	tag, setID := c.decode(addr)
	set := &c.sets[setID]

	way, ok := set.FindBlock(tag)
	if !ok {
		return
	}

	block := &set.Blocks[way]
	c.mesi.Record(block.State, state)
	block.State = state

	if state == coherence.Invalid {
		block.Valid = false
		block.Dirty = false
	}
}

// Name returns the name of the cache.
func (c *Cache) Name() string {
	return c.name
}

// ByteSize returns the capacity of the cache in bytes.
func (c *Cache) ByteSize() uint64 {
	return c.byteSize
}

// BlockSize returns the block size in bytes.
func (c *Cache) BlockSize() uint64 {
	return c.blockSize
}

// WayAssociativity returns the number of ways per set.
func (c *Cache) WayAssociativity() int {
	return c.wayAssociativity
}

// NumSets returns the number of sets.
func (c *Cache) NumSets() int {
	return c.numSets
}

// WritePolicy returns the write policy of the cache.
func (c *Cache) WritePolicy() WritePolicy {
	return c.writePolicy
}

// ReplacementKind returns the replacement policy the sets use.
func (c *Cache) ReplacementKind() replacement.Kind {
	return c.replacementKind
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() Stats {
	return c.stats
}

// MESITransitions returns the MESI transition counter matrix.
func (c *Cache) MESITransitions() [coherence.NumStates][coherence.NumStates]uint64 {
	return c.mesi.Transitions()
}

// StreamBuffer exposes the stream buffer for inspection.
func (c *Cache) StreamBuffer() *prefetch.StreamBuffer {
	return c.streamBuffer
}

// Block returns a copy of the block at the given set and way.
func (c *Cache) Block(setID, way int) Block {
	return c.sets[setID].Blocks[way]
}

// ResetStats zeroes the counters without touching the cache content.
func (c *Cache) ResetStats() {
	c.stats.Reset()
	c.mesi.Reset()
}

// Reset invalidates every block and zeroes all counters.
func (c *Cache) Reset() {
	for setID := range c.sets {
		set := &c.sets[setID]
		for way := range set.Blocks {
			set.Blocks[way] = Block{SetID: setID, WayID: way,
				State: coherence.Invalid}
		}
	}

	c.streamBuffer.Reset()
	c.pendingCoherence = make(map[uint64]bool)
	c.seen = make(map[uint64]struct{})
	c.ResetStats()
}
