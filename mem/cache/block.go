package cache

import (
	"github.com/muditbhargava66/CacheSimulator-sub000/mem/cache/replacement"
	"github.com/muditbhargava66/CacheSimulator-sub000/mem/coherence"
)

// A Block is the information associated with one cache line. Data bytes are
// not modeled; only the tag and the flags matter.
type Block struct {
	Tag   uint64
	SetID int
	WayID int

	Valid bool
	Dirty bool
	State coherence.State

	AccessCount uint64
	LastAccess  uint64
	Prefetched  bool
}

// RequiresWriteback reports whether evicting the block must send its
// content to the next level.
func (b *Block) RequiresWriteback() bool {
	return b.Dirty || coherence.RequiresWriteback(b.State)
}

// A Set holds the ways that a certain block address can be stored at,
// together with the replacement policy instance that orders them.
type Set struct {
	Blocks []Block
	Policy replacement.Policy
}

// FindBlock returns the way holding the valid block with the given tag.
func (s *Set) FindBlock(tag uint64) (way int, ok bool) {
	for i := range s.Blocks {
		if s.Blocks[i].Valid && s.Blocks[i].Tag == tag {
			return i, true
		}
	}

	return 0, false
}

// ValidMask returns one validity bit per way.
func (s *Set) ValidMask() []bool {
	mask := make([]bool, len(s.Blocks))
	for i := range s.Blocks {
		mask[i] = s.Blocks[i].Valid
	}

	return mask
}

// A Clock is a monotonic counter that timestamps hits and installs. It is
// used for diagnostic ordering only, never for replacement decisions. Each
// hierarchy owns one clock; independent simulators must not share it.
type Clock struct {
	now uint64
}

// NewClock returns a clock starting at zero.
func NewClock() *Clock {
	return &Clock{}
}

// Tick advances the clock and returns the new time.
func (c *Clock) Tick() uint64 {
	c.now++
	return c.now
}

// Now returns the current time without advancing.
func (c *Clock) Now() uint64 {
	return c.now
}
