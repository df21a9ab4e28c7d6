package cache

import (
	"fmt"
	"time"

	"github.com/muditbhargava66/CacheSimulator-sub000/mem"
	"github.com/muditbhargava66/CacheSimulator-sub000/mem/cache/replacement"
	"github.com/muditbhargava66/CacheSimulator-sub000/mem/coherence"
	"github.com/muditbhargava66/CacheSimulator-sub000/mem/prefetch"
)

// Builder can build caches.
type Builder struct {
	byteSize         uint64
	blockSize        uint64
	wayAssociativity int
	replacementKind  replacement.Kind
	writePolicy      WritePolicy
	prefetchEnabled  bool
	prefetchDistance int
	clock            *Clock
	randomSeed       int64
	seedSet          bool
}

// MakeBuilder creates a new builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		byteSize:         16 * mem.KB,
		blockSize:        64,
		wayAssociativity: 4,
		replacementKind:  replacement.LRU,
		writePolicy:      WriteBack,
		prefetchDistance: 4,
	}
}

// WithByteSize sets the capacity of the cache in bytes.
func (b Builder) WithByteSize(byteSize uint64) Builder {
	b.byteSize = byteSize
	return b
}

// WithBlockSize sets the block size in bytes.
func (b Builder) WithBlockSize(blockSize uint64) Builder {
	b.blockSize = blockSize
	return b
}

// WithWayAssociativity sets the number of ways per set.
func (b Builder) WithWayAssociativity(wayAssociativity int) Builder {
	b.wayAssociativity = wayAssociativity
	return b
}

// WithReplacementPolicy sets the replacement policy of every set.
func (b Builder) WithReplacementPolicy(kind replacement.Kind) Builder {
	b.replacementKind = kind
	return b
}

// WithWritePolicy sets the write policy.
func (b Builder) WithWritePolicy(policy WritePolicy) Builder {
	b.writePolicy = policy
	return b
}

// WithPrefetchEnabled turns the stream buffer and the prefetch path on.
func (b Builder) WithPrefetchEnabled(enabled bool) Builder {
	b.prefetchEnabled = enabled
	return b
}

// WithPrefetchDistance sets how many blocks ahead the stream buffer runs.
func (b Builder) WithPrefetchDistance(distance int) Builder {
	b.prefetchDistance = distance
	return b
}

// WithClock makes the cache timestamp with a shared clock. The hierarchy
// passes one clock to every level it builds.
func (b Builder) WithClock(clock *Clock) Builder {
	b.clock = clock
	return b
}

// WithRandomSeed pins the random replacement policy to a deterministic
// sequence, for reproducible runs.
func (b Builder) WithRandomSeed(seed int64) Builder {
	b.randomSeed = seed
	b.seedSet = true
	return b
}

// Build builds a cache. Configuration errors are returned; the cache does
// not exist unless the configuration validates.
func (b Builder) Build(name string) (*Cache, error) {
	if err := b.validate(); err != nil {
		return nil, fmt.Errorf("cache %s: %w", name, err)
	}

	numSets := int(b.byteSize / (uint64(b.wayAssociativity) * b.blockSize))

	clock := b.clock
	if clock == nil {
		clock = NewClock()
	}

	seed := b.randomSeed
	if !b.seedSet {
		seed = time.Now().UnixNano()
	}

	c := &Cache{
		name:             name,
		byteSize:         b.byteSize,
		blockSize:        b.blockSize,
		wayAssociativity: b.wayAssociativity,
		numSets:          numSets,
		replacementKind:  b.replacementKind,
		writePolicy:      b.writePolicy,
		prefetchEnabled:  b.prefetchEnabled,
		streamBuffer:     prefetch.NewStreamBuffer(b.prefetchDistance, b.blockSize),
		mesi:             coherence.NewTracker(),
		clock:            clock,
		pendingCoherence: make(map[uint64]bool),
		seen:             make(map[uint64]struct{}),
	}

	c.sets = make([]Set, numSets)
	for setID := range c.sets {
		policy, err := replacement.New(
			b.replacementKind, b.wayAssociativity, seed+int64(setID))
		if err != nil {
			return nil, fmt.Errorf("cache %s: %w", name, err)
		}

		set := &c.sets[setID]
		set.Policy = policy
		set.Blocks = make([]Block, b.wayAssociativity)
		for way := range set.Blocks {
			set.Blocks[way] = Block{SetID: setID, WayID: way,
				State: coherence.Invalid}
		}
	}

	return c, nil
}

func (b Builder) validate() error {
	if b.byteSize == 0 {
		return fmt.Errorf("cache size must be positive")
	}

	if !isPowerOfTwo(b.byteSize) {
		return fmt.Errorf("cache size must be a power of two, got %d",
			b.byteSize)
	}

	if b.blockSize == 0 || !isPowerOfTwo(b.blockSize) {
		return fmt.Errorf("block size must be a positive power of two, got %d",
			b.blockSize)
	}

	if b.wayAssociativity <= 0 {
		return fmt.Errorf("way associativity must be positive, got %d",
			b.wayAssociativity)
	}

	setSize := uint64(b.wayAssociativity) * b.blockSize
	if b.byteSize%setSize != 0 {
		return fmt.Errorf(
			"cache size %d is not divisible by associativity %d x block size %d",
			b.byteSize, b.wayAssociativity, b.blockSize)
	}

	if b.prefetchDistance < 0 {
		return fmt.Errorf("prefetch distance must not be negative, got %d",
			b.prefetchDistance)
	}

	return nil
}

func isPowerOfTwo(n uint64) bool {
	return n != 0 && n&(n-1) == 0
}
