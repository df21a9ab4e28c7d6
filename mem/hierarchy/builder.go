package hierarchy

import (
	"fmt"

	"github.com/muditbhargava66/CacheSimulator-sub000/mem"
	"github.com/muditbhargava66/CacheSimulator-sub000/mem/cache"
	"github.com/muditbhargava66/CacheSimulator-sub000/mem/cache/replacement"
	"github.com/muditbhargava66/CacheSimulator-sub000/mem/prefetch"
)

// Builder can build memory hierarchies.
type Builder struct {
	l1ByteSize         uint64
	l1WayAssociativity int
	l2ByteSize         uint64
	l2WayAssociativity int
	blockSize          uint64

	replacementKind replacement.Kind
	writePolicy     cache.WritePolicy

	prefetchEnabled     bool
	prefetchDistance    int
	useStridePrediction bool
	strideTableSize     int

	useAdaptivePrefetching bool
	adaptiveMode           prefetch.Mode
	maxPrefetchDistance    int

	randomSeed int64
	seedSet    bool
}

// MakeBuilder creates a new builder with default parameters: a 16 KB 4-way
// L1, no L2, 64-byte blocks, LRU, write-back, and no prefetching.
func MakeBuilder() Builder {
	return Builder{
		l1ByteSize:          16 * mem.KB,
		l1WayAssociativity:  4,
		blockSize:           64,
		replacementKind:     replacement.LRU,
		writePolicy:         cache.WriteBack,
		prefetchDistance:    4,
		useStridePrediction: true,
		strideTableSize:     64,
		adaptiveMode:        prefetch.Adaptive,
		maxPrefetchDistance: 8,
	}
}

// WithL1 sets the L1 capacity in bytes and its way associativity.
func (b Builder) WithL1(byteSize uint64, wayAssociativity int) Builder {
	b.l1ByteSize = byteSize
	b.l1WayAssociativity = wayAssociativity
	return b
}

// WithL2 sets the L2 capacity in bytes and its way associativity. A zero
// byte size builds a hierarchy without an L2.
func (b Builder) WithL2(byteSize uint64, wayAssociativity int) Builder {
	b.l2ByteSize = byteSize
	b.l2WayAssociativity = wayAssociativity
	return b
}

// WithBlockSize sets the block size, in bytes, of every level.
func (b Builder) WithBlockSize(blockSize uint64) Builder {
	b.blockSize = blockSize
	return b
}

// WithReplacementPolicy sets the replacement policy of every level.
func (b Builder) WithReplacementPolicy(kind replacement.Kind) Builder {
	b.replacementKind = kind
	return b
}

// WithWritePolicy sets the write policy of every level.
func (b Builder) WithWritePolicy(policy cache.WritePolicy) Builder {
	b.writePolicy = policy
	return b
}

// WithPrefetchEnabled turns L1 prefetching on or off.
func (b Builder) WithPrefetchEnabled(enabled bool) Builder {
	b.prefetchEnabled = enabled
	return b
}

// WithPrefetchDistance sets how many blocks ahead the L1 stream buffer
// runs.
func (b Builder) WithPrefetchDistance(distance int) Builder {
	b.prefetchDistance = distance
	return b
}

// WithStridePrediction turns the stride predictor on or off and sets its
// table size.
func (b Builder) WithStridePrediction(enabled bool, tableSize int) Builder {
	b.useStridePrediction = enabled
	if tableSize > 0 {
		b.strideTableSize = tableSize
	}
	return b
}

// WithAdaptivePrefetching attaches an adaptive prefetcher in the given mode
// with the given maximum distance.
func (b Builder) WithAdaptivePrefetching(
	mode prefetch.Mode,
	maxDistance int,
) Builder {
	b.useAdaptivePrefetching = true
	b.adaptiveMode = mode
	if maxDistance > 0 {
		b.maxPrefetchDistance = maxDistance
	}
	return b
}

// WithRandomSeed pins random replacement to a deterministic sequence.
func (b Builder) WithRandomSeed(seed int64) Builder {
	b.randomSeed = seed
	b.seedSet = true
	return b
}

// Build builds a hierarchy. Configuration errors from any level are
// returned and prevent the hierarchy from existing.
func (b Builder) Build() (*Hierarchy, error) {
	clock := cache.NewClock()

	l1Builder := cache.MakeBuilder().
		WithByteSize(b.l1ByteSize).
		WithWayAssociativity(b.l1WayAssociativity).
		WithBlockSize(b.blockSize).
		WithReplacementPolicy(b.replacementKind).
		WithWritePolicy(b.writePolicy).
		WithPrefetchEnabled(b.prefetchEnabled).
		WithPrefetchDistance(b.prefetchDistance).
		WithClock(clock)
	if b.seedSet {
		l1Builder = l1Builder.WithRandomSeed(b.randomSeed)
	}

	l1, err := l1Builder.Build("L1")
	if err != nil {
		return nil, err
	}

	h := &Hierarchy{
		l1:              l1,
		clock:           clock,
		prefetchEnabled: b.prefetchEnabled,
	}

	if b.l2ByteSize > 0 {
		l2Builder := cache.MakeBuilder().
			WithByteSize(b.l2ByteSize).
			WithWayAssociativity(b.l2WayAssociativity).
			WithBlockSize(b.blockSize).
			WithReplacementPolicy(b.replacementKind).
			WithWritePolicy(b.writePolicy).
			WithClock(clock)
		if b.seedSet {
			l2Builder = l2Builder.WithRandomSeed(b.randomSeed + 1)
		}

		h.l2, err = l2Builder.Build("L2")
		if err != nil {
			return nil, err
		}
	}

	if b.prefetchEnabled && b.useStridePrediction {
		if b.strideTableSize <= 0 {
			return nil, fmt.Errorf(
				"stride table size must be positive, got %d", b.strideTableSize)
		}
		h.predictor = prefetch.NewStridePredictor(b.strideTableSize)
	}

	if b.prefetchEnabled && b.useAdaptivePrefetching {
		h.adaptive = prefetch.NewAdaptivePrefetcher(
			b.adaptiveMode, b.maxPrefetchDistance)
	}

	return h, nil
}
