package trace

import (
	"math/rand"

	"github.com/muditbhargava66/CacheSimulator-sub000/mem"
)

// A Pattern names a synthetic access pattern.
type Pattern int

// The synthetic access patterns.
const (
	// PatternSequential walks consecutive blocks.
	PatternSequential Pattern = iota

	// PatternStrided walks with a fixed stride.
	PatternStrided

	// PatternRandom draws addresses uniformly from a range.
	PatternRandom

	// PatternLoop repeats a short sequential window.
	PatternLoop
)

// A Generator produces synthetic traces for benchmarks and tests. The same
// seed always produces the same trace.
type Generator struct {
	rng *rand.Rand

	Base       uint64
	Stride     uint64
	Range      uint64
	LoopLength int
	WriteRatio float64
}

// NewGenerator creates a generator with the given seed and defaults: base
// 0x1000, 64-byte stride, a 1 MB range, a 16-access loop, and 25% writes.
func NewGenerator(seed int64) *Generator {
	return &Generator{
		rng:        rand.New(rand.NewSource(seed)),
		Base:       0x1000,
		Stride:     64,
		Range:      1 * mem.MB,
		LoopLength: 16,
		WriteRatio: 0.25,
	}
}

// Generate produces n accesses following the pattern.
func (g *Generator) Generate(pattern Pattern, n int) []mem.Access {
	accesses := make([]mem.Access, 0, n)

	for i := 0; i < n; i++ {
		var addr uint64

		switch pattern {
		case PatternSequential:
			addr = g.Base + uint64(i)*64
		case PatternStrided:
			addr = g.Base + uint64(i)*g.Stride
		case PatternRandom:
			addr = g.Base + uint64(g.rng.Int63n(int64(g.Range)))
		case PatternLoop:
			addr = g.Base + uint64(i%g.LoopLength)*g.Stride
		default:
			panic("invalid trace pattern")
		}

		accesses = append(accesses, mem.Access{
			Address: addr,
			IsWrite: g.rng.Float64() < g.WriteRatio,
		})
	}

	return accesses
}
