package replacement

import "math/rand"

// random evicts a uniformly chosen valid way. A fixed seed makes the
// choice sequence reproducible across runs.
type random struct {
	rng     *rand.Rand
	numWays int
}

// NewRandom returns a random replacement policy for a set with numWays
// ways, drawing from a source seeded with seed.
func NewRandom(numWays int, seed int64) Policy {
	return &random{
		rng:     rand.New(rand.NewSource(seed)),
		numWays: numWays,
	}
}

func (r *random) OnAccess(way int) {
	// Random replacement keeps no state.
}

func (r *random) OnInstall(way int) {
	// Random replacement keeps no state.
}

func (r *random) SelectVictim(validMask []bool) int {
	if way := firstInvalidWay(validMask); way >= 0 {
		return way
	}

	return r.rng.Intn(r.numWays)
}
