// Package replacement provides the block replacement policies used by the
// cache models. One policy instance manages the ways of one cache set.
package replacement

import "fmt"

// A Policy decides which way of a set to evict. Implementations are
// notified on every hit and install so that they can maintain their
// recency or insertion state.
type Policy interface {
	// OnAccess tells the policy that the way was just hit.
	OnAccess(way int)

	// OnInstall tells the policy that the way was just filled.
	OnInstall(way int)

	// SelectVictim returns the way to replace. When validMask marks any way
	// invalid, one of the invalid ways is returned before any valid block is
	// considered.
	SelectVictim(validMask []bool) int
}

// A Kind names one of the supported replacement policies.
type Kind int

// The supported replacement policies.
const (
	LRU Kind = iota
	FIFO
	Random
	PLRU
	NRU
)

func (k Kind) String() string {
	switch k {
	case LRU:
		return "lru"
	case FIFO:
		return "fifo"
	case Random:
		return "random"
	case PLRU:
		return "plru"
	case NRU:
		return "nru"
	default:
		panic("invalid replacement policy kind")
	}
}

// ParseKind converts a policy name into a Kind.
func ParseKind(name string) (Kind, error) {
	switch name {
	case "lru", "LRU":
		return LRU, nil
	case "fifo", "FIFO":
		return FIFO, nil
	case "random", "Random", "RANDOM":
		return Random, nil
	case "plru", "PLRU":
		return PLRU, nil
	case "nru", "NRU":
		return NRU, nil
	default:
		return LRU, fmt.Errorf("unknown replacement policy %q", name)
	}
}

// New creates a policy instance for a set with numWays ways. The seed is
// only used by the Random policy so that simulations can be reproduced.
func New(kind Kind, numWays int, seed int64) (Policy, error) {
	if numWays <= 0 {
		return nil, fmt.Errorf("replacement policy needs at least one way, got %d",
			numWays)
	}

	switch kind {
	case LRU:
		return NewLRU(numWays), nil
	case FIFO:
		return NewFIFO(numWays), nil
	case Random:
		return NewRandom(numWays, seed), nil
	case PLRU:
		return NewPLRU(numWays)
	case NRU:
		return NewNRU(numWays), nil
	default:
		return nil, fmt.Errorf("unknown replacement policy kind %d", kind)
	}
}

// firstInvalidWay returns the lowest-indexed invalid way, or -1 when every
// way is valid.
func firstInvalidWay(validMask []bool) int {
	for way, valid := range validMask {
		if !valid {
			return way
		}
	}

	return -1
}
