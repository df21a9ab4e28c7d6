package replacement

import (
	"fmt"
	"math/bits"
)

// plru approximates LRU with a binary tree of direction bits, one bit per
// internal node. A set bit steers the victim walk to the right subtree.
type plru struct {
	tree  []bool
	depth int
}

// NewPLRU returns a tree-based pseudo-LRU policy. The way count must be a
// power of two, since the direction bits form a complete binary tree.
func NewPLRU(numWays int) (Policy, error) {
	if numWays&(numWays-1) != 0 {
		return nil, fmt.Errorf(
			"PLRU requires a power-of-two way count, got %d", numWays)
	}

	return &plru{
		tree:  make([]bool, numWays-1),
		depth: bits.Len(uint(numWays)) - 1,
	}, nil
}

func (p *plru) OnAccess(way int) {
	p.pointAwayFrom(way)
}

func (p *plru) OnInstall(way int) {
	p.pointAwayFrom(way)
}

func (p *plru) SelectVictim(validMask []bool) int {
	if way := firstInvalidWay(validMask); way >= 0 {
		return way
	}

	node := 0
	way := 0
	for level := p.depth - 1; level >= 0; level-- {
		if p.tree[node] {
			way |= 1 << level
			node = 2*node + 2
		} else {
			node = 2*node + 1
		}
	}

	return way
}

// pointAwayFrom flips every ancestor bit of the way so that the victim walk
// leaves the way's subtree at each level.
func (p *plru) pointAwayFrom(way int) {
	node := 0
	for level := p.depth - 1; level >= 0; level-- {
		goesRight := (way>>level)&1 == 1
		p.tree[node] = !goesRight

		if goesRight {
			node = 2*node + 2
		} else {
			node = 2*node + 1
		}
	}
}
