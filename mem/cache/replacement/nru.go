package replacement

// nru keeps one reference bit per way. The victim is the first way in index
// order whose bit is clear. All bits are cleared when every bit is set, and
// unconditionally after every 4*numWays hit or install events.
type nru struct {
	referenced []bool
	events     int
}

// NewNRU returns a not-recently-used policy for a set with numWays ways.
func NewNRU(numWays int) Policy {
	return &nru{
		referenced: make([]bool, numWays),
	}
}

func (n *nru) OnAccess(way int) {
	n.reference(way)
}

func (n *nru) OnInstall(way int) {
	n.reference(way)
}

func (n *nru) SelectVictim(validMask []bool) int {
	if way := firstInvalidWay(validMask); way >= 0 {
		return way
	}

	for way, ref := range n.referenced {
		if !ref {
			return way
		}
	}

	n.clearAll()

	return 0
}

func (n *nru) reference(way int) {
	n.referenced[way] = true

	n.events++
	if n.events >= 4*len(n.referenced) {
		n.clearAll()
	}
}

func (n *nru) clearAll() {
	for way := range n.referenced {
		n.referenced[way] = false
	}
	n.events = 0
}
