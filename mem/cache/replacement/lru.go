package replacement

// lru keeps the ways of a set ordered from least to most recently used.
type lru struct {
	queue []int
}

// NewLRU returns a least-recently-used policy for a set with numWays ways.
func NewLRU(numWays int) Policy {
	l := &lru{
		queue: make([]int, numWays),
	}
	for way := range l.queue {
		l.queue[way] = way
	}

	return l
}

func (l *lru) OnAccess(way int) {
	l.moveToBack(way)
}

func (l *lru) OnInstall(way int) {
	l.moveToBack(way)
}

func (l *lru) SelectVictim(validMask []bool) int {
	for _, way := range l.queue {
		if !validMask[way] {
			return way
		}
	}

	return l.queue[0]
}

func (l *lru) moveToBack(way int) {
	newQueue := make([]int, 0, len(l.queue))
	for _, w := range l.queue {
		if w != way {
			newQueue = append(newQueue, w)
		}
	}
	newQueue = append(newQueue, way)

	l.queue = newQueue
}
