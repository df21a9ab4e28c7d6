package replacement

// fifo evicts the way that was installed the earliest. Hits do not change
// the eviction order.
type fifo struct {
	installTime []uint64
	now         uint64
}

// NewFIFO returns a first-in-first-out policy for a set with numWays ways.
func NewFIFO(numWays int) Policy {
	return &fifo{
		installTime: make([]uint64, numWays),
	}
}

func (f *fifo) OnAccess(way int) {
	// FIFO ignores hits.
}

func (f *fifo) OnInstall(way int) {
	f.now++
	f.installTime[way] = f.now
}

func (f *fifo) SelectVictim(validMask []bool) int {
	if way := firstInvalidWay(validMask); way >= 0 {
		return way
	}

	victim := 0
	for way := 1; way < len(f.installTime); way++ {
		if f.installTime[way] < f.installTime[victim] {
			victim = way
		}
	}

	return victim
}
