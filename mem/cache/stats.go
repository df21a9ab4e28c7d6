package cache

// A MissClass categorizes why an access missed.
type MissClass int

// The miss classes. Every miss is accounted to exactly one of them.
const (
	MissCompulsory MissClass = iota
	MissCapacity
	MissConflict
	MissCoherence

	NumMissClasses = 4
)

func (c MissClass) String() string {
	switch c {
	case MissCompulsory:
		return "compulsory"
	case MissCapacity:
		return "capacity"
	case MissConflict:
		return "conflict"
	case MissCoherence:
		return "coherence"
	default:
		panic("invalid miss class")
	}
}

// Stats aggregates the counters of one cache level.
type Stats struct {
	Hits   uint64
	Misses uint64
	Reads  uint64
	Writes uint64

	Writebacks    uint64
	WriteThroughs uint64

	MissesByClass [NumMissClasses]uint64

	StreamBufferHits uint64
	PrefetchesIssued uint64
	PrefetchUseful   uint64
	PrefetchUseless  uint64
}

// HitRatio returns hits as a fraction of all accesses.
func (s *Stats) HitRatio() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}

	return float64(s.Hits) / float64(total)
}

// Reset zeroes every counter.
func (s *Stats) Reset() {
	*s = Stats{}
}
