// Package coherence implements the MESI cache coherence state algebra.
package coherence

// A State is one of the four MESI states of a cache block.
type State int

// The four MESI states.
const (
	Modified State = iota
	Exclusive
	Shared
	Invalid

	NumStates = 4
)

func (s State) String() string {
	switch s {
	case Modified:
		return "M"
	case Exclusive:
		return "E"
	case Shared:
		return "S"
	case Invalid:
		return "I"
	default:
		panic("invalid MESI state")
	}
}

// An Event is an observation that may move a block from one MESI state to
// another.
type Event int

// The events that drive MESI transitions.
const (
	LocalRead Event = iota
	LocalWrite
	RemoteRead
	RemoteWrite
	Evict
)

// NextState is the pure MESI transition function. The othersHaveCopy input
// only matters when a LocalRead fills an Invalid block; the single-processor
// driver always passes false.
func NextState(s State, e Event, othersHaveCopy bool) State {
	switch s {
	case Invalid:
		return nextStateFromInvalid(e, othersHaveCopy)
	case Shared:
		return nextStateFromShared(e)
	case Exclusive:
		return nextStateFromExclusive(e)
	case Modified:
		return nextStateFromModified(e)
	default:
		panic("invalid MESI state")
	}
}

func nextStateFromInvalid(e Event, othersHaveCopy bool) State {
	switch e {
	case LocalRead:
		if othersHaveCopy {
			return Shared
		}
		return Exclusive
	case LocalWrite:
		return Modified
	default:
		return Invalid
	}
}

func nextStateFromShared(e Event) State {
	switch e {
	case LocalRead, RemoteRead:
		return Shared
	case LocalWrite:
		return Modified
	default:
		return Invalid
	}
}

func nextStateFromExclusive(e Event) State {
	switch e {
	case LocalRead:
		return Exclusive
	case LocalWrite:
		return Modified
	case RemoteRead:
		return Shared
	default:
		return Invalid
	}
}

func nextStateFromModified(e Event) State {
	switch e {
	case LocalRead, LocalWrite:
		return Modified
	case RemoteRead:
		return Shared
	default:
		return Invalid
	}
}

// RequiresWriteback reports whether leaving the state demands a writeback to
// the next level.
func RequiresWriteback(s State) bool {
	return s == Modified
}

// A Tracker applies MESI transitions and counts every state change in a
// 4x4 matrix. Self transitions are not counted.
type Tracker struct {
	transitions [NumStates][NumStates]uint64
}

// NewTracker returns a Tracker with all counters at zero.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Apply transitions a block state according to the event and records the
// transition if the state changed.
func (t *Tracker) Apply(s State, e Event, othersHaveCopy bool) State {
	next := NextState(s, e, othersHaveCopy)
	if next != s {
		t.transitions[s][next]++
	}

	return next
}

// Record counts an externally imposed transition that did not come from an
// event, such as a directory forcing a state onto a block.
func (t *Tracker) Record(from, to State) {
	if from != to {
		t.transitions[from][to]++
	}
}

// Transitions returns a copy of the transition counter matrix, indexed
// [from][to] in M, E, S, I order.
func (t *Tracker) Transitions() [NumStates][NumStates]uint64 {
	return t.transitions
}

// Reset zeroes the transition counters.
func (t *Tracker) Reset() {
	t.transitions = [NumStates][NumStates]uint64{}
}
