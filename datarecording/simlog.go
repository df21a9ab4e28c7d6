package datarecording

import (
	"github.com/muditbhargava66/CacheSimulator-sub000/mem/cache"
	"github.com/muditbhargava66/CacheSimulator-sub000/mem/coherence"
	"github.com/muditbhargava66/CacheSimulator-sub000/mem/hierarchy"
)

// AccessEntry is one simulated access in the access table.
type AccessEntry struct {
	Seq     uint64
	Address uint64
	IsWrite bool
	L1Hit   bool
}

// CacheStatsEntry is the final counter snapshot of one cache level.
type CacheStatsEntry struct {
	Cache           string
	Hits            uint64
	Misses          uint64
	Reads           uint64
	Writes          uint64
	Writebacks      uint64
	WriteThroughs   uint64
	CompulsoryMiss  uint64
	CapacityMiss    uint64
	ConflictMiss    uint64
	CoherenceMiss   uint64
	HitRatio        float64
	StreamBufferHit uint64
}

// TransitionEntry is one cell of a MESI transition matrix. The field names
// double as column names, so they must avoid SQL keywords such as FROM.
type TransitionEntry struct {
	Cache     string
	FromState string
	ToState   string
	Count     uint64
}

// A SimLog records the accesses and the outcome of one simulation run.
type SimLog struct {
	recorder DataRecorder
	seq      uint64
}

// NewSimLog creates a SimLog writing through the given recorder.
func NewSimLog(recorder DataRecorder) *SimLog {
	l := &SimLog{recorder: recorder}

	l.recorder.CreateTable("accesses", AccessEntry{})
	l.recorder.CreateTable("cache_stats", CacheStatsEntry{})
	l.recorder.CreateTable("mesi_transitions", TransitionEntry{})

	return l
}

// RecordAccess logs one access and its L1 outcome.
func (l *SimLog) RecordAccess(addr uint64, isWrite, l1Hit bool) {
	l.seq++
	l.recorder.InsertData("accesses", AccessEntry{
		Seq:     l.seq,
		Address: addr,
		IsWrite: isWrite,
		L1Hit:   l1Hit,
	})
}

// RecordFinalStats logs the final counters of every level of the hierarchy.
func (l *SimLog) RecordFinalStats(h *hierarchy.Hierarchy) {
	l.recordCache(h.L1())
	if h.L2() != nil {
		l.recordCache(h.L2())
	}

	l.recorder.Flush()
}

func (l *SimLog) recordCache(c *cache.Cache) {
	stats := c.Stats()

	l.recorder.InsertData("cache_stats", CacheStatsEntry{
		Cache:           c.Name(),
		Hits:            stats.Hits,
		Misses:          stats.Misses,
		Reads:           stats.Reads,
		Writes:          stats.Writes,
		Writebacks:      stats.Writebacks,
		WriteThroughs:   stats.WriteThroughs,
		CompulsoryMiss:  stats.MissesByClass[cache.MissCompulsory],
		CapacityMiss:    stats.MissesByClass[cache.MissCapacity],
		ConflictMiss:    stats.MissesByClass[cache.MissConflict],
		CoherenceMiss:   stats.MissesByClass[cache.MissCoherence],
		HitRatio:        stats.HitRatio(),
		StreamBufferHit: stats.StreamBufferHits,
	})

	transitions := c.MESITransitions()
	for from := 0; from < coherence.NumStates; from++ {
		for to := 0; to < coherence.NumStates; to++ {
			if transitions[from][to] == 0 {
				continue
			}

			l.recorder.InsertData("mesi_transitions", TransitionEntry{
				Cache:     c.Name(),
				FromState: coherence.State(from).String(),
				ToState:   coherence.State(to).String(),
				Count:     transitions[from][to],
			})
		}
	}
}
