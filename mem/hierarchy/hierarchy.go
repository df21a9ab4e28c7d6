// Package hierarchy chains the cache levels into a memory hierarchy and
// owns the prefetching state that is shared across accesses.
package hierarchy

import (
	"github.com/muditbhargava66/CacheSimulator-sub000/mem/cache"
	"github.com/muditbhargava66/CacheSimulator-sub000/mem/prefetch"
)

// adaptInterval is how many accesses pass between two adaptations of the
// adaptive prefetcher.
const adaptInterval = 1000

// A Hierarchy drives an L1 cache over an optional L2 cache. L2 is a passive
// next level; it never prefetches and never recurses further, since main
// memory is implicit.
type Hierarchy struct {
	l1 *cache.Cache
	l2 *cache.Cache

	predictor *prefetch.StridePredictor
	adaptive  *prefetch.AdaptivePrefetcher
	clock     *cache.Clock

	prefetchEnabled bool

	accesses uint64
	reads    uint64
	writes   uint64
	l1Misses uint64

	reportedUseful  uint64
	reportedUseless uint64
	reportedIssued  uint64
}

// Access performs one read or write against the hierarchy and returns
// whether L1 (or its stream buffer) hit.
func (h *Hierarchy) Access(addr uint64, isWrite bool) bool {
	h.accesses++
	if isWrite {
		h.writes++
	} else {
		h.reads++
	}

	if h.prefetchEnabled && h.predictor != nil {
		h.predictor.Update(addr)
	}

	hit := h.l1.Access(addr, isWrite, h.nextLevelForL1(), h.predictor)
	if !hit {
		h.l1Misses++
		if h.l2 != nil {
			h.l2.Access(addr, isWrite, nil, nil)
		}
	}

	if h.adaptive != nil {
		h.feedAdaptive()
		if h.accesses%adaptInterval == 0 {
			h.adaptive.Adapt()
		}
	}

	return hit
}

func (h *Hierarchy) nextLevelForL1() cache.NextLevel {
	if h.l2 == nil {
		return nil
	}

	l2 := h.l2
	return cache.NextLevelFunc(func(addr uint64, isWrite bool) bool {
		return l2.Access(addr, isWrite, nil, nil)
	})
}

// feedAdaptive forwards newly observed prefetch outcomes from L1 into the
// adaptive prefetcher, which only keeps aggregate confidences.
func (h *Hierarchy) feedAdaptive() {
	stats := h.l1.Stats()

	for h.reportedUseful < stats.PrefetchUseful {
		h.adaptive.RecordOutcome(true)
		h.reportedUseful++
	}

	for h.reportedUseless < stats.PrefetchUseless {
		h.adaptive.RecordOutcome(false)
		h.reportedUseless++
	}

	for h.reportedIssued < stats.PrefetchesIssued {
		h.adaptive.RecordIssue()
		h.reportedIssued++
	}
}

// L1 returns the first-level cache.
func (h *Hierarchy) L1() *cache.Cache {
	return h.l1
}

// L2 returns the second-level cache, or nil when the hierarchy has none.
func (h *Hierarchy) L2() *cache.Cache {
	return h.l2
}

// StridePredictor returns the stride predictor, or nil when prefetching is
// disabled.
func (h *Hierarchy) StridePredictor() *prefetch.StridePredictor {
	return h.predictor
}

// AdaptivePrefetcher returns the adaptive prefetcher, or nil when it is not
// configured.
func (h *Hierarchy) AdaptivePrefetcher() *prefetch.AdaptivePrefetcher {
	return h.adaptive
}

// Stats is a snapshot of the hierarchy-wide counters.
type Stats struct {
	Accesses uint64
	Reads    uint64
	Writes   uint64
	L1Misses uint64

	L1MissRate float64

	PrefetchAccuracy        float64
	PrefetchCoverage        float64
	StridePredictorAccuracy float64
}

// Stats returns a snapshot of the hierarchy-wide counters.
func (h *Hierarchy) Stats() Stats {
	s := Stats{
		Accesses: h.accesses,
		Reads:    h.reads,
		Writes:   h.writes,
		L1Misses: h.l1Misses,
	}

	if h.accesses > 0 {
		s.L1MissRate = float64(h.l1Misses) / float64(h.accesses)
	}

	if h.prefetchEnabled {
		l1Stats := h.l1.Stats()
		issued := l1Stats.PrefetchesIssued
		useful := l1Stats.PrefetchUseful

		if issued > 0 {
			s.PrefetchAccuracy = float64(useful) / float64(issued)
		}
		if h.l1Misses > 0 {
			s.PrefetchCoverage = float64(useful) / float64(h.l1Misses)
		}
	}

	if h.predictor != nil {
		s.StridePredictorAccuracy = h.predictor.Accuracy()
	}

	return s
}

// Reset clears the cache contents, the prefetching state, and every
// counter, returning the hierarchy to its post-construction state.
func (h *Hierarchy) Reset() {
	h.l1.Reset()
	if h.l2 != nil {
		h.l2.Reset()
	}

	if h.predictor != nil {
		h.predictor.Reset()
	}

	h.accesses = 0
	h.reads = 0
	h.writes = 0
	h.l1Misses = 0
	h.reportedUseful = 0
	h.reportedUseless = 0
	h.reportedIssued = 0
}
