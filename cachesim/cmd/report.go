package cmd

import (
	"fmt"
	"io"

	"github.com/muditbhargava66/CacheSimulator-sub000/mem/cache"
	"github.com/muditbhargava66/CacheSimulator-sub000/mem/coherence"
	"github.com/muditbhargava66/CacheSimulator-sub000/mem/hierarchy"
)

// writeReport prints the final statistics of a finished simulation.
func writeReport(w io.Writer, h *hierarchy.Hierarchy) {
	writeCacheReport(w, h.L1())
	if h.L2() != nil {
		writeCacheReport(w, h.L2())
	}

	stats := h.Stats()

	fmt.Fprintf(w, "=== Hierarchy ===\n")
	fmt.Fprintf(w, "Total accesses:  %d\n", stats.Accesses)
	fmt.Fprintf(w, "Reads:           %d\n", stats.Reads)
	fmt.Fprintf(w, "Writes:          %d\n", stats.Writes)
	fmt.Fprintf(w, "L1 miss rate:    %.4f\n", stats.L1MissRate)

	if h.StridePredictor() != nil {
		fmt.Fprintf(w, "Prefetch accuracy:        %.4f\n",
			stats.PrefetchAccuracy)
		fmt.Fprintf(w, "Prefetch coverage:        %.4f\n",
			stats.PrefetchCoverage)
		fmt.Fprintf(w, "Stride predictor accuracy: %.4f\n",
			stats.StridePredictorAccuracy)
	}

	if p := h.AdaptivePrefetcher(); p != nil {
		fmt.Fprintf(w, "Adaptive prefetcher: mode=%s distance=%d "+
			"useful=%d useless=%d\n",
			p.ActiveMode(), p.Distance(), p.Useful(), p.Useless())
	}
}

func writeCacheReport(w io.Writer, c *cache.Cache) {
	stats := c.Stats()

	fmt.Fprintf(w, "=== %s (%d B, %d-way, %d B blocks, %s, %s) ===\n",
		c.Name(), c.ByteSize(), c.WayAssociativity(), c.BlockSize(),
		c.ReplacementKind(), c.WritePolicy())
	fmt.Fprintf(w, "Hits:        %d\n", stats.Hits)
	fmt.Fprintf(w, "Misses:      %d\n", stats.Misses)
	fmt.Fprintf(w, "Reads:       %d\n", stats.Reads)
	fmt.Fprintf(w, "Writes:      %d\n", stats.Writes)
	fmt.Fprintf(w, "Writebacks:  %d\n", stats.Writebacks)
	if c.WritePolicy() == cache.WriteThrough {
		fmt.Fprintf(w, "Write-throughs: %d\n", stats.WriteThroughs)
	}
	fmt.Fprintf(w, "Hit ratio:   %.4f\n", stats.HitRatio())

	writeMissClasses(w, stats)
	writeMESIMatrix(w, c)
}

func writeMissClasses(w io.Writer, stats cache.Stats) {
	fmt.Fprintf(w, "Miss classes:\n")
	for class := 0; class < cache.NumMissClasses; class++ {
		count := stats.MissesByClass[class]
		percent := 0.0
		if stats.Misses > 0 {
			percent = float64(count) / float64(stats.Misses) * 100
		}

		fmt.Fprintf(w, "  %-10s %8d (%5.1f%%)\n",
			cache.MissClass(class).String(), count, percent)
	}
}

func writeMESIMatrix(w io.Writer, c *cache.Cache) {
	transitions := c.MESITransitions()

	fmt.Fprintf(w, "MESI transitions (from \\ to):\n")
	fmt.Fprintf(w, "      %8s %8s %8s %8s\n", "M", "E", "S", "I")
	for from := 0; from < coherence.NumStates; from++ {
		fmt.Fprintf(w, "  %s  ", coherence.State(from))
		for to := 0; to < coherence.NumStates; to++ {
			fmt.Fprintf(w, " %8d", transitions[from][to])
		}
		fmt.Fprintf(w, "\n")
	}
}
