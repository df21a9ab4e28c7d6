package cache

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	gomock "go.uber.org/mock/gomock"

	"github.com/muditbhargava66/CacheSimulator-sub000/mem/cache/replacement"
	"github.com/muditbhargava66/CacheSimulator-sub000/mem/coherence"
	"github.com/muditbhargava66/CacheSimulator-sub000/mem/prefetch"
	"github.com/muditbhargava66/CacheSimulator-sub000/trace"
)

func buildTinyCache(writePolicy WritePolicy) *Cache {
	c, err := MakeBuilder().
		WithByteSize(128).
		WithBlockSize(64).
		WithWayAssociativity(1).
		WithWritePolicy(writePolicy).
		Build("L1")
	Expect(err).To(BeNil())

	return c
}

var _ = Describe("Cache", func() {
	Context("with a tiny direct-mapped geometry", func() {
		var c *Cache

		BeforeEach(func() {
			c = buildTinyCache(WriteBack)
		})

		It("should classify a conflicting re-reference as a conflict miss", func() {
			// 0x00 and 0x80 both map to set 0, so the third access finds
			// its block evicted.
			Expect(c.Access(0x00, false, nil, nil)).To(BeFalse())
			Expect(c.Access(0x80, false, nil, nil)).To(BeFalse())
			Expect(c.Access(0x00, false, nil, nil)).To(BeFalse())

			stats := c.Stats()
			Expect(stats.Hits).To(Equal(uint64(0)))
			Expect(stats.Misses).To(Equal(uint64(3)))
			Expect(stats.MissesByClass[MissCompulsory]).To(Equal(uint64(2)))
			Expect(stats.MissesByClass[MissConflict]).To(Equal(uint64(1)))
			Expect(stats.MissesByClass[MissCapacity]).To(Equal(uint64(0)))
			Expect(stats.MissesByClass[MissCoherence]).To(Equal(uint64(0)))
		})

		It("should write a dirty victim back before fetching", func() {
			ctrl := gomock.NewController(GinkgoT())
			next := NewMockNextLevel(ctrl)

			gomock.InOrder(
				next.EXPECT().Access(uint64(0x00), false).Return(true),
				next.EXPECT().Access(uint64(0x00), true).Return(true),
				next.EXPECT().Access(uint64(0x80), false).Return(true),
			)

			c.Access(0x00, true, next, nil)

			block := c.Block(0, 0)
			Expect(block.Dirty).To(BeTrue())
			Expect(block.State).To(Equal(coherence.Modified))

			c.Access(0x80, false, next, nil)

			Expect(c.Stats().Writebacks).To(Equal(uint64(1)))
			Expect(c.Contains(0x00)).To(BeFalse())
		})

		It("should not write a clean victim back", func() {
			ctrl := gomock.NewController(GinkgoT())
			next := NewMockNextLevel(ctrl)

			next.EXPECT().Access(uint64(0x00), false).Return(true)
			next.EXPECT().Access(uint64(0x80), false).Return(true)

			c.Access(0x00, false, next, nil)
			c.Access(0x80, false, next, nil)

			Expect(c.Stats().Writebacks).To(Equal(uint64(0)))
		})
	})

	Context("with a write-through policy", func() {
		var (
			c          *Cache
			nextWrites []uint64
			next       NextLevel
		)

		BeforeEach(func() {
			c = buildTinyCache(WriteThrough)
			nextWrites = nil
			next = NextLevelFunc(func(addr uint64, isWrite bool) bool {
				if isWrite {
					nextWrites = append(nextWrites, addr)
				}
				return true
			})
		})

		It("should mirror every write and never dirty the block", func() {
			Expect(c.Access(0x00, true, next, nil)).To(BeFalse())
			Expect(c.Access(0x00, true, next, nil)).To(BeTrue())

			Expect(c.Block(0, 0).Dirty).To(BeFalse())
			Expect(nextWrites).To(Equal([]uint64{0x00, 0x00}))

			stats := c.Stats()
			Expect(stats.WriteThroughs).To(Equal(uint64(2)))
			Expect(stats.Writebacks).To(Equal(uint64(0)))
			Expect(stats.Hits).To(Equal(uint64(1)))
		})

		It("should keep every resident block clean", func() {
			accesses := trace.NewGenerator(7).
				Generate(trace.PatternRandom, 200)
			for _, a := range accesses {
				c.Access(a.Address, a.IsWrite, next, nil)
			}

			for setID := 0; setID < c.NumSets(); setID++ {
				for way := 0; way < c.WayAssociativity(); way++ {
					block := c.Block(setID, way)
					if block.Valid {
						Expect(block.Dirty).To(BeFalse())
					}
				}
			}
		})
	})

	Context("with the stream buffer enabled", func() {
		var c *Cache

		BeforeEach(func() {
			var err error
			c, err = MakeBuilder().
				WithByteSize(1024).
				WithBlockSize(64).
				WithWayAssociativity(1).
				WithPrefetchEnabled(true).
				WithPrefetchDistance(4).
				Build("L1")
			Expect(err).To(BeNil())
		})

		It("should serve a sequential stream after one cold miss", func() {
			Expect(c.Access(0x1000, false, nil, nil)).To(BeFalse())
			Expect(c.Access(0x1040, false, nil, nil)).To(BeTrue())
			Expect(c.Access(0x1080, false, nil, nil)).To(BeTrue())
			Expect(c.Access(0x10C0, false, nil, nil)).To(BeTrue())

			stats := c.Stats()
			Expect(stats.Misses).To(Equal(uint64(1)))
			Expect(stats.StreamBufferHits).To(Equal(uint64(3)))
			Expect(stats.PrefetchUseful).To(Equal(uint64(3)))
			Expect(stats.MissesByClass[MissCompulsory]).To(Equal(uint64(1)))
		})

		It("should install the block a confident stride points at", func() {
			predictor := prefetch.NewStridePredictor(64)
			for _, addr := range []uint64{
				0x1000, 0x1100, 0x1200, 0x1300, 0x1400,
			} {
				predictor.Update(addr)
			}

			c.Access(0x1400, false, nil, predictor)

			Expect(c.Contains(0x1500)).To(BeTrue())
			Expect(c.Stats().PrefetchesIssued).To(Equal(uint64(1)))

			Expect(c.Access(0x1500, false, nil, predictor)).To(BeTrue())
			Expect(c.Stats().PrefetchUseful).To(Equal(uint64(1)))
		})

		It("should count an evicted unused prefetch as useless", func() {
			predictor := prefetch.NewStridePredictor(64)
			for _, addr := range []uint64{
				0x1000, 0x1100, 0x1200, 0x1300, 0x1400,
			} {
				predictor.Update(addr)
			}

			c.Access(0x1400, false, nil, predictor)
			Expect(c.Contains(0x1500)).To(BeTrue())

			// 0x1500 and 0x1900 share a set; the untouched prefetched block
			// is the victim.
			c.Access(0x1900, true, nil, nil)

			Expect(c.Contains(0x1500)).To(BeFalse())
			Expect(c.Stats().PrefetchUseless).To(Equal(uint64(1)))
		})
	})

	Context("with coherence actions", func() {
		var c *Cache

		BeforeEach(func() {
			c = buildTinyCache(WriteBack)
		})

		It("should drop an invalidated block and classify the refill", func() {
			c.Access(0x00, false, nil, nil)
			Expect(c.Contains(0x00)).To(BeTrue())

			c.InvalidateBlock(0x00)
			Expect(c.Contains(0x00)).To(BeFalse())

			c.Access(0x00, false, nil, nil)
			Expect(c.Stats().MissesByClass[MissCoherence]).To(Equal(uint64(1)))

			transitions := c.MESITransitions()
			Expect(transitions[coherence.Exclusive][coherence.Invalid]).
				To(Equal(uint64(1)))
		})

		It("should record an externally imposed state", func() {
			c.Access(0x00, false, nil, nil)

			c.UpdateMESIState(0x00, coherence.Shared)

			Expect(c.Block(0, 0).State).To(Equal(coherence.Shared))
			Expect(c.MESITransitions()[coherence.Exclusive][coherence.Shared]).
				To(Equal(uint64(1)))
		})

		It("should drop a block forced into the invalid state", func() {
			c.Access(0x00, false, nil, nil)

			c.UpdateMESIState(0x00, coherence.Invalid)

			Expect(c.Contains(0x00)).To(BeFalse())
		})
	})

	Context("with a single-block geometry", func() {
		It("should always evict the only block", func() {
			c, err := MakeBuilder().
				WithByteSize(64).
				WithBlockSize(64).
				WithWayAssociativity(1).
				Build("L1")
			Expect(err).To(BeNil())

			Expect(c.Access(0x000, false, nil, nil)).To(BeFalse())
			Expect(c.Access(0x040, false, nil, nil)).To(BeFalse())
			Expect(c.Access(0x080, false, nil, nil)).To(BeFalse())
			Expect(c.Access(0x000, false, nil, nil)).To(BeFalse())

			Expect(c.Stats().Misses).To(Equal(uint64(4)))
		})
	})

	Context("regardless of the replacement policy", func() {
		kinds := []replacement.Kind{
			replacement.LRU,
			replacement.FIFO,
			replacement.Random,
			replacement.PLRU,
			replacement.NRU,
		}

		It("should balance hits and misses against reads and writes", func() {
			accesses := trace.NewGenerator(13).
				Generate(trace.PatternRandom, 500)

			for _, kind := range kinds {
				c, err := MakeBuilder().
					WithByteSize(1024).
					WithBlockSize(64).
					WithWayAssociativity(4).
					WithReplacementPolicy(kind).
					WithRandomSeed(1).
					Build("L1")
				Expect(err).To(BeNil())

				for _, a := range accesses {
					c.Access(a.Address, a.IsWrite, nil, nil)
				}

				stats := c.Stats()
				Expect(stats.Hits + stats.Misses).
					To(Equal(stats.Reads + stats.Writes))
			}
		})

		It("should always hit the second of two back-to-back reads", func() {
			for _, kind := range kinds {
				c, err := MakeBuilder().
					WithByteSize(1024).
					WithBlockSize(64).
					WithWayAssociativity(4).
					WithReplacementPolicy(kind).
					WithRandomSeed(1).
					Build("L1")
				Expect(err).To(BeNil())

				c.Access(0x1000, false, nil, nil)
				Expect(c.Access(0x1000, false, nil, nil)).To(BeTrue())
			}
		})
	})

	Context("when reset", func() {
		It("should leave every counter at zero and no block resident", func() {
			c := buildTinyCache(WriteBack)
			c.Access(0x00, true, nil, nil)
			c.Access(0x80, false, nil, nil)

			c.Reset()

			Expect(c.Stats()).To(Equal(Stats{}))
			Expect(c.MESITransitions()).To(Equal([4][4]uint64{}))
			Expect(c.Contains(0x00)).To(BeFalse())
			Expect(c.Contains(0x80)).To(BeFalse())
		})

		It("should keep the content when only the stats reset", func() {
			c := buildTinyCache(WriteBack)
			c.Access(0x00, false, nil, nil)

			c.ResetStats()

			Expect(c.Stats()).To(Equal(Stats{}))
			Expect(c.Contains(0x00)).To(BeTrue())
		})
	})
})
