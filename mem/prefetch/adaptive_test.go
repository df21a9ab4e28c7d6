package prefetch_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/muditbhargava66/CacheSimulator-sub000/mem/prefetch"
)

var _ = Describe("AdaptivePrefetcher", func() {
	It("should start at a distance of one block", func() {
		p := prefetch.NewAdaptivePrefetcher(prefetch.Sequential, 8)

		Expect(p.Distance()).To(Equal(1))
	})

	It("should double the distance when prefetches work out", func() {
		p := prefetch.NewAdaptivePrefetcher(prefetch.Sequential, 8)

		for i := 0; i < 10; i++ {
			p.RecordIssue()
			p.RecordOutcome(true)
		}
		p.Adapt()

		Expect(p.Distance()).To(Equal(2))
	})

	It("should cap the distance at the maximum", func() {
		p := prefetch.NewAdaptivePrefetcher(prefetch.Sequential, 4)

		for round := 0; round < 5; round++ {
			for i := 0; i < 10; i++ {
				p.RecordIssue()
				p.RecordOutcome(true)
			}
			p.Adapt()
		}

		Expect(p.Distance()).To(Equal(4))
	})

	It("should halve the distance when prefetches are wasted", func() {
		p := prefetch.NewAdaptivePrefetcher(prefetch.Sequential, 8)

		for i := 0; i < 10; i++ {
			p.RecordIssue()
			p.RecordOutcome(true)
		}
		p.Adapt()
		Expect(p.Distance()).To(Equal(2))

		for i := 0; i < 30; i++ {
			p.RecordIssue()
			p.RecordOutcome(false)
		}
		p.Adapt()

		Expect(p.Distance()).To(Equal(1))
	})

	It("should never drop the distance below one block", func() {
		p := prefetch.NewAdaptivePrefetcher(prefetch.Sequential, 8)

		for i := 0; i < 10; i++ {
			p.RecordIssue()
			p.RecordOutcome(false)
		}
		p.Adapt()
		p.Adapt()

		Expect(p.Distance()).To(Equal(1))
	})

	It("should probe stride synthesis when sequential fails", func() {
		p := prefetch.NewAdaptivePrefetcher(prefetch.Adaptive, 8)
		Expect(p.ActiveMode()).To(Equal(prefetch.Sequential))

		for i := 0; i < 20; i++ {
			p.RecordOutcome(false)
		}
		p.Adapt()

		Expect(p.ActiveMode()).To(Equal(prefetch.Stride))
	})

	It("should stay in stride synthesis while it wins", func() {
		p := prefetch.NewAdaptivePrefetcher(prefetch.Adaptive, 8)

		for i := 0; i < 20; i++ {
			p.RecordOutcome(false)
		}
		p.Adapt()

		for i := 0; i < 20; i++ {
			p.RecordOutcome(true)
		}
		p.Adapt()

		Expect(p.ActiveMode()).To(Equal(prefetch.Stride))
	})

	It("should stay in the fixed mode when not adaptive", func() {
		p := prefetch.NewAdaptivePrefetcher(prefetch.Sequential, 8)

		for i := 0; i < 20; i++ {
			p.RecordOutcome(false)
		}
		p.Adapt()

		Expect(p.ActiveMode()).To(Equal(prefetch.Sequential))
	})

	It("should synthesize sequential addresses from the distance", func() {
		p := prefetch.NewAdaptivePrefetcher(prefetch.Sequential, 8)

		Expect(p.PrefetchAddress(0x1000, 0, 64)).To(Equal(uint64(0x1040)))
	})

	It("should fall back to sequential synthesis without a stride", func() {
		p := prefetch.NewAdaptivePrefetcher(prefetch.Stride, 8)

		Expect(p.PrefetchAddress(0x1000, 0, 64)).To(Equal(uint64(0x1040)))
		Expect(p.PrefetchAddress(0x1000, 0x100, 64)).To(Equal(uint64(0x1100)))
	})

	It("should report accuracy over finished prefetches", func() {
		p := prefetch.NewAdaptivePrefetcher(prefetch.Sequential, 8)

		p.RecordOutcome(true)
		p.RecordOutcome(true)
		p.RecordOutcome(false)
		p.RecordOutcome(false)

		Expect(p.Accuracy()).To(Equal(0.5))
		Expect(p.Useful()).To(Equal(uint64(2)))
		Expect(p.Useless()).To(Equal(uint64(2)))
	})
})
