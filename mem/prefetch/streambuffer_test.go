package prefetch_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/muditbhargava66/CacheSimulator-sub000/mem/prefetch"
)

var _ = Describe("StreamBuffer", func() {
	var buffer *prefetch.StreamBuffer

	BeforeEach(func() {
		buffer = prefetch.NewStreamBuffer(4, 64)
	})

	It("should miss when nothing was prefetched", func() {
		Expect(buffer.Access(0x1000)).To(BeFalse())
	})

	It("should hold consecutive blocks after a prefetch", func() {
		buffer.Prefetch(0x1000)

		Expect(buffer.Access(0x1000)).To(BeTrue())
		Expect(buffer.Access(0x1040)).To(BeTrue())
		Expect(buffer.Access(0x1080)).To(BeTrue())
		Expect(buffer.Access(0x10C0)).To(BeTrue())
		Expect(buffer.Access(0x1100)).To(BeFalse())
	})

	It("should match any address inside a prefetched block", func() {
		buffer.Prefetch(0x1000)

		Expect(buffer.Access(0x1004)).To(BeTrue())
		Expect(buffer.Access(0x103F)).To(BeTrue())
	})

	It("should align the prefetch base to the block size", func() {
		buffer.Prefetch(0x1004)

		Expect(buffer.Access(0x1000)).To(BeTrue())
	})

	It("should consume the prefix up to the hit on a shift", func() {
		buffer.Prefetch(0x1000)

		Expect(buffer.Access(0x1040)).To(BeTrue())
		buffer.Shift()

		Expect(buffer.Access(0x1000)).To(BeFalse())
		Expect(buffer.Access(0x1040)).To(BeFalse())
		Expect(buffer.Access(0x1080)).To(BeTrue())
		Expect(buffer.Access(0x10C0)).To(BeTrue())
	})

	It("should do nothing on a shift without a preceding hit", func() {
		buffer.Prefetch(0x1000)
		buffer.Shift()

		Expect(buffer.Access(0x1000)).To(BeTrue())
	})

	It("should count probes and hits", func() {
		buffer.Prefetch(0x1000)
		buffer.Access(0x1000)
		buffer.Access(0x2000)

		Expect(buffer.Accesses()).To(Equal(uint64(2)))
		Expect(buffer.Hits()).To(Equal(uint64(1)))
	})

	It("should forget everything on reset", func() {
		buffer.Prefetch(0x1000)
		buffer.Access(0x1000)
		buffer.Reset()

		Expect(buffer.Access(0x1000)).To(BeFalse())
		Expect(buffer.Accesses()).To(Equal(uint64(1)))
		Expect(buffer.Hits()).To(Equal(uint64(0)))
	})

	Context("with a single slot", func() {
		BeforeEach(func() {
			buffer = prefetch.NewStreamBuffer(1, 64)
		})

		It("should act as a one-block lookahead", func() {
			buffer.Prefetch(0x1000)

			Expect(buffer.Access(0x1000)).To(BeTrue())
			buffer.Shift()

			Expect(buffer.Access(0x1000)).To(BeFalse())
			Expect(buffer.Access(0x1040)).To(BeFalse())
		})
	})
})
