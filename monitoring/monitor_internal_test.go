package monitoring

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/muditbhargava66/CacheSimulator-sub000/mem/hierarchy"
	"github.com/muditbhargava66/CacheSimulator-sub000/mem/prefetch"
)

var _ = Describe("Monitor", func() {
	var (
		m *Monitor
	)

	BeforeEach(func() {
		m = NewMonitor()
	})

	It("should register every level and prefetcher of a hierarchy", func() {
		h, err := hierarchy.MakeBuilder().
			WithL1(1024, 2).
			WithL2(4096, 4).
			WithPrefetchEnabled(true).
			WithAdaptivePrefetching(prefetch.Adaptive, 8).
			Build()
		Expect(err).To(BeNil())

		m.RegisterHierarchy(h)

		Expect(m.hierarchy).To(BeIdenticalTo(h))
		Expect(m.components).To(HaveLen(4))
		Expect(m.components).To(HaveKey("L1"))
		Expect(m.components).To(HaveKey("L2"))
		Expect(m.components).To(HaveKey("StridePredictor"))
		Expect(m.components).To(HaveKey("AdaptivePrefetcher"))
	})

	It("should register only the components that exist", func() {
		h, err := hierarchy.MakeBuilder().
			WithL1(1024, 2).
			Build()
		Expect(err).To(BeNil())

		m.RegisterHierarchy(h)

		Expect(m.components).To(HaveLen(1))
		Expect(m.components).To(HaveKey("L1"))
	})

	It("should create and complete progress bars", func() {
		parseBar := m.CreateProgressBar("Parsing trace", 100)
		simBar := m.CreateProgressBar("Simulating", 100)

		Expect(m.progressBars).To(HaveLen(2))

		m.CompleteProgressBar(parseBar)

		Expect(m.progressBars).To(HaveLen(1))
		Expect(m.progressBars[0]).To(BeIdenticalTo(simBar))
	})
})

var _ = Describe("ProgressBar", func() {
	It("should track in-progress and finished items", func() {
		bar := &ProgressBar{Name: "Simulating", Total: 10}

		bar.IncrementInProgress(4)
		bar.IncrementFinished(1)
		bar.MoveInProgressToFinished(3)

		Expect(bar.InProgress).To(Equal(uint64(1)))
		Expect(bar.Finished).To(Equal(uint64(4)))
	})
})
