package replacement

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Random", func() {
	It("should only return ways that exist", func() {
		policy := NewRandom(4, 42)

		for i := 0; i < 100; i++ {
			victim := policy.SelectVictim(allValid(4))
			Expect(victim).To(SatisfyAll(
				BeNumerically(">=", 0),
				BeNumerically("<", 4),
			))
		}
	})

	It("should be reproducible for the same seed", func() {
		a := NewRandom(4, 42)
		b := NewRandom(4, 42)

		for i := 0; i < 100; i++ {
			Expect(a.SelectVictim(allValid(4))).
				To(Equal(b.SelectVictim(allValid(4))))
		}
	})
})
