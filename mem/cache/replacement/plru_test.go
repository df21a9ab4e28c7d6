package replacement

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("PLRU", func() {
	It("should reject a non-power-of-two way count", func() {
		_, err := NewPLRU(6)
		Expect(err).To(HaveOccurred())
	})

	It("should pick the non-most-recently-used way with two ways", func() {
		policy, err := NewPLRU(2)
		Expect(err).To(BeNil())

		policy.OnAccess(0)
		Expect(policy.SelectVictim(allValid(2))).To(Equal(1))

		policy.OnAccess(1)
		Expect(policy.SelectVictim(allValid(2))).To(Equal(0))
	})

	It("should steer the victim away from recently touched ways", func() {
		policy, err := NewPLRU(4)
		Expect(err).To(BeNil())

		policy.OnAccess(0)
		policy.OnAccess(1)
		policy.OnAccess(2)
		policy.OnAccess(3)

		// Ways 2 and 3 were touched last, so the walk leaves their subtree.
		victim := policy.SelectVictim(allValid(4))
		Expect(victim).To(SatisfyAny(Equal(0), Equal(1)))
	})

	It("should never pick the way that was just accessed", func() {
		policy, err := NewPLRU(8)
		Expect(err).To(BeNil())

		for way := 0; way < 8; way++ {
			policy.OnAccess(way)
			Expect(policy.SelectVictim(allValid(8))).NotTo(Equal(way))
		}
	})
})
