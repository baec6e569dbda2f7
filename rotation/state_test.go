package rotation

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("State names", func() {
	It("should encode status fields by name", func() {
		b, err := json.Marshal(Status{
			State:     StateTransitioning,
			Direction: DirectionBackward,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(string(b)).To(ContainSubstring(`"state":"transitioning"`))
		Expect(string(b)).To(ContainSubstring(`"direction":"backward"`))

		var s Status
		Expect(json.Unmarshal(b, &s)).To(Succeed())
		Expect(s.State).To(Equal(StateTransitioning))
		Expect(s.Direction).To(Equal(DirectionBackward))
	})

	It("should reject unknown names", func() {
		var s State
		Expect(s.UnmarshalText([]byte("spinning"))).NotTo(Succeed())

		var a Action
		Expect(a.UnmarshalText([]byte("goto"))).To(Succeed())
		Expect(a).To(Equal(ActionGoTo))
	})

	It("should parse cadences", func() {
		c, err := ParseCadence("expiry")
		Expect(err).NotTo(HaveOccurred())
		Expect(c).To(Equal(CadenceExpiryToExpiry))

		c, err = ParseCadence("")
		Expect(err).NotTo(HaveOccurred())
		Expect(c).To(Equal(CadenceSettleToSettle))

		_, err = ParseCadence("hourly")
		Expect(err).To(HaveOccurred())
	})

	It("should print unknown states", func() {
		Expect(State(42).String()).To(Equal("State(42)"))
	})
})
