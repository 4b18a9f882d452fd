package balloon

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestBalloonSuite(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Balloon Suite")
}

var _ = Describe("Ensemble", func() {
	var e *Ensemble

	BeforeEach(func() {
		e = NewEnsemble(DefaultParams(), 42)
	})

	Describe("stepping", func() {
		It("keeps every particle inside the balloon", func() {
			for i := 0; i < 200; i++ {
				e.Step(0.008)
			}
			for _, p := range e.Particles() {
				Expect(p.Pos.Length()).To(BeNumerically("<=", e.Radius()))
			}
		})

		It("holds the mean-square speed near the temperature target", func() {
			for i := 0; i < 800; i++ {
				e.Step(0.008)
			}
			Expect(e.MeanSquareSpeed()).To(BeNumerically("~", 3*e.Temperature(), 0.15*3*e.Temperature()))
		})

		It("reports a radius inside the display range", func() {
			for i := 0; i < 200; i++ {
				e.Step(0.008)
			}
			Expect(e.Radius()).To(And(
				BeNumerically(">=", MinRadius),
				BeNumerically("<=", MaxRadius),
			))
		})
	})

	Describe("tuning", func() {
		It("inflates when supply is added", func() {
			before := e.Radius()
			e.SetCount(4000)
			for i := 0; i < 600; i++ {
				e.Step(0.008)
			}
			Expect(e.Radius()).To(BeNumerically(">", before))
		})

		It("deflates slowly after supply is withdrawn", func() {
			e.SetCount(4000)
			for i := 0; i < 600; i++ {
				e.Step(0.008)
			}
			inflated := e.Radius()

			e.SetCount(50)
			for i := 0; i < 30; i++ {
				e.Step(0.008)
			}
			partway := e.Radius()
			for i := 0; i < 1500; i++ {
				e.Step(0.008)
			}
			settled := e.Radius()

			Expect(partway).To(BeNumerically("<", inflated))
			Expect(settled).To(BeNumerically("<", partway))
		})

		It("rejects unknown parameters", func() {
			Expect(e.SetParam("viscosity", 1)).To(HaveOccurred())
		})
	})

	Describe("reset", func() {
		It("reproduces the same trajectory from the same seed", func() {
			for i := 0; i < 100; i++ {
				e.Step(0.008)
			}
			first := e.Readout()

			e.Reset(42)
			for i := 0; i < 100; i++ {
				e.Step(0.008)
			}
			Expect(e.Readout()).To(Equal(first))
		})
	})
})
