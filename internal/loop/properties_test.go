package loop_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/novacore/internal/loop"
)

var _ = Describe("Simulate", func() {
	var params loop.Params

	BeforeEach(func() {
		params = loop.DefaultParams()
		params.Duration = 600
	})

	DescribeTable("series length is floor(duration/dt)",
		func(duration, dt float64, want int) {
			params.Duration = duration
			params.Dt = dt

			tr, err := loop.Simulate(params)
			Expect(err).NotTo(HaveOccurred())
			Expect(tr.Len()).To(Equal(want))
			Expect(tr.Times()).To(HaveLen(want))
			Expect(tr.CO2()).To(HaveLen(want))
			Expect(tr.O2()).To(HaveLen(want))
			Expect(tr.Temp()).To(HaveLen(want))
			Expect(tr.Humidity()).To(HaveLen(want))
		},
		Entry("default one-hour run", 3600.0, 1.0, 3600),
		Entry("fractional dt", 10.0, 0.25, 40),
		Entry("non-divisible duration", 10.0, 3.0, 3),
		Entry("single step", 1.0, 1.0, 1),
	)

	It("starts from an empty loop at the setpoint", func() {
		params.TempSetpoint = 19.5

		tr, err := loop.Simulate(params)
		Expect(err).NotTo(HaveOccurred())

		Expect(tr.Sample(0)).To(Equal(loop.Sample{Time: 0, CO2: 0, O2: 0, Temp: 19.5, Humidity: 0}))
	})

	It("stamps time as i*dt exactly", func() {
		params.Dt = 0.1
		params.Duration = 30

		tr, err := loop.Simulate(params)
		Expect(err).NotTo(HaveOccurred())

		for i, t := range tr.Times() {
			Expect(t).To(Equal(float64(i) * 0.1))
		}
	})

	It("is deterministic", func() {
		a, err := loop.Simulate(params)
		Expect(err).NotTo(HaveOccurred())
		b, err := loop.Simulate(params)
		Expect(err).NotTo(HaveOccurred())

		for i := 0; i < a.Len(); i++ {
			sa, sb := a.Sample(i), b.Sample(i)
			Expect(math.Float64bits(sa.CO2)).To(Equal(math.Float64bits(sb.CO2)))
			Expect(math.Float64bits(sa.O2)).To(Equal(math.Float64bits(sb.O2)))
			Expect(math.Float64bits(sa.Temp)).To(Equal(math.Float64bits(sb.Temp)))
			Expect(math.Float64bits(sa.Humidity)).To(Equal(math.Float64bits(sb.Humidity)))
		}
	})

	Context("with zero metabolism", func() {
		BeforeEach(func() {
			params.MetabolicRate = 0
		})

		It("keeps CO2 and O2 at zero", func() {
			tr, err := loop.Simulate(params)
			Expect(err).NotTo(HaveOccurred())

			Expect(tr.CO2()).To(HaveEach(0.0))
			Expect(tr.O2()).To(HaveEach(0.0))
			Expect(tr.Humidity()).To(HaveEach(0.0))
		})

		It("never moves temperature away from the setpoint without heat load", func() {
			params.HeatCoeff = 0
			params.RadCoeff = 0.2

			tr, err := loop.Simulate(params)
			Expect(err).NotTo(HaveOccurred())

			prev := math.Inf(1)
			for _, temp := range tr.Temp() {
				dev := math.Abs(temp - params.TempSetpoint)
				Expect(dev).To(BeNumerically("<=", prev))
				prev = dev
			}
		})
	})

	It("relaxes temperature toward the setpoint once heat load stops", func() {
		params.MetabolicRate = 0.002
		params.ScrubEfficiency = 0.9
		params.HeatCoeff = 50

		tr, err := loop.Simulate(params)
		Expect(err).NotTo(HaveOccurred())

		temp := tr.Temp()
		Expect(temp[1]).To(BeNumerically(">", params.TempSetpoint))
		Expect(temp[len(temp)-1]).To(BeNumerically("~", params.TempSetpoint, 1e-3))
	})

	It("regenerates O2 from scrubbed CO2 scaled by the yield", func() {
		params.Duration = 2
		params.PhotosynthesisYield = 1.5

		tr, err := loop.Simulate(params)
		Expect(err).NotTo(HaveOccurred())

		produced := params.MetabolicRate * params.Dt
		scrubbed := params.ScrubEfficiency * produced * params.Dt
		Expect(tr.O2()[1]).To(BeNumerically("~", scrubbed*1.5, 1e-15))
		Expect(tr.CO2()[1]).To(BeNumerically("~", produced-scrubbed, 1e-15))
	})

	It("rejects a non-positive step with ErrInvalidParameter", func() {
		params.Dt = 0

		tr, err := loop.Simulate(params)
		Expect(err).To(MatchError(loop.ErrInvalidParameter))
		Expect(tr).To(BeNil())
	})
})
