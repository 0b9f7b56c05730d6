package sim_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/wavesim/internal/sim"
)

var _ = Describe("Command", func() {
	It("parses every kind back from its name", func() {
		for k := sim.CmdPause; k <= sim.CmdSetPalette; k++ {
			got, ok := sim.ParseCommandKind(k.String())
			Expect(ok).To(BeTrue(), k.String())
			Expect(got).To(Equal(k))
		}
		_, ok := sim.ParseCommandKind("explode")
		Expect(ok).To(BeFalse())
	})

	DescribeTable("String",
		func(cmd sim.Command, want string) {
			Expect(cmd.String()).To(Equal(want))
		},
		Entry("pause", sim.Pause(), "pause"),
		Entry("measure", sim.Measure(), "measure"),
		Entry("set param", sim.SetParam("speed", 0.25), "set speed=0.25"),
		Entry("palette", sim.SetPalette("ice"), "palette ice"),
	)
})

var _ = Describe("Result", func() {
	It("reports steps per second", func() {
		r := &sim.Result{Steps: 500, Elapsed: 2 * time.Second}
		Expect(r.StepsPerSecond()).To(Equal(250.0))
		Expect((&sim.Result{Steps: 3}).StepsPerSecond()).To(BeZero())
	})
})
