package sim_test

import (
	"context"
	"errors"
	"image"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/wavesim/internal/config"
	"github.com/san-kum/wavesim/internal/dynamo"
	"github.com/san-kum/wavesim/internal/sim"
	"github.com/san-kum/wavesim/internal/wave"
)

func smallConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Wave.Width = 48
	cfg.Wave.Height = 40
	cfg.Wave.BarrierRow = 16
	cfg.Wave.SourceRow = 4
	cfg.Wave.SlitSeparation = 10
	cfg.Wave.SlitWidth = 2
	cfg.Render.Scale = 2
	return cfg
}

func amplitudes(s *sim.Simulation) []float64 {
	w := s.Solver().(*wave.Solver)
	return append([]float64(nil), w.Current().Data...)
}

func mirrored(img *image.RGBA) bool {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X/2; x++ {
			if img.RGBAAt(x, y) != img.RGBAAt(b.Max.X-1-x, y) {
				return false
			}
		}
	}
	return true
}

var _ = Describe("Simulation", func() {
	var (
		s     *sim.Simulation
		frame *image.RGBA
	)

	BeforeEach(func() {
		var err error
		s, err = sim.New(smallConfig())
		Expect(err).NotTo(HaveOccurred())
		frame = s.NewFrame()
	})

	It("sizes frames by the render scale", func() {
		Expect(frame.Bounds().Dx()).To(Equal(96))
		Expect(frame.Bounds().Dy()).To(Equal(80))
	})

	It("keeps barrier cells at zero on every frame", func() {
		w := s.Solver().(*wave.Solver)
		for i := 0; i < 200; i++ {
			s.Tick(frame)
			for _, idx := range w.Mask().Cells() {
				Expect(w.Current().Data[idx]).To(BeZero())
			}
		}
	})

	It("paints a mirror-symmetric frame every tick", func() {
		for i := 0; i < 150; i++ {
			s.Tick(frame)
			Expect(mirrored(frame)).To(BeTrue(), "frame %d", i)
		}
		Expect(s.Stability().Err()).NotTo(HaveOccurred())
	})

	Context("when paused", func() {
		It("stops stepping but still repaints", func() {
			for i := 0; i < 20; i++ {
				s.Tick(frame)
			}
			Expect(s.Apply(sim.Pause())).To(Succeed())
			before := amplitudes(s)
			steps := s.Steps()

			frame.Pix[0] = 1
			frame.Pix[1] = 2
			s.Tick(frame)
			Expect(s.Steps()).To(Equal(steps))
			Expect(amplitudes(s)).To(Equal(before))
			Expect(frame.Pix[3]).To(Equal(uint8(255)))
			Expect(s.Frames()).To(Equal(21))
		})

		It("toggles back to running", func() {
			Expect(s.Apply(sim.TogglePause())).To(Succeed())
			Expect(s.Params().Paused).To(BeTrue())
			Expect(s.Apply(sim.TogglePause())).To(Succeed())
			Expect(s.Params().Paused).To(BeFalse())
		})
	})

	Describe("measurement", func() {
		It("collapses once on the next tick and suppresses the source", func() {
			for i := 0; i < 60; i++ {
				s.Tick(frame)
			}
			Expect(s.Apply(sim.Measure())).To(Succeed())
			Expect(s.Params().Measured).To(BeFalse())

			s.Tick(frame)
			Expect(s.Params().Measured).To(BeTrue())
			Expect(s.Solver().(dynamo.Collapser).Measured()).To(BeTrue())
		})

		It("is undone by reset, after which injection resumes", func() {
			s.Apply(sim.Measure())
			s.Tick(frame)
			Expect(s.Apply(sim.Reset())).To(Succeed())

			Expect(s.Params().Measured).To(BeFalse())
			Expect(s.Steps()).To(BeZero())
			for _, v := range amplitudes(s) {
				Expect(v).To(BeZero())
			}

			s.Tick(frame)
			w := s.Solver().(*wave.Solver)
			Expect(w.Amplitude(10, 4)).NotTo(BeZero())
		})
	})

	Describe("commands", func() {
		It("clamps parameters to their bounds", func() {
			Expect(s.Apply(sim.SetParam("speed", 5))).To(Succeed())
			Expect(s.Params().Speed).To(Equal(dynamo.Bounds["speed"].Max))
			Expect(s.Solver().GetParams()["speed"]).To(Equal(dynamo.Bounds["speed"].Max))
		})

		It("rejects unknown parameters and palettes", func() {
			Expect(errors.Is(s.Apply(sim.SetParam("mass", 1)), dynamo.ErrUnknownParam)).To(BeTrue())
			Expect(s.Apply(sim.SetPalette("plasma"))).NotTo(Succeed())
			Expect(s.Params().Palette).To(Equal("viridis"))
		})

		It("switches palettes", func() {
			Expect(s.Apply(sim.SetPalette("ember"))).To(Succeed())
			Expect(s.Painter().Palette.Name).To(Equal("ember"))
			Expect(s.Params().Palette).To(Equal("ember"))
		})

		It("applies queued commands only when drained", func() {
			Expect(s.Send(sim.Pause())).To(BeTrue())
			Expect(s.Params().Paused).To(BeFalse())
			s.Drain()
			Expect(s.Params().Paused).To(BeTrue())
		})

		It("drops commands when the queue is full", func() {
			small, err := sim.New(smallConfig(), sim.WithCommandBuffer(1))
			Expect(err).NotTo(HaveOccurred())
			Expect(small.Send(sim.Pause())).To(BeTrue())
			Expect(small.Send(sim.Resume())).To(BeFalse())
		})
	})

	Describe("Run", func() {
		It("ticks once per tick and stops when the source closes", func() {
			ticks := make(chan time.Time)
			presented := 0
			done := make(chan error, 1)
			go func() {
				done <- s.Run(context.Background(), ticks, func(*image.RGBA) error {
					presented++
					return nil
				})
			}()

			s.Send(sim.SetParam("damping", 0.95))
			for i := 0; i < 5; i++ {
				ticks <- time.Unix(int64(i), 0)
			}
			close(ticks)

			Eventually(done).Should(Receive(BeNil()))
			Expect(presented).To(Equal(5))
			Expect(s.Steps()).To(Equal(5))
			Expect(s.Params().Damping).To(Equal(0.95))
		})

		It("stops on a present error", func() {
			ticks := make(chan time.Time, 3)
			for i := 0; i < 3; i++ {
				ticks <- time.Time{}
			}
			boom := errors.New("window closed")
			err := s.Run(context.Background(), ticks, func(*image.RGBA) error { return boom })
			Expect(err).To(MatchError(boom))
			Expect(s.Steps()).To(Equal(1))
		})

		It("stops when the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			err := s.Run(ctx, make(chan time.Time), nil)
			Expect(err).To(MatchError(context.Canceled))
		})
	})

	Describe("RunSteps", func() {
		It("produces a screen profile and metrics", func() {
			res, err := s.RunSteps(context.Background(), 300)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Steps).To(Equal(300))
			Expect(res.Profile).To(HaveLen(48))
			Expect(res.Metrics).To(HaveKey("stability"))
			Expect(res.Metrics["stability"]).To(Equal(1.0))
			Expect(res.Diverged).To(BeNil())
		})

		It("rejects a non-positive step count", func() {
			_, err := s.RunSteps(context.Background(), 0)
			Expect(errors.Is(err, dynamo.ErrParameterBounds)).To(BeTrue())
		})
	})

	It("drives the quantum solver through the same loop", func() {
		cfg := config.GetPreset(config.SolverQuantum, "quantum-full")
		cfg.Quantum.Nx, cfg.Quantum.Ny = 64, 64
		q, err := sim.New(cfg)
		Expect(err).NotTo(HaveOccurred())
		img := q.NewFrame()
		for i := 0; i < 5; i++ {
			q.Tick(img)
		}
		Expect(q.Steps()).To(Equal(5))
		Expect(q.Params().Dt).To(Equal(0.002))
	})
})
