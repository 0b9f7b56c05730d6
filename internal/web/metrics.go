package web

import (
	"math"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/san-kum/wavesim/internal/dynamo"
)

// Collectors are the server's Prometheus series. They live on their own
// registry so tests can build several servers.
type Collectors struct {
	Registry     *prometheus.Registry
	FrameSeconds prometheus.Histogram
	StepsTotal   prometheus.Counter
	MaxAmplitude prometheus.Gauge
	Clients      prometheus.Gauge
	Commands     *prometheus.CounterVec
	Dropped      prometheus.Counter
}

func NewCollectors() *Collectors {
	c := &Collectors{
		Registry: prometheus.NewRegistry(),
		FrameSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "wavesim_frame_seconds",
			Help:    "Time spent ticking and painting one frame.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
		StepsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wavesim_steps_total",
			Help: "Solver steps taken.",
		}),
		MaxAmplitude: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "wavesim_max_amplitude",
			Help: "Largest field magnitude after the last step.",
		}),
		Clients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "wavesim_clients",
			Help: "Connected websocket clients.",
		}),
		Commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wavesim_commands_total",
			Help: "Control messages received, by kind.",
		}, []string{"kind"}),
		Dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wavesim_dropped_frames_total",
			Help: "Frames not delivered to a slow client.",
		}),
	}
	c.Registry.MustRegister(c.FrameSeconds, c.StepsTotal, c.MaxAmplitude, c.Clients, c.Commands, c.Dropped)
	return c
}

// OnTick implements dynamo.Observer.
func (c *Collectors) OnTick(f dynamo.Field, step int) {
	c.StepsTotal.Inc()
	w, h := f.Dims()
	peak := 0.0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			peak = math.Max(peak, f.Magnitude(x, y))
		}
	}
	c.MaxAmplitude.Set(peak)
}
