package engine

import "github.com/prometheus/client_golang/prometheus"

// Metrics bundles the render-tick counters/gauges registered against a
// caller-supplied registerer, so the host process controls where (or
// whether) they get scraped.
type Metrics struct {
	TicksTotal        prometheus.Counter
	TicksDroppedTotal prometheus.Counter
	FPS               prometheus.Gauge
	DDPWriteErrors    prometheus.Counter
}

// NewMetrics registers the engine's metrics against reg and returns the
// handles used to update them from the tick loop.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		TicksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ledengine_ticks_total",
			Help: "Total render ticks completed.",
		}),
		TicksDroppedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ledengine_ticks_dropped_total",
			Help: "Render ticks that overran their frame budget.",
		}),
		FPS: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ledengine_fps",
			Help: "Current target render loop frames per second.",
		}),
		DDPWriteErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ledengine_ddp_write_errors_total",
			Help: "UDP write errors encountered sending DDP packets to devices.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.TicksTotal, m.TicksDroppedTotal, m.FPS, m.DDPWriteErrors)
	}
	return m
}
