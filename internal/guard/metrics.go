package guard

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts guard decisions. A nil *Metrics records nothing.
type Metrics struct {
	decisions *prometheus.CounterVec
	wait      prometheus.Histogram
}

func NewMetrics(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)
	return &Metrics{
		decisions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aulavid",
			Subsystem: "guard",
			Name:      "decisions_total",
			Help:      "Route guard decisions by outcome",
		}, []string{"decision"}),
		wait: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "aulavid",
			Subsystem: "guard",
			Name:      "wait_seconds",
			Help:      "Time spent waiting for session readiness",
			Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 2},
		}),
	}
}

func (m *Metrics) observe(state State, waited time.Duration) {
	if m == nil {
		return
	}
	m.decisions.WithLabelValues(state.String()).Inc()
	m.wait.Observe(waited.Seconds())
}
