package engine

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts frame evaluations. The batch engine and the HTTP server
// share one instance so a serve process reports both.
type Metrics struct {
	rendered *prometheus.CounterVec
	failures *prometheus.CounterVec
	eval     *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg when it is
// not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		rendered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reelframe",
			Name:      "frames_rendered_total",
			Help:      "Frames evaluated successfully.",
		}, []string{"composition"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reelframe",
			Name:      "frame_failures_total",
			Help:      "Frame evaluations or writes that failed.",
		}, []string{"composition"}),
		eval: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "reelframe",
			Name:      "frame_eval_seconds",
			Help:      "Time spent evaluating one frame.",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 4, 8),
		}, []string{"composition"}),
	}
	if reg != nil {
		reg.MustRegister(m.rendered, m.failures, m.eval)
	}
	return m
}

// ObserveFrame records one evaluation of composition.
func (m *Metrics) ObserveFrame(composition string, took time.Duration, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.failures.WithLabelValues(composition).Inc()
		return
	}
	m.rendered.WithLabelValues(composition).Inc()
	m.eval.WithLabelValues(composition).Observe(took.Seconds())
}

// ObserveFailure records a failure that happened after evaluation.
func (m *Metrics) ObserveFailure(composition string) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(composition).Inc()
}
