package gateway

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels recorded for every Translate call.
const (
	OutcomeOK       = "ok"
	OutcomeInvalid  = "invalid"
	OutcomeUpstream = "upstream_error"
	OutcomeParse    = "parse_error"
)

// Metrics records gateway activity in Prometheus.
type Metrics struct {
	requests *prometheus.CounterVec
	upstream prometheus.Histogram
}

// NewMetrics creates and registers the gateway collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kotoba_translate_requests_total",
				Help: "Total number of translation requests by outcome",
			},
			[]string{"outcome"},
		),
		upstream: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "kotoba_upstream_duration_seconds",
				Help:    "Duration of language model calls",
				Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
			},
		),
	}
	if reg != nil {
		reg.MustRegister(m.requests, m.upstream)
	}
	return m
}

func (m *Metrics) observe(outcome string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(outcome).Inc()
}

func (m *Metrics) observeUpstream(d time.Duration) {
	if m == nil {
		return
	}
	m.upstream.Observe(d.Seconds())
}
