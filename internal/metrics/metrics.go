// Package metrics exports probe aggregates as Prometheus metrics.
package metrics

import (
	"math"

	"github.com/prometheus/client_golang/prometheus"

	"ping-monitor/internal/events"
	"ping-monitor/internal/models"
)

// Metrics holds the probe collectors
type Metrics struct {
	probesTotal *prometheus.CounterVec
	successRate *prometheus.GaugeVec
	rtt         *prometheus.GaugeVec
}

// New creates metrics registered with the default registerer
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates metrics registered with reg
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		probesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ping_probes_total",
				Help: "Total number of probe attempts by result",
			},
			[]string{"host", "result"},
		),
		successRate: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "ping_success_rate",
				Help: "Ratio of successful probes to attempts (0-1)",
			},
			[]string{"host"},
		),
		rtt: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "ping_rtt_ms",
				Help: "Latest round-trip statistics in milliseconds",
			},
			[]string{"host", "stat"},
		),
	}

	reg.MustRegister(m.probesTotal, m.successRate, m.rtt)
	return m
}

// Observe records event and refreshes the host's aggregate gauges from agg
func (m *Metrics) Observe(event models.Event, agg *events.Events) {
	result := "failure"
	if event.Success {
		result = "success"
	}
	m.probesTotal.WithLabelValues(event.Host, result).Inc()

	if rate := agg.SuccessRate(); !math.IsNaN(rate) {
		m.successRate.WithLabelValues(event.Host).Set(rate)
	}

	if event.Success && event.RoundTripStatistics != nil {
		s := event.RoundTripStatistics
		m.setRTT(event.Host, "min", s.Min)
		m.setRTT(event.Host, "avg", s.Average)
		m.setRTT(event.Host, "max", s.Max)
		m.setRTT(event.Host, "stddev", s.StandardDeviation)
	}
}

// NaN values leave the previous reading in place
func (m *Metrics) setRTT(host, stat string, v float64) {
	if math.IsNaN(v) {
		return
	}
	m.rtt.WithLabelValues(host, stat).Set(v)
}
