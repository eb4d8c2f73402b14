// Package metrics exposes Prometheus counters for calculator traffic.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all Prometheus metrics for defikit.
type Registry struct {
	reg *prometheus.Registry

	// Evaluations counts engine runs by engine and outcome status.
	Evaluations *prometheus.CounterVec
	// EvaluationDuration observes engine run time.
	EvaluationDuration *prometheus.HistogramVec
	// LiveConnections is the number of open live-recompute sockets.
	LiveConnections prometheus.Gauge
	// LiveDropped counts frames dropped by the live rate limiter.
	LiveDropped prometheus.Counter
}

// NewRegistry creates and registers every metric on a private registry.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		Evaluations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "defikit_evaluations_total",
				Help: "Calculator evaluations by engine and result status",
			},
			[]string{"engine", "status"},
		),
		EvaluationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "defikit_evaluation_duration_seconds",
				Help:    "Duration of calculator evaluations in seconds",
				Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
			},
			[]string{"engine"},
		),
		LiveConnections: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "defikit_live_connections",
				Help: "Open live recompute websocket connections",
			},
		),
		LiveDropped: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "defikit_live_dropped_frames_total",
				Help: "Live recompute frames dropped by rate limiting",
			},
		),
	}
	r.reg.MustRegister(r.Evaluations, r.EvaluationDuration, r.LiveConnections, r.LiveDropped)
	return r
}

// Gatherer returns the registry for the /metrics handler.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// ObserveEvaluation records one engine run.
func (r *Registry) ObserveEvaluation(engine, status string, started time.Time) {
	r.Evaluations.WithLabelValues(engine, status).Inc()
	r.EvaluationDuration.WithLabelValues(engine).Observe(time.Since(started).Seconds())
}
