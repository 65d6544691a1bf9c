package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements repository.Metrics using Prometheus.
type Recorder struct {
	estimates *prometheus.CounterVec
	errors    *prometheus.CounterVec
	beta      *prometheus.GaugeVec
	latency   *prometheus.HistogramVec
	fetches   *prometheus.CounterVec
}

// New registers the estimator collectors on reg; nil means the default registry.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Recorder{
		estimates: f.NewCounterVec(prometheus.CounterOpts{
			Name: "finbeta_estimates_total",
			Help: "CAPM estimations by interval and outcome",
		}, []string{"interval", "result"}),
		errors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "finbeta_errors_total",
			Help: "Estimation failures by error kind",
		}, []string{"kind"}),
		beta: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "finbeta_last_beta",
			Help: "Most recent Beta estimate per asset and market",
		}, []string{"asset", "market"}),
		latency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "finbeta_operation_duration_seconds",
			Help:    "Duration of estimator stages in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"operation"}),
		fetches: f.NewCounterVec(prometheus.CounterOpts{
			Name: "finbeta_fetches_total",
			Help: "Market data fetches by source and outcome",
		}, []string{"source", "result"}),
	}
}

func (r *Recorder) RecordEstimate(interval, result string) {
	r.estimates.WithLabelValues(interval, result).Inc()
}

func (r *Recorder) RecordError(kind string) {
	r.errors.WithLabelValues(kind).Inc()
}

func (r *Recorder) RecordBeta(asset, market string, beta float64) {
	r.beta.WithLabelValues(asset, market).Set(beta)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

func (r *Recorder) RecordFetch(source, result string) {
	r.fetches.WithLabelValues(source, result).Inc()
}

// Nop discards everything; used by the CLI.
type Nop struct{}

func (Nop) RecordEstimate(string, string)      {}
func (Nop) RecordError(string)                 {}
func (Nop) RecordBeta(string, string, float64) {}
func (Nop) RecordLatency(string, float64)      {}
func (Nop) RecordFetch(string, string)         {}
