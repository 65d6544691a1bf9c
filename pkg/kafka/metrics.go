package kafka

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type clientMetrics struct {
	published *prometheus.CounterVec
	bytes     *prometheus.CounterVec
	publishS  *prometheus.HistogramVec
	handled   *prometheus.CounterVec
	handleS   *prometheus.HistogramVec
}

var (
	metricsOnce sync.Once
	metricsInst *clientMetrics
)

func sharedMetrics() *clientMetrics {
	metricsOnce.Do(func() {
		metricsInst = &clientMetrics{
			published: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "finbeta_kafka_published_total",
				Help: "Messages published by topic and result",
			}, []string{"topic", "result"}),
			bytes: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "finbeta_kafka_published_bytes_total",
				Help: "Payload bytes published",
			}, []string{"topic"}),
			publishS: promauto.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "finbeta_kafka_publish_seconds",
				Help:    "Publish latency",
				Buckets: prometheus.DefBuckets,
			}, []string{"topic"}),
			handled: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "finbeta_kafka_handled_total",
				Help: "Consumed messages by topic and outcome",
			}, []string{"topic", "result"}),
			handleS: promauto.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "finbeta_kafka_handle_seconds",
				Help:    "Handling time per consumed message",
				Buckets: []float64{0.01, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
			}, []string{"topic"}),
		}
	})
	return metricsInst
}

func (m *clientMetrics) observePublish(topic string, n int, d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.published.WithLabelValues(topic, result).Inc()
	m.bytes.WithLabelValues(topic).Add(float64(n))
	m.publishS.WithLabelValues(topic).Observe(d.Seconds())
}

func (m *clientMetrics) observeHandle(topic, result string, d time.Duration) {
	m.handled.WithLabelValues(topic, result).Inc()
	m.handleS.WithLabelValues(topic).Observe(d.Seconds())
}
