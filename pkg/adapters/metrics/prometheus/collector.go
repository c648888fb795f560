package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/aescanero/sentiment/pkg/ports"
)

// Collector implements ports.MetricsCollector using Prometheus
type Collector struct {
	requests          *prometheus.CounterVec
	labels            *prometheus.CounterVec
	inferenceFailures *prometheus.CounterVec
	inferenceDuration *prometheus.HistogramVec
}

// NewCollector creates a collector registered on reg.
// Passing a fresh registry keeps collectors independent in tests.
func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sentiment_requests_total",
				Help: "Total number of sentiment requests by outcome",
			},
			[]string{"outcome"},
		),
		labels: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sentiment_labels_total",
				Help: "Total number of labels returned to clients",
			},
			[]string{"label"},
		),
		inferenceFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sentiment_inference_failures_total",
				Help: "Total number of failed inference calls by reason",
			},
			[]string{"reason"},
		),
		inferenceDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sentiment_inference_duration_seconds",
				Help:    "Inference provider call latency in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 20},
			},
			[]string{"model"},
		),
	}
}

// IncRequests increments the count of requests with the given outcome
func (c *Collector) IncRequests(outcome string) {
	c.requests.WithLabelValues(outcome).Inc()
}

// IncLabel increments the count of a returned label
func (c *Collector) IncLabel(label string) {
	c.labels.WithLabelValues(label).Inc()
}

// IncInferenceFailures increments the count of failed inference calls
func (c *Collector) IncInferenceFailures(kind ports.InferenceErrorKind) {
	c.inferenceFailures.WithLabelValues(string(kind)).Inc()
}

// ObserveInferenceDuration records the latency of an inference call
func (c *Collector) ObserveInferenceDuration(model string, duration time.Duration) {
	c.inferenceDuration.WithLabelValues(model).Observe(duration.Seconds())
}
