// Package metrics exports Sendly client activity as Prometheus metrics.
//
//	obs := metrics.New(prometheus.DefaultRegisterer)
//	client, err := sendly.New(apiKey, sendly.WithObserver(obs))
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/sendly-live/sendly-go/internal/api"
	"github.com/sendly-live/sendly-go/internal/apierrors"
)

var _ api.Observer = (*Observer)(nil)

// OutcomeSuccess labels calls that returned without error.
const OutcomeSuccess = "success"

// Observer records request counts, retries and latency. It implements
// sendly.Observer.
type Observer struct {
	requests *prometheus.CounterVec
	retries  *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inflight prometheus.Gauge
}

// New creates an Observer and registers its collectors with reg. A nil reg
// leaves the collectors unregistered.
func New(reg prometheus.Registerer) *Observer {
	factory := promauto.With(reg)
	return &Observer{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sendly_client_requests_total",
			Help: "Total number of API calls by method and outcome",
		}, []string{"method", "outcome"}),
		retries: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sendly_client_retries_total",
			Help: "Total number of retried attempts by method and error kind",
		}, []string{"method", "kind"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sendly_client_request_duration_seconds",
			Help:    "API call duration in seconds, including retries",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"method", "outcome"}),
		inflight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "sendly_client_requests_in_flight",
			Help: "Number of API calls currently executing",
		}),
	}
}

// OnRequestStart implements sendly.Observer.
func (o *Observer) OnRequestStart(method, path string) {
	o.inflight.Inc()
}

// OnRetry implements sendly.Observer.
func (o *Observer) OnRetry(method, path string, attempt int, delay time.Duration, err error) {
	o.retries.WithLabelValues(method, outcome(err)).Inc()
}

// OnRequestEnd implements sendly.Observer.
func (o *Observer) OnRequestEnd(method, path string, attempts int, duration time.Duration, err error) {
	o.inflight.Dec()
	result := outcome(err)
	o.requests.WithLabelValues(method, result).Inc()
	o.duration.WithLabelValues(method, result).Observe(duration.Seconds())
}

// outcome maps err to a low-cardinality label: "success", an error kind, or
// "unknown". Paths are never used as labels since they embed resource IDs.
func outcome(err error) string {
	if err == nil {
		return OutcomeSuccess
	}
	if e, ok := apierrors.As(err); ok {
		return string(e.Kind)
	}
	return "unknown"
}
