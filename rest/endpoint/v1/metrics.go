package endpoint

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts list requests per resource and status code.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewMetrics(registerer prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "urlquery",
			Name:      "requests_total",
			Help:      "Number of list requests by resource and status code.",
		}, []string{"resource", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "urlquery",
			Name:      "request_duration_seconds",
			Help:      "Time spent translating and executing list requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"resource"}),
	}
	registerer.MustRegister(m.requests, m.duration)
	return m
}

func (m *Metrics) observe(resource string, code int, start time.Time) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(resource, strconv.Itoa(code)).Inc()
	m.duration.WithLabelValues(resource).Observe(time.Since(start).Seconds())
}
