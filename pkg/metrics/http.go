package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics records throughput, latency and concurrency for the API server.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inFlight prometheus.Gauge
}

// NewHTTPMetrics registers the HTTP metrics on the provided registerer.
func NewHTTPMetrics(reg prometheus.Registerer, service string) *HTTPMetrics {
	if reg == nil {
		return &HTTPMetrics{}
	}
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "http_requests_total",
		Help:        "Total number of HTTP requests.",
		ConstLabels: prometheus.Labels{"service": service},
	}, []string{"method", "path", "status"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:        "http_request_duration_seconds",
		Help:        "Duration of HTTP requests in seconds.",
		ConstLabels: prometheus.Labels{"service": service},
		Buckets:     []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"method", "path"})
	inFlight := prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        "http_requests_in_flight",
		Help:        "Current number of HTTP requests being processed.",
		ConstLabels: prometheus.Labels{"service": service},
	})
	reg.MustRegister(requests, duration, inFlight)
	return &HTTPMetrics{
		requests: requests,
		duration: duration,
		inFlight: inFlight,
	}
}

// ObserveRequest records one completed request. Path should be the route
// pattern, not the raw URL, to keep label cardinality bounded.
func (h *HTTPMetrics) ObserveRequest(method, path string, status int, elapsed time.Duration) {
	if h == nil || h.requests == nil {
		return
	}
	p := normalizeRoute(path)
	h.requests.WithLabelValues(method, p, strconv.Itoa(status)).Inc()
	h.duration.WithLabelValues(method, p).Observe(elapsed.Seconds())
}

// TrackInFlight increments the in-flight gauge and returns the paired decrement.
func (h *HTTPMetrics) TrackInFlight() func() {
	if h == nil || h.inFlight == nil {
		return func() {}
	}
	h.inFlight.Inc()
	return func() { h.inFlight.Dec() }
}

func normalizeRoute(path string) string {
	if path == "" {
		return "unmatched"
	}
	return path
}
