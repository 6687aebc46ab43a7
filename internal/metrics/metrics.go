package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/serroba/ttl-shortener/internal/shortener"
)

const namespace = "shortener"

// Recorder counts service outcomes and HTTP traffic.
type Recorder struct {
	shortened  *prometheus.CounterVec
	resolved   *prometheus.CounterVec
	collisions prometheus.Counter
	requests   *prometheus.HistogramVec
	gatherer   prometheus.Gatherer
}

// NewRecorder creates a Recorder and registers its collectors on reg.
func NewRecorder(reg *prometheus.Registry) *Recorder {
	r := &Recorder{
		shortened: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shorten_total",
			Help:      "Shorten requests by outcome.",
		}, []string{"outcome"}),
		resolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolve_total",
			Help:      "Resolve requests by outcome.",
		}, []string{"outcome"}),
		collisions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "code_collisions_total",
			Help:      "Generated codes that were already taken.",
		}),
		requests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		gatherer: reg,
	}

	reg.MustRegister(r.shortened, r.resolved, r.collisions, r.requests)

	return r
}

func (r *Recorder) Shortened(outcome string) {
	r.shortened.WithLabelValues(outcome).Inc()
}

func (r *Recorder) Resolved(outcome string) {
	r.resolved.WithLabelValues(outcome).Inc()
}

func (r *Recorder) Collision() {
	r.collisions.Inc()
}

// ObserveRequest records one served HTTP request. route is the matched pattern, not the raw path.
func (r *Recorder) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	r.requests.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// Handler serves the Prometheus exposition for the recorder's registry.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})
}

var _ shortener.Observer = (*Recorder)(nil)
