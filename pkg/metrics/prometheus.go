package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	requestsTotal  *prometheus.CounterVec
	cacheHitsTotal *prometheus.CounterVec
	cacheMissTotal *prometheus.CounterVec
	errorsTotal    *prometheus.CounterVec
	latency        *prometheus.HistogramVec
	mentionsTotal  *prometheus.CounterVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		requestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "demandcast_requests_total",
				Help: "Total number of requests served per endpoint",
			},
			[]string{"endpoint"},
		),
		cacheHitsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "demandcast_cache_hits_total",
				Help: "Total forecast cache hits",
			},
			[]string{"op"},
		),
		cacheMissTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "demandcast_cache_misses_total",
				Help: "Total forecast cache misses",
			},
			[]string{"op"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "demandcast_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "demandcast_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		mentionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "demandcast_mentions_ingested_total",
				Help: "Total live mention rows ingested from the broker",
			},
			[]string{"source"},
		),
	}
}

// RecordRequest records a served request for an endpoint.
func (r *Recorder) RecordRequest(endpoint string) {
	r.requestsTotal.WithLabelValues(endpoint).Inc()
}

// RecordCacheHit records a forecast cache hit.
func (r *Recorder) RecordCacheHit(op string) {
	r.cacheHitsTotal.WithLabelValues(op).Inc()
}

// RecordCacheMiss records a forecast cache miss.
func (r *Recorder) RecordCacheMiss(op string) {
	r.cacheMissTotal.WithLabelValues(op).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

// RecordMentionIngested records one live mention row from a source.
func (r *Recorder) RecordMentionIngested(source string) {
	r.mentionsTotal.WithLabelValues(source).Inc()
}
