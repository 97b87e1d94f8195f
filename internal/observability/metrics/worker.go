package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type WorkerMetrics struct {
	registry *prometheus.Registry

	jobsTotal    *prometheus.CounterVec
	jobDuration  *prometheus.HistogramVec
	jobsInFlight prometheus.Gauge
	jobsDropped  prometheus.Counter
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()
	constLabels := prometheus.Labels{"service": service}

	jobsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   "fileinsight",
			Subsystem:   "worker",
			Name:        "jobs_total",
			Help:        "Total enrichment jobs by terminal outcome.",
			ConstLabels: constLabels,
		},
		[]string{"outcome"},
	)
	jobDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   "fileinsight",
			Subsystem:   "worker",
			Name:        "job_duration_seconds",
			Help:        "Enrichment job duration in seconds by terminal outcome.",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		},
		[]string{"outcome"},
	)
	jobsInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace:   "fileinsight",
			Subsystem:   "worker",
			Name:        "jobs_in_flight",
			Help:        "Number of enrichment jobs currently being processed.",
			ConstLabels: constLabels,
		},
	)
	jobsDropped := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace:   "fileinsight",
			Subsystem:   "worker",
			Name:        "jobs_dropped_total",
			Help:        "Jobs dropped because the store write failed terminally.",
			ConstLabels: constLabels,
		},
	)

	registry.MustRegister(jobsTotal, jobDuration, jobsInFlight, jobsDropped)

	return &WorkerMetrics{
		registry:     registry,
		jobsTotal:    jobsTotal,
		jobDuration:  jobDuration,
		jobsInFlight: jobsInFlight,
		jobsDropped:  jobsDropped,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) StartJob() {
	m.jobsInFlight.Inc()
}

func (m *WorkerMetrics) FinishJob(outcome string, duration time.Duration) {
	m.jobsInFlight.Dec()
	m.jobsTotal.WithLabelValues(outcome).Inc()
	m.jobDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

func (m *WorkerMetrics) JobDropped() {
	m.jobsDropped.Inc()
}
