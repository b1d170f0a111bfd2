// Package metrics exposes Prometheus collectors for dataset loads, queries
// and HTTP traffic. Metrics implements core.Observer so the catalog can
// report without importing Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JonMunkholm/settlements/internal/core"
)

const namespace = "settlements"

// Metrics holds the collectors registered on its own registry.
type Metrics struct {
	registry *prometheus.Registry

	datasetLoads   *prometheus.CounterVec
	datasetRecords prometheus.Gauge
	datasetLoaded  prometheus.Gauge
	fallbackActive prometheus.Gauge
	loadDuration   prometheus.Histogram

	queries       prometheus.Counter
	queryDuration prometheus.Histogram
	queryMatches  prometheus.Histogram

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New creates and registers all collectors. Go runtime and process
// collectors are included.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		datasetLoads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "dataset_loads_total",
				Help:      "Dataset load attempts by serving source and result.",
			},
			[]string{"source", "result"},
		),
		datasetRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_records",
			Help:      "Number of records in the current dataset.",
		}),
		datasetLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_loaded_timestamp_seconds",
			Help:      "Unix time of the last successful dataset load.",
		}),
		fallbackActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_fallback_active",
			Help:      "1 when the current dataset came from the fallback source.",
		}),
		loadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dataset_load_duration_seconds",
			Help:      "Time spent loading and decoding a dataset.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),

		queries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Render cycles served.",
		}),
		queryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_duration_seconds",
			Help:      "Time spent in the search, filter, facet and paginate pipeline.",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 4, 8),
		}),
		queryMatches: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_matches",
			Help:      "Records matching search and filters per render cycle.",
			Buckets:   []float64{0, 1, 10, 50, 100, 500, 1000, 5000, 20000, 50000},
		}),

		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by route pattern and status code.",
			},
			[]string{"route", "code"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency by route pattern.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.datasetLoads, m.datasetRecords, m.datasetLoaded, m.fallbackActive, m.loadDuration,
		m.queries, m.queryDuration, m.queryMatches,
		m.httpRequests, m.httpDuration,
	)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// DatasetLoaded implements core.Observer.
func (m *Metrics) DatasetLoaded(report core.LoadReport, records int, took time.Duration) {
	m.datasetLoads.WithLabelValues(report.Source, "ok").Inc()
	m.datasetRecords.Set(float64(records))
	m.datasetLoaded.SetToCurrentTime()
	m.loadDuration.Observe(took.Seconds())
	if report.Fallback {
		m.fallbackActive.Set(1)
	} else {
		m.fallbackActive.Set(0)
	}
}

// DatasetLoadFailed implements core.Observer.
func (m *Metrics) DatasetLoadFailed(source string, err error) {
	m.datasetLoads.WithLabelValues(source, "error").Inc()
}

// QueryServed implements core.Observer.
func (m *Metrics) QueryServed(took time.Duration, matches int) {
	m.queries.Inc()
	m.queryDuration.Observe(took.Seconds())
	m.queryMatches.Observe(float64(matches))
}

// Middleware records request counts and latency. Routes are labelled by
// their chi pattern so path parameters don't explode cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.httpRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
		m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}
