// Package metrics exposes Prometheus collectors for the audit service.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	auditsTotal                *prometheus.CounterVec
	pagesFetchedTotal          *prometheus.CounterVec
	pageIssuesTotal            *prometheus.CounterVec
	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec
	activeAudits               prometheus.Gauge

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times; the Observe helpers
// call it lazily so collectors exist before first use.
func Init() {
	once.Do(func() {
		auditsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "seoaudit_audits_total",
				Help: "Total number of audits finished, labeled by terminal status.",
			},
			[]string{"status"},
		)

		pagesFetchedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "seoaudit_pages_fetched_total",
				Help: "Total number of pages fetched across audits, labeled by status code.",
			},
			[]string{"code"},
		)

		pageIssuesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "seoaudit_page_issues_total",
				Help: "Total number of detected SEO issues, labeled by issue code.",
			},
			[]string{"issue"},
		)

		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		)

		httpRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"method", "route"},
		)

		activeAudits = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "seoaudit_active_audits",
				Help: "Number of audits currently running.",
			},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveAudit increments the audit counter for the given terminal status.
func ObserveAudit(status string) {
	Init()
	auditsTotal.WithLabelValues(status).Inc()
}

// ObservePage increments the fetched-page counter for a status code.
func ObservePage(statusCode int) {
	Init()
	pagesFetchedTotal.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// ObserveIssue increments the issue counter for the given code.
func ObserveIssue(code string) {
	Init()
	pageIssuesTotal.WithLabelValues(code).Inc()
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	Init()
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}

// IncActiveAudits increments the running-audit gauge.
func IncActiveAudits() {
	Init()
	activeAudits.Inc()
}

// DecActiveAudits decrements the running-audit gauge.
func DecActiveAudits() {
	Init()
	activeAudits.Dec()
}
