// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records service-level metrics.
type Collector struct {
	httpRequests   *prometheus.CounterVec
	httpLatency    prometheus.Histogram
	authFailures   prometheus.Counter
	adminDenials   prometheus.Counter
	snapshotsSent  prometheus.Counter
	activeStreams  prometheus.Gauge
	eventsIngested prometheus.Counter
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "legalaid_http_requests_total",
			Help: "HTTP requests by status code",
		}, []string{"status_code"}),
		httpLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "legalaid_http_latency_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		authFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "legalaid_auth_failures_total",
			Help: "Failed credential sign-in attempts",
		}),
		adminDenials: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "legalaid_admin_denials_total",
			Help: "Requests denied by the admin guard",
		}),
		snapshotsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "legalaid_notification_snapshots_total",
			Help: "Notification feed snapshots pushed to subscribers",
		}),
		activeStreams: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "legalaid_notification_streams_active",
			Help: "Currently open notification stream subscriptions",
		}),
		eventsIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "legalaid_ingest_events_total",
			Help: "Notification events consumed from the external pipeline",
		}),
	}

	reg.MustRegister(
		c.httpRequests, c.httpLatency, c.authFailures, c.adminDenials,
		c.snapshotsSent, c.activeStreams, c.eventsIngested,
	)
	return c
}

// RecordHTTPRequest records one served request.
func (c *Collector) RecordHTTPRequest(statusCode int, duration time.Duration) {
	c.httpRequests.WithLabelValues(strconv.Itoa(statusCode)).Inc()
	c.httpLatency.Observe(duration.Seconds())
}

// RecordAuthFailure records a failed sign-in attempt.
func (c *Collector) RecordAuthFailure() { c.authFailures.Inc() }

// RecordAdminDenial records an admin-guard rejection.
func (c *Collector) RecordAdminDenial() { c.adminDenials.Inc() }

// RecordSnapshot records one pushed feed snapshot.
func (c *Collector) RecordSnapshot() { c.snapshotsSent.Inc() }

// StreamOpened and StreamClosed track the active subscription gauge.
func (c *Collector) StreamOpened() { c.activeStreams.Inc() }

// StreamClosed decrements the active subscription gauge.
func (c *Collector) StreamClosed() { c.activeStreams.Dec() }

// RecordEventIngested records one consumed pipeline event.
func (c *Collector) RecordEventIngested() { c.eventsIngested.Inc() }

// Handler returns the HTTP handler serving the metrics registry.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
