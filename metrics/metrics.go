// Package metrics exposes the dashboard's Prometheus instruments on a
// private registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/andina-bi/dashboard/records"
)

const namespace = "dashboard"

// Metrics groups the instruments. The zero value is not usable; call New.
type Metrics struct {
	registry *prometheus.Registry

	requests    *prometheus.CounterVec
	renderTime  *prometheus.HistogramVec
	loadedRows  *prometheus.GaugeVec
	loadSeconds prometheus.Gauge
}

// New registers every instrument, plus the Go runtime and process
// collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		renderTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Time to filter, aggregate and compose one tab.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}, []string{"tab"}),
		loadedRows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "loaded_rows",
			Help:      "Rows held in the record store by collection.",
		}, []string{"collection"}),
		loadSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "load_duration_seconds",
			Help:      "Time taken by the startup load.",
		}),
	}
	m.registry.MustRegister(
		m.requests, m.renderTime, m.loadedRows, m.loadSeconds,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the registry the instruments live on.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRequest counts one HTTP request.
func (m *Metrics) ObserveRequest(route string, code int) {
	m.requests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

// ObserveRender records how long one tab took to render.
func (m *Metrics) ObserveRender(tab string, d time.Duration) {
	m.renderTime.WithLabelValues(tab).Observe(d.Seconds())
}

// SetLoaded records the row count of each collection and the load time.
func (m *Metrics) SetLoaded(c records.Counts, d time.Duration) {
	m.loadedRows.WithLabelValues("sales").Set(float64(c.Sales))
	m.loadedRows.WithLabelValues("customers").Set(float64(c.Customers))
	m.loadedRows.WithLabelValues("inventory").Set(float64(c.Inventory))
	m.loadedRows.WithLabelValues("receivables").Set(float64(c.Receivables))
	m.loadedRows.WithLabelValues("products").Set(float64(c.Products))
	m.loadedRows.WithLabelValues("imports").Set(float64(c.Imports))
	m.loadSeconds.Set(d.Seconds())
}
