// Package metrics exposes Prometheus collectors for the HTTP API and the snapshot manager.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"timetable.transitboard.org/internal/models"
)

const namespace = "timetable"

// Metrics owns a private registry so tests and multiple servers do not collide.
// Every method is safe on a nil receiver.
type Metrics struct {
	Registry *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	refreshes       *prometheus.CounterVec
	refreshDuration prometheus.Summary
	collectionSize  *prometheus.GaugeVec
	lastRefresh     prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by route pattern, method and status code.",
		}, []string{"route", "method", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latency of HTTP requests by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_refreshes_total",
			Help:      "Snapshot loads from storage, by result.",
		}, []string{"result"}),
		refreshDuration: prometheus.NewSummary(prometheus.SummaryOpts{
			Namespace: namespace,
			Name:      "snapshot_refresh_duration_seconds",
			Help:      "Time taken to load a snapshot from storage.",
		}),
		collectionSize: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_entities",
			Help:      "Number of entities in the live snapshot, by collection.",
		}, []string{"collection"}),
		lastRefresh: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_last_success_timestamp_seconds",
			Help:      "Unix time of the last successful snapshot load.",
		}),
	}

	m.Registry.MustRegister(
		m.requests,
		m.requestDuration,
		m.refreshes,
		m.refreshDuration,
		m.collectionSize,
		m.lastRefresh,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveRequest(route, method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route, method).Observe(d.Seconds())
}

// ObserveRefresh records one snapshot load. snap is only read when err is nil.
func (m *Metrics) ObserveRefresh(d time.Duration, err error, snap *models.Snapshot) {
	if m == nil {
		return
	}
	m.refreshDuration.Observe(d.Seconds())
	if err != nil {
		m.refreshes.WithLabelValues("error").Inc()
		return
	}
	m.refreshes.WithLabelValues("success").Inc()
	m.lastRefresh.Set(float64(time.Now().Unix()))
	if snap == nil {
		return
	}
	m.collectionSize.WithLabelValues("routes").Set(float64(len(snap.Routes)))
	m.collectionSize.WithLabelValues("schedules").Set(float64(len(snap.Schedules)))
	m.collectionSize.WithLabelValues("time_infos").Set(float64(len(snap.TimeAnnotations)))
	m.collectionSize.WithLabelValues("public_holidays").Set(float64(len(snap.Holidays)))
	m.collectionSize.WithLabelValues("announcements").Set(float64(len(snap.Announcements)))
}
