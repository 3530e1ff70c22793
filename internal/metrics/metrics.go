// Package metrics provides Prometheus metrics for the shuttle booking service.
package metrics

import (
	"context"
	"database/sql"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	Registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBConnectionsOpen  prometheus.Gauge
	DBConnectionsInUse prometheus.Gauge
	DBConnectionsIdle  prometheus.Gauge
	DBWaitSecondsTotal prometheus.Counter

	BookingsCommitted prometheus.Counter
	BookingsRejected  *prometheus.CounterVec
	BookingsCancelled prometheus.Counter
	CatalogRefreshes  *prometheus.CounterVec

	logger *slog.Logger

	collectorStarted atomic.Bool
	cancel           context.CancelFunc
	wg               sync.WaitGroup
}

func New() *Metrics {
	return NewWithLogger(nil)
}

// NewWithLogger creates metrics with a logger for error reporting.
func NewWithLogger(logger *slog.Logger) *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		Registry: registry,
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shuttlego_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "shuttlego_http_request_duration_seconds",
			Help:    "HTTP request latency distribution",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		DBConnectionsOpen: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "shuttlego_db_connections_open",
			Help: "Number of open database connections",
		}),
		DBConnectionsInUse: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "shuttlego_db_connections_in_use",
			Help: "Number of database connections currently in use",
		}),
		DBConnectionsIdle: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "shuttlego_db_connections_idle",
			Help: "Number of idle database connections",
		}),
		DBWaitSecondsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shuttlego_db_wait_seconds_total",
			Help: "Total time blocked waiting for a database connection",
		}),
		BookingsCommitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shuttlego_bookings_committed_total",
			Help: "Bookings written with a seat reserved",
		}),
		BookingsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shuttlego_bookings_rejected_total",
			Help: "Booking attempts refused before commit, by reason",
		}, []string{"reason"}),
		BookingsCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shuttlego_bookings_cancelled_total",
			Help: "Bookings cancelled by their owners",
		}),
		CatalogRefreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shuttlego_catalog_refreshes_total",
			Help: "Catalog loads, by result",
		}, []string{"result"}),
		logger: logger,
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBConnectionsOpen,
		m.DBConnectionsInUse,
		m.DBConnectionsIdle,
		m.DBWaitSecondsTotal,
		m.BookingsCommitted,
		m.BookingsRejected,
		m.BookingsCancelled,
		m.CatalogRefreshes,
	)

	return m
}

// RecordRejected bumps the rejection counter. Safe on a nil receiver.
func (m *Metrics) RecordRejected(reason string) {
	if m == nil {
		return
	}
	m.BookingsRejected.WithLabelValues(reason).Inc()
}

// RecordCommitted is safe on a nil receiver.
func (m *Metrics) RecordCommitted() {
	if m == nil {
		return
	}
	m.BookingsCommitted.Inc()
}

// RecordCancelled is safe on a nil receiver.
func (m *Metrics) RecordCancelled() {
	if m == nil {
		return
	}
	m.BookingsCancelled.Inc()
}

// RecordCatalogRefresh is safe on a nil receiver.
func (m *Metrics) RecordCatalogRefresh(ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "error"
	}
	m.CatalogRefreshes.WithLabelValues(result).Inc()
}

// StartDBStatsCollector periodically copies db.Stats() into the pool gauges.
// Idempotent; call Shutdown to stop it.
func (m *Metrics) StartDBStatsCollector(db *sql.DB, interval time.Duration) {
	if db == nil {
		return
	}
	if !m.collectorStarted.CompareAndSwap(false, true) {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())

	var lastWaitDuration time.Duration

	// Add before exposing cancel so Shutdown cannot race the goroutine start
	m.wg.Add(1)
	m.cancel = cancel

	go func() {
		defer m.wg.Done()
		defer func() {
			if r := recover(); r != nil && m.logger != nil {
				m.logger.Error("panic in DB stats collector", "error", r)
			}
		}()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				stats := db.Stats()
				m.DBConnectionsOpen.Set(float64(stats.OpenConnections))
				m.DBConnectionsInUse.Set(float64(stats.InUse))
				m.DBConnectionsIdle.Set(float64(stats.Idle))

				waitDelta := stats.WaitDuration - lastWaitDuration
				if waitDelta > 0 {
					m.DBWaitSecondsTotal.Add(waitDelta.Seconds())
				}
				lastWaitDuration = stats.WaitDuration

			case <-ctx.Done():
				return
			}
		}
	}()
}

// Shutdown stops the DB stats collector and waits for it to exit. Safe to call twice.
func (m *Metrics) Shutdown() {
	if m.cancel != nil {
		m.cancel()
	}
	m.wg.Wait()
}
