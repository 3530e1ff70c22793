package metrics

import (
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingCounters(t *testing.T) {
	m := New()

	m.RecordCommitted()
	m.RecordCommitted()
	m.RecordRejected("capacity")
	m.RecordCancelled()
	m.RecordCatalogRefresh(false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.BookingsCommitted))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BookingsRejected.WithLabelValues("capacity")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BookingsCancelled))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CatalogRefreshes.WithLabelValues("error")))
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordCommitted()
		m.RecordRejected("validation")
		m.RecordCancelled()
		m.RecordCatalogRefresh(true)
	})
}

func TestStartDBStatsCollector(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.Ping())

	m := New()
	m.StartDBStatsCollector(db, 10*time.Millisecond)
	m.StartDBStatsCollector(db, 10*time.Millisecond)

	assert.Eventually(t, func() bool {
		return testutil.ToFloat64(m.DBConnectionsOpen) >= 1
	}, time.Second, 10*time.Millisecond)

	m.Shutdown()
	m.Shutdown()
}
