package repositories

import (
	"context"
	"regexp"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shuttlego/internal/domain"
	"shuttlego/internal/domain/models"
)

var shuttleRowColumns = []string{
	"id", "shuttle_code", "driver_name", "capacity", "current_occupancy", "status",
	"latitude", "longitude", "location_updated", "amenities",
}

func TestCatalogRepository_ReserveSeatIsConditional(t *testing.T) {
	conn, mock := newMockDB(t)
	repo := CatalogRepository{DB: conn}

	mock.ExpectExec(regexp.QuoteMeta("WHERE id = ? AND status = 'active' AND current_occupancy < capacity")).
		WithArgs("s1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM shuttles WHERE id = ?")).
		WithArgs("s1").
		WillReturnRows(sqlmock.NewRows(shuttleRowColumns).
			AddRow("s1", "SH101", "A. Mensah", 30, 30, "active", nil, nil, nil, []byte(`["wifi"]`)))

	s, err := repo.ReserveSeat(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, 30, s.CurrentOccupancy)
	assert.Equal(t, []string{"wifi"}, s.Amenities)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepository_ReserveSeatFull(t *testing.T) {
	conn, mock := newMockDB(t)
	repo := CatalogRepository{DB: conn}

	mock.ExpectExec(regexp.QuoteMeta("UPDATE shuttles SET current_occupancy = current_occupancy + 1")).
		WithArgs("s1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("FROM shuttles WHERE id = ?")).
		WithArgs("s1").
		WillReturnRows(sqlmock.NewRows(shuttleRowColumns).
			AddRow("s1", "SH101", "A. Mensah", 30, 30, "active", 5.6, -0.18, nil, nil))

	_, err := repo.ReserveSeat(context.Background(), "s1")
	require.Error(t, err)
	assert.True(t, domain.IsCapacityExceeded(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepository_ActiveSchedulesDecodesDays(t *testing.T) {
	conn, mock := newMockDB(t)
	repo := CatalogRepository{DB: conn}

	mock.ExpectQuery(regexp.QuoteMeta("FROM shuttle_schedules WHERE is_active = 1")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "shuttle_id", "route_id", "departure_time", "arrival_time", "days_of_week", "is_active"}).
			AddRow("sc1", "s1", "r1", "08:00", "08:20", []byte(`[1,3,7]`), true))

	got, err := repo.ActiveSchedules(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []int{1, 3, 7}, got[0].DaysOfWeek)
}

func TestMemoryCatalog_LastSeatGoesToOneCaller(t *testing.T) {
	cat := NewMemoryCatalog(CatalogSeed{Shuttles: []models.Shuttle{
		{ID: "s1", ShuttleCode: "SH101", Capacity: 30, CurrentOccupancy: 29, Status: models.ShuttleActive},
	}})

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok, full int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := cat.ReserveSeat(context.Background(), "s1")
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if domain.IsCapacityExceeded(err) {
				full++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, 9, full)

	s, err := cat.ShuttleByID(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, 30, s.CurrentOccupancy)

	require.NoError(t, cat.ReleaseSeat(context.Background(), "s1"))
	s, _ = cat.ShuttleByID(context.Background(), "s1")
	assert.Equal(t, 29, s.CurrentOccupancy)
}

func TestMemoryCatalog_MaintenanceShuttleRefusesSeat(t *testing.T) {
	cat := NewMemoryCatalog(DefaultCatalogSeed())
	_, err := cat.ReserveSeat(context.Background(), "shuttle-sh104")
	assert.True(t, domain.IsCapacityExceeded(err))

	shuttles, err := cat.ActiveShuttles(context.Background())
	require.NoError(t, err)
	for _, s := range shuttles {
		assert.Equal(t, models.ShuttleActive, s.Status)
	}
}

func TestMemoryCatalog_UpdateLocation(t *testing.T) {
	cat := NewMemoryCatalog(DefaultCatalogSeed())
	s, err := cat.UpdateLocation(context.Background(), "shuttle-sh101", models.Location{Latitude: 5.61, Longitude: -0.19})
	require.NoError(t, err)
	require.NotNil(t, s.Location)
	assert.Equal(t, 5.61, s.Location.Latitude)
	assert.False(t, s.Location.UpdatedAt.IsZero())

	_, err = cat.UpdateLocation(context.Background(), "nope", models.Location{})
	assert.True(t, domain.IsNotFound(err))
}
