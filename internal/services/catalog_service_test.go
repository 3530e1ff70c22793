package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shuttlego/internal/clock"
	"shuttlego/internal/domain"
	"shuttlego/internal/domain/models"
	"shuttlego/internal/repositories"
)

// flakyCatalog fails schedule reads while failing is set.
type flakyCatalog struct {
	*repositories.MemoryCatalog
	failing atomic.Bool
	loads   atomic.Int32
}

func (f *flakyCatalog) ActiveSchedules(ctx context.Context) ([]models.Schedule, error) {
	f.loads.Add(1)
	if f.failing.Load() {
		return nil, errors.New("db down")
	}
	return f.MemoryCatalog.ActiveSchedules(ctx)
}

func TestCatalogService_FailureKeepsPreviousCatalog(t *testing.T) {
	ctx := context.Background()
	store := &flakyCatalog{MemoryCatalog: repositories.NewMemoryCatalog(testSeed(30, 0))}
	svc := NewCatalogService(store, clock.NewMockClock(testNow), nil)

	first, err := svc.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, first.Routes, 2)
	assert.Len(t, first.Shuttles, 1, "maintenance shuttles are not active")
	assert.Equal(t, testNow, first.LoadedAt)

	store.failing.Store(true)
	got, err := svc.Load(ctx)
	require.Error(t, err)
	assert.True(t, domain.IsBackendUnavailable(err))
	assert.Equal(t, first, got)
	assert.Equal(t, first, svc.Snapshot())
}

func TestCatalogService_CurrentLoadsOnce(t *testing.T) {
	ctx := context.Background()
	store := &flakyCatalog{MemoryCatalog: repositories.NewMemoryCatalog(testSeed(30, 0))}
	svc := NewCatalogService(store, nil, nil)

	_, err := svc.Current(ctx)
	require.NoError(t, err)
	_, err = svc.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(1), store.loads.Load())
}

func TestCatalogService_RefresherStopsOnCancel(t *testing.T) {
	store := &flakyCatalog{MemoryCatalog: repositories.NewMemoryCatalog(testSeed(30, 0))}
	svc := NewCatalogService(store, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.RunRefresher(ctx, 5*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool { return store.loads.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("refresher did not stop")
	}
}

func TestMatch_WeekdayAndDanglingShuttles(t *testing.T) {
	cat := models.Catalog{
		Routes:   []models.Route{{ID: "r1", Name: "Central Loop", IsActive: true}},
		Shuttles: []models.Shuttle{{ID: "s1", ShuttleCode: "SH101", Capacity: 30, Status: models.ShuttleActive}},
		Schedules: []models.Schedule{
			{ID: "weekday", ShuttleID: "s1", RouteID: "r1", DepartureTime: "12:00", DaysOfWeek: []int{1, 2, 3, 4, 5}, IsActive: true},
			{ID: "sunday", ShuttleID: "s1", RouteID: "r1", DepartureTime: "09:00", DaysOfWeek: []int{7}, IsActive: true},
			{ID: "dangling", ShuttleID: "gone", RouteID: "r1", DepartureTime: "08:00", DaysOfWeek: []int{7}, IsActive: true},
			{ID: "other-route", ShuttleID: "s1", RouteID: "r2", DepartureTime: "08:00", DaysOfWeek: []int{7}, IsActive: true},
		},
	}

	// 2026-10-18 is a Sunday
	res, err := Match(cat, "r1", "2026-10-18")
	require.NoError(t, err)
	assert.Equal(t, 7, res.Weekday)
	assert.Equal(t, 5.00, res.BaseFare)
	require.Len(t, res.Options, 1)
	assert.Equal(t, "sunday", res.Options[0].Schedule.ID)
	assert.Equal(t, "SH101", res.Options[0].Shuttle.ShuttleCode)

	res, err = Match(cat, "r1", "2026-10-19")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Weekday)
	require.Len(t, res.Options, 1)
	assert.Equal(t, "weekday", res.Options[0].Schedule.ID)

	_, err = Match(cat, "r1", "tomorrow")
	assert.True(t, domain.IsValidation(err))
}

func TestAvailabilityService_Quote(t *testing.T) {
	store := repositories.NewMemoryCatalog(testSeed(30, 0))
	svc := AvailabilityService{Catalog: NewCatalogService(store, nil, nil)}

	fare, err := svc.Quote(context.Background(), "r-hall", models.Preferences{Insurance: true})
	require.NoError(t, err)
	assert.Equal(t, 7.00, fare.Total)

	_, err = svc.Quote(context.Background(), "missing", models.Preferences{})
	assert.True(t, domain.IsNotFound(err))
}
