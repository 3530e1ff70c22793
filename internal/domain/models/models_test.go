package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWeekdayIndex_SundayIsSeven(t *testing.T) {
	// 2025-01-05 is a Sunday, 2025-01-06 a Monday.
	assert.Equal(t, 7, WeekdayIndex(time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 1, WeekdayIndex(time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 3, WeekdayIndex(time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 6, WeekdayIndex(time.Date(2025, 1, 11, 0, 0, 0, 0, time.UTC)))
}

func TestScheduleRunsOn(t *testing.T) {
	s := Schedule{DaysOfWeek: []int{1, 3, 7}, IsActive: true}
	assert.True(t, s.RunsOn(3))
	assert.True(t, s.RunsOn(7))
	assert.False(t, s.RunsOn(2))

	s.IsActive = false
	assert.False(t, s.RunsOn(3), "inactive schedules never run")
}

func TestRouteEffectiveFare(t *testing.T) {
	assert.Equal(t, DefaultBaseFare, Route{}.EffectiveFare())
	assert.Equal(t, 7.5, Route{BaseFare: 7.5}.EffectiveFare())
}

func TestShuttleHasSeat(t *testing.T) {
	s := Shuttle{Capacity: 30, CurrentOccupancy: 29, Status: ShuttleActive}
	assert.True(t, s.HasSeat())

	s.CurrentOccupancy = 30
	assert.False(t, s.HasSeat())

	s.CurrentOccupancy = 0
	s.Status = ShuttleMaintenance
	assert.False(t, s.HasSeat())
}

func TestNotificationVisibleTo(t *testing.T) {
	uid := "u1"
	assert.True(t, Notification{}.VisibleTo("anyone"))
	assert.True(t, Notification{UserID: &uid}.VisibleTo("u1"))
	assert.False(t, Notification{UserID: &uid}.VisibleTo("u2"))
}

func TestBookingDepartureKey(t *testing.T) {
	assert.Equal(t, "2025-01-08T00:00", Booking{BookingDate: "2025-01-08"}.Departure())
	assert.Equal(t, "2025-01-08T08:00", Booking{BookingDate: "2025-01-08", BookingTime: "08:00"}.Departure())
}
