package repositories

import (
	"time"

	"shuttlego/internal/domain/models"
)

var weekdays = []int{1, 2, 3, 4, 5}
var everyDay = []int{1, 2, 3, 4, 5, 6, 7}

// DefaultCatalogSeed is a small Legon campus network used in simulated mode.
func DefaultCatalogSeed() CatalogSeed {
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	loc := func(lat, lng float64) *models.Location {
		return &models.Location{Latitude: lat, Longitude: lng, UpdatedAt: created}
	}
	amenities := []string{"wifi", "air_conditioning"}

	return CatalogSeed{
		Routes: []models.Route{
			{
				ID: "route-central-loop", Name: "Central Loop",
				Description:   "Main Gate to Commonwealth Hall via the library",
				StartLocation: "Main Gate", EndLocation: "Commonwealth Hall",
				Stops:             []string{"Main Gate", "Great Hall", "Balme Library", "Commonwealth Hall"},
				EstimatedDuration: 20, BaseFare: 5.00, IsActive: true, CreatedAt: created,
			},
			{
				ID: "route-pentagon-night-market", Name: "Pentagon – Night Market",
				StartLocation: "Pentagon", EndLocation: "Night Market",
				Stops:             []string{"Pentagon", "Volta Hall", "Night Market"},
				EstimatedDuration: 12, IsActive: true, CreatedAt: created,
			},
			{
				ID: "route-great-hall-commonwealth", Name: "Great Hall – Commonwealth",
				StartLocation: "Great Hall", EndLocation: "Commonwealth Hall",
				Stops:             []string{"Great Hall", "Balme Library", "Commonwealth Hall"},
				EstimatedDuration: 10, BaseFare: 4.00, IsActive: true, CreatedAt: created,
			},
		},
		Shuttles: []models.Shuttle{
			{ID: "shuttle-sh101", ShuttleCode: "SH101", DriverName: "A. Mensah", Capacity: 30, Status: models.ShuttleActive, Location: loc(5.6075, -0.1895), Amenities: amenities},
			{ID: "shuttle-sh102", ShuttleCode: "SH102", DriverName: "B. Owusu", Capacity: 30, Status: models.ShuttleActive, Location: loc(5.6009, -0.1842), Amenities: amenities},
			{ID: "shuttle-sh103", ShuttleCode: "SH103", DriverName: "C. Tetteh", Capacity: 25, Status: models.ShuttleActive, Location: loc(5.6053, -0.1931)},
			{ID: "shuttle-sh104", ShuttleCode: "SH104", DriverName: "D. Adjei", Capacity: 25, Status: models.ShuttleMaintenance, Location: loc(5.6101, -0.1862)},
		},
		Schedules: []models.Schedule{
			{ID: "sched-cl-0700", ShuttleID: "shuttle-sh101", RouteID: "route-central-loop", DepartureTime: "07:00", ArrivalTime: "07:20", DaysOfWeek: weekdays, IsActive: true},
			{ID: "sched-cl-1200", ShuttleID: "shuttle-sh101", RouteID: "route-central-loop", DepartureTime: "12:00", ArrivalTime: "12:20", DaysOfWeek: everyDay, IsActive: true},
			{ID: "sched-pn-1800", ShuttleID: "shuttle-sh102", RouteID: "route-pentagon-night-market", DepartureTime: "18:00", ArrivalTime: "18:12", DaysOfWeek: everyDay, IsActive: true},
			{ID: "sched-gh-0800", ShuttleID: "shuttle-sh103", RouteID: "route-great-hall-commonwealth", DepartureTime: "08:00", ArrivalTime: "08:10", DaysOfWeek: weekdays, IsActive: true},
			{ID: "sched-gh-0900", ShuttleID: "shuttle-sh104", RouteID: "route-great-hall-commonwealth", DepartureTime: "09:00", ArrivalTime: "09:10", DaysOfWeek: weekdays, IsActive: true},
		},
	}
}
