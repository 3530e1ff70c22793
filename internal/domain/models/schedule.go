package models

import "time"

// Schedule is a recurring run of a shuttle on a route.
// DaysOfWeek uses 1..7 with Monday=1 and Sunday=7.
type Schedule struct {
	ID            string `json:"id"`
	ShuttleID     string `json:"shuttle_id"`
	RouteID       string `json:"route_id"`
	DepartureTime string `json:"departure_time"`
	ArrivalTime   string `json:"arrival_time"`
	DaysOfWeek    []int  `json:"days_of_week"`
	IsActive      bool   `json:"is_active"`
}

// WeekdayIndex maps a date onto 1..7, Sunday becoming 7 instead of Go's 0.
func WeekdayIndex(t time.Time) int {
	d := int(t.Weekday())
	if d == 0 {
		return 7
	}
	return d
}

// RunsOn reports whether the schedule recurs on the given weekday index.
func (s Schedule) RunsOn(dayIndex int) bool {
	if !s.IsActive {
		return false
	}
	for _, d := range s.DaysOfWeek {
		if d == dayIndex {
			return true
		}
	}
	return false
}
