package models

import "time"

// DefaultBaseFare applies when a route carries no fare of its own.
const DefaultBaseFare = 5.00

// Route is read-only reference data: a named path with ordered stops.
type Route struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	StartLocation     string    `json:"start_location"`
	EndLocation       string    `json:"end_location"`
	Stops             []string  `json:"stops"`
	EstimatedDuration int       `json:"estimated_duration"`
	BaseFare          float64   `json:"base_fare"`
	IsActive          bool      `json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
}

// EffectiveFare returns the route fare, or DefaultBaseFare when unset.
func (r Route) EffectiveFare() float64 {
	if r.BaseFare <= 0 {
		return DefaultBaseFare
	}
	return r.BaseFare
}

// HasStop reports whether name is the start, the end or an intermediate stop.
func (r Route) HasStop(name string) bool {
	if name == r.StartLocation || name == r.EndLocation {
		return true
	}
	for _, s := range r.Stops {
		if s == name {
			return true
		}
	}
	return false
}
