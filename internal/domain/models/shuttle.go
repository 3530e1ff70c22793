package models

import "time"

type ShuttleStatus string

const (
	ShuttleActive      ShuttleStatus = "active"
	ShuttleMaintenance ShuttleStatus = "maintenance"
	ShuttleInactive    ShuttleStatus = "inactive"
)

// Location is a last-known GPS fix.
type Location struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Shuttle is a vehicle with a seat count and a live occupancy.
type Shuttle struct {
	ID               string        `json:"id"`
	ShuttleCode      string        `json:"shuttle_code"`
	DriverName       string        `json:"driver_name"`
	Capacity         int           `json:"capacity"`
	CurrentOccupancy int           `json:"current_occupancy"`
	Status           ShuttleStatus `json:"status"`
	Location         *Location     `json:"location,omitempty"`
	Amenities        []string      `json:"amenities"`
}

// HasSeat reports whether another passenger can board right now.
func (s Shuttle) HasSeat() bool {
	return s.Status == ShuttleActive && s.CurrentOccupancy < s.Capacity
}

// LoadFactor is occupancy over capacity, 0 when capacity is unknown.
func (s Shuttle) LoadFactor() float64 {
	if s.Capacity <= 0 {
		return 0
	}
	return float64(s.CurrentOccupancy) / float64(s.Capacity)
}
