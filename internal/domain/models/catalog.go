package models

import "time"

// Catalog is one consistent load of the reference tables.
type Catalog struct {
	Routes    []Route    `json:"routes"`
	Shuttles  []Shuttle  `json:"shuttles"`
	Schedules []Schedule `json:"schedules"`
	LoadedAt  time.Time  `json:"loaded_at"`
}

func (c Catalog) Route(id string) (Route, bool) {
	for _, r := range c.Routes {
		if r.ID == id {
			return r, true
		}
	}
	return Route{}, false
}

func (c Catalog) Shuttle(id string) (Shuttle, bool) {
	for _, s := range c.Shuttles {
		if s.ID == id {
			return s, true
		}
	}
	return Shuttle{}, false
}

// Empty reports whether nothing has been loaded yet.
func (c Catalog) Empty() bool {
	return c.LoadedAt.IsZero()
}

// Availability is one bookable (schedule, shuttle, route) combination.
type Availability struct {
	Schedule Schedule `json:"schedule"`
	Shuttle  Shuttle  `json:"shuttle"`
	Route    Route    `json:"route"`
}
