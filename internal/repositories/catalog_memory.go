package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"shuttlego/internal/domain"
	"shuttlego/internal/domain/models"
)

// MemoryCatalog is the catalog used when no MySQL backend is configured.
// Occupancy changes run under one mutex so reserve is a compare-and-set.
type MemoryCatalog struct {
	mu        sync.Mutex
	routes    []models.Route
	shuttles  []models.Shuttle
	schedules []models.Schedule
}

// CatalogSeed is the JSON document accepted by LoadCatalogSeed.
type CatalogSeed struct {
	Routes    []models.Route    `json:"routes"`
	Shuttles  []models.Shuttle  `json:"shuttles"`
	Schedules []models.Schedule `json:"schedules"`
}

func NewMemoryCatalog(seed CatalogSeed) *MemoryCatalog {
	return &MemoryCatalog{
		routes:    append([]models.Route(nil), seed.Routes...),
		shuttles:  append([]models.Shuttle(nil), seed.Shuttles...),
		schedules: append([]models.Schedule(nil), seed.Schedules...),
	}
}

// LoadCatalogSeed reads a seed file; an empty path yields the built-in campus seed.
func LoadCatalogSeed(path string) (CatalogSeed, error) {
	if path == "" {
		return DefaultCatalogSeed(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return CatalogSeed{}, fmt.Errorf("read catalog seed: %w", err)
	}
	var seed CatalogSeed
	if err := json.Unmarshal(raw, &seed); err != nil {
		return CatalogSeed{}, fmt.Errorf("parse catalog seed: %w", err)
	}
	return seed, nil
}

func (m *MemoryCatalog) ActiveRoutes(context.Context) ([]models.Route, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Route{}
	for _, r := range m.routes {
		if r.IsActive {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MemoryCatalog) ActiveShuttles(context.Context) ([]models.Shuttle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Shuttle{}
	for _, s := range m.shuttles {
		if s.Status == models.ShuttleActive {
			out = append(out, cloneShuttle(s))
		}
	}
	return out, nil
}

func (m *MemoryCatalog) ActiveSchedules(context.Context) ([]models.Schedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Schedule{}
	for _, s := range m.schedules {
		if s.IsActive {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *MemoryCatalog) ShuttleByID(_ context.Context, id string) (models.Shuttle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(id)
	if i < 0 {
		return models.Shuttle{}, domain.NotFoundError{Resource: "shuttle"}
	}
	return cloneShuttle(m.shuttles[i]), nil
}

func (m *MemoryCatalog) ReserveSeat(_ context.Context, shuttleID string) (models.Shuttle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(shuttleID)
	if i < 0 {
		return models.Shuttle{}, domain.NotFoundError{Resource: "shuttle"}
	}
	s := &m.shuttles[i]
	if !s.HasSeat() {
		return cloneShuttle(*s), domain.CapacityExceededError{ShuttleID: s.ID, Capacity: s.Capacity, Occupancy: s.CurrentOccupancy}
	}
	s.CurrentOccupancy++
	return cloneShuttle(*s), nil
}

func (m *MemoryCatalog) ReleaseSeat(_ context.Context, shuttleID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(shuttleID)
	if i < 0 {
		return domain.NotFoundError{Resource: "shuttle"}
	}
	if m.shuttles[i].CurrentOccupancy > 0 {
		m.shuttles[i].CurrentOccupancy--
	}
	return nil
}

func (m *MemoryCatalog) UpdateLocation(_ context.Context, shuttleID string, loc models.Location) (models.Shuttle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(shuttleID)
	if i < 0 {
		return models.Shuttle{}, domain.NotFoundError{Resource: "shuttle"}
	}
	if loc.UpdatedAt.IsZero() {
		loc.UpdatedAt = time.Now()
	}
	m.shuttles[i].Location = &loc
	return cloneShuttle(m.shuttles[i]), nil
}

func (m *MemoryCatalog) indexOf(id string) int {
	for i := range m.shuttles {
		if m.shuttles[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneShuttle(s models.Shuttle) models.Shuttle {
	if s.Location != nil {
		loc := *s.Location
		s.Location = &loc
	}
	s.Amenities = append([]string(nil), s.Amenities...)
	return s
}
