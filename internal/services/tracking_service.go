package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"shuttlego/internal/clock"
	"shuttlego/internal/domain"
	"shuttlego/internal/domain/models"
	"shuttlego/internal/events"
	"shuttlego/internal/repositories"
	"shuttlego/internal/utils"
)

// ShuttlePosition is a shuttle as the live map and tracking list show it.
type ShuttlePosition struct {
	models.Shuttle
	RouteID    string  `json:"route_id,omitempty"`
	RouteName  string  `json:"route_name,omitempty"`
	LoadFactor float64 `json:"load_factor"`
}

type TrackingService struct {
	Store     repositories.CatalogStore
	Cache     *CatalogService
	Maps      MapProvider
	Events    events.Publisher
	Clock     clock.Clock
	RequestID string
}

// Shuttles lists active shuttles with their live occupancy and the route
// their first schedule runs on.
func (s TrackingService) Shuttles(ctx context.Context) ([]ShuttlePosition, error) {
	shuttles, err := s.Store.ActiveShuttles(ctx)
	if err != nil {
		return nil, domain.BackendUnavailableError{Op: "list shuttles", Err: err}
	}

	var cat models.Catalog
	if s.Cache != nil {
		cat = s.Cache.Snapshot()
	}
	routeOf := map[string]string{}
	for _, sch := range cat.Schedules {
		if _, ok := routeOf[sch.ShuttleID]; !ok {
			routeOf[sch.ShuttleID] = sch.RouteID
		}
	}

	out := make([]ShuttlePosition, 0, len(shuttles))
	for _, sh := range shuttles {
		p := ShuttlePosition{Shuttle: sh, LoadFactor: sh.LoadFactor()}
		if rid, ok := routeOf[sh.ID]; ok {
			p.RouteID = rid
			if r, ok := cat.Route(rid); ok {
				p.RouteName = r.Name
			}
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ShuttleCode < out[j].ShuttleCode })
	return out, nil
}

// UpdateLocation records a GPS fix reported by a driver and announces it.
func (s TrackingService) UpdateLocation(ctx context.Context, shuttleID string, lat, lng float64) (models.Shuttle, error) {
	shuttleID = strings.TrimSpace(shuttleID)
	if shuttleID == "" {
		return models.Shuttle{}, domain.ValidationError{Field: "shuttle_id", Msg: "is required"}
	}
	if lat < -90 || lat > 90 {
		return models.Shuttle{}, domain.ValidationError{Field: "latitude", Msg: "must be between -90 and 90"}
	}
	if lng < -180 || lng > 180 {
		return models.Shuttle{}, domain.ValidationError{Field: "longitude", Msg: "must be between -180 and 180"}
	}

	clk := s.Clock
	if clk == nil {
		clk = clock.RealClock{}
	}
	sh, err := s.Store.UpdateLocation(ctx, shuttleID, models.Location{
		Latitude:  lat,
		Longitude: lng,
		UpdatedAt: clk.Now().UTC(),
	})
	if err != nil {
		if domain.IsNotFound(err) {
			return models.Shuttle{}, err
		}
		return models.Shuttle{}, domain.BackendUnavailableError{Op: "update location", Err: err}
	}
	if s.Events != nil {
		s.Events.Publish(events.ShuttleUpdated(sh))
	}
	utils.LogEvent(s.RequestID, "tracking", "update_location", fmt.Sprintf("shuttle_id=%s lat=%.5f lng=%.5f", sh.ID, lat, lng))
	return sh, nil
}

// Map renders the marker payload for the configured provider.
func (s TrackingService) Map(ctx context.Context) (MapView, error) {
	positions, err := s.Shuttles(ctx)
	if err != nil {
		return MapView{}, err
	}
	maps := s.Maps
	if maps == nil {
		maps = OSMProvider{}
	}
	return maps.Render(positions), nil
}
