package services

import (
	"context"
	"sort"
	"strings"

	"shuttlego/internal/domain"
	"shuttlego/internal/domain/models"
	"shuttlego/internal/utils"
)

// AvailabilityResult is what the booking form shows for one route and date.
type AvailabilityResult struct {
	RouteID  string                `json:"route_id"`
	Date     string                `json:"date"`
	Weekday  int                   `json:"weekday"`
	BaseFare float64               `json:"base_fare"`
	Options  []models.Availability `json:"options"`
}

// AvailabilityService matches schedules to a route and calendar date.
type AvailabilityService struct {
	Catalog *CatalogService
}

// Match is the pure matcher: schedules on routeID whose weekday set contains
// the date's weekday (Sunday=7), joined to their shuttle. Schedules whose
// shuttle is not in the catalog are dropped.
func Match(cat models.Catalog, routeID, date string) (AvailabilityResult, error) {
	routeID = strings.TrimSpace(routeID)
	if routeID == "" {
		return AvailabilityResult{}, domain.ValidationError{Field: "route_id", Msg: "is required"}
	}
	d, err := utils.ParseDate(date)
	if err != nil {
		return AvailabilityResult{}, domain.ValidationError{Field: "date", Msg: "must be YYYY-MM-DD", Err: err}
	}

	res := AvailabilityResult{
		RouteID:  routeID,
		Date:     utils.FormatDate(d),
		Weekday:  models.WeekdayIndex(d),
		BaseFare: models.DefaultBaseFare,
		Options:  []models.Availability{},
	}

	route, ok := cat.Route(routeID)
	if ok {
		res.BaseFare = route.EffectiveFare()
	}

	for _, sch := range cat.Schedules {
		if sch.RouteID != routeID || !sch.RunsOn(res.Weekday) {
			continue
		}
		shuttle, ok := cat.Shuttle(sch.ShuttleID)
		if !ok {
			continue
		}
		res.Options = append(res.Options, models.Availability{Schedule: sch, Shuttle: shuttle, Route: route})
	}

	sort.SliceStable(res.Options, func(i, j int) bool {
		return res.Options[i].Schedule.DepartureTime < res.Options[j].Schedule.DepartureTime
	})
	return res, nil
}

// ForRoute runs Match against the cached catalog.
func (s AvailabilityService) ForRoute(ctx context.Context, routeID, date string) (AvailabilityResult, error) {
	cat, err := s.Catalog.Current(ctx)
	if err != nil && cat.Empty() {
		return AvailabilityResult{}, err
	}
	return Match(cat, routeID, date)
}

// Quote prices a booking on routeID with the given options.
func (s AvailabilityService) Quote(ctx context.Context, routeID string, prefs models.Preferences) (models.FareBreakdown, error) {
	cat, err := s.Catalog.Current(ctx)
	if err != nil && cat.Empty() {
		return models.FareBreakdown{}, err
	}
	route, ok := cat.Route(strings.TrimSpace(routeID))
	if !ok {
		return models.FareBreakdown{}, domain.NotFoundError{Resource: "route"}
	}
	return utils.FareForRoute(route, prefs), nil
}
