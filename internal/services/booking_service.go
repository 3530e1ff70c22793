package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"shuttlego/internal/clock"
	"shuttlego/internal/domain"
	"shuttlego/internal/domain/models"
	"shuttlego/internal/events"
	"shuttlego/internal/metrics"
	"shuttlego/internal/payments"
	"shuttlego/internal/repositories"
	"shuttlego/internal/utils"
)

// CommitInput is the submitted booking form.
type CommitInput struct {
	RouteID          string             `json:"route_id"`
	ShuttleID        string             `json:"shuttle_id"`
	ScheduleID       string             `json:"schedule_id"`
	Date             string             `json:"date"`
	Time             string             `json:"time"`
	PickupLocation   string             `json:"pickup_location"`
	Destination      string             `json:"destination"`
	Preferences      models.Preferences `json:"preferences"`
	PaymentReference string             `json:"payment_reference"`
	// ReturnPath is where an anonymous caller is sent back to after signing in.
	ReturnPath string `json:"-"`
}

// BookingService turns a booking form into a confirmed booking.
type BookingService struct {
	Bookings      repositories.BookingStore
	Notifications repositories.NotificationStore
	Catalog       repositories.CatalogStore
	Cache         *CatalogService
	Payments      payments.Gateway
	Events        events.Publisher
	Metrics       *metrics.Metrics
	Clock         clock.Clock
	// IDPrefix is prepended to new booking ids, "sim-" for the simulated store.
	IDPrefix  string
	RequestID string
}

func (s BookingService) now() clock.Clock {
	if s.Clock != nil {
		return s.Clock
	}
	return clock.RealClock{}
}

func (s BookingService) gateway() payments.Gateway {
	if s.Payments != nil {
		return s.Payments
	}
	return payments.ManualGateway{Clock: s.Clock}
}

func (s BookingService) publish(e events.Event) {
	if s.Events != nil {
		s.Events.Publish(e)
	}
}

// Commit validates the form, takes a seat, settles payment, then writes the
// booking and its notification. A failed step after the seat is taken gives
// the seat back.
func (s BookingService) Commit(ctx context.Context, rc domain.RequestContext, in CommitInput) (models.Confirmation, error) {
	if !rc.Authenticated() {
		return models.Confirmation{}, domain.AuthRequiredError{ReturnPath: in.ReturnPath}
	}

	in, err := normalizeCommitInput(in)
	if err != nil {
		s.Metrics.RecordRejected("validation")
		return models.Confirmation{}, err
	}

	route, err := s.resolveRoute(ctx, in.RouteID)
	if err != nil {
		s.Metrics.RecordRejected("validation")
		return models.Confirmation{}, err
	}
	if err := s.checkSchedule(ctx, in); err != nil {
		s.Metrics.RecordRejected("validation")
		return models.Confirmation{}, err
	}

	shuttle, err := s.Catalog.ShuttleByID(ctx, in.ShuttleID)
	if err != nil {
		if domain.IsNotFound(err) {
			s.Metrics.RecordRejected("validation")
			return models.Confirmation{}, domain.ValidationError{Field: "shuttle_id", Msg: "unknown shuttle", Err: err}
		}
		s.Metrics.RecordRejected("backend")
		return models.Confirmation{}, domain.BackendUnavailableError{Op: "load shuttle", Err: err}
	}
	if !shuttle.HasSeat() {
		s.Metrics.RecordRejected("capacity")
		return models.Confirmation{}, domain.CapacityExceededError{
			ShuttleID: shuttle.ID, Capacity: shuttle.Capacity, Occupancy: shuttle.CurrentOccupancy,
		}
	}

	// the pre-check above is advisory; this is the step that actually holds the seat
	shuttle, err = s.Catalog.ReserveSeat(ctx, in.ShuttleID)
	if err != nil {
		if domain.IsCapacityExceeded(err) {
			s.Metrics.RecordRejected("capacity")
			return models.Confirmation{}, err
		}
		s.Metrics.RecordRejected("backend")
		return models.Confirmation{}, domain.BackendUnavailableError{Op: "reserve seat", Err: err}
	}

	fare := utils.FareForRoute(route, in.Preferences)
	reference, err := s.gateway().Settle(ctx, payments.Request{
		UserID:    rc.UserID,
		Amount:    fare.Total,
		Currency:  "GHS",
		Reference: in.PaymentReference,
	})
	if err != nil {
		s.releaseSeat(ctx, shuttle.ID)
		s.Metrics.RecordRejected("payment")
		return models.Confirmation{}, err
	}

	now := s.now().Now().UTC()
	booking := models.Booking{
		ID:               s.IDPrefix + uuid.NewString(),
		UserID:           rc.UserID,
		RouteID:          route.ID,
		ShuttleID:        shuttle.ID,
		ScheduleID:       in.ScheduleID,
		PickupLocation:   in.PickupLocation,
		Destination:      in.Destination,
		BookingDate:      in.Date,
		BookingTime:      in.Time,
		Status:           models.BookingConfirmed,
		QRCode:           utils.BoardingToken(now),
		PaymentReference: reference,
		Fare:             fare,
		Preferences:      in.Preferences,
		RouteName:        route.Name,
		ShuttleCode:      shuttle.ShuttleCode,
		DriverName:       shuttle.DriverName,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	booking, err = s.Bookings.Create(ctx, booking)
	if err != nil {
		s.releaseSeat(ctx, shuttle.ID)
		if domain.IsConflict(err) {
			s.Metrics.RecordRejected("payment")
			return models.Confirmation{}, err
		}
		s.Metrics.RecordRejected("backend")
		utils.LogError(s.RequestID, "booking", "commit", err)
		return models.Confirmation{}, domain.BackendUnavailableError{Op: "create booking", Err: err}
	}
	utils.LogEvent(s.RequestID, "booking", "commit",
		fmt.Sprintf("booking_id=%s shuttle_id=%s occupancy=%d/%d", booking.ID, shuttle.ID, shuttle.CurrentOccupancy, shuttle.Capacity))

	s.publish(events.BookingCreated(booking))
	s.notifyBooked(ctx, booking)
	s.Metrics.RecordCommitted()

	return models.Confirmation{
		BookingID:        booking.ID,
		BookingNumber:    BookingNumber(booking.ID),
		QRCode:           booking.QRCode,
		PaymentReference: booking.PaymentReference,
		TotalFare:        fare.Total,
		Fare:             fare,
		Preferences:      booking.Preferences,
		BookedAt:         booking.CreatedAt,
	}, nil
}

// notifyBooked writes the single booking notification. The booking is already
// committed, so a failure here is only logged.
func (s BookingService) notifyBooked(ctx context.Context, b models.Booking) {
	if s.Notifications == nil {
		return
	}
	uid := b.UserID
	data, _ := json.Marshal(map[string]string{"booking_id": b.ID, "qr_code": b.QRCode})
	n := models.Notification{
		ID:     s.IDPrefix + uuid.NewString(),
		UserID: &uid,
		Title:  "Booking Confirmed",
		Message: fmt.Sprintf("Your seat on %s for %s at %s is confirmed. Pickup: %s. Total: %s.",
			utils.Safe(b.RouteName, "your route"), b.BookingDate, b.BookingTime, b.PickupLocation, utils.FormatCedi(b.Fare.Total)),
		Type:      models.NotificationBooking,
		Data:      data,
		CreatedAt: b.CreatedAt,
	}
	n, err := s.Notifications.Create(ctx, n)
	if err != nil {
		utils.LogError(s.RequestID, "booking", "notify", err)
		return
	}
	s.publish(events.NotificationCreated(n))
}

func (s BookingService) releaseSeat(ctx context.Context, shuttleID string) {
	if err := s.Catalog.ReleaseSeat(context.WithoutCancel(ctx), shuttleID); err != nil {
		utils.LogError(s.RequestID, "booking", "release_seat", err)
	}
}

func (s BookingService) resolveRoute(ctx context.Context, routeID string) (models.Route, error) {
	if s.Cache == nil {
		return models.Route{ID: routeID}, nil
	}
	cat, err := s.Cache.Current(ctx)
	if err != nil && cat.Empty() {
		return models.Route{}, err
	}
	route, ok := cat.Route(routeID)
	if !ok {
		return models.Route{}, domain.ValidationError{Field: "route_id", Msg: "unknown route"}
	}
	return route, nil
}

// checkSchedule confirms that a supplied schedule runs on the route on the
// booking date and is served by the chosen shuttle.
func (s BookingService) checkSchedule(ctx context.Context, in CommitInput) error {
	if in.ScheduleID == "" || s.Cache == nil {
		return nil
	}
	cat, err := s.Cache.Current(ctx)
	if err != nil && cat.Empty() {
		return err
	}
	res, err := Match(cat, in.RouteID, in.Date)
	if err != nil {
		return err
	}
	for _, opt := range res.Options {
		if opt.Schedule.ID != in.ScheduleID {
			continue
		}
		if opt.Shuttle.ID != in.ShuttleID {
			return domain.ValidationError{Field: "schedule_id", Msg: "is served by a different shuttle"}
		}
		return nil
	}
	return domain.ValidationError{Field: "schedule_id", Msg: "does not run on this route and date"}
}

// normalizeCommitInput checks the six required fields in form order and
// canonicalises date and time.
func normalizeCommitInput(in CommitInput) (CommitInput, error) {
	in.RouteID = strings.TrimSpace(in.RouteID)
	in.ShuttleID = strings.TrimSpace(in.ShuttleID)
	in.ScheduleID = strings.TrimSpace(in.ScheduleID)
	in.Date = strings.TrimSpace(in.Date)
	in.Time = strings.TrimSpace(in.Time)
	in.PickupLocation = utils.NormalizeSpace(in.PickupLocation)
	in.Destination = utils.NormalizeSpace(in.Destination)
	in.PaymentReference = strings.TrimSpace(in.PaymentReference)

	required := []struct{ field, value string }{
		{"route_id", in.RouteID},
		{"shuttle_id", in.ShuttleID},
		{"date", in.Date},
		{"time", in.Time},
		{"pickup_location", in.PickupLocation},
		{"destination", in.Destination},
	}
	for _, r := range required {
		if r.value == "" {
			return in, domain.ValidationError{Field: r.field, Msg: "is required"}
		}
	}

	d, err := utils.ParseDate(in.Date)
	if err != nil {
		return in, domain.ValidationError{Field: "date", Msg: "must be YYYY-MM-DD", Err: err}
	}
	in.Date = utils.FormatDate(d)
	in.Time = utils.NormalizeClock(in.Time)

	switch in.Preferences.SeatPreference {
	case "":
		in.Preferences.SeatPreference = "any"
	case "any", "window", "aisle":
	default:
		return in, domain.ValidationError{Field: "seat_preference", Msg: "must be any, window or aisle"}
	}
	return in, nil
}

// BookingNumber is the short human-facing code printed on the confirmation.
func BookingNumber(id string) string {
	id = strings.TrimPrefix(id, models.SimulatedIDPrefix)
	id = strings.ReplaceAll(id, "-", "")
	if len(id) > 8 {
		id = id[:8]
	}
	return "SG-" + strings.ToUpper(id)
}
