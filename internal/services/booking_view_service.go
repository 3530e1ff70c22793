package services

import (
	"context"
	"fmt"
	"sort"

	"shuttlego/internal/domain"
	"shuttlego/internal/domain/models"
	"shuttlego/internal/events"
	"shuttlego/internal/metrics"
	"shuttlego/internal/repositories"
	"shuttlego/internal/utils"
)

const (
	SourceSimulated = "simulated"
	SourcePersisted = "persisted"
)

// BookingViewService assembles a user's bookings from the simulated store and,
// when configured, the persisted one.
type BookingViewService struct {
	Simulated repositories.BookingStore
	Persisted repositories.BookingStore
	Catalog   repositories.CatalogStore
	Events    events.Publisher
	Metrics   *metrics.Metrics
	RequestID string
}

// List merges both sources by id, the simulated record winning, newest
// departure first. The booking with id highlight is flagged. Persisted read
// errors are logged and treated as an empty source.
func (s BookingViewService) List(ctx context.Context, userID, highlight string) ([]models.BookingView, error) {
	if userID == "" {
		return nil, domain.AuthRequiredError{}
	}

	merged := map[string]models.BookingView{}
	if s.Persisted != nil {
		persisted, err := s.Persisted.ListByUser(ctx, userID)
		if err != nil {
			utils.LogError(s.RequestID, "bookings", "list_persisted", err)
		}
		for _, b := range persisted {
			merged[b.ID] = models.BookingView{Booking: b, Source: SourcePersisted}
		}
	}
	if s.Simulated != nil {
		simulated, err := s.Simulated.ListByUser(ctx, userID)
		if err != nil {
			return nil, domain.BackendUnavailableError{Op: "list simulated bookings", Err: err}
		}
		for _, b := range simulated {
			merged[b.ID] = models.BookingView{Booking: b, Source: SourceSimulated}
		}
	}

	out := make([]models.BookingView, 0, len(merged))
	for _, v := range merged {
		v.Highlighted = highlight != "" && v.ID == highlight
		out = append(out, v)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Departure() == out[j].Departure() {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Departure() > out[j].Departure()
	})
	return out, nil
}

// Active returns only the confirmed bookings from List.
func (s BookingViewService) Active(ctx context.Context, userID string) ([]models.BookingView, error) {
	all, err := s.List(ctx, userID, "")
	if err != nil {
		return nil, err
	}
	out := make([]models.BookingView, 0, len(all))
	for _, v := range all {
		if v.IsActive() {
			out = append(out, v)
		}
	}
	return out, nil
}

// Get returns one of the user's bookings. Bookings owned by someone else read as not found.
func (s BookingViewService) Get(ctx context.Context, userID, id string) (models.BookingView, error) {
	if userID == "" {
		return models.BookingView{}, domain.AuthRequiredError{}
	}
	if id == "" {
		return models.BookingView{}, domain.ValidationError{Field: "id", Msg: "is required"}
	}

	if s.Simulated != nil {
		b, err := s.Simulated.GetByID(ctx, id)
		switch {
		case err == nil && b.UserID == userID:
			return models.BookingView{Booking: b, Source: SourceSimulated}, nil
		case err != nil && !domain.IsNotFound(err):
			return models.BookingView{}, domain.BackendUnavailableError{Op: "get simulated booking", Err: err}
		}
	}
	if s.Persisted != nil {
		b, err := s.Persisted.GetByID(ctx, id)
		switch {
		case err == nil && b.UserID == userID:
			return models.BookingView{Booking: b, Source: SourcePersisted}, nil
		case err != nil && !domain.IsNotFound(err):
			return models.BookingView{}, domain.BackendUnavailableError{Op: "get booking", Err: err}
		}
	}
	return models.BookingView{}, domain.NotFoundError{Resource: "booking"}
}

// Cancel marks the booking cancelled in every store that holds it and gives
// the seat back. Only confirmed bookings can be cancelled; no refund is issued.
func (s BookingViewService) Cancel(ctx context.Context, userID, id string) (models.BookingView, error) {
	view, err := s.Get(ctx, userID, id)
	if err != nil {
		return models.BookingView{}, err
	}
	if !view.IsActive() {
		return models.BookingView{}, domain.ConflictError{
			Resource: "booking",
			Msg:      fmt.Sprintf("cannot cancel a %s booking", view.Status),
		}
	}

	updated := false
	for _, store := range []repositories.BookingStore{s.Simulated, s.Persisted} {
		if store == nil {
			continue
		}
		b, err := store.UpdateStatus(ctx, id, models.BookingCancelled)
		if err != nil {
			if domain.IsNotFound(err) {
				continue
			}
			return models.BookingView{}, domain.BackendUnavailableError{Op: "cancel booking", Err: err}
		}
		if !updated {
			view.Booking = b
			updated = true
		}
	}
	if !updated {
		return models.BookingView{}, domain.NotFoundError{Resource: "booking"}
	}

	if s.Catalog != nil && view.ShuttleID != "" {
		if err := s.Catalog.ReleaseSeat(context.WithoutCancel(ctx), view.ShuttleID); err != nil {
			utils.LogError(s.RequestID, "bookings", "release_seat", err)
		}
	}
	if s.Events != nil {
		s.Events.Publish(events.BookingCancelled(view.Booking))
	}
	s.Metrics.RecordCancelled()
	utils.LogEvent(s.RequestID, "bookings", "cancel", "booking_id="+id)
	return view, nil
}
