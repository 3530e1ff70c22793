package repositories

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"shuttlego/internal/domain"
	"shuttlego/internal/domain/models"
	"shuttlego/internal/localstore"
)

const simulatedBookingLimit = 100

// SeatReleaser gives a shuttle seat back. CatalogStore implements it.
type SeatReleaser interface {
	ReleaseSeat(ctx context.Context, shuttleID string) error
}

// SimulatedBookingRepository keeps each user's bookings in the local key-value
// store as a newest-first JSON list capped per user. Side keys map a booking
// id to its owner and a payment reference to the booking that spent it.
type SimulatedBookingRepository struct {
	store localstore.Store
	lists *localstore.JSONLists[models.Booking]
	seats SeatReleaser
	limit int

	mu sync.Mutex
}

// NewSimulatedBookingRepository returns the local booking store. When a list
// grows past its cap, settled bookings are dropped first; a confirmed booking
// is dropped only once seats has given its seat back. With a nil seats,
// confirmed bookings are never dropped.
func NewSimulatedBookingRepository(store localstore.Store, seats SeatReleaser) *SimulatedBookingRepository {
	return &SimulatedBookingRepository{
		store: store,
		// trimming is done here, not by the list, so evictions can release seats
		lists: localstore.NewJSONLists[models.Booking](store, localstore.KeySimulatedBookingsPrefix, 0),
		seats: seats,
		limit: simulatedBookingLimit,
	}
}

func (r *SimulatedBookingRepository) Create(ctx context.Context, b models.Booking) (models.Booking, error) {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now()
	}
	b.UpdatedAt = b.CreatedAt

	r.mu.Lock()
	defer r.mu.Unlock()

	ref := strings.TrimSpace(b.PaymentReference)
	if ref != "" {
		_, used, err := r.store.Get(ctx, localstore.KeyPaymentReferencePrefix+ref)
		if err != nil {
			return b, fmt.Errorf("check payment reference: %w", err)
		}
		if used {
			return b, domain.ConflictError{Resource: "booking", Msg: "payment reference already used"}
		}
	}

	var evicted []models.Booking
	err := r.lists.For(b.UserID).Update(ctx, func(items []models.Booking) ([]models.Booking, error) {
		var kept []models.Booking
		kept, evicted = r.trim(append([]models.Booking{b}, items...))
		return kept, nil
	})
	if err != nil {
		return b, err
	}

	if err := r.store.Put(ctx, localstore.KeyBookingOwnerPrefix+b.ID, []byte(b.UserID)); err != nil {
		return b, fmt.Errorf("index booking: %w", err)
	}
	if ref != "" {
		if err := r.store.Put(ctx, localstore.KeyPaymentReferencePrefix+ref, []byte(b.ID)); err != nil {
			return b, fmt.Errorf("index payment reference: %w", err)
		}
	}
	r.evict(ctx, evicted)
	return b, nil
}

// trim cuts items down to the cap, oldest first. Settled entries go before
// confirmed ones, and confirmed ones only when a SeatReleaser is set.
func (r *SimulatedBookingRepository) trim(items []models.Booking) (kept, dropped []models.Booking) {
	excess := len(items) - r.limit
	if r.limit <= 0 || excess <= 0 {
		return items, nil
	}
	drop := make(map[int]bool, excess)
	for pass := 0; pass < 2 && len(drop) < excess; pass++ {
		for i := len(items) - 1; i >= 0 && len(drop) < excess; i-- {
			confirmed := items[i].Status == models.BookingConfirmed
			if pass == 0 && confirmed {
				continue
			}
			if pass == 1 && (!confirmed || r.seats == nil) {
				continue
			}
			drop[i] = true
		}
	}
	for i, it := range items {
		if drop[i] {
			dropped = append(dropped, it)
			continue
		}
		kept = append(kept, it)
	}
	return kept, dropped
}

// evict releases the seats of dropped confirmed bookings and forgets their
// owner index. Payment references stay spent.
func (r *SimulatedBookingRepository) evict(ctx context.Context, dropped []models.Booking) {
	for _, d := range dropped {
		if d.Status == models.BookingConfirmed && r.seats != nil {
			if err := r.seats.ReleaseSeat(context.WithoutCancel(ctx), d.ShuttleID); err != nil {
				log.Printf("[LOCALSTORE] release seat for evicted booking %s: %v", d.ID, err)
			}
		}
		_ = r.store.Delete(ctx, localstore.KeyBookingOwnerPrefix+d.ID)
	}
}

func (r *SimulatedBookingRepository) ListByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	all, err := r.lists.For(userID).Load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Booking, 0, len(all))
	for _, b := range all {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Departure() > out[j].Departure() })
	return out, nil
}

func (r *SimulatedBookingRepository) owner(ctx context.Context, id string) (string, error) {
	raw, found, err := r.store.Get(ctx, localstore.KeyBookingOwnerPrefix+id)
	if err != nil {
		return "", err
	}
	if !found {
		return "", domain.NotFoundError{Resource: "booking"}
	}
	return string(raw), nil
}

func (r *SimulatedBookingRepository) GetByID(ctx context.Context, id string) (models.Booking, error) {
	userID, err := r.owner(ctx, id)
	if err != nil {
		return models.Booking{}, err
	}
	all, err := r.lists.For(userID).Load(ctx)
	if err != nil {
		return models.Booking{}, err
	}
	for _, b := range all {
		if b.ID == id {
			return b, nil
		}
	}
	return models.Booking{}, domain.NotFoundError{Resource: "booking"}
}

func (r *SimulatedBookingRepository) UpdateStatus(ctx context.Context, id string, status models.BookingStatus) (models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	userID, err := r.owner(ctx, id)
	if err != nil {
		return models.Booking{}, err
	}
	var updated models.Booking
	err = r.lists.For(userID).Update(ctx, func(items []models.Booking) ([]models.Booking, error) {
		for i := range items {
			if items[i].ID == id {
				items[i].Status = status
				items[i].UpdatedAt = time.Now()
				updated = items[i]
				return items, nil
			}
		}
		return nil, domain.NotFoundError{Resource: "booking"}
	})
	if err != nil {
		return models.Booking{}, err
	}
	return updated, nil
}
