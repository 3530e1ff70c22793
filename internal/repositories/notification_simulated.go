package repositories

import (
	"context"
	"sort"
	"time"

	"shuttlego/internal/domain"
	"shuttlego/internal/domain/models"
	"shuttlego/internal/localstore"
)

const simulatedNotificationLimit = 50

// SimulatedNotificationRepository keeps a capped newest-first JSON list per
// user, plus one list of broadcasts that every user sees.
type SimulatedNotificationRepository struct {
	users      *localstore.JSONLists[models.Notification]
	broadcasts *localstore.JSONList[models.Notification]
}

func NewSimulatedNotificationRepository(store localstore.Store) *SimulatedNotificationRepository {
	return &SimulatedNotificationRepository{
		users:      localstore.NewJSONLists[models.Notification](store, localstore.KeySimulatedNotificationsPrefix, simulatedNotificationLimit),
		broadcasts: localstore.NewJSONList[models.Notification](store, localstore.KeySimulatedBroadcasts, simulatedNotificationLimit),
	}
}

func (r *SimulatedNotificationRepository) listFor(n models.Notification) *localstore.JSONList[models.Notification] {
	if n.UserID == nil {
		return r.broadcasts
	}
	return r.users.For(*n.UserID)
}

func (r *SimulatedNotificationRepository) Create(ctx context.Context, n models.Notification) (models.Notification, error) {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	return n, r.listFor(n).Prepend(ctx, n)
}

func (r *SimulatedNotificationRepository) ListForUser(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	own, err := r.users.For(userID).Load(ctx)
	if err != nil {
		return nil, err
	}
	shared, err := r.broadcasts.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Notification, 0, len(own)+len(shared))
	for _, n := range append(own, shared...) {
		if n.VisibleTo(userID) {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *SimulatedNotificationRepository) MarkRead(ctx context.Context, userID, id string) error {
	mark := func(items []models.Notification) ([]models.Notification, error) {
		for i := range items {
			if items[i].ID == id && items[i].VisibleTo(userID) {
				items[i].IsRead = true
				return items, nil
			}
		}
		return nil, domain.NotFoundError{Resource: "notification"}
	}
	err := r.users.For(userID).Update(ctx, mark)
	if !domain.IsNotFound(err) {
		return err
	}
	return r.broadcasts.Update(ctx, mark)
}

func (r *SimulatedNotificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	markAll := func(items []models.Notification) ([]models.Notification, error) {
		for i := range items {
			if items[i].VisibleTo(userID) {
				items[i].IsRead = true
			}
		}
		return items, nil
	}
	if err := r.users.For(userID).Update(ctx, markAll); err != nil {
		return err
	}
	return r.broadcasts.Update(ctx, markAll)
}
