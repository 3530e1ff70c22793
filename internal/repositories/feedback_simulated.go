package repositories

import (
	"context"
	"time"

	"shuttlego/internal/domain/models"
	"shuttlego/internal/localstore"
)

const simulatedFeedbackLimit = 50

// SimulatedFeedbackRepository keeps each user's feedback on the device when no
// database is configured.
type SimulatedFeedbackRepository struct {
	lists *localstore.JSONLists[models.Feedback]
}

func NewSimulatedFeedbackRepository(store localstore.Store) *SimulatedFeedbackRepository {
	return &SimulatedFeedbackRepository{
		lists: localstore.NewJSONLists[models.Feedback](store, localstore.KeySimulatedFeedbackPrefix, simulatedFeedbackLimit),
	}
}

func (r *SimulatedFeedbackRepository) Create(ctx context.Context, f models.Feedback) (models.Feedback, error) {
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now()
	}
	return f, r.lists.For(f.UserID).Prepend(ctx, f)
}

func (r *SimulatedFeedbackRepository) ListByUser(ctx context.Context, userID string) ([]models.Feedback, error) {
	return r.lists.For(userID).Load(ctx)
}
