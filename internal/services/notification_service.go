package services

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"shuttlego/internal/clock"
	"shuttlego/internal/domain"
	"shuttlego/internal/domain/models"
	"shuttlego/internal/events"
	"shuttlego/internal/repositories"
	"shuttlego/internal/utils"
)

const notificationListLimit = 50

// NotificationService reads and updates a user's inbox across both stores.
// New broadcasts go to Primary.
type NotificationService struct {
	Simulated repositories.NotificationStore
	Persisted repositories.NotificationStore
	Primary   repositories.NotificationStore
	Events    events.Publisher
	Clock     clock.Clock
	IDPrefix  string
	RequestID string
}

func (s NotificationService) stores() []repositories.NotificationStore {
	out := make([]repositories.NotificationStore, 0, 2)
	if s.Simulated != nil {
		out = append(out, s.Simulated)
	}
	if s.Persisted != nil {
		out = append(out, s.Persisted)
	}
	return out
}

// List returns the user's and broadcast notifications, newest first.
func (s NotificationService) List(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	if userID == "" {
		return nil, domain.AuthRequiredError{}
	}
	if limit <= 0 || limit > notificationListLimit {
		limit = notificationListLimit
	}

	seen := map[string]bool{}
	out := []models.Notification{}
	for i, store := range s.stores() {
		items, err := store.ListForUser(ctx, userID, limit)
		if err != nil {
			// only the simulated store is required; persisted reads are best effort
			if i == 0 && s.Simulated != nil {
				return nil, domain.BackendUnavailableError{Op: "list notifications", Err: err}
			}
			utils.LogError(s.RequestID, "notifications", "list", err)
			continue
		}
		for _, n := range items {
			if seen[n.ID] {
				continue
			}
			seen[n.ID] = true
			out = append(out, n)
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// UnreadCount counts unread items in the merged list.
func (s NotificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	items, err := s.List(ctx, userID, notificationListLimit)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, it := range items {
		if !it.IsRead {
			n++
		}
	}
	return n, nil
}

// MarkRead marks one notification read in whichever store holds it.
func (s NotificationService) MarkRead(ctx context.Context, userID, id string) error {
	if userID == "" {
		return domain.AuthRequiredError{}
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.ValidationError{Field: "id", Msg: "is required"}
	}
	for _, store := range s.stores() {
		err := store.MarkRead(ctx, userID, id)
		if err == nil {
			return nil
		}
		if !domain.IsNotFound(err) {
			return domain.BackendUnavailableError{Op: "mark notification read", Err: err}
		}
	}
	return domain.NotFoundError{Resource: "notification"}
}

func (s NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	if userID == "" {
		return domain.AuthRequiredError{}
	}
	for _, store := range s.stores() {
		if err := store.MarkAllRead(ctx, userID); err != nil {
			return domain.BackendUnavailableError{Op: "mark all notifications read", Err: err}
		}
	}
	utils.LogEvent(s.RequestID, "notifications", "read_all", "user_id="+userID)
	return nil
}

// BroadcastInput is an admin announcement sent to every rider.
type BroadcastInput struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

// Broadcast stores a notification with no recipient so every user sees it.
func (s NotificationService) Broadcast(ctx context.Context, in BroadcastInput) (models.Notification, error) {
	in.Title = utils.NormalizeSpace(in.Title)
	in.Message = strings.TrimSpace(in.Message)
	if in.Title == "" {
		return models.Notification{}, domain.ValidationError{Field: "title", Msg: "is required"}
	}
	if in.Message == "" {
		return models.Notification{}, domain.ValidationError{Field: "message", Msg: "is required"}
	}
	switch in.Type {
	case "":
		in.Type = models.NotificationInfo
	case models.NotificationInfo, models.NotificationAlert, models.NotificationSuccess, models.NotificationBooking:
	default:
		return models.Notification{}, domain.ValidationError{Field: "type", Msg: "unknown notification type"}
	}
	if s.Primary == nil {
		return models.Notification{}, domain.BackendUnavailableError{Op: "broadcast"}
	}

	clk := s.Clock
	if clk == nil {
		clk = clock.RealClock{}
	}
	n, err := s.Primary.Create(ctx, models.Notification{
		ID:        s.IDPrefix + uuid.NewString(),
		Title:     in.Title,
		Message:   in.Message,
		Type:      in.Type,
		CreatedAt: clk.Now().UTC(),
	})
	if err != nil {
		return models.Notification{}, domain.BackendUnavailableError{Op: "broadcast", Err: err}
	}
	if s.Events != nil {
		s.Events.Publish(events.NotificationCreated(n))
	}
	utils.LogEvent(s.RequestID, "notifications", "broadcast", "notification_id="+n.ID)
	return n, nil
}
