package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"shuttlego/internal/clock"
	"shuttlego/internal/domain"
	"shuttlego/internal/domain/models"
	"shuttlego/internal/repositories"
	"shuttlego/internal/utils"
)

var feedbackCategories = map[string]bool{
	"general": true, "driver": true, "vehicle": true, "punctuality": true, "app": true,
}

type FeedbackInput struct {
	ShuttleID string `json:"shuttle_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
	Category  string `json:"category"`
}

type FeedbackService struct {
	Store     repositories.FeedbackStore
	Clock     clock.Clock
	RequestID string
}

func (s FeedbackService) Submit(ctx context.Context, rc domain.RequestContext, in FeedbackInput) (models.Feedback, error) {
	if !rc.Authenticated() {
		return models.Feedback{}, domain.AuthRequiredError{}
	}
	if in.Rating < 1 || in.Rating > 5 {
		return models.Feedback{}, domain.ValidationError{Field: "rating", Msg: "must be between 1 and 5"}
	}
	category := strings.ToLower(strings.TrimSpace(in.Category))
	if category == "" {
		category = "general"
	}
	if !feedbackCategories[category] {
		return models.Feedback{}, domain.ValidationError{Field: "category", Msg: "unknown category"}
	}
	comment := strings.TrimSpace(in.Comment)
	if len(comment) > 1000 {
		return models.Feedback{}, domain.ValidationError{Field: "comment", Msg: "is too long"}
	}

	clk := s.Clock
	if clk == nil {
		clk = clock.RealClock{}
	}
	f, err := s.Store.Create(ctx, models.Feedback{
		ID:        uuid.NewString(),
		UserID:    rc.UserID,
		ShuttleID: strings.TrimSpace(in.ShuttleID),
		Rating:    in.Rating,
		Comment:   comment,
		Category:  category,
		Status:    "open",
		CreatedAt: clk.Now().UTC(),
	})
	if err != nil {
		return models.Feedback{}, domain.BackendUnavailableError{Op: "save feedback", Err: err}
	}
	utils.LogEvent(s.RequestID, "feedback", "submit", "feedback_id="+f.ID)
	return f, nil
}

func (s FeedbackService) List(ctx context.Context, rc domain.RequestContext) ([]models.Feedback, error) {
	if !rc.Authenticated() {
		return nil, domain.AuthRequiredError{}
	}
	items, err := s.Store.ListByUser(ctx, rc.UserID)
	if err != nil {
		return nil, domain.BackendUnavailableError{Op: "list feedback", Err: err}
	}
	return items, nil
}
