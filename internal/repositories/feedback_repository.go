package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"shuttlego/internal/db"
	"shuttlego/internal/domain/models"
)

// FeedbackRepository stores rider ratings in MySQL.
type FeedbackRepository struct {
	DB *sql.DB
}

func (r FeedbackRepository) Create(ctx context.Context, f models.Feedback) (models.Feedback, error) {
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now()
	}
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO feedback (id, user_id, shuttle_id, rating, comment, category, status, created_at)
		VALUES (?,?,?,?,?,?,?,?)`,
		f.ID, f.UserID, db.NullIfEmpty(f.ShuttleID), f.Rating, db.NullIfEmpty(f.Comment), f.Category, f.Status, f.CreatedAt)
	if err != nil {
		return f, fmt.Errorf("insert feedback: %w", err)
	}
	return f, nil
}

func (r FeedbackRepository) ListByUser(ctx context.Context, userID string) ([]models.Feedback, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, user_id, COALESCE(shuttle_id,''), rating, COALESCE(comment,''), category, status, created_at
		FROM feedback WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	defer rows.Close()

	out := []models.Feedback{}
	for rows.Next() {
		var f models.Feedback
		if err := rows.Scan(&f.ID, &f.UserID, &f.ShuttleID, &f.Rating, &f.Comment, &f.Category, &f.Status, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
