package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"shuttlego/internal/domain"
	"shuttlego/internal/domain/models"
)

// NotificationRepository is the persisted notification store backed by MySQL.
type NotificationRepository struct {
	DB *sql.DB
}

func (r NotificationRepository) Create(ctx context.Context, n models.Notification) (models.Notification, error) {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	var userID any
	if !n.IsBroadcast() {
		userID = *n.UserID
	}
	var data any
	if len(n.Data) > 0 {
		data = []byte(n.Data)
	}
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO notifications (id, user_id, title, message, type, is_read, data, created_at)
		VALUES (?,?,?,?,?,?,?,?)`,
		n.ID, userID, n.Title, n.Message, n.Type, n.IsRead, data, n.CreatedAt)
	if err != nil {
		return n, fmt.Errorf("insert notification: %w", err)
	}
	return n, nil
}

func (r NotificationRepository) ListForUser(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, user_id, title, message, type, is_read, data, created_at
		FROM notifications
		WHERE user_id = ? OR user_id IS NULL
		ORDER BY created_at DESC
		LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	out := []models.Notification{}
	for rows.Next() {
		var (
			n    models.Notification
			uid  sql.NullString
			data []byte
		)
		if err := rows.Scan(&n.ID, &uid, &n.Title, &n.Message, &n.Type, &n.IsRead, &data, &n.CreatedAt); err != nil {
			return nil, err
		}
		if uid.Valid {
			s := uid.String
			n.UserID = &s
		}
		if len(data) > 0 {
			n.Data = data
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkRead flags one notification the user can see. Broadcast rows are shared,
// so reading one marks it for everyone.
func (r NotificationRepository) MarkRead(ctx context.Context, userID, id string) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE notifications SET is_read = 1
		WHERE id = ? AND (user_id = ? OR user_id IS NULL)`, id, userID)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// MySQL reports 0 for rows already read; tell those apart from unknown ids
		var exists int
		err := r.DB.QueryRowContext(ctx, `
			SELECT COUNT(*) FROM notifications WHERE id = ? AND (user_id = ? OR user_id IS NULL)`,
			id, userID).Scan(&exists)
		if err != nil {
			return fmt.Errorf("check notification: %w", err)
		}
		if exists == 0 {
			return domain.NotFoundError{Resource: "notification"}
		}
	}
	return nil
}

func (r NotificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	if _, err := r.DB.ExecContext(ctx, `UPDATE notifications SET is_read = 1 WHERE (user_id = ? OR user_id IS NULL) AND is_read = 0`, userID); err != nil {
		return fmt.Errorf("mark all notifications read: %w", err)
	}
	return nil
}
