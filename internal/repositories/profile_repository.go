package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shuttlego/internal/db"
	"shuttlego/internal/domain"
	"shuttlego/internal/domain/models"
)

// ProfileRepository stores student profiles in MySQL, one row per user.
type ProfileRepository struct {
	DB *sql.DB
}

func (r ProfileRepository) GetByUserID(ctx context.Context, userID string) (models.Profile, error) {
	var (
		p                                    models.Profile
		phone, studentID, department, avatar sql.NullString
		year                                 sql.NullInt64
		prefs                                []byte
	)
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, user_id, email, full_name, phone, student_id, department, year_of_study,
		       avatar_url, notification_preferences, created_at, updated_at
		FROM profiles WHERE user_id = ?`, userID).
		Scan(&p.ID, &p.UserID, &p.Email, &p.FullName, &phone, &studentID, &department, &year,
			&avatar, &prefs, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return p, domain.NotFoundError{Resource: "profile", Err: err}
	}
	if err != nil {
		return p, fmt.Errorf("get profile: %w", err)
	}
	p.Phone = phone.String
	p.StudentID = studentID.String
	p.Department = department.String
	p.AvatarURL = avatar.String
	p.YearOfStudy = int(year.Int64)
	if len(prefs) > 0 {
		p.NotificationPreferences = prefs
	}
	return p, nil
}

func (r ProfileRepository) Upsert(ctx context.Context, p models.Profile) (models.Profile, error) {
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	var prefs any
	if len(p.NotificationPreferences) > 0 {
		prefs = []byte(p.NotificationPreferences)
	}
	var year any
	if p.YearOfStudy > 0 {
		year = p.YearOfStudy
	}

	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO profiles (id, user_id, email, full_name, phone, student_id, department,
		                      year_of_study, avatar_url, notification_preferences, created_at, updated_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)
		ON DUPLICATE KEY UPDATE
			full_name = VALUES(full_name), phone = VALUES(phone), student_id = VALUES(student_id),
			department = VALUES(department), year_of_study = VALUES(year_of_study),
			avatar_url = VALUES(avatar_url), notification_preferences = VALUES(notification_preferences),
			updated_at = VALUES(updated_at)`,
		p.ID, p.UserID, p.Email, p.FullName, db.NullIfEmpty(p.Phone), db.NullIfEmpty(p.StudentID),
		db.NullIfEmpty(p.Department), year, db.NullIfEmpty(p.AvatarURL), prefs, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return p, fmt.Errorf("upsert profile: %w", err)
	}
	return p, nil
}
