package models

import (
	"encoding/json"
	"time"
)

// User is an account used for sign-in.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Profile holds student details shown on the settings page.
type Profile struct {
	ID                      string          `json:"id"`
	UserID                  string          `json:"user_id"`
	Email                   string          `json:"email"`
	FullName                string          `json:"full_name"`
	Phone                   string          `json:"phone"`
	StudentID               string          `json:"student_id"`
	Department              string          `json:"department"`
	YearOfStudy             int             `json:"year_of_study"`
	AvatarURL               string          `json:"avatar_url"`
	NotificationPreferences json.RawMessage `json:"notification_preferences,omitempty"`
	CreatedAt               time.Time       `json:"created_at"`
	UpdatedAt               time.Time       `json:"updated_at"`
}

// ProfileUpdate supports PATCH-style updates via key presence.
type ProfileUpdate struct {
	FullName                *string          `json:"full_name"`
	Phone                   *string          `json:"phone"`
	StudentID               *string          `json:"student_id"`
	Department              *string          `json:"department"`
	YearOfStudy             *int             `json:"year_of_study"`
	AvatarURL               *string          `json:"avatar_url"`
	NotificationPreferences *json.RawMessage `json:"notification_preferences"`
}

// Feedback is a rider's rating of a trip or shuttle.
type Feedback struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ShuttleID string    `json:"shuttle_id,omitempty"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	Category  string    `json:"category"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
