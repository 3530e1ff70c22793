package models

import (
	"encoding/json"
	"time"
)

const (
	NotificationBooking = "booking"
	NotificationInfo    = "info"
	NotificationAlert   = "alert"
	NotificationSuccess = "success"
)

// Notification is addressed to one user, or to everyone when UserID is nil.
type Notification struct {
	ID        string          `json:"id"`
	UserID    *string         `json:"user_id"`
	Title     string          `json:"title"`
	Message   string          `json:"message"`
	Type      string          `json:"type"`
	IsRead    bool            `json:"is_read"`
	Data      json.RawMessage `json:"data,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// IsBroadcast reports whether the notification targets every user.
func (n Notification) IsBroadcast() bool {
	return n.UserID == nil || *n.UserID == ""
}

// VisibleTo reports whether userID should see this notification.
func (n Notification) VisibleTo(userID string) bool {
	return n.IsBroadcast() || *n.UserID == userID
}
