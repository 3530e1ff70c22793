package repositories

import (
	"context"

	"shuttlego/internal/domain/models"
)

// BookingStore is implemented by the MySQL repository and the simulated local store.
type BookingStore interface {
	Create(ctx context.Context, b models.Booking) (models.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]models.Booking, error)
	// GetByID returns domain.NotFoundError when the id is unknown.
	GetByID(ctx context.Context, id string) (models.Booking, error)
	UpdateStatus(ctx context.Context, id string, status models.BookingStatus) (models.Booking, error)
}

// NotificationStore lists a user's notifications together with broadcasts, newest first.
type NotificationStore interface {
	Create(ctx context.Context, n models.Notification) (models.Notification, error)
	ListForUser(ctx context.Context, userID string, limit int) ([]models.Notification, error)
	MarkRead(ctx context.Context, userID, id string) error
	MarkAllRead(ctx context.Context, userID string) error
}

// CatalogStore serves the reference tables and owns shuttle occupancy.
type CatalogStore interface {
	ActiveRoutes(ctx context.Context) ([]models.Route, error)
	ActiveShuttles(ctx context.Context) ([]models.Shuttle, error)
	ActiveSchedules(ctx context.Context) ([]models.Schedule, error)
	ShuttleByID(ctx context.Context, id string) (models.Shuttle, error)

	// ReserveSeat increments occupancy only if the shuttle is active and below
	// capacity, as one step. It returns domain.CapacityExceededError otherwise.
	ReserveSeat(ctx context.Context, shuttleID string) (models.Shuttle, error)
	// ReleaseSeat decrements occupancy, never below zero.
	ReleaseSeat(ctx context.Context, shuttleID string) error
	UpdateLocation(ctx context.Context, shuttleID string, loc models.Location) (models.Shuttle, error)
}

type UserStore interface {
	Create(ctx context.Context, u models.User) error
	GetByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
}

type ProfileStore interface {
	GetByUserID(ctx context.Context, userID string) (models.Profile, error)
	Upsert(ctx context.Context, p models.Profile) (models.Profile, error)
}

type FeedbackStore interface {
	Create(ctx context.Context, f models.Feedback) (models.Feedback, error)
	ListByUser(ctx context.Context, userID string) ([]models.Feedback, error)
}
