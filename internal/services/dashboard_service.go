package services

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"shuttlego/internal/clock"
	"shuttlego/internal/domain/models"
)

const (
	minutesSavedPerTrip = 15
	dashboardRecent     = 5
	dashboardActivity   = 8
)

type DashboardStats struct {
	TotalBookings     int `json:"total_bookings"`
	UpcomingBookings  int `json:"upcoming_bookings"`
	CompletedBookings int `json:"completed_bookings"`
	SavedMinutes      int `json:"saved_minutes"`
}

// ActivityItem is one line of the dashboard feed.
type ActivityItem struct {
	Kind        string    `json:"kind"` // booking / notification
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type Dashboard struct {
	Stats          DashboardStats        `json:"stats"`
	RecentBookings []models.BookingView  `json:"recent_bookings"`
	Notifications  []models.Notification `json:"notifications"`
	Activity       []ActivityItem        `json:"activity"`
}

type DashboardService struct {
	Bookings      BookingViewService
	Notifications NotificationService
	Clock         clock.Clock
	RequestID     string
}

func (s DashboardService) Build(ctx context.Context, userID string) (Dashboard, error) {
	var (
		bookings []models.BookingView
		notes    []models.Notification
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		bookings, err = s.Bookings.List(gctx, userID, "")
		return err
	})
	g.Go(func() error {
		var err error
		notes, err = s.Notifications.List(gctx, userID, notificationListLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}

	clk := s.Clock
	if clk == nil {
		clk = clock.RealClock{}
	}
	d := Dashboard{
		Stats:          Summarize(bookings, clock.Today(clk)),
		RecentBookings: headBookings(bookings, dashboardRecent),
		Notifications:  headNotifications(notes, dashboardRecent),
		Activity:       Activity(bookings, notes, dashboardActivity),
	}
	return d, nil
}

// Summarize counts bookings for the stat cards. Upcoming means confirmed with a
// date on or after today (YYYY-MM-DD compares lexically).
func Summarize(bookings []models.BookingView, today string) DashboardStats {
	st := DashboardStats{TotalBookings: len(bookings)}
	for _, b := range bookings {
		switch b.Status {
		case models.BookingConfirmed:
			if b.BookingDate >= today {
				st.UpcomingBookings++
			}
		case models.BookingCompleted:
			st.CompletedBookings++
		}
	}
	st.SavedMinutes = st.CompletedBookings * minutesSavedPerTrip
	return st
}

// Activity interleaves bookings and notifications by creation time, newest first.
func Activity(bookings []models.BookingView, notes []models.Notification, limit int) []ActivityItem {
	items := make([]ActivityItem, 0, len(bookings)+len(notes))
	for _, b := range bookings {
		items = append(items, ActivityItem{
			Kind:        "booking",
			ID:          b.ID,
			Title:       "Booked " + b.PickupLocation + " to " + b.Destination,
			Description: b.BookingDate + " " + b.BookingTime,
			Status:      string(b.Status),
			CreatedAt:   b.CreatedAt,
		})
	}
	for _, n := range notes {
		items = append(items, ActivityItem{
			Kind:        "notification",
			ID:          n.ID,
			Title:       n.Title,
			Description: n.Message,
			CreatedAt:   n.CreatedAt,
		})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}

func headBookings(in []models.BookingView, n int) []models.BookingView {
	if len(in) > n {
		return in[:n]
	}
	return in
}

func headNotifications(in []models.Notification, n int) []models.Notification {
	if len(in) > n {
		return in[:n]
	}
	return in
}
