package handlers

import (
	"database/sql"

	"shuttlego/internal/services"
)

// Handler holds the services the routes call. Each request works on a copy
// of the service value carrying its own RequestID.
type Handler struct {
	Catalog       *services.CatalogService
	Availability  services.AvailabilityService
	Bookings      services.BookingService
	Views         services.BookingViewService
	Notifications services.NotificationService
	Dashboard     services.DashboardService
	Docs          services.DocsService
	Tracking      services.TrackingService
	Auth          services.AuthService
	Profiles      services.ProfileService
	Settings      services.SettingsService
	Feedback      services.FeedbackService

	DB          *sql.DB
	BookingMode string
}
