package models

import "time"

type BookingStatus string

const (
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
	BookingNoShow    BookingStatus = "no_show"
)

// SimulatedIDPrefix marks bookings created by the local simulated store.
const SimulatedIDPrefix = "sim-"

// Preferences are the options picked on the booking form.
type Preferences struct {
	SeatPreference string `json:"seat_preference"` // window / aisle / any
	Accessibility  bool   `json:"accessibility"`
	Notifications  bool   `json:"notifications"`
	Insurance      bool   `json:"insurance"`
}

// FareBreakdown is the result of the fare rule, in currency units.
type FareBreakdown struct {
	BaseFare  float64 `json:"base_fare"`
	Discounts float64 `json:"discounts"`
	Fees      float64 `json:"fees"`
	Total     float64 `json:"total_fare"`
}

// Booking is a reservation of one seat on a scheduled shuttle run.
type Booking struct {
	ID               string        `json:"id"`
	UserID           string        `json:"user_id"`
	RouteID          string        `json:"route_id"`
	ShuttleID        string        `json:"shuttle_id"`
	ScheduleID       string        `json:"schedule_id,omitempty"`
	PickupLocation   string        `json:"pickup_location"`
	Destination      string        `json:"destination"`
	BookingDate      string        `json:"booking_date"`
	BookingTime      string        `json:"booking_time"`
	Status           BookingStatus `json:"status"`
	QRCode           string        `json:"qr_code"`
	PaymentReference string        `json:"payment_reference"`
	Fare             FareBreakdown `json:"fare"`
	Preferences      Preferences   `json:"preferences"`
	RouteName        string        `json:"route_name"`
	ShuttleCode      string        `json:"shuttle_code"`
	DriverName       string        `json:"driver_name"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// IsActive reports whether the booking can still be used to board.
func (b Booking) IsActive() bool {
	return b.Status == BookingConfirmed
}

// Departure combines date and time into a sortable key. Missing time sorts as 00:00.
func (b Booking) Departure() string {
	t := b.BookingTime
	if t == "" {
		t = "00:00"
	}
	return b.BookingDate + "T" + t
}

// BookingView is a booking as rendered in the lists, with its origin.
type BookingView struct {
	Booking
	Source      string `json:"source"` // simulated / persisted
	Highlighted bool   `json:"highlighted"`
}

// Confirmation is what a successful commit hands back to the caller.
type Confirmation struct {
	BookingID        string        `json:"booking_id,omitempty"`
	BookingNumber    string        `json:"booking_number"`
	QRCode           string        `json:"qr_code"`
	PaymentReference string        `json:"payment_reference"`
	TotalFare        float64       `json:"total_fare"`
	Fare             FareBreakdown `json:"fare"`
	Preferences      Preferences   `json:"preferences"`
	BookedAt         time.Time     `json:"booked_at"`
}
