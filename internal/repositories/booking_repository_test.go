package repositories

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shuttlego/internal/domain"
	"shuttlego/internal/domain/models"
)

var bookingRowColumns = []string{
	"id", "user_id", "route_id", "shuttle_id", "schedule_id",
	"pickup_location", "destination", "booking_date", "booking_time",
	"status", "qr_code", "payment_reference",
	"base_fare", "discounts", "fees", "total_fare", "preferences",
	"route_name", "shuttle_code", "driver_name", "created_at", "updated_at",
}

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn, mock
}

func TestBookingRepository_Create(t *testing.T) {
	conn, mock := newMockDB(t)
	repo := BookingRepository{DB: conn}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO bookings")).
		WithArgs("b1", "u1", "r1", "s1", nil, "Main Gate", "Balme Library", "2025-01-08", "08:00",
			"confirmed", "SHUTTLEGO-1-abc", "MANUAL-1", 5.0, 0.0, 0.0, 5.0, sqlmock.AnyArg(),
			"Central Loop", "SH101", "A. Mensah", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	b, err := repo.Create(context.Background(), models.Booking{
		ID: "b1", UserID: "u1", RouteID: "r1", ShuttleID: "s1",
		PickupLocation: "Main Gate", Destination: "Balme Library",
		BookingDate: "2025-01-08", BookingTime: "08:00", Status: models.BookingConfirmed,
		QRCode: "SHUTTLEGO-1-abc", PaymentReference: "MANUAL-1",
		Fare:      models.FareBreakdown{BaseFare: 5, Total: 5},
		RouteName: "Central Loop", ShuttleCode: "SH101", DriverName: "A. Mensah",
	})
	require.NoError(t, err)
	assert.False(t, b.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepository_CreateDuplicatePaymentReference(t *testing.T) {
	conn, mock := newMockDB(t)
	repo := BookingRepository{DB: conn}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO bookings")).
		WillReturnError(&mysql.MySQLError{
			Number:  1062,
			Message: "Duplicate entry 'pi_123' for key 'bookings.uq_bookings_payment_reference'",
		})

	_, err := repo.Create(context.Background(), models.Booking{
		ID: "b2", UserID: "u2", RouteID: "r1", ShuttleID: "s1",
		BookingDate: "2025-01-08", BookingTime: "08:00", Status: models.BookingConfirmed,
		PaymentReference: "pi_123",
	})
	require.Error(t, err)
	assert.True(t, domain.IsConflict(err))
	assert.Contains(t, err.Error(), "payment reference already used")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepository_GetByID(t *testing.T) {
	conn, mock := newMockDB(t)
	repo := BookingRepository{DB: conn}
	now := time.Date(2025, 1, 7, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings WHERE id = ?")).
		WithArgs("b1").
		WillReturnRows(sqlmock.NewRows(bookingRowColumns).AddRow(
			"b1", "u1", "r1", "s1", "", "Main Gate", "Balme Library", "2025-01-08", "08:00",
			"confirmed", "SHUTTLEGO-1-abc", "", 5.0, 0.5, 2.0, 6.5,
			[]byte(`{"seat_preference":"window","accessibility":true,"notifications":true,"insurance":true}`),
			"Central Loop", "SH101", "A. Mensah", now, now))

	b, err := repo.GetByID(context.Background(), "b1")
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, b.Status)
	assert.Equal(t, 6.5, b.Fare.Total)
	assert.True(t, b.Preferences.Insurance)
	assert.Equal(t, "window", b.Preferences.SeatPreference)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepository_GetByIDNotFound(t *testing.T) {
	conn, mock := newMockDB(t)
	repo := BookingRepository{DB: conn}

	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings WHERE id = ?")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(bookingRowColumns))

	_, err := repo.GetByID(context.Background(), "missing")
	assert.True(t, domain.IsNotFound(err))
}

func TestBookingRepository_UpdateStatusUnknownID(t *testing.T) {
	conn, mock := newMockDB(t)
	repo := BookingRepository{DB: conn}

	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET status = ?")).
		WithArgs("cancelled", sqlmock.AnyArg(), "nope").
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := repo.UpdateStatus(context.Background(), "nope", models.BookingCancelled)
	assert.True(t, domain.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
