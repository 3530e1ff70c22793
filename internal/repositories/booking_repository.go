package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"shuttlego/internal/db"
	"shuttlego/internal/domain"
	"shuttlego/internal/domain/models"
)

// BookingRepository is the persisted booking store backed by MySQL.
type BookingRepository struct {
	DB *sql.DB
}

const bookingColumns = `id, user_id, route_id, shuttle_id, COALESCE(schedule_id,''),
	pickup_location, destination, DATE_FORMAT(booking_date, '%Y-%m-%d'), booking_time,
	status, qr_code, COALESCE(payment_reference,''),
	base_fare, discounts, fees, total_fare, preferences,
	COALESCE(route_name,''), COALESCE(shuttle_code,''), COALESCE(driver_name,''),
	created_at, updated_at`

func (r BookingRepository) Create(ctx context.Context, b models.Booking) (models.Booking, error) {
	now := time.Now()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = b.CreatedAt

	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO bookings (
			id, user_id, route_id, shuttle_id, schedule_id,
			pickup_location, destination, booking_date, booking_time,
			status, qr_code, payment_reference,
			base_fare, discounts, fees, total_fare, preferences,
			route_name, shuttle_code, driver_name, created_at, updated_at
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		b.ID, b.UserID, b.RouteID, b.ShuttleID, db.NullIfEmpty(b.ScheduleID),
		b.PickupLocation, b.Destination, b.BookingDate, b.BookingTime,
		string(b.Status), b.QRCode, db.NullIfEmpty(b.PaymentReference),
		b.Fare.BaseFare, b.Fare.Discounts, b.Fare.Fees, b.Fare.Total, db.MarshalJSON(b.Preferences),
		db.NullIfEmpty(b.RouteName), db.NullIfEmpty(b.ShuttleCode), db.NullIfEmpty(b.DriverName),
		b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
			msg := "booking already exists"
			if strings.Contains(me.Message, "payment_reference") {
				msg = "payment reference already used"
			}
			return b, domain.ConflictError{Resource: "booking", Msg: msg, Err: err}
		}
		return b, fmt.Errorf("insert booking: %w", err)
	}
	return b, nil
}

func (r BookingRepository) ListByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+bookingColumns+`
		FROM bookings WHERE user_id = ?
		ORDER BY booking_date DESC, booking_time DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	out := []models.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r BookingRepository) GetByID(ctx context.Context, id string) (models.Booking, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id)
	b, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return b, domain.NotFoundError{Resource: "booking", Err: err}
	}
	return b, err
}

func (r BookingRepository) UpdateStatus(ctx context.Context, id string, status models.BookingStatus) (models.Booking, error) {
	res, err := r.DB.ExecContext(ctx, `UPDATE bookings SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now(), id)
	if err != nil {
		return models.Booking{}, fmt.Errorf("update booking status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.Booking{}, domain.NotFoundError{Resource: "booking"}
	}
	return r.GetByID(ctx, id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(s rowScanner) (models.Booking, error) {
	var (
		b      models.Booking
		status string
		prefs  []byte
	)
	err := s.Scan(
		&b.ID, &b.UserID, &b.RouteID, &b.ShuttleID, &b.ScheduleID,
		&b.PickupLocation, &b.Destination, &b.BookingDate, &b.BookingTime,
		&status, &b.QRCode, &b.PaymentReference,
		&b.Fare.BaseFare, &b.Fare.Discounts, &b.Fare.Fees, &b.Fare.Total, &prefs,
		&b.RouteName, &b.ShuttleCode, &b.DriverName,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return b, err
	}
	b.Status = models.BookingStatus(status)
	if len(prefs) > 0 {
		_ = json.Unmarshal(prefs, &b.Preferences)
	}
	return b, nil
}
