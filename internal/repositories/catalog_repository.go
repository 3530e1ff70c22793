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

// CatalogRepository reads routes, shuttles and schedules from MySQL and applies
// occupancy changes as conditional updates.
type CatalogRepository struct {
	DB *sql.DB
}

func (r CatalogRepository) ActiveRoutes(ctx context.Context) ([]models.Route, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, name, COALESCE(description,''), start_location, end_location, stops,
		       estimated_duration, COALESCE(base_fare, 0), is_active, created_at
		FROM routes WHERE is_active = 1 ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list routes: %w", err)
	}
	defer rows.Close()

	out := []models.Route{}
	for rows.Next() {
		var (
			rt    models.Route
			stops []byte
		)
		if err := rows.Scan(&rt.ID, &rt.Name, &rt.Description, &rt.StartLocation, &rt.EndLocation, &stops,
			&rt.EstimatedDuration, &rt.BaseFare, &rt.IsActive, &rt.CreatedAt); err != nil {
			return nil, err
		}
		rt.Stops = db.JSONStrings(stops)
		out = append(out, rt)
	}
	return out, rows.Err()
}

const shuttleColumns = `id, shuttle_code, driver_name, capacity, current_occupancy, status,
	latitude, longitude, location_updated, amenities`

func (r CatalogRepository) ActiveShuttles(ctx context.Context) ([]models.Shuttle, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+shuttleColumns+` FROM shuttles WHERE status = 'active' ORDER BY shuttle_code`)
	if err != nil {
		return nil, fmt.Errorf("list shuttles: %w", err)
	}
	defer rows.Close()

	out := []models.Shuttle{}
	for rows.Next() {
		s, err := scanShuttle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r CatalogRepository) ActiveSchedules(ctx context.Context) ([]models.Schedule, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, shuttle_id, route_id, departure_time, arrival_time, days_of_week, is_active
		FROM shuttle_schedules WHERE is_active = 1 ORDER BY departure_time`)
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	defer rows.Close()

	out := []models.Schedule{}
	for rows.Next() {
		var (
			s    models.Schedule
			days []byte
		)
		if err := rows.Scan(&s.ID, &s.ShuttleID, &s.RouteID, &s.DepartureTime, &s.ArrivalTime, &days, &s.IsActive); err != nil {
			return nil, err
		}
		s.DaysOfWeek = db.JSONInts(days)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r CatalogRepository) ShuttleByID(ctx context.Context, id string) (models.Shuttle, error) {
	s, err := scanShuttle(r.DB.QueryRowContext(ctx, `SELECT `+shuttleColumns+` FROM shuttles WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return s, domain.NotFoundError{Resource: "shuttle", Err: err}
	}
	if err != nil {
		return s, fmt.Errorf("get shuttle: %w", err)
	}
	return s, nil
}

func (r CatalogRepository) ReserveSeat(ctx context.Context, shuttleID string) (models.Shuttle, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE shuttles SET current_occupancy = current_occupancy + 1
		WHERE id = ? AND status = 'active' AND current_occupancy < capacity`, shuttleID)
	if err != nil {
		return models.Shuttle{}, fmt.Errorf("reserve seat: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return models.Shuttle{}, fmt.Errorf("reserve seat: %w", err)
	}

	s, getErr := r.ShuttleByID(ctx, shuttleID)
	if n == 0 {
		if getErr != nil {
			return models.Shuttle{}, getErr
		}
		return s, domain.CapacityExceededError{ShuttleID: s.ID, Capacity: s.Capacity, Occupancy: s.CurrentOccupancy}
	}
	return s, getErr
}

func (r CatalogRepository) ReleaseSeat(ctx context.Context, shuttleID string) error {
	_, err := r.DB.ExecContext(ctx, `
		UPDATE shuttles SET current_occupancy = current_occupancy - 1
		WHERE id = ? AND current_occupancy > 0`, shuttleID)
	if err != nil {
		return fmt.Errorf("release seat: %w", err)
	}
	return nil
}

func (r CatalogRepository) UpdateLocation(ctx context.Context, shuttleID string, loc models.Location) (models.Shuttle, error) {
	if loc.UpdatedAt.IsZero() {
		loc.UpdatedAt = time.Now()
	}
	_, err := r.DB.ExecContext(ctx, `
		UPDATE shuttles SET latitude = ?, longitude = ?, location_updated = ? WHERE id = ?`,
		loc.Latitude, loc.Longitude, loc.UpdatedAt, shuttleID)
	if err != nil {
		return models.Shuttle{}, fmt.Errorf("update location: %w", err)
	}
	// RowsAffected is 0 for an unchanged fix too, so existence is checked by the read
	return r.ShuttleByID(ctx, shuttleID)
}

func scanShuttle(s rowScanner) (models.Shuttle, error) {
	var (
		sh        models.Shuttle
		status    string
		lat, lng  sql.NullFloat64
		updated   sql.NullTime
		amenities []byte
	)
	if err := s.Scan(&sh.ID, &sh.ShuttleCode, &sh.DriverName, &sh.Capacity, &sh.CurrentOccupancy, &status,
		&lat, &lng, &updated, &amenities); err != nil {
		return sh, err
	}
	sh.Status = models.ShuttleStatus(status)
	if lat.Valid && lng.Valid {
		sh.Location = &models.Location{Latitude: lat.Float64, Longitude: lng.Float64}
		if updated.Valid {
			sh.Location.UpdatedAt = updated.Time
		}
	}
	sh.Amenities = db.JSONStrings(amenities)
	return sh, nil
}
