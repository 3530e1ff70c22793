package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"
)

// schema is the MySQL layout the persisted backend expects. Statements are
// idempotent so EnsureSchema can run on every start.
var schema = []struct {
	table string
	ddl   string
}{
	{"users", `CREATE TABLE IF NOT EXISTS users (
		id            VARCHAR(64)  NOT NULL PRIMARY KEY,
		email         VARCHAR(255) NOT NULL UNIQUE,
		full_name     VARCHAR(255) NOT NULL DEFAULT '',
		role          VARCHAR(32)  NOT NULL DEFAULT 'student',
		password_hash VARCHAR(255) NOT NULL,
		created_at    DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	{"profiles", `CREATE TABLE IF NOT EXISTS profiles (
		id                       VARCHAR(64)  NOT NULL PRIMARY KEY,
		user_id                  VARCHAR(64)  NOT NULL UNIQUE,
		email                    VARCHAR(255) NOT NULL DEFAULT '',
		full_name                VARCHAR(255) NOT NULL DEFAULT '',
		phone                    VARCHAR(64)  NULL,
		student_id               VARCHAR(64)  NULL,
		department               VARCHAR(255) NULL,
		year_of_study            INT          NULL,
		avatar_url               VARCHAR(512) NULL,
		notification_preferences JSON         NULL,
		created_at               DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at               DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	{"routes", `CREATE TABLE IF NOT EXISTS routes (
		id                 VARCHAR(64)   NOT NULL PRIMARY KEY,
		name               VARCHAR(255)  NOT NULL,
		description        TEXT          NULL,
		start_location     VARCHAR(255)  NOT NULL,
		end_location       VARCHAR(255)  NOT NULL,
		stops              JSON          NULL,
		estimated_duration INT           NOT NULL DEFAULT 0,
		base_fare          DECIMAL(10,2) NULL,
		is_active          TINYINT(1)    NOT NULL DEFAULT 1,
		created_at         DATETIME      NOT NULL DEFAULT CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	{"shuttles", `CREATE TABLE IF NOT EXISTS shuttles (
		id                VARCHAR(64)  NOT NULL PRIMARY KEY,
		shuttle_code      VARCHAR(64)  NOT NULL UNIQUE,
		driver_name       VARCHAR(255) NOT NULL DEFAULT '',
		capacity          INT          NOT NULL,
		current_occupancy INT          NOT NULL DEFAULT 0,
		status            VARCHAR(32)  NOT NULL DEFAULT 'active',
		latitude          DOUBLE       NULL,
		longitude         DOUBLE       NULL,
		location_updated  DATETIME     NULL,
		amenities         JSON         NULL,
		CHECK (capacity > 0),
		CHECK (current_occupancy >= 0 AND current_occupancy <= capacity)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	{"shuttle_schedules", `CREATE TABLE IF NOT EXISTS shuttle_schedules (
		id             VARCHAR(64) NOT NULL PRIMARY KEY,
		shuttle_id     VARCHAR(64) NOT NULL,
		route_id       VARCHAR(64) NOT NULL,
		departure_time VARCHAR(8)  NOT NULL,
		arrival_time   VARCHAR(8)  NOT NULL,
		days_of_week   JSON        NOT NULL,
		is_active      TINYINT(1)  NOT NULL DEFAULT 1,
		KEY idx_shuttle_schedules_route (route_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	{"bookings", `CREATE TABLE IF NOT EXISTS bookings (
		id                VARCHAR(64)   NOT NULL PRIMARY KEY,
		user_id           VARCHAR(64)   NOT NULL,
		route_id          VARCHAR(64)   NOT NULL,
		shuttle_id        VARCHAR(64)   NOT NULL,
		schedule_id       VARCHAR(64)   NULL,
		pickup_location   VARCHAR(255)  NOT NULL,
		destination       VARCHAR(255)  NOT NULL,
		booking_date      DATE          NOT NULL,
		booking_time      VARCHAR(8)    NOT NULL,
		status            VARCHAR(32)   NOT NULL DEFAULT 'confirmed',
		qr_code           VARCHAR(128)  NOT NULL,
		payment_reference VARCHAR(255)  NULL,
		base_fare         DECIMAL(10,2) NOT NULL DEFAULT 0,
		discounts         DECIMAL(10,2) NOT NULL DEFAULT 0,
		fees              DECIMAL(10,2) NOT NULL DEFAULT 0,
		total_fare        DECIMAL(10,2) NOT NULL DEFAULT 0,
		preferences       JSON          NULL,
		route_name        VARCHAR(255)  NULL,
		shuttle_code      VARCHAR(64)   NULL,
		driver_name       VARCHAR(255)  NULL,
		created_at        DATETIME      NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at        DATETIME      NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_bookings_payment_reference (payment_reference),
		KEY idx_bookings_user (user_id, booking_date)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	{"notifications", `CREATE TABLE IF NOT EXISTS notifications (
		id         VARCHAR(64)  NOT NULL PRIMARY KEY,
		user_id    VARCHAR(64)  NULL,
		title      VARCHAR(255) NOT NULL,
		message    TEXT         NOT NULL,
		type       VARCHAR(32)  NOT NULL DEFAULT 'info',
		is_read    TINYINT(1)   NOT NULL DEFAULT 0,
		data       JSON         NULL,
		created_at DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY idx_notifications_user (user_id, created_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	{"feedback", `CREATE TABLE IF NOT EXISTS feedback (
		id         VARCHAR(64)  NOT NULL PRIMARY KEY,
		user_id    VARCHAR(64)  NOT NULL,
		shuttle_id VARCHAR(64)  NULL,
		rating     INT          NOT NULL,
		comment    TEXT         NULL,
		category   VARCHAR(64)  NOT NULL DEFAULT 'general',
		status     VARCHAR(32)  NOT NULL DEFAULT 'open',
		created_at DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
}

// EnsureSchema creates any missing table.
func EnsureSchema(ctx context.Context, conn *sql.DB) error {
	for _, s := range schema {
		if HasTable(ctx, conn, s.table) {
			continue
		}
		if _, err := conn.ExecContext(ctx, s.ddl); err != nil {
			return fmt.Errorf("create table %s: %w", s.table, err)
		}
		log.Printf("[DB] created table %s", s.table)
	}
	return nil
}

// Tables lists the managed tables in creation order.
func Tables() []string {
	out := make([]string, 0, len(schema))
	for _, s := range schema {
		out = append(out, s.table)
	}
	return out
}
