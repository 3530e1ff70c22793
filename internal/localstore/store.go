// Package localstore is the device-local key-value store behind simulated mode.
// Values are opaque bytes; callers keep JSON documents under well-known keys.
package localstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"
)

const (
	// Per-user lists are stored under prefix + user id.
	KeySimulatedBookingsPrefix      = "simulated_bookings:"
	KeySimulatedNotificationsPrefix = "simulated_notifications:"
	KeySimulatedFeedbackPrefix      = "simulated_feedback:"
	KeySimulatedBroadcasts          = "simulated_broadcasts"
	KeySettingsPrefix               = "settings:"

	// Booking indexes and simulated-mode accounts.
	KeyBookingOwnerPrefix     = "simulated_booking_owner:"
	KeyPaymentReferencePrefix = "simulated_payment_ref:"
	KeyLocalUserPrefix        = "local_user:"
	KeyLocalUserEmailPrefix   = "local_user_email:"
	KeyLocalProfilePrefix     = "local_profile:"
)

// Store is the key-value contract. Get reports found=false for a missing key.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// MemoryStore keeps values in a map. Used in tests and when no sqlite path is set.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (m *MemoryStore) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := make([]byte, len(value))
	copy(v, value)
	m.data[key] = v
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// SQLiteStore persists the key-value pairs in a single sqlite table.
type SQLiteStore struct {
	DB *sql.DB
}

// NewSQLiteStore creates the kv table if missing.
func NewSQLiteStore(ctx context.Context, db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, errors.New("local store: nil db")
	}
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS kv (
			key        TEXT PRIMARY KEY,
			value      BLOB NOT NULL,
			updated_at INTEGER NOT NULL
		)`)
	if err != nil {
		return nil, fmt.Errorf("create kv table: %w", err)
	}
	return &SQLiteStore{DB: db}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var v []byte
	err := s.DB.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("kv get %s: %w", key, err)
	}
	return v, true, nil
}

func (s *SQLiteStore) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("kv put %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if _, err := s.DB.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("kv delete %s: %w", key, err)
	}
	return nil
}
