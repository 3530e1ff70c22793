package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
)

// QueryRower is satisfied by *sql.DB and *sql.Tx.
type QueryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// NullIfEmpty helps store optional strings without writing "".
func NullIfEmpty(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

// HasTable reports whether table exists in the current MySQL schema.
// Any error reads as "missing" and is left to the caller's next query to surface.
func HasTable(ctx context.Context, q QueryRower, table string) bool {
	var name sql.NullString
	err := q.QueryRowContext(ctx, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = DATABASE()
		  AND table_name = ?
		LIMIT 1
	`, table).Scan(&name)
	if err != nil {
		return false
	}
	return name.Valid && name.String != ""
}

// JSONStrings decodes a JSON array column. NULL and garbage decode to an empty slice.
func JSONStrings(raw []byte) []string {
	if len(raw) == 0 {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return []string{}
	}
	return out
}

// JSONInts decodes a JSON array of integers, e.g. days_of_week.
func JSONInts(raw []byte) []int {
	if len(raw) == 0 {
		return []int{}
	}
	var out []int
	if err := json.Unmarshal(raw, &out); err != nil {
		return []int{}
	}
	return out
}

// MarshalJSON encodes v for a JSON column, falling back to "null".
func MarshalJSON(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		return []byte("null")
	}
	return b
}
