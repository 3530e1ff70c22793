package utils

import (
	"strings"
	"time"
)

const (
	layoutDate = "2006-01-02"
	layoutHM   = "15:04"
	layoutHMS  = "15:04:05"
)

// ParseDate parses YYYY-MM-DD as a UTC calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(layoutDate, strings.TrimSpace(s), time.UTC)
}

// FormatDate formats time to YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(layoutDate)
}

// NormalizeClock accepts HH:MM or HH:MM:SS and returns HH:MM. Invalid input is returned trimmed.
func NormalizeClock(s string) string {
	s = strings.TrimSpace(s)
	for _, layout := range []string{layoutHM, layoutHMS} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(layoutHM)
		}
	}
	return s
}

// DateOnly cuts a timestamp-ish string down to its date part.
func DateOnly(v string) string {
	v = strings.TrimSpace(v)
	if len(v) >= 10 {
		return v[:10]
	}
	return v
}

// TimeHM cuts HH:MM:SS down to HH:MM.
func TimeHM(v string) string {
	v = strings.TrimSpace(v)
	if len(v) >= 5 {
		return v[:5]
	}
	return v
}
