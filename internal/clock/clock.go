// Package clock lets services read the current time through an interface so
// tests can pin "today" and token timestamps.
package clock

import (
	"sync"
	"time"
)

// Clock provides an abstraction for time operations.
type Clock interface {
	Now() time.Time
	NowUnixMilli() int64
}

// RealClock implements Clock using actual system time.
type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}

func (RealClock) NowUnixMilli() int64 {
	return time.Now().UnixMilli()
}

// MockClock is a controllable, thread-safe Clock for tests.
type MockClock struct {
	currentTime time.Time
	mu          sync.Mutex
}

func NewMockClock(t time.Time) *MockClock {
	return &MockClock{currentTime: t}
}

func (m *MockClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentTime
}

func (m *MockClock) NowUnixMilli() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentTime.UnixMilli()
}

// Set changes the mock clock's current time.
func (m *MockClock) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentTime = t
}

// Advance moves the mock clock by d. Negative durations move it backward.
func (m *MockClock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentTime = m.currentTime.Add(d)
}

// Today returns c's current date as YYYY-MM-DD in UTC.
func Today(c Clock) string {
	return c.Now().UTC().Format("2006-01-02")
}
