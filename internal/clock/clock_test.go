package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMockClock(t *testing.T) {
	start := time.Date(2025, 1, 8, 7, 30, 0, 0, time.UTC)
	c := NewMockClock(start)

	assert.Equal(t, start, c.Now())
	assert.Equal(t, start.UnixMilli(), c.NowUnixMilli())

	c.Advance(2 * time.Hour)
	assert.Equal(t, start.Add(2*time.Hour), c.Now())

	c.Set(start)
	assert.Equal(t, "2025-01-08", Today(c))
}

func TestRealClockMovesForward(t *testing.T) {
	var c Clock = RealClock{}
	a := c.NowUnixMilli()
	time.Sleep(2 * time.Millisecond)
	assert.Greater(t, c.NowUnixMilli(), a)
}
