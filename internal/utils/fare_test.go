package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"shuttlego/internal/domain/models"
)

func TestComputeFare(t *testing.T) {
	cases := []struct {
		name  string
		base  float64
		opts  FareOptions
		total float64
	}{
		{"plain", 5.00, FareOptions{}, 5.00},
		{"accessibility", 5.00, FareOptions{Accessibility: true}, 4.50},
		{"insurance", 5.00, FareOptions{Insurance: true}, 7.00},
		{"both", 5.00, FareOptions{Accessibility: true, Insurance: true}, 6.50},
		{"odd cents", 3.35, FareOptions{Accessibility: true}, 3.01},
		{"negative base clamps", -4.00, FareOptions{}, 0},
		{"negative base absorbs insurance", -10.00, FareOptions{Insurance: true}, 0},
		{"negative base partly offsets insurance", -1.50, FareOptions{Insurance: true}, 0.50},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeFare(tc.base, tc.opts)
			assert.Equal(t, tc.total, got.Total)
			assert.GreaterOrEqual(t, got.Total, 0.0)
		})
	}
}

func TestFareForRoute_DefaultsWhenUnset(t *testing.T) {
	got := FareForRoute(models.Route{ID: "r1"}, models.Preferences{})
	assert.Equal(t, 5.00, got.BaseFare)
	assert.Equal(t, 5.00, got.Total)

	got = FareForRoute(models.Route{ID: "r2", BaseFare: 4.00}, models.Preferences{Insurance: true})
	assert.Equal(t, 6.00, got.Total)
}

func TestBoardingToken(t *testing.T) {
	now := time.UnixMilli(1760000000123)
	tok := BoardingToken(now)
	assert.True(t, strings.HasPrefix(tok, "SHUTTLEGO-1760000000123-"))
	assert.Regexp(t, `^SHUTTLEGO-\d+-[0-9a-z]{9}$`, tok)
	assert.NotEqual(t, tok, BoardingToken(now))
}

func TestFormatCedi(t *testing.T) {
	assert.Equal(t, "GH₵ 6.50", FormatCedi(6.5))
	assert.Equal(t, "-GH₵ 1.00", FormatCedi(-1))
}
