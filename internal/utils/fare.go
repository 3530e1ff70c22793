package utils

import (
	"math"

	"shuttlego/internal/domain/models"
)

const (
	accessibilityDiscountPct = 10
	insuranceFeeCents        = 200
)

// FareOptions are the booking options that move the price.
type FareOptions struct {
	Accessibility bool
	Insurance     bool
}

// ComputeFare applies the fare rule: 10% off for accessibility, a flat 2.00 for insurance,
// and a total never below zero. Arithmetic runs in cents so 5.00 - 0.50 + 2.00 is exactly 6.50.
func ComputeFare(baseFare float64, opts FareOptions) models.FareBreakdown {
	base := ToCents(baseFare)

	var discount, fee int64
	if opts.Accessibility {
		discount = int64(math.Round(float64(base*accessibilityDiscountPct) / 100))
	}
	if opts.Insurance {
		fee = insuranceFeeCents
	}

	total := base - discount + fee
	if total < 0 {
		total = 0
	}

	return models.FareBreakdown{
		BaseFare:  FromCents(base),
		Discounts: FromCents(discount),
		Fees:      FromCents(fee),
		Total:     FromCents(total),
	}
}

// FareForRoute prices a booking on r, falling back to the default fare when the route has none.
func FareForRoute(r models.Route, prefs models.Preferences) models.FareBreakdown {
	return ComputeFare(r.EffectiveFare(), FareOptions{
		Accessibility: prefs.Accessibility,
		Insurance:     prefs.Insurance,
	})
}
