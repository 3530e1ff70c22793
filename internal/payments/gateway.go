// Package payments settles the fare before a booking is written. The manual
// gateway fabricates a reference; the stripe gateway verifies a hosted checkout.
package payments

import (
	"context"
	"time"

	"shuttlego/internal/clock"
	"shuttlego/internal/utils"
)

// Request describes the charge a booking needs.
type Request struct {
	UserID   string
	Amount   float64
	Currency string
	// Reference is what the client got back from checkout, e.g. a PaymentIntent id.
	Reference string
}

// Gateway returns the payment reference stored on the booking.
type Gateway interface {
	Name() string
	Settle(ctx context.Context, req Request) (string, error)
}

// ManualGateway accepts every request. A client-supplied reference is kept as is.
type ManualGateway struct {
	Clock clock.Clock
}

func (ManualGateway) Name() string { return "manual" }

func (g ManualGateway) Settle(_ context.Context, req Request) (string, error) {
	if req.Reference != "" {
		return req.Reference, nil
	}
	now := time.Now()
	if g.Clock != nil {
		now = g.Clock.Now()
	}
	return utils.ManualPaymentReference(now), nil
}
