package payments

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"

	"shuttlego/internal/domain"
	"shuttlego/internal/utils"
)

// intentGetter is the slice of the Stripe client this gateway uses.
type intentGetter func(ctx context.Context, id string) (*stripe.PaymentIntent, error)

// StripeGateway checks that a hosted-checkout PaymentIntent has succeeded for
// the booking's amount before the booking is written.
type StripeGateway struct {
	getIntent intentGetter
}

func NewStripeGateway(apiKey string) *StripeGateway {
	sc := &client.API{}
	sc.Init(apiKey, nil)

	return &StripeGateway{getIntent: func(ctx context.Context, id string) (*stripe.PaymentIntent, error) {
		params := &stripe.PaymentIntentParams{}
		params.Context = ctx
		return sc.PaymentIntents.Get(id, params)
	}}
}

func (*StripeGateway) Name() string { return "stripe" }

func (g *StripeGateway) Settle(ctx context.Context, req Request) (string, error) {
	ref := strings.TrimSpace(req.Reference)
	if ref == "" {
		return "", domain.ValidationError{Field: "payment_reference", Msg: "checkout reference is required"}
	}

	pi, err := g.getIntent(ctx, ref)
	if err != nil {
		return "", mapStripeError(err)
	}
	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return "", domain.ValidationError{Field: "payment_reference", Msg: fmt.Sprintf("payment status is %s", pi.Status)}
	}
	if want := utils.ToCents(req.Amount); pi.Amount < want {
		return "", domain.ValidationError{Field: "payment_reference", Msg: "paid amount is below the fare"}
	}
	if req.Currency != "" && pi.Currency != "" && !strings.EqualFold(string(pi.Currency), req.Currency) {
		return "", domain.ValidationError{Field: "payment_reference", Msg: "currency mismatch"}
	}
	return pi.ID, nil
}

// mapStripeError keeps stripe types out of the services layer.
func mapStripeError(err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		if stripeErr.HTTPStatusCode >= http.StatusInternalServerError {
			return domain.BackendUnavailableError{Op: "stripe", Err: err}
		}
		if stripeErr.HTTPStatusCode == http.StatusNotFound {
			return domain.ValidationError{Field: "payment_reference", Msg: "unknown checkout reference", Err: err}
		}
		return domain.ValidationError{Field: "payment_reference", Msg: stripeErr.Msg, Err: err}
	}
	return domain.BackendUnavailableError{Op: "stripe", Err: err}
}
