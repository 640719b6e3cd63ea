package payment

import (
	"context"
	"fmt"

	stripe "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/customer"
	"github.com/stripe/stripe-go/v76/refund"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// StripeGateway implements Gateway on top of Stripe Checkout. Amounts
// are forwarded in the smallest currency unit, which is what the
// booking core already computes.
type StripeGateway struct {
	currency string
}

// NewStripeGateway configures the global Stripe client key and returns
// a gateway charging in the given currency (e.g. "usd").
func NewStripeGateway(apiKey, currency string) *StripeGateway {
	stripe.Key = apiKey
	return &StripeGateway{currency: currency}
}

// CreateSession creates a Stripe customer for the booking user and a
// payment-mode checkout session for the booking amount.
func (g *StripeGateway) CreateSession(ctx context.Context, b *model.Booking, user model.User, successURL, failureURL string) (Session, error) {
	custParams := &stripe.CustomerParams{
		Name:  stripe.String(user.Name),
		Email: stripe.String(user.Email),
	}
	custParams.Context = ctx
	cust, err := customer.New(custParams)
	if err != nil {
		return Session{}, fmt.Errorf("%w: create customer: %v", ErrGatewayFailure, err)
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		Customer:   stripe.String(cust.ID),
		SuccessURL: stripe.String(successURL),
		CancelURL:  stripe.String(failureURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Quantity: stripe.Int64(1),
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(g.currency),
					UnitAmount: stripe.Int64(b.AmountCents),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(fmt.Sprintf("Hotel booking #%d", b.ID)),
						Description: stripe.String(fmt.Sprintf("%d room(s), %s to %s", b.RoomsCount, b.CheckIn.Format("2006-01-02"), b.CheckOut.Format("2006-01-02"))),
					},
				},
			},
		},
	}
	params.Context = ctx
	s, err := session.New(params)
	if err != nil {
		return Session{}, fmt.Errorf("%w: create session: %v", ErrGatewayFailure, err)
	}
	return Session{ID: s.ID, URL: s.URL}, nil
}

// RetrieveSession loads a checkout session and returns its payment
// intent reference.
func (g *StripeGateway) RetrieveSession(ctx context.Context, sessionID string) (string, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	s, err := session.Get(sessionID, params)
	if err != nil {
		return "", fmt.Errorf("%w: retrieve session: %v", ErrGatewayFailure, err)
	}
	if s.PaymentIntent == nil {
		return "", fmt.Errorf("%w: session %s has no payment intent", ErrGatewayFailure, sessionID)
	}
	return s.PaymentIntent.ID, nil
}

// Refund refunds the full payment intent.
func (g *StripeGateway) Refund(ctx context.Context, paymentIntent string) (string, error) {
	params := &stripe.RefundParams{PaymentIntent: stripe.String(paymentIntent)}
	params.Context = ctx
	r, err := refund.New(params)
	if err != nil {
		return "", fmt.Errorf("%w: refund: %v", ErrGatewayFailure, err)
	}
	return r.ID, nil
}
