// Package payment defines the checkout gateway capability the booking
// lifecycle depends on, and its Stripe implementation. The core treats
// the gateway as opaque: it hands over a finalized amount and stores
// whatever session handle comes back.
package payment

import (
	"context"
	"errors"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// ErrGatewayFailure wraps any checkout gateway error so callers can
// distinguish external payment failures from internal ones. A failed
// refund during cancellation surfaces as this error while the
// cancellation itself stays committed.
var ErrGatewayFailure = errors.New("checkout gateway failure")

// Session is the opaque handle returned when a checkout session is
// created: the provider-side ID stored on the booking and the URL the
// client is redirected to.
type Session struct {
	ID  string
	URL string
}

// Gateway is the capability interface for an external checkout
// provider. Implementations must not be called while ledger row locks
// are held; gateway round-trips happen outside ledger transactions.
type Gateway interface {
	// CreateSession opens a checkout session for the booking's amount
	// on behalf of the user and returns its handle.
	CreateSession(ctx context.Context, b *model.Booking, user model.User, successURL, failureURL string) (Session, error)

	// RetrieveSession resolves a session ID to the provider's payment
	// intent reference, needed to issue a refund.
	RetrieveSession(ctx context.Context, sessionID string) (paymentIntent string, err error)

	// Refund requests a refund of the full payment intent and returns
	// the provider's refund reference.
	Refund(ctx context.Context, paymentIntent string) (refundID string, err error)
}
