package booking

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/payment"
)

// HoldWindow is how long a booking may sit in a non-terminal,
// pre-confirmation state before it expires and its ledger hold is
// given back.
const HoldWindow = 10 * time.Minute

// Store is the booking/guest persistence the manager needs. The SQL
// implementation lives in the repository package; tests use an
// in-memory fake.
type Store interface {
	CreateBooking(ctx context.Context, b *model.Booking) error
	GetBooking(ctx context.Context, id uint64) (*model.Booking, error)
	GetBookingBySession(ctx context.Context, sessionID string) (*model.Booking, error)
	// UpdateBookingStatusIf atomically moves a booking to the given
	// status only when its current status is one of from. It reports
	// whether the update happened, which makes status changes safe
	// against concurrent transitions (expiry vs. payment, double
	// cancellation, and so on).
	UpdateBookingStatusIf(ctx context.Context, id uint64, to model.BookingStatus, from ...model.BookingStatus) (bool, error)
	SetPaymentSession(ctx context.Context, id uint64, sessionID string) error
	AddGuests(ctx context.Context, bookingID uint64, guests []model.Guest) error
}

// UserDirectory resolves the identity details the checkout gateway
// needs. Caller identity itself is always passed explicitly as a
// userID argument; there is no ambient security context.
type UserDirectory interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// InitiateRequest carries the parameters of a new booking.
type InitiateRequest struct {
	HotelID    uint64
	RoomID     uint64
	CheckIn    time.Time
	CheckOut   time.Time
	RoomsCount int
}

// Manager owns the booking lifecycle. It asks the engine to hold and
// release ledger ranges, the pricing result arrives through the
// engine, and the checkout gateway is only ever called after ledger
// work has committed.
type Manager struct {
	store   Store
	users   UserDirectory
	engine  *Engine
	gateway payment.Gateway
	now     func() time.Time
}

// NewManager wires a lifecycle manager. The now function exists so
// tests can control the clock; pass time.Now in production.
func NewManager(store Store, users UserDirectory, engine *Engine, gateway payment.Gateway, now func() time.Time) *Manager {
	if now == nil {
		now = time.Now
	}
	return &Manager{store: store, users: users, engine: engine, gateway: gateway, now: now}
}

// Initiate reserves the requested range, prices it and persists a new
// booking in RESERVED state owned by userID. When persisting fails the
// just-reserved range is released again so no orphan hold remains.
func (m *Manager) Initiate(ctx context.Context, userID uint64, req InitiateRequest) (*model.Booking, error) {
	_, total, err := m.engine.ReserveRange(ctx, req.RoomID, req.CheckIn, req.CheckOut, req.RoomsCount)
	if err != nil {
		return nil, err
	}

	b := &model.Booking{
		UserID:      userID,
		HotelID:     req.HotelID,
		RoomID:      req.RoomID,
		CheckIn:     req.CheckIn,
		CheckOut:    req.CheckOut,
		RoomsCount:  req.RoomsCount,
		Status:      model.StatusReserved,
		AmountCents: total,
	}
	if err := m.store.CreateBooking(ctx, b); err != nil {
		if relErr := m.engine.ReleaseRange(ctx, req.RoomID, req.CheckIn, req.CheckOut, req.RoomsCount, false); relErr != nil {
			log.Printf("booking: compensating release after failed create: %v", relErr)
		}
		return nil, err
	}
	return b, nil
}

// AddGuests attaches guests to a RESERVED booking owned by userID and
// advances it to GUESTS_ADDED.
func (m *Manager) AddGuests(ctx context.Context, userID, bookingID uint64, guests []model.Guest) (*model.Booking, error) {
	b, err := m.guarded(ctx, userID, bookingID)
	if err != nil {
		return nil, err
	}
	next, err := Next(b.Status, ActionAddGuests)
	if err != nil {
		return nil, err
	}
	// Win the status swap before touching the guests table so a lost
	// race cannot leave guest rows on a booking that stayed RESERVED.
	swapped, err := m.store.UpdateBookingStatusIf(ctx, b.ID, next, b.Status)
	if err != nil {
		return nil, err
	}
	if !swapped {
		return nil, ErrInvalidState
	}
	if err := m.store.AddGuests(ctx, b.ID, guests); err != nil {
		if _, backErr := m.store.UpdateBookingStatusIf(ctx, b.ID, b.Status, next); backErr != nil {
			log.Printf("booking: revert status after failed guest insert: %v", backErr)
		}
		return nil, err
	}
	b.Status = next
	return b, nil
}

// InitiatePayment opens a checkout session for the booking amount,
// stores the opaque session handle and moves the booking to
// PAYMENTS_PENDING. The gateway round-trip happens after the guard
// checks and holds no ledger locks.
func (m *Manager) InitiatePayment(ctx context.Context, userID, bookingID uint64, successURL, failureURL string) (string, error) {
	b, err := m.guarded(ctx, userID, bookingID)
	if err != nil {
		return "", err
	}
	next, err := Next(b.Status, ActionInitiatePayment)
	if err != nil {
		return "", err
	}
	user, err := m.users.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	sess, err := m.gateway.CreateSession(ctx, b, user, successURL, failureURL)
	if err != nil {
		return "", err
	}
	if err := m.store.SetPaymentSession(ctx, b.ID, sess.ID); err != nil {
		return "", err
	}
	swapped, err := m.store.UpdateBookingStatusIf(ctx, b.ID, next, b.Status)
	if err != nil {
		return "", err
	}
	if !swapped {
		return "", ErrInvalidState
	}
	return sess.URL, nil
}

// ConfirmPayment is driven by the payment provider's success signal.
// It moves the booking from PAYMENTS_PENDING to CONFIRMED and turns
// the ledger hold into booked units. There is no caller identity here;
// the session ID is the credential.
func (m *Manager) ConfirmPayment(ctx context.Context, sessionID string) (*model.Booking, error) {
	b, err := m.store.GetBookingBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	next, err := Next(b.Status, ActionConfirmPayment)
	if err != nil {
		return nil, err
	}
	swapped, err := m.store.UpdateBookingStatusIf(ctx, b.ID, next, model.StatusPaymentsPending)
	if err != nil {
		return nil, err
	}
	if !swapped {
		return nil, ErrInvalidState
	}
	if err := m.engine.ConfirmRange(ctx, b.RoomID, b.CheckIn, b.CheckOut, b.RoomsCount); err != nil {
		return nil, err
	}
	b.Status = next
	return b, nil
}

// Cancel cancels a CONFIRMED booking owned by userID. The ledger
// release and the status change commit first and are the source of
// truth; the refund is requested afterwards, best-effort. A refund
// failure is reported as payment.ErrGatewayFailure but never rolls
// back the cancellation.
func (m *Manager) Cancel(ctx context.Context, userID, bookingID uint64) error {
	b, err := m.store.GetBooking(ctx, bookingID)
	if err != nil {
		return err
	}
	if b.UserID != userID {
		return ErrUnauthorized
	}
	next, err := Next(b.Status, ActionCancel)
	if err != nil {
		return err
	}
	swapped, err := m.store.UpdateBookingStatusIf(ctx, b.ID, next, model.StatusConfirmed)
	if err != nil {
		return err
	}
	if !swapped {
		return ErrInvalidState
	}
	if err := m.engine.ReleaseRange(ctx, b.RoomID, b.CheckIn, b.CheckOut, b.RoomsCount, true); err != nil {
		return err
	}

	if b.PaymentSessionID == nil {
		return fmt.Errorf("%w: no payment session recorded for booking %d", payment.ErrGatewayFailure, b.ID)
	}
	intent, err := m.gateway.RetrieveSession(ctx, *b.PaymentSessionID)
	if err != nil {
		return err
	}
	if _, err := m.gateway.Refund(ctx, intent); err != nil {
		return err
	}
	return nil
}

// Status returns the booking status for its owner, applying the lazy
// expiry check first so a stale RESERVED booking reads as EXPIRED.
func (m *Manager) Status(ctx context.Context, userID, bookingID uint64) (model.BookingStatus, error) {
	b, err := m.store.GetBooking(ctx, bookingID)
	if err != nil {
		return "", err
	}
	if b.UserID != userID {
		return "", ErrUnauthorized
	}
	if m.expireIfStale(ctx, b) {
		return model.StatusExpired, nil
	}
	return b.Status, nil
}

// Expire applies the expiry check to one booking. It is the entry
// point for the background sweep; request paths hit the same logic
// lazily through Status and guarded. Reports whether the booking is
// now expired.
func (m *Manager) Expire(ctx context.Context, bookingID uint64) (bool, error) {
	b, err := m.store.GetBooking(ctx, bookingID)
	if err != nil {
		return false, err
	}
	return m.expireIfStale(ctx, b), nil
}

// guarded loads a booking and enforces the common preconditions of
// owner-driven transitions: ownership and the hold window. When the
// window has elapsed the compensating release runs before ErrExpired
// is returned.
func (m *Manager) guarded(ctx context.Context, userID, bookingID uint64) (*model.Booking, error) {
	b, err := m.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, ErrUnauthorized
	}
	if m.expireIfStale(ctx, b) {
		return nil, ErrExpired
	}
	return b, nil
}

// expireIfStale applies lazy expiry. The conditional status update is
// what makes the ledger release exactly-once: whichever caller wins
// the swap performs the release, every other caller just observes
// EXPIRED.
func (m *Manager) expireIfStale(ctx context.Context, b *model.Booking) bool {
	if b.Status.Terminal() || b.Status == model.StatusConfirmed {
		return false
	}
	if m.now().Before(b.CreatedAt.Add(HoldWindow)) {
		return false
	}
	swapped, err := m.store.UpdateBookingStatusIf(ctx, b.ID, model.StatusExpired,
		model.StatusReserved, model.StatusGuestsAdded, model.StatusPaymentsPending)
	if err != nil {
		log.Printf("booking: expiry status update for %d: %v", b.ID, err)
		return true
	}
	if swapped {
		if err := m.engine.ReleaseRange(ctx, b.RoomID, b.CheckIn, b.CheckOut, b.RoomsCount, false); err != nil {
			log.Printf("booking: expiry release for %d: %v", b.ID, err)
		}
		b.Status = model.StatusExpired
		return true
	}
	// Lost the swap: a concurrent transition got there first. Re-read
	// instead of assuming EXPIRED; the winner may have confirmed the
	// booking.
	cur, err := m.store.GetBooking(ctx, b.ID)
	if err != nil {
		log.Printf("booking: reload after lost expiry swap for %d: %v", b.ID, err)
		return true
	}
	b.Status = cur.Status
	return b.Status == model.StatusExpired
}
