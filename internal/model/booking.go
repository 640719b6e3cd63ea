package model

import "time"

// BookingStatus enumerates the lifecycle states of a booking.
// RESERVED, GUESTS_ADDED and PAYMENTS_PENDING are intermediate
// states bounded by the hold window; CONFIRMED follows a successful
// payment; CANCELLED and EXPIRED are terminal and absorbing.
type BookingStatus string

const (
	StatusReserved        BookingStatus = "RESERVED"
	StatusGuestsAdded     BookingStatus = "GUESTS_ADDED"
	StatusPaymentsPending BookingStatus = "PAYMENTS_PENDING"
	StatusConfirmed       BookingStatus = "CONFIRMED"
	StatusCancelled       BookingStatus = "CANCELLED"
	StatusExpired         BookingStatus = "EXPIRED"
)

// Terminal reports whether s is an absorbing state. Terminal
// bookings are never physically removed; they remain as an audit
// trail.
func (s BookingStatus) Terminal() bool {
	return s == StatusCancelled || s == StatusExpired
}

// Booking records a user's reservation of one room category across
// a contiguous, inclusive date range. A booking references exactly
// one run of InventoryDay rows (RoomID x [CheckIn, CheckOut]);
// ledger state is owned by the reservation engine, booking state by
// the lifecycle manager.
//
// Fields:
//  ID               – primary key identifier.
//  UserID           – user who created the booking.
//  HotelID          – hotel being booked.
//  RoomID           – room category being booked.
//  CheckIn          – first night (inclusive, UTC midnight).
//  CheckOut         – last night (inclusive, UTC midnight).
//  RoomsCount       – number of units requested.
//  Status           – lifecycle state, see BookingStatus.
//  AmountCents      – computed total in cents.
//  PaymentSessionID – opaque checkout session handle, if any.
//  CreatedAt        – creation timestamp; anchors the hold window.
//  UpdatedAt        – last update timestamp.
type Booking struct {
	ID               uint64        // bookings.id
	UserID           uint64        // bookings.user_id
	HotelID          uint64        // bookings.hotel_id
	RoomID           uint64        // bookings.room_id
	CheckIn          time.Time     // bookings.check_in
	CheckOut         time.Time     // bookings.check_out
	RoomsCount       int           // bookings.rooms_count
	Status           BookingStatus // bookings.status
	AmountCents      int64         // bookings.amount_cents
	PaymentSessionID *string       // bookings.payment_session_id (nullable)
	CreatedAt        time.Time     // bookings.created_at
	UpdatedAt        time.Time     // bookings.updated_at
}

// Guest is a person staying under a booking. Guests may only be
// attached while the booking is still in RESERVED state.
//
// Fields:
//  ID        – primary key identifier.
//  BookingID – booking the guest belongs to.
//  Name      – guest full name.
//  Age       – guest age in years.
//  Gender    – free-form gender label.
type Guest struct {
	ID        uint64 // guests.id
	BookingID uint64 // guests.booking_id
	Name      string // guests.name
	Age       int    // guests.age
	Gender    string // guests.gender
}
