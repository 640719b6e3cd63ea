// Package booking implements the reservation core: the engine that
// atomically reserves date ranges against the inventory ledger and the
// manager that drives a booking through its lifecycle.
package booking

import "errors"

// ErrIncomplete is returned when a date range cannot be locked or
// reserved in full. Partial-period reservations are never permitted;
// a failed attempt leaves no ledger mutation behind.
var ErrIncomplete = errors.New("room not available for the full period")

// ErrInvalidState is returned when a lifecycle transition is attempted
// from a status that does not permit it.
var ErrInvalidState = errors.New("invalid booking state for this operation")

// ErrExpired is returned when a guarded operation finds the hold
// window elapsed. The compensating ledger release has already been
// performed by the time the error is returned.
var ErrExpired = errors.New("booking has expired")

// ErrUnauthorized is returned when the caller does not own the
// booking being operated on.
var ErrUnauthorized = errors.New("booking does not belong to this user")

// ErrBookingNotFound is returned when the referenced booking does not
// exist.
var ErrBookingNotFound = errors.New("booking not found")
