// Package inventory defines the ledger contract used by the reservation
// engine. The ledger holds per (room, calendar day) capacity counters and
// is the only place where concurrent bookings observe each other: every
// mutation of a date range happens inside a single ledger transaction
// that locks exactly the rows in range, in date-ascending order.
package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// ErrRangeUnavailable is returned by LockRange when at least one day of
// the requested inclusive range has no inventory row, meaning the room
// is not active for the full period.
var ErrRangeUnavailable = errors.New("inventory range unavailable")

// ErrInsufficientCapacity is returned by Reserve when any day in the row
// set cannot accommodate the requested number of rooms. No row in the
// batch is mutated in that case.
var ErrInsufficientCapacity = errors.New("insufficient capacity")

// Ledger opens transactions over inventory rows. Implementations must
// guarantee that two transactions locking overlapping ranges serialize
// against each other, so that concurrent reservations can never jointly
// exceed a day's total capacity.
type Ledger interface {
	Begin(ctx context.Context) (Tx, error)
}

// Tx is a single atomic unit of ledger work. Locks acquired by
// LockRange are held until Commit or Rollback; callers must not keep a
// transaction open across slow external calls such as payment gateways.
type Tx interface {
	// LockRange acquires an exclusive hold on every day in the
	// inclusive [from, to] range for the room and returns the rows
	// ordered by date ascending. It fails with ErrRangeUnavailable
	// when any day is missing.
	LockRange(ctx context.Context, roomID uint64, from, to time.Time) ([]model.InventoryDay, error)

	// Reserve increments ReservedCount by roomsCount on every row,
	// all-or-nothing. The rows must have been locked by LockRange in
	// this transaction. It fails with ErrInsufficientCapacity when any
	// row would exceed its TotalCount, leaving every row untouched.
	Reserve(ctx context.Context, rows []model.InventoryDay, roomsCount int) ([]model.InventoryDay, error)

	// Release decrements ReservedCount (and BookedCount when
	// releaseBooked is set) by roomsCount across the range, clamped at
	// zero so that releasing an already-released range is a no-op.
	Release(ctx context.Context, roomID uint64, from, to time.Time, roomsCount int, releaseBooked bool) error

	// Confirm moves roomsCount held units into BookedCount across the
	// range after a successful payment.
	Confirm(ctx context.Context, roomID uint64, from, to time.Time, roomsCount int) error

	Commit() error
	Rollback() error
}

// Day truncates t to a UTC calendar date. All ledger keys and range
// bounds are normalized through this helper.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysIn returns the number of calendar days in the inclusive
// [from, to] range, or 0 when to precedes from.
func DaysIn(from, to time.Time) int {
	from, to = Day(from), Day(to)
	if to.Before(from) {
		return 0
	}
	return int(to.Sub(from)/(24*time.Hour)) + 1
}
