package booking

import (
	"context"
	"errors"
	"time"

	"github.com/iliyamo/hotel-reservation/internal/inventory"
	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/pricing"
)

// Engine orchestrates multi-day reservations against the ledger. Every
// operation runs as one ledger transaction: lock the full range, check
// it is complete, mutate, price, commit. Either all days of a range are
// reserved or none are; a second request racing for the same rows waits
// on the range lock and then sees the updated counters.
type Engine struct {
	ledger inventory.Ledger
	pricer *pricing.Pipeline
}

// NewEngine wires an engine to its ledger and pricing pipeline.
func NewEngine(ledger inventory.Ledger, pricer *pricing.Pipeline) *Engine {
	return &Engine{ledger: ledger, pricer: pricer}
}

// ReserveRange locks and reserves roomsCount units on every day of the
// inclusive [from, to] range and prices the reserved rows. On any
// failure the transaction rolls back, so nothing is held. It returns
// the reserved rows in date order and the total amount in cents.
func (e *Engine) ReserveRange(ctx context.Context, roomID uint64, from, to time.Time, roomsCount int) ([]model.InventoryDay, int64, error) {
	expected := inventory.DaysIn(from, to)
	if expected == 0 {
		return nil, 0, ErrIncomplete
	}

	tx, err := e.ledger.Begin(ctx)
	if err != nil {
		return nil, 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	rows, err := tx.LockRange(ctx, roomID, from, to)
	if err != nil {
		if errors.Is(err, inventory.ErrRangeUnavailable) {
			return nil, 0, ErrIncomplete
		}
		return nil, 0, err
	}
	if len(rows) != expected {
		return nil, 0, ErrIncomplete
	}

	reserved, err := tx.Reserve(ctx, rows, roomsCount)
	if err != nil {
		return nil, 0, err
	}
	if len(reserved) != expected {
		return nil, 0, ErrIncomplete
	}

	total := e.pricer.TotalCents(reserved, roomsCount)
	if err := tx.Commit(); err != nil {
		return nil, 0, err
	}
	committed = true
	return reserved, total, nil
}

// ReleaseRange gives back roomsCount held units across the range. It
// is used by cancellation and expiry and tolerates ranges that were
// only partially reserved by a failed attempt: counters are clamped at
// zero and missing days are skipped.
func (e *Engine) ReleaseRange(ctx context.Context, roomID uint64, from, to time.Time, roomsCount int, releaseBooked bool) error {
	tx, err := e.ledger.Begin(ctx)
	if err != nil {
		return err
	}
	if err := tx.Release(ctx, roomID, from, to, roomsCount, releaseBooked); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// ConfirmRange moves roomsCount units from reserved to booked across
// the range after payment succeeds.
func (e *Engine) ConfirmRange(ctx context.Context, roomID uint64, from, to time.Time, roomsCount int) error {
	tx, err := e.ledger.Begin(ctx)
	if err != nil {
		return err
	}
	if err := tx.Confirm(ctx, roomID, from, to, roomsCount); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
