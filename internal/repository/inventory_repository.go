package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/hotel-reservation/internal/inventory"
	"github.com/iliyamo/hotel-reservation/internal/model"
)

// InventoryRepo is the MySQL implementation of the inventory ledger.
// A ledger transaction maps directly onto a sql.Tx; LockRange issues a
// SELECT ... FOR UPDATE over exactly the rows in range, ordered by
// date ascending, so two reservations racing for overlapping ranges
// always acquire their row locks in the same order and one of them
// waits. Counter mutations are single UPDATE statements over the same
// range and therefore all-or-nothing.
type InventoryRepo struct {
	db *sql.DB
}

// NewInventoryRepo returns an InventoryRepo bound to the given database.
func NewInventoryRepo(db *sql.DB) *InventoryRepo { return &InventoryRepo{db: db} }

// Begin opens a ledger transaction.
func (r *InventoryRepo) Begin(ctx context.Context) (inventory.Tx, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &inventoryTx{tx: tx}, nil
}

type inventoryTx struct {
	tx *sql.Tx
}

const inventoryCols = "id, hotel_id, room_id, date, total_count, reserved_count, booked_count, surge_factor, base_price_cents, created_at, updated_at"

func scanInventoryDay(rows *sql.Rows) (model.InventoryDay, error) {
	var d model.InventoryDay
	err := rows.Scan(&d.ID, &d.HotelID, &d.RoomID, &d.Date, &d.TotalCount, &d.ReservedCount,
		&d.BookedCount, &d.SurgeFactor, &d.BasePriceCents, &d.CreatedAt, &d.UpdatedAt)
	return d, err
}

// LockRange acquires exclusive row locks over every inventory day of
// the room in the inclusive [from, to] range. The locks are held until
// the transaction ends. When fewer rows exist than the range has days,
// the room is not active for the full period and
// inventory.ErrRangeUnavailable is returned.
func (t *inventoryTx) LockRange(ctx context.Context, roomID uint64, from, to time.Time) ([]model.InventoryDay, error) {
	const q = `SELECT ` + inventoryCols + `
	           FROM room_inventory
	           WHERE room_id = ? AND date BETWEEN ? AND ?
	           ORDER BY date ASC
	           FOR UPDATE`
	rows, err := t.tx.QueryContext(ctx, q, roomID, day(from), day(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.InventoryDay, 0, inventory.DaysIn(from, to))
	for rows.Next() {
		d, err := scanInventoryDay(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) != inventory.DaysIn(from, to) {
		return nil, inventory.ErrRangeUnavailable
	}
	return out, nil
}

// Reserve checks capacity on every locked row and then increments
// reserved_count across the whole range in one statement. The check
// happens on the already-locked snapshot, so no other transaction can
// change the counters in between.
func (t *inventoryTx) Reserve(ctx context.Context, rowsIn []model.InventoryDay, roomsCount int) ([]model.InventoryDay, error) {
	if len(rowsIn) == 0 {
		return nil, inventory.ErrRangeUnavailable
	}
	for _, d := range rowsIn {
		if d.ReservedCount+roomsCount > d.TotalCount {
			return nil, inventory.ErrInsufficientCapacity
		}
	}
	first, last := rowsIn[0], rowsIn[len(rowsIn)-1]
	const q = `UPDATE room_inventory
	           SET reserved_count = reserved_count + ?
	           WHERE room_id = ? AND date BETWEEN ? AND ?`
	if _, err := t.tx.ExecContext(ctx, q, roomsCount, first.RoomID, day(first.Date), day(last.Date)); err != nil {
		return nil, err
	}
	out := make([]model.InventoryDay, len(rowsIn))
	for i, d := range rowsIn {
		d.ReservedCount += roomsCount
		out[i] = d
	}
	return out, nil
}

// Release decrements reserved_count (and booked_count when requested)
// across the range, clamped at zero. GREATEST keeps the operation
// idempotent against ranges that were already released or only
// partially reserved.
func (t *inventoryTx) Release(ctx context.Context, roomID uint64, from, to time.Time, roomsCount int, releaseBooked bool) error {
	set := "reserved_count = GREATEST(reserved_count - ?, 0)"
	args := []any{roomsCount}
	if releaseBooked {
		set += ", booked_count = GREATEST(booked_count - ?, 0)"
		args = append(args, roomsCount)
	}
	q := "UPDATE room_inventory SET " + set + " WHERE room_id = ? AND date BETWEEN ? AND ?"
	args = append(args, roomID, day(from), day(to))
	_, err := t.tx.ExecContext(ctx, q, args...)
	return err
}

// Confirm moves held units into booked state across the range.
func (t *inventoryTx) Confirm(ctx context.Context, roomID uint64, from, to time.Time, roomsCount int) error {
	const q = `UPDATE room_inventory
	           SET booked_count = booked_count + ?
	           WHERE room_id = ? AND date BETWEEN ? AND ?`
	_, err := t.tx.ExecContext(ctx, q, roomsCount, roomID, day(from), day(to))
	return err
}

func (t *inventoryTx) Commit() error   { return t.tx.Commit() }
func (t *inventoryTx) Rollback() error { return t.tx.Rollback() }

// day formats a timestamp as the DATE column value.
func day(tm time.Time) string {
	return inventory.Day(tm).Format("2006-01-02")
}

// InitializeRoom creates one inventory row per day for the given
// forward horizon, starting today. Base price and capacity are
// snapshotted from the room; the surge factor starts at 1.0. Rows are
// inserted in batches; INSERT IGNORE keeps re-activation idempotent on
// the (room_id, date) unique key.
func (r *InventoryRepo) InitializeRoom(ctx context.Context, rm *model.Room, horizonDays int) error {
	const batch = 90
	start := inventory.Day(time.Now().UTC())
	for offset := 0; offset < horizonDays; offset += batch {
		n := batch
		if offset+n > horizonDays {
			n = horizonDays - offset
		}
		q := "INSERT IGNORE INTO room_inventory (hotel_id, room_id, date, total_count, reserved_count, booked_count, surge_factor, base_price_cents) VALUES "
		args := make([]any, 0, n*8)
		placeholders := make([]string, 0, n)
		for i := 0; i < n; i++ {
			d := start.AddDate(0, 0, offset+i)
			placeholders = append(placeholders, "(?, ?, ?, ?, 0, 0, 1.0, ?)")
			args = append(args, rm.HotelID, rm.ID, d.Format("2006-01-02"), rm.TotalCount, rm.BasePriceCents)
		}
		q += strings.Join(placeholders, ",")
		if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
			return err
		}
	}
	return nil
}

// DeleteByRoom removes all inventory rows of a room. Used when the
// room itself is deleted.
func (r *InventoryRepo) DeleteByRoom(ctx context.Context, roomID uint64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM room_inventory WHERE room_id = ?", roomID)
	return err
}

// SetSurgeFactor updates the demand multiplier for one room/day. The
// demand signal arrives from outside the reservation core.
func (r *InventoryRepo) SetSurgeFactor(ctx context.Context, roomID uint64, date time.Time, factor float64) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE room_inventory SET surge_factor = ? WHERE room_id = ? AND date = ?",
		factor, roomID, day(date))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return inventory.ErrRangeUnavailable
	}
	return nil
}
