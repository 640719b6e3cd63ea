package inventory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// MemoryLedger is an in-process Ledger backed by a map. A single mutex
// is held for the whole lifetime of a transaction, which serializes
// overlapping range mutations exactly like row locks do in the SQL
// implementation. It backs the core tests and small deployments that
// run without a database.
type MemoryLedger struct {
	mu   sync.Mutex
	rows map[string]*model.InventoryDay
}

// NewMemoryLedger returns an empty in-memory ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{rows: make(map[string]*model.InventoryDay)}
}

func key(roomID uint64, d time.Time) string {
	return fmt.Sprintf("%d/%s", roomID, Day(d).Format("2006-01-02"))
}

// Seed inserts or replaces inventory rows outside of any transaction.
// Dates are normalized to UTC midnight.
func (l *MemoryLedger) Seed(rows ...model.InventoryDay) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, r := range rows {
		r.Date = Day(r.Date)
		cp := r
		l.rows[key(r.RoomID, r.Date)] = &cp
	}
}

// Get returns a copy of the row for the given room and day, if present.
func (l *MemoryLedger) Get(roomID uint64, d time.Time) (model.InventoryDay, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	r, ok := l.rows[key(roomID, d)]
	if !ok {
		return model.InventoryDay{}, false
	}
	return *r, true
}

// Begin locks the ledger until the returned transaction commits or
// rolls back. A full snapshot of the current state is taken so that
// Rollback can restore it.
func (l *MemoryLedger) Begin(ctx context.Context) (Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.Lock()
	snap := make(map[string]model.InventoryDay, len(l.rows))
	for k, v := range l.rows {
		snap[k] = *v
	}
	return &memoryTx{ledger: l, snapshot: snap}, nil
}

type memoryTx struct {
	ledger   *MemoryLedger
	snapshot map[string]model.InventoryDay
	done     bool
}

func (t *memoryTx) LockRange(ctx context.Context, roomID uint64, from, to time.Time) ([]model.InventoryDay, error) {
	from, to = Day(from), Day(to)
	want := DaysIn(from, to)
	rows := make([]model.InventoryDay, 0, want)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		r, ok := t.ledger.rows[key(roomID, d)]
		if !ok {
			return nil, ErrRangeUnavailable
		}
		rows = append(rows, *r)
	}
	return rows, nil
}

func (t *memoryTx) Reserve(ctx context.Context, rows []model.InventoryDay, roomsCount int) ([]model.InventoryDay, error) {
	for _, r := range rows {
		if r.ReservedCount+roomsCount > r.TotalCount {
			return nil, ErrInsufficientCapacity
		}
	}
	out := make([]model.InventoryDay, 0, len(rows))
	for _, r := range rows {
		stored := t.ledger.rows[key(r.RoomID, r.Date)]
		stored.ReservedCount += roomsCount
		out = append(out, *stored)
	}
	return out, nil
}

func (t *memoryTx) Release(ctx context.Context, roomID uint64, from, to time.Time, roomsCount int, releaseBooked bool) error {
	from, to = Day(from), Day(to)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		r, ok := t.ledger.rows[key(roomID, d)]
		if !ok {
			continue // partially reserved range: clean up only what exists
		}
		r.ReservedCount -= roomsCount
		if r.ReservedCount < 0 {
			r.ReservedCount = 0
		}
		if releaseBooked {
			r.BookedCount -= roomsCount
			if r.BookedCount < 0 {
				r.BookedCount = 0
			}
		}
	}
	return nil
}

func (t *memoryTx) Confirm(ctx context.Context, roomID uint64, from, to time.Time, roomsCount int) error {
	from, to = Day(from), Day(to)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		r, ok := t.ledger.rows[key(roomID, d)]
		if !ok {
			return ErrRangeUnavailable
		}
		r.BookedCount += roomsCount
	}
	return nil
}

func (t *memoryTx) Commit() error {
	if t.done {
		return nil
	}
	t.done = true
	t.snapshot = nil
	t.ledger.mu.Unlock()
	return nil
}

func (t *memoryTx) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	rows := make(map[string]*model.InventoryDay, len(t.snapshot))
	for k, v := range t.snapshot {
		cp := v
		rows[k] = &cp
	}
	t.ledger.rows = rows
	t.ledger.mu.Unlock()
	return nil
}
