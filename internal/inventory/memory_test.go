package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

func seedRange(l *MemoryLedger, roomID uint64, from time.Time, days, total int) {
	for i := 0; i < days; i++ {
		l.Seed(model.InventoryDay{
			RoomID:         roomID,
			Date:           from.AddDate(0, 0, i),
			TotalCount:     total,
			BasePriceCents: 1000,
			SurgeFactor:    1.0,
		})
	}
}

func TestDayAndDaysIn(t *testing.T) {
	from := time.Date(2025, 7, 1, 15, 30, 0, 0, time.UTC)
	to := time.Date(2025, 7, 3, 2, 0, 0, 0, time.UTC)
	if got := DaysIn(from, to); got != 3 {
		t.Fatalf("DaysIn = %d, want 3", got)
	}
	if got := DaysIn(to, from); got != 0 {
		t.Fatalf("DaysIn reversed = %d, want 0", got)
	}
	if d := Day(from); d.Hour() != 0 || d.Location() != time.UTC {
		t.Fatalf("Day did not normalize: %v", d)
	}
}

func TestLockRangeMissingDay(t *testing.T) {
	l := NewMemoryLedger()
	from := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	seedRange(l, 1, from, 2, 5)
	// Day 3 of the range is missing.
	tx, err := l.Begin(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer tx.Rollback()

	if _, err := tx.LockRange(context.Background(), 1, from, from.AddDate(0, 0, 2)); err != ErrRangeUnavailable {
		t.Fatalf("LockRange = %v, want ErrRangeUnavailable", err)
	}
}

func TestReserveCommitPersists(t *testing.T) {
	l := NewMemoryLedger()
	from := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	seedRange(l, 1, from, 3, 5)

	tx, err := l.Begin(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	rows, err := tx.LockRange(context.Background(), 1, from, from.AddDate(0, 0, 2))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tx.Reserve(context.Background(), rows, 2); err != nil {
		t.Fatal(err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		r, ok := l.Get(1, from.AddDate(0, 0, i))
		if !ok || r.ReservedCount != 2 {
			t.Fatalf("day %d: reserved=%d ok=%v, want 2", i, r.ReservedCount, ok)
		}
	}
}

func TestReserveRollbackRestores(t *testing.T) {
	l := NewMemoryLedger()
	from := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	seedRange(l, 1, from, 2, 5)

	tx, _ := l.Begin(context.Background())
	rows, _ := tx.LockRange(context.Background(), 1, from, from.AddDate(0, 0, 1))
	if _, err := tx.Reserve(context.Background(), rows, 3); err != nil {
		t.Fatal(err)
	}
	if err := tx.Rollback(); err != nil {
		t.Fatal(err)
	}

	r, _ := l.Get(1, from)
	if r.ReservedCount != 0 {
		t.Fatalf("reserved=%d after rollback, want 0", r.ReservedCount)
	}
}

func TestReserveInsufficientCapacityTouchesNothing(t *testing.T) {
	l := NewMemoryLedger()
	from := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	seedRange(l, 1, from, 2, 5)
	// Second day is almost full.
	l.Seed(model.InventoryDay{RoomID: 1, Date: from.AddDate(0, 0, 1), TotalCount: 5, ReservedCount: 4, BasePriceCents: 1000, SurgeFactor: 1.0})

	tx, _ := l.Begin(context.Background())
	rows, _ := tx.LockRange(context.Background(), 1, from, from.AddDate(0, 0, 1))
	if _, err := tx.Reserve(context.Background(), rows, 2); err != ErrInsufficientCapacity {
		t.Fatalf("Reserve = %v, want ErrInsufficientCapacity", err)
	}
	tx.Rollback()

	r, _ := l.Get(1, from)
	if r.ReservedCount != 0 {
		t.Fatalf("first day mutated on failed reserve: reserved=%d", r.ReservedCount)
	}
}

func TestReleaseClampsAtZero(t *testing.T) {
	l := NewMemoryLedger()
	from := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	l.Seed(model.InventoryDay{RoomID: 1, Date: from, TotalCount: 5, ReservedCount: 1, BookedCount: 1, BasePriceCents: 1000, SurgeFactor: 1.0})

	tx, _ := l.Begin(context.Background())
	if err := tx.Release(context.Background(), 1, from, from, 3, true); err != nil {
		t.Fatal(err)
	}
	tx.Commit()

	r, _ := l.Get(1, from)
	if r.ReservedCount != 0 || r.BookedCount != 0 {
		t.Fatalf("counters not clamped: reserved=%d booked=%d", r.ReservedCount, r.BookedCount)
	}
}

func TestConfirmMovesToBooked(t *testing.T) {
	l := NewMemoryLedger()
	from := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	l.Seed(model.InventoryDay{RoomID: 1, Date: from, TotalCount: 5, ReservedCount: 2, BasePriceCents: 1000, SurgeFactor: 1.0})

	tx, _ := l.Begin(context.Background())
	if err := tx.Confirm(context.Background(), 1, from, from, 2); err != nil {
		t.Fatal(err)
	}
	tx.Commit()

	r, _ := l.Get(1, from)
	if r.BookedCount != 2 || r.ReservedCount != 2 {
		t.Fatalf("after confirm: reserved=%d booked=%d, want 2 and 2", r.ReservedCount, r.BookedCount)
	}
}
